package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/gateway"
)

// State of the edit session.
type State int

const (
	Viewing State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrBusy rejects mutation while a save is in flight.
	ErrBusy = errors.New("save in progress")
	// ErrNotEditing rejects mutation outside Editing state.
	ErrNotEditing = errors.New("not in editing mode")
	// ErrNoPendingDelete rejects ConfirmDelete without a prior RequestDelete.
	ErrNoPendingDelete = errors.New("no delete pending confirmation")
	// ErrUnknownCommand rejects commands the session does not recognize.
	ErrUnknownCommand = errors.New("unknown command")
)

// TransportMessage is the fixed user-facing text for any transport
// failure; gateway rejections surface their message verbatim instead.
const TransportMessage = "Network error. Please try again."

// NoticeKind distinguishes confirmations from errors in the UI.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a user-visible message produced by a command or an outcome.
// No failure path is silent: every failed gateway call yields one.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func errNotice(format string, args ...any) *Notice {
	return &Notice{Kind: NoticeError, Message: fmt.Sprintf(format, args...)}
}

// Effect is what a command or outcome asks the caller to do next: run
// the pending gateway calls (concurrently is fine) and show the notice.
type Effect struct {
	Pending []*Pending
	Notice  *Notice
}

// Pending is one dispatched gateway call. Do blocks, so the caller runs
// it off the event loop and feeds the Outcome back through Resolve.
type Pending struct {
	Op  string
	run func(ctx context.Context) Outcome
}

func (p *Pending) Do(ctx context.Context) Outcome {
	return p.run(ctx)
}

// Outcome is the completion of a Pending. It is opaque to the caller;
// only Resolve interprets it.
type Outcome struct {
	op      string
	err     error
	started time.Time

	// field / rename reconciliation
	itemID int64
	areaID int64
	field  domain.Field
	sent   string // value this request carried
	prev   string // pre-edit value, for revert

	fieldResult  *gateway.FieldResult
	deleteResult *gateway.DeleteResult
	saveResult   *gateway.SaveResult
	loaded       *domain.WorkOrder
}

// Err exposes the gateway error, mostly for logging by the caller.
func (o Outcome) Err() error { return o.err }

// Op names the operation that completed.
func (o Outcome) Op() string { return o.op }

// Session drives one work order through view/edit/save. Not safe for
// concurrent use: Execute and Resolve must run on a single event loop,
// matching the single-writer discipline the document requires.
type Session struct {
	gw  gateway.Client
	obs Observer

	workOrderID int64
	doc         *domain.WorkOrder

	state State
	dirty bool

	// pendingDelete is the line item awaiting confirmation, if any.
	pendingDelete *int64

	// Orders touched by move gestures since the last CommitReorder.
	areaOrderDirty  bool
	itemOrderDirty  map[int64]bool
	collapsed       map[int64]bool
	lastSaveMessage string

	// Server-confirmed totals overlay the locally computed ones.
	grandTotals domain.Totals
	areaTotals  map[int64]domain.Totals
}

// New creates a session for one work order. The document is not loaded
// until the Load effect is run.
func New(gw gateway.Client, workOrderID int64, observers ...Observer) *Session {
	return &Session{
		gw:             gw,
		obs:            observerOrNoop(observers),
		workOrderID:    workOrderID,
		state:          Viewing,
		itemOrderDirty: make(map[int64]bool),
		collapsed:      make(map[int64]bool),
		areaTotals:     make(map[int64]domain.Totals),
	}
}

// Load returns the initial fetch effect.
func (s *Session) Load() Effect {
	return Effect{Pending: []*Pending{s.pendingLoad()}}
}

// Document returns the current document, nil before the first load.
func (s *Session) Document() *domain.WorkOrder { return s.doc }

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Dirty reports whether any local mutation is unsaved. It gates the
// confirmation prompt on cancel and on quit.
func (s *Session) Dirty() bool { return s.dirty }

// PendingDelete returns the line item awaiting delete confirmation.
func (s *Session) PendingDelete() (int64, bool) {
	if s.pendingDelete == nil {
		return 0, false
	}
	return *s.pendingDelete, true
}

// GrandTotals returns the display totals, server-confirmed when a
// confirmation has arrived.
func (s *Session) GrandTotals() domain.Totals { return s.grandTotals }

// AreaTotals returns the display totals for one area.
func (s *Session) AreaTotals(areaID int64) domain.Totals {
	if t, ok := s.areaTotals[areaID]; ok {
		return t
	}
	return domain.ZeroTotals()
}

// Collapsed reports whether an area is collapsed in the view.
func (s *Session) Collapsed(areaID int64) bool { return s.collapsed[areaID] }

// ToggleCollapse flips an area's collapsed flag. View-only state, never
// dirties the session.
func (s *Session) ToggleCollapse(areaID int64) {
	s.collapsed[areaID] = !s.collapsed[areaID]
}

// Execute applies a command. Local validation and mutation happen here,
// synchronously; returned Pending work is the asynchronous gateway half.
// A returned error is user-facing (validation, wrong state) and means
// nothing was dispatched.
func (s *Session) Execute(cmd Command) (Effect, error) {
	if s.state == Saving {
		if _, ok := cmd.(Reload); !ok {
			s.obs.Observe(CommandEvent{Command: cmd, State: s.state, Err: ErrBusy})
			return Effect{}, ErrBusy
		}
	}

	eff, err := s.execute(cmd)
	s.obs.Observe(CommandEvent{Command: cmd, State: s.state, Dirty: s.dirty, Err: err})
	return eff, err
}

func (s *Session) execute(cmd Command) (Effect, error) {
	switch c := cmd.(type) {
	case EnterEdit:
		if s.state != Viewing || s.doc == nil {
			return Effect{}, ErrNotEditing
		}
		s.state = Editing
		return Effect{}, nil

	case CancelEdit:
		if s.state != Editing {
			return Effect{}, ErrNotEditing
		}
		// All-or-nothing: drop every local edit and refetch.
		s.state = Viewing
		s.dirty = false
		s.clearGestures()
		return Effect{Pending: []*Pending{s.pendingLoad()}}, nil

	case EditField:
		return s.editField(c)

	case RenameArea:
		return s.renameArea(c)

	case RequestDelete:
		if s.state != Editing {
			return Effect{}, ErrNotEditing
		}
		if _, li := s.doc.FindLineItem(c.ItemID); li == nil {
			return Effect{}, &domain.ValidationError{Field: "LineItemID", Message: fmt.Sprintf("unknown line item %d", c.ItemID)}
		}
		id := c.ItemID
		s.pendingDelete = &id
		return Effect{}, nil

	case ConfirmDelete:
		if s.state != Editing {
			return Effect{}, ErrNotEditing
		}
		if s.pendingDelete == nil {
			return Effect{}, ErrNoPendingDelete
		}
		itemID := *s.pendingDelete
		s.pendingDelete = nil
		return Effect{Pending: []*Pending{s.pendingDeleteCall(itemID)}}, nil

	case DismissDelete:
		s.pendingDelete = nil
		return Effect{}, nil

	case MoveArea:
		return s.moveArea(c)

	case MoveLineItem:
		return s.moveLineItem(c)

	case CommitReorder:
		return s.commitReorder()

	case SaveAll:
		if s.state != Editing {
			return Effect{}, ErrNotEditing
		}
		s.state = Saving
		return Effect{Pending: []*Pending{s.pendingSave()}}, nil

	case Reload:
		return Effect{Pending: []*Pending{s.pendingLoad()}}, nil

	default:
		return Effect{}, ErrUnknownCommand
	}
}

func (s *Session) editField(c EditField) (Effect, error) {
	if s.state != Editing {
		return Effect{}, ErrNotEditing
	}
	_, li := s.doc.FindLineItem(c.ItemID)
	if li == nil {
		return Effect{}, &domain.ValidationError{Field: "LineItemID", Message: fmt.Sprintf("unknown line item %d", c.ItemID)}
	}
	prev := li.FieldValue(c.Field)

	areaID, changed, err := s.doc.SetLineItemField(c.ItemID, c.Field, c.Raw)
	if err != nil {
		// Local validation failure: presented value reverts, no call.
		return Effect{}, err
	}
	if !changed {
		return Effect{}, nil
	}
	s.dirty = true
	s.recomputeTotals()

	sent := li.FieldValue(c.Field)
	return Effect{Pending: []*Pending{s.pendingField(c.ItemID, areaID, c.Field, sent, prev)}}, nil
}

func (s *Session) renameArea(c RenameArea) (Effect, error) {
	if s.state != Editing {
		return Effect{}, ErrNotEditing
	}
	a := s.doc.FindArea(c.AreaID)
	if a == nil {
		return Effect{}, &domain.ValidationError{Field: "AreaID", Message: fmt.Sprintf("unknown area %d", c.AreaID)}
	}
	prev := a.DisplayName()

	changed, err := s.doc.SetAreaName(c.AreaID, c.Name)
	if err != nil {
		return Effect{}, err
	}
	if !changed {
		return Effect{}, nil
	}
	s.dirty = true

	sent := a.DisplayName()
	return Effect{Pending: []*Pending{s.pendingRename(c.AreaID, sent, prev)}}, nil
}

func (s *Session) moveArea(c MoveArea) (Effect, error) {
	if s.state != Editing {
		return Effect{}, ErrNotEditing
	}
	order := s.doc.ActiveAreaOrder()
	moved, ok := shift(order, c.AreaID, c.Dir)
	if !ok {
		return Effect{}, nil // already at the edge, or unknown id
	}
	if err := s.doc.ReorderAreas(moved); err != nil {
		return Effect{}, err
	}
	s.dirty = true
	s.areaOrderDirty = true
	return Effect{}, nil
}

func (s *Session) moveLineItem(c MoveLineItem) (Effect, error) {
	if s.state != Editing {
		return Effect{}, ErrNotEditing
	}
	area, li := s.doc.FindLineItem(c.ItemID)
	if li == nil || li.IsDeleted {
		return Effect{}, nil
	}
	order := s.doc.ActiveLineItemOrder(area.ID)
	moved, ok := shift(order, c.ItemID, c.Dir)
	if !ok {
		return Effect{}, nil
	}
	if err := s.doc.ReorderLineItems(area.ID, moved); err != nil {
		return Effect{}, err
	}
	s.dirty = true
	s.itemOrderDirty[area.ID] = true
	return Effect{}, nil
}

// commitReorder sends one gateway call per order changed since the last
// commit. The moves were already applied locally per gesture; the settle
// is what reaches the wire.
func (s *Session) commitReorder() (Effect, error) {
	if s.state != Editing {
		return Effect{}, ErrNotEditing
	}
	var pending []*Pending
	if s.areaOrderDirty {
		s.areaOrderDirty = false
		pending = append(pending, s.pendingReorderAreas(s.doc.ActiveAreaOrder()))
	}
	for areaID := range s.itemOrderDirty {
		delete(s.itemOrderDirty, areaID)
		pending = append(pending, s.pendingReorderItems(areaID, s.doc.ActiveLineItemOrder(areaID)))
	}
	return Effect{Pending: pending}, nil
}

// Resolve reconciles a completed gateway call with the current local
// state. Responses may arrive out of order; each one only ever confirms
// or reverts its own slice of the document.
func (s *Session) Resolve(out Outcome) Effect {
	eff := s.resolve(out)
	s.obs.Observe(OutcomeEvent{Op: out.op, State: s.state, Latency: time.Since(out.started), Err: out.err})
	return eff
}

func (s *Session) resolve(out Outcome) Effect {
	switch out.op {
	case opLoad:
		return s.resolveLoad(out)
	case opField:
		return s.resolveField(out)
	case opRename:
		return s.resolveRename(out)
	case opDelete:
		return s.resolveDelete(out)
	case opReorderAreas, opReorderItems:
		return s.resolveReorder(out)
	case opSave:
		return s.resolveSave(out)
	}
	return Effect{}
}

func (s *Session) resolveLoad(out Outcome) Effect {
	if out.err != nil {
		return Effect{Notice: failureNotice(out.err)}
	}
	s.doc = out.loaded
	s.state = Viewing
	s.dirty = false
	s.pendingDelete = nil
	s.clearGestures()
	s.recomputeTotals()
	return Effect{}
}

func (s *Session) resolveField(out Outcome) Effect {
	_, li := s.doc.FindLineItem(out.itemID)
	if li == nil {
		// The document was replaced (reload) while this was in flight.
		if out.err != nil {
			return Effect{Notice: failureNotice(out.err)}
		}
		return Effect{}
	}
	if out.err != nil {
		// Best-effort compensation: revert only when no newer local
		// edit has touched the field since this request was sent.
		if li.FieldValue(out.field) == out.sent {
			_, _, _ = s.doc.SetLineItemField(out.itemID, out.field, out.prev)
			s.recomputeTotals()
		}
		return Effect{Notice: failureNotice(out.err)}
	}
	if out.fieldResult != nil && out.fieldResult.Totals != nil {
		s.mergeTotals(out.areaID, out.fieldResult.Totals)
	}
	return Effect{}
}

func (s *Session) resolveRename(out Outcome) Effect {
	if out.err != nil {
		if a := s.doc.FindArea(out.areaID); a != nil && a.DisplayName() == out.sent {
			_, _ = s.doc.SetAreaName(out.areaID, out.prev)
		}
		return Effect{Notice: failureNotice(out.err)}
	}
	return Effect{}
}

func (s *Session) resolveDelete(out Outcome) Effect {
	if out.err != nil {
		// The item stays present and untouched.
		return Effect{Notice: failureNotice(out.err)}
	}
	// Deletion is applied locally only once the gateway confirms.
	if _, err := s.doc.MarkDeleted(out.itemID, time.Now()); err != nil {
		return Effect{Notice: errNotice("%v", err)}
	}
	s.dirty = true
	s.recomputeTotals()
	if out.deleteResult != nil && out.deleteResult.Totals != nil {
		s.mergeTotals(out.deleteResult.AreaID, out.deleteResult.Totals)
	}
	return Effect{}
}

func (s *Session) resolveReorder(out Outcome) Effect {
	if out.err != nil {
		// Not locally compensable: later edits may already depend on
		// the new order, so the whole session state reloads.
		s.state = Viewing
		s.dirty = false
		s.clearGestures()
		return Effect{
			Pending: []*Pending{s.pendingLoad()},
			Notice:  failureNotice(out.err),
		}
	}
	return Effect{}
}

func (s *Session) resolveSave(out Outcome) Effect {
	if s.state != Saving {
		return Effect{}
	}
	if out.err != nil {
		// Local state survives so the user can adjust and retry.
		s.state = Editing
		return Effect{Notice: failureNotice(out.err)}
	}
	s.state = Viewing
	s.dirty = false
	s.clearGestures()
	if out.saveResult != nil {
		s.lastSaveMessage = out.saveResult.Message
		if out.saveResult.Totals != nil {
			s.mergeGrandTotals(out.saveResult.Totals)
		}
	}
	msg := s.lastSaveMessage
	if msg == "" {
		msg = "All changes saved."
	}
	return Effect{Notice: &Notice{Kind: NoticeInfo, Message: msg}}
}

// failureNotice maps a gateway error to its user-facing text: rejection
// messages verbatim, one fixed line for anything transport-shaped.
func failureNotice(err error) *Notice {
	var rej *gateway.RejectionError
	if errors.As(err, &rej) {
		return errNotice("%s", rej.Message)
	}
	return errNotice("%s", TransportMessage)
}

func (s *Session) clearGestures() {
	s.areaOrderDirty = false
	s.itemOrderDirty = make(map[int64]bool)
}

func (s *Session) recomputeTotals() {
	if s.doc == nil {
		return
	}
	s.grandTotals = s.doc.GrandTotals()
	s.areaTotals = make(map[int64]domain.Totals, len(s.doc.Areas))
	for _, a := range s.doc.Areas {
		s.areaTotals[a.ID] = a.Totals()
	}
}

func (s *Session) mergeTotals(areaID int64, t *gateway.Totals) {
	s.areaTotals[areaID] = t.Area()
	s.grandTotals = t.Grand()
}

func (s *Session) mergeGrandTotals(t *gateway.Totals) {
	s.grandTotals = t.Grand()
}

// shift moves id one slot in the order; ok is false when the move is a
// no-op (edge position or unknown id).
func shift(order []int64, id int64, dir Direction) ([]int64, bool) {
	idx := -1
	for i, v := range order {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	swap := idx - 1
	if dir == MoveDown {
		swap = idx + 1
	}
	if swap < 0 || swap >= len(order) {
		return nil, false
	}
	order[idx], order[swap] = order[swap], order[idx]
	return order, true
}
