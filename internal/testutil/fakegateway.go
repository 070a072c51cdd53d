package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/gateway"
)

// Call records one gateway invocation for assertion in tests.
type Call struct {
	Op    string
	Args  []any
	Value string
}

// FakeGateway is a scripted gateway.Client. By default every operation
// succeeds against an in-memory document; tests inject failures per
// operation name via Fail. All methods are safe for concurrent use since
// command completions arrive from goroutines.
type FakeGateway struct {
	mu sync.Mutex

	// Doc is the document served by LoadForEdit and mutated by the
	// operations. Reassign it to script a different load result.
	Doc *domain.WorkOrder

	// Fail maps operation name ("UpdateLineItemField", "SaveAll", ...)
	// to the error its next call returns. One-shot unless Sticky.
	Fail   map[string]error
	Sticky bool

	// SaveMessage overrides the default confirmation message.
	SaveMessage string

	Calls []Call
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Doc:  NewTestWorkOrder(),
		Fail: make(map[string]error),
	}
}

// CallsTo returns the recorded calls for one operation.
func (f *FakeGateway) CallsTo(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeGateway) record(op string, value string, args ...any) {
	f.Calls = append(f.Calls, Call{Op: op, Args: args, Value: value})
}

func (f *FakeGateway) scripted(op string) error {
	err, ok := f.Fail[op]
	if !ok {
		return nil
	}
	if !f.Sticky {
		delete(f.Fail, op)
	}
	return err
}

func (f *FakeGateway) totals(areaID *int64) *gateway.Totals {
	t := &gateway.Totals{}
	grand := f.Doc.GrandTotals()
	t.GrandPrepHours = grand.PrepHours
	t.GrandWorkingHours = grand.WorkingHours
	t.GrandTotalHours = grand.TotalHours
	if areaID != nil {
		if a := f.Doc.FindArea(*areaID); a != nil {
			at := a.Totals()
			t.AreaPrepHours = at.PrepHours
			t.AreaWorkingHours = at.WorkingHours
			t.AreaTotalHours = at.TotalHours
		}
	}
	return t
}

func (f *FakeGateway) LoadForEdit(ctx context.Context, workOrderID int64) (*domain.WorkOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LoadForEdit", "", workOrderID)
	if err := f.scripted("LoadForEdit"); err != nil {
		return nil, err
	}
	if f.Doc == nil || f.Doc.ID != workOrderID {
		return nil, &gateway.RejectionError{Message: fmt.Sprintf("Work Order %d not found.", workOrderID)}
	}
	return cloneWorkOrder(f.Doc), nil
}

func (f *FakeGateway) SaveAll(ctx context.Context, snap domain.SaveSnapshot) (*gateway.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveAll", "", snap.WorkOrderID)
	if err := f.scripted("SaveAll"); err != nil {
		return nil, err
	}
	msg := f.SaveMessage
	if msg == "" {
		msg = "All changes saved."
	}
	return &gateway.SaveResult{Message: msg, Totals: f.totals(nil)}, nil
}

func (f *FakeGateway) ReorderAreas(ctx context.Context, workOrderID int64, areaIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReorderAreas", "", workOrderID, areaIDs)
	if err := f.scripted("ReorderAreas"); err != nil {
		return err
	}
	return f.Doc.ReorderAreas(areaIDs)
}

func (f *FakeGateway) ReorderLineItems(ctx context.Context, workOrderID, areaID int64, lineItemIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReorderLineItems", "", workOrderID, areaID, lineItemIDs)
	if err := f.scripted("ReorderLineItems"); err != nil {
		return err
	}
	return f.Doc.ReorderLineItems(areaID, lineItemIDs)
}

func (f *FakeGateway) UpdateLineItemField(ctx context.Context, workOrderID, lineItemID int64, field domain.Field, value string) (*gateway.FieldResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateLineItemField", value, workOrderID, lineItemID, field)
	if err := f.scripted("UpdateLineItemField"); err != nil {
		return nil, err
	}
	areaID, _, err := f.Doc.SetLineItemField(lineItemID, field, value)
	if err != nil {
		return nil, &gateway.RejectionError{Message: err.Error()}
	}
	_, li := f.Doc.FindLineItem(lineItemID)
	return &gateway.FieldResult{
		AreaID:       areaID,
		PrepHours:    li.PrepHours,
		WorkingHours: li.WorkingHours,
		TotalHours:   li.TotalHours(),
		Unit:         li.Unit,
		Coats:        li.Coats,
		Totals:       f.totals(&areaID),
	}, nil
}

func (f *FakeGateway) DeleteLineItem(ctx context.Context, workOrderID, lineItemID int64) (*gateway.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteLineItem", "", workOrderID, lineItemID)
	if err := f.scripted("DeleteLineItem"); err != nil {
		return nil, err
	}
	areaID, err := f.Doc.MarkDeleted(lineItemID, fixedNow())
	if err != nil {
		return nil, &gateway.RejectionError{Message: err.Error()}
	}
	return &gateway.DeleteResult{AreaID: areaID, Totals: f.totals(&areaID)}, nil
}

func (f *FakeGateway) UpdateAreaName(ctx context.Context, workOrderID, areaID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateAreaName", name, workOrderID, areaID)
	if err := f.scripted("UpdateAreaName"); err != nil {
		return err
	}
	if _, err := f.Doc.SetAreaName(areaID, name); err != nil {
		return &gateway.RejectionError{Message: err.Error()}
	}
	return nil
}

func (f *FakeGateway) GetTotals(ctx context.Context, workOrderID int64, areaID *int64) (*gateway.Totals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTotals", "", workOrderID, areaID)
	if err := f.scripted("GetTotals"); err != nil {
		return nil, err
	}
	return f.totals(areaID), nil
}

func cloneWorkOrder(w *domain.WorkOrder) *domain.WorkOrder {
	out := *w
	out.Areas = nil
	for _, a := range w.Areas {
		ca := *a
		ca.LineItems = nil
		for _, li := range a.LineItems {
			cli := *li
			ca.LineItems = append(ca.LineItems, &cli)
		}
		out.Areas = append(out.Areas, &ca)
	}
	return &out
}

// fixedNow keeps deletion timestamps deterministic in assertions.
func fixedNow() time.Time {
	return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
}
