// Package session is the edit controller: it owns the in-memory document,
// the Viewing/Editing/Saving state machine, dirty tracking, and the
// reconciliation of asynchronous gateway responses with local edits.
//
// The session never blocks. Execute applies local validation and mutation
// synchronously and hands back Pending work; the caller runs each Pending
// on whatever scheduler it has (a tea.Cmd goroutine in the TUI) and feeds
// the Outcome back through Resolve on its single event loop. The document
// is therefore single-writer even though gateway calls run concurrently.
package session

import "github.com/DripjobsJeremy/workorders/internal/domain"

// Direction of a keyboard move gesture.
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
)

// Command is a request to the session. Mutating commands are only legal
// in Editing state; all commands are rejected with ErrBusy while a save
// is in flight.
type Command interface {
	isCommand()
}

// EnterEdit switches Viewing to Editing. No gateway call.
type EnterEdit struct{}

// CancelEdit abandons the editing session: every local mutation is
// discarded and the document reloads from the gateway. All-or-nothing;
// individual edits are never unwound.
type CancelEdit struct{}

// EditField applies a single-field line item edit: validated and applied
// locally first, then dispatched to the gateway. Raw carries the value as
// typed.
type EditField struct {
	ItemID int64
	Field  domain.Field
	Raw    string
}

// RenameArea sets an area's custom display name.
type RenameArea struct {
	AreaID int64
	Name   string
}

// RequestDelete starts the two-step delete for a line item. Nothing is
// sent until ConfirmDelete.
type RequestDelete struct {
	ItemID int64
}

// ConfirmDelete commits the pending delete.
type ConfirmDelete struct{}

// DismissDelete abandons the pending delete.
type DismissDelete struct{}

// MoveArea shifts an area one position up or down. Local only; the new
// order is sent when the gesture settles via CommitReorder.
type MoveArea struct {
	AreaID int64
	Dir    Direction
}

// MoveLineItem shifts a line item one position within its area. Deleted
// rows are skipped over. Local only until CommitReorder.
type MoveLineItem struct {
	ItemID int64
	Dir    Direction
}

// CommitReorder flushes every order changed since the last commit to the
// gateway, one call per changed scope.
type CommitReorder struct{}

// SaveAll serializes the whole document and persists it as one batch.
// Editing becomes Saving until the response lands.
type SaveAll struct{}

// Reload discards the document and fetches it again.
type Reload struct{}

func (EnterEdit) isCommand()     {}
func (CancelEdit) isCommand()    {}
func (EditField) isCommand()     {}
func (RenameArea) isCommand()    {}
func (RequestDelete) isCommand() {}
func (ConfirmDelete) isCommand() {}
func (DismissDelete) isCommand() {}
func (MoveArea) isCommand()      {}
func (MoveLineItem) isCommand()  {}
func (CommitReorder) isCommand() {}
func (SaveAll) isCommand()       {}
func (Reload) isCommand()        {}
