package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DripjobsJeremy/workorders/internal/gateway"
	"github.com/DripjobsJeremy/workorders/internal/session"
	"github.com/DripjobsJeremy/workorders/internal/testutil"
)

func TestTUILoadsDocument(t *testing.T) {
	d := NewTestDriver(t)

	require.NotNil(t, d.Session().Document())
	assert.Equal(t, session.Viewing, d.Session().State())

	view := d.View()
	assert.Contains(t, view, "Interior")
	assert.Contains(t, view, "Exterior")
	assert.Contains(t, view, "Walls")
	assert.Contains(t, view, "24.75", "grand totals in footer")
}

func TestTUIEnterAndCancelEdit(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	assert.Equal(t, session.Editing, d.Session().State())
	assert.Contains(t, d.View(), "[editing]")

	// Nothing dirty: Escape cancels straight back to Viewing.
	d.PressEsc()
	assert.Equal(t, session.Viewing, d.Session().State())
}

func TestTUIEditFieldFlow(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown() // area header -> first item
	d.PressKey('p')
	require.Equal(t, ViewForm, d.ActiveViewID())

	// The input is prefilled with the current value "2".
	d.PressBackspace()
	d.Type("4")
	d.PressEnter()

	assert.Equal(t, ViewEditor, d.ActiveViewID())
	_, li := d.Session().Document().FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("4")), "got %s", li.PrepHours)
	assert.True(t, d.Session().Dirty())
	require.Len(t, d.Gateway.CallsTo("UpdateLineItemField"), 1)
}

func TestTUIEscapeAbandonsFieldEdit(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown()
	d.PressKey('p')
	require.Equal(t, ViewForm, d.ActiveViewID())

	d.PressBackspace()
	d.Type("9")
	d.PressEsc()

	assert.Equal(t, ViewEditor, d.ActiveViewID())
	_, li := d.Session().Document().FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("2")), "value untouched after Escape")
	assert.Empty(t, d.Gateway.CallsTo("UpdateLineItemField"))
	assert.False(t, d.Session().Dirty())
}

func TestTUIDeleteConfirmFlow(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown()
	d.PressKey('d')
	require.Equal(t, ViewConfirm, d.ActiveViewID())
	assert.Empty(t, d.Gateway.CallsTo("DeleteLineItem"), "nothing sent before confirmation")

	d.PressKey('y')
	assert.Equal(t, ViewEditor, d.ActiveViewID())
	require.Len(t, d.Gateway.CallsTo("DeleteLineItem"), 1)
	_, li := d.Session().Document().FindLineItem(100)
	assert.True(t, li.IsDeleted)
}

func TestTUIDeleteDeclined(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown()
	d.PressKey('d')
	require.Equal(t, ViewConfirm, d.ActiveViewID())

	d.PressKey('n')
	assert.Equal(t, ViewEditor, d.ActiveViewID())
	assert.Empty(t, d.Gateway.CallsTo("DeleteLineItem"))
	_, li := d.Session().Document().FindLineItem(100)
	assert.False(t, li.IsDeleted)
	_, pending := d.Session().PendingDelete()
	assert.False(t, pending)
}

func TestTUIMoveAndSettle(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressKey('J') // move Interior below Exterior
	assert.Equal(t, []int64{20, 10}, d.Session().Document().ActiveAreaOrder())
	assert.Empty(t, d.Gateway.CallsTo("ReorderAreas"), "gesture not settled yet")

	// Any non-move key settles the gesture and commits the order.
	d.PressDown()
	require.Len(t, d.Gateway.CallsTo("ReorderAreas"), 1)
}

func TestTUIReorderRejectionReloads(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressKey('J')
	d.Gateway.Fail["ReorderAreas"] = &gateway.RejectionError{Message: "Order out of date."}
	d.PressDown()

	// The forced reload put the gateway's order back on screen.
	assert.Equal(t, session.Viewing, d.Session().State())
	assert.Equal(t, []int64{10, 20}, d.Session().Document().ActiveAreaOrder())
	assert.Equal(t, "Order out of date.", d.Status())
}

func TestTUISaveFlow(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown()
	d.PressKey('p')
	d.PressBackspace()
	d.Type("4")
	d.PressEnter()

	d.PressKey('s')
	require.Len(t, d.Gateway.CallsTo("SaveAll"), 1)
	assert.Equal(t, session.Viewing, d.Session().State())
	assert.False(t, d.Session().Dirty())
	assert.Equal(t, "All changes saved.", d.Status())
}

func TestTUISaveFailureStaysEditing(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown()
	d.PressKey('p')
	d.PressBackspace()
	d.Type("4")
	d.PressEnter()

	d.Gateway.Fail["SaveAll"] = gateway.ErrUnavailable
	d.PressKey('s')

	assert.Equal(t, session.Editing, d.Session().State())
	assert.True(t, d.Session().Dirty())
	assert.Equal(t, session.TransportMessage, d.Status())
	_, li := d.Session().Document().FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("4")), "local edits intact after failed save")
}

func TestTUIQuitGuard(t *testing.T) {
	d := NewTestDriver(t)

	// Clean session: q quits immediately.
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestTUIQuitGuardWithUnsavedChanges(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown()
	d.PressKey('p')
	d.PressBackspace()
	d.Type("4")
	d.PressEnter()
	require.True(t, d.Session().Dirty())

	d.PressKey('q')
	require.Equal(t, ViewConfirm, d.ActiveViewID())
	assert.False(t, d.Quitting)

	// Declining keeps the session alive; confirming quits.
	d.PressKey('n')
	assert.Equal(t, ViewEditor, d.ActiveViewID())
	assert.False(t, d.Quitting)

	d.PressKey('q')
	d.PressKey('y')
	assert.True(t, d.Quitting)
}

func TestTUICancelEditGuardWithUnsavedChanges(t *testing.T) {
	d := NewTestDriver(t)

	d.PressKey('e')
	d.PressDown()
	d.PressKey('p')
	d.PressBackspace()
	d.Type("4")
	d.PressEnter()

	d.PressEsc()
	require.Equal(t, ViewConfirm, d.ActiveViewID())

	d.PressKey('y')
	assert.Equal(t, session.Viewing, d.Session().State())
	assert.False(t, d.Session().Dirty())
	// The reload restored the persisted value (the fake applied the
	// field update, so it survives the round trip).
	_, li := d.Session().Document().FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("4")))
}

func TestTUICollapseToggle(t *testing.T) {
	d := NewTestDriver(t)

	view := d.View()
	assert.Contains(t, view, "Walls")

	// Cursor starts on the first area header; Enter collapses it.
	d.PressEnter()
	assert.NotContains(t, d.View(), "Walls")
	d.PressEnter()
	assert.Contains(t, d.View(), "Walls")
}
