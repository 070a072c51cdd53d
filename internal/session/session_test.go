package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/gateway"
	"github.com/DripjobsJeremy/workorders/internal/session"
	"github.com/DripjobsJeremy/workorders/internal/testutil"
)

// newLoadedSession builds a session against a fresh fake gateway with the
// fixture document loaded and edit mode entered.
func newLoadedSession(t *testing.T) (*session.Session, *testutil.FakeGateway) {
	t.Helper()
	fake := testutil.NewFakeGateway()
	s := session.New(fake, 42)
	drain(t, s, s.Load())
	require.NotNil(t, s.Document())
	_, err := s.Execute(session.EnterEdit{})
	require.NoError(t, err)
	return s, fake
}

// drain runs every pending call synchronously and resolves it, following
// any follow-up work an outcome produces. Returns the notices seen.
func drain(t *testing.T, s *session.Session, eff session.Effect) []session.Notice {
	t.Helper()
	var notices []session.Notice
	if eff.Notice != nil {
		notices = append(notices, *eff.Notice)
	}
	queue := eff.Pending
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		next := s.Resolve(p.Do(context.Background()))
		if next.Notice != nil {
			notices = append(notices, *next.Notice)
		}
		queue = append(queue, next.Pending...)
	}
	return notices
}

func mustExecute(t *testing.T, s *session.Session, cmd session.Command) session.Effect {
	t.Helper()
	eff, err := s.Execute(cmd)
	require.NoError(t, err)
	return eff
}

func TestLoadEntersViewing(t *testing.T) {
	fake := testutil.NewFakeGateway()
	s := session.New(fake, 42)

	notices := drain(t, s, s.Load())
	assert.Empty(t, notices)
	assert.Equal(t, session.Viewing, s.State())
	assert.False(t, s.Dirty())
	require.Len(t, s.Document().Areas, 2)
	assert.True(t, s.GrandTotals().TotalHours.Equal(testutil.Dec("24.75")), "got %s", s.GrandTotals().TotalHours)
}

func TestEnterEditRequiresViewing(t *testing.T) {
	s, _ := newLoadedSession(t)
	assert.Equal(t, session.Editing, s.State())

	_, err := s.Execute(session.EnterEdit{})
	assert.ErrorIs(t, err, session.ErrNotEditing)
}

func TestEditFieldDispatchesAndConfirms(t *testing.T) {
	s, fake := newLoadedSession(t)

	eff := mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "4"})
	require.Len(t, eff.Pending, 1)
	assert.True(t, s.Dirty())

	// Optimistic local apply happens before the call completes.
	_, li := s.Document().FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("4")))

	notices := drain(t, s, eff)
	assert.Empty(t, notices)
	require.Len(t, fake.CallsTo("UpdateLineItemField"), 1)

	// Server totals become authoritative after confirmation.
	assert.True(t, s.AreaTotals(10).PrepHours.Equal(testutil.Dec("5.5")), "got %s", s.AreaTotals(10).PrepHours)
}

func TestEditFieldUnchangedValueIsNoOp(t *testing.T) {
	s, fake := newLoadedSession(t)

	eff := mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "2"})
	assert.Empty(t, eff.Pending)
	assert.False(t, s.Dirty())
	assert.Empty(t, fake.CallsTo("UpdateLineItemField"))
}

func TestEditFieldRevertOnFailure(t *testing.T) {
	s, fake := newLoadedSession(t)

	eff := mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "4"})
	fake.Fail["UpdateLineItemField"] = &gateway.RejectionError{Message: "Stale data."}

	notices := drain(t, s, eff)
	require.Len(t, notices, 1)
	assert.Equal(t, session.NoticeError, notices[0].Kind)
	assert.Equal(t, "Stale data.", notices[0].Message)

	_, li := s.Document().FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("2")), "reverted to pre-edit value, got %s", li.PrepHours)
}

func TestEditFieldLastLocalWriteWins(t *testing.T) {
	s, fake := newLoadedSession(t)

	first := mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "4"})
	second := mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "7"})

	// The first request fails after a newer local edit: no revert.
	fake.Fail["UpdateLineItemField"] = &gateway.RejectionError{Message: "Stale data."}
	s.Resolve(first.Pending[0].Do(context.Background()))

	_, li := s.Document().FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("7")), "newest edit survives, got %s", li.PrepHours)

	s.Resolve(second.Pending[0].Do(context.Background()))
	assert.True(t, li.PrepHours.Equal(testutil.Dec("7")))
}

func TestTransportFailureUsesFixedMessage(t *testing.T) {
	s, fake := newLoadedSession(t)

	eff := mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldUnit, Raw: "lnft"})
	fake.Fail["UpdateLineItemField"] = gateway.ErrUnavailable

	notices := drain(t, s, eff)
	require.Len(t, notices, 1)
	assert.Equal(t, session.TransportMessage, notices[0].Message)
}

func TestRenameAreaRevertOnFailure(t *testing.T) {
	s, fake := newLoadedSession(t)

	eff := mustExecute(t, s, session.RenameArea{AreaID: 10, Name: "Main Floor"})
	assert.Equal(t, "Main Floor", s.Document().FindArea(10).DisplayName())

	fake.Fail["UpdateAreaName"] = &gateway.RejectionError{Message: "Concurrent modification."}
	notices := drain(t, s, eff)
	require.Len(t, notices, 1)
	assert.Equal(t, "Interior", s.Document().FindArea(10).DisplayName())
}

func TestRenameAreaValidation(t *testing.T) {
	s, fake := newLoadedSession(t)

	_, err := s.Execute(session.RenameArea{AreaID: 10, Name: "   "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, fake.CallsTo("UpdateAreaName"))
	assert.False(t, s.Dirty())
}

func TestDeleteTwoStep(t *testing.T) {
	s, fake := newLoadedSession(t)

	mustExecute(t, s, session.RequestDelete{ItemID: 100})
	id, ok := s.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, int64(100), id)
	assert.Empty(t, fake.CallsTo("DeleteLineItem"), "nothing sent before confirmation")

	mustExecute(t, s, session.DismissDelete{})
	_, ok = s.PendingDelete()
	assert.False(t, ok)

	_, err := s.Execute(session.ConfirmDelete{})
	assert.ErrorIs(t, err, session.ErrNoPendingDelete)
}

func TestDeleteFailureLeavesItemIntact(t *testing.T) {
	s, fake := newLoadedSession(t)

	mustExecute(t, s, session.RequestDelete{ItemID: 100})
	fake.Fail["DeleteLineItem"] = &gateway.RejectionError{Message: "Locked."}
	notices := drain(t, s, mustExecute(t, s, session.ConfirmDelete{}))

	require.Len(t, notices, 1)
	assert.Equal(t, "Locked.", notices[0].Message)
	_, li := s.Document().FindLineItem(100)
	assert.False(t, li.IsDeleted)
}

func TestMoveAreaAccumulatesThenCommits(t *testing.T) {
	s, fake := newLoadedSession(t)

	eff := mustExecute(t, s, session.MoveArea{AreaID: 20, Dir: session.MoveUp})
	assert.Empty(t, eff.Pending, "moves are local until the gesture settles")
	assert.True(t, s.Dirty())
	assert.Equal(t, []int64{20, 10}, s.Document().ActiveAreaOrder())

	drain(t, s, mustExecute(t, s, session.CommitReorder{}))
	calls := fake.CallsTo("ReorderAreas")
	require.Len(t, calls, 1)
	assert.Equal(t, []int64{20, 10}, calls[0].Args[1])

	// A second commit with no new gestures sends nothing.
	drain(t, s, mustExecute(t, s, session.CommitReorder{}))
	assert.Len(t, fake.CallsTo("ReorderAreas"), 1)
}

func TestMoveAreaAtEdgeIsNoOp(t *testing.T) {
	s, _ := newLoadedSession(t)

	mustExecute(t, s, session.MoveArea{AreaID: 10, Dir: session.MoveUp})
	assert.Equal(t, []int64{10, 20}, s.Document().ActiveAreaOrder())
	assert.False(t, s.Dirty())
}

func TestMoveLineItemSkipsDeletedRows(t *testing.T) {
	s, fake := newLoadedSession(t)

	// Item 201 is soft-deleted; moving it is a no-op.
	mustExecute(t, s, session.MoveLineItem{ItemID: 201, Dir: session.MoveUp})
	assert.False(t, s.Dirty())

	mustExecute(t, s, session.MoveLineItem{ItemID: 101, Dir: session.MoveUp})
	drain(t, s, mustExecute(t, s, session.CommitReorder{}))
	calls := fake.CallsTo("ReorderLineItems")
	require.Len(t, calls, 1)
	assert.Equal(t, []int64{101, 100}, calls[0].Args[2])
}

func TestSavingBlocksMutation(t *testing.T) {
	s, _ := newLoadedSession(t)
	mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "4"})

	eff := mustExecute(t, s, session.SaveAll{})
	assert.Equal(t, session.Saving, s.State())

	_, err := s.Execute(session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "5"})
	assert.ErrorIs(t, err, session.ErrBusy)
	_, err = s.Execute(session.RequestDelete{ItemID: 100})
	assert.ErrorIs(t, err, session.ErrBusy)

	notices := drain(t, s, eff)
	require.Len(t, notices, 1)
	assert.Equal(t, session.NoticeInfo, notices[0].Kind)
	assert.Equal(t, "All changes saved.", notices[0].Message)
	assert.Equal(t, session.Viewing, s.State())
	assert.False(t, s.Dirty())
}

func TestCancelEditDiscardsAndReloads(t *testing.T) {
	s, fake := newLoadedSession(t)
	mustExecute(t, s, session.EditField{ItemID: 100, Field: domain.FieldPrepHours, Raw: "9"})

	// The fake never saw the edit succeed on its own copy, so the
	// reload returns pristine state.
	fake.Fail["UpdateLineItemField"] = gateway.ErrUnavailable
	drain(t, s, mustExecute(t, s, session.CancelEdit{}))

	assert.Equal(t, session.Viewing, s.State())
	assert.False(t, s.Dirty())
}

func TestCollapseToggleNeverDirties(t *testing.T) {
	s, _ := newLoadedSession(t)

	assert.False(t, s.Collapsed(10))
	s.ToggleCollapse(10)
	assert.True(t, s.Collapsed(10))
	s.ToggleCollapse(10)
	assert.False(t, s.Collapsed(10))
	assert.False(t, s.Dirty())
}
