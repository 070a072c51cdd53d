package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/gateway"
	"github.com/DripjobsJeremy/workorders/internal/testutil"
)

func TestLoadForEditRoundTrip(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, "P-1001", w.ProposalNumber)
	assert.Equal(t, "Acme Property Group", w.CustomerName)
	require.Len(t, w.Areas, 2)
	assert.Equal(t, "Interior", w.Areas[0].Name)
	assert.Equal(t, "Exterior", w.Areas[1].Name)

	// Soft-deleted rows load intact, timestamp and all.
	exterior := w.Areas[1]
	require.Len(t, exterior.LineItems, 2)
	trim := exterior.LineItems[1]
	assert.True(t, trim.IsDeleted)
	require.NotNil(t, trim.DeletedAt)
	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), trim.DeletedAt.UTC())

	grand := w.GrandTotals()
	assert.True(t, grand.PrepHours.Equal(testutil.Dec("6.5")), "got %s", grand.PrepHours)
	assert.True(t, grand.TotalHours.Equal(testutil.Dec("24.75")), "got %s", grand.TotalHours)
}

func TestLoadForEditUnknownWorkOrder(t *testing.T) {
	store := testutil.NewTestStore(t)

	_, err := store.LoadForEdit(context.Background(), 999)
	var rej *gateway.RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Work Order 999 not found.", rej.Message)
}

func TestUpdateLineItemFieldRecomputesTotals(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	res, err := store.UpdateLineItemField(ctx, 42, 100, domain.FieldPrepHours, "4.5")
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.AreaID)
	assert.True(t, res.PrepHours.Equal(testutil.Dec("4.5")))
	assert.True(t, res.TotalHours.Equal(testutil.Dec("10.5")))
	require.NotNil(t, res.Totals)
	assert.True(t, res.Totals.AreaPrepHours.Equal(testutil.Dec("6")), "got %s", res.Totals.AreaPrepHours)
	assert.True(t, res.Totals.GrandPrepHours.Equal(testutil.Dec("9")), "got %s", res.Totals.GrandPrepHours)

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	_, li := w.FindLineItem(100)
	require.NotNil(t, li)
	assert.True(t, li.IsModified)
}

func TestUpdateLineItemFieldRevertClearsModified(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := store.UpdateLineItemField(ctx, 42, 100, domain.FieldCoats, "3")
	require.NoError(t, err)
	_, err = store.UpdateLineItemField(ctx, 42, 100, domain.FieldCoats, "2")
	require.NoError(t, err)

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	_, li := w.FindLineItem(100)
	assert.False(t, li.IsModified)
}

func TestUpdateLineItemFieldRejections(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		item  int64
		field domain.Field
		value string
		want  string
	}{
		{"hours above range", 100, domain.FieldPrepHours, "25", "Hours must be between 0 and 24."},
		{"hours negative", 100, domain.FieldWorkingHours, "-1", "Hours must be between 0 and 24."},
		{"hours not numeric", 100, domain.FieldPrepHours, "abc", "Hours must be between 0 and 24."},
		{"coats above range", 100, domain.FieldCoats, "101", "Coats must be between 0 and 100."},
		{"unknown field", 100, domain.Field("Sheen"), "Satin", "Invalid field name."},
		{"unknown item", 999, domain.FieldUnit, "sqft", "Line item 999 not found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.UpdateLineItemField(ctx, 42, tt.item, tt.field, tt.value)
			var rej *gateway.RejectionError
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, tt.want, rej.Message)
		})
	}

	// Rejected writes leave the row untouched.
	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	_, li := w.FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("2")))
	assert.False(t, li.IsModified)
}

func TestDeleteLineItemIdempotent(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	res, err := store.DeleteLineItem(ctx, 42, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.AreaID)
	assert.True(t, res.Totals.GrandPrepHours.Equal(testutil.Dec("4.5")), "got %s", res.Totals.GrandPrepHours)

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	_, li := w.FindLineItem(100)
	require.True(t, li.IsDeleted)
	require.NotNil(t, li.DeletedAt)
	first := *li.DeletedAt

	// Deleting again succeeds and keeps the original timestamp.
	_, err = store.DeleteLineItem(ctx, 42, 100)
	require.NoError(t, err)
	w, err = store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	_, li = w.FindLineItem(100)
	assert.Equal(t, first, *li.DeletedAt)
}

func TestReorderAreas(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReorderAreas(ctx, 42, []int64{20, 10}))

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(20), w.Areas[0].ID)
	assert.Equal(t, int64(10), w.Areas[1].ID)
}

func TestReorderAreasRejections(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		ids  []int64
	}{
		{"missing id", []int64{10}},
		{"unknown id", []int64{10, 99}},
		{"duplicate id", []int64{10, 10}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.ReorderAreas(ctx, 42, tt.ids)
			var rej *gateway.RejectionError
			require.ErrorAs(t, err, &rej)
		})
	}

	// No partial rank writes after a rejection.
	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(10), w.Areas[0].ID)
}

func TestReorderLineItemsScopedToActive(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	// Area 20 has one active item (200) and one deleted (201); the
	// reorder set covers active items only.
	require.NoError(t, store.ReorderLineItems(ctx, 42, 20, []int64{200}))

	err := store.ReorderLineItems(ctx, 42, 20, []int64{200, 201})
	var rej *gateway.RejectionError
	require.ErrorAs(t, err, &rej)

	err = store.ReorderLineItems(ctx, 42, 99, []int64{200})
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Area 99 not found.", rej.Message)
}

func TestUpdateAreaName(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpdateAreaName(ctx, 42, 10, "  Main Floor  "))

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Main Floor", w.Areas[0].CustomName)
	assert.Equal(t, "Main Floor", w.Areas[0].DisplayName())

	var rej *gateway.RejectionError
	require.ErrorAs(t, store.UpdateAreaName(ctx, 42, 10, "   "), &rej)
	require.ErrorAs(t, store.UpdateAreaName(ctx, 42, 99, "Name"), &rej)
}

func TestSaveAllAppliesBatch(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)

	// Stage several edits locally, then persist in one batch.
	_, _, err = w.SetLineItemField(100, domain.FieldPrepHours, "5")
	require.NoError(t, err)
	_, err = w.SetAreaName(10, "Main Floor")
	require.NoError(t, err)
	_, err = w.MarkDeleted(101, time.Now())
	require.NoError(t, err)
	require.NoError(t, w.ReorderAreas([]int64{20, 10}))

	res, err := store.SaveAll(ctx, w.SnapshotForSave())
	require.NoError(t, err)
	assert.Equal(t, "All changes saved.", res.Message)
	// 5 + 3 prep remains after deleting item 101.
	assert.True(t, res.Totals.GrandPrepHours.Equal(testutil.Dec("8")), "got %s", res.Totals.GrandPrepHours)

	reloaded, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(20), reloaded.Areas[0].ID)
	assert.Equal(t, "Main Floor", reloaded.Areas[1].DisplayName())
	_, li := reloaded.FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("5")))
	assert.True(t, li.IsModified)
	_, deleted := reloaded.FindLineItem(101)
	assert.True(t, deleted.IsDeleted)
	require.NotNil(t, deleted.DeletedAt)
}

func TestSaveAllRejectsDuplicateRanks(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	snap := w.SnapshotForSave()
	snap.Areas[1].SortOrder = snap.Areas[0].SortOrder

	_, err = store.SaveAll(ctx, snap)
	var rej *gateway.RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Duplicate area sort order 1.", rej.Message)
}

func TestSaveAllUnknownRowRollsBack(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	_, _, err = w.SetLineItemField(100, domain.FieldPrepHours, "5")
	require.NoError(t, err)
	snap := w.SnapshotForSave()
	snap.Areas[1].LineItems[0].LineItemID = 999

	_, err = store.SaveAll(ctx, snap)
	var rej *gateway.RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Line item 999 not found.", rej.Message)

	// The earlier area's writes rolled back with the failure.
	reloaded, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	_, li := reloaded.FindLineItem(100)
	assert.True(t, li.PrepHours.Equal(testutil.Dec("2")), "got %s", li.PrepHours)
}

func TestGetTotalsAreaScoped(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	areaID := int64(20)
	totals, err := store.GetTotals(ctx, 42, &areaID)
	require.NoError(t, err)
	// Deleted item 201 contributes nothing.
	assert.True(t, totals.AreaPrepHours.Equal(testutil.Dec("3")), "got %s", totals.AreaPrepHours)
	assert.True(t, totals.AreaTotalHours.Equal(testutil.Dec("11")), "got %s", totals.AreaTotalHours)
	assert.True(t, totals.GrandTotalHours.Equal(testutil.Dec("24.75")), "got %s", totals.GrandTotalHours)

	grandOnly, err := store.GetTotals(ctx, 42, nil)
	require.NoError(t, err)
	assert.True(t, grandOnly.AreaPrepHours.IsZero())
}

func TestImportReplacesExisting(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpdateAreaName(ctx, 42, 10, "Changed"))
	require.NoError(t, store.Import(ctx, testutil.NewTestWorkOrder()))

	w, err := store.LoadForEdit(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "", w.Areas[0].CustomName)
}
