package domain

import (
	"fmt"
	"time"
)

// WorkOrder is the canonical in-memory document: a read-only header plus
// ordered areas of ordered line items. All mutation goes through the
// methods below so the ordering and soft-delete invariants hold.
type WorkOrder struct {
	ID int64

	// Read-only header
	ProposalNumber     string
	ProposalState      string
	CustomerName       string
	JobName            string
	JobAddress         string
	LastModified       *time.Time
	LastModifiedBy     string
	OriginalProposalID *int64

	Areas []*Area
}

// FindArea returns the area with the given id, or nil.
func (w *WorkOrder) FindArea(id int64) *Area {
	for _, a := range w.Areas {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// FindLineItem returns the line item with the given id and its owning area.
func (w *WorkOrder) FindLineItem(id int64) (*Area, *LineItem) {
	for _, a := range w.Areas {
		if li := a.findLineItem(id); li != nil {
			return a, li
		}
	}
	return nil, nil
}

// GrandTotals computes totals across all areas' non-deleted items.
func (w *WorkOrder) GrandTotals() Totals {
	var all []*LineItem
	for _, a := range w.Areas {
		all = append(all, a.LineItems...)
	}
	return ComputeTotals(all)
}

// SetAreaName applies a custom area name. The name is trimmed and must be
// non-empty and at most MaxAreaNameLen characters. Renaming to the name
// already displayed is a no-op; changed reports whether anything moved.
func (w *WorkOrder) SetAreaName(areaID int64, name string) (changed bool, err error) {
	a := w.FindArea(areaID)
	if a == nil {
		return false, fmt.Errorf("area %d not found", areaID)
	}
	trimmed, err := ValidateAreaName(name)
	if err != nil {
		return false, err
	}
	if trimmed == a.DisplayName() {
		return false, nil
	}
	a.CustomName = trimmed
	return true, nil
}

// SetLineItemField parses, validates, and applies a raw field value.
// On success it returns the owning area's id so the caller can refresh
// that area's totals. The model is untouched when validation fails.
func (w *WorkOrder) SetLineItemField(itemID int64, f Field, raw string) (areaID int64, changed bool, err error) {
	a, li := w.FindLineItem(itemID)
	if li == nil {
		return 0, false, fmt.Errorf("line item %d not found", itemID)
	}
	changed, err = li.setField(f, raw)
	if err != nil {
		return 0, false, err
	}
	return a.ID, changed, nil
}

// MarkDeleted soft-deletes a line item, stamping the deletion time.
// A second call is a no-op and never overwrites the original timestamp.
func (w *WorkOrder) MarkDeleted(itemID int64, now time.Time) (areaID int64, err error) {
	a, li := w.FindLineItem(itemID)
	if li == nil {
		return 0, fmt.Errorf("line item %d not found", itemID)
	}
	if li.IsDeleted {
		return a.ID, nil
	}
	li.IsDeleted = true
	li.DeletedAt = &now
	return a.ID, nil
}

// ReorderAreas reassigns area ranks 1..N in the given order. The id list
// must be exactly the current set of areas; reorder never adds or removes.
func (w *WorkOrder) ReorderAreas(orderedIDs []int64) error {
	if len(orderedIDs) != len(w.Areas) {
		return validationErrorf("Areas", "reorder must include all %d areas", len(w.Areas))
	}
	ordered := make([]*Area, 0, len(orderedIDs))
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return validationErrorf("Areas", "duplicate area id %d", id)
		}
		seen[id] = true
		a := w.FindArea(id)
		if a == nil {
			return validationErrorf("Areas", "unknown area id %d", id)
		}
		ordered = append(ordered, a)
	}
	for i, a := range ordered {
		a.SortOrder = i + 1
	}
	w.Areas = ordered
	return nil
}

// ReorderLineItems reassigns ranks for one area's non-deleted items.
// Deleted items keep their place at the end of the slice; the id list is
// validated against the active items only, since those are the rows the
// presentation layer can move.
func (w *WorkOrder) ReorderLineItems(areaID int64, orderedIDs []int64) error {
	a := w.FindArea(areaID)
	if a == nil {
		return fmt.Errorf("area %d not found", areaID)
	}
	active := a.ActiveLineItems()
	if len(orderedIDs) != len(active) {
		return validationErrorf("LineItems", "reorder must include all %d active items", len(active))
	}

	byID := make(map[int64]*LineItem, len(active))
	for _, li := range active {
		byID[li.ID] = li
	}
	ordered := make([]*LineItem, 0, len(a.LineItems))
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		li, ok := byID[id]
		if !ok {
			return validationErrorf("LineItems", "unknown or deleted line item id %d", id)
		}
		if seen[id] {
			return validationErrorf("LineItems", "duplicate line item id %d", id)
		}
		seen[id] = true
		ordered = append(ordered, li)
	}
	for i, li := range ordered {
		li.SortOrder = i + 1
	}
	for _, li := range a.LineItems {
		if li.IsDeleted {
			ordered = append(ordered, li)
		}
	}
	a.LineItems = ordered
	return nil
}

// ActiveAreaOrder returns the current area ids in display order.
func (w *WorkOrder) ActiveAreaOrder() []int64 {
	ids := make([]int64, len(w.Areas))
	for i, a := range w.Areas {
		ids[i] = a.ID
	}
	return ids
}

// ActiveLineItemOrder returns an area's non-deleted item ids in display order.
func (w *WorkOrder) ActiveLineItemOrder(areaID int64) []int64 {
	a := w.FindArea(areaID)
	if a == nil {
		return nil
	}
	var ids []int64
	for _, li := range a.ActiveLineItems() {
		ids = append(ids, li.ID)
	}
	return ids
}
