package session

import (
	"context"
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
)

// Operation names, shared between Pending, Outcome, and the observer.
const (
	opLoad         = "load_for_edit"
	opField        = "update_line_item_field"
	opRename       = "update_area_name"
	opDelete       = "delete_line_item"
	opReorderAreas = "reorder_areas"
	opReorderItems = "reorder_line_items"
	opSave         = "save_all"
)

func (s *Session) pendingLoad() *Pending {
	id := s.workOrderID
	gw := s.gw
	return &Pending{Op: opLoad, run: func(ctx context.Context) Outcome {
		out := Outcome{op: opLoad, started: time.Now()}
		out.loaded, out.err = gw.LoadForEdit(ctx, id)
		return out
	}}
}

func (s *Session) pendingField(itemID, areaID int64, field domain.Field, sent, prev string) *Pending {
	id := s.workOrderID
	gw := s.gw
	return &Pending{Op: opField, run: func(ctx context.Context) Outcome {
		out := Outcome{op: opField, started: time.Now(), itemID: itemID, areaID: areaID, field: field, sent: sent, prev: prev}
		out.fieldResult, out.err = gw.UpdateLineItemField(ctx, id, itemID, field, sent)
		return out
	}}
}

func (s *Session) pendingRename(areaID int64, sent, prev string) *Pending {
	id := s.workOrderID
	gw := s.gw
	return &Pending{Op: opRename, run: func(ctx context.Context) Outcome {
		out := Outcome{op: opRename, started: time.Now(), areaID: areaID, sent: sent, prev: prev}
		out.err = gw.UpdateAreaName(ctx, id, areaID, sent)
		return out
	}}
}

func (s *Session) pendingDeleteCall(itemID int64) *Pending {
	id := s.workOrderID
	gw := s.gw
	return &Pending{Op: opDelete, run: func(ctx context.Context) Outcome {
		out := Outcome{op: opDelete, started: time.Now(), itemID: itemID}
		out.deleteResult, out.err = gw.DeleteLineItem(ctx, id, itemID)
		return out
	}}
}

func (s *Session) pendingReorderAreas(order []int64) *Pending {
	id := s.workOrderID
	gw := s.gw
	return &Pending{Op: opReorderAreas, run: func(ctx context.Context) Outcome {
		out := Outcome{op: opReorderAreas, started: time.Now()}
		out.err = gw.ReorderAreas(ctx, id, order)
		return out
	}}
}

func (s *Session) pendingReorderItems(areaID int64, order []int64) *Pending {
	id := s.workOrderID
	gw := s.gw
	return &Pending{Op: opReorderItems, run: func(ctx context.Context) Outcome {
		out := Outcome{op: opReorderItems, started: time.Now(), areaID: areaID}
		out.err = gw.ReorderLineItems(ctx, id, areaID, order)
		return out
	}}
}

func (s *Session) pendingSave() *Pending {
	snap := s.doc.SnapshotForSave()
	gw := s.gw
	return &Pending{Op: opSave, run: func(ctx context.Context) Outcome {
		out := Outcome{op: opSave, started: time.Now()}
		out.saveResult, out.err = gw.SaveAll(ctx, snap)
		return out
	}}
}
