package domain

import "github.com/shopspring/decimal"

// SaveSnapshot is the full batch payload for the atomic save operation:
// every area with its current name and rank, and every line item,
// deleted or not, with current values, rank, and deleted flag.
type SaveSnapshot struct {
	WorkOrderID int64
	Areas       []AreaSnapshot
}

type AreaSnapshot struct {
	AreaID         int64
	CustomAreaName string
	SortOrder      int
	LineItems      []LineItemSnapshot
}

type LineItemSnapshot struct {
	LineItemID   int64
	PrepHours    decimal.Decimal
	WorkingHours decimal.Decimal
	Unit         string
	Coats        int
	SortOrder    int
	IsDeleted    bool
}

// SnapshotForSave serializes the document in display order. Ranks are
// assigned from slice positions so the payload reflects exactly what the
// user sees, including soft-deleted rows kept at their retained positions.
func (w *WorkOrder) SnapshotForSave() SaveSnapshot {
	snap := SaveSnapshot{WorkOrderID: w.ID}
	for ai, a := range w.Areas {
		as := AreaSnapshot{
			AreaID:         a.ID,
			CustomAreaName: a.DisplayName(),
			SortOrder:      ai + 1,
		}
		for ii, li := range a.LineItems {
			as.LineItems = append(as.LineItems, LineItemSnapshot{
				LineItemID:   li.ID,
				PrepHours:    li.PrepHours,
				WorkingHours: li.WorkingHours,
				Unit:         li.Unit,
				Coats:        li.Coats,
				SortOrder:    ii + 1,
				IsDeleted:    li.IsDeleted,
			})
		}
		snap.Areas = append(snap.Areas, as)
	}
	return snap
}
