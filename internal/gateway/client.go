// Package gateway defines the persistence boundary for work-order editing.
//
// The relational store behind it is opaque: every durable state transition
// and all authoritative totals arithmetic happen on the other side of this
// interface. The package ships an HTTP implementation (the hosted backend)
// and a SQLite implementation (gateway/sqlite) for local use and tests.
package gateway

import (
	"context"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/shopspring/decimal"
)

// Totals carries server-computed sums. Area values are zero when the
// operation was not scoped to an area.
type Totals struct {
	AreaPrepHours    decimal.Decimal `json:"areaPrepHours"`
	AreaWorkingHours decimal.Decimal `json:"areaWorkingHours"`
	AreaTotalHours   decimal.Decimal `json:"areaTotalHours"`

	GrandPrepHours    decimal.Decimal `json:"grandPrepHours"`
	GrandWorkingHours decimal.Decimal `json:"grandWorkingHours"`
	GrandTotalHours   decimal.Decimal `json:"grandTotalHours"`
}

// Area converts the area block to domain totals.
func (t *Totals) Area() domain.Totals {
	return domain.Totals{
		PrepHours:    t.AreaPrepHours,
		WorkingHours: t.AreaWorkingHours,
		TotalHours:   t.AreaTotalHours,
	}
}

// Grand converts the grand block to domain totals.
func (t *Totals) Grand() domain.Totals {
	return domain.Totals{
		PrepHours:    t.GrandPrepHours,
		WorkingHours: t.GrandWorkingHours,
		TotalHours:   t.GrandTotalHours,
	}
}

// FieldResult is the confirmed state of a line item after a single-field
// update: the field snapshot the store now holds, the owning area, and
// refreshed totals.
type FieldResult struct {
	AreaID       int64
	PrepHours    decimal.Decimal
	WorkingHours decimal.Decimal
	TotalHours   decimal.Decimal
	Unit         string
	Coats        int
	Totals       *Totals
}

// DeleteResult reports a confirmed soft delete.
type DeleteResult struct {
	AreaID int64
	Totals *Totals
}

// SaveResult reports a confirmed batch save.
type SaveResult struct {
	Message string
	Totals  *Totals
}

// Client is the set of operations the edit session consumes. Every write
// is attributed to the configured actor; validation is enforced on both
// sides of the boundary.
type Client interface {
	LoadForEdit(ctx context.Context, workOrderID int64) (*domain.WorkOrder, error)
	SaveAll(ctx context.Context, snap domain.SaveSnapshot) (*SaveResult, error)
	ReorderAreas(ctx context.Context, workOrderID int64, areaIDs []int64) error
	ReorderLineItems(ctx context.Context, workOrderID, areaID int64, lineItemIDs []int64) error
	UpdateLineItemField(ctx context.Context, workOrderID, lineItemID int64, field domain.Field, value string) (*FieldResult, error)
	DeleteLineItem(ctx context.Context, workOrderID, lineItemID int64) (*DeleteResult, error)
	UpdateAreaName(ctx context.Context, workOrderID, areaID int64, name string) error
	GetTotals(ctx context.Context, workOrderID int64, areaID *int64) (*Totals, error)
}
