package testutil

import (
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/shopspring/decimal"
)

// Dec parses a decimal literal, panicking on bad input. Test-only.
func Dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// LineItem options
type LineItemOption func(*domain.LineItem)

func WithHours(prep, working string) LineItemOption {
	return func(li *domain.LineItem) {
		li.PrepHours = Dec(prep)
		li.WorkingHours = Dec(working)
		li.OriginalPrepHours = li.PrepHours
		li.OriginalWorkingHours = li.WorkingHours
	}
}

func WithUnit(unit string) LineItemOption {
	return func(li *domain.LineItem) {
		li.Unit = unit
		li.OriginalUnit = unit
	}
}

func WithCoats(coats int) LineItemOption {
	return func(li *domain.LineItem) {
		li.Coats = coats
		li.OriginalCoats = coats
	}
}

func WithDeleted(at time.Time) LineItemOption {
	return func(li *domain.LineItem) {
		li.IsDeleted = true
		li.DeletedAt = &at
	}
}

func NewTestLineItem(id, areaID int64, name string, sortOrder int, opts ...LineItemOption) *domain.LineItem {
	li := &domain.LineItem{
		ID:          id,
		AreaID:      areaID,
		ItemName:    name,
		ItemType:    "Surface",
		ProductName: "ProMar 200",
		Sheen:       "Eggshell",
		Color:       "SW 7008",
		Unit:        "sqft",
		Coats:       2,
		SortOrder:   sortOrder,
	}
	li.OriginalUnit = li.Unit
	li.OriginalCoats = li.Coats
	for _, opt := range opts {
		opt(li)
	}
	return li
}

// Area options
type AreaOption func(*domain.Area)

func WithCustomName(name string) AreaOption {
	return func(a *domain.Area) {
		a.CustomName = name
	}
}

func WithLineItems(items ...*domain.LineItem) AreaOption {
	return func(a *domain.Area) {
		a.LineItems = items
	}
}

func NewTestArea(id, workOrderID int64, name string, sortOrder int, opts ...AreaOption) *domain.Area {
	a := &domain.Area{
		ID:          id,
		WorkOrderID: workOrderID,
		Name:        name,
		SortOrder:   sortOrder,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewTestWorkOrder builds the standard two-area document used across the
// test suites: Interior (two items) and Exterior (one item, plus one
// soft-deleted item).
func NewTestWorkOrder() *domain.WorkOrder {
	deletedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &domain.WorkOrder{
		ID:             42,
		ProposalNumber: "P-1001",
		ProposalState:  "Accepted",
		CustomerName:   "Acme Property Group",
		JobName:        "Lobby Refresh",
		JobAddress:     "100 Main St",
		LastModifiedBy: "System",
		Areas: []*domain.Area{
			NewTestArea(10, 42, "Interior", 1, WithLineItems(
				NewTestLineItem(100, 10, "Walls", 1, WithHours("2", "6")),
				NewTestLineItem(101, 10, "Ceilings", 2, WithHours("1.5", "4.25")),
			)),
			NewTestArea(20, 42, "Exterior", 2, WithLineItems(
				NewTestLineItem(200, 20, "Siding", 1, WithHours("3", "8")),
				NewTestLineItem(201, 20, "Trim", 2, WithHours("1", "2"), WithDeleted(deletedAt)),
			)),
		},
	}
}
