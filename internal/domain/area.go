package domain

// Area is a named grouping of line items within a work order (e.g. a room).
// Users may override the original name; the override never replaces it.
type Area struct {
	ID          int64
	WorkOrderID int64
	Name        string // original name from the proposal
	CustomName  string // user override, empty when never renamed
	SortOrder   int
	LineItems   []*LineItem
}

// DisplayName returns the custom name when set, else the original name.
func (a *Area) DisplayName() string {
	if a.CustomName != "" {
		return a.CustomName
	}
	return a.Name
}

// ActiveLineItems returns the non-deleted items in slice order.
func (a *Area) ActiveLineItems() []*LineItem {
	var active []*LineItem
	for _, li := range a.LineItems {
		if !li.IsDeleted {
			active = append(active, li)
		}
	}
	return active
}

// Totals computes this area's totals over its non-deleted items.
func (a *Area) Totals() Totals {
	return ComputeTotals(a.LineItems)
}

func (a *Area) findLineItem(id int64) *LineItem {
	for _, li := range a.LineItems {
		if li.ID == id {
			return li
		}
	}
	return nil
}
