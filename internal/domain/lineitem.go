package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a single billable row within an area. The descriptive fields
// are read-only in this phase; only hours, unit, and coats are editable.
type LineItem struct {
	ID     int64
	AreaID int64

	// Read-only descriptors
	ItemName    string
	ItemType    string
	ProductName string
	Sheen       string
	Color       string

	// Mutable fields
	PrepHours    decimal.Decimal
	WorkingHours decimal.Decimal
	Unit         string
	Coats        int

	SortOrder int
	IsDeleted bool
	DeletedAt *time.Time

	// IsModified is true once any mutable field differs from its
	// originally assigned value.
	IsModified bool

	// Original-value snapshot, loaded from the store.
	OriginalPrepHours    decimal.Decimal
	OriginalWorkingHours decimal.Decimal
	OriginalUnit         string
	OriginalCoats        int
}

// TotalHours is the derived sum of prep and working hours at full precision.
func (li *LineItem) TotalHours() decimal.Decimal {
	return li.PrepHours.Add(li.WorkingHours)
}

// FieldValue returns the current value of a mutable field in string form,
// as the gateway expects it.
func (li *LineItem) FieldValue(f Field) string {
	switch f {
	case FieldPrepHours:
		return li.PrepHours.String()
	case FieldWorkingHours:
		return li.WorkingHours.String()
	case FieldUnit:
		return li.Unit
	case FieldCoats:
		return strconv.Itoa(li.Coats)
	}
	return ""
}

// setField parses and applies a raw value. It reports whether the stored
// value actually changed, leaving the item untouched on validation failure.
func (li *LineItem) setField(f Field, raw string) (changed bool, err error) {
	switch f {
	case FieldPrepHours:
		d, err := parseHours(f, raw)
		if err != nil {
			return false, err
		}
		if d.Equal(li.PrepHours) {
			return false, nil
		}
		li.PrepHours = d
	case FieldWorkingHours:
		d, err := parseHours(f, raw)
		if err != nil {
			return false, err
		}
		if d.Equal(li.WorkingHours) {
			return false, nil
		}
		li.WorkingHours = d
	case FieldUnit:
		if raw == li.Unit {
			return false, nil
		}
		li.Unit = raw
	case FieldCoats:
		n, err := parseCoats(raw)
		if err != nil {
			return false, err
		}
		if n == li.Coats {
			return false, nil
		}
		li.Coats = n
	default:
		return false, validationErrorf(string(f), "not an editable field")
	}
	li.refreshModified()
	return true, nil
}

// refreshModified recomputes IsModified against the original snapshot.
func (li *LineItem) refreshModified() {
	li.IsModified = !li.PrepHours.Equal(li.OriginalPrepHours) ||
		!li.WorkingHours.Equal(li.OriginalWorkingHours) ||
		li.Unit != li.OriginalUnit ||
		li.Coats != li.OriginalCoats
}
