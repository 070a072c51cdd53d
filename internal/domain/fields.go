package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field identifies a mutable line-item field. The string values are the
// field names the persistence gateway expects.
type Field string

const (
	FieldPrepHours    Field = "PrepHrs"
	FieldWorkingHours Field = "WorkingHrs"
	FieldUnit         Field = "Unit"
	FieldCoats        Field = "Coats"
)

// MutableFields is the canonical set of editable line-item fields.
var MutableFields = map[Field]bool{
	FieldPrepHours:    true,
	FieldWorkingHours: true,
	FieldUnit:         true,
	FieldCoats:        true,
}

const (
	maxHours = 24
	maxCoats = 100

	// MaxAreaNameLen bounds custom area names.
	MaxAreaNameLen = 200
)

var maxHoursDec = decimal.NewFromInt(maxHours)

// parseHours validates an hours value: decimal, 0 to 24 inclusive.
func parseHours(field Field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, validationErrorf(string(field), "%q is not a number", raw)
	}
	if d.IsNegative() || d.GreaterThan(maxHoursDec) {
		return decimal.Zero, validationErrorf(string(field), "hours must be between 0 and %d", maxHours)
	}
	return d, nil
}

// parseCoats validates a coat count: integer, 0 to 100 inclusive.
func parseCoats(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, validationErrorf(string(FieldCoats), "%q is not a whole number", raw)
	}
	if n < 0 || n > maxCoats {
		return 0, validationErrorf(string(FieldCoats), "coats must be between 0 and %d", maxCoats)
	}
	return n, nil
}

// ValidateAreaName checks a custom area name and returns its trimmed form.
func ValidateAreaName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", validationErrorf("AreaName", "area name cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxAreaNameLen {
		return "", validationErrorf("AreaName", "area name cannot exceed %d characters", MaxAreaNameLen)
	}
	return trimmed, nil
}
