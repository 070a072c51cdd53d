package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(id int64, prep, working string, deleted bool) *LineItem {
	return &LineItem{
		ID:           id,
		PrepHours:    dec(prep),
		WorkingHours: dec(working),
		IsDeleted:    deleted,
	}
}

func TestComputeTotals_SumsComponentsIndependently(t *testing.T) {
	items := []*LineItem{
		item(1, "2", "3", false),
		item(2, "1", "1", false),
	}
	got := ComputeTotals(items)
	assert.True(t, got.PrepHours.Equal(dec("3")), "prep=%s", got.PrepHours)
	assert.True(t, got.WorkingHours.Equal(dec("4")), "working=%s", got.WorkingHours)
	assert.True(t, got.TotalHours.Equal(dec("7")), "total=%s", got.TotalHours)
}

func TestComputeTotals_ExcludesDeleted(t *testing.T) {
	items := []*LineItem{
		item(1, "2.5", "3.25", false),
		item(2, "8", "8", true),
		item(3, "0.25", "0.5", false),
	}
	got := ComputeTotals(items)
	assert.True(t, got.PrepHours.Equal(dec("2.75")))
	assert.True(t, got.WorkingHours.Equal(dec("3.75")))
	assert.True(t, got.TotalHours.Equal(dec("6.5")))
}

func TestComputeTotals_EmptyAndAllDeleted(t *testing.T) {
	for _, items := range [][]*LineItem{
		nil,
		{item(1, "4", "4", true), item(2, "1", "2", true)},
	} {
		got := ComputeTotals(items)
		assert.True(t, got.PrepHours.IsZero())
		assert.True(t, got.WorkingHours.IsZero())
		assert.True(t, got.TotalHours.IsZero())
	}
}

func TestComputeTotals_FullPrecision(t *testing.T) {
	// Component sums, not a sum of per-item totals: no double rounding.
	items := []*LineItem{
		item(1, "0.005", "0.005", false),
		item(2, "0.005", "0.005", false),
	}
	got := ComputeTotals(items)
	assert.True(t, got.TotalHours.Equal(dec("0.02")), "total=%s", got.TotalHours)
}

func TestLineItem_TotalHours(t *testing.T) {
	li := item(1, "1.75", "2.25", false)
	assert.True(t, li.TotalHours().Equal(dec("4")))
}
