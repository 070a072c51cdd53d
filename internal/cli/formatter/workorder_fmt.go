package formatter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DripjobsJeremy/workorders/internal/domain"
)

// Hours renders an hour value with two decimal places. Arithmetic stays
// full-precision everywhere; rounding happens only here.
func Hours(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// TotalsLine renders one labeled totals row.
func TotalsLine(label string, t domain.Totals) string {
	return fmt.Sprintf("%s  prep %s  working %s  total %s",
		label, Hours(t.PrepHours), Hours(t.WorkingHours), Hours(t.TotalHours))
}

// Header renders the read-only work order header block.
func Header(w *domain.WorkOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Work Order #%d  %s (%s)\n", w.ID, w.ProposalNumber, w.ProposalState)
	fmt.Fprintf(&b, "%s / %s\n", w.CustomerName, w.JobName)
	if w.JobAddress != "" {
		fmt.Fprintf(&b, "%s\n", w.JobAddress)
	}
	if w.LastModified != nil {
		fmt.Fprintf(&b, "Last modified %s by %s\n",
			w.LastModified.Format("2006-01-02 15:04"), w.LastModifiedBy)
	}
	return b.String()
}

// LineItemRow renders one line item as a fixed-width row.
func LineItemRow(li *domain.LineItem) string {
	marker := " "
	if li.IsModified {
		marker = "*"
	}
	row := fmt.Sprintf("%s %-28s %8s %8s %8s %8s %4d",
		marker, truncate(li.ItemName, 28),
		Hours(li.PrepHours), Hours(li.WorkingHours), Hours(li.TotalHours()),
		li.Unit, li.Coats)
	if li.IsDeleted {
		return fmt.Sprintf("%s  (deleted)", row)
	}
	return row
}

// Document renders the whole work order as plain text: header, each
// area with its items and totals, then the grand totals.
func Document(w *domain.WorkOrder) string {
	var b strings.Builder
	b.WriteString(Header(w))
	for _, a := range w.Areas {
		fmt.Fprintf(&b, "\n%s\n", a.DisplayName())
		fmt.Fprintf(&b, "  %-28s %8s %8s %8s %8s %4s\n", "Item", "Prep", "Working", "Total", "Unit", "Ct")
		for _, li := range a.LineItems {
			fmt.Fprintf(&b, "%s\n", LineItemRow(li))
		}
		fmt.Fprintf(&b, "%s\n", TotalsLine("  Area totals:", a.Totals()))
	}
	fmt.Fprintf(&b, "\n%s\n", TotalsLine("Grand totals:", w.GrandTotals()))
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
