package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/gateway"
	"github.com/DripjobsJeremy/workorders/internal/gateway/sqlite"
)

// newSeedCmd creates "woedit seed": populates a local SQLite database
// with a sample work order for trying the editor offline.
func newSeedCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample work order in a local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}
			store, err := sqlite.Open(dbPath, gateway.DefaultActor)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer store.Close()

			doc := sampleWorkOrder()
			if err := store.Import(cmd.Context(), doc); err != nil {
				return fmt.Errorf("importing sample: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded work order %d into %s\n", doc.ID, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite database to create or update")
	return cmd
}

func sampleWorkOrder() *domain.WorkOrder {
	return &domain.WorkOrder{
		ID:             1,
		ProposalNumber: "P-2044",
		ProposalState:  "Accepted",
		CustomerName:   "Riverside Office Park",
		JobName:        "Building B Repaint",
		JobAddress:     "2200 River Rd",
		LastModifiedBy: gateway.DefaultActor,
		Areas: []*domain.Area{
			{
				ID: 1, WorkOrderID: 1, Name: "Lobby", SortOrder: 1,
				LineItems: []*domain.LineItem{
					sampleItem(1, 1, "Walls", "ProMar 200", "Eggshell", "SW 7008", "3.5", "9", "sqft", 2, 1),
					sampleItem(2, 1, "Ceilings", "Eminence", "Flat", "SW 7757", "1", "4", "sqft", 1, 2),
					sampleItem(3, 1, "Door frames", "ProClassic", "Semi-Gloss", "SW 7006", "0.5", "2.25", "each", 2, 3),
				},
			},
			{
				ID: 2, WorkOrderID: 1, Name: "Exterior", SortOrder: 2,
				LineItems: []*domain.LineItem{
					sampleItem(4, 2, "Siding", "Duration", "Satin", "SW 7029", "6", "16", "sqft", 2, 1),
					sampleItem(5, 2, "Trim", "Emerald", "Gloss", "SW 7006", "2", "5.5", "lnft", 2, 2),
				},
			},
		},
	}
}

func sampleItem(id, areaID int64, name, product, sheen, color, prep, working, unit string, coats, sort int) *domain.LineItem {
	li := &domain.LineItem{
		ID:           id,
		AreaID:       areaID,
		ItemName:     name,
		ItemType:     "Surface",
		ProductName:  product,
		Sheen:        sheen,
		Color:        color,
		PrepHours:    decimal.RequireFromString(prep),
		WorkingHours: decimal.RequireFromString(working),
		Unit:         unit,
		Coats:        coats,
		SortOrder:    sort,
	}
	li.OriginalPrepHours = li.PrepHours
	li.OriginalWorkingHours = li.WorkingHours
	li.OriginalUnit = li.Unit
	li.OriginalCoats = li.Coats
	return li
}
