package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
)

// Import inserts a complete work order, replacing any existing rows with
// the same id. Used to seed local databases and test fixtures.
func (s *Store) Import(ctx context.Context, w *domain.WorkOrder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM work_orders WHERE id = ?`, w.ID); err != nil {
		return fmt.Errorf("clearing work order %d: %w", w.ID, err)
	}

	var lastModified any
	if w.LastModified != nil {
		lastModified = w.LastModified.UTC().Format(time.RFC3339)
	}
	var origProposal any
	if w.OriginalProposalID != nil {
		origProposal = *w.OriginalProposalID
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO work_orders (id, proposal_number, proposal_state, customer_name,
			job_name, job_address, last_modified, last_modified_by, original_proposal_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.ProposalNumber, w.ProposalState, w.CustomerName,
		w.JobName, w.JobAddress, lastModified, w.LastModifiedBy, origProposal); err != nil {
		return fmt.Errorf("inserting work order %d: %w", w.ID, err)
	}

	for _, a := range w.Areas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO work_order_areas (id, work_order_id, area_name, custom_area_name, sort_order)
			VALUES (?, ?, ?, ?, ?)`,
			a.ID, w.ID, a.Name, a.CustomName, a.SortOrder); err != nil {
			return fmt.Errorf("inserting area %d: %w", a.ID, err)
		}
		for _, li := range a.LineItems {
			if err := insertLineItem(ctx, tx, a.ID, li); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

func insertLineItem(ctx context.Context, tx *sql.Tx, areaID int64, li *domain.LineItem) error {
	var deletedDate any
	if li.DeletedAt != nil {
		deletedDate = li.DeletedAt.UTC().Format(time.RFC3339)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO work_order_line_items (id, area_id, item_name, item_type, product_name,
			sheen, color, prep_hrs, working_hrs, unit, coats, sort_order,
			is_deleted, deleted_date, is_modified,
			original_prep_hrs, original_working_hrs, original_unit, original_coats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		li.ID, areaID, li.ItemName, li.ItemType, li.ProductName,
		li.Sheen, li.Color, li.PrepHours.String(), li.WorkingHours.String(), li.Unit, li.Coats, li.SortOrder,
		boolToInt(li.IsDeleted), deletedDate, boolToInt(li.IsModified),
		li.OriginalPrepHours.String(), li.OriginalWorkingHours.String(), li.OriginalUnit, li.OriginalCoats)
	if err != nil {
		return fmt.Errorf("inserting line item %d: %w", li.ID, err)
	}
	return nil
}
