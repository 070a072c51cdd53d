package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/gateway"
	"github.com/shopspring/decimal"
)

// Validation here deliberately repeats the document model's checks: the
// store does not trust its callers to have validated, and vice versa.

var maxHours = decimal.NewFromInt(24)

func reject(format string, args ...any) error {
	return &gateway.RejectionError{Message: fmt.Sprintf(format, args...)}
}

func (s *Store) UpdateLineItemField(ctx context.Context, workOrderID, lineItemID int64, field domain.Field, value string) (*gateway.FieldResult, error) {
	if !domain.MutableFields[field] {
		return nil, reject("Invalid field name.")
	}

	var column string
	var stored any
	switch field {
	case domain.FieldPrepHours, domain.FieldWorkingHours:
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || d.IsNegative() || d.GreaterThan(maxHours) {
			return nil, reject("Hours must be between 0 and 24.")
		}
		stored = d.String()
		if field == domain.FieldPrepHours {
			column = "prep_hrs"
		} else {
			column = "working_hrs"
		}
	case domain.FieldCoats:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 || n > 100 {
			return nil, reject("Coats must be between 0 and 100.")
		}
		stored = n
		column = "coats"
	case domain.FieldUnit:
		stored = value
		column = "unit"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	areaID, err := s.owningArea(ctx, tx, workOrderID, lineItemID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_order_line_items SET `+column+` = ? WHERE id = ?`, stored, lineItemID); err != nil {
		return nil, fmt.Errorf("updating %s: %w", column, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE work_order_line_items SET is_modified = CASE WHEN
			prep_hrs != original_prep_hrs OR working_hrs != original_working_hrs
			OR unit != original_unit OR coats != original_coats
			THEN 1 ELSE 0 END WHERE id = ?`, lineItemID); err != nil {
		return nil, fmt.Errorf("refreshing is_modified: %w", err)
	}
	if err := s.touch(ctx, tx, workOrderID, time.Now()); err != nil {
		return nil, err
	}

	res := &gateway.FieldResult{AreaID: areaID}
	var prep, working string
	if err := tx.QueryRowContext(ctx,
		`SELECT prep_hrs, working_hrs, unit, coats FROM work_order_line_items WHERE id = ?`,
		lineItemID).Scan(&prep, &working, &res.Unit, &res.Coats); err != nil {
		return nil, fmt.Errorf("reading updated line item: %w", err)
	}
	if res.PrepHours, err = decimal.NewFromString(prep); err != nil {
		return nil, fmt.Errorf("parsing prep_hrs %q: %w", prep, err)
	}
	if res.WorkingHours, err = decimal.NewFromString(working); err != nil {
		return nil, fmt.Errorf("parsing working_hrs %q: %w", working, err)
	}
	res.TotalHours = res.PrepHours.Add(res.WorkingHours)

	if res.Totals, err = s.computeTotals(ctx, tx, workOrderID, &areaID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing field update: %w", err)
	}
	return res, nil
}

func (s *Store) DeleteLineItem(ctx context.Context, workOrderID, lineItemID int64) (*gateway.DeleteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	areaID, err := s.owningArea(ctx, tx, workOrderID, lineItemID)
	if err != nil {
		return nil, err
	}

	// Already-deleted rows keep their original timestamp.
	if _, err := tx.ExecContext(ctx,
		`UPDATE work_order_line_items SET is_deleted = 1, deleted_date = ?
		WHERE id = ? AND is_deleted = 0`,
		time.Now().UTC().Format(time.RFC3339), lineItemID); err != nil {
		return nil, fmt.Errorf("soft-deleting line item %d: %w", lineItemID, err)
	}
	if err := s.touch(ctx, tx, workOrderID, time.Now()); err != nil {
		return nil, err
	}

	res := &gateway.DeleteResult{AreaID: areaID}
	if res.Totals, err = s.computeTotals(ctx, tx, workOrderID, &areaID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing delete: %w", err)
	}
	return res, nil
}

func (s *Store) ReorderAreas(ctx context.Context, workOrderID int64, areaIDs []int64) error {
	if len(areaIDs) == 0 {
		return reject("Invalid request.")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := idSet(ctx, tx, `SELECT id FROM work_order_areas WHERE work_order_id = ?`, workOrderID)
	if err != nil {
		return err
	}
	if err := sameIDSet(existing, areaIDs, "area"); err != nil {
		return err
	}
	for i, id := range areaIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE work_order_areas SET sort_order = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("updating area rank: %w", err)
		}
	}
	if err := s.touch(ctx, tx, workOrderID, time.Now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing area reorder: %w", err)
	}
	return nil
}

func (s *Store) ReorderLineItems(ctx context.Context, workOrderID, areaID int64, lineItemIDs []int64) error {
	if len(lineItemIDs) == 0 {
		return reject("Invalid request.")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var owner int64
	err = tx.QueryRowContext(ctx,
		`SELECT work_order_id FROM work_order_areas WHERE id = ?`, areaID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != workOrderID) {
		return reject("Area %d not found.", areaID)
	}
	if err != nil {
		return fmt.Errorf("checking area %d: %w", areaID, err)
	}

	active, err := idSet(ctx, tx,
		`SELECT id FROM work_order_line_items WHERE area_id = ? AND is_deleted = 0`, areaID)
	if err != nil {
		return err
	}
	if err := sameIDSet(active, lineItemIDs, "line item"); err != nil {
		return err
	}
	for i, id := range lineItemIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE work_order_line_items SET sort_order = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("updating line item rank: %w", err)
		}
	}
	if err := s.touch(ctx, tx, workOrderID, time.Now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing line item reorder: %w", err)
	}
	return nil
}

func (s *Store) UpdateAreaName(ctx context.Context, workOrderID, areaID int64, name string) error {
	trimmed, err := domain.ValidateAreaName(name)
	if err != nil {
		return reject("Area name cannot be empty or exceed %d characters.", domain.MaxAreaNameLen)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE work_order_areas SET custom_area_name = ? WHERE id = ? AND work_order_id = ?`,
		trimmed, areaID, workOrderID)
	if err != nil {
		return fmt.Errorf("updating area name: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return reject("Area %d not found.", areaID)
	}
	if err := s.touch(ctx, tx, workOrderID, time.Now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing area rename: %w", err)
	}
	return nil
}

func (s *Store) SaveAll(ctx context.Context, snap domain.SaveSnapshot) (*gateway.SaveResult, error) {
	if snap.WorkOrderID <= 0 {
		return nil, reject("Invalid request.")
	}
	// Duplicate ranks make the payload ambiguous; the whole batch is refused.
	seenAreaRank := make(map[int]bool)
	for _, a := range snap.Areas {
		if seenAreaRank[a.SortOrder] {
			return nil, reject("Duplicate area sort order %d.", a.SortOrder)
		}
		seenAreaRank[a.SortOrder] = true
		seenItemRank := make(map[int]bool)
		for _, li := range a.LineItems {
			if seenItemRank[li.SortOrder] {
				return nil, reject("Duplicate line item sort order %d in area %d.", li.SortOrder, a.AreaID)
			}
			seenItemRank[li.SortOrder] = true
			if li.PrepHours.IsNegative() || li.PrepHours.GreaterThan(maxHours) ||
				li.WorkingHours.IsNegative() || li.WorkingHours.GreaterThan(maxHours) {
				return nil, reject("Hours must be between 0 and 24.")
			}
			if li.Coats < 0 || li.Coats > 100 {
				return nil, reject("Coats must be between 0 and 100.")
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range snap.Areas {
		result, err := tx.ExecContext(ctx,
			`UPDATE work_order_areas SET custom_area_name = ?, sort_order = ?
			WHERE id = ? AND work_order_id = ?`,
			a.CustomAreaName, a.SortOrder, a.AreaID, snap.WorkOrderID)
		if err != nil {
			return nil, fmt.Errorf("saving area %d: %w", a.AreaID, err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return nil, reject("Area %d not found.", a.AreaID)
		}
		for _, li := range a.LineItems {
			result, err := tx.ExecContext(ctx,
				`UPDATE work_order_line_items SET prep_hrs = ?, working_hrs = ?, unit = ?, coats = ?,
					sort_order = ?, is_deleted = ?,
					deleted_date = CASE WHEN ? = 1 AND deleted_date IS NULL THEN ? ELSE deleted_date END
				WHERE id = ? AND area_id = ?`,
				li.PrepHours.String(), li.WorkingHours.String(), li.Unit, li.Coats,
				li.SortOrder, boolToInt(li.IsDeleted),
				boolToInt(li.IsDeleted), time.Now().UTC().Format(time.RFC3339),
				li.LineItemID, a.AreaID)
			if err != nil {
				return nil, fmt.Errorf("saving line item %d: %w", li.LineItemID, err)
			}
			if n, err := result.RowsAffected(); err == nil && n == 0 {
				return nil, reject("Line item %d not found.", li.LineItemID)
			}
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE work_order_line_items SET is_modified = CASE WHEN
			prep_hrs != original_prep_hrs OR working_hrs != original_working_hrs
			OR unit != original_unit OR coats != original_coats
			THEN 1 ELSE 0 END
		WHERE area_id IN (SELECT id FROM work_order_areas WHERE work_order_id = ?)`,
		snap.WorkOrderID); err != nil {
		return nil, fmt.Errorf("refreshing is_modified: %w", err)
	}
	if err := s.touch(ctx, tx, snap.WorkOrderID, time.Now()); err != nil {
		return nil, err
	}

	totals, err := s.computeTotals(ctx, tx, snap.WorkOrderID, nil)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing save: %w", err)
	}
	return &gateway.SaveResult{Message: "All changes saved.", Totals: totals}, nil
}

// owningArea resolves a line item's area and verifies it belongs to the
// given work order.
func (s *Store) owningArea(ctx context.Context, tx *sql.Tx, workOrderID, lineItemID int64) (int64, error) {
	var areaID, owner int64
	err := tx.QueryRowContext(ctx,
		`SELECT li.area_id, a.work_order_id FROM work_order_line_items li
		JOIN work_order_areas a ON li.area_id = a.id WHERE li.id = ?`,
		lineItemID).Scan(&areaID, &owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != workOrderID) {
		return 0, reject("Line item %d not found.", lineItemID)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving line item %d: %w", lineItemID, err)
	}
	return areaID, nil
}

func idSet(ctx context.Context, tx *sql.Tx, query string, arg any) (map[int64]bool, error) {
	rows, err := tx.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()
	set := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}

// sameIDSet rejects reorders that add, drop, or repeat ids.
func sameIDSet(existing map[int64]bool, ordered []int64, kind string) error {
	if len(ordered) != len(existing) {
		return reject("Reorder must include all %d %ss.", len(existing), kind)
	}
	seen := make(map[int64]bool, len(ordered))
	for _, id := range ordered {
		if !existing[id] {
			return reject("Unknown %s id %d.", kind, id)
		}
		if seen[id] {
			return reject("Duplicate %s id %d.", kind, id)
		}
		seen[id] = true
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
