// Package sqlite implements the persistence gateway against a local
// SQLite database. It is the same contract the hosted backend serves:
// validation is re-enforced here, totals are recomputed after every
// mutation, and refusals come back as gateway rejections.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/gateway"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Store implements gateway.Client over a SQLite database.
type Store struct {
	db    *sql.DB
	actor string
}

// Open opens (or creates) the database at path and runs migrations.
// ":memory:" is accepted for tests. Writes are attributed to actor.
func Open(path, actor string) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if actor == "" {
		actor = gateway.DefaultActor
	}
	return &Store{db: db, actor: actor}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const lineItemColumns = `id, area_id, item_name, item_type, product_name, sheen, color,
		prep_hrs, working_hrs, unit, coats, sort_order, is_deleted, deleted_date, is_modified,
		original_prep_hrs, original_working_hrs, original_unit, original_coats`

func (s *Store) LoadForEdit(ctx context.Context, workOrderID int64) (*domain.WorkOrder, error) {
	w := &domain.WorkOrder{}
	var lastModified sql.NullString
	var origProposalID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT id, proposal_number, proposal_state, customer_name,
		job_name, job_address, last_modified, last_modified_by, original_proposal_id
		FROM work_orders WHERE id = ?`, workOrderID).Scan(
		&w.ID, &w.ProposalNumber, &w.ProposalState, &w.CustomerName,
		&w.JobName, &w.JobAddress, &lastModified, &w.LastModifiedBy, &origProposalID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &gateway.RejectionError{Message: fmt.Sprintf("Work Order %d not found.", workOrderID)}
	}
	if err != nil {
		return nil, fmt.Errorf("loading work order %d: %w", workOrderID, err)
	}
	if t, ok := parseNullTime(lastModified); ok {
		w.LastModified = &t
	}
	if origProposalID.Valid {
		v := origProposalID.Int64
		w.OriginalProposalID = &v
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, area_name, custom_area_name, sort_order
		FROM work_order_areas WHERE work_order_id = ? ORDER BY sort_order, id`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("loading areas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a := &domain.Area{WorkOrderID: workOrderID}
		if err := rows.Scan(&a.ID, &a.Name, &a.CustomName, &a.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning area: %w", err)
		}
		w.Areas = append(w.Areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating areas: %w", err)
	}

	for _, a := range w.Areas {
		items, err := s.loadLineItems(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		a.LineItems = items
	}
	return w, nil
}

func (s *Store) loadLineItems(ctx context.Context, areaID int64) ([]*domain.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+lineItemColumns+`
		FROM work_order_line_items WHERE area_id = ? ORDER BY sort_order, id`, areaID)
	if err != nil {
		return nil, fmt.Errorf("loading line items: %w", err)
	}
	defer rows.Close()

	var items []*domain.LineItem
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLineItem(row rowScanner) (*domain.LineItem, error) {
	li := &domain.LineItem{}
	var prep, working, origPrep, origWorking string
	var deleted, modified int
	var deletedDate sql.NullString
	err := row.Scan(
		&li.ID, &li.AreaID, &li.ItemName, &li.ItemType, &li.ProductName, &li.Sheen, &li.Color,
		&prep, &working, &li.Unit, &li.Coats, &li.SortOrder, &deleted, &deletedDate, &modified,
		&origPrep, &origWorking, &li.OriginalUnit, &li.OriginalCoats,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning line item: %w", err)
	}
	if li.PrepHours, err = decimal.NewFromString(prep); err != nil {
		return nil, fmt.Errorf("parsing prep_hrs %q: %w", prep, err)
	}
	if li.WorkingHours, err = decimal.NewFromString(working); err != nil {
		return nil, fmt.Errorf("parsing working_hrs %q: %w", working, err)
	}
	if li.OriginalPrepHours, err = decimal.NewFromString(origPrep); err != nil {
		return nil, fmt.Errorf("parsing original_prep_hrs %q: %w", origPrep, err)
	}
	if li.OriginalWorkingHours, err = decimal.NewFromString(origWorking); err != nil {
		return nil, fmt.Errorf("parsing original_working_hrs %q: %w", origWorking, err)
	}
	li.IsDeleted = deleted != 0
	li.IsModified = modified != 0
	if t, ok := parseNullTime(deletedDate); ok {
		li.DeletedAt = &t
	}
	return li, nil
}

// computeTotals sums non-deleted items for the grand block and, when
// areaID is non-nil, the area block. Sums run in Go decimals so the
// TEXT-stored values never pass through floating point.
func (s *Store) computeTotals(ctx context.Context, q queryer, workOrderID int64, areaID *int64) (*gateway.Totals, error) {
	rows, err := q.QueryContext(ctx, `SELECT li.area_id, li.prep_hrs, li.working_hrs
		FROM work_order_line_items li
		JOIN work_order_areas a ON li.area_id = a.id
		WHERE a.work_order_id = ? AND li.is_deleted = 0`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}
	defer rows.Close()

	t := &gateway.Totals{}
	for rows.Next() {
		var aid int64
		var prepStr, workingStr string
		if err := rows.Scan(&aid, &prepStr, &workingStr); err != nil {
			return nil, fmt.Errorf("scanning totals row: %w", err)
		}
		prep, err := decimal.NewFromString(prepStr)
		if err != nil {
			return nil, fmt.Errorf("parsing prep_hrs %q: %w", prepStr, err)
		}
		working, err := decimal.NewFromString(workingStr)
		if err != nil {
			return nil, fmt.Errorf("parsing working_hrs %q: %w", workingStr, err)
		}
		t.GrandPrepHours = t.GrandPrepHours.Add(prep)
		t.GrandWorkingHours = t.GrandWorkingHours.Add(working)
		if areaID != nil && aid == *areaID {
			t.AreaPrepHours = t.AreaPrepHours.Add(prep)
			t.AreaWorkingHours = t.AreaWorkingHours.Add(working)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating totals rows: %w", err)
	}
	t.GrandTotalHours = t.GrandPrepHours.Add(t.GrandWorkingHours)
	t.AreaTotalHours = t.AreaPrepHours.Add(t.AreaWorkingHours)
	return t, nil
}

func (s *Store) GetTotals(ctx context.Context, workOrderID int64, areaID *int64) (*gateway.Totals, error) {
	return s.computeTotals(ctx, s.db, workOrderID, areaID)
}

// queryer abstracts *sql.DB and *sql.Tx for totals computation.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) touch(ctx context.Context, tx *sql.Tx, workOrderID int64, now time.Time) error {
	_, err := tx.ExecContext(ctx, `UPDATE work_orders SET last_modified = ?, last_modified_by = ? WHERE id = ?`,
		now.UTC().Format(time.RFC3339), s.actor, workOrderID)
	if err != nil {
		return fmt.Errorf("stamping work order %d: %w", workOrderID, err)
	}
	return nil
}

func parseNullTime(ns sql.NullString) (time.Time, bool) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
