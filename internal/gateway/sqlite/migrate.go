package sqlite

import (
	"database/sql"
	"fmt"
)

// migrations are idempotent; hours are stored as TEXT so decimal values
// survive round trips without floating-point drift.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_orders (
		id INTEGER PRIMARY KEY,
		proposal_number TEXT NOT NULL DEFAULT '',
		proposal_state TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		job_name TEXT NOT NULL DEFAULT '',
		job_address TEXT NOT NULL DEFAULT '',
		last_modified TEXT,
		last_modified_by TEXT NOT NULL DEFAULT '',
		original_proposal_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS work_order_areas (
		id INTEGER PRIMARY KEY,
		work_order_id INTEGER NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
		area_name TEXT NOT NULL,
		custom_area_name TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS work_order_line_items (
		id INTEGER PRIMARY KEY,
		area_id INTEGER NOT NULL REFERENCES work_order_areas(id) ON DELETE CASCADE,
		item_name TEXT NOT NULL,
		item_type TEXT NOT NULL DEFAULT '',
		product_name TEXT NOT NULL DEFAULT '',
		sheen TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		prep_hrs TEXT NOT NULL DEFAULT '0',
		working_hrs TEXT NOT NULL DEFAULT '0',
		unit TEXT NOT NULL DEFAULT '',
		coats INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL,
		is_deleted INTEGER NOT NULL DEFAULT 0,
		deleted_date TEXT,
		is_modified INTEGER NOT NULL DEFAULT 0,
		original_prep_hrs TEXT NOT NULL DEFAULT '0',
		original_working_hrs TEXT NOT NULL DEFAULT '0',
		original_unit TEXT NOT NULL DEFAULT '',
		original_coats INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_areas_work_order ON work_order_areas(work_order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_line_items_area ON work_order_line_items(area_id)`,
}

func migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
