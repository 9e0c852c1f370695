package planstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
)

const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Verify *DB satisfies the persistence contracts at compile time.
var (
	_ persistence.Backend        = (*DB)(nil)
	_ persistence.RevisionLister = (*DB)(nil)
)

func formatTime(t time.Time) string { return t.UTC().Format(tsLayout) }

// Save upserts the plan row and records its revision within a transaction.
func (db *DB) Save(ctx context.Context, planID string, doc *floorplan.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("planstore: encode: %w", err)
	}
	savedAt := formatTime(doc.SavedAt)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("planstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.ExecContext(ctx, db.rebind(`
		INSERT INTO plans (plan_id, revision, document, total_area, pallet_capacity, item_count, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(plan_id) DO UPDATE SET
			revision        = excluded.revision,
			document        = excluded.document,
			total_area      = excluded.total_area,
			pallet_capacity = excluded.pallet_capacity,
			item_count      = excluded.item_count,
			saved_at        = excluded.saved_at
	`), planID, doc.Revision, string(body), doc.TotalArea, doc.PalletCapacity, len(doc.Items), savedAt)
	if err != nil {
		return fmt.Errorf("planstore: upsert plan: %w", err)
	}

	if doc.Revision != "" {
		_, err = tx.ExecContext(ctx, db.rebind(`
			INSERT INTO plan_revisions (plan_id, revision, document, saved_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(plan_id, revision) DO UPDATE SET saved_at = excluded.saved_at
		`), planID, doc.Revision, string(body), savedAt)
		if err != nil {
			return fmt.Errorf("planstore: insert revision: %w", err)
		}
	}

	return tx.Commit()
}

// Load returns the latest document of planID.
func (db *DB) Load(ctx context.Context, planID string) (*floorplan.Document, error) {
	var body string
	err := db.conn.QueryRowContext(ctx, db.rebind(`SELECT document FROM plans WHERE plan_id = ?`), planID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("planstore: plan %s: %w", planID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("planstore: load: %w", err)
	}
	return decode(body, planID)
}

func decode(body, planID string) (*floorplan.Document, error) {
	var doc floorplan.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("planstore: decode %s: %w", planID, err)
	}
	if doc.PlanID == "" {
		doc.PlanID = planID
	}
	return &doc, nil
}

// List returns a summary of every plan ordered by id.
func (db *DB) List(ctx context.Context) ([]persistence.Summary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT plan_id, revision, total_area, pallet_capacity, item_count, saved_at
		FROM plans ORDER BY plan_id`)
	if err != nil {
		return nil, fmt.Errorf("planstore: list: %w", err)
	}
	defer rows.Close()

	out := []persistence.Summary{}
	for rows.Next() {
		var (
			s       persistence.Summary
			savedAt string
		)
		if err := rows.Scan(&s.PlanID, &s.Revision, &s.TotalArea, &s.PalletCapacity, &s.ItemCount, &savedAt); err != nil {
			return nil, err
		}
		if s.SavedAt, err = time.Parse(tsLayout, savedAt); err != nil {
			return nil, fmt.Errorf("planstore: plan %s saved_at: %w", s.PlanID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Revisions returns every recorded save of planID, newest first.
func (db *DB) Revisions(ctx context.Context, planID string) ([]persistence.Summary, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(`
		SELECT document FROM plan_revisions WHERE plan_id = ? ORDER BY saved_at DESC`), planID)
	if err != nil {
		return nil, fmt.Errorf("planstore: revisions: %w", err)
	}
	defer rows.Close()

	out := []persistence.Summary{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		doc, err := decode(body, planID)
		if err != nil {
			return nil, err
		}
		out = append(out, persistence.Summarize(doc))
	}
	return out, rows.Err()
}

// Delete removes a plan and its revisions.
func (db *DB) Delete(ctx context.Context, planID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("planstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM plans WHERE plan_id = ?`), planID)
	if err != nil {
		return fmt.Errorf("planstore: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("planstore: plan %s: %w", planID, apperr.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM plan_revisions WHERE plan_id = ?`), planID); err != nil {
		return fmt.Errorf("planstore: delete revisions: %w", err)
	}

	return tx.Commit()
}
