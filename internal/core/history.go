package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tablemend/tablemend/internal/diff"
)

// ErrHistoryDisabled is returned when history is queried without a
// configured database.
var ErrHistoryDisabled = errors.New("run history is not configured")

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// RunRecord is a persisted summary of one comparison run. Only aggregate
// counts and file labels are stored, never cell contents or decisions;
// those stay in memory for the life of the session.
type RunRecord struct {
	ID           string     `json:"id"`
	OriginalName string     `json:"originalName"`
	UpdatedName  string     `json:"updatedName"`
	Total        int        `json:"total"`
	Added        int        `json:"added"`
	Removed      int        `json:"removed"`
	Modified     int        `json:"modified"`
	CreatedAt    time.Time  `json:"createdAt"`
	AppliedAt    *time.Time `json:"appliedAt,omitempty"`
}

// History records comparison run summaries in Postgres.
type History struct {
	db DBTX
}

// NewHistory creates a History writing through db.
func NewHistory(db DBTX) *History {
	return &History{db: db}
}

// EnsureSchema creates the comparison_runs table if it does not exist.
// Called once at startup when a database is configured.
func (h *History) EnsureSchema(ctx context.Context) error {
	_, err := h.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS comparison_runs (
			id             UUID PRIMARY KEY,
			original_name  TEXT NOT NULL,
			updated_name   TEXT NOT NULL,
			total          INTEGER NOT NULL,
			added          INTEGER NOT NULL,
			removed        INTEGER NOT NULL,
			modified       INTEGER NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL,
			applied_at     TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("ensure comparison_runs schema: %w", err)
	}
	return nil
}

// RecordRun inserts a summary row for a freshly opened session.
func (h *History) RecordRun(ctx context.Context, sess *Session, stats diff.Stats) error {
	_, err := h.db.Exec(ctx, `
		INSERT INTO comparison_runs
			(id, original_name, updated_name, total, added, removed, modified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sess.ID, sess.OriginalName, sess.UpdatedName,
		stats.Total, stats.Added, stats.Removed, stats.Modified,
		sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comparison run: %w", err)
	}
	return nil
}

// MarkApplied stamps the run with the time its corrected table was
// materialized. Re-downloading updates the stamp.
func (h *History) MarkApplied(ctx context.Context, id string) error {
	_, err := h.db.Exec(ctx,
		`UPDATE comparison_runs SET applied_at = $2 WHERE id = $1`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark run applied: %w", err)
	}
	return nil
}

// Recent returns up to limit run summaries, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.Query(ctx, `
		SELECT id, original_name, updated_name, total, added, removed, modified, created_at, applied_at
		FROM comparison_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query comparison runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec       RunRecord
			id        pgtype.UUID
			appliedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &rec.OriginalName, &rec.UpdatedName,
			&rec.Total, &rec.Added, &rec.Removed, &rec.Modified,
			&rec.CreatedAt, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan comparison run: %w", err)
		}
		if id.Valid {
			rec.ID = fmt.Sprintf("%x-%x-%x-%x-%x", id.Bytes[0:4], id.Bytes[4:6], id.Bytes[6:8], id.Bytes[8:10], id.Bytes[10:16])
		}
		if appliedAt.Valid {
			t := appliedAt.Time
			rec.AppliedAt = &t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comparison runs: %w", err)
	}
	return records, nil
}
