package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	txcontext "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/tx"
)

// Schema creates the audit trail table.
const Schema = `
CREATE TABLE IF NOT EXISTS estate_audit_trail (
	id          UUID PRIMARY KEY,
	estate_id   UUID NOT NULL,
	kind        TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	details     JSONB NOT NULL DEFAULT '{}',
	recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_trail_estate ON estate_audit_trail (estate_id, occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_trail_occurred ON estate_audit_trail (occurred_at DESC);
`

// Store persists audit records in PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer routes writes through a caller-provided transaction when one is on
// the context.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts a record. Duplicate IDs are ignored so redelivered events
// never double-write the trail.
func (s *Store) Append(ctx context.Context, record audit.Record) error {
	details, err := json.Marshal(record.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	query := `
		INSERT INTO estate_audit_trail (id, estate_id, kind, occurred_at, details, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		record.ID,
		uuid.UUID(record.EstateID),
		record.Kind,
		record.OccurredAt,
		details,
		record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// ListByEstate returns an estate's trail, newest first.
func (s *Store) ListByEstate(ctx context.Context, estateID id.EstateID, limit int) ([]audit.Record, error) {
	query := `
		SELECT id, estate_id, kind, occurred_at, details, recorded_at
		FROM estate_audit_trail
		WHERE estate_id = $1
		ORDER BY occurred_at DESC, id
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(estateID), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListRecent returns the newest records across all estates.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Record, error) {
	query := `
		SELECT id, estate_id, kind, occurred_at, details, recorded_at
		FROM estate_audit_trail
		ORDER BY occurred_at DESC, id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]audit.Record, error) {
	var records []audit.Record
	for rows.Next() {
		var (
			record   audit.Record
			estateID uuid.UUID
			details  []byte
		)
		if err := rows.Scan(&record.ID, &estateID, &record.Kind,
			&record.OccurredAt, &details, &record.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		record.EstateID = id.EstateID(estateID)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &record.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}

const defaultListLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
