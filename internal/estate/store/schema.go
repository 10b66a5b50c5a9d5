package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the estate tables. Numeric money columns carry the
// amount only; every child row shares the estate's currency. Derived fields
// (net value, solvency) are recomputed on load, never stored.
const Schema = `
CREATE TABLE IF NOT EXISTS estates (
	id                 UUID PRIMARY KEY,
	name               TEXT NOT NULL,
	deceased_id        UUID NOT NULL,
	date_of_death      TIMESTAMPTZ NOT NULL,
	status             TEXT NOT NULL,
	currency           TEXT NOT NULL,
	cash_on_hand       NUMERIC(20,4) NOT NULL,
	tax_status         TEXT NOT NULL,
	tax_liability      NUMERIC(20,4) NOT NULL DEFAULT 0,
	tax_paid           NUMERIC(20,4) NOT NULL DEFAULT 0,
	tax_certificate_no TEXT NOT NULL DEFAULT '',
	tax_checked_at     TIMESTAMPTZ,
	is_frozen          BOOLEAN NOT NULL DEFAULT FALSE,
	frozen_reason      TEXT NOT NULL DEFAULT '',
	version            BIGINT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS estate_assets (
	id              UUID PRIMARY KEY,
	estate_id       UUID NOT NULL REFERENCES estates(id) ON DELETE CASCADE,
	description     TEXT NOT NULL,
	kind            TEXT NOT NULL,
	estimated_value NUMERIC(20,4) NOT NULL,
	status          TEXT NOT NULL,
	acquired_at     TIMESTAMPTZ,
	verified_at     TIMESTAMPTZ,
	dispute_reason  TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_estate_assets_estate ON estate_assets (estate_id);

CREATE TABLE IF NOT EXISTS estate_debts (
	id                  UUID PRIMARY KEY,
	estate_id           UUID NOT NULL REFERENCES estates(id) ON DELETE CASCADE,
	creditor_name       TEXT NOT NULL,
	kind                TEXT NOT NULL,
	initial_amount      NUMERIC(20,4) NOT NULL,
	outstanding_balance NUMERIC(20,4) NOT NULL,
	interest_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
	priority_tier       INT NOT NULL,
	priority_label      TEXT NOT NULL,
	priority_citation   TEXT NOT NULL,
	is_secured          BOOLEAN NOT NULL DEFAULT FALSE,
	secured_asset_id    UUID,
	status              TEXT NOT NULL,
	dispute_reason      TEXT NOT NULL DEFAULT '',
	incurred_at         TIMESTAMPTZ NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_estate_debts_estate ON estate_debts (estate_id);

CREATE TABLE IF NOT EXISTS estate_gifts (
	id                      UUID PRIMARY KEY,
	estate_id               UUID NOT NULL REFERENCES estates(id) ON DELETE CASCADE,
	recipient_id            UUID NOT NULL,
	recipient_name          TEXT NOT NULL,
	description             TEXT NOT NULL DEFAULT '',
	value_at_time_of_gift   NUMERIC(20,4) NOT NULL,
	given_at                TIMESTAMPTZ NOT NULL,
	status                  TEXT NOT NULL,
	court_ordered_inclusion BOOLEAN NOT NULL DEFAULT FALSE,
	verified                BOOLEAN NOT NULL DEFAULT FALSE,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_estate_gifts_estate ON estate_gifts (estate_id);

CREATE TABLE IF NOT EXISTS estate_dependants (
	id                       UUID PRIMARY KEY,
	estate_id                UUID NOT NULL REFERENCES estates(id) ON DELETE CASCADE,
	claimant_id              UUID NOT NULL,
	full_name                TEXT NOT NULL,
	relationship             TEXT NOT NULL,
	monthly_needs            NUMERIC(20,4) NOT NULL DEFAULT 0,
	previous_monthly_support NUMERIC(20,4) NOT NULL DEFAULT 0,
	dependency_percent       DOUBLE PRECISION NOT NULL DEFAULT 0,
	date_of_birth            TIMESTAMPTZ,
	incapacitated            BOOLEAN NOT NULL DEFAULT FALSE,
	evidence                 JSONB NOT NULL DEFAULT '[]',
	status                   TEXT NOT NULL,
	rejection_reason         TEXT NOT NULL DEFAULT '',
	created_at               TIMESTAMPTZ NOT NULL,
	updated_at               TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_estate_dependants_estate ON estate_dependants (estate_id);
`

// EnsureSchema creates the estate tables if they do not exist. Deployments
// with managed migrations run the same DDL there instead.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure estate schema: %w", err)
	}
	return nil
}
