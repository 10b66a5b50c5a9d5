package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pgUniqueViolation = "23505"

// PostgresStore persists estates in PostgreSQL. Execute wraps the whole
// read-modify-write cycle in one transaction with a row lock, so two
// concurrent mutations of the same estate serialize at the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed estate store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// querier abstracts pool and transaction so loads work inside and outside
// Execute.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PostgresStore) Create(ctx context.Context, estate *models.Estate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create estate: %w", err)
	}
	defer tx.Rollback(ctx)

	snap := estate.Snapshot()
	query := `
		INSERT INTO estates (
			id, name, deceased_id, date_of_death, status, currency,
			cash_on_hand, tax_status, tax_liability, tax_paid,
			tax_certificate_no, tax_checked_at, is_frozen, frozen_reason,
			version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = tx.Exec(ctx, query,
		uuid.UUID(snap.ID),
		snap.Name,
		uuid.UUID(snap.DeceasedID),
		snap.DateOfDeath,
		string(snap.Status),
		snap.Currency,
		snap.CashOnHand.Amount().String(),
		string(snap.TaxCompliance.Status),
		snap.TaxCompliance.Liability.Amount().String(),
		snap.TaxCompliance.Paid.Amount().String(),
		snap.TaxCompliance.CertificateNo,
		nullableTime(snap.TaxCompliance.CheckedAt),
		snap.IsFrozen,
		snap.FrozenReason,
		snap.Version,
		snap.CreatedAt,
		snap.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("estate %s: %w", snap.ID, sentinel.ErrAlreadyExists)
		}
		return fmt.Errorf("insert estate: %w", err)
	}

	if err := insertChildren(ctx, tx, snap); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create estate: %w", err)
	}
	estate.MarkPersisted()
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return fetch(ctx, s.pool, estateID, false)
}

func (s *PostgresStore) Save(ctx context.Context, estate *models.Estate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save estate: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := saveTx(ctx, tx, estate); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save estate: %w", err)
	}
	estate.MarkPersisted()
	return nil
}

func (s *PostgresStore) Execute(ctx context.Context, estateID id.EstateID, fn func(*models.Estate) error) (*models.Estate, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin execute: %w", err)
	}
	defer tx.Rollback(ctx)

	estate, err := fetch(ctx, tx, estateID, true)
	if err != nil {
		return nil, err
	}
	if err := fn(estate); err != nil {
		return nil, err
	}
	if err := saveTx(ctx, tx, estate); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit execute: %w", err)
	}
	estate.MarkPersisted()
	return estate, nil
}

// fetch loads the estate row (optionally locked) and all children, then
// rehydrates the aggregate.
func fetch(ctx context.Context, q querier, estateID id.EstateID, forUpdate bool) (*models.Estate, error) {
	query := `
		SELECT name, deceased_id, date_of_death, status, currency,
			   cash_on_hand::text, tax_status, tax_liability::text, tax_paid::text,
			   tax_certificate_no, tax_checked_at, is_frozen, frozen_reason,
			   version, created_at, updated_at
		FROM estates
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var (
		snap       models.EstateSnapshot
		deceasedID uuid.UUID
		status     string
		cash       string
		taxStatus  string
		taxLiab    string
		taxPaid    string
		checkedAt  *time.Time
	)
	snap.ID = estateID
	err := q.QueryRow(ctx, query, uuid.UUID(estateID)).Scan(
		&snap.Name, &deceasedID, &snap.DateOfDeath, &status, &snap.Currency,
		&cash, &taxStatus, &taxLiab, &taxPaid,
		&snap.TaxCompliance.CertificateNo, &checkedAt, &snap.IsFrozen, &snap.FrozenReason,
		&snap.Version, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("estate %s: %w", estateID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select estate: %w", err)
	}

	snap.DeceasedID = id.PersonID(deceasedID)
	snap.Status = models.EstateStatus(status)
	if snap.CashOnHand, err = money.NewFromString(cash, snap.Currency); err != nil {
		return nil, fmt.Errorf("decode cash on hand: %w", err)
	}
	snap.TaxCompliance.Status = models.TaxStatus(taxStatus)
	if snap.TaxCompliance.Liability, err = money.NewFromString(taxLiab, snap.Currency); err != nil {
		return nil, fmt.Errorf("decode tax liability: %w", err)
	}
	if snap.TaxCompliance.Paid, err = money.NewFromString(taxPaid, snap.Currency); err != nil {
		return nil, fmt.Errorf("decode tax paid: %w", err)
	}
	if checkedAt != nil {
		snap.TaxCompliance.CheckedAt = *checkedAt
	}

	if snap.Assets, err = loadAssets(ctx, q, estateID, snap.Currency); err != nil {
		return nil, err
	}
	if snap.Debts, err = loadDebts(ctx, q, estateID, snap.Currency); err != nil {
		return nil, err
	}
	if snap.Gifts, err = loadGifts(ctx, q, estateID, snap.Currency); err != nil {
		return nil, err
	}
	if snap.Dependants, err = loadDependants(ctx, q, estateID, snap.Currency); err != nil {
		return nil, err
	}
	return models.RehydrateEstate(snap)
}

// saveTx applies the version CAS on the root row, then replaces the child
// rows wholesale. Children are few per estate; replace keeps reconciliation
// trivial and the write set deterministic.
func saveTx(ctx context.Context, tx pgx.Tx, estate *models.Estate) error {
	snap := estate.Snapshot()
	query := `
		UPDATE estates SET
			name = $1, status = $2, cash_on_hand = $3,
			tax_status = $4, tax_liability = $5, tax_paid = $6,
			tax_certificate_no = $7, tax_checked_at = $8,
			is_frozen = $9, frozen_reason = $10,
			version = $11, updated_at = $12
		WHERE id = $13 AND version = $14
	`
	tag, err := tx.Exec(ctx, query,
		snap.Name,
		string(snap.Status),
		snap.CashOnHand.Amount().String(),
		string(snap.TaxCompliance.Status),
		snap.TaxCompliance.Liability.Amount().String(),
		snap.TaxCompliance.Paid.Amount().String(),
		snap.TaxCompliance.CertificateNo,
		nullableTime(snap.TaxCompliance.CheckedAt),
		snap.IsFrozen,
		snap.FrozenReason,
		snap.Version,
		snap.UpdatedAt,
		uuid.UUID(snap.ID),
		estate.LoadedVersion(),
	)
	if err != nil {
		return fmt.Errorf("update estate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		checkErr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM estates WHERE id = $1)`,
			uuid.UUID(snap.ID)).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("check estate existence: %w", checkErr)
		}
		if !exists {
			return fmt.Errorf("estate %s: %w", snap.ID, sentinel.ErrNotFound)
		}
		return fmt.Errorf("estate %s: version %d superseded: %w",
			snap.ID, estate.LoadedVersion(), sentinel.ErrConflict)
	}

	for _, table := range []string{"estate_assets", "estate_debts", "estate_gifts", "estate_dependants"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE estate_id = $1", uuid.UUID(snap.ID)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return insertChildren(ctx, tx, snap)
}

func insertChildren(ctx context.Context, tx pgx.Tx, snap models.EstateSnapshot) error {
	estateID := uuid.UUID(snap.ID)

	for _, a := range snap.Assets {
		_, err := tx.Exec(ctx, `
			INSERT INTO estate_assets (
				id, estate_id, description, kind, estimated_value, status,
				acquired_at, verified_at, dispute_reason, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.UUID(a.ID), estateID, a.Description, string(a.Kind),
			a.EstimatedValue.Amount().String(), string(a.Status),
			a.AcquiredAt, a.VerifiedAt, a.DisputeReason, a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert asset %s: %w", a.ID, err)
		}
	}

	for _, d := range snap.Debts {
		var securedAssetID *uuid.UUID
		if d.SecuredAssetID != nil {
			v := uuid.UUID(*d.SecuredAssetID)
			securedAssetID = &v
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO estate_debts (
				id, estate_id, creditor_name, kind, initial_amount,
				outstanding_balance, interest_rate, priority_tier,
				priority_label, priority_citation, is_secured,
				secured_asset_id, status, dispute_reason, incurred_at,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			uuid.UUID(d.ID), estateID, d.CreditorName, string(d.Kind),
			d.InitialAmount.Amount().String(), d.OutstandingBalance.Amount().String(),
			d.InterestRate, d.Priority.Tier, d.Priority.Label, d.Priority.Citation,
			d.IsSecured, securedAssetID, string(d.Status), d.DisputeReason,
			d.IncurredAt, d.CreatedAt, d.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert debt %s: %w", d.ID, err)
		}
	}

	for _, g := range snap.Gifts {
		_, err := tx.Exec(ctx, `
			INSERT INTO estate_gifts (
				id, estate_id, recipient_id, recipient_name, description,
				value_at_time_of_gift, given_at, status,
				court_ordered_inclusion, verified, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			uuid.UUID(g.ID), estateID, uuid.UUID(g.RecipientID), g.RecipientName,
			g.Description, g.ValueAtTimeOfGift.Amount().String(), g.GivenAt,
			string(g.Status), g.CourtOrderedInclusion, g.Verified,
			g.CreatedAt, g.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert gift %s: %w", g.ID, err)
		}
	}

	for _, dep := range snap.Dependants {
		evidence, err := json.Marshal(dep.Evidence)
		if err != nil {
			return fmt.Errorf("encode evidence for dependant %s: %w", dep.ID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO estate_dependants (
				id, estate_id, claimant_id, full_name, relationship,
				monthly_needs, previous_monthly_support, dependency_percent,
				date_of_birth, incapacitated, evidence, status,
				rejection_reason, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			uuid.UUID(dep.ID), estateID, uuid.UUID(dep.ClaimantID), dep.FullName,
			string(dep.Relationship), dep.MonthlyNeeds.Amount().String(),
			dep.PreviousMonthlySupport.Amount().String(), dep.DependencyPercent,
			dep.DateOfBirth, dep.Incapacitated, evidence, string(dep.Status),
			dep.RejectionReason, dep.CreatedAt, dep.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert dependant %s: %w", dep.ID, err)
		}
	}
	return nil
}

func loadAssets(ctx context.Context, q querier, estateID id.EstateID, currency string) ([]models.Asset, error) {
	rows, err := q.Query(ctx, `
		SELECT id, description, kind, estimated_value::text, status,
			   acquired_at, verified_at, dispute_reason, created_at, updated_at
		FROM estate_assets
		WHERE estate_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(estateID))
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var out []models.Asset
	for rows.Next() {
		var (
			a       models.Asset
			assetID uuid.UUID
			kind    string
			value   string
			status  string
		)
		if err := rows.Scan(&assetID, &a.Description, &kind, &value, &status,
			&a.AcquiredAt, &a.VerifiedAt, &a.DisputeReason, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.ID = id.AssetID(assetID)
		a.Kind = models.AssetKind(kind)
		a.Status = models.AssetStatus(status)
		if a.EstimatedValue, err = money.NewFromString(value, currency); err != nil {
			return nil, fmt.Errorf("decode asset value: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func loadDebts(ctx context.Context, q querier, estateID id.EstateID, currency string) ([]models.Debt, error) {
	rows, err := q.Query(ctx, `
		SELECT id, creditor_name, kind, initial_amount::text,
			   outstanding_balance::text, interest_rate, priority_tier,
			   priority_label, priority_citation, is_secured, secured_asset_id,
			   status, dispute_reason, incurred_at, created_at, updated_at
		FROM estate_debts
		WHERE estate_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(estateID))
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var out []models.Debt
	for rows.Next() {
		var (
			d            models.Debt
			debtID       uuid.UUID
			kind         string
			initial      string
			outstanding  string
			status       string
			securedAsset *uuid.UUID
		)
		if err := rows.Scan(&debtID, &d.CreditorName, &kind, &initial,
			&outstanding, &d.InterestRate, &d.Priority.Tier, &d.Priority.Label,
			&d.Priority.Citation, &d.IsSecured, &securedAsset, &status,
			&d.DisputeReason, &d.IncurredAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		d.ID = id.DebtID(debtID)
		d.Kind = models.DebtKind(kind)
		d.Status = models.DebtStatus(status)
		if securedAsset != nil {
			v := id.AssetID(*securedAsset)
			d.SecuredAssetID = &v
		}
		if d.InitialAmount, err = money.NewFromString(initial, currency); err != nil {
			return nil, fmt.Errorf("decode debt initial amount: %w", err)
		}
		if d.OutstandingBalance, err = money.NewFromString(outstanding, currency); err != nil {
			return nil, fmt.Errorf("decode debt outstanding balance: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func loadGifts(ctx context.Context, q querier, estateID id.EstateID, currency string) ([]models.GiftInterVivos, error) {
	rows, err := q.Query(ctx, `
		SELECT id, recipient_id, recipient_name, description,
			   value_at_time_of_gift::text, given_at, status,
			   court_ordered_inclusion, verified, created_at, updated_at
		FROM estate_gifts
		WHERE estate_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(estateID))
	if err != nil {
		return nil, fmt.Errorf("query gifts: %w", err)
	}
	defer rows.Close()

	var out []models.GiftInterVivos
	for rows.Next() {
		var (
			g           models.GiftInterVivos
			giftID      uuid.UUID
			recipientID uuid.UUID
			value       string
			status      string
		)
		if err := rows.Scan(&giftID, &recipientID, &g.RecipientName,
			&g.Description, &value, &g.GivenAt, &status,
			&g.CourtOrderedInclusion, &g.Verified, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		g.ID = id.GiftID(giftID)
		g.RecipientID = id.PersonID(recipientID)
		g.Status = models.GiftStatus(status)
		if g.ValueAtTimeOfGift, err = money.NewFromString(value, currency); err != nil {
			return nil, fmt.Errorf("decode gift value: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func loadDependants(ctx context.Context, q querier, estateID id.EstateID, currency string) ([]models.LegalDependant, error) {
	rows, err := q.Query(ctx, `
		SELECT id, claimant_id, full_name, relationship, monthly_needs::text,
			   previous_monthly_support::text, dependency_percent,
			   date_of_birth, incapacitated, evidence, status,
			   rejection_reason, created_at, updated_at
		FROM estate_dependants
		WHERE estate_id = $1
		ORDER BY created_at, id`,
		uuid.UUID(estateID))
	if err != nil {
		return nil, fmt.Errorf("query dependants: %w", err)
	}
	defer rows.Close()

	var out []models.LegalDependant
	for rows.Next() {
		var (
			dep          models.LegalDependant
			depID        uuid.UUID
			claimantID   uuid.UUID
			relationship string
			needs        string
			support      string
			evidence     []byte
			status       string
		)
		if err := rows.Scan(&depID, &claimantID, &dep.FullName, &relationship,
			&needs, &support, &dep.DependencyPercent, &dep.DateOfBirth,
			&dep.Incapacitated, &evidence, &status, &dep.RejectionReason,
			&dep.CreatedAt, &dep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dependant: %w", err)
		}
		dep.ID = id.DependantID(depID)
		dep.ClaimantID = id.PersonID(claimantID)
		dep.Relationship = models.Relationship(relationship)
		dep.Status = models.DependantStatus(status)
		if dep.MonthlyNeeds, err = money.NewFromString(needs, currency); err != nil {
			return nil, fmt.Errorf("decode dependant needs: %w", err)
		}
		if dep.PreviousMonthlySupport, err = money.NewFromString(support, currency); err != nil {
			return nil, fmt.Errorf("decode dependant support: %w", err)
		}
		if len(evidence) > 0 {
			if err := json.Unmarshal(evidence, &dep.Evidence); err != nil {
				return nil, fmt.Errorf("decode dependant evidence: %w", err)
			}
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
