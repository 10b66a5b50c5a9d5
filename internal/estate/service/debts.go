package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// RecordDebt registers a creditor claim. The statutory tier is assigned
// from the debt kind; callers never choose it.
func (s *Service) RecordDebt(ctx context.Context, estateID id.EstateID, req RecordDebtRequest) (*models.Debt, error) {
	req.Normalize()
	debtID := id.NewDebtID()

	estate, err := s.mutate(ctx, estateID, "record debt", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		debt, err := models.NewDebt(debtID, req.CreditorName, req.Kind, req.Amount,
			req.InterestRate, req.IsSecured, req.SecuredAssetID, req.IncurredAt, now)
		if err != nil {
			return nil, asValidation(err)
		}
		return e.AddDebt(debt, now)
	})
	if err != nil {
		return nil, err
	}
	return findDebt(estate, debtID)
}

// PayDebt applies a payment against a claim. Section 45 ordering is
// enforced by the aggregate: a payment that would leapfrog a senior unpaid
// claim is rejected.
func (s *Service) PayDebt(ctx context.Context, estateID id.EstateID, debtID id.DebtID, amount money.Money) (*models.Estate, error) {
	ctx, span := otel.Tracer("estate").Start(ctx, "estate.PayDebt",
		trace.WithAttributes(
			attribute.String("estate_id", estateID.String()),
			attribute.String("debt_id", debtID.String()),
			attribute.String("amount", amount.String()),
		))
	defer span.End()

	estate, err := s.mutate(ctx, estateID, "pay debt", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.PayDebt(debtID, amount, now)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment rejected")
		return nil, err
	}

	span.SetAttributes(attribute.String("cash_on_hand", estate.CashOnHand.String()))
	s.incrementDebtPayments()
	return estate, nil
}

// DisputeDebt suspends a claim pending resolution.
func (s *Service) DisputeDebt(ctx context.Context, estateID id.EstateID, debtID id.DebtID, reason string) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "dispute debt", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.DisputeDebt(debtID, reason, now)
	})
}

// ResolveDebtDispute reinstates a disputed claim.
func (s *Service) ResolveDebtDispute(ctx context.Context, estateID id.EstateID, debtID id.DebtID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "resolve debt dispute", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ResolveDebtDispute(debtID, now)
	})
}

// MarkDebtStatuteBarred demotes a claim whose limitation period has run.
func (s *Service) MarkDebtStatuteBarred(ctx context.Context, estateID id.EstateID, debtID id.DebtID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "mark debt statute-barred", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.MarkDebtStatuteBarred(debtID, now)
	})
}

// WriteOffDebt removes a claim from the ledger without payment.
func (s *Service) WriteOffDebt(ctx context.Context, estateID id.EstateID, debtID id.DebtID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "write off debt", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.WriteOffDebt(debtID, now)
	})
}

func findDebt(estate *models.Estate, debtID id.DebtID) (*models.Debt, error) {
	for _, d := range estate.Debts {
		if d.ID == debtID {
			return d, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "recorded debt missing from estate")
}
