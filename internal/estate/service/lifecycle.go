package service

import (
	"context"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
)

// Freeze halts all mutations, typically on a court order.
func (s *Service) Freeze(ctx context.Context, estateID id.EstateID, reason string) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "freeze estate", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.Freeze(reason, now)
	})
}

// Unfreeze lifts a freeze.
func (s *Service) Unfreeze(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "unfreeze estate", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.Unfreeze(now)
	})
}

// RefreshTaxCompliance pulls the latest clearance from the revenue
// authority and applies it. The provider call happens outside the store
// lock; only the apply is serialized.
func (s *Service) RefreshTaxCompliance(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	if s.tax == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "no tax provider configured")
	}
	clearance, err := s.tax.Clearance(ctx, estateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch tax clearance")
	}
	return s.mutate(ctx, estateID, "refresh tax compliance", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.ApplyTaxCompliance(clearance, now)
	})
}

// BeginEvaluation starts asset and debt discovery.
func (s *Service) BeginEvaluation(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "begin evaluation", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.BeginEvaluation(now)
	})
}

// BeginAdministration starts active administration of the ledger.
func (s *Service) BeginAdministration(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "begin administration", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.BeginAdministration(now)
	})
}

// MarkReadyForDistribution moves the estate through the distribution gate.
// The first failing readiness condition aborts the transition.
func (s *Service) MarkReadyForDistribution(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "mark ready for distribution", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.MarkReadyForDistribution(now)
	})
}

// BeginDistribution starts paying out shares; readiness is re-checked.
func (s *Service) BeginDistribution(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "begin distribution", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.BeginDistribution(now)
	})
}

// RevertToAdministration pulls the estate back when readiness is lost.
func (s *Service) RevertToAdministration(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "revert to administration", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.RevertToAdministration(now)
	})
}

// CloseEstate ends administration.
func (s *Service) CloseEstate(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "close estate", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.Close(now)
	})
}
