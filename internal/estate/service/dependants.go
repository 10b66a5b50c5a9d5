package service

import (
	"context"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
)

// RegisterDependant files a dependency claim against the estate.
func (s *Service) RegisterDependant(ctx context.Context, estateID id.EstateID, req RegisterDependantRequest) (*models.LegalDependant, error) {
	req.Normalize()
	dependantID := id.NewDependantID()

	estate, err := s.mutate(ctx, estateID, "register dependant", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		dep, err := models.NewLegalDependant(dependantID, req.ClaimantID, req.FullName,
			req.Relationship, req.MonthlyNeeds, req.PreviousMonthlySupport,
			req.DependencyPercent, req.DateOfBirth, req.Incapacitated, now)
		if err != nil {
			return nil, asValidation(err)
		}
		return e.RegisterDependant(dep, now)
	})
	if err != nil {
		return nil, err
	}
	return findDependant(estate, dependantID)
}

// SubmitDependantEvidence attaches a supporting document. A rejected claim
// automatically re-enters verification.
func (s *Service) SubmitDependantEvidence(ctx context.Context, estateID id.EstateID, dependantID id.DependantID, req EvidenceRequest) (*models.Estate, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, estateID, "submit dependant evidence", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.SubmitDependantEvidence(dependantID, models.Evidence{
			Kind:        req.Kind,
			Reference:   req.Reference,
			Description: req.Description,
			SubmittedAt: now,
		}, now)
	})
}

// VerifyDependant accepts a dependency claim; verified claims are provided
// for ahead of every beneficiary share.
func (s *Service) VerifyDependant(ctx context.Context, estateID id.EstateID, dependantID id.DependantID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "verify dependant", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.VerifyDependant(dependantID, now)
	})
}

// RejectDependant declines a claim with the reviewer's reason.
func (s *Service) RejectDependant(ctx context.Context, estateID id.EstateID, dependantID id.DependantID, reason string) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "reject dependant", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.RejectDependant(dependantID, reason, now)
	})
}

// SettleDependant records that the provision has been paid out.
func (s *Service) SettleDependant(ctx context.Context, estateID id.EstateID, dependantID id.DependantID) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "settle dependant", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.SettleDependant(dependantID, now)
	})
}

func findDependant(estate *models.Estate, dependantID id.DependantID) (*models.LegalDependant, error) {
	for _, d := range estate.Dependants {
		if d.ID == dependantID {
			return d, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "registered dependant missing from estate")
}
