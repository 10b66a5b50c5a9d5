package service

import (
	"context"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/hotchpot"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/solvency"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/specification"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// ReadinessReport answers whether distribution may begin, and if not, why
// not, in the fixed statutory check order.
type ReadinessReport struct {
	EstateID        id.EstateID `json:"estate_id"`
	Status          string      `json:"status"`
	Ready           bool        `json:"ready"`
	BlockingReasons []string    `json:"blocking_reasons,omitempty"`
	CheckedAt       time.Time   `json:"checked_at"`
}

// SolvencyReport computes the tier-by-tier liability picture of an estate.
func (s *Service) SolvencyReport(ctx context.Context, estateID id.EstateID) (*solvency.Report, error) {
	estate, err := s.store.Get(ctx, estateID)
	if err != nil {
		return nil, s.translate(err, "load estate")
	}
	report := solvency.Evaluate(estate, s.clock())
	return &report, nil
}

// HotchpotAnalysis evaluates lifetime gifts against the inclusion criteria
// and reports the adjusted pool.
func (s *Service) HotchpotAnalysis(ctx context.Context, estateID id.EstateID) (*hotchpot.Analysis, error) {
	estate, err := s.store.Get(ctx, estateID)
	if err != nil {
		return nil, s.translate(err, "load estate")
	}
	analysis := s.hotchpot.Analyze(estate, s.clock())
	return &analysis, nil
}

// DistributionReadiness lists every condition currently blocking
// distribution. An empty list means the gate is open.
func (s *Service) DistributionReadiness(ctx context.Context, estateID id.EstateID) (*ReadinessReport, error) {
	estate, err := s.store.Get(ctx, estateID)
	if err != nil {
		return nil, s.translate(err, "load estate")
	}
	reasons := specification.BlockingReasons(estate)
	return &ReadinessReport{
		EstateID:        estate.ID,
		Status:          estate.Status.String(),
		Ready:           len(reasons) == 0,
		BlockingReasons: reasons,
		CheckedAt:       s.clock(),
	}, nil
}
