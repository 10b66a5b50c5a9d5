package tax

import (
	"context"
	"sync"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// Static is an in-memory Provider for development and tests. Estates with
// no registered record are reported as PENDING with zero liability, which
// is what the revenue authority returns before a return is filed.
type Static struct {
	mu      sync.RWMutex
	records map[id.EstateID]models.TaxCompliance
}

// NewStatic constructs an empty static provider.
func NewStatic() *Static {
	return &Static{records: make(map[id.EstateID]models.TaxCompliance)}
}

// SetClearance registers the clearance record returned for an estate.
func (s *Static) SetClearance(estateID id.EstateID, compliance models.TaxCompliance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[estateID] = compliance
}

// Clearance returns the registered record, or a fresh PENDING record when
// the estate is unknown to the authority.
func (s *Static) Clearance(_ context.Context, estateID id.EstateID) (models.TaxCompliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[estateID]; ok {
		rec.CheckedAt = time.Now().UTC()
		return rec, nil
	}
	return models.TaxCompliance{
		Status:    models.TaxStatusPending,
		Liability: money.Zero(money.DefaultCurrency),
		Paid:      money.Zero(money.DefaultCurrency),
		CheckedAt: time.Now().UTC(),
	}, nil
}
