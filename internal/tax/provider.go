// Package tax integrates the revenue authority's view of an estate. The
// engine never computes tax itself; it pulls a clearance record and stores
// it on the estate, where it feeds solvency and the distribution gate.
package tax

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider

import (
	"context"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// Provider answers clearance queries against the revenue authority.
type Provider interface {
	Clearance(ctx context.Context, estateID id.EstateID) (models.TaxCompliance, error)
}
