// Package store persists estate aggregates. Both implementations follow the
// same contract: Execute serializes a read-modify-write cycle per estate,
// and Save enforces optimistic concurrency with a version compare-and-swap.
package store

import (
	"context"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// Store is the persistence boundary for estates. Implementations return
// sentinel errors (pkg/platform/sentinel); the service layer translates
// them into the typed domain errors callers see.
type Store interface {
	// Create persists a brand-new estate. sentinel.ErrAlreadyExists when
	// the id is taken.
	Create(ctx context.Context, estate *models.Estate) error

	// Get loads the aggregate. sentinel.ErrNotFound when absent.
	Get(ctx context.Context, estateID id.EstateID) (*models.Estate, error)

	// Save persists a previously loaded aggregate. The write applies only
	// if the stored version still equals the version the aggregate was
	// loaded at; otherwise sentinel.ErrConflict.
	Save(ctx context.Context, estate *models.Estate) error

	// Execute loads the estate, runs fn against it under the store's
	// serialization boundary, and saves the result. If fn errors the
	// estate is left untouched and the error is returned as-is.
	Execute(ctx context.Context, estateID id.EstateID, fn func(*models.Estate) error) (*models.Estate, error)
}
