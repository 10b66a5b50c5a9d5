package audit

import (
	"context"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// Store persists audit records. Append must be idempotent on record ID so
// retried deliveries never duplicate the trail.
type Store interface {
	Append(ctx context.Context, record Record) error
	ListByEstate(ctx context.Context, estateID id.EstateID, limit int) ([]Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
