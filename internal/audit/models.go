// Package audit keeps the append-only trail of everything that happened to
// an estate. Mutations return domain events; the recorder turns them into
// immutable records so administrators and courts can reconstruct the
// timeline later.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
)

// Record is one entry in an estate's audit trail.
type Record struct {
	ID         uuid.UUID         `json:"id"`
	EstateID   id.EstateID       `json:"estate_id"`
	Kind       string            `json:"kind"`
	OccurredAt time.Time         `json:"occurred_at"`
	Details    map[string]string `json:"details,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// NewRecord converts a domain event into its audit trail form. The event's
// own ID is kept so replays and retries stay idempotent at the store.
func NewRecord(event models.Event, recordedAt time.Time) Record {
	return Record{
		ID:         event.ID,
		EstateID:   event.EstateID,
		Kind:       string(event.Type),
		OccurredAt: event.OccurredAt,
		Details:    event.Details,
		RecordedAt: recordedAt,
	}
}
