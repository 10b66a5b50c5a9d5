package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
)

// Recorder appends domain events to the audit store as they happen. The
// trail is best-effort relative to the mutation that produced the events: a
// failed append is logged, never surfaced, because the mutation has already
// committed.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder builds a synchronous recorder over the given store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Publish writes each event to the trail.
func (r *Recorder) Publish(ctx context.Context, events ...models.Event) {
	now := time.Now()
	for _, event := range events {
		if err := r.store.Append(ctx, NewRecord(event, now)); err != nil {
			r.logger.WarnContext(ctx, "audit append failed",
				"event_id", event.ID,
				"estate_id", event.EstateID,
				"kind", event.Type,
				"error", err)
		}
	}
}

// ChannelSink hands events to a buffered channel for a Worker to drain,
// keeping audit writes off the request path. A full buffer drops the event
// with a warning rather than blocking the caller.
type ChannelSink struct {
	inbox  chan models.Event
	logger *slog.Logger
}

// NewChannelSink builds a sink with the given buffer capacity.
func NewChannelSink(capacity int, logger *slog.Logger) *ChannelSink {
	if capacity <= 0 {
		capacity = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelSink{inbox: make(chan models.Event, capacity), logger: logger}
}

// Publish enqueues events without blocking.
func (c *ChannelSink) Publish(ctx context.Context, events ...models.Event) {
	for _, event := range events {
		select {
		case c.inbox <- event:
		default:
			c.logger.WarnContext(ctx, "audit buffer full, event dropped",
				"event_id", event.ID,
				"estate_id", event.EstateID,
				"kind", event.Type)
		}
	}
}

// Inbox exposes the channel for the draining Worker.
func (c *ChannelSink) Inbox() <-chan models.Event {
	return c.inbox
}
