package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
)

// Worker drains queued events into the audit store. Append failures are
// logged and the worker keeps going; one bad insert must not stall the
// trail.
type Worker struct {
	store  Store
	inbox  <-chan models.Event
	logger *slog.Logger
}

// NewWorker builds a worker over the sink's inbox.
func NewWorker(store Store, inbox <-chan models.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes events until the context is cancelled. Remaining buffered
// events are flushed before returning so a graceful shutdown loses nothing.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	// Detached context: the run context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.append(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event models.Event) {
	if err := w.store.Append(ctx, NewRecord(event, time.Now())); err != nil {
		w.logger.WarnContext(ctx, "audit append failed",
			"event_id", event.ID,
			"estate_id", event.EstateID,
			"kind", event.Type,
			"error", err)
	}
}
