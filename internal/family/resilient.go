package family

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/circuit"
)

var fallbackServes = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mirathi_family_fallback_total",
	Help: "Family structure lookups answered by the fallback provider while the registry circuit is open",
})

// Resilient guards the upstream registry with a circuit breaker. Every call
// still probes the registry so the breaker can close on recovery; while the
// circuit is open, registry failures are answered from the fallback
// provider instead of surfacing.
type Resilient struct {
	primary  Provider
	fallback Provider
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// ResilientOption configures a Resilient provider.
type ResilientOption func(*Resilient)

// WithResilientLogger sets the logger used for circuit transitions.
func WithResilientLogger(logger *slog.Logger) ResilientOption {
	return func(r *Resilient) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBreaker injects a pre-configured breaker, for custom thresholds.
func WithBreaker(breaker *circuit.Breaker) ResilientOption {
	return func(r *Resilient) {
		if breaker != nil {
			r.breaker = breaker
		}
	}
}

// NewResilient wraps primary with breaker-guarded fallback behavior. The
// fallback is typically the Redis cache or a static snapshot loaded at
// startup.
func NewResilient(primary, fallback Provider, opts ...ResilientOption) (*Resilient, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary provider is required")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback provider is required")
	}
	r := &Resilient{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("family-registry"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// FamilyStructure asks the registry, and degrades to the fallback once the
// registry has failed often enough to open the circuit. If the fallback
// cannot answer either, the registry's error is returned: it names the real
// problem.
func (r *Resilient) FamilyStructure(ctx context.Context, deceasedID id.PersonID) (*FamilyStructure, error) {
	structure, err := r.primary.FamilyStructure(ctx, deceasedID)
	if err == nil {
		if _, change := r.breaker.RecordSuccess(); change.Closed {
			r.logger.InfoContext(ctx, "family registry circuit closed",
				"breaker", r.breaker.Name())
		}
		return structure, nil
	}

	useFallback, change := r.breaker.RecordFailure()
	if change.Opened {
		r.logger.WarnContext(ctx, "family registry circuit opened",
			"breaker", r.breaker.Name(),
			"error", err)
	}
	if !useFallback {
		return nil, err
	}

	fallbackStructure, fberr := r.fallback.FamilyStructure(ctx, deceasedID)
	if fberr != nil {
		r.logger.WarnContext(ctx, "family fallback lookup failed",
			"deceased_id", deceasedID,
			"error", fberr)
		return nil, err
	}

	fallbackServes.Inc()
	r.logger.InfoContext(ctx, "family structure served from fallback",
		"deceased_id", deceasedID)
	return fallbackStructure, nil
}
