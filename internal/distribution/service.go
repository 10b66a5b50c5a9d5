package distribution

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/metrics"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/family"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

// EstateGetter loads an estate aggregate for calculation. The distribution
// service never mutates an estate; the estate store satisfies this.
type EstateGetter interface {
	Get(ctx context.Context, estateID id.EstateID) (*models.Estate, error)
}

// EventSink receives the result event after a calculation completes.
type EventSink interface {
	Publish(ctx context.Context, events ...models.Event)
}

// Service wraps the pure calculator with estate loading, the family
// registry lookup, tracing, and metrics.
type Service struct {
	estates    EstateGetter
	families   family.Provider
	calculator *Calculator
	logger     *slog.Logger
	metrics    *metrics.Metrics
	sinks      []EventSink
	clock      func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEventSink registers a sink; call repeatedly to fan out to several.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) {
		s.sinks = append(s.sinks, sink)
	}
}

// WithCalculator overrides the default calculator, for non-default
// hotchpot criteria.
func WithCalculator(c *Calculator) Option {
	return func(s *Service) {
		s.calculator = c
	}
}

// WithClock fixes the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService constructs a Service.
func NewService(estates EstateGetter, families family.Provider, opts ...Option) *Service {
	s := &Service{
		estates:    estates,
		families:   families,
		calculator: NewCalculator(),
		logger:     slog.Default(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate produces the distribution order for an estate: load the
// aggregate, fetch the family structure as of the date of death, and run
// the calculator. The result is advisory until an executor acts on it, so
// nothing is persisted; the calculation itself is recorded on the estate's
// timeline.
func (s *Service) Calculate(ctx context.Context, estateID id.EstateID) (*Result, error) {
	start := time.Now()
	ctx, span := otel.Tracer("distribution").Start(ctx, "distribution.Calculate",
		trace.WithAttributes(
			attribute.String("estate_id", estateID.String()),
		))
	defer span.End()

	estate, err := s.estates.Get(ctx, estateID)
	if err != nil {
		err = s.translate(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "estate load failed")
		return nil, err
	}

	fam, err := s.families.FamilyStructure(ctx, estate.DeceasedID)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch family structure")
		span.RecordError(err)
		span.SetStatus(codes.Error, "family lookup failed")
		return nil, err
	}

	now := s.clock()
	result, err := s.calculator.CalculateIntestateDistribution(estate, fam, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "calculation rejected")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("scenario", string(result.Scenario)),
		attribute.Int("shares", len(result.Shares)),
		attribute.Int("houses", len(result.Houses)),
	)

	s.observeDistribution(start)
	s.incrementDistributionsCalculated()
	s.publish(ctx, models.NewEvent(estateID, models.EventDistributionCalculated, now, map[string]string{
		"scenario":    string(result.Scenario),
		"shares":      strconv.Itoa(len(result.Shares)),
		"distributed": result.DistributedValue().String(),
	}))
	s.logger.InfoContext(ctx, "distribution calculated",
		"estate_id", estateID,
		"scenario", result.Scenario,
		"shares", len(result.Shares),
		"court_intervention", result.RequiresCourtIntervention)
	return result, nil
}

func (s *Service) translate(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "estate not found")
	}
	var de *dErrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load estate")
}

func (s *Service) publish(ctx context.Context, events ...models.Event) {
	for _, sink := range s.sinks {
		sink.Publish(ctx, events...)
	}
}

func (s *Service) incrementDistributionsCalculated() {
	if s.metrics != nil {
		s.metrics.IncrementDistributionsCalculated()
	}
}

func (s *Service) observeDistribution(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDistribution(start)
	}
}
