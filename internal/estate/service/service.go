// Package service orchestrates estate administration. Every mutation runs
// through the store's Execute so exactly one copy of the aggregate is
// modified under lock, and the events it returns are fanned out to the
// configured sinks after the state has been persisted.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/metrics"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/store"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/hotchpot"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/sentinel"
)

// TaxProvider pulls clearance status from the revenue authority.
type TaxProvider interface {
	Clearance(ctx context.Context, estateID id.EstateID) (models.TaxCompliance, error)
}

// EventSink receives domain events after the mutation that produced them
// has been persisted. Implementations must not block the caller.
type EventSink interface {
	Publish(ctx context.Context, events ...models.Event)
}

// Service exposes estate administration operations.
type Service struct {
	store    store.Store
	tax      TaxProvider
	hotchpot *hotchpot.Calculator
	logger   *slog.Logger
	metrics  *metrics.Metrics
	sinks    []EventSink
	clock    func() time.Time
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

func WithHotchpotCriteria(criteria hotchpot.Criteria) Option {
	return func(s *Service) {
		s.hotchpot = hotchpot.NewCalculator(criteria)
	}
}

// WithClock fixes the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New constructs a Service.
func New(estates store.Store, taxProvider TaxProvider, opts ...Option) *Service {
	s := &Service{
		store:    estates,
		tax:      taxProvider,
		hotchpot: hotchpot.NewCalculator(hotchpot.DefaultCriteria()),
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenEstate registers a deceased person's estate and opens its ledger.
func (s *Service) OpenEstate(ctx context.Context, req OpenEstateRequest) (*models.Estate, error) {
	req.Normalize()
	now := s.clock()

	estate, err := models.NewEstate(id.NewEstateID(), req.Name, req.DeceasedID,
		req.DateOfDeath, req.OpeningCash, now)
	if err != nil {
		return nil, asValidation(err)
	}

	if err := s.store.Create(ctx, estate); err != nil {
		return nil, s.translate(err, "open estate")
	}

	s.incrementEstatesOpened()
	s.publish(ctx, models.NewEvent(estate.ID, models.EventEstateOpened, now, map[string]string{
		"name":        estate.Name,
		"deceased_id": estate.DeceasedID.String(),
	}))
	s.logger.InfoContext(ctx, "estate opened",
		"estate_id", estate.ID,
		"deceased_id", estate.DeceasedID)
	return estate, nil
}

// GetEstate loads an estate with all children and derived figures.
func (s *Service) GetEstate(ctx context.Context, estateID id.EstateID) (*models.Estate, error) {
	estate, err := s.store.Get(ctx, estateID)
	if err != nil {
		return nil, s.translate(err, "load estate")
	}
	return estate, nil
}

// DepositFunds credits cash to the estate ledger.
func (s *Service) DepositFunds(ctx context.Context, estateID id.EstateID, amount money.Money, source string) (*models.Estate, error) {
	return s.mutate(ctx, estateID, "deposit funds", func(e *models.Estate, now time.Time) ([]models.Event, error) {
		return e.DepositFunds(amount, source, now)
	})
}

// mutate is the single write path: load under lock, apply, persist, then
// publish the events the mutation produced.
func (s *Service) mutate(ctx context.Context, estateID id.EstateID, op string, fn func(e *models.Estate, now time.Time) ([]models.Event, error)) (*models.Estate, error) {
	start := time.Now()
	var events []models.Event
	estate, err := s.store.Execute(ctx, estateID, func(e *models.Estate) error {
		evs, err := fn(e, s.clock())
		if err != nil {
			return err
		}
		events = evs
		return nil
	})
	if err != nil {
		return nil, s.translate(err, op)
	}

	s.observeMutation(start)
	s.publish(ctx, events...)
	s.logger.InfoContext(ctx, op,
		"estate_id", estateID,
		"version", estate.Version,
		"events", len(events))
	return estate, nil
}

// translate maps store sentinels onto the error taxonomy. Domain errors
// pass through untouched; anything unrecognized is shielded as internal.
func (s *Service) translate(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "estate not found")
	case errors.Is(err, sentinel.ErrConflict):
		s.incrementConcurrencyConflicts()
		return dErrors.Wrap(err, dErrors.CodeConcurrencyConflict,
			"estate was modified concurrently, reload and retry")
	case errors.Is(err, sentinel.ErrAlreadyExists):
		return dErrors.New(dErrors.CodeConflict, "estate already exists")
	}

	var de *dErrors.DomainError
	if errors.As(err, &de) {
		if de.Code == dErrors.CodeStatutoryOrder {
			s.incrementStatutoryOrderRejections()
		}
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op)
}

// publish fans events out to the sinks and keeps the insolvency counter
// honest. Sinks are called after persistence, so they observe only
// committed facts.
func (s *Service) publish(ctx context.Context, events ...models.Event) {
	if len(events) == 0 {
		return
	}
	for _, event := range events {
		if event.Type == models.EventEstateWentInsolvent {
			s.incrementInsolvencyTransitions()
		}
	}
	for _, sink := range s.sinks {
		sink.Publish(ctx, events...)
	}
}

// asValidation converts constructor invariant failures into validation
// errors for the API boundary.
func asValidation(err error) error {
	var de *dErrors.DomainError
	if errors.As(err, &de) && de.Code == dErrors.CodeInvariantViolation {
		return dErrors.New(dErrors.CodeValidation, de.Message)
	}
	return err
}

func (s *Service) incrementEstatesOpened() {
	if s.metrics != nil {
		s.metrics.IncrementEstatesOpened()
	}
}

func (s *Service) incrementDebtPayments() {
	if s.metrics != nil {
		s.metrics.IncrementDebtPayments()
	}
}

func (s *Service) incrementStatutoryOrderRejections() {
	if s.metrics != nil {
		s.metrics.IncrementStatutoryOrderRejections()
	}
}

func (s *Service) incrementInsolvencyTransitions() {
	if s.metrics != nil {
		s.metrics.IncrementInsolvencyTransitions()
	}
}

func (s *Service) incrementConcurrencyConflicts() {
	if s.metrics != nil {
		s.metrics.IncrementConcurrencyConflicts()
	}
}

func (s *Service) observeMutation(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(start)
	}
}
