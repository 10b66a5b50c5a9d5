// Package handler exposes estate administration over REST. Handlers stay
// thin: decode and validate the body, call the service, translate the error,
// write the result. All domain rules live in the aggregate and services.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/distribution"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/service"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/hotchpot"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/solvency"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// Service defines the estate operations the transport exposes.
type Service interface {
	OpenEstate(ctx context.Context, req service.OpenEstateRequest) (*models.Estate, error)
	GetEstate(ctx context.Context, estateID id.EstateID) (*models.Estate, error)
	DepositFunds(ctx context.Context, estateID id.EstateID, amount money.Money, source string) (*models.Estate, error)

	AddAsset(ctx context.Context, estateID id.EstateID, req service.AddAssetRequest) (*models.Asset, error)
	VerifyAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID) (*models.Estate, error)
	DisputeAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID, reason string) (*models.Estate, error)
	ResolveAssetDispute(ctx context.Context, estateID id.EstateID, assetID id.AssetID) (*models.Estate, error)
	ExcludeAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID) (*models.Estate, error)
	LiquidateAsset(ctx context.Context, estateID id.EstateID, assetID id.AssetID, proceeds money.Money) (*models.Estate, error)

	RecordDebt(ctx context.Context, estateID id.EstateID, req service.RecordDebtRequest) (*models.Debt, error)
	PayDebt(ctx context.Context, estateID id.EstateID, debtID id.DebtID, amount money.Money) (*models.Estate, error)
	DisputeDebt(ctx context.Context, estateID id.EstateID, debtID id.DebtID, reason string) (*models.Estate, error)
	ResolveDebtDispute(ctx context.Context, estateID id.EstateID, debtID id.DebtID) (*models.Estate, error)
	MarkDebtStatuteBarred(ctx context.Context, estateID id.EstateID, debtID id.DebtID) (*models.Estate, error)
	WriteOffDebt(ctx context.Context, estateID id.EstateID, debtID id.DebtID) (*models.Estate, error)

	RecordGift(ctx context.Context, estateID id.EstateID, req service.RecordGiftRequest) (*models.GiftInterVivos, error)
	ContestGift(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error)
	ConfirmGift(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error)
	ExcludeGift(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error)
	ReclassifyGiftAsLoan(ctx context.Context, estateID id.EstateID, giftID id.GiftID) (*models.Estate, error)

	RegisterDependant(ctx context.Context, estateID id.EstateID, req service.RegisterDependantRequest) (*models.LegalDependant, error)
	SubmitDependantEvidence(ctx context.Context, estateID id.EstateID, dependantID id.DependantID, req service.EvidenceRequest) (*models.Estate, error)
	VerifyDependant(ctx context.Context, estateID id.EstateID, dependantID id.DependantID) (*models.Estate, error)
	RejectDependant(ctx context.Context, estateID id.EstateID, dependantID id.DependantID, reason string) (*models.Estate, error)
	SettleDependant(ctx context.Context, estateID id.EstateID, dependantID id.DependantID) (*models.Estate, error)

	Freeze(ctx context.Context, estateID id.EstateID, reason string) (*models.Estate, error)
	Unfreeze(ctx context.Context, estateID id.EstateID) (*models.Estate, error)
	RefreshTaxCompliance(ctx context.Context, estateID id.EstateID) (*models.Estate, error)

	BeginEvaluation(ctx context.Context, estateID id.EstateID) (*models.Estate, error)
	BeginAdministration(ctx context.Context, estateID id.EstateID) (*models.Estate, error)
	MarkReadyForDistribution(ctx context.Context, estateID id.EstateID) (*models.Estate, error)
	BeginDistribution(ctx context.Context, estateID id.EstateID) (*models.Estate, error)
	CloseEstate(ctx context.Context, estateID id.EstateID) (*models.Estate, error)

	SolvencyReport(ctx context.Context, estateID id.EstateID) (*solvency.Report, error)
	HotchpotAnalysis(ctx context.Context, estateID id.EstateID) (*hotchpot.Analysis, error)
	DistributionReadiness(ctx context.Context, estateID id.EstateID) (*service.ReadinessReport, error)
}

// Distributor calculates intestate shares for a gated estate.
type Distributor interface {
	Calculate(ctx context.Context, estateID id.EstateID) (*distribution.Result, error)
}

// TrailReader serves an estate's audit trail.
type TrailReader interface {
	ListByEstate(ctx context.Context, estateID id.EstateID, limit int) ([]audit.Record, error)
}

// Handler wires estate endpoints to the estate and distribution services.
type Handler struct {
	service     Service
	distributor Distributor
	trail       TrailReader
	logger      *slog.Logger

	// adminOnly gates the freeze, unfreeze and lifecycle-status routes.
	// Nil leaves them open, which suits tests and single-operator setups.
	adminOnly func(http.Handler) http.Handler
}

// Option configures optional handler collaborators.
type Option func(h *Handler)

// WithTrailReader enables GET /estates/{estateID}/audit.
func WithTrailReader(trail TrailReader) Option {
	return func(h *Handler) { h.trail = trail }
}

// WithAdminGuard protects the administrative lifecycle routes with the given
// middleware.
func WithAdminGuard(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) { h.adminOnly = mw }
}

// New constructs an estate handler with its dependencies.
func New(service Service, distributor Distributor, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:     service,
		distributor: distributor,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts estate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/estates", func(er chi.Router) {
		er.Post("/", h.HandleOpenEstate)

		er.Route("/{estateID}", func(sr chi.Router) {
			sr.Get("/", h.HandleGetEstate)
			sr.Post("/funds", h.HandleDepositFunds)

			sr.Post("/assets", h.HandleAddAsset)
			sr.Route("/assets/{assetID}", func(ar chi.Router) {
				ar.Post("/verify", h.HandleVerifyAsset)
				ar.Post("/dispute", h.HandleDisputeAsset)
				ar.Post("/resolve", h.HandleResolveAssetDispute)
				ar.Post("/exclude", h.HandleExcludeAsset)
				ar.Post("/liquidate", h.HandleLiquidateAsset)
			})

			sr.Post("/debts", h.HandleRecordDebt)
			sr.Route("/debts/{debtID}", func(dr chi.Router) {
				dr.Post("/payments", h.HandlePayDebt)
				dr.Post("/dispute", h.HandleDisputeDebt)
				dr.Post("/resolve", h.HandleResolveDebtDispute)
				dr.Post("/statute-barred", h.HandleMarkDebtStatuteBarred)
				dr.Post("/write-off", h.HandleWriteOffDebt)
			})

			sr.Post("/gifts", h.HandleRecordGift)
			sr.Route("/gifts/{giftID}", func(gr chi.Router) {
				gr.Post("/contest", h.HandleContestGift)
				gr.Post("/confirm", h.HandleConfirmGift)
				gr.Post("/exclude", h.HandleExcludeGift)
				gr.Post("/reclassify", h.HandleReclassifyGift)
			})

			sr.Post("/dependants", h.HandleRegisterDependant)
			sr.Route("/dependants/{dependantID}", func(pr chi.Router) {
				pr.Post("/evidence", h.HandleSubmitEvidence)
				pr.Post("/verify", h.HandleVerifyDependant)
				pr.Post("/reject", h.HandleRejectDependant)
				pr.Post("/settle", h.HandleSettleDependant)
			})

			sr.Get("/solvency", h.HandleSolvencyReport)
			sr.Get("/hotchpot", h.HandleHotchpotAnalysis)
			sr.Get("/audit", h.HandleAuditTrail)
			sr.Post("/tax/refresh", h.HandleRefreshTax)

			sr.Get("/distribution/readiness", h.HandleDistributionReadiness)
			sr.Post("/distribution/calculate", h.HandleCalculateDistribution)

			sr.Group(func(gr chi.Router) {
				if h.adminOnly != nil {
					gr.Use(h.adminOnly)
				}
				gr.Post("/freeze", h.HandleFreeze)
				gr.Post("/unfreeze", h.HandleUnfreeze)
				gr.Post("/status", h.HandleStatus)
			})
		})
	})
}

// HandleOpenEstate handles POST /v1/estates.
func (h *Handler) HandleOpenEstate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[OpenEstateRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.OpenEstate(ctx, req.ToService())
	if err != nil {
		h.logger.ErrorContext(ctx, "estate opening failed",
			"request_id", requestID,
			"deceased_id", req.DeceasedID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "estate opened",
		"request_id", requestID,
		"estate_id", estate.ID,
		"actor_id", requestcontext.ActorID(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromEstate(estate))
}

// HandleGetEstate handles GET /v1/estates/{estateID}.
func (h *Handler) HandleGetEstate(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.GetEstate(r.Context(), estateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEstate(estate))
}

// HandleDepositFunds handles POST /v1/estates/{estateID}/funds.
func (h *Handler) HandleDepositFunds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DepositFundsRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.DepositFunds(ctx, estateID, req.Amount, req.Source)
	h.respondEstate(w, r, "deposit funds", estate, err, "estate_id", estateID)
}

// HandleAuditTrail handles GET /v1/estates/{estateID}/audit.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	if h.trail == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "audit trail not configured"))
		return
	}

	records, err := h.trail.ListByEstate(ctx, estateID, trailLimit(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit trail"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(estateID, records))
}

const (
	defaultTrailLimit = 100
	maxTrailLimit     = 500
)

func trailLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultTrailLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultTrailLimit
	}
	if limit > maxTrailLimit {
		return maxTrailLimit
	}
	return limit
}

// respondEstate writes the outcome of an estate mutation. Successes rely on
// the service layer's own logging; failures are logged here with transport
// context before the error is translated for the wire.
func (h *Handler) respondEstate(w http.ResponseWriter, r *http.Request, op string, estate *models.Estate, err error, attrs ...any) {
	ctx := r.Context()
	if err != nil {
		logAttrs := append([]any{
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		}, attrs...)
		h.logger.ErrorContext(ctx, op+" failed", logAttrs...)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEstate(estate))
}

// estateID parses the estate route parameter, writing the error itself so
// call sites can bail with a bare return.
func (h *Handler) estateID(w http.ResponseWriter, r *http.Request) (id.EstateID, bool) {
	estateID, err := id.ParseEstateID(chi.URLParam(r, "estateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.EstateID{}, false
	}
	return estateID, true
}

func (h *Handler) assetID(w http.ResponseWriter, r *http.Request) (id.AssetID, bool) {
	assetID, err := id.ParseAssetID(chi.URLParam(r, "assetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.AssetID{}, false
	}
	return assetID, true
}

func (h *Handler) debtID(w http.ResponseWriter, r *http.Request) (id.DebtID, bool) {
	debtID, err := id.ParseDebtID(chi.URLParam(r, "debtID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.DebtID{}, false
	}
	return debtID, true
}

func (h *Handler) giftID(w http.ResponseWriter, r *http.Request) (id.GiftID, bool) {
	giftID, err := id.ParseGiftID(chi.URLParam(r, "giftID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.GiftID{}, false
	}
	return giftID, true
}

func (h *Handler) dependantID(w http.ResponseWriter, r *http.Request) (id.DependantID, bool) {
	dependantID, err := id.ParseDependantID(chi.URLParam(r, "dependantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.DependantID{}, false
	}
	return dependantID, true
}
