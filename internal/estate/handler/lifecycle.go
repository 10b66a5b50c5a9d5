package handler

import (
	"net/http"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/middleware"
	dErrors "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain-errors"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// HandleFreeze handles POST /v1/estates/{estateID}/freeze. The client IP and
// user agent go into the log because freezes are usually court-ordered and
// get audited.
func (h *Handler) HandleFreeze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FreezeRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.Freeze(ctx, estateID, req.Reason)
	if err == nil {
		h.logger.InfoContext(ctx, "estate frozen",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID,
			"actor_id", requestcontext.ActorID(ctx),
			"client_ip", middleware.GetClientIP(ctx),
			"user_agent", middleware.GetUserAgent(ctx),
			"reason", req.Reason,
		)
	}
	h.respondEstate(w, r, "freeze estate", estate, err, "estate_id", estateID)
}

// HandleUnfreeze handles POST /v1/estates/{estateID}/unfreeze.
func (h *Handler) HandleUnfreeze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.Unfreeze(ctx, estateID)
	if err == nil {
		h.logger.InfoContext(ctx, "estate unfrozen",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID,
			"actor_id", requestcontext.ActorID(ctx),
			"client_ip", middleware.GetClientIP(ctx),
		)
	}
	h.respondEstate(w, r, "unfreeze estate", estate, err, "estate_id", estateID)
}

// HandleStatus handles POST /v1/estates/{estateID}/status. The target status
// selects the lifecycle transition; whether the move is legal from the
// current state is the aggregate's call.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[StatusRequest](w, r, h.logger)
	if !ok {
		return
	}

	var (
		estate *models.Estate
		err    error
	)
	switch req.TargetStatus() {
	case models.EstateStatusEvaluation:
		estate, err = h.service.BeginEvaluation(ctx, estateID)
	case models.EstateStatusAdministration:
		estate, err = h.service.BeginAdministration(ctx, estateID)
	case models.EstateStatusReadyForDistribution:
		estate, err = h.service.MarkReadyForDistribution(ctx, estateID)
	case models.EstateStatusDistributing:
		estate, err = h.service.BeginDistribution(ctx, estateID)
	case models.EstateStatusClosed:
		estate, err = h.service.CloseEstate(ctx, estateID)
	default:
		err = dErrors.Newf(dErrors.CodeValidation, "unsupported status target %q", req.Status)
	}

	h.respondEstate(w, r, "transition estate status", estate, err,
		"estate_id", estateID, "target", req.Status)
}

// HandleRefreshTax handles POST /v1/estates/{estateID}/tax/refresh.
func (h *Handler) HandleRefreshTax(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.RefreshTaxCompliance(r.Context(), estateID)
	h.respondEstate(w, r, "refresh tax compliance", estate, err,
		"estate_id", estateID)
}
