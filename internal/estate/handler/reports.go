package handler

import (
	"net/http"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// HandleSolvencyReport handles GET /v1/estates/{estateID}/solvency.
func (h *Handler) HandleSolvencyReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}

	report, err := h.service.SolvencyReport(ctx, estateID)
	if err != nil {
		h.logger.ErrorContext(ctx, "solvency report failed",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleHotchpotAnalysis handles GET /v1/estates/{estateID}/hotchpot.
func (h *Handler) HandleHotchpotAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}

	analysis, err := h.service.HotchpotAnalysis(ctx, estateID)
	if err != nil {
		h.logger.ErrorContext(ctx, "hotchpot analysis failed",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analysis)
}

// HandleDistributionReadiness handles GET /v1/estates/{estateID}/distribution/readiness.
func (h *Handler) HandleDistributionReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}

	report, err := h.service.DistributionReadiness(ctx, estateID)
	if err != nil {
		h.logger.ErrorContext(ctx, "readiness check failed",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleCalculateDistribution handles POST /v1/estates/{estateID}/distribution/calculate.
// The result is a proposal, not a payout; nothing changes hands until the
// administrator acts on it.
func (h *Handler) HandleCalculateDistribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}

	result, err := h.distributor.Calculate(ctx, estateID)
	if err != nil {
		h.logger.ErrorContext(ctx, "distribution calculation failed",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID,
			"actor_id", requestcontext.ActorID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
