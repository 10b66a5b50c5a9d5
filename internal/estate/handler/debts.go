package handler

import (
	"net/http"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// HandleRecordDebt handles POST /v1/estates/{estateID}/debts.
func (h *Handler) HandleRecordDebt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordDebtRequest](w, r, h.logger)
	if !ok {
		return
	}

	debt, err := h.service.RecordDebt(ctx, estateID, req.ToService())
	if err != nil {
		h.logger.ErrorContext(ctx, "debt registration failed",
			"request_id", requestID,
			"estate_id", estateID,
			"kind", req.Kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "debt recorded",
		"request_id", requestID,
		"estate_id", estateID,
		"debt_id", debt.ID,
		"tier", debt.Priority.Tier,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, debt)
}

// HandlePayDebt handles POST /v1/estates/{estateID}/debts/{debtID}/payments.
func (h *Handler) HandlePayDebt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PayDebtRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.PayDebt(ctx, estateID, debtID, req.Amount)
	h.respondEstate(w, r, "pay debt", estate, err,
		"estate_id", estateID, "debt_id", debtID)
}

// HandleDisputeDebt handles POST /v1/estates/{estateID}/debts/{debtID}/dispute.
func (h *Handler) HandleDisputeDebt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DisputeRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.DisputeDebt(ctx, estateID, debtID, req.Reason)
	h.respondEstate(w, r, "dispute debt", estate, err,
		"estate_id", estateID, "debt_id", debtID)
}

// HandleResolveDebtDispute handles POST /v1/estates/{estateID}/debts/{debtID}/resolve.
func (h *Handler) HandleResolveDebtDispute(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.ResolveDebtDispute(r.Context(), estateID, debtID)
	h.respondEstate(w, r, "resolve debt dispute", estate, err,
		"estate_id", estateID, "debt_id", debtID)
}

// HandleMarkDebtStatuteBarred handles POST /v1/estates/{estateID}/debts/{debtID}/statute-barred.
func (h *Handler) HandleMarkDebtStatuteBarred(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.MarkDebtStatuteBarred(r.Context(), estateID, debtID)
	h.respondEstate(w, r, "mark debt statute-barred", estate, err,
		"estate_id", estateID, "debt_id", debtID)
}

// HandleWriteOffDebt handles POST /v1/estates/{estateID}/debts/{debtID}/write-off.
func (h *Handler) HandleWriteOffDebt(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	debtID, ok := h.debtID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.WriteOffDebt(r.Context(), estateID, debtID)
	h.respondEstate(w, r, "write off debt", estate, err,
		"estate_id", estateID, "debt_id", debtID)
}
