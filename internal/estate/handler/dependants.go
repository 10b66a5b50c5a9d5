package handler

import (
	"net/http"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// HandleRegisterDependant handles POST /v1/estates/{estateID}/dependants.
func (h *Handler) HandleRegisterDependant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RegisterDependantRequest](w, r, h.logger)
	if !ok {
		return
	}

	dependant, err := h.service.RegisterDependant(ctx, estateID, req.ToService())
	if err != nil {
		h.logger.ErrorContext(ctx, "dependant registration failed",
			"request_id", requestID,
			"estate_id", estateID,
			"relationship", req.Relationship,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "dependant registered",
		"request_id", requestID,
		"estate_id", estateID,
		"dependant_id", dependant.ID,
		"relationship", dependant.Relationship,
		"section", dependant.Relationship.Section(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, dependant)
}

// HandleSubmitEvidence handles POST /v1/estates/{estateID}/dependants/{dependantID}/evidence.
func (h *Handler) HandleSubmitEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	dependantID, ok := h.dependantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EvidenceRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.SubmitDependantEvidence(ctx, estateID, dependantID, req.ToService())
	h.respondEstate(w, r, "submit dependant evidence", estate, err,
		"estate_id", estateID, "dependant_id", dependantID)
}

// HandleVerifyDependant handles POST /v1/estates/{estateID}/dependants/{dependantID}/verify.
func (h *Handler) HandleVerifyDependant(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	dependantID, ok := h.dependantID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.VerifyDependant(r.Context(), estateID, dependantID)
	h.respondEstate(w, r, "verify dependant", estate, err,
		"estate_id", estateID, "dependant_id", dependantID)
}

// HandleRejectDependant handles POST /v1/estates/{estateID}/dependants/{dependantID}/reject.
func (h *Handler) HandleRejectDependant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	dependantID, ok := h.dependantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DisputeRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.RejectDependant(ctx, estateID, dependantID, req.Reason)
	h.respondEstate(w, r, "reject dependant", estate, err,
		"estate_id", estateID, "dependant_id", dependantID)
}

// HandleSettleDependant handles POST /v1/estates/{estateID}/dependants/{dependantID}/settle.
func (h *Handler) HandleSettleDependant(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	dependantID, ok := h.dependantID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.SettleDependant(r.Context(), estateID, dependantID)
	h.respondEstate(w, r, "settle dependant", estate, err,
		"estate_id", estateID, "dependant_id", dependantID)
}
