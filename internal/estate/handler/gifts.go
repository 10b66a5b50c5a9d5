package handler

import (
	"net/http"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// HandleRecordGift handles POST /v1/estates/{estateID}/gifts.
func (h *Handler) HandleRecordGift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordGiftRequest](w, r, h.logger)
	if !ok {
		return
	}

	gift, err := h.service.RecordGift(ctx, estateID, req.ToService())
	if err != nil {
		h.logger.ErrorContext(ctx, "gift registration failed",
			"request_id", requestID,
			"estate_id", estateID,
			"recipient", req.RecipientName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "gift recorded",
		"request_id", requestID,
		"estate_id", estateID,
		"gift_id", gift.ID,
		"recipient_id", gift.RecipientID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, gift)
}

// HandleContestGift handles POST /v1/estates/{estateID}/gifts/{giftID}/contest.
func (h *Handler) HandleContestGift(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	giftID, ok := h.giftID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.ContestGift(r.Context(), estateID, giftID)
	h.respondEstate(w, r, "contest gift", estate, err,
		"estate_id", estateID, "gift_id", giftID)
}

// HandleConfirmGift handles POST /v1/estates/{estateID}/gifts/{giftID}/confirm.
func (h *Handler) HandleConfirmGift(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	giftID, ok := h.giftID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.ConfirmGift(r.Context(), estateID, giftID)
	h.respondEstate(w, r, "confirm gift", estate, err,
		"estate_id", estateID, "gift_id", giftID)
}

// HandleExcludeGift handles POST /v1/estates/{estateID}/gifts/{giftID}/exclude.
func (h *Handler) HandleExcludeGift(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	giftID, ok := h.giftID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.ExcludeGift(r.Context(), estateID, giftID)
	h.respondEstate(w, r, "exclude gift", estate, err,
		"estate_id", estateID, "gift_id", giftID)
}

// HandleReclassifyGift handles POST /v1/estates/{estateID}/gifts/{giftID}/reclassify.
// The gift becomes a loan receivable owed back to the estate.
func (h *Handler) HandleReclassifyGift(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	giftID, ok := h.giftID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.ReclassifyGiftAsLoan(r.Context(), estateID, giftID)
	h.respondEstate(w, r, "reclassify gift as loan", estate, err,
		"estate_id", estateID, "gift_id", giftID)
}
