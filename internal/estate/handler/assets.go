package handler

import (
	"net/http"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// HandleAddAsset handles POST /v1/estates/{estateID}/assets.
func (h *Handler) HandleAddAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddAssetRequest](w, r, h.logger)
	if !ok {
		return
	}

	asset, err := h.service.AddAsset(ctx, estateID, req.ToService())
	if err != nil {
		h.logger.ErrorContext(ctx, "asset registration failed",
			"request_id", requestID,
			"estate_id", estateID,
			"kind", req.Kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "asset registered",
		"request_id", requestID,
		"estate_id", estateID,
		"asset_id", asset.ID,
		"kind", asset.Kind,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, asset)
}

// HandleVerifyAsset handles POST /v1/estates/{estateID}/assets/{assetID}/verify.
func (h *Handler) HandleVerifyAsset(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.VerifyAsset(r.Context(), estateID, assetID)
	h.respondEstate(w, r, "verify asset", estate, err,
		"estate_id", estateID, "asset_id", assetID)
}

// HandleDisputeAsset handles POST /v1/estates/{estateID}/assets/{assetID}/dispute.
func (h *Handler) HandleDisputeAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DisputeRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.DisputeAsset(ctx, estateID, assetID, req.Reason)
	h.respondEstate(w, r, "dispute asset", estate, err,
		"estate_id", estateID, "asset_id", assetID)
}

// HandleResolveAssetDispute handles POST /v1/estates/{estateID}/assets/{assetID}/resolve.
func (h *Handler) HandleResolveAssetDispute(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.ResolveAssetDispute(r.Context(), estateID, assetID)
	h.respondEstate(w, r, "resolve asset dispute", estate, err,
		"estate_id", estateID, "asset_id", assetID)
}

// HandleExcludeAsset handles POST /v1/estates/{estateID}/assets/{assetID}/exclude.
func (h *Handler) HandleExcludeAsset(w http.ResponseWriter, r *http.Request) {
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}

	estate, err := h.service.ExcludeAsset(r.Context(), estateID, assetID)
	h.respondEstate(w, r, "exclude asset", estate, err,
		"estate_id", estateID, "asset_id", assetID)
}

// HandleLiquidateAsset handles POST /v1/estates/{estateID}/assets/{assetID}/liquidate.
func (h *Handler) HandleLiquidateAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	estateID, ok := h.estateID(w, r)
	if !ok {
		return
	}
	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[LiquidateAssetRequest](w, r, h.logger)
	if !ok {
		return
	}

	estate, err := h.service.LiquidateAsset(ctx, estateID, assetID, req.Proceeds)
	h.respondEstate(w, r, "liquidate asset", estate, err,
		"estate_id", estateID, "asset_id", assetID)
}
