package httpadapter

import (
	"net/http"

	"soulboard/internal/core/domain"
)

type initializeFeedRequest struct {
	DeviceID uint32 `json:"device_id"`
}

// handleInitializeFeed creates a device feed owned by the caller.
func (h *Handler) handleInitializeFeed(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in initializeFeedRequest
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	f, err := h.svc.InitializeFeed(r.Context(), who, in.DeviceID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, f)
}

func (h *Handler) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	id, err := uint32Param(r, "deviceID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	f, err := h.svc.GetFeed(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, f)
}

func (h *Handler) handleUpdateFeed(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := uint32Param(r, "deviceID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in domain.FeedEntry
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	f, err := h.svc.UpdateFeed(r.Context(), who, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, f)
}
