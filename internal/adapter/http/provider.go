package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

// handleInitializeRegistry creates the provider directory. Operator only.
func (h *Handler) handleInitializeRegistry(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.svc.InitializeRegistry(r.Context(), who); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListProviders(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListProviders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// handleRegisterProvider registers the caller as a provider.
func (h *Handler) handleRegisterProvider(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in port.RegisterProviderInput
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.RegisterProvider(r.Context(), who, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProvider(r.Context(), domain.Principal(chi.URLParam(r, "principal")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// handleUpdateProvider applies a partial update; absent fields are kept.
func (h *Handler) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in domain.ProviderUpdate
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.UpdateProvider(r.Context(), who, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

type acquireDeviceRequest struct {
	DeviceID uint32 `json:"device_id"`
}

func (h *Handler) handleAcquireDevice(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in acquireDeviceRequest
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.svc.AcquireDevice(r.Context(), who, in.DeviceID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, d)
}

type setDeviceStateRequest struct {
	State domain.DeviceState `json:"state"`
}

func (h *Handler) handleSetDeviceState(w http.ResponseWriter, r *http.Request) {
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
	var in setDeviceStateRequest
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.svc.SetDeviceState(r.Context(), who, id, in.State); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
