package httpadapter

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in port.CreateCampaignInput
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.CreateCampaign(r.Context(), who, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	key, err := campaignKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.GetCampaign(r.Context(), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

func (h *Handler) handleFundCampaign(w http.ResponseWriter, r *http.Request) {
	who, key, ok := h.campaignCall(w, r)
	if !ok {
		return
	}
	var in amountRequest
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.FundCampaign(r.Context(), who, key, in.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

type addLocationRequest struct {
	Location domain.Principal `json:"location"`
	DeviceID uint32           `json:"device_id"`
}

func (h *Handler) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	who, key, ok := h.campaignCall(w, r)
	if !ok {
		return
	}
	var in addLocationRequest
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.AddLocation(r.Context(), who, key, in.Location, in.DeviceID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleRemoveLocation(w http.ResponseWriter, r *http.Request) {
	who, key, ok := h.campaignCall(w, r)
	if !ok {
		return
	}
	id, err := uint32Param(r, "deviceID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	location := domain.Principal(chi.URLParam(r, "location"))
	c, err := h.svc.RemoveLocation(r.Context(), who, key, location, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handlePullPerformance(w http.ResponseWriter, r *http.Request) {
	who, key, ok := h.campaignCall(w, r)
	if !ok {
		return
	}
	id, err := uint32Param(r, "deviceID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	row, err := h.svc.PullPerformance(r.Context(), who, key, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, row)
}

func (h *Handler) handlePauseCampaign(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.PauseCampaign)
}

func (h *Handler) handleResumeCampaign(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.ResumeCampaign)
}

func (h *Handler) handleCompleteCampaign(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.CompleteCampaign)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	step func(context.Context, domain.Principal, domain.CampaignKey) (*domain.Campaign, error),
) {
	who, key, ok := h.campaignCall(w, r)
	if !ok {
		return
	}
	c, err := step(r.Context(), who, key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDistributeFees(w http.ResponseWriter, r *http.Request) {
	who, key, ok := h.campaignCall(w, r)
	if !ok {
		return
	}
	s, err := h.svc.DistributeFees(r.Context(), who, key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

type withdrawResponse struct {
	Provider domain.Principal   `json:"provider"`
	Campaign domain.CampaignKey `json:"campaign"`
	Amount   uint64             `json:"amount"`
}

// handleWithdraw pays the caller's earnings out of the campaign escrow.
func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	who, key, ok := h.campaignCall(w, r)
	if !ok {
		return
	}
	amount, err := h.svc.Withdraw(r.Context(), who, key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, withdrawResponse{Provider: who, Campaign: key, Amount: amount})
}

// campaignCall extracts the caller and campaign key, writing the error
// response itself when either is missing.
func (h *Handler) campaignCall(w http.ResponseWriter, r *http.Request) (domain.Principal, domain.CampaignKey, bool) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return "", domain.CampaignKey{}, false
	}
	key, err := campaignKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return "", domain.CampaignKey{}, false
	}
	return who, key, true
}
