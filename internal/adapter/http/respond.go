package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"soulboard/internal/core/domain"
)

var errMissingCaller = errors.New("missing " + PrincipalHeader + " header")

// statusOf maps the domain error taxonomy to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errMissingCaller):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrBadAuthority):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDeviceNotFound),
		errors.Is(err, domain.ErrProviderNotInCampaign),
		errors.Is(err, domain.ErrProviderNotFound),
		errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrFeedNotFound),
		errors.Is(err, domain.ErrRegistryNotInitialized):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRegistryFull),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrRegistryExists),
		errors.Is(err, domain.ErrProviderExists),
		errors.Is(err, domain.ErrCampaignExists),
		errors.Is(err, domain.ErrFeedExists),
		errors.Is(err, domain.ErrDeviceNotAvailable),
		errors.Is(err, domain.ErrDeviceNotBooked),
		errors.Is(err, domain.ErrCampaignNotActive),
		errors.Is(err, domain.ErrCampaignNotPaused),
		errors.Is(err, domain.ErrCampaignNotCompleted),
		errors.Is(err, domain.ErrIllegalStateChange),
		errors.Is(err, domain.ErrAlreadyDistributed),
		errors.Is(err, domain.ErrAlreadyWithdrawn):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCalculation),
		errors.Is(err, domain.ErrInsufficientBudget),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrNoViews),
		errors.Is(err, domain.ErrNoEarningsToWithdraw),
		errors.Is(err, domain.ErrNoNewData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError logs err and writes it as {"error": "..."}. Internal errors are
// not echoed to the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		msg = "internal error"
	} else {
		h.logger.Warn("request rejected", slog.String("path", r.URL.Path), slog.Int("status", status), slog.Any("error", err))
	}
	h.writeJSON(w, status, errorBody{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// decode reads a JSON body into dst, rejecting unknown fields.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func caller(r *http.Request) (domain.Principal, error) {
	p := domain.Principal(r.Header.Get(PrincipalHeader))
	if !p.Valid() {
		return "", errMissingCaller
	}
	return p, nil
}

func uint32Param(r *http.Request, name string) (uint32, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a 32-bit unsigned integer", domain.ErrInvalidInput, name, raw)
	}
	return uint32(v), nil
}

func campaignKey(r *http.Request) (domain.CampaignKey, error) {
	id, err := uint32Param(r, "campaignID")
	if err != nil {
		return domain.CampaignKey{}, err
	}
	return domain.CampaignKey{Advertiser: domain.Principal(chi.URLParam(r, "advertiser")), CampaignID: id}, nil
}
