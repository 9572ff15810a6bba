package httpadapter

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"soulboard/internal/core/domain"
)

type balanceResponse struct {
	Account domain.Account `json:"account"`
	Balance uint64         `json:"balance"`
}

// accountParam decodes the account path segment. Escrow accounts contain a
// slash and arrive percent-encoded.
func accountParam(r *http.Request) (domain.Account, error) {
	raw := chi.URLParam(r, "account")
	v, err := url.PathUnescape(raw)
	if err != nil || v == "" {
		return "", fmt.Errorf("%w: account %q", domain.ErrInvalidInput, raw)
	}
	return domain.Account(v), nil
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	b, err := h.svc.Balance(r.Context(), account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{Account: account, Balance: b})
}

// handleCredit issues units into an account. Operator only.
func (h *Handler) handleCredit(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in amountRequest
	if err = decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := accountParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	b, err := h.svc.Credit(r.Context(), who, account, in.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{Account: account, Balance: b})
}
