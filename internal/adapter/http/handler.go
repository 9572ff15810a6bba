package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"soulboard/internal/core/port"
)

// PrincipalHeader carries the caller principal of every mutating request.
const PrincipalHeader = "X-Principal"

// Handler is the inbound HTTP adapter of the marketplace. It holds the use
// case, a logger and the chi router all routes are registered on.
type Handler struct {
	svc    port.MarketplaceUseCase
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.MarketplaceUseCase, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/registry", h.handleInitializeRegistry)

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", h.handleListProviders)
			r.Post("/", h.handleRegisterProvider)
			r.Patch("/me", h.handleUpdateProvider)
			r.Post("/me/devices", h.handleAcquireDevice)
			r.Put("/me/devices/{deviceID}/state", h.handleSetDeviceState)
			r.Get("/{principal}", h.handleGetProvider)
		})

		r.Post("/campaigns", h.handleCreateCampaign)
		r.Route("/campaigns/{advertiser}/{campaignID}", func(r chi.Router) {
			r.Get("/", h.handleGetCampaign)
			r.Post("/budget", h.handleFundCampaign)
			r.Post("/locations", h.handleAddLocation)
			r.Delete("/locations/{location}/devices/{deviceID}", h.handleRemoveLocation)
			r.Post("/performance/{deviceID}", h.handlePullPerformance)
			r.Post("/pause", h.handlePauseCampaign)
			r.Post("/resume", h.handleResumeCampaign)
			r.Post("/complete", h.handleCompleteCampaign)
			r.Post("/distribution", h.handleDistributeFees)
			r.Post("/withdrawals", h.handleWithdraw)
		})

		r.Route("/feeds", func(r chi.Router) {
			r.Post("/", h.handleInitializeFeed)
			r.Get("/{deviceID}", h.handleGetFeed)
			r.Post("/{deviceID}/entries", h.handleUpdateFeed)
		})

		r.Route("/accounts/{account}", func(r chi.Router) {
			r.Get("/", h.handleBalance)
			r.Post("/credits", h.handleCredit)
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Duration("elapsed", time.Since(start)))
	})
}
