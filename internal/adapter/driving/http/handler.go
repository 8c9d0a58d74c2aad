// Package httphandler is the JSON driving adapter. Procedures follow the
// convention of the original RPC router: failures answer 200 with a null or
// unsuccessful result, and only undecodable bodies are rejected with 400.
package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
	"github.com/ericfisherdev/selflearning/internal/metrics"
	"github.com/ericfisherdev/selflearning/internal/security"
)

// Procedure names used in logs and metrics.
const (
	procAddCredentials    = "addCredentials"
	procRemoveCredentials = "removeCredentials"
	procAddModel          = "addModel"
	procCredentials       = "credentials"
	procActivate          = "activate"
	procRefresh           = "refresh"
	procModels            = "models"
	procChat              = "chat"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	configSvc *application.ConfigService
	chatSvc   *application.ChatService
	monitor   *application.Monitor
	logger    *slog.Logger
}

// NewHandler creates a Handler. monitor may be nil, in which case the health
// endpoint omits AI availability and refresh answers null.
func NewHandler(
	configSvc *application.ConfigService,
	chatSvc *application.ChatService,
	monitor *application.Monitor,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		configSvc: configSvc,
		chatSvc:   chatSvc,
		monitor:   monitor,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on mux. Every mutating
// route requires an application/json request.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.Handle("POST /api/v1/ollama-config/credentials", requireJSON(h.AddCredentials))
	mux.Handle("DELETE /api/v1/ollama-config/credentials", requireJSON(h.RemoveCredentials))
	mux.HandleFunc("GET /api/v1/ollama-config/credentials", h.ListCredentials)
	mux.Handle("POST /api/v1/ollama-config/models", requireJSON(h.AddModel))
	mux.Handle("POST /api/v1/ollama-config/activate", requireJSON(h.Activate))
	mux.Handle("POST /api/v1/ollama-config/refresh", requireJSON(h.Refresh))
	mux.Handle("POST /api/v1/ollama/models", requireJSON(h.Models))
	mux.Handle("POST /api/v1/ollama/chat", requireJSON(h.Chat))
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware chain.
func NewServeMux(h *Handler, sessionSecret string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, sessionSecret, logger)
}

// Health returns a health check response including AI server availability
// when the monitor is running.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Time: nowRFC3339()}
	if h.monitor != nil {
		a := h.monitor.Availability()
		resp.AI = &a
	}
	writeJSON(w, http.StatusOK, resp)
}

// observe records a procedure outcome and logs failures at a level matching
// their cause.
func (h *Handler) observe(ctx context.Context, proc string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, application.ErrUnauthorized):
		result = "unauthorized"
		h.logger.Warn("procedure rejected", "procedure", proc, "principal", security.PrincipalFromContext(ctx).ID)
	case errors.Is(err, application.ErrValidation):
		result = "invalid"
		h.logger.Info("procedure input invalid", "procedure", proc, "error", err)
	case errors.Is(err, driven.ErrProbeFailed):
		result = "unreachable"
		h.logger.Warn("procedure probe failed", "procedure", proc, "error", err)
	case errors.Is(err, driven.ErrCredentialExists), errors.Is(err, driven.ErrCredentialNotFound),
		errors.Is(err, application.ErrNoActiveModel):
		result = "rejected"
		h.logger.Info("procedure rejected", "procedure", proc, "error", err)
	default:
		result = "error"
		h.logger.Error("procedure failed", "procedure", proc, "error", err)
	}
	metrics.ProceduresTotal.WithLabelValues(proc, result).Inc()
}
