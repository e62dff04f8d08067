package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/usecase"
)

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	tracker usecase.Tracker
	auth    usecase.Authenticator
	orders  usecase.OrderManager
	checks  map[string]Pinger
	logger  *zap.Logger
}

// NewHandler wires the use cases to HTTP. checks maps a dependency name to
// its health probe.
func NewHandler(tracker usecase.Tracker, auth usecase.Authenticator, orders usecase.OrderManager, checks map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		tracker: tracker,
		auth:    auth,
		orders:  orders,
		checks:  checks,
		logger:  logger,
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string, len(h.checks)+1)
	isHealthy := true
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			isHealthy = false
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !isHealthy {
		healthStatus["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	healthStatus["status"] = "ok"
	h.writeJSON(w, http.StatusOK, healthStatus)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeUsecaseError maps use case errors to status codes. Anything unknown
// is logged and reported as a generic 500.
func (h *Handler) writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case usecase.IsValidation(err):
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnauthenticated):
		h.writeJSONError(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		h.writeJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrForbidden):
		h.writeJSONError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, usecase.ErrUserNotFound), errors.Is(err, usecase.ErrOrderNotFound):
		h.writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, usecase.ErrEmailTaken):
		h.writeJSONError(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
