package handler

import (
	"context"
	"net/http"
	"time"

	httputil "camrent/pkg/http"
	kafka_middleware "camrent/pkg/kafka/middleware"
	"camrent/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type HealthResponse struct {
	Status        string                            `json:"status"`
	Database      string                            `json:"database,omitempty"`
	Notifications *kafka_middleware.PublishSnapshot `json:"notifications,omitempty"`
}

// Pinger is satisfied by *client.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	db      Pinger
	metrics *kafka_middleware.PublishMetrics
	log     *logger.Logger
}

// NewHealthHandler builds the probe handler. metrics may be nil when
// notifications are disabled.
func NewHealthHandler(db Pinger, metrics *kafka_middleware.PublishMetrics, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		metrics: metrics,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ready", Database: "ok"}
	if h.metrics != nil {
		snap := h.metrics.Snapshot()
		resp.Notifications = &snap
	}

	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		resp.Status = "unavailable"
		resp.Database = "error"
		status = http.StatusServiceUnavailable
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
