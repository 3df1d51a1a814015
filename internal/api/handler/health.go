package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/arsw/blueprints/internal/api/response"
	"github.com/arsw/blueprints/internal/blueprint"
)

const pingTimeout = 2 * time.Second

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	pinger  blueprint.Pinger
	version string
	store   string
	filter  string
}

// NewHealthHandler creates a new HealthHandler. A nil pinger reports the
// store as reachable.
func NewHealthHandler(pinger blueprint.Pinger, version, store, filter string) *HealthHandler {
	return &HealthHandler{
		pinger:  pinger,
		version: version,
		store:   store,
		filter:  filter,
	}
}

type storeStatus struct {
	Backend   string `json:"backend"`
	Reachable bool   `json:"reachable"`
}

type healthData struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Filter  string      `json:"filter"`
	Store   storeStatus `json:"store"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reachable := true
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			slog.Warn("store ping failed", "error", err, "backend", h.store)
			reachable = false
		}
	}

	data := healthData{
		Status:  "healthy",
		Version: h.version,
		Filter:  h.filter,
		Store:   storeStatus{Backend: h.store, Reachable: reachable},
	}

	if !reachable {
		data.Status = "degraded"
		response.JSON(w, http.StatusServiceUnavailable, response.Envelope{
			Code:    http.StatusServiceUnavailable,
			Message: "store unreachable",
			Data:    data,
		})
		return
	}

	response.Success(w, data)
}
