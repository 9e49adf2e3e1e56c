package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/wonny/ssq/pkg/logger"
)

// pingTimeout bounds each dependency check
const pingTimeout = 2 * time.Second

// Pinger is a backend the health check can probe (database.DB, redis.Client)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthHandler reports the API status and probes optional backends.
// A failing backend degrades the status but never fails the request:
// both backends are optional for serving draws.
type HealthHandler struct {
	service string
	deps    map[string]Pinger
	logger  *logger.Logger
}

// NewHealthHandler creates a health handler for service
func NewHealthHandler(service string, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &HealthHandler{
		service: service,
		deps:    make(map[string]Pinger),
		logger:  log,
	}
}

// Register adds a backend probe. A nil pinger is reported as disabled.
func (h *HealthHandler) Register(name string, p Pinger) *HealthHandler {
	h.deps[name] = p
	return h
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Service: h.service,
	}
	if len(h.deps) > 0 {
		resp.Dependencies = make(map[string]string, len(h.deps))
	}

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := h.deps[name]
		if p == nil {
			resp.Dependencies[name] = "disabled"
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := p.Ping(ctx)
		cancel()

		if err != nil {
			h.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			resp.Dependencies[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	respondJSON(w, http.StatusOK, resp)
}
