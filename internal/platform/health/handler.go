// Package health provides HTTP health check endpoints for liveness, readiness, and status probes.
package health

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"saasbase/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const checkTimeout = 2 * time.Second

// CheckFunc reports nil when the dependency is healthy.
type CheckFunc func(ctx context.Context) error

// Handler provides health check endpoints.
type Handler struct {
	startTime   time.Time
	environment string
	storage     string

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// New creates a new health handler. storage names the active persistence backend.
func New(environment, storage string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		storage:     storage,
		checks:      make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named dependency check to the readiness and status probes.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts health check routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

// LivenessResponse is the response for the liveness probe.
type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness always returns 200 while the process serves requests.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

// ReadinessResponse is the response for the readiness probe.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness returns 503 if any registered dependency is down.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks, healthy := h.runChecks(r.Context())
	if !healthy {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Envelope{
			Error:   "unavailable",
			Message: "dependency check failed",
			Data:    ReadinessResponse{Status: "not_ready", Checks: checks},
		})
		return
	}
	httputil.WriteData(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: checks})
}

// StatusResponse is the response for the general health status endpoint.
type StatusResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Environment   string            `json:"environment"`
	Storage       string            `json:"storage"`
	Checks        map[string]string `json:"checks,omitempty"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Timestamp     string            `json:"timestamp"`
}

// HandleStatus returns version, uptime and dependency status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	checks, healthy := h.runChecks(r.Context())
	resp := StatusResponse{
		Status:        "ok",
		Version:       Version,
		Environment:   h.environment,
		Storage:       h.storage,
		Checks:        checks,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if !healthy {
		resp.Status = "degraded"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Envelope{
			Error:   "unavailable",
			Message: "dependency check failed",
			Data:    resp,
		})
		return
	}
	httputil.WriteData(w, http.StatusOK, resp)
}

func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	maps.Copy(checks, h.checks)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	results := make(map[string]string, len(checks))
	healthy := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			results[name] = "down: " + err.Error()
			healthy = false
		} else {
			results[name] = "up"
		}
	}
	return results, healthy
}
