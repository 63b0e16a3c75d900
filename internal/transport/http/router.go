// Package httptransport composes the HTTP surface: middleware, public and
// authenticated routes, health probes and the metrics endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"saasbase/internal/platform/middleware"
	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/httputil"
)

const defaultMaxBodyBytes = 1 << 20

// Routes is implemented by handlers with authenticated endpoints.
type Routes interface {
	Register(r chi.Router)
}

// PublicRoutes is implemented by handlers with unauthenticated endpoints.
type PublicRoutes interface {
	RegisterPublic(r chi.Router)
}

type Config struct {
	Validator      middleware.TokenValidator
	Metadata       *middleware.ClientMetadata
	Metrics        *middleware.Metrics
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	ExposeMetrics  bool

	// PublicRateLimit wraps the unauthenticated routes when set.
	PublicRateLimit func(http.Handler) http.Handler
}

// NewRouter mounts health and metrics first, then public routes, then every
// protected handler behind RequireAuth.
func NewRouter(cfg Config, logger *slog.Logger, health Routes, public []PublicRoutes, protected []Routes) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Metadata == nil {
		cfg.Metadata, _ = middleware.NewClientMetadata(nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(cfg.Metadata.Handler)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(cfg.Metrics))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	if health != nil {
		health.Register(r)
	}
	if cfg.ExposeMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
		r.Group(func(r chi.Router) {
			if cfg.PublicRateLimit != nil {
				r.Use(cfg.PublicRateLimit)
			}
			for _, h := range public {
				h.RegisterPublic(r)
			}
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.Validator, logger))
			for _, h := range protected {
				h.Register(r)
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.Envelope{
			Success: false,
			Error:   "method_not_allowed",
			Message: "method not allowed",
		})
	})
	return r
}
