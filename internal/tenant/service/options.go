package service

import (
	"log/slog"

	tenantmetrics "saasbase/internal/tenant/metrics"
	"saasbase/pkg/platform/tracer"
)

// serviceConfig holds optional dependencies for services.
type serviceConfig struct {
	logger  *slog.Logger
	metrics *tenantmetrics.Metrics
	tracer  tracer.Tracer
}

// Option configures a service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}

func newConfig(opts []Option) *serviceConfig {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.tracer == nil {
		cfg.tracer = tracer.NewNoop()
	}
	return cfg
}
