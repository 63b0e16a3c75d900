// Package app assembles services, handlers and the router on top of a
// storage backend. The server, the seeder and end-to-end tests share it.
package app

import (
	"log/slog"
	"net/http"

	authHandler "saasbase/internal/auth/handler"
	"saasbase/internal/auth/lockout"
	authmetrics "saasbase/internal/auth/metrics"
	authService "saasbase/internal/auth/service"
	jwttoken "saasbase/internal/jwt_token"
	"saasbase/internal/platform/config"
	"saasbase/internal/platform/health"
	"saasbase/internal/platform/middleware"
	projectHandler "saasbase/internal/project/handler"
	projectService "saasbase/internal/project/service"
	"saasbase/internal/quota"
	"saasbase/internal/ratelimit"
	taskHandler "saasbase/internal/task/handler"
	taskService "saasbase/internal/task/service"
	tenantHandler "saasbase/internal/tenant/handler"
	tenantmetrics "saasbase/internal/tenant/metrics"
	tenantService "saasbase/internal/tenant/service"
	httptransport "saasbase/internal/transport/http"
	userHandler "saasbase/internal/user/handler"
	userService "saasbase/internal/user/service"
	"saasbase/pkg/platform/audit"
	"saasbase/pkg/platform/circuit"
	"saasbase/pkg/platform/tracer"
	"saasbase/pkg/secrets"
)

// Metrics groups the Prometheus collectors of every module. They register on
// the default registry, so build them once per process.
type Metrics struct {
	Tenant *tenantmetrics.Metrics
	Auth   *authmetrics.Metrics
	Quota  *quota.Metrics
	HTTP   *middleware.Metrics
}

func NewMetrics() *Metrics {
	return &Metrics{
		Tenant: tenantmetrics.New(),
		Auth:   authmetrics.New(),
		Quota:  quota.NewMetrics(),
		HTTP:   middleware.NewMetrics(),
	}
}

// Options carries the optional collaborators. Zero values fall back to
// in-process defaults.
type Options struct {
	Logger        *slog.Logger
	LoginStore    lockout.Store
	Mirror        audit.Mirror
	OnMirrorError func()
	Metrics       *Metrics
	Tracer        tracer.Tracer

	// RateLimitStore is the shared window store; the in-memory store serves
	// as its fallback while it is unavailable.
	RateLimitStore ratelimit.Store
}

type App struct {
	Stores       Stores
	Tokens       *jwttoken.JWTService
	Hasher       *secrets.Hasher
	Provisioning *tenantService.ProvisioningService
	Tenants      *tenantService.TenantService
	Auth         *authService.Service
	Users        *userService.Service
	Projects     *projectService.Service
	Tasks        *taskService.Service
	Health       *health.Handler
	Router       http.Handler
}

func New(cfg config.Server, stores Stores, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	trace := opts.Tracer
	if trace == nil {
		trace = tracer.NewNoop()
	}
	m := opts.Metrics
	if m == nil {
		m = &Metrics{}
	}
	guardOpts := []lockout.Option{
		lockout.WithLogger(logger),
		lockout.WithObserver(m.Auth),
	}
	var loginStore lockout.Store = lockout.NewInMemory()
	if opts.LoginStore != nil {
		guardOpts = append(guardOpts, lockout.WithFallback(loginStore, circuit.New("lockout-redis")))
		loginStore = opts.LoginStore
	}

	recorderOpts := []audit.Option{audit.WithLogger(logger)}
	if opts.Mirror != nil {
		recorderOpts = append(recorderOpts, audit.WithMirror(opts.Mirror))
	}
	if opts.OnMirrorError != nil {
		recorderOpts = append(recorderOpts, audit.WithMirrorErrorHook(opts.OnMirrorError))
	}
	recorder := audit.NewRecorder(stores.Audit, recorderOpts...)

	a := &App{
		Stores: stores,
		Tokens: jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience, cfg.Auth.TokenTTL),
		Hasher: secrets.NewHasher(cfg.Auth.BcryptCost),
	}
	enforcer := quota.New(stores.Tenants, stores.Users, stores.Projects,
		quota.WithMetrics(m.Quota),
		quota.WithTracer(trace),
	)
	tenantOpts := []tenantService.Option{
		tenantService.WithLogger(logger),
		tenantService.WithMetrics(m.Tenant),
		tenantService.WithTracer(trace),
	}
	a.Provisioning = tenantService.NewProvisioningService(stores.Tenants, stores.Users, a.Hasher, stores.Runner, tenantOpts...)
	a.Tenants = tenantService.NewTenantService(stores.Tenants, stores.Users, stores.Projects, recorder, stores.Audit, stores.Runner, tenantOpts...)

	guard := lockout.New(loginStore, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginLockoutWindow, guardOpts...)
	a.Auth = authService.New(stores.Users, stores.Tenants, a.Tokens, a.Hasher, guard, recorder,
		authService.WithLogger(logger),
		authService.WithMetrics(m.Auth),
		authService.WithTracer(trace),
	)
	a.Users = userService.New(stores.Users, enforcer, recorder, a.Hasher, stores.Runner,
		userService.WithLogger(logger),
		userService.WithReleasers(stores.Tasks, stores.Projects),
	)
	a.Projects = projectService.New(stores.Projects, stores.Tasks, stores.Users, enforcer, recorder, stores.Runner,
		projectService.WithLogger(logger),
	)
	a.Tasks = taskService.New(stores.Tasks, stores.Projects, stores.Users, recorder, stores.Runner,
		taskService.WithLogger(logger),
	)

	a.Health = health.New(cfg.Environment, stores.Backend)

	metadata, invalid := middleware.NewClientMetadata(cfg.TrustedProxies)
	if len(invalid) > 0 {
		logger.Warn("ignoring invalid trusted proxies", "entries", invalid)
	}
	tenants := tenantHandler.New(a.Provisioning, a.Tenants, logger)
	auth := authHandler.New(a.Auth, logger)
	a.Router = httptransport.NewRouter(httptransport.Config{
		Validator:       a.Tokens,
		Metadata:        metadata,
		Metrics:         m.HTTP,
		RequestTimeout:  cfg.RequestTimeout,
		ExposeMetrics:   opts.Metrics != nil,
		PublicRateLimit: publicRateLimit(cfg.RateLimit, opts.RateLimitStore, logger, m.HTTP),
	}, logger, a.Health,
		[]httptransport.PublicRoutes{tenants, auth},
		[]httptransport.Routes{
			tenants,
			auth,
			userHandler.New(a.Users, logger),
			projectHandler.New(a.Projects, logger),
			taskHandler.New(a.Tasks, logger),
		},
	)
	return a
}

func publicRateLimit(cfg config.RateLimit, shared ratelimit.Store, logger *slog.Logger, m *middleware.Metrics) func(http.Handler) http.Handler {
	if cfg.PublicRequests <= 0 {
		return nil
	}
	limiterOpts := []ratelimit.Option{ratelimit.WithLogger(logger)}
	var store ratelimit.Store = ratelimit.NewInMemory()
	if shared != nil {
		limiterOpts = append(limiterOpts, ratelimit.WithFallback(store, circuit.New("ratelimit-redis")))
		store = shared
	}
	limiter := ratelimit.NewLimiter(store, cfg.PublicRequests, cfg.Window, limiterOpts...)
	return ratelimit.PerIP(limiter, "public", logger, m)
}
