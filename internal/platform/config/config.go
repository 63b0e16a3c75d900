package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultSigningKey is accepted outside production only.
const DefaultSigningKey = "dev-secret-key-change-in-production"

// Server captures process level configuration.
type Server struct {
	Addr           string        `env:"ADDR"            envDefault:":8080"`
	Environment    string        `env:"ENVIRONMENT"     envDefault:"development"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	SeedDemo       bool          `env:"SEED_DEMO"       envDefault:"false"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:","`

	Database  Database
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      Auth
	RateLimit RateLimit
}

// Database configures the PostgreSQL pool. An empty URL selects in-memory stores.
type Database struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"     envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME"  envDefault:"5m"`
}

// RedisConfig configures the lockout store. An empty URL selects the in-memory store.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// KafkaConfig configures the audit mirror. Empty brokers disable it.
type KafkaConfig struct {
	Brokers         string        `env:"KAFKA_BROKERS"`
	AuditTopic      string        `env:"AUDIT_TOPIC"            envDefault:"saasbase.audit"`
	DeliveryTimeout time.Duration `env:"KAFKA_DELIVERY_TIMEOUT" envDefault:"30s"`
}

// Auth holds token, hashing and lockout settings.
type Auth struct {
	JWTSigningKey      string        `env:"JWT_SIGNING_KEY"      envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer          string        `env:"JWT_ISSUER"           envDefault:"saasbase"`
	JWTAudience        string        `env:"JWT_AUDIENCE"         envDefault:"saasbase-api"`
	TokenTTL           time.Duration `env:"TOKEN_TTL"            envDefault:"24h"`
	BcryptCost         int           `env:"BCRYPT_COST"          envDefault:"10"`
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES"   envDefault:"10"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW" envDefault:"15m"`
}

// RateLimit caps requests per client IP on the unauthenticated routes.
// A zero limit disables it.
type RateLimit struct {
	PublicRequests int           `env:"RATE_LIMIT_PUBLIC_REQUESTS" envDefault:"30"`
	Window         time.Duration `env:"RATE_LIMIT_WINDOW"          envDefault:"1m"`
}

// IsProduction reports whether the process runs in the production environment.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads an optional .env file, then parses the environment.
func Load() (Server, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (s Server) Validate() error {
	if s.Auth.JWTSigningKey == "" {
		return errors.New("JWT_SIGNING_KEY is required")
	}
	if s.IsProduction() && s.Auth.JWTSigningKey == DefaultSigningKey {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}
	if s.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if s.Auth.LoginMaxFailures <= 0 {
		return errors.New("LOGIN_MAX_FAILURES must be positive")
	}
	if s.Auth.LoginLockoutWindow <= 0 {
		return errors.New("LOGIN_LOCKOUT_WINDOW must be positive")
	}
	if s.RateLimit.PublicRequests < 0 {
		return errors.New("RATE_LIMIT_PUBLIC_REQUESTS must not be negative")
	}
	if s.RateLimit.PublicRequests > 0 && s.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}
