// Package config loads gateway settings from the environment.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

type Config struct {
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	// LogFormat is "json" or "console". Empty picks console outside production.
	LogFormat string `env:"LOG_FORMAT"`

	API    APIConfig
	Store  StoreConfig
	Redis  RedisConfig
	Mongo  MongoConfig
	Server ServerConfig
}

// APIConfig points the gateway at the remote finance service.
type APIConfig struct {
	BaseURL     string        `env:"FINANCE_API_URL,        default=http://localhost:5000/api"`
	Timeout     time.Duration `env:"FINANCE_API_TIMEOUT,    default=15s"`
	RecentLimit int           `env:"DASHBOARD_RECENT_LIMIT, default=5"`
}

// StoreConfig selects where the session is persisted.
type StoreConfig struct {
	Backend     string `env:"STORE_BACKEND,   default=sqlite"`
	Namespace   string `env:"STORE_NAMESPACE, default=finance-gateway"`
	SQLitePath  string `env:"SQLITE_PATH,     default=.finance-gateway/session.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=finance_gateway"`
}

// ServerConfig configures the reference finance service.
type ServerConfig struct {
	Port      string        `env:"PORT,       default=5000"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the gateway cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("FINANCE_API_URL %q must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("FINANCE_API_TIMEOUT must be positive")
	}

	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendRedis, BackendMongo:
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	return nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Pretty reports whether logs should use the console writer.
func (c *Config) Pretty() bool {
	switch strings.ToLower(c.LogFormat) {
	case "console":
		return true
	case "json":
		return false
	default:
		return !c.IsProduction()
	}
}
