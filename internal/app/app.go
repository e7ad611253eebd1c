// Package app wires the gateway: configuration, the session store backend,
// the HTTP dispatcher and the domain services.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/ports"
	"github.com/dompet/finance-gateway/internal/core/service"
	"github.com/dompet/finance-gateway/internal/infrastructure/config"
	"github.com/dompet/finance-gateway/internal/infrastructure/db/memory"
	"github.com/dompet/finance-gateway/internal/infrastructure/db/mongo"
	"github.com/dompet/finance-gateway/internal/infrastructure/db/redis"
	"github.com/dompet/finance-gateway/internal/infrastructure/db/sqldb"
	"github.com/dompet/finance-gateway/internal/infrastructure/httpclient"
)

// Application holds the initialized gateway components.
type Application struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  ports.KeyValueStore

	Sessions     *service.SessionManager
	Auth         *service.AuthService
	Profile      *service.ProfileService
	Transactions *service.TransactionService
	Categories   *service.CategoryService
	Overview     *service.OverviewService

	closers []func() error
}

// New opens the configured store backend and builds the services on it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	log.Debug().Str("backend", cfg.Store.Backend).Msg("session store ready")

	a, err := NewWithStore(cfg, store, log)
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

// NewWithStore builds the services on an already opened store.
func NewWithStore(cfg *config.Config, store ports.KeyValueStore, log zerolog.Logger) (*Application, error) {
	sessions := service.NewSessionManager(store, log.With().Str("component", "session").Logger())

	dispatcher, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, sessions, log.With().Str("component", "dispatcher").Logger())
	if err != nil {
		return nil, err
	}

	svcLog := log.With().Str("component", "service").Logger()
	transactions := service.NewTransactionService(dispatcher, cfg.API.RecentLimit, svcLog)
	categories := service.NewCategoryService(dispatcher, svcLog)

	return &Application{
		Config:       cfg,
		Logger:       log,
		Store:        store,
		Sessions:     sessions,
		Auth:         service.NewAuthService(dispatcher, sessions, svcLog),
		Profile:      service.NewProfileService(dispatcher, sessions, svcLog),
		Transactions: transactions,
		Categories:   categories,
		Overview:     service.NewOverviewService(sessions, transactions, categories),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil, nil

	case config.BackendSQLite, config.BackendPostgres:
		dsn := cfg.Store.SQLitePath
		if cfg.Store.Backend == config.BackendPostgres {
			dsn = cfg.Store.PostgresDSN
		}
		store, err := sqldb.Open(ctx, sqldb.Config{
			Driver:    cfg.Store.Backend,
			DSN:       dsn,
			Namespace: cfg.Store.Namespace,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewStore(client, cfg.Store.Namespace), client.Close, nil

	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return mongo.NewStore(db, cfg.Store.Namespace), func() error { return mongo.Disconnect(client, 0) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Store.Backend)
	}
}

// Close releases the store connection.
func (a *Application) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
