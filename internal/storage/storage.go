// Package storage opens the configured gateway backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/shopcart/internal/observability/tracing"
	"github.com/aryan0dhankhar/shopcart/internal/reliability/retry"
	"github.com/aryan0dhankhar/shopcart/internal/repository"
	"github.com/aryan0dhankhar/shopcart/internal/repository/binfile"
	"github.com/aryan0dhankhar/shopcart/internal/repository/memory"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
	"github.com/aryan0dhankhar/shopcart/internal/repository/textfile"
	"github.com/aryan0dhankhar/shopcart/pkg/config"
	"github.com/aryan0dhankhar/shopcart/pkg/database"
)

// Storage is an opened backend with its health checks and resources
type Storage struct {
	*store.Repositories
	Backend string

	checks  map[string]func(context.Context) error
	closers []func() error
}

// Open builds the repositories for cfg.StorageBackend, optionally moving
// carts to Redis when cfg.CartStore is "redis".
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, span := tracing.Start(ctx, "storage.open")
	defer span.End()

	s := &Storage{Backend: cfg.StorageBackend, checks: map[string]func(context.Context) error{}}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		s.Repositories = memory.Open()
	case config.BackendText:
		s.Repositories = textfile.Open(cfg.DataDir, logger)
	case config.BackendBinary:
		s.Repositories = binfile.Open(cfg.DataDir, logger)
	case config.BackendPostgres:
		pool, err := connectPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.checks["postgres"] = pool.Health
		db := pool.GetDB()
		s.Repositories = &store.Repositories{
			Products:       repository.NewPostgresProductRepository(db, logger),
			Users:          repository.NewPostgresUserRepository(db, logger),
			Carts:          repository.NewPostgresCartRepository(db, logger),
			Questionnaires: repository.NewPostgresQuestionnaireRepository(db, logger),
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.CartStore == "redis" {
		client, err := retry.Do(ctx, retry.DefaultConfig(), logger, "redis connect",
			func(ctx context.Context) (*redis.Client, error) {
				c, err := redis.NewClient(ctx, cfg.RedisURL, logger)
				if errors.Is(err, redis.ErrInvalidURL) {
					return nil, retry.Permanent(err)
				}
				return c, err
			})
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		s.checks["redis"] = client.Ping
		s.Repositories.Carts = repository.NewRedisCartRepository(newGuardedKV(client, logger), logger)
	}

	s.Repositories = Instrument(s.Repositories)
	logger.Info("storage opened",
		slog.String("backend", cfg.StorageBackend),
		slog.String("cart_store", cfg.CartStore),
	)
	return s, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*database.ConnectionPool, error) {
	dbCfg := database.DefaultConfig()
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.Database = cfg.Database.Name
	dbCfg.SSLMode = cfg.Database.SSLMode

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 5
	pool, err := retry.Do(ctx, retryCfg, logger, "postgres connect",
		func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, dbCfg, logger)
		})
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Health runs every backend check, returning the first failure by name
func (s *Storage) Health(ctx context.Context) error {
	for name, check := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(checkCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s unhealthy: %w", name, err)
		}
	}
	return nil
}

// Close releases every connection opened by Open
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
