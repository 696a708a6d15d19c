// Package app assembles the catalog components from configuration so the
// server and the command line tools share one wiring path.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"softwise/internal/cache"
	"softwise/internal/config"
	"softwise/internal/db"
	"softwise/internal/domain"
	"softwise/internal/migrate"
	projectrepo "softwise/internal/repository/project"
	"softwise/internal/schema"
	projectsvc "softwise/internal/service/project"
	"softwise/internal/seo"
	"softwise/internal/store/jsonfile"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App holds the assembled components and the handles that need closing.
type App struct {
	Repo     projectrepo.Repository
	Projects *projectsvc.Service
	Site     seo.Site

	pool  *pgxpool.Pool
	redis *redis.Client
}

// Build opens the configured store, optionally wraps it in the Redis
// read-through cache and returns the wired service.
func Build(ctx context.Context, cfg config.Config, logger *log.Logger, opts ...projectrepo.Option) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	a := &App{Site: seo.DefaultSite(cfg.SiteURL)}

	switch cfg.StoreDriver {
	case config.StoreFile:
		store := jsonfile.New[domain.ProjectRecord](cfg.DataFile)
		a.Repo = projectrepo.NewFile(store, logger, opts...)
		logger.Printf("store: file path=%s", cfg.DataFile)
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		a.pool = pool
		a.Repo = projectrepo.NewPostgres(pool, logger, opts...)
		logger.Printf("store: postgres")
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.CacheEnabled() {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		a.Repo = projectrepo.NewCached(a.Repo, cache.New(client, logger), cfg.CacheTTL, logger)
		logger.Printf("cache: redis addr=%s ttl=%s", cfg.RedisAddr, cfg.CacheTTL)
	}

	a.Projects = projectsvc.New(a.Repo, schema.New(), logger)
	return a, nil
}

// Ping checks the underlying store when the repository supports it.
func (a *App) Ping(ctx context.Context) error {
	if p, ok := a.Repo.(projectrepo.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the database pool and the Redis client.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return errors.Join(errs...)
}
