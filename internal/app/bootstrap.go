// Package app wires configuration into stores, adapters and services for the
// server and cronjob binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"suit-rental-backend/internal/cache"
	"suit-rental-backend/internal/config"
	"suit-rental-backend/internal/events"
	"suit-rental-backend/internal/logger"
	"suit-rental-backend/internal/repository"
	"suit-rental-backend/internal/repository/memory"
	"suit-rental-backend/internal/repository/postgres"
	"suit-rental-backend/internal/security"
	"suit-rental-backend/internal/service"
)

// App holds the constructed services and whatever must be closed on exit.
type App struct {
	Store        repository.Store
	Auth         service.AuthService
	Users        service.UserService
	Suits        service.SuitService
	Availability service.AvailabilityService
	Rentals      service.RentalService

	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Build opens the configured store, cache and listing notifier and
// constructs every service.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = store

	availabilityCache, err := a.openCache(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	suitSvc := service.NewSuitService(store, availabilityCache)
	listing, err := a.listingNotifier(cfg.Listing, suitSvc)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTokenTTL())
	repos := store.Repositories()

	a.Auth = service.NewAuthService(repos.Users, tokens)
	a.Users = service.NewUserService(repos.Users)
	a.Suits = suitSvc
	a.Availability = service.NewAvailabilityService(store, availabilityCache)
	a.Rentals = service.NewRentalService(store, availabilityCache, listing)
	return a, nil
}

func (a *App) openStore(ctx context.Context, appCfg *config.Config) (repository.Store, error) {
	cfg := appCfg.Database
	if cfg.Driver == "memory" {
		logger.Warn("Using in-memory store; data is lost on exit")
		return memory.NewStore(), nil
	}

	logger.Info("Connecting to database...", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database, "user", cfg.User)
	db, err := sql.Open("postgres", appCfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		logger.Info("Database schema applied")
	}
	return postgres.NewStore(db), nil
}

// openCache returns nil when caching is disabled; services then read
// availability straight from the store.
func (a *App) openCache(ctx context.Context, cfg *config.Config) (service.AvailabilityCache, error) {
	if !cfg.Cache.Enabled {
		logger.Info("Availability cache disabled")
		return nil, nil
	}
	client, err := cache.Connect(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	logger.Info("Availability cache enabled", "addr", cfg.Cache.Addr, "ttl", cfg.CacheTTL())
	return cache.NewAvailabilityCache(client, cfg.Cache.KeyPrefix, cfg.CacheTTL()), nil
}

func (a *App) listingNotifier(cfg config.ListingConfig, local service.ListingNotifier) (service.ListingNotifier, error) {
	if cfg.Notifier == "local" {
		return local, nil
	}

	publisher, closeFn, err := events.Dial(cfg.AMQPURL, cfg.Queue)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeFn)
	logger.Info("Publishing availability hints", "queue", cfg.Queue, "notifier", cfg.Notifier)

	if cfg.Notifier == "amqp" {
		return publisher, nil
	}
	return service.ListingNotifiers{local, publisher}, nil
}
