// Package app wires the product catalog process: store selection, service, metrics and servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/product/service"
	"github.com/abgdnv/catalog/internal/product/store"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/catalog/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
)

const instrumentationName = "github.com/abgdnv/catalog/internal/product/store"

type Dependencies struct {
	Store          store.ProductStore
	Health         store.HealthChecker
	ProductService service.ProductService
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	closers []func() error
}

// SetupDependencies opens the configured store and builds everything layered on top of it.
// The caller owns the returned Dependencies and must Close them.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	base, err := deps.openStore(ctx, cfg.Database)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	instrumented := store.NewInstrumented(
		base,
		otel.Tracer(instrumentationName),
		store.NewStoreMetrics(deps.Registry),
		logger,
	)
	deps.Store = instrumented
	deps.Health = instrumented
	deps.ProductService = service.NewService(instrumented, logger)
	return deps, nil
}

func (d *Dependencies) openStore(ctx context.Context, cfg pkgconfig.DatabaseConfig) (store.ProductStore, error) {
	switch cfg.Driver {
	case pkgconfig.DriverMemory:
		d.Logger.Info("Using in-memory product store")
		return store.NewInMemoryStore(), nil

	case pkgconfig.DriverPostgres:
		if err := store.Migrate(cfg.URL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() error {
			dbPool.Close()
			return nil
		})
		d.Logger.Info("Successfully connected to the database!", slog.String("driver", cfg.Driver))
		return store.NewPgStore(dbPool), nil

	case pkgconfig.DriverGorm:
		db, err := bootstrap.NewGormDB(ctx, cfg, d.Logger)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() error { return bootstrap.CloseGormDB(db) })
		if sqlDB, err := db.DB(); err == nil {
			d.Registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "products"))
		}
		s, err := store.NewGormStore(db)
		if err != nil {
			return nil, err
		}
		d.Logger.Info("Successfully connected to the database!",
			slog.String("driver", cfg.Driver), slog.String("dialect", cfg.Dialect))
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Close releases database handles in reverse order of acquisition.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}
