package app_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/product/app"
	"github.com/abgdnv/catalog/internal/product/factory"
	"github.com/abgdnv/catalog/internal/product/service"
	"github.com/abgdnv/catalog/internal/product/store"
	pkgconfig "github.com/abgdnv/catalog/pkg/config"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(database pkgconfig.DatabaseConfig) *config.Config {
	var cfg config.Config
	cfg.Database = database
	cfg.HTTPServer.Port = 8080
	cfg.HTTPServer.MaxHeaderBytes = 1 << 20
	cfg.HTTPServer.Timeout.Read = 5 * time.Second
	cfg.HTTPServer.Timeout.Write = 5 * time.Second
	cfg.HTTPServer.Timeout.Idle = 30 * time.Second
	cfg.HTTPServer.Timeout.ReadHeader = time.Second
	cfg.Probes.Interval = 50 * time.Millisecond
	cfg.Probes.Timeout = 20 * time.Millisecond
	return &cfg
}

func memoryConfig() *config.Config {
	return testConfig(pkgconfig.DatabaseConfig{Driver: pkgconfig.DriverMemory})
}

func setup(t *testing.T, cfg *config.Config) *app.Dependencies {
	t.Helper()
	deps, err := app.SetupDependencies(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, deps.Close()) })
	return deps
}

func TestSetupDependencies_Memory(t *testing.T) {
	deps := setup(t, memoryConfig())
	ctx := context.Background()

	created, err := factory.NewSeeded(1).Create(ctx, deps.ProductService)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := deps.Store.Find(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, created.Equal(*found))

	require.NoError(t, deps.Health.Ping(ctx))

	count, err := testutil.GatherAndCount(deps.Registry, "product_store_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per operation and outcome")
}

func TestSetupDependencies_GormSQLite(t *testing.T) {
	cfg := testConfig(pkgconfig.DatabaseConfig{
		Driver:  pkgconfig.DriverGorm,
		Dialect: pkgconfig.DialectSQLite,
		URL:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		Timeout: 5 * time.Second,
	})
	deps := setup(t, cfg)
	ctx := context.Background()

	products, err := factory.NewSeeded(2).CreateBatch(ctx, deps.ProductService, 4)
	require.NoError(t, err)

	all, err := deps.ProductService.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(products))
	require.NoError(t, deps.Health.Ping(ctx))

	count, err := testutil.GatherAndCount(deps.Registry, "go_sql_open_connections")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetupDependencies_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(pkgconfig.DatabaseConfig{Driver: "oracle"})

	deps, err := app.SetupDependencies(context.Background(), cfg, slog.New(slog.DiscardHandler))

	require.Error(t, err)
	assert.Nil(t, deps)
	assert.Contains(t, err.Error(), "oracle")
}

func TestSeed(t *testing.T) {
	deps := setup(t, memoryConfig())
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	f := factory.NewSeeded(3)

	require.NoError(t, app.Seed(ctx, deps.ProductService, f, pkgconfig.SeedConfig{Count: 5}, logger))
	require.NoError(t, app.Seed(ctx, deps.ProductService, f, pkgconfig.SeedConfig{Count: 2}, logger))
	all, err := deps.Store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	require.NoError(t, app.Seed(ctx, deps.ProductService, f, pkgconfig.SeedConfig{Count: 3, Reset: true}, logger))
	all, err = deps.Store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, app.Seed(ctx, deps.ProductService, f, pkgconfig.SeedConfig{Reset: true}, logger))
	all, err = deps.Store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// failingService fails every Create after the first allowed ones.
type failingService struct {
	service.ProductService
	allowed int
	created int
}

var errInsert = errors.New("insert failed")

func (f *failingService) Create(_ context.Context, p *store.Product) error {
	if f.created == f.allowed {
		return errInsert
	}
	f.created++
	p.ID = uuid.New()
	return nil
}

func TestSeed_StopsOnCreateError(t *testing.T) {
	svc := &failingService{allowed: 2}

	err := app.Seed(context.Background(), svc, factory.New(), pkgconfig.SeedConfig{Count: 5}, slog.New(slog.DiscardHandler))

	require.ErrorIs(t, err, errInsert)
	assert.Contains(t, err.Error(), "seeded 2 of 5")
	assert.Equal(t, 2, svc.created)
}
