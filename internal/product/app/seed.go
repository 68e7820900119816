package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/catalog/internal/product/factory"
	"github.com/abgdnv/catalog/internal/product/service"
	pkgconfig "github.com/abgdnv/catalog/pkg/config"
)

// Seed fills the catalog with cfg.Count generated products, first emptying it when cfg.Reset is set.
func Seed(ctx context.Context, svc service.ProductService, f *factory.ProductFactory, cfg pkgconfig.SeedConfig, logger *slog.Logger) error {
	if cfg.Reset {
		n, err := svc.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to reset catalog: %w", err)
		}
		logger.Info("Catalog reset", slog.Int64("deleted", n))
	}
	if cfg.Count == 0 {
		return nil
	}
	created, err := f.CreateBatch(ctx, svc, cfg.Count)
	if err != nil {
		return fmt.Errorf("seeded %d of %d products: %w", len(created), cfg.Count, err)
	}
	logger.Info("Catalog seeded", slog.Int("count", len(created)))
	return nil
}
