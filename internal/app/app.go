// Package app wires the storefront together: configuration, catalog loading,
// the store, and the interactive menu.
package app

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/dkotenko/storefront/internal/catalog"
	"github.com/dkotenko/storefront/internal/cli"
	"github.com/dkotenko/storefront/internal/domain/product"
	"github.com/dkotenko/storefront/internal/domain/store"
)

// Run creates all dependencies and drives the menu loop until the user quits
// or the context is cancelled. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	var (
		products []*product.Product
		err      error
	)
	if cfg.CatalogPath != "" {
		products, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			return errors.Wrap(err, "load catalog")
		}
		lg.Info("Catalog loaded", zap.String("path", cfg.CatalogPath), zap.Int("products", len(products)))
	} else {
		products = catalog.Default()
		lg.Info("Using built-in demo catalog", zap.Int("products", len(products)))
	}

	s := store.New(products)

	metrics, err := cli.NewMetrics(m.MeterProvider().Meter("storefront"))
	if err != nil {
		return errors.Wrap(err, "create metrics")
	}

	menu := cli.NewMenu(
		cli.MenuConfig{Atomic: cfg.Atomic},
		s,
		os.Stdin,
		os.Stdout,
		lg,
		metrics,
	)

	if err := menu.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "menu")
	}

	lg.Info("Session finished",
		zap.Int("orders", len(s.Receipts())),
		zap.Int("items_left", s.TotalQuantity()),
	)
	return nil
}
