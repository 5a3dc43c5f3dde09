package main

import (
	"context"
	"fmt"

	"furnish/internal/catalog"
	"furnish/internal/client"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runReport fetches recommendations and analytics concurrently.
func runReport(cmd *cobra.Command, args []string) error {
	query := joinArgs(args)
	if query == "" {
		return client.ErrEmptyQuery
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg, true); err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	var (
		products []catalog.Product
		snap     catalog.AnalyticsSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.Recommend(gctx, query, cfg.Recommend.TopN)
		if err != nil {
			return fmt.Errorf("recommendation failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap, err = c.Analytics(gctx)
		if err != nil {
			return fmt.Errorf("analytics failed: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Report ready",
		zap.Int("recommendations", len(products)),
		zap.Int("total_products", snap.TotalProducts))

	out := cmd.OutOrStdout()
	if err := printRecommendations(out, query, products); err != nil {
		return err
	}
	return printAnalytics(out, snap, cfg.IsDarkTheme())
}
