package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"furnish/cmd/furnish/ui"
	"furnish/internal/catalog"
	"furnish/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runAnalytics prints the summary and both charts.
func runAnalytics(cmd *cobra.Command, args []string) error {
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

	logger.Info("Requesting analytics", zap.String("backend", c.BaseURL()))
	snap, err := c.Analytics(ctx)
	if err != nil {
		return fmt.Errorf("analytics failed: %w", err)
	}
	return printAnalytics(cmd.OutOrStdout(), snap, cfg.IsDarkTheme())
}

func printAnalytics(w io.Writer, snap catalog.AnalyticsSnapshot, dark bool) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	summary, err := r.Render(render.SummaryMarkdown(snap))
	if err != nil {
		return err
	}

	theme := ui.LightTheme()
	if dark {
		theme = ui.DarkTheme()
	}
	styles := ui.NewStyles(theme)
	charts := []ui.BarChart{
		{Title: "Top Brands", Series: catalog.BrandSeries(snap), Color: ui.BrandBarColor},
		{Title: "Top Categories", Series: catalog.CategorySeries(snap), Color: ui.CategoryBarColor},
	}

	var sb strings.Builder
	sb.WriteString(summary)
	for _, chart := range charts {
		sb.WriteString("\n")
		sb.WriteString(chart.View(renderWidth-20, styles))
		sb.WriteString("\n")
	}
	_, err = fmt.Fprint(w, sb.String())
	return err
}
