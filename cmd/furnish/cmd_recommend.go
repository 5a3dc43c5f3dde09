package main

import (
	"context"
	"fmt"
	"io"

	"furnish/internal/catalog"
	"furnish/internal/client"
	"furnish/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// plainOutput disables glamour styling for recommend and report.
var plainOutput bool

// renderWidth is the wrap width for one-shot output.
const renderWidth = 100

// runRecommend prints recommendations for the joined args.
func runRecommend(cmd *cobra.Command, args []string) error {
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

	logger.Info("Requesting recommendations",
		zap.String("query", query),
		zap.Int("top_n", cfg.Recommend.TopN),
		zap.String("backend", c.BaseURL()))

	products, err := c.Recommend(ctx, query, cfg.Recommend.TopN)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}
	return printRecommendations(cmd.OutOrStdout(), query, products)
}

func printRecommendations(w io.Writer, query string, products []catalog.Product) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	out, err := r.Render(render.CardsMarkdown(query, catalog.NewCards(products)))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func newRenderer() (*render.Renderer, error) {
	style := render.StyleAuto
	if plainOutput {
		style = render.StylePlain
	}
	return render.NewRenderer(style, renderWidth)
}
