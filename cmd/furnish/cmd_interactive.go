package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"furnish/cmd/furnish/ui"
	"furnish/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// runInteractive launches the two-screen shell in the alternate screen.
func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The shell owns stdout, so category logs only ever go to the file.
	if err := setupLogging(cfg, false); err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	logging.Get(logging.CategoryBoot).Info("starting interactive shell",
		zap.String("backend", c.BaseURL()),
		zap.Int("top_n", cfg.Recommend.TopN),
		zap.String("theme", cfg.UI.Theme))

	shell := ui.NewShellModel(ctx, c, ui.ShellOptions{
		TopN:   cfg.Recommend.TopN,
		Styles: ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
	})
	p := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("interactive shell failed: %w", err)
	}
	return nil
}
