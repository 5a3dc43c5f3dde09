package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"furnish/internal/client"
	"furnish/internal/config"
	"furnish/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	baseURL    string
	topN       int
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "furnish",
	Short: "furnish - furniture recommendations in the terminal",
	Long: `furnish is a terminal client for the furniture recommendation service.

It sends free-text searches to the backend's /recommend endpoint and shows
the ranked products as cards, and renders the /analytics dataset summary as
a dashboard with bar charts.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode owns the terminal; it logs to a file instead.
		if cmd.Use == "furnish" && cmd.CalledAs() == "furnish" {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runInteractive,
}

// recommendCmd runs a single search
var recommendCmd = &cobra.Command{
	Use:   "recommend [query...]",
	Short: "Print recommendations for a query",
	Long: `Sends the query to the backend and prints the ranked products in
response order.

Example:
  furnish recommend modern wooden chair
  furnish recommend --top-n 5 --plain "velvet sofa"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

// analyticsCmd prints the dataset summary
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print the analytics dashboard",
	Args:  cobra.NoArgs,
	RunE:  runAnalytics,
}

// reportCmd fetches both endpoints at once
var reportCmd = &cobra.Command{
	Use:   "report [query...]",
	Short: "Print recommendations and analytics together",
	Long: `Fetches recommendations for the query and the analytics snapshot
concurrently, then prints both. Either failure fails the report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

// fixtureCmd serves a local backend
var fixtureCmd = &cobra.Command{
	Use:   "fixture-server",
	Short: "Serve a local recommendation backend from fixture data",
	Long: `Starts an HTTP server implementing /recommend and /analytics over a
small product catalog, for development without the real service.

Example:
  furnish fixture-server --addr :8000 --fixture products.yaml
  furnish fixture-server --fixture products.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: runFixtureServer,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (or set FURNISH_BASE_URL)")
	rootCmd.PersistentFlags().IntVarP(&topN, "top-n", "n", 0, "Number of recommendations to request")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0 keeps the configured value)")

	recommendCmd.Flags().BoolVar(&plainOutput, "plain", false, "Disable terminal styling")
	reportCmd.Flags().BoolVar(&plainOutput, "plain", false, "Disable terminal styling")

	fixtureCmd.Flags().StringVar(&fixtureAddr, "addr", "", "Listen address (default from config, :8000)")
	fixtureCmd.Flags().StringVar(&fixturePath, "fixture", "", "YAML fixture file (default: built-in catalog)")
	fixtureCmd.Flags().BoolVar(&fixtureWatch, "watch", false, "Reload the fixture file when it changes")

	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")

	// Add commands to root
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(fixtureCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration: .env, then the config file and
// environment, then command-line flags.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	if topN != 0 {
		cfg.Recommend.TopN = topN
	}
	if timeout > 0 {
		cfg.Backend.RequestTimeout = timeout.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging routes category logs. --verbose sends them to the CLI logger;
// otherwise the config file decides.
func setupLogging(cfg *config.Config, toCLI bool) error {
	opts := logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		Categories: cfg.Logging.Categories,
	}
	if toCLI && verbose {
		opts.DebugMode = true
		logging.Use(logger, opts)
		return nil
	}
	return logging.Initialize(opts)
}

func newClient(cfg *config.Config) (*client.Client, error) {
	return client.New(client.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.GetRequestTimeout(),
	})
}

// joinArgs joins command-line args into a single query string
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
