package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initForce bool

// initConfigCmd writes the resolved configuration to --config
var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the current configuration to a config file",
	Long: `Resolves configuration from defaults, .env, the environment and flags,
then writes it to the --config path as YAML.

Example:
  furnish init-config --base-url http://recommender:8000 --top-n 5`,
	Args: cobra.NoArgs,
	RunE: runInitConfig,
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", configPath))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
