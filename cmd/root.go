// Package cmd implements the weatherbot CLI using cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/weatherbot/weatherbot/internal/config"
	"github.com/weatherbot/weatherbot/internal/dependency"
)

const version = "0.1.0"
const logo = "🌦"

var (
	configPath string
	showLogs   bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "weatherbot",
	Short: logo + " weatherbot: weather and news assistant",
	Long:  logo + " weatherbot answers weather and news questions using a language model and live data APIs",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging(showLogs)
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.weatherbot/config.json)")
	rootCmd.PersistentFlags().BoolVar(&showLogs, "logs", false, "Show runtime logs")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(briefingsCmd)
}

// setupLogging installs a text handler on stderr. Without --logs only
// warnings and errors are shown.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath()
}

// loadContainer loads the config and wires all services.
func loadContainer() (*dependency.Container, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return dependency.New(cfg)
}
