// Package cmd implements the agentgen CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/agentgen/internal/config"
	"github.com/crystaldolphin/agentgen/internal/shared/cmdutils"
	"github.com/crystaldolphin/agentgen/internal/telemetry"
)

const version = "0.1.0"
const logo = cmdutils.Logo

var configPath string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "agentgen",
	Short: logo + " agentgen — manager/worker task pipeline",
	Long:  logo + " agentgen — decomposes a request into subtasks, runs them in parallel with tools, and aggregates one answer",
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
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.agentgen/config.json)")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(toolsCmd)
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath()
}

// loadConfig reads the config and installs the logger it describes.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	telemetry.SetupLogger(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
