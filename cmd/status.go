package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/agentgen/internal/config"
	"github.com/crystaldolphin/agentgen/internal/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agentgen status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := resolveConfigPath()

	fmt.Printf("%s agentgen Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Server:    %s\n", cfg.Server.Addr())
	fmt.Printf("Tools:     %s\n", describeTools(cfg.Pipeline.DefaultTools))
	fmt.Printf("Timeouts:  request %s, subtask %s\n\n", cfg.Pipeline.RequestTimeout(), cfg.Pipeline.SubtaskTimeout())

	fmt.Println("Providers:")
	for _, spec := range providers.PROVIDERS {
		m := cfg.MatchProvider(spec.Name)
		key := "(not set)"
		if os.Getenv(spec.EnvKey) != "" {
			key = "✓"
		}
		fmt.Printf("  %-10s %-24s %s=%s\n", spec.Label(), m.Provider.Model, spec.EnvKey, key)
	}
	return nil
}
