package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/agentgen/internal/config"
	"github.com/crystaldolphin/agentgen/internal/providers"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := resolveConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	fmt.Printf("\n%s agentgen is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Println("  1. Export an API key:")
	for _, spec := range providers.PROVIDERS {
		fmt.Printf("       export %s=...   # %s\n", spec.EnvKey, spec.Label())
	}
	fmt.Printf("  2. Run: agentgen run -m \"Summarize Go generics and compute 10%% of 250\"\n")
	fmt.Printf("  3. Or serve: agentgen serve\n")
	return nil
}
