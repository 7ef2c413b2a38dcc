package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/agentgen/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools workers can use",
	RunE:  listTools,
}

func listTools(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	defaults := make(map[string]bool, len(cfg.Pipeline.DefaultTools))
	for _, n := range cfg.Pipeline.DefaultTools {
		defaults[n] = true
	}

	all := tools.NewDefaultRegistry(cfg.Tools).AllTools()
	fmt.Printf("%s Tools\n\n", logo)
	for _, name := range all.Names() {
		mark := " "
		if defaults[name] {
			mark = "✓"
		}
		fmt.Printf("  %s %-14s %s\n", mark, name, all.Get(name).Description())
	}
	fmt.Println("\n✓ = enabled when a request names no tools")
	return nil
}
