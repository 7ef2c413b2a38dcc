package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/agentgen/internal/bus"
	"github.com/crystaldolphin/agentgen/internal/dependency"
	"github.com/crystaldolphin/agentgen/internal/pipeline"
	"github.com/crystaldolphin/agentgen/internal/providers"
	"github.com/crystaldolphin/agentgen/internal/shared/cmdutils"
)

var (
	runMessage   string
	runModel     string
	runAPIKey    string
	runToolNames []string
	runQuiet     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one request through the pipeline",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runMessage, "message", "m", "", "Request to execute (required)")
	runCmd.Flags().StringVar(&runModel, "model", "gemini", "Model provider: "+strings.Join(providers.Names(), "|"))
	runCmd.Flags().StringVar(&runAPIKey, "api-key", "", "API key (default from the provider's environment variable)")
	runCmd.Flags().StringSliceVar(&runToolNames, "tools", nil, "Enabled tools, comma separated (default from config)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Do not print progress")
	_ = runCmd.MarkFlagRequired("message")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	req := pipeline.Request{
		Input:    runMessage,
		Provider: runModel,
		APIKey:   apiKeyFor(runModel, runAPIKey),
	}
	if cmd.Flags().Changed("tools") {
		req.Tools = runToolNames
		if req.Tools == nil {
			req.Tools = []string{}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := bus.NewEventBus(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events.Subscribe() {
			if !runQuiet {
				cmdutils.PrintProgress(os.Stderr, ev)
			}
		}
	}()

	answer, err := container.Pipeline().Stream(ctx, req, events)
	<-done
	if err != nil {
		return err
	}

	cmdutils.PrintResponse(os.Stdout, answer)
	return nil
}

// apiKeyFor returns explicit if set, otherwise the provider's env variable.
func apiKeyFor(provider, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if spec := providers.FindByName(provider); spec != nil {
		return os.Getenv(spec.EnvKey)
	}
	return ""
}

func describeTools(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
