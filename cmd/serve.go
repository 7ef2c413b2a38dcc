package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crystaldolphin/agentgen/internal/dependency"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agentgen HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%s Starting agentgen server on %s...\n", logo, cfg.Server.Addr())
	fmt.Printf("✓ Default tools: %s\n", describeTools(cfg.Pipeline.DefaultTools))

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return container.Server().Run(gctx) })

	fmt.Printf("%s Server running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
