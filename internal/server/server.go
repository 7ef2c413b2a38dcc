// Package server exposes the pipeline over HTTP and websockets.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crystaldolphin/agentgen/internal/bus"
	"github.com/crystaldolphin/agentgen/internal/pipeline"
	"github.com/crystaldolphin/agentgen/internal/telemetry"
	"github.com/crystaldolphin/agentgen/internal/tools"
)

const shutdownTimeout = 10 * time.Second

// Runner executes one pipeline request, publishing progress to events.
type Runner interface {
	Stream(ctx context.Context, req pipeline.Request, events *bus.EventBus) (string, error)
}

type Server struct {
	e        *echo.Echo
	runner   Runner
	registry *tools.Registry
	addr     string
}

func New(runner Runner, registry *tools.Registry, addr string) *Server {
	s := &Server{
		e:        echo.New(),
		runner:   runner,
		registry: registry,
		addr:     addr,
	}
	s.e.HideBanner = true
	s.e.HidePort = true

	s.e.Use(middleware.Recover())
	s.e.Use(requestMetrics)

	s.e.GET("/healthz", s.healthz)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.e.Group("/api")
	api.GET("/tools", s.listTools)
	api.POST("/execute-agent", s.executeAgent)
	api.GET("/execute-agent/ws", s.executeAgentWS)

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.e }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.e.Start(s.addr) }()

	slog.Info("HTTP server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// requestMetrics counts requests by route template and status code.
func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		status := c.Response().Status
		telemetry.HTTPRequests.WithLabelValues(c.Path(), strconv.Itoa(status)).Inc()
		slog.Debug("HTTP request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", status,
			"elapsed", time.Since(start),
		)
		return nil
	}
}
