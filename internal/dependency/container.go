// Package dependency wires core agentgen services using go.uber.org/dig.
package dependency

import (
	"net/http"
	"time"

	"go.uber.org/dig"

	"github.com/crystaldolphin/agentgen/internal/config"
	"github.com/crystaldolphin/agentgen/internal/pipeline"
	"github.com/crystaldolphin/agentgen/internal/server"
	"github.com/crystaldolphin/agentgen/internal/tools"
)

// modelHTTPTimeout bounds a single model HTTP round trip. Whole-run and
// per-subtask deadlines come from the pipeline config.
const modelHTTPTimeout = 120 * time.Second

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg      *config.Config
	registry *tools.Registry
	pipeline *pipeline.Pipeline
	server   *server.Server
}

func (c *Container) Config() *config.Config       { return c.cfg }
func (c *Container) Registry() *tools.Registry    { return c.registry }
func (c *Container) Pipeline() *pipeline.Pipeline { return c.pipeline }
func (c *Container) Server() *server.Server       { return c.server }

// ModelHTTPClient is the HTTP client handed to model SDKs. Named so dig
// does not confuse it with other *http.Client values.
type ModelHTTPClient struct{ *http.Client }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newModelHTTPClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newToolRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newPipeline); err != nil {
		return nil, err
	}
	if err := d.Provide(newServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		registry *tools.Registry,
		p *pipeline.Pipeline,
		srv *server.Server,
	) {
		result = &Container{
			cfg:      cfg,
			registry: registry,
			pipeline: p,
			server:   srv,
		}
	})
	return result, err
}

func newModelHTTPClient() ModelHTTPClient {
	return ModelHTTPClient{Client: &http.Client{Timeout: modelHTTPTimeout}}
}

func newToolRegistry(cfg *config.Config) *tools.Registry {
	return tools.NewDefaultRegistry(cfg.Tools)
}

func newPipeline(cfg *config.Config, registry *tools.Registry, hc ModelHTTPClient) *pipeline.Pipeline {
	return pipeline.New(*cfg, registry).WithHTTPClient(hc.Client)
}

func newServer(cfg *config.Config, p *pipeline.Pipeline, registry *tools.Registry) *server.Server {
	return server.New(p, registry, cfg.Server.Addr())
}
