// Package pipeline runs one request through decomposition, concurrent
// subtask execution and aggregation.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/crystaldolphin/agentgen/internal/agent"
	"github.com/crystaldolphin/agentgen/internal/bus"
	"github.com/crystaldolphin/agentgen/internal/config"
	"github.com/crystaldolphin/agentgen/internal/providers"
	"github.com/crystaldolphin/agentgen/internal/schema"
	"github.com/crystaldolphin/agentgen/internal/telemetry"
	"github.com/crystaldolphin/agentgen/internal/tools"
)

// Request is one pipeline invocation. Tools nil means the configured
// default set; an empty non-nil slice means no tools.
type Request struct {
	Input    string
	Provider string
	APIKey   string
	Tools    []string
}

// ProviderFactory builds the model client for one request.
type ProviderFactory func(ctx context.Context, p providers.Params) (schema.LLMProvider, error)

// Pipeline is safe for concurrent use; every Run builds its own provider
// and agents.
type Pipeline struct {
	cfg         config.Config
	registry    *tools.Registry
	newProvider ProviderFactory
	httpClient  *http.Client
}

func New(cfg config.Config, registry *tools.Registry) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		registry:    registry,
		newProvider: providers.New,
	}
}

// WithProviderFactory replaces how model clients are built.
func (p *Pipeline) WithProviderFactory(f ProviderFactory) *Pipeline {
	p.newProvider = f
	return p
}

// WithHTTPClient sets the HTTP client handed to model clients.
func (p *Pipeline) WithHTTPClient(c *http.Client) *Pipeline {
	p.httpClient = c
	return p
}

// DefaultTools returns the tool names used when a request names none.
func (p *Pipeline) DefaultTools() []string {
	return append([]string(nil), p.cfg.Pipeline.DefaultTools...)
}

// Run executes req and returns the synthesized answer.
func (p *Pipeline) Run(ctx context.Context, req Request) (string, error) {
	return p.Stream(ctx, req, nil)
}

// Stream is Run with progress events published to events, which is closed
// when the run ends. events may be nil.
func (p *Pipeline) Stream(ctx context.Context, req Request, events *bus.EventBus) (string, error) {
	defer events.Close()

	runID := uuid.NewString()
	logger := telemetry.WithRunID(telemetry.FromContext(ctx), runID)
	ctx = telemetry.WithLogger(ctx, logger)
	publish := func(ev bus.Event) { events.Publish(ev) }

	providerLabel := strings.ToLower(strings.TrimSpace(req.Provider))
	run, err := p.prepare(ctx, req)
	if err != nil {
		telemetry.PipelineRuns.WithLabelValues(metricProvider(providerLabel), "config_error").Inc()
		logger.Warn("Rejected request", "err", err)
		publish(bus.NewEvent(bus.EventFailed, runID).WithText(err.Error()))
		return "", err
	}

	if timeout := p.cfg.Pipeline.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, span := telemetry.StartSpan(ctx, "pipeline.run",
		attribute.String("run.id", runID),
		attribute.String("llm.provider", run.provider),
		attribute.StringSlice("run.tools", run.tools.Names()),
	)
	start := time.Now()
	logger.Info("Pipeline started", "provider", run.provider, "tools", run.tools.Names())
	publish(bus.NewEvent(bus.EventRunStarted, runID).WithText(req.Input))

	manager := run.factory.NewManager()
	subtasks := manager.Decompose(ctx, req.Input)

	decomposed := bus.NewEvent(bus.EventDecomposed, runID)
	for _, st := range subtasks {
		decomposed.Subtasks = append(decomposed.Subtasks, st.Description())
	}
	publish(decomposed)

	worker := run.factory.NewWorker(run.tools, func(st schema.Subtask, hint string) {
		publish(bus.NewEvent(bus.EventToolCall, runID).ForSubtask(st.ID(), st.Description()).WithText(hint))
	})
	coordinator := agent.NewCoordinator(worker, agent.CoordinatorOptions{
		SubtaskTimeout: p.cfg.Pipeline.SubtaskTimeout(),
		MaxParallel:    p.cfg.Pipeline.MaxParallel,
		OnStart: func(st schema.Subtask) {
			publish(bus.NewEvent(bus.EventSubtaskStarted, runID).ForSubtask(st.ID(), st.Description()))
		},
		OnFinish: func(r schema.SubtaskResult) {
			ev := bus.NewEvent(bus.EventSubtaskFinished, runID).
				ForSubtask(r.Subtask.ID(), r.Subtask.Description()).
				WithText(r.Outcome.Text())
			ev.Success = r.Outcome.OK()
			publish(ev)
		},
	})
	results := coordinator.RunAll(ctx, subtasks)

	publish(bus.NewEvent(bus.EventAggregating, runID))
	answer, err := manager.Aggregate(ctx, req.Input, results)

	telemetry.PipelineDuration.WithLabelValues(run.provider).Observe(time.Since(start).Seconds())
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrAggregation, err)
		telemetry.EndSpan(span, err)
		telemetry.PipelineRuns.WithLabelValues(run.provider, "failed").Inc()
		logger.Error("Pipeline failed", "err", err, "elapsed", time.Since(start))
		publish(bus.NewEvent(bus.EventFailed, runID).WithText(err.Error()))
		return "", err
	}

	telemetry.EndSpan(span, nil)
	telemetry.PipelineRuns.WithLabelValues(run.provider, "ok").Inc()
	logger.Info("Pipeline completed", "subtasks", len(results), "elapsed", time.Since(start))
	publish(bus.NewEvent(bus.EventCompleted, runID).WithText(answer))
	return answer, nil
}

// preparedRun is everything a validated request resolves to.
type preparedRun struct {
	provider string
	tools    *tools.ToolList
	factory  *agent.AgentFactory
}

// prepare validates req and builds its agents. Every error wraps ErrConfig.
func (p *Pipeline) prepare(ctx context.Context, req Request) (*preparedRun, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, fmt.Errorf("%w: missing input", ErrConfig)
	}

	match := p.cfg.MatchProvider(req.Provider)
	if !match.Found() {
		return nil, fmt.Errorf("%w: %w: %q", ErrConfig, providers.ErrUnknownProvider, req.Provider)
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, fmt.Errorf("%w: %w for %s", ErrConfig, providers.ErrMissingAPIKey, match.Spec.Label())
	}

	toolNames := req.Tools
	if toolNames == nil {
		toolNames = p.cfg.Pipeline.DefaultTools
	}
	tls, err := p.registry.Select(toolNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	llm, err := p.newProvider(ctx, providers.Params{
		APIKey:       req.APIKey,
		APIBase:      match.Provider.APIBase,
		DefaultModel: match.Provider.Model,
		ProviderName: match.Spec.Name,
		HTTPClient:   p.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	agents := p.cfg.Agents
	return &preparedRun{
		provider: match.Spec.Name,
		tools:    tls,
		factory: agent.NewFactory(llm,
			schema.NewAgentSettings(schema.RoleManager, match.Provider.Model, 1,
				agents.Manager.Temperature, agents.Manager.MaxTokens),
			schema.NewAgentSettings(schema.RoleWorker, match.Provider.Model, agents.Worker.MaxToolIter,
				agents.Worker.Temperature, agents.Worker.MaxTokens),
		),
	}, nil
}

// metricProvider keeps label cardinality bounded for rejected requests.
func metricProvider(name string) string {
	if providers.FindByName(name) == nil {
		return "unknown"
	}
	return name
}
