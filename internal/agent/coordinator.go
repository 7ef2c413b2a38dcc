package agent

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/crystaldolphin/agentgen/internal/schema"
	"github.com/crystaldolphin/agentgen/internal/telemetry"
)

// FailedToProcessSubtasks is the result text of the decomposition-failure
// placeholder subtask.
const FailedToProcessSubtasks = "Failed to process subtasks"

// CoordinatorOptions tunes a fan-out. Zero values mean no per-subtask
// timeout and unlimited parallelism.
type CoordinatorOptions struct {
	SubtaskTimeout time.Duration
	MaxParallel    int

	// Optional lifecycle hooks, called from worker goroutines.
	OnStart  func(schema.Subtask)
	OnFinish func(schema.SubtaskResult)
}

// Coordinator runs every subtask of a plan concurrently and joins them.
type Coordinator struct {
	executor schema.SubtaskExecutor
	opts     CoordinatorOptions
}

func NewCoordinator(executor schema.SubtaskExecutor, opts CoordinatorOptions) *Coordinator {
	return &Coordinator{executor: executor, opts: opts}
}

// RunAll executes all subtasks and returns one result per subtask in input
// order. A failing subtask never affects its siblings; its result carries
// the failure text instead.
func (c *Coordinator) RunAll(ctx context.Context, subtasks []schema.Subtask) []schema.SubtaskResult {
	results := make([]schema.SubtaskResult, len(subtasks))

	var g errgroup.Group
	if c.opts.MaxParallel > 0 {
		g.SetLimit(c.opts.MaxParallel)
	}

	for i, st := range subtasks {
		g.Go(func() error {
			results[i] = c.runOne(ctx, st)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Coordinator) runOne(ctx context.Context, st schema.Subtask) schema.SubtaskResult {
	if st.IsMarker() {
		res := schema.NewSubtaskResult(st, schema.Failure(FailedToProcessSubtasks))
		c.finish(res)
		return res
	}

	if c.opts.OnStart != nil {
		c.opts.OnStart(st)
	}

	logger := telemetry.WithSubtask(telemetry.FromContext(ctx), st.ID())
	ctx = telemetry.WithLogger(ctx, logger)
	ctx, span := telemetry.StartSpan(ctx, "pipeline.subtask",
		attribute.Int("subtask.id", st.ID()),
		attribute.String("subtask.description", st.Description()),
	)

	if c.opts.SubtaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.SubtaskTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.execute(ctx, st)
	telemetry.EndSpan(span, err)

	var res schema.SubtaskResult
	if err != nil {
		logger.Error("Subtask failed", "err", err, "elapsed", time.Since(start))
		res = schema.NewSubtaskResult(st, schema.Failure("Error: "+err.Error()))
	} else {
		logger.Info("Subtask completed", "elapsed", time.Since(start))
		res = schema.NewSubtaskResult(st, schema.Success(text))
	}
	c.finish(res)
	return res
}

// execute calls the executor, converting a panic into an error.
func (c *Coordinator) execute(ctx context.Context, st schema.Subtask) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.FromContext(ctx).Error("Worker panicked", "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("worker panicked: %v", rec)
		}
	}()
	return c.executor.Execute(ctx, st)
}

func (c *Coordinator) finish(res schema.SubtaskResult) {
	telemetry.SubtaskOutcomes.WithLabelValues(telemetry.OutcomeLabel(res.Outcome.OK())).Inc()
	if c.opts.OnFinish != nil {
		c.opts.OnFinish(res)
	}
}
