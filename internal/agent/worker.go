package agent

import (
	"context"

	"github.com/crystaldolphin/agentgen/internal/schema"
	"github.com/crystaldolphin/agentgen/internal/shared/llmutils"
	"github.com/crystaldolphin/agentgen/internal/tools"
)

// ProgressFunc receives a short hint each time a worker requests tool calls.
// It may be called from several goroutines at once.
type ProgressFunc func(subtask schema.Subtask, hint string)

// Worker executes one subtask at a time with a fixed tool subset.
// Workers hold no per-subtask state, so one Worker can serve a whole
// fan-out concurrently.
type Worker struct {
	LoopRunner
	tools      *tools.ToolList
	onProgress ProgressFunc
}

var _ schema.SubtaskExecutor = (*Worker)(nil)

// Execute implements schema.SubtaskExecutor. Model errors are returned to
// the caller; the worker itself never retries.
func (w *Worker) Execute(ctx context.Context, subtask schema.Subtask) (string, error) {
	conversation := schema.NewMessages(
		schema.NewUserMessage(buildWorkerPrompt(subtask.Description(), w.tools.Len() > 0)),
	)

	var progress func(string)
	if w.onProgress != nil {
		progress = func(hint string) { w.onProgress(subtask, hint) }
	}

	content, err := w.run(ctx, conversation, w.tools, progress)
	if err != nil {
		return "", err
	}
	return llmutils.StringOrDefault(content, "Task completed but no final response was generated."), nil
}
