package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/crystaldolphin/agentgen/internal/schema"
	"github.com/crystaldolphin/agentgen/internal/shared/llmutils"
	"github.com/crystaldolphin/agentgen/internal/telemetry"
)

// decompositionSchema is the only shape of manager output accepted as a plan.
const decompositionSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"task": {"type": "string", "pattern": "\\S"}
		},
		"required": ["task"]
	}
}`

var (
	errEmptyDecomposition = errors.New("empty decomposition output")

	decompositionValidator = mustResolve(decompositionSchema)
)

func mustResolve(raw string) *jsonschema.Resolved {
	var s jsonschema.Schema
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		panic(fmt.Sprintf("decomposition schema: %v", err))
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("decomposition schema: %v", err))
	}
	return resolved
}

// Manager plans the work (Decompose) and writes the final answer (Aggregate).
type Manager struct {
	LoopRunner
}

// Decompose asks the model for a plan and parses it. It never fails: any
// model error or unusable output yields the single error subtask.
func (m *Manager) Decompose(ctx context.Context, request string) []schema.Subtask {
	logger := telemetry.FromContext(ctx)
	ctx, span := telemetry.StartSpan(ctx, "pipeline.decompose")

	resp, err := m.chat(ctx, schema.NewMessages(schema.NewUserMessage(buildDecomposePrompt(request))), nil)
	if err == nil {
		var subtasks []schema.Subtask
		if subtasks, err = ParseSubtasks(resp.Text()); err == nil {
			telemetry.EndSpan(span, nil)
			logger.Info("Request decomposed", "subtasks", len(subtasks))
			return subtasks
		}
	}

	telemetry.EndSpan(span, err)
	telemetry.DecompositionFallbacks.Inc()
	logger.Warn("Decomposition failed, using error subtask", "err", err)
	return []schema.Subtask{schema.NewErrorSubtask()}
}

// ParseSubtasks validates raw manager output against the plan schema and
// returns the subtasks in order. A single surrounding code fence is allowed.
func ParseSubtasks(raw string) ([]schema.Subtask, error) {
	text := llmutils.StripCodeFence(llmutils.StripThink(raw))
	if text == "" {
		return nil, errEmptyDecomposition
	}

	var instance any
	if err := json.Unmarshal([]byte(text), &instance); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := decompositionValidator.Validate(instance); err != nil {
		return nil, fmt.Errorf("validate plan: %w", err)
	}

	var items []struct {
		Task string `json:"task"`
	}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	subtasks := make([]schema.Subtask, 0, len(items))
	for i, it := range items {
		desc := strings.TrimSpace(it.Task)
		if desc == "" {
			return nil, fmt.Errorf("validate plan: subtask %d has an empty task", i)
		}
		subtasks = append(subtasks, schema.NewSubtask(i, desc))
	}
	return subtasks, nil
}

// Aggregate asks the model for one answer covering request and every result.
// The model's text is returned verbatim; its error is the pipeline's only
// hard failure.
func (m *Manager) Aggregate(ctx context.Context, request string, results []schema.SubtaskResult) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "pipeline.aggregate")

	prompt := buildAggregatePrompt(request, FormatResults(results))
	resp, err := m.chat(ctx, schema.NewMessages(schema.NewUserMessage(prompt)), nil)
	telemetry.EndSpan(span, err)
	if err != nil {
		return "", fmt.Errorf("aggregate: %w", err)
	}
	return resp.Text(), nil
}
