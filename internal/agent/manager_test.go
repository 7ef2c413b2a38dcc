package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/agentgen/internal/providers/providertest"
	"github.com/crystaldolphin/agentgen/internal/schema"
)

func testFactory(p schema.LLMProvider) *AgentFactory {
	return NewFactory(p,
		schema.NewAgentSettings(schema.RoleManager, "m", 1, 0.3, 1024),
		schema.NewAgentSettings(schema.RoleWorker, "m", 5, 0.7, 1024),
	)
}

func TestParseSubtasks(t *testing.T) {
	subtasks, err := ParseSubtasks(`[{"task": "Research X"}, {"task": " Compute 10% of 250 "}]`)
	require.NoError(t, err)
	require.Len(t, subtasks, 2)

	assert.Equal(t, 0, subtasks[0].ID())
	assert.Equal(t, "Research X", subtasks[0].Description())
	assert.Equal(t, 1, subtasks[1].ID())
	assert.Equal(t, "Compute 10% of 250", subtasks[1].Description())
	assert.False(t, subtasks[0].IsMarker())
}

func TestParseSubtasks_CodeFence(t *testing.T) {
	subtasks, err := ParseSubtasks("```json\n[{\"task\": \"a\"}, {\"task\": \"b\", \"priority\": 1}]\n```")
	require.NoError(t, err)
	assert.Len(t, subtasks, 2)
}

func TestParseSubtasks_Rejects(t *testing.T) {
	for name, raw := range map[string]string{
		"prose":        "Sure! First research X, then compute Y.",
		"empty":        "   ",
		"empty array":  "[]",
		"object":       `{"task": "a"}`,
		"missing task": `[{"name": "a"}]`,
		"blank task":   `[{"task": "  "}]`,
		"wrong type":   `[{"task": 3}]`,
		"strings":      `["a", "b"]`,
		"trailing":     `[{"task": "a"}] and more`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSubtasks(raw)
			assert.Error(t, err)
		})
	}
}

func TestManager_Decompose(t *testing.T) {
	p := providertest.New(func(_ context.Context, call providertest.Call) (schema.LLMResponse, error) {
		return providertest.Text(`[{"task": "Research topic X"}, {"task": "Compute 10% of 250"}]`), nil
	})

	subtasks := testFactory(p).NewManager().Decompose(context.Background(), "Summarize topic X and compute 10% of 250")
	require.Len(t, subtasks, 2)
	assert.Equal(t, "Compute 10% of 250", subtasks[1].Description())

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, schema.RoleManager, calls[0].Opts.Role)
	assert.InDelta(t, 0.3, calls[0].Opts.Temperature, 1e-9)
	assert.Empty(t, calls[0].Tools)
	assert.Contains(t, calls[0].Prompt(), "User request: Summarize topic X and compute 10% of 250")
	assert.Contains(t, calls[0].Prompt(), "2-4 subtasks")
}

func TestManager_DecomposeFallback(t *testing.T) {
	for name, respond := range map[string]providertest.Responder{
		"prose": func(context.Context, providertest.Call) (schema.LLMResponse, error) {
			return providertest.Text("I would research X and then do the math."), nil
		},
		"model error": func(context.Context, providertest.Call) (schema.LLMResponse, error) {
			return schema.LLMResponse{}, errors.New("connection reset")
		},
	} {
		t.Run(name, func(t *testing.T) {
			p := providertest.New(respond)
			subtasks := testFactory(p).NewManager().Decompose(context.Background(), "anything")

			require.Len(t, subtasks, 1)
			assert.Equal(t, "Error", subtasks[0].Description())
			assert.True(t, subtasks[0].IsMarker())
			assert.Len(t, p.Calls(), 1, "no retry")
		})
	}
}

func TestManager_Aggregate(t *testing.T) {
	p := providertest.New(func(_ context.Context, call providertest.Call) (schema.LLMResponse, error) {
		return providertest.Text("  Combined answer.\n"), nil
	})
	results := []schema.SubtaskResult{
		schema.NewSubtaskResult(schema.NewSubtask(0, "Research X"), schema.Success("X is a thing.")),
		schema.NewSubtaskResult(schema.NewSubtask(1, "Compute"), schema.Failure("Error: timeout")),
	}

	out, err := testFactory(p).NewManager().Aggregate(context.Background(), "Do X and compute", results)
	require.NoError(t, err)
	assert.Equal(t, "  Combined answer.\n", out, "returned verbatim")

	prompt := p.Calls()[0].Prompt()
	assert.Contains(t, prompt, "Original request: Do X and compute")
	assert.Contains(t, prompt, "Task: Research X\nResult: X is a thing.\n\nTask: Compute\nResult: Error: timeout")
	assert.Equal(t, schema.RoleManager, p.Calls()[0].Opts.Role)
}

func TestManager_AggregateError(t *testing.T) {
	cause := errors.New("upstream 503")
	p := providertest.New(func(context.Context, providertest.Call) (schema.LLMResponse, error) {
		return schema.LLMResponse{}, cause
	})

	_, err := testFactory(p).NewManager().Aggregate(context.Background(), "req", nil)
	assert.ErrorIs(t, err, cause)
}

func TestFormatResults(t *testing.T) {
	assert.Equal(t, "", FormatResults(nil))
	assert.Equal(t, "Task: Error\nResult: Failed to process subtasks", FormatResults([]schema.SubtaskResult{
		schema.NewSubtaskResult(schema.NewErrorSubtask(), schema.Failure(FailedToProcessSubtasks)),
	}))
}
