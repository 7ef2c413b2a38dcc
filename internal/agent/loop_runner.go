package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/crystaldolphin/agentgen/internal/schema"
	"github.com/crystaldolphin/agentgen/internal/shared/llmutils"
	"github.com/crystaldolphin/agentgen/internal/telemetry"
	"github.com/crystaldolphin/agentgen/internal/tools"
)

// maxIterationsReply is returned when a worker keeps asking for tools past
// its iteration budget.
const maxIterationsReply = "I've reached the maximum number of tool iterations without a final answer."

// LoopRunner executes the LLM ↔ tool iteration loop.
// It is embedded by Manager and Worker so both share model-call bookkeeping.
type LoopRunner struct {
	provider schema.LLMProvider
	settings schema.AgentSettings
}

func newLoopRunner(provider schema.LLMProvider, settings schema.AgentSettings) LoopRunner {
	return LoopRunner{provider: provider, settings: settings}
}

// chat makes one model call with the runner's settings.
func (r *LoopRunner) chat(ctx context.Context, conversation schema.Messages, defs []map[string]any) (schema.LLMResponse, error) {
	role := string(r.settings.Role)
	ctx, span := telemetry.StartSpan(ctx, "llm.chat",
		attribute.String("llm.role", role),
		attribute.String("llm.model", r.settings.Model),
		attribute.Int("llm.tools", len(defs)),
	)

	resp, err := r.provider.Chat(ctx, conversation, defs, r.settings.ChatOptions())
	telemetry.EndSpan(span, err)
	if err != nil {
		telemetry.LLMRequests.WithLabelValues(role, "error").Inc()
		return schema.LLMResponse{}, err
	}
	telemetry.LLMRequests.WithLabelValues(role, "ok").Inc()
	telemetry.FromContext(ctx).Debug("LLM response",
		"role", role,
		"finish_reason", resp.FinishReason,
		"tool_calls", len(resp.ToolCalls),
		"input_tokens", resp.Usage["input_tokens"],
		"output_tokens", resp.Usage["output_tokens"],
	)
	return resp, nil
}

// run drives the conversation until the model answers without tool calls or
// MaxIter rounds have been spent. A model error ends the loop and is
// returned; tool failures never do, they come back as text.
func (r *LoopRunner) run(ctx context.Context, conversation schema.Messages, tls *tools.ToolList, onProgress func(string)) (string, error) {
	logger := telemetry.FromContext(ctx)
	defs := tls.Definitions()

	for i := 0; i < r.settings.MaxIter; i++ {
		resp, err := r.chat(ctx, conversation, defs)
		if err != nil {
			return "", fmt.Errorf("llm call: %w", err)
		}

		if !resp.HasToolCalls() {
			return llmutils.StripThink(resp.Text()), nil
		}

		if onProgress != nil {
			onProgress(llmutils.ToolHint(resp.ToolCalls))
		}

		toolCalls := make([]schema.ToolCall, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			toolCalls = append(toolCalls, schema.ToolCall{ID: tc.Id, Name: tc.Name, Arguments: tc.Arguments})
		}
		conversation.AddAssistant(resp.Content, toolCalls)

		for _, tc := range resp.ToolCalls {
			argsJSON, _ := json.Marshal(tc.Arguments)
			logger.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))
			telemetry.ToolCalls.WithLabelValues(tc.Name).Inc()

			tctx, span := telemetry.StartSpan(ctx, "tool."+tc.Name)
			result := tls.Invoke(tctx, tc.Name, tc.Arguments)
			span.End()

			conversation.AddToolResult(tc.Id, tc.Name, result)
		}
	}

	logger.Warn("Tool iteration budget exhausted", "max_iter", r.settings.MaxIter)
	return maxIterationsReply, nil
}
