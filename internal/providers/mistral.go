package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

// MistralProvider talks to Mistral's OpenAI-compatible chat completions
// endpoint through the openai-go client.
type MistralProvider struct {
	client       openai.Client
	defaultModel string
}

// NewMistralProvider constructs a provider from raw config values.
// Retries are disabled: a failed call surfaces immediately to the pipeline.
func NewMistralProvider(apiKey, apiBase, defaultModel string, httpClient *http.Client) *MistralProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(apiBase, "/") + "/"),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &MistralProvider{
		client:       openai.NewClient(opts...),
		defaultModel: defaultModel,
	}
}

func (p *MistralProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider.
func (p *MistralProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}

	msgs, err := toOpenAIMessages(messages)
	if err != nil {
		return schema.LLMResponse{}, err
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if len(tools) > 0 {
		params.Tools = toOpenAITools(tools)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return schema.LLMResponse{}, classifyOpenAIError(err)
	}
	return parseOpenAICompletion(completion)
}

func classifyOpenAIError(err error) error {
	if isContextErr(err) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// toOpenAIMessages converts the conversation into chat-completion params.
// Assistant turns with tool calls are rebuilt from their wire form so the
// tool-call IDs survive the round trip.
func toOpenAIMessages(messages schema.Messages) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, messages.Len())
	for _, m := range messages.Messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Text()))
		case "user":
			out = append(out, openai.UserMessage(m.Text()))
		case "tool":
			out = append(out, openai.ToolMessage(m.Text(), m.ToolCallID))
		case "assistant":
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Text()))
				continue
			}
			param, err := assistantToolCallParam(m)
			if err != nil {
				return nil, err
			}
			out = append(out, param)
		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return out, nil
}

func assistantToolCallParam(m schema.Message) (openai.ChatCompletionMessageParamUnion, error) {
	calls := make([]map[string]any, len(m.ToolCalls))
	for i, tc := range m.ToolCalls {
		calls[i] = tc.ToWireMap()
	}
	wire := map[string]any{
		"role":       "assistant",
		"content":    m.Text(),
		"tool_calls": calls,
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("marshal assistant turn: %w", err)
	}
	var msg openai.ChatCompletionMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("decode assistant turn: %w", err)
	}
	return msg.ToParam(), nil
}

// toOpenAITools converts OpenAI function-format definitions into typed params.
func toOpenAITools(tools []map[string]any) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		fn, _ := t["function"].(map[string]any)
		if fn == nil {
			continue
		}
		name, _ := fn["name"].(string)
		desc, _ := fn["description"].(string)
		params, _ := fn["parameters"].(map[string]any)

		def := openai.FunctionDefinitionParam{
			Name:        name,
			Description: openai.String(desc),
		}
		if params != nil {
			def.Parameters = openai.FunctionParameters(params)
		}
		out = append(out, openai.ChatCompletionFunctionTool(def))
	}
	return out
}

func parseOpenAICompletion(completion *openai.ChatCompletion) (schema.LLMResponse, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}
	choice := completion.Choices[0]
	msg := choice.Message

	var content *string
	if c := msg.Content; c != "" {
		content = &c
	}

	var toolCalls []schema.ToolCallRequest
	for _, tc := range msg.ToolCalls {
		args, err := repairJSON(tc.Function.Arguments)
		if err != nil {
			slog.Warn("Failed to parse tool arguments", "tool", tc.Function.Name, "err", err)
			args = map[string]any{}
		}
		toolCalls = append(toolCalls, schema.ToolCallRequest{
			Id:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	if content == nil && len(toolCalls) == 0 {
		return schema.LLMResponse{}, ErrEmptyResponse
	}

	finish := string(choice.FinishReason)
	if finish == "" {
		finish = "stop"
	}

	return schema.LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage: map[string]int{
			"input_tokens":  int(completion.Usage.PromptTokens),
			"output_tokens": int(completion.Usage.CompletionTokens),
		},
	}, nil
}

// repairJSON attempts to unmarshal JSON, retrying after stripping trailing
// garbage characters. Some models emit truncated tool arguments.
func repairJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	stripped := strings.TrimRight(raw, " \t\n\r}]")
	if !strings.HasSuffix(stripped, "}") {
		stripped += "}"
	}
	if err := json.Unmarshal([]byte(stripped), &out); err == nil {
		return out, nil
	}

	if i := strings.LastIndex(raw, "}"); i >= 0 {
		if err := json.Unmarshal([]byte(raw[:i+1]), &out); err == nil {
			return out, nil
		}
	}

	return map[string]any{}, fmt.Errorf("cannot repair JSON: %s", raw)
}
