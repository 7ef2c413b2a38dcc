package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

// GeminiProvider calls the Gemini API through the genai client.
type GeminiProvider struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiProvider constructs a Gemini client bound to apiKey. apiBase
// overrides the endpoint when non-empty.
func NewGeminiProvider(ctx context.Context, apiKey, apiBase, defaultModel string, httpClient *http.Client) (*GeminiProvider, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if apiBase != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: apiBase}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, defaultModel: defaultModel}, nil
}

func (p *GeminiProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider. System turns go into the system
// instruction; the rest become alternating user/model contents.
func (p *GeminiProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}

	gc := &genai.GenerateContentConfig{
		Temperature: ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if sys := messages.System(); sys != "" {
		gc.SystemInstruction = genai.NewContentFromText(sys, genai.RoleUser)
	}
	if decls := toGeminiFunctions(tools); len(decls) > 0 {
		gc.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, toGeminiContents(messages), gc)
	if err != nil {
		return schema.LLMResponse{}, classifyGeminiError(err)
	}
	return parseGeminiResponse(resp)
}

func classifyGeminiError(err error) error {
	if isContextErr(err) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(geminiStatus(apiErr), err)
	}
	return classifyStatus(statusFromMessage(err.Error()), err)
}

// geminiStatus reports the effective HTTP status of an API error. An invalid
// key is returned as 400 INVALID_ARGUMENT with reason API_KEY_INVALID.
func geminiStatus(apiErr genai.APIError) int {
	for _, d := range apiErr.Details {
		if reason, _ := d["reason"].(string); reason == "API_KEY_INVALID" {
			return http.StatusUnauthorized
		}
	}
	if status := statusFromMessage(apiErr.Message + " " + apiErr.Status); status != 0 {
		return status
	}
	return apiErr.Code
}

// toGeminiContents maps the conversation onto genai contents. Consecutive
// tool results are grouped into one user turn, as the API expects one
// function-response turn per model function-call turn.
func toGeminiContents(messages schema.Messages) []*genai.Content {
	var (
		out     []*genai.Content
		pending []*genai.Part
	)
	flush := func() {
		if len(pending) > 0 {
			out = append(out, genai.NewContentFromParts(pending, genai.RoleUser))
			pending = nil
		}
	}

	for _, m := range messages.Messages {
		switch m.Role {
		case "system":
			continue
		case "tool":
			pending = append(pending, genai.NewPartFromFunctionResponse(m.ToolName, map[string]any{"output": m.Text()}))
		case "assistant":
			flush()
			var parts []*genai.Part
			if text := m.Text(); text != "" {
				parts = append(parts, genai.NewPartFromText(text))
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, genai.NewPartFromFunctionCall(tc.Name, tc.Arguments))
			}
			if len(parts) > 0 {
				out = append(out, genai.NewContentFromParts(parts, genai.RoleModel))
			}
		default:
			flush()
			out = append(out, genai.NewContentFromText(m.Text(), genai.RoleUser))
		}
	}
	flush()
	return out
}

// toGeminiFunctions converts OpenAI function-format definitions into
// function declarations. The JSON Schema is passed through unchanged.
func toGeminiFunctions(tools []map[string]any) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		fn, _ := t["function"].(map[string]any)
		if fn == nil {
			continue
		}
		name, _ := fn["name"].(string)
		desc, _ := fn["description"].(string)
		out = append(out, &genai.FunctionDeclaration{
			Name:                 name,
			Description:          desc,
			ParametersJsonSchema: fn["parameters"],
		})
	}
	return out
}

func parseGeminiResponse(resp *genai.GenerateContentResponse) (schema.LLMResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return schema.LLMResponse{}, fmt.Errorf("%w: no candidates", ErrEmptyResponse)
	}
	cand := resp.Candidates[0]

	var (
		text      string
		toolCalls []schema.ToolCallRequest
	)
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if fc := part.FunctionCall; fc != nil {
			id := fc.ID
			if id == "" {
				id = fmt.Sprintf("call_%d", len(toolCalls))
			}
			args := fc.Args
			if args == nil {
				args = map[string]any{}
			}
			toolCalls = append(toolCalls, schema.ToolCallRequest{Id: id, Name: fc.Name, Arguments: args})
			continue
		}
		text += part.Text
	}

	if text == "" && len(toolCalls) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, cand.FinishReason)
	}

	var content *string
	if text != "" {
		content = &text
	}

	usage := map[string]int{}
	if um := resp.UsageMetadata; um != nil {
		usage["input_tokens"] = int(um.PromptTokenCount)
		usage["output_tokens"] = int(um.CandidatesTokenCount)
	}

	return schema.LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: string(cand.FinishReason),
		Usage:        usage,
	}, nil
}

func ptr[T any](v T) *T { return &v }
