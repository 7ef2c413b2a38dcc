package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

func TestParseGeminiResponse_Text(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "Hello "},
				{Text: "world"},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 5, CandidatesTokenCount: 2},
	}

	out, err := parseGeminiResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", out.Text())
	assert.Equal(t, 5, out.Usage["input_tokens"])
	assert.Equal(t, 2, out.Usage["output_tokens"])
}

func TestParseGeminiResponse_FunctionCall(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{Name: "search_tool", Args: map[string]any{"query": "go"}}},
				{FunctionCall: &genai.FunctionCall{ID: "fc-2", Name: "analyze_tool"}},
			}},
		}},
	}

	out, err := parseGeminiResponse(resp)
	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 2)
	assert.Equal(t, "call_0", out.ToolCalls[0].Id)
	assert.Equal(t, "go", out.ToolCalls[0].Arguments["query"])
	assert.Equal(t, "fc-2", out.ToolCalls[1].Id)
	assert.NotNil(t, out.ToolCalls[1].Arguments)
	assert.Nil(t, out.Content)
}

func TestParseGeminiResponse_Empty(t *testing.T) {
	_, err := parseGeminiResponse(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = parseGeminiResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestToGeminiContents(t *testing.T) {
	msgs := schema.NewMessages(
		schema.NewSystemMessage("be brief"),
		schema.NewUserMessage("what is 2+2 and 3+3?"),
	)
	msgs.AddAssistant(nil, []schema.ToolCall{
		{ID: "a", Name: "math_tool", Arguments: map[string]any{"expression": "2+2"}},
		{ID: "b", Name: "math_tool", Arguments: map[string]any{"expression": "3+3"}},
	})
	msgs.AddToolResult("a", "math_tool", "Result of 2+2 = 4")
	msgs.AddToolResult("b", "math_tool", "Result of 3+3 = 6")

	contents := toGeminiContents(msgs)
	require.Len(t, contents, 3, "system is moved out, tool results are grouped")

	assert.EqualValues(t, genai.RoleUser, contents[0].Role)
	assert.EqualValues(t, genai.RoleModel, contents[1].Role)
	assert.Len(t, contents[1].Parts, 2)
	assert.EqualValues(t, genai.RoleUser, contents[2].Role)
	require.Len(t, contents[2].Parts, 2)
	assert.Equal(t, "math_tool", contents[2].Parts[0].FunctionResponse.Name)
}

func TestToGeminiFunctions(t *testing.T) {
	params := map[string]any{"type": "object"}
	decls := toGeminiFunctions([]map[string]any{
		{"type": "function", "function": map[string]any{"name": "code_tool", "description": "Write and analyze code", "parameters": params}},
		{"type": "function"},
	})

	require.Len(t, decls, 1)
	assert.Equal(t, "code_tool", decls[0].Name)
	assert.Equal(t, params, decls[0].ParametersJsonSchema)
}

const geminiInvalidKey = `{
	"error": {
		"code": 400,
		"message": "API key not valid. Please pass a valid API key.",
		"status": "INVALID_ARGUMENT",
		"details": [{
			"@type": "type.googleapis.com/google.rpc.ErrorInfo",
			"reason": "API_KEY_INVALID",
			"domain": "googleapis.com",
			"metadata": {"service": "generativelanguage.googleapis.com"}
		}]
	}
}`

func newTestGemini(t *testing.T, status int, reply string) (*GeminiProvider, *capturedRequest) {
	t.Helper()
	srv, captured := newChatServer(t, status, reply)
	p, err := NewGeminiProvider(context.Background(), "bad-key", srv.URL+"/", "gemini-2.0-flash", srv.Client())
	require.NoError(t, err)
	return p, captured
}

func TestGeminiProvider_InvalidKey(t *testing.T) {
	p, captured := newTestGemini(t, http.StatusBadRequest, geminiInvalidKey)

	_, err := p.Chat(context.Background(), schema.NewMessages(schema.NewUserMessage("hi")), nil, schema.NewChatOptions("", 0, 0.3))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, captured.Called, "no retries")
}

func TestGeminiProvider_BadRequest(t *testing.T) {
	p, _ := newTestGemini(t, http.StatusBadRequest,
		`{"error": {"code": 400, "message": "Invalid JSON payload received.", "status": "INVALID_ARGUMENT"}}`)

	_, err := p.Chat(context.Background(), schema.NewMessages(schema.NewUserMessage("hi")), nil, schema.NewChatOptions("", 0, 0.3))
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrAuthentication)
}

func TestClassifyGeminiError(t *testing.T) {
	err := classifyGeminiError(genai.APIError{Code: 403, Message: "Permission denied", Status: "PERMISSION_DENIED"})
	assert.ErrorIs(t, err, ErrAuthentication)

	err = classifyGeminiError(genai.APIError{Code: 429, Message: "Quota exceeded", Status: "RESOURCE_EXHAUSTED"})
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "rate limit")

	err = classifyGeminiError(errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrAuthentication)
}
