package schema

import "context"

// Role selects which side of the pipeline a model call serves.
type Role string

const (
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// ChatOptions configures a single LLM chat request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Role        Role
}

type ToolCallRequest struct {
	Id        string
	Name      string
	Arguments map[string]any
}

type ToolCallResponse = ToolCallRequest

// LLMResponse is the normalised response from any LLM provider.
type LLMResponse struct {
	Content      *string // nil when the response contains only tool calls
	ToolCalls    []ToolCallResponse
	FinishReason string
	Usage        map[string]int // "input_tokens", "output_tokens"
}

// HasToolCalls reports whether the response contains at least one tool call.
func (r LLMResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// Text returns the response content, or "" when there is none.
func (r LLMResponse) Text() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}

// LLMProvider is the interface every LLM backend must satisfy.
//
// tools holds function definitions in OpenAI function-calling format; each
// backend converts them to its own wire shape.
type LLMProvider interface {
	Chat(ctx context.Context, messages Messages, tools []map[string]any, opts ChatOptions) (LLMResponse, error)
	DefaultModel() string
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// WithRole returns a copy of o tagged with role.
func (o ChatOptions) WithRole(role Role) ChatOptions {
	o.Role = role
	return o
}
