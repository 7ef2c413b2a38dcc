// Package providertest provides a scripted schema.LLMProvider for tests.
package providertest

import (
	"context"
	"strings"
	"sync"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

// Call is one recorded Chat invocation.
type Call struct {
	Messages []schema.Message
	Tools    []string
	Opts     schema.ChatOptions
}

// Prompt returns the text of the first user message.
func (c Call) Prompt() string {
	for _, m := range c.Messages {
		if m.Role == "user" {
			return m.Text()
		}
	}
	return ""
}

// ToolResults returns the contents of all tool-result messages, in order.
func (c Call) ToolResults() []string {
	var out []string
	for _, m := range c.Messages {
		if m.Role == "tool" {
			out = append(out, m.Text())
		}
	}
	return out
}

// Responder produces the reply for one call.
type Responder func(ctx context.Context, call Call) (schema.LLMResponse, error)

// Provider is a schema.LLMProvider whose answers come from a Responder.
// It is safe for concurrent use.
type Provider struct {
	respond Responder

	mu    sync.Mutex
	calls []Call
}

var _ schema.LLMProvider = (*Provider)(nil)

func New(respond Responder) *Provider {
	return &Provider{respond: respond}
}

func (p *Provider) Chat(ctx context.Context, messages schema.Messages, tools []map[string]any, opts schema.ChatOptions) (schema.LLMResponse, error) {
	call := Call{
		Messages: append([]schema.Message(nil), messages.Messages...),
		Tools:    toolNames(tools),
		Opts:     opts,
	}

	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return schema.LLMResponse{}, err
	}
	return p.respond(ctx, call)
}

func (p *Provider) DefaultModel() string { return "scripted" }

// Calls returns a snapshot of every call so far.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// CallsWithRole returns the recorded calls made in role.
func (p *Provider) CallsWithRole(role schema.Role) []Call {
	var out []Call
	for _, c := range p.Calls() {
		if c.Opts.Role == role {
			out = append(out, c)
		}
	}
	return out
}

// Text builds a terminal response.
func Text(s string) schema.LLMResponse {
	return schema.LLMResponse{Content: &s, FinishReason: "stop"}
}

// ToolCalls builds a response that requests tool calls.
func ToolCalls(calls ...schema.ToolCallRequest) schema.LLMResponse {
	return schema.LLMResponse{ToolCalls: calls, FinishReason: "tool_calls"}
}

// IsDecompose reports whether call is a decomposition request.
func IsDecompose(call Call) bool {
	return strings.Contains(call.Prompt(), "breaking down complex tasks into subtasks")
}

// IsAggregate reports whether call is an aggregation request.
func IsAggregate(call Call) bool {
	return strings.Contains(call.Prompt(), "aggregating the results of multiple subtasks")
}

// WorkerTask extracts the subtask description from a worker prompt.
func WorkerTask(call Call) string {
	for _, line := range strings.Split(call.Prompt(), "\n") {
		if task, ok := strings.CutPrefix(line, "Your task: "); ok {
			return task
		}
	}
	return ""
}

func toolNames(defs []map[string]any) []string {
	var names []string
	for _, d := range defs {
		if fn, ok := d["function"].(map[string]any); ok {
			if name, ok := fn["name"].(string); ok {
				names = append(names, name)
			}
		}
	}
	return names
}
