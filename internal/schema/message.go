package schema

import "encoding/json"

// ToolCall represents one function call in an assistant message.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToWireMap serialises a ToolCall into the OpenAI wire-format map.
// Used by provider implementations when rebuilding assistant turns.
func (tc ToolCall) ToWireMap() map[string]any {
	argsJSON, _ := json.Marshal(tc.Arguments)
	return map[string]any{
		"id":   tc.ID,
		"type": "function",
		"function": map[string]any{
			"name":      tc.Name,
			"arguments": string(argsJSON),
		},
	}
}

// Message is one entry in a model conversation.
//
// Role is one of: "system", "user", "assistant", "tool".
// Content is nil only for assistant turns that carry nothing but tool calls.
// ToolCallID and ToolName are set for tool-result messages.
type Message struct {
	Role       string
	Content    *string
	ToolCalls  []ToolCall
	ToolCallID string // "tool" role only
	ToolName   string // "tool" role only
}

// Text returns the message content, or "" when there is none.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: &content}
}

func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: &content}
}

func NewAssistantMessage(content *string, toolCalls []ToolCall) Message {
	return Message{Role: "assistant", Content: content, ToolCalls: toolCalls}
}

func NewToolResultMessage(toolCallID, toolName, result string) Message {
	return Message{
		Role:       "tool",
		Content:    &result,
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
}
