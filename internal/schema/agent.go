package schema

import "context"

// AgentSettings are the model parameters one agent role runs with.
type AgentSettings struct {
	Model       string
	MaxIter     int
	Temperature float64
	MaxTokens   int
	Role        Role
}

func NewAgentSettings(role Role, model string, maxIter int, temperature float64, maxTokens int) AgentSettings {
	return AgentSettings{
		Model:       model,
		MaxIter:     maxIter,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Role:        role,
	}
}

// ChatOptions converts the settings into per-call options.
func (s AgentSettings) ChatOptions() ChatOptions {
	return NewChatOptions(s.Model, s.MaxTokens, s.Temperature).WithRole(s.Role)
}

// SubtaskExecutor runs one subtask to completion and returns its text result.
type SubtaskExecutor interface {
	Execute(ctx context.Context, subtask Subtask) (string, error)
}
