package pipeline

import "time"

// PipelineConfig holds fan-out and timeout policy.
type PipelineConfig struct {
	DefaultTools          []string `json:"defaultTools" yaml:"defaultTools"`
	RequestTimeoutSeconds int      `json:"requestTimeoutSeconds" yaml:"requestTimeoutSeconds"`
	SubtaskTimeoutSeconds int      `json:"subtaskTimeoutSeconds" yaml:"subtaskTimeoutSeconds"`
	// MaxParallel caps concurrent workers; 0 means one goroutine per subtask.
	MaxParallel int `json:"maxParallel" yaml:"maxParallel"`
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		DefaultTools:          []string{"search_tool", "analyze_tool"},
		RequestTimeoutSeconds: 300,
		SubtaskTimeoutSeconds: 120,
	}
}

func (p PipelineConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

func (p PipelineConfig) SubtaskTimeout() time.Duration {
	return time.Duration(p.SubtaskTimeoutSeconds) * time.Second
}
