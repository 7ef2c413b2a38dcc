package agent

import (
	"github.com/crystaldolphin/agentgen/internal/schema"
	"github.com/crystaldolphin/agentgen/internal/tools"
)

// AgentFactory creates the Manager and Workers for one pipeline run.
// Credentials live in the provider, so a factory is built per request.
type AgentFactory struct {
	provider        schema.LLMProvider
	managerSettings schema.AgentSettings
	workerSettings  schema.AgentSettings
}

// NewFactory constructs an AgentFactory.
func NewFactory(provider schema.LLMProvider, managerSettings, workerSettings schema.AgentSettings) *AgentFactory {
	managerSettings.Role = schema.RoleManager
	workerSettings.Role = schema.RoleWorker
	if managerSettings.MaxIter < 1 {
		managerSettings.MaxIter = 1
	}
	if workerSettings.MaxIter < 1 {
		workerSettings.MaxIter = 1
	}
	return &AgentFactory{
		provider:        provider,
		managerSettings: managerSettings,
		workerSettings:  workerSettings,
	}
}

// NewManager creates the Manager used for decomposition and aggregation.
func (f *AgentFactory) NewManager() *Manager {
	return &Manager{LoopRunner: newLoopRunner(f.provider, f.managerSettings)}
}

// NewWorker creates a Worker restricted to tls. A nil tls means no tools.
func (f *AgentFactory) NewWorker(tls *tools.ToolList, onProgress ProgressFunc) *Worker {
	if tls == nil {
		tls = tools.NewToolList()
	}
	return &Worker{
		LoopRunner: newLoopRunner(f.provider, f.workerSettings),
		tools:      tls,
		onProgress: onProgress,
	}
}
