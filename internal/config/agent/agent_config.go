package agent

// RoleConfig holds the model parameters for one agent role.
type RoleConfig struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"maxTokens" yaml:"maxTokens"`
	MaxToolIter int     `json:"maxToolIterations,omitempty" yaml:"maxToolIterations,omitempty"`
}

// AgentsConfig splits settings between the manager (decompose + aggregate)
// and the workers that execute subtasks.
type AgentsConfig struct {
	Manager RoleConfig `json:"manager" yaml:"manager"`
	Worker  RoleConfig `json:"worker" yaml:"worker"`
}

func DefaultAgentsConfig() AgentsConfig {
	return AgentsConfig{
		Manager: RoleConfig{Temperature: 0.3, MaxTokens: 4096},
		Worker:  RoleConfig{Temperature: 0.7, MaxTokens: 4096, MaxToolIter: 5},
	}
}
