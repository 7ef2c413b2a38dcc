// Package config defines the configuration schema for agentgen.
//
// JSON keys use camelCase. Files ending in .yaml or .yml are read with the
// same key names.
package config

import (
	"github.com/crystaldolphin/agentgen/internal/config/agent"
	"github.com/crystaldolphin/agentgen/internal/config/gateway"
	"github.com/crystaldolphin/agentgen/internal/config/pipeline"
	"github.com/crystaldolphin/agentgen/internal/config/provider"
	"github.com/crystaldolphin/agentgen/internal/config/tool"
)

// LogConfig selects the slog handler. Level is debug|info|warn|error,
// Format is text|json.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: "text"}
}

// Config is the root configuration object, loaded from ~/.agentgen/config.json.
type Config struct {
	Providers provider.ProvidersConfig `json:"providers" yaml:"providers"`
	Agents    agent.AgentsConfig       `json:"agents" yaml:"agents"`
	Pipeline  pipeline.PipelineConfig  `json:"pipeline" yaml:"pipeline"`
	Tools     tool.ToolsConfig         `json:"tools" yaml:"tools"`
	Server    gateway.GatewayConfig    `json:"server" yaml:"server"`
	Log       LogConfig                `json:"log" yaml:"log"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Providers: provider.DefaultProvidersConfig(),
		Agents:    agent.DefaultAgentsConfig(),
		Pipeline:  pipeline.DefaultPipelineConfig(),
		Tools:     tool.DefaultToolConfigs(),
		Server:    gateway.DefaultGatewayConfig(),
		Log:       DefaultLogConfig(),
	}
}
