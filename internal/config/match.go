package config

import (
	"strings"

	"github.com/crystaldolphin/agentgen/internal/config/provider"
	"github.com/crystaldolphin/agentgen/internal/providers"
)

// MatchResult is the resolved provider config and registry name for a
// requested model selector.
type MatchResult struct {
	Provider provider.ProviderConfig
	Spec     *providers.ProviderSpec
}

// Found reports whether the selector named a registered provider.
func (m MatchResult) Found() bool { return m.Spec != nil }

// MatchProvider resolves the provider selector sent with a request
// ("gemini", "Mistral", ...) against the registry. Unset model and API base
// fall back to the registry defaults.
func (c *Config) MatchProvider(name string) MatchResult {
	name = strings.ToLower(strings.TrimSpace(name))

	spec := providers.FindByName(name)
	if spec == nil {
		return MatchResult{}
	}

	var pc provider.ProviderConfig
	if p := c.Providers.ByName(spec.Name); p != nil {
		pc = *p
	}
	if pc.Model == "" {
		pc.Model = spec.DefaultModel
	}
	if pc.APIBase == "" {
		pc.APIBase = spec.DefaultAPIBase
	}
	return MatchResult{Provider: pc, Spec: spec}
}
