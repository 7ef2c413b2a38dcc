package providers

import (
	"strings"

	"github.com/crystaldolphin/agentgen/internal/config/provider"
)

// ProviderSpec is the metadata record for one model provider.
type ProviderSpec struct {
	Name           string // request selector and config field name, e.g. "gemini"
	DisplayName    string // shown in `agentgen status`
	EnvKey         string // env var the CLI reads the API key from
	DefaultModel   string
	DefaultAPIBase string // empty means the SDK default endpoint
}

// Label returns the display name, defaulting to Title-cased Name.
func (s ProviderSpec) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// PROVIDERS is the closed set of supported backends.
var PROVIDERS = []ProviderSpec{
	{
		Name:         provider.ProviderGemini,
		DisplayName:  "Gemini",
		EnvKey:       "GEMINI_API_KEY",
		DefaultModel: "gemini-2.0-flash",
	},
	{
		Name:           provider.ProviderMistral,
		DisplayName:    "Mistral",
		EnvKey:         "MISTRAL_API_KEY",
		DefaultModel:   "mistral-large-latest",
		DefaultAPIBase: "https://api.mistral.ai/v1",
	},
}

// FindByName returns the ProviderSpec whose Name equals name (case-insensitive).
func FindByName(name string) *ProviderSpec {
	name = strings.ToLower(name)
	for i := range PROVIDERS {
		if PROVIDERS[i].Name == name {
			return &PROVIDERS[i]
		}
	}
	return nil
}

// Names lists the registered provider names in registry order.
func Names() []string {
	out := make([]string, len(PROVIDERS))
	for i, s := range PROVIDERS {
		out[i] = s.Name
	}
	return out
}
