package provider

const (
	ProviderGemini  = "gemini"
	ProviderMistral = "mistral"
)

// ProviderConfig holds per-provider model settings. Credentials are never
// stored here: they arrive with each request.
type ProviderConfig struct {
	Model   string `json:"model" yaml:"model"`
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
}

// ProvidersConfig holds settings for all supported model providers.
type ProvidersConfig struct {
	Gemini  ProviderConfig `json:"gemini" yaml:"gemini"`
	Mistral ProviderConfig `json:"mistral" yaml:"mistral"`
}

func DefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{
		Gemini:  ProviderConfig{Model: "gemini-2.0-flash"},
		Mistral: ProviderConfig{Model: "mistral-large-latest", APIBase: "https://api.mistral.ai/v1"},
	}
}

// ByName returns a pointer to the ProviderConfig field matching the given
// registry name. Returns nil if the name is unknown.
func (p *ProvidersConfig) ByName(name string) *ProviderConfig {
	switch name {
	case ProviderGemini:
		return &p.Gemini
	case ProviderMistral:
		return &p.Mistral
	}
	return nil
}
