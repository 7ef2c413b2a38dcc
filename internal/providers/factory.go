package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/crystaldolphin/agentgen/internal/config/provider"
	"github.com/crystaldolphin/agentgen/internal/schema"
)

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config and the request by the caller to avoid an
// import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	DefaultModel string
	ProviderName string // registry name, "gemini" or "mistral"
	HTTPClient   *http.Client
}

// New creates the schema.LLMProvider for the given params. Credentials are
// bound to the returned client only, so concurrent requests with different
// keys never share state.
func New(ctx context.Context, p Params) (schema.LLMProvider, error) {
	spec := FindByName(p.ProviderName)
	if spec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, p.ProviderName)
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, spec.Label())
	}

	model := p.DefaultModel
	if model == "" {
		model = spec.DefaultModel
	}
	base := p.APIBase
	if base == "" {
		base = spec.DefaultAPIBase
	}

	switch spec.Name {
	case provider.ProviderGemini:
		return NewGeminiProvider(ctx, p.APIKey, base, model, p.HTTPClient)
	case provider.ProviderMistral:
		return NewMistralProvider(p.APIKey, base, model, p.HTTPClient), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, p.ProviderName)
}
