package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByName(t *testing.T) {
	assert.Equal(t, "gemini", FindByName("Gemini").Name)
	assert.Equal(t, "MISTRAL_API_KEY", FindByName("mistral").EnvKey)
	assert.Nil(t, FindByName("openai"))
	assert.Equal(t, []string{"gemini", "mistral"}, Names())
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Params{ProviderName: "claude", APIKey: "k"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(context.Background(), Params{ProviderName: "mistral", APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew_Mistral(t *testing.T) {
	p, err := New(context.Background(), Params{ProviderName: "mistral", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &MistralProvider{}, p)
	assert.Equal(t, "mistral-large-latest", p.DefaultModel())
}

func TestNew_Gemini(t *testing.T) {
	p, err := New(context.Background(), Params{ProviderName: "gemini", APIKey: "k", DefaultModel: "gemini-2.5-flash"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiProvider{}, p)
	assert.Equal(t, "gemini-2.5-flash", p.DefaultModel())
}
