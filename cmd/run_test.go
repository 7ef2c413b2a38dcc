package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIKeyFor(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("MISTRAL_API_KEY", "")

	assert.Equal(t, "explicit", apiKeyFor("gemini", "explicit"))
	assert.Equal(t, "from-env", apiKeyFor("Gemini", ""))
	assert.Equal(t, "", apiKeyFor("mistral", ""))
	assert.Equal(t, "", apiKeyFor("llama", ""))
}

func TestDescribeTools(t *testing.T) {
	assert.Equal(t, "(none)", describeTools(nil))
	assert.Equal(t, "search_tool, analyze_tool", describeTools([]string{"search_tool", "analyze_tool"}))
}

func TestRootCommandTree(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"onboard", "run", "serve", "status", "tools"})
}
