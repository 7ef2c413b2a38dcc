package llmutils

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

var (
	reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)
	reFence = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\r?\n(.*?)\r?\n?```$")
)

// Truncate shortens a string to at most n runes, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	return reThink.ReplaceAllString(s, "")
}

// StripCodeFence unwraps a single Markdown code fence surrounding the whole
// text, e.g. "```json\n[...]\n```". Anything else is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := reFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ToolHint generates a short hint string for a list of tool calls, e.g. `math_tool("2 + 2")`.
// The hint shows the first string argument in key order.
func ToolHint(tcs []schema.ToolCallResponse) string {
	parts := make([]string, 0, len(tcs))
	for _, tc := range tcs {
		var firstVal string
		for _, k := range slices.Sorted(maps.Keys(tc.Arguments)) {
			if s, ok := tc.Arguments[k].(string); ok {
				firstVal = s
				break
			}
		}
		if firstVal == "" {
			parts = append(parts, tc.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s(%q)", tc.Name, Truncate(firstVal, 40)))
	}
	return strings.Join(parts, ", ")
}
