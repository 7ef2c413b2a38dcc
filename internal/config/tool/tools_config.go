package tool

// SearchConfig configures the DuckDuckGo-backed search tool.
type SearchConfig struct {
	APIBase        string `json:"apiBase" yaml:"apiBase"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	MaxResults     int    `json:"maxResults" yaml:"maxResults"`
	// FetchTop fetches the abstract's source page and appends its readable text.
	FetchTop bool `json:"fetchTop" yaml:"fetchTop"`
	MaxChars int  `json:"maxChars" yaml:"maxChars"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		APIBase:        "https://api.duckduckgo.com",
		TimeoutSeconds: 10,
		MaxResults:     5,
		MaxChars:       4000,
	}
}

// MathConfig bounds expression evaluation.
type MathConfig struct {
	TimeoutMillis int `json:"timeoutMillis" yaml:"timeoutMillis"`
}

func DefaultMathConfig() MathConfig {
	return MathConfig{TimeoutMillis: 500}
}

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Math   MathConfig   `json:"math" yaml:"math"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		Search: DefaultSearchConfig(),
		Math:   DefaultMathConfig(),
	}
}
