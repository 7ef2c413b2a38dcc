package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/crystaldolphin/agentgen/internal/config/tool"
	"github.com/crystaldolphin/agentgen/internal/shared/llmutils"
)

const (
	webUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"
	maxRedirects = 5
	maxBodyBytes = 2 << 20
)

// SearchTool queries the DuckDuckGo Instant Answer API.
type SearchTool struct {
	apiBase    string
	maxResults int
	fetchTop   bool
	maxChars   int
	httpClient *http.Client
}

// NewSearchTool creates a SearchTool from config. Zero values fall back to
// the defaults.
func NewSearchTool(cfg tool.SearchConfig) *SearchTool {
	def := tool.DefaultSearchConfig()
	if cfg.APIBase == "" {
		cfg.APIBase = def.APIBase
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = def.MaxChars
	}
	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &SearchTool{
		apiBase:    strings.TrimRight(cfg.APIBase, "/"),
		maxResults: cfg.MaxResults,
		fetchTop:   cfg.FetchTop,
		maxChars:   cfg.MaxChars,
		httpClient: client,
	}
}

func (t *SearchTool) Name() string        { return string(ToolSearch) }
func (t *SearchTool) Description() string { return "Search for information on the web" }
func (t *SearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "The search query",
				"minLength": 1
			}
		},
		"required": ["query"]
	}`)
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading          string     `json:"Heading"`
	AbstractText     string     `json:"AbstractText"`
	AbstractSource   string     `json:"AbstractSource"`
	AbstractURL      string     `json:"AbstractURL"`
	Answer           string     `json:"Answer"`
	Definition       string     `json:"Definition"`
	DefinitionSource string     `json:"DefinitionSource"`
	RelatedTopics    []ddgTopic `json:"RelatedTopics"`
}

func searchError(query string) string {
	return fmt.Sprintf("Error searching for: %s. Please try a different query.", query)
}

func (t *SearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		return "Error: query is required", nil
	}

	data, err := t.lookup(ctx, query)
	if err != nil {
		slog.Warn("Search failed", "query", query, "err", err)
		return searchError(query), nil
	}

	out := t.render(query, data)

	if t.fetchTop && data.AbstractURL != "" {
		if page, err := t.fetchReadable(ctx, data.AbstractURL); err != nil {
			slog.Debug("Top result fetch failed", "url", data.AbstractURL, "err", err)
		} else if page != "" {
			out += "\n\nSource page:\n" + page
		}
	}
	return out, nil
}

func (t *SearchTool) lookup(ctx context.Context, query string) (ddgResponse, error) {
	var data ddgResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.apiBase+"/", nil)
	if err != nil {
		return data, err
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return data, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return data, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&data); err != nil {
		return data, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}

func (t *SearchTool) render(query string, data ddgResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search results for: %s\n", query)

	found := false
	if data.Heading != "" {
		fmt.Fprintf(&sb, "\n%s\n", data.Heading)
	}
	if data.AbstractText != "" {
		found = true
		sb.WriteString(data.AbstractText)
		if data.AbstractSource != "" || data.AbstractURL != "" {
			fmt.Fprintf(&sb, "\n(Source: %s %s)", data.AbstractSource, data.AbstractURL)
		}
		sb.WriteString("\n")
	}
	if data.Answer != "" {
		found = true
		fmt.Fprintf(&sb, "Answer: %s\n", data.Answer)
	}
	if data.Definition != "" {
		found = true
		fmt.Fprintf(&sb, "Definition: %s", data.Definition)
		if data.DefinitionSource != "" {
			fmt.Fprintf(&sb, " (%s)", data.DefinitionSource)
		}
		sb.WriteString("\n")
	}

	topics := flattenTopics(data.RelatedTopics)
	if len(topics) > t.maxResults {
		topics = topics[:t.maxResults]
	}
	if len(topics) > 0 {
		found = true
		sb.WriteString("\nRelated:\n")
		for i, tp := range topics {
			fmt.Fprintf(&sb, "%d. %s", i+1, tp.Text)
			if tp.FirstURL != "" {
				fmt.Fprintf(&sb, "\n   %s", tp.FirstURL)
			}
			sb.WriteString("\n")
		}
	}

	if !found {
		sb.WriteString("No instant answer available.\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// flattenTopics expands grouped related topics into a single list.
func flattenTopics(in []ddgTopic) []ddgTopic {
	var out []ddgTopic
	for _, tp := range in {
		if len(tp.Topics) > 0 {
			out = append(out, flattenTopics(tp.Topics)...)
			continue
		}
		if tp.Text != "" {
			out = append(out, tp)
		}
	}
	return out
}

// fetchReadable downloads rawURL and extracts its main text with readability.
func (t *SearchTool) fetchReadable(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("only http/https allowed, got %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if article.Title != "" {
		text = article.Title + "\n" + text
	}
	return llmutils.Truncate(text, t.maxChars), nil
}
