package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/agentgen/internal/config/tool"
)

const ddgBody = `{
	"Heading": "Go (programming language)",
	"AbstractText": "Go is a statically typed, compiled language.",
	"AbstractSource": "Wikipedia",
	"AbstractURL": "%s/wiki/Go",
	"Answer": "",
	"Definition": "",
	"RelatedTopics": [
		{"Text": "Goroutines - lightweight threads", "FirstURL": "https://duckduckgo.com/Goroutine"},
		{"Name": "Tools", "Topics": [
			{"Text": "gofmt - formatter", "FirstURL": "https://duckduckgo.com/Gofmt"},
			{"Text": "go vet - checker", "FirstURL": "https://duckduckgo.com/Govet"}
		]}
	]
}`

const articleHTML = `<!doctype html><html><head><title>Go</title></head><body>
<article><h1>Go</h1>
<p>Go is an open source programming language that makes it simple to build secure, scalable systems.
It was designed at Google and first released in 2009. Go has garbage collection and structural typing.</p>
<p>Its concurrency primitives, goroutines and channels, make it well suited to networked services.
Many cloud infrastructure projects are written in Go, including container runtimes and orchestrators.</p>
<p>The standard library covers networking, encoding, cryptography and testing, so small programs rarely need
third party packages. The toolchain builds static binaries quickly and cross compiles to many platforms,
which keeps deployment simple for teams that ship command line tools and long running daemons alike.</p>
</article></body></html>`

func newDDGServer(t *testing.T) (*httptest.Server, *url.Values) {
	t.Helper()
	var last url.Values
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/wiki/") {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(articleHTML))
			return
		}
		last = r.URL.Query()
		w.Header().Set("Content-Type", "application/x-javascript")
		_, _ = w.Write([]byte(strings.Replace(ddgBody, "%s", srv.URL, 1)))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestSearchTool_Render(t *testing.T) {
	srv, last := newDDGServer(t)
	st := NewSearchTool(tool.SearchConfig{APIBase: srv.URL, MaxResults: 2})

	out, err := st.Execute(context.Background(), map[string]any{"query": "golang"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Search results for: golang"))
	assert.Contains(t, out, "Go is a statically typed, compiled language.")
	assert.Contains(t, out, "1. Goroutines - lightweight threads")
	assert.Contains(t, out, "2. gofmt - formatter")
	assert.NotContains(t, out, "go vet", "capped at maxResults")
	assert.NotContains(t, out, "Source page:")

	assert.Equal(t, "golang", last.Get("q"))
	assert.Equal(t, "json", last.Get("format"))
}

func TestSearchTool_FetchTop(t *testing.T) {
	srv, _ := newDDGServer(t)
	st := NewSearchTool(tool.SearchConfig{APIBase: srv.URL, FetchTop: true, MaxChars: 80})

	out, err := st.Execute(context.Background(), map[string]any{"query": "golang"})
	require.NoError(t, err)

	idx := strings.Index(out, "Source page:\n")
	require.GreaterOrEqual(t, idx, 0)
	page := out[idx+len("Source page:\n"):]
	assert.LessOrEqual(t, len([]rune(page)), 83, "truncated to maxChars plus ellipsis")
}

func TestSearchTool_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	st := NewSearchTool(tool.SearchConfig{APIBase: srv.URL})
	out, err := st.Execute(context.Background(), map[string]any{"query": "anything"})
	require.NoError(t, err)
	assert.Equal(t, "Error searching for: anything. Please try a different query.", out)
}

func TestSearchTool_NoAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Heading": "", "RelatedTopics": []}`))
	}))
	defer srv.Close()

	st := NewSearchTool(tool.SearchConfig{APIBase: srv.URL})
	out, err := st.Execute(context.Background(), map[string]any{"query": "zzzz"})
	require.NoError(t, err)
	assert.Equal(t, "Search results for: zzzz\nNo instant answer available.", out)
}
