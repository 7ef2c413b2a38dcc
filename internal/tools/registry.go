package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crystaldolphin/agentgen/internal/config/tool"
	"github.com/crystaldolphin/agentgen/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolSearch  ToolName = "search_tool"
	ToolAnalyze ToolName = "analyze_tool"
	ToolMath    ToolName = "math_tool"
	ToolCode    ToolName = "code_tool"
)

// ErrUnknownTool is returned when a request enables a tool name that is not
// in the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// Registry is the immutable catalog of tools, built once per process.
// It is safe for concurrent use.
type Registry struct {
	all *ToolList
}

// NewDefaultRegistry builds the registry holding every built-in tool.
func NewDefaultRegistry(cfg tool.ToolsConfig) *Registry {
	return NewRegistryBuilder().
		WithTool(NewSearchTool(cfg.Search)).
		WithTool(NewAnalyzeTool()).
		WithTool(NewMathTool(cfg.Math)).
		WithTool(NewCodeTool()).
		Build()
}

// GetTool returns the tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	return r.all.Get(string(name))
}

// AllTools returns the full catalog as a ToolList.
func (r *Registry) AllTools() *ToolList {
	return r.all
}

// Names returns the catalog's tool names in sorted order.
func (r *Registry) Names() []string {
	return r.all.Names()
}

// Select returns the subset of tools named in names. Duplicates are
// ignored; an unknown name fails the whole selection.
func (r *Registry) Select(names []string) (*ToolList, error) {
	var unknown []string
	for _, n := range names {
		if r.all.Get(n) == nil {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, strings.Join(unknown, ", "))
	}
	return r.all.Subset(names), nil
}

// Invoke runs one tool by name against the full catalog. It never fails:
// every problem is rendered as text.
func (r *Registry) Invoke(ctx context.Context, name ToolName, input map[string]any) string {
	return r.all.Invoke(ctx, string(name), input)
}
