package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/crystaldolphin/agentgen/internal/schema"
)

// ToolList holds a named set of tools together with their compiled input
// schemas, and exposes them for model calls.
type ToolList struct {
	tools      map[string]schema.Tool
	validators map[string]*jsonschema.Resolved
}

func NewToolList(ts ...schema.Tool) *ToolList {
	list := ToolList{
		tools:      make(map[string]schema.Tool, len(ts)),
		validators: make(map[string]*jsonschema.Resolved, len(ts)),
	}
	for _, t := range ts {
		list.Add(t)
	}

	return &list
}

// Get returns the tool with the given name, or nil if not found.
func (r *ToolList) Get(name string) schema.Tool {
	return r.tools[name]
}

// Add registers a new tool, replacing any existing tool with the same name.
func (r *ToolList) Add(t schema.Tool) schema.Tool {
	r.tools[t.Name()] = t

	resolved, err := compileSchema(t.Parameters())
	if err != nil {
		slog.Warn("Tool schema does not compile, arguments will not be validated", "tool", t.Name(), "err", err)
		delete(r.validators, t.Name())
		return t
	}
	r.validators[t.Name()] = resolved

	return t
}

// Len reports how many tools the list holds.
func (r *ToolList) Len() int { return len(r.tools) }

// Names returns the tool names in sorted order.
func (r *ToolList) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Subset returns a new list with only the named tools. Unknown names are
// skipped. Compiled schemas are shared with r.
func (r *ToolList) Subset(names []string) *ToolList {
	out := &ToolList{
		tools:      make(map[string]schema.Tool, len(names)),
		validators: make(map[string]*jsonschema.Resolved, len(names)),
	}
	for _, n := range names {
		t, ok := r.tools[n]
		if !ok {
			continue
		}
		out.tools[n] = t
		if v, ok := r.validators[n]; ok {
			out.validators[n] = v
		}
	}
	return out
}

// Definitions returns all tool definitions in OpenAI function-calling
// format, ordered by name so prompts are stable across calls.
func (r *ToolList) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  params,
			},
		})
	}
	return list
}

// Invoke validates args against the tool's schema and executes it.
// Unknown tools, invalid arguments, errors and panics all come back as
// "Error: ..." text so a worker can hand them to the model.
func (r *ToolList) Invoke(ctx context.Context, name string, args map[string]any) (result string) {
	t := r.tools[name]
	if t == nil {
		return fmt.Sprintf("Error: Tool '%s' not found", name)
	}
	if args == nil {
		args = map[string]any{}
	}

	if v := r.validators[name]; v != nil {
		if err := v.Validate(args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Tool panicked", "tool", name, "panic", rec, "stack", string(debug.Stack()))
			result = fmt.Sprintf("Error: %s failed: %v", name, rec)
		}
	}()

	out, err := t.Execute(ctx, args)
	if err != nil {
		return "Error: " + err.Error()
	}
	return out
}

func compileSchema(raw json.RawMessage) (*jsonschema.Resolved, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return resolved, nil
}
