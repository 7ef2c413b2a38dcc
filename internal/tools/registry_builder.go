package tools

import "github.com/crystaldolphin/agentgen/internal/schema"

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools []schema.Tool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithTool adds a tool and returns the builder, enabling chaining.
// A later tool replaces an earlier one with the same name.
func (b *RegistryBuilder) WithTool(t schema.Tool) *RegistryBuilder {
	b.tools = append(b.tools, t)

	return b
}

// Build produces an immutable Registry from the accumulated tools. Each
// tool's parameter schema is compiled here, once.
func (b *RegistryBuilder) Build() *Registry {
	return &Registry{all: NewToolList(b.tools...)}
}
