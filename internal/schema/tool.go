// Package schema holds the contracts and value types shared across agentgen
// packages. Concrete implementations live in their respective packages.
package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface all model-callable tools must satisfy.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	Execute(ctx context.Context, params map[string]any) (string, error)
}
