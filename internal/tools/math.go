package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dop251/goja"

	"github.com/crystaldolphin/agentgen/internal/config/tool"
)

// reMathStrip matches everything that is not part of plain arithmetic.
var reMathStrip = regexp.MustCompile(`[^-()/+*\d.]`)

var errNotNumeric = errors.New("expression did not evaluate to a number")

// SanitizeExpression keeps only digits, '.', parentheses and + - * /.
func SanitizeExpression(expr string) string {
	return reMathStrip.ReplaceAllString(expr, "")
}

// MathTool evaluates arithmetic in a sandboxed JavaScript VM. Input is
// sanitized first, so no identifiers can reach the interpreter.
type MathTool struct {
	timeout time.Duration
}

func NewMathTool(cfg tool.MathConfig) *MathTool {
	if cfg.TimeoutMillis <= 0 {
		cfg.TimeoutMillis = tool.DefaultMathConfig().TimeoutMillis
	}
	return &MathTool{timeout: time.Duration(cfg.TimeoutMillis) * time.Millisecond}
}

func (t *MathTool) Name() string        { return string(ToolMath) }
func (t *MathTool) Description() string { return "Perform mathematical calculations" }
func (t *MathTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"expression": {
				"type": "string",
				"description": "The mathematical expression to evaluate"
			}
		},
		"required": ["expression"]
	}`)
}

func (t *MathTool) Execute(_ context.Context, params map[string]any) (string, error) {
	expression, _ := params["expression"].(string)

	value, err := t.Evaluate(SanitizeExpression(expression))
	if err != nil {
		return fmt.Sprintf("Error evaluating expression: %s. Please check the syntax and try again.", expression), nil
	}
	return fmt.Sprintf("Result of %s = %s", expression, value), nil
}

// Evaluate runs an already-sanitized expression and returns the result in
// JavaScript number formatting ("4", "0.5", "Infinity").
func (t *MathTool) Evaluate(sanitized string) (string, error) {
	if sanitized == "" {
		return "", errors.New("empty expression")
	}

	vm := goja.New()
	timer := time.AfterFunc(t.timeout, func() { vm.Interrupt("evaluation timed out") })
	defer timer.Stop()

	v, err := vm.RunString(sanitized)
	if err != nil {
		return "", err
	}

	switch v.Export().(type) {
	case int64, float64:
		return v.String(), nil
	}
	return "", errNotNumeric
}
