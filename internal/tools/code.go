package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reJSFunction = regexp.MustCompile(`function\s+\w+\s*\(`)
	reJSArrow    = regexp.MustCompile(`=>\s*\{`)
	reJSConst    = regexp.MustCompile(`const\s+`)
	reJSLet      = regexp.MustCompile(`let\s+`)

	rePyDef    = regexp.MustCompile(`def\s+\w+\s*\(`)
	rePyClass  = regexp.MustCompile(`class\s+\w+`)
	rePyImport = regexp.MustCompile(`import\s+`)
)

func countMatches(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}

// CodeTool reports simple structural counts for a code snippet.
type CodeTool struct{}

func NewCodeTool() *CodeTool { return &CodeTool{} }

func (t *CodeTool) Name() string        { return string(ToolCode) }
func (t *CodeTool) Description() string { return "Write and analyze code" }
func (t *CodeTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"language": {
				"type": "string",
				"description": "The programming language"
			},
			"code": {
				"type": "string",
				"description": "The code to analyze"
			}
		},
		"required": ["language", "code"]
	}`)
}

func (t *CodeTool) Execute(_ context.Context, params map[string]any) (string, error) {
	language, _ := params["language"].(string)
	code, _ := params["code"].(string)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Code Analysis for %s:\n", language)
	fmt.Fprintf(&sb, "- Lines of code: %d\n", strings.Count(code, "\n")+1)
	fmt.Fprintf(&sb, "- Character count: %d\n", utf8.RuneCountInString(code))

	switch strings.ToLower(strings.TrimSpace(language)) {
	case "javascript", "js":
		sb.WriteString("\nJavaScript Analysis:\n")
		fmt.Fprintf(&sb, "- Function declarations: %d\n", countMatches(reJSFunction, code))
		fmt.Fprintf(&sb, "- Arrow functions: %d\n", countMatches(reJSArrow, code))
		fmt.Fprintf(&sb, "- Const declarations: %d\n", countMatches(reJSConst, code))
		fmt.Fprintf(&sb, "- Let declarations: %d\n", countMatches(reJSLet, code))
	case "python":
		sb.WriteString("\nPython Analysis:\n")
		fmt.Fprintf(&sb, "- Function definitions: %d\n", countMatches(rePyDef, code))
		fmt.Fprintf(&sb, "- Class definitions: %d\n", countMatches(rePyClass, code))
		fmt.Fprintf(&sb, "- Import statements: %d\n", countMatches(rePyImport, code))
	}

	fmt.Fprintf(&sb, "\nThe code appears to be valid %s syntax.", language)
	return sb.String(), nil
}
