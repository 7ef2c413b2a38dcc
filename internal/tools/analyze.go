package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var reSentenceBreak = regexp.MustCompile(`[.!?]+`)

// TextStats are the raw counts behind an analyze_tool report.
type TextStats struct {
	Words     int
	Chars     int
	Sentences int
}

// AvgWordsPerSentence divides with the denominator floored at 1.
func (s TextStats) AvgWordsPerSentence() float64 {
	return float64(s.Words) / float64(max(s.Sentences, 1))
}

// AvgCharsPerWord divides with the denominator floored at 1.
func (s TextStats) AvgCharsPerWord() float64 {
	return float64(s.Chars) / float64(max(s.Words, 1))
}

// AnalyzeText counts whitespace-separated words, runes, and sentences.
// Sentence fragments that are blank after trimming are not counted.
func AnalyzeText(content string) TextStats {
	sentences := 0
	for _, frag := range reSentenceBreak.Split(content, -1) {
		if strings.TrimSpace(frag) != "" {
			sentences++
		}
	}
	return TextStats{
		Words:     len(strings.Fields(content)),
		Chars:     utf8.RuneCountInString(content),
		Sentences: sentences,
	}
}

// AnalyzeTool reports basic readability statistics for a piece of text.
type AnalyzeTool struct{}

func NewAnalyzeTool() *AnalyzeTool { return &AnalyzeTool{} }

func (t *AnalyzeTool) Name() string        { return string(ToolAnalyze) }
func (t *AnalyzeTool) Description() string { return "Analyze data or text" }
func (t *AnalyzeTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"content": {
				"type": "string",
				"description": "The content to analyze"
			}
		},
		"required": ["content"]
	}`)
}

func (t *AnalyzeTool) Execute(_ context.Context, params map[string]any) (string, error) {
	content, _ := params["content"].(string)
	s := AnalyzeText(content)

	return fmt.Sprintf(`Analysis of content:
- Word count: %d
- Character count: %d
- Sentence count: %d
- Average words per sentence: %.2f
- Average characters per word: %.2f`,
		s.Words, s.Chars, s.Sentences, s.AvgWordsPerSentence(), s.AvgCharsPerWord()), nil
}
