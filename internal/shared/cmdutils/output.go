package cmdutils

import (
	"fmt"
	"io"

	"github.com/crystaldolphin/agentgen/internal/bus"
	"github.com/crystaldolphin/agentgen/internal/shared/llmutils"
)

const Logo = "🐙"

func PrintResponse(w io.Writer, text string) {
	if text == "" {
		return
	}

	fmt.Fprintf(w, "\n%s agentgen\n%s\n\n", Logo, text)
}

// PrintProgress writes one "↳" line for a pipeline event. Terminal events
// print nothing; the caller prints the answer or the error.
func PrintProgress(w io.Writer, ev bus.Event) {
	var line string
	switch ev.Type {
	case bus.EventRunStarted:
		line = "decomposing request..."
	case bus.EventDecomposed:
		line = fmt.Sprintf("%d subtask(s)", len(ev.Subtasks))
		for i, s := range ev.Subtasks {
			line += fmt.Sprintf("\n      %d. %s", i+1, s)
		}
	case bus.EventSubtaskStarted:
		line = fmt.Sprintf("[%d] %s", ev.Subtask.ID+1, ev.Subtask.Description)
	case bus.EventToolCall:
		line = fmt.Sprintf("[%d] %s", ev.Subtask.ID+1, ev.Text)
	case bus.EventSubtaskFinished:
		mark := "✓"
		if !ev.Success {
			mark = "✗ " + llmutils.Truncate(ev.Text, 80)
		}
		line = fmt.Sprintf("[%d] %s", ev.Subtask.ID+1, mark)
	case bus.EventAggregating:
		line = "aggregating results..."
	default:
		return
	}
	fmt.Fprintf(w, "  ↳ %s\n", line)
}
