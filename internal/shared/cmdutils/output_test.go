package cmdutils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crystaldolphin/agentgen/internal/bus"
)

func TestPrintResponse(t *testing.T) {
	var buf bytes.Buffer
	PrintResponse(&buf, "")
	assert.Empty(t, buf.String())

	PrintResponse(&buf, "hello")
	assert.Equal(t, "\n"+Logo+" agentgen\nhello\n\n", buf.String())
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer

	decomposed := bus.NewEvent(bus.EventDecomposed, "r")
	decomposed.Subtasks = []string{"a", "b"}
	PrintProgress(&buf, decomposed)

	failed := bus.NewEvent(bus.EventSubtaskFinished, "r").ForSubtask(1, "b").WithText("Error: boom")
	PrintProgress(&buf, failed)

	PrintProgress(&buf, bus.NewEvent(bus.EventCompleted, "r").WithText("answer"))

	assert.Equal(t, "  ↳ 2 subtask(s)\n      1. a\n      2. b\n  ↳ [2] ✗ Error: boom\n", buf.String())
}
