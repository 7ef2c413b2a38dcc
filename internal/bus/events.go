// Package bus carries pipeline progress events from a running request to
// whoever is watching it (the CLI or a websocket client).
package bus

import "time"

type EventType string

const (
	EventRunStarted      EventType = "run_started"
	EventDecomposed      EventType = "decomposed"
	EventSubtaskStarted  EventType = "subtask_started"
	EventToolCall        EventType = "tool_call"
	EventSubtaskFinished EventType = "subtask_finished"
	EventAggregating     EventType = "aggregating"
	EventCompleted       EventType = "completed"
	EventFailed          EventType = "failed"
)

// SubtaskRef identifies the subtask an event belongs to.
type SubtaskRef struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Event is one progress notification for a pipeline run.
type Event struct {
	Type     EventType   `json:"type"`
	RunID    string      `json:"runId"`
	Time     time.Time   `json:"time"`
	Subtask  *SubtaskRef `json:"subtask,omitempty"`
	Subtasks []string    `json:"subtasks,omitempty"` // decomposed
	Success  bool        `json:"success,omitempty"`  // subtask_finished
	Text     string      `json:"text,omitempty"`
}

func NewEvent(typ EventType, runID string) Event {
	return Event{Type: typ, RunID: runID, Time: time.Now().UTC()}
}

// ForSubtask returns a copy of e tagged with a subtask.
func (e Event) ForSubtask(id int, description string) Event {
	e.Subtask = &SubtaskRef{ID: id, Description: description}
	return e
}

// WithText returns a copy of e carrying text.
func (e Event) WithText(text string) Event {
	e.Text = text
	return e
}

// Terminal reports whether no further events follow e for its run.
func (e Event) Terminal() bool {
	return e.Type == EventCompleted || e.Type == EventFailed
}
