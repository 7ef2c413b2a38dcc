package schema

// Subtask is one unit of decomposed work. It is read-only after creation.
type Subtask struct {
	id          int
	description string
	marker      bool
}

// ErrorSubtaskDescription is the description carried by the synthetic
// subtask produced when decomposition fails.
const ErrorSubtaskDescription = "Error"

func NewSubtask(id int, description string) Subtask {
	return Subtask{id: id, description: description}
}

// NewErrorSubtask returns the single placeholder subtask used when the
// manager's decomposition output cannot be used.
func NewErrorSubtask() Subtask {
	return Subtask{id: 0, description: ErrorSubtaskDescription, marker: true}
}

func (s Subtask) ID() int             { return s.id }
func (s Subtask) Description() string { return s.description }

// IsMarker reports whether s is the decomposition-failure placeholder.
func (s Subtask) IsMarker() bool { return s.marker }

// Outcome is the terminal state of a subtask: success or failure, each with text.
type Outcome struct {
	ok   bool
	text string
}

func Success(text string) Outcome { return Outcome{ok: true, text: text} }
func Failure(text string) Outcome { return Outcome{ok: false, text: text} }

func (o Outcome) OK() bool     { return o.ok }
func (o Outcome) Text() string { return o.text }

// SubtaskResult pairs a subtask with its outcome. Created exactly once per
// subtask and never mutated afterwards.
type SubtaskResult struct {
	Subtask Subtask
	Outcome Outcome
}

func NewSubtaskResult(subtask Subtask, outcome Outcome) SubtaskResult {
	return SubtaskResult{Subtask: subtask, Outcome: outcome}
}
