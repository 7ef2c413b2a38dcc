package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorSubtask(t *testing.T) {
	s := NewErrorSubtask()

	assert.True(t, s.IsMarker())
	assert.Equal(t, "Error", s.Description())
	assert.Equal(t, 0, s.ID())
}

func TestNewSubtask_NotMarker(t *testing.T) {
	s := NewSubtask(2, "Error")

	// A decomposed task that happens to be named "Error" is still real work.
	assert.False(t, s.IsMarker())
	assert.Equal(t, 2, s.ID())
}

func TestOutcome(t *testing.T) {
	ok := Success("done")
	bad := Failure("Error: boom")

	assert.True(t, ok.OK())
	assert.Equal(t, "done", ok.Text())
	assert.False(t, bad.OK())
	assert.Equal(t, "Error: boom", bad.Text())
}

func TestMessages_System(t *testing.T) {
	msgs := NewMessages()
	msgs.AddSystem("first")
	msgs.AddUser("hello")
	msgs.AddSystem("second")

	assert.Equal(t, "first\n\nsecond", msgs.System())
	assert.Equal(t, 3, msgs.Len())
}

func TestMessages_CloneIsIndependent(t *testing.T) {
	msgs := NewMessages(NewUserMessage("a"))
	clone := msgs.Clone()
	clone.AddUser("b")

	assert.Equal(t, 1, msgs.Len())
	assert.Equal(t, 2, clone.Len())
}
