package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterCmd adds delta to a shared counter.
type counterCmd struct {
	value *int
	delta int
}

func (c *counterCmd) Redo()        { *c.value += c.delta }
func (c *counterCmd) Undo()        { *c.value -= c.delta }
func (c *counterCmd) Text() string { return "Add" }

func TestStackPushUndoRedo(t *testing.T) {
	value := 0
	s := NewStack()

	s.Push(&counterCmd{&value, 1})
	s.Push(&counterCmd{&value, 10})
	require.Equal(t, 11, value)
	assert.Equal(t, 2, s.Index())

	s.Undo()
	assert.Equal(t, 1, value)
	assert.True(t, s.CanRedo())

	s.Redo()
	assert.Equal(t, 11, value)
	assert.False(t, s.CanRedo())

	// Redo at the end does nothing.
	s.Redo()
	assert.Equal(t, 11, value)
}

func TestStackUndoAtStartIsNoop(t *testing.T) {
	calls := 0
	s := NewStack()
	s.OnChanged = func() { calls++ }

	s.Undo()
	assert.Equal(t, 0, calls)
	assert.False(t, s.CanUndo())
	assert.Equal(t, "", s.UndoText())
}

func TestStackPushDiscardsUndoneTail(t *testing.T) {
	value := 0
	s := NewStack()

	s.Push(&counterCmd{&value, 1})
	s.Push(&counterCmd{&value, 2})
	s.Push(&counterCmd{&value, 4})
	s.Undo()
	s.Undo()
	require.Equal(t, 1, value)

	s.Push(&counterCmd{&value, 100})
	assert.Equal(t, 101, value)
	assert.Equal(t, 2, s.Count())
	assert.False(t, s.CanRedo())

	s.Redo()
	assert.Equal(t, 101, value, "discarded commands must not come back")

	s.Undo()
	s.Undo()
	assert.Equal(t, 0, value)
}

func TestStackClear(t *testing.T) {
	value := 0
	s := NewStack()
	s.Push(&counterCmd{&value, 3})

	s.Clear()
	assert.Equal(t, 3, value, "clear keeps the managed state")
	assert.False(t, s.CanUndo())
	assert.Equal(t, 0, s.Count())
}

func TestStackTexts(t *testing.T) {
	value := 0
	s := NewStack()
	s.Push(&counterCmd{&value, 1})

	assert.Equal(t, "Add", s.UndoText())
	assert.Equal(t, "", s.RedoText())
	s.Undo()
	assert.Equal(t, "", s.UndoText())
	assert.Equal(t, "Add", s.RedoText())
}

func TestStackIgnoresNil(t *testing.T) {
	s := NewStack()
	s.Push(nil)
	assert.Equal(t, 0, s.Count())
}
