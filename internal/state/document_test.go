package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStartsEmptyAndClean(t *testing.T) {
	d := NewDocument()
	assert.Equal(t, "", d.Text())
	assert.Equal(t, "", d.FilePath())
	assert.False(t, d.Dirty())
}

func TestDocumentEditMarksDirtyAndUndoes(t *testing.T) {
	d := NewDocument()
	var texts []string
	var dirty []bool
	d.Listen(DocumentListener{
		TextChanged:  func(s string) { texts = append(texts, s) },
		DirtyChanged: func(b bool) { dirty = append(dirty, b) },
	})

	d.Edit("canvas.clear()")
	require.True(t, d.Dirty())
	assert.Equal(t, "Text Change", d.History().UndoText())

	d.Edit("canvas.clear()")
	assert.Equal(t, 1, d.History().Count(), "identical text records nothing")

	d.Undo()
	assert.Equal(t, "", d.Text())
	assert.False(t, d.Dirty(), "back at the baseline")

	d.Redo()
	assert.Equal(t, "canvas.clear()", d.Text())
	assert.Equal(t, []string{"canvas.clear()", "", "canvas.clear()"}, texts)
	assert.Equal(t, []bool{true, false, true}, dirty)
}

func TestDocumentLoadResetsHistory(t *testing.T) {
	d := NewDocument()
	d.Edit("a")
	d.Edit("b")

	d.Load("from disk")
	assert.Equal(t, "from disk", d.Text())
	assert.False(t, d.Dirty())
	assert.False(t, d.History().CanUndo())

	d.Edit("from disk!")
	assert.True(t, d.Dirty())
}

func TestDocumentMarkSaved(t *testing.T) {
	d := NewDocument()
	d.Edit("x = 1")
	d.MarkSaved()
	assert.False(t, d.Dirty())
	assert.Equal(t, "x = 1", d.Text())

	d.Undo()
	assert.True(t, d.Dirty(), "undoing past a save differs from the saved text")
}

func TestDocumentFilePath(t *testing.T) {
	d := NewDocument()
	var paths []string
	d.Listen(DocumentListener{FilePathChanged: func(p string) { paths = append(paths, p) }})

	d.SetFilePath("/tmp/a.lua")
	d.SetFilePath("/tmp/a.lua")
	assert.Equal(t, []string{"/tmp/a.lua"}, paths)
}
