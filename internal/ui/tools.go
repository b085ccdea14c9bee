package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ScriptBoard/internal/editor"
	"ScriptBoard/internal/export"
	"ScriptBoard/internal/state"
	"ScriptBoard/internal/undo"
)

// entryView lets a multi-line entry act as the text side of an editor
// binding.
type entryView struct {
	entry *widget.Entry
}

var _ editor.TextView = entryView{}

func (v entryView) Text() string { return v.entry.Text }

func (v entryView) SetText(text string) { v.entry.SetText(text) }

// historyActions keeps undo and redo buttons enabled in step with a history
// and labelled with the command they would apply.
type historyActions struct {
	undo, redo *widget.Button
	history    *undo.Stack
}

func newHistoryActions(history *undo.Stack, undoFn, redoFn func()) *historyActions {
	h := &historyActions{
		undo:    widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), undoFn),
		redo:    widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), redoFn),
		history: history,
	}
	h.watch()
	return h
}

func (h *historyActions) objects() fyne.CanvasObject {
	return container.NewHBox(h.undo, h.redo)
}

func (h *historyActions) refresh() {
	if h.history.CanUndo() {
		h.undo.Enable()
	} else {
		h.undo.Disable()
	}
	if h.history.CanRedo() {
		h.redo.Enable()
	} else {
		h.redo.Disable()
	}
	h.undo.SetText(label("Undo", h.history.UndoText()))
	h.redo.SetText(label("Redo", h.history.RedoText()))
}

func label(verb, command string) string {
	if command == "" {
		return verb
	}
	return verb + " " + command
}

// watch hooks h onto the history's change callback, keeping any callback
// already installed.
func (h *historyActions) watch() {
	prev := h.history.OnChanged
	h.history.OnChanged = func() {
		if prev != nil {
			prev()
		}
		h.refresh()
	}
	h.refresh()
}

// exportScene asks for a file and writes snap to it with write.
func exportScene(w fyne.Window, snap func() state.Snapshot, write func(io.Writer, state.Snapshot) error, status func(string)) {
	dialog.ShowFileSave(func(out fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if out == nil {
			return
		}
		defer out.Close()
		if err := write(out, snap()); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status(fmt.Sprintf("Exported %s", out.URI().Name()))
	}, w)
}

func writePDF(out io.Writer, snap state.Snapshot) error {
	return export.PDF(out, snap, export.DefaultWidth, export.DefaultHeight)
}

func writePNG(out io.Writer, snap state.Snapshot) error {
	return export.PNG(out, snap, export.DefaultWidth, export.DefaultHeight)
}
