package editor

import "ScriptBoard/internal/state"

// TextView is the text widget half of a Binding. SetText may call back into
// Binding.ViewChanged synchronously; the binding absorbs that echo.
type TextView interface {
	Text() string
	SetText(text string)
}

// propagation is set while a change is being copied from one side to the
// other. Each direction has its own.
type propagation struct {
	active bool
}

// run calls fn with the flag set. It returns false without calling fn when
// the flag is already set.
func (p *propagation) run(fn func()) bool {
	if p.active {
		return false
	}
	p.active = true
	defer func() { p.active = false }()
	fn()
	return true
}

// Binding keeps a TextView and a Document showing the same text. User edits
// become undoable document edits; document changes from load, undo and redo
// are pushed into the view.
type Binding struct {
	doc       *state.Document
	view      TextView
	fromView  propagation
	fromModel propagation
}

// Bind connects view to doc and shows the document's current text.
func Bind(doc *state.Document, view TextView) *Binding {
	b := &Binding{doc: doc, view: view}
	doc.Listen(state.DocumentListener{TextChanged: b.modelChanged})
	b.modelChanged(doc.Text())
	return b
}

// ViewChanged must be called by the widget whenever its text changes.
func (b *Binding) ViewChanged(text string) {
	if b.fromModel.active {
		return
	}
	b.fromView.run(func() { b.doc.Edit(text) })
}

func (b *Binding) modelChanged(text string) {
	if b.fromView.active {
		return
	}
	b.fromModel.run(func() {
		if b.view.Text() != text {
			b.view.SetText(text)
		}
	})
}
