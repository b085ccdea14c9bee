package state

import "ScriptBoard/internal/undo"

// DocumentListener receives document changes. Any field may be nil.
type DocumentListener struct {
	TextChanged     func(text string)
	FilePathChanged func(path string)
	DirtyChanged    func(dirty bool)
}

// Document is the editor's script buffer. It is dirty whenever its text
// differs from the last loaded or saved text.
type Document struct {
	text      string
	baseline  string
	filePath  string
	dirty     bool
	history   *undo.Stack
	listeners []DocumentListener
}

func NewDocument() *Document {
	return &Document{history: undo.NewStack()}
}

func (d *Document) Listen(l DocumentListener) {
	d.listeners = append(d.listeners, l)
}

func (d *Document) Text() string { return d.text }

func (d *Document) FilePath() string { return d.filePath }

func (d *Document) Dirty() bool { return d.dirty }

func (d *Document) History() *undo.Stack { return d.history }

// Edit replaces the whole buffer as one undoable step.
func (d *Document) Edit(text string) {
	if d.text == text {
		return
	}
	d.history.Push(&textChangeCmd{doc: d, before: d.text, after: text})
}

// Load replaces the buffer with text read from disk. It becomes the new
// baseline and the undo history is dropped.
func (d *Document) Load(text string) {
	d.history.Clear()
	d.baseline = text
	d.applyText(text)
}

func (d *Document) SetFilePath(path string) {
	if d.filePath == path {
		return
	}
	d.filePath = path
	for _, l := range d.listeners {
		if l.FilePathChanged != nil {
			l.FilePathChanged(path)
		}
	}
}

// MarkSaved records the current text as the saved baseline.
func (d *Document) MarkSaved() {
	d.baseline = d.text
	d.setDirty(false)
}

func (d *Document) Undo() { d.history.Undo() }

func (d *Document) Redo() { d.history.Redo() }

func (d *Document) applyText(text string) {
	if d.text != text {
		d.text = text
		for _, l := range d.listeners {
			if l.TextChanged != nil {
				l.TextChanged(text)
			}
		}
	}
	d.setDirty(d.text != d.baseline)
}

func (d *Document) setDirty(dirty bool) {
	if d.dirty == dirty {
		return
	}
	d.dirty = dirty
	for _, l := range d.listeners {
		if l.DirtyChanged != nil {
			l.DirtyChanged(dirty)
		}
	}
}

// textChangeCmd swaps whole buffers; scripts are small enough that diffs
// would not pay off.
type textChangeCmd struct {
	doc           *Document
	before, after string
}

func (c *textChangeCmd) Redo()        { c.doc.applyText(c.after) }
func (c *textChangeCmd) Undo()        { c.doc.applyText(c.before) }
func (c *textChangeCmd) Text() string { return "Text Change" }
