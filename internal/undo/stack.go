package undo

// Command is a reversible unit of mutation.
type Command interface {
	// Redo applies the forward effect. It is also used for the first apply.
	Redo()
	// Undo applies the inverse effect.
	Undo()
	// Text is the label shown next to undo/redo controls.
	Text() string
}

// Stack is a linear undo history. Commands before index have been applied,
// commands from index on have been undone and can be redone.
type Stack struct {
	commands []Command
	index    int

	// OnChanged fires after every Push, Undo, Redo and Clear.
	OnChanged func()
}

func NewStack() *Stack {
	return &Stack{}
}

// Push applies cmd and appends it, dropping any undone tail.
func (s *Stack) Push(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Redo()

	// Clear the dropped slots so the old commands can be collected.
	for i := s.index; i < len(s.commands); i++ {
		s.commands[i] = nil
	}
	s.commands = append(s.commands[:s.index], cmd)
	s.index = len(s.commands)
	s.changed()
}

func (s *Stack) Undo() {
	if s.index == 0 {
		return
	}
	s.index--
	s.commands[s.index].Undo()
	s.changed()
}

func (s *Stack) Redo() {
	if s.index >= len(s.commands) {
		return
	}
	s.commands[s.index].Redo()
	s.index++
	s.changed()
}

// Clear forgets the whole history without touching the state it managed.
func (s *Stack) Clear() {
	s.commands = nil
	s.index = 0
	s.changed()
}

func (s *Stack) CanUndo() bool { return s.index > 0 }

func (s *Stack) CanRedo() bool { return s.index < len(s.commands) }

// Index is the number of currently applied commands.
func (s *Stack) Index() int { return s.index }

// Count is the number of commands in the history, applied or not.
func (s *Stack) Count() int { return len(s.commands) }

// UndoText returns the label of the command Undo would revert, or "".
func (s *Stack) UndoText() string {
	if !s.CanUndo() {
		return ""
	}
	return s.commands[s.index-1].Text()
}

// RedoText returns the label of the command Redo would apply, or "".
func (s *Stack) RedoText() string {
	if !s.CanRedo() {
		return ""
	}
	return s.commands[s.index].Text()
}

func (s *Stack) changed() {
	if s.OnChanged != nil {
		s.OnChanged()
	}
}
