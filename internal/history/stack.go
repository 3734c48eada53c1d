// Package history provides a linear undo/redo stack of reversible commands.
package history

// Command is a reversible unit of change.
type Command interface {
	Do()
	Undo()
	Label() string
}

// Stack records executed commands. Commands at or before the cursor can be
// undone; commands after it can be redone. Pushing a command discards every
// redoable command.
type Stack struct {
	commands []Command
	cursor   int
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{cursor: -1}
}

// PushAndExecute truncates the redoable tail, appends cmd and runs it.
func (s *Stack) PushAndExecute(cmd Command) {
	s.commands = append(s.commands[:s.cursor+1], cmd)
	s.cursor++
	cmd.Do()
}

// Undo reverts the command at the cursor. It is a no-op when nothing can be undone.
func (s *Stack) Undo() {
	if !s.CanUndo() {
		return
	}
	s.commands[s.cursor].Undo()
	s.cursor--
}

// Redo re-applies the command after the cursor. It is a no-op when nothing can be redone.
func (s *Stack) Redo() {
	if !s.CanRedo() {
		return
	}
	s.cursor++
	s.commands[s.cursor].Do()
}

// CanUndo reports whether Undo would do anything.
func (s *Stack) CanUndo() bool {
	return s.cursor >= 0
}

// CanRedo reports whether Redo would do anything.
func (s *Stack) CanRedo() bool {
	return s.cursor+1 < len(s.commands)
}

// UndoLabel returns the label of the command Undo would revert.
func (s *Stack) UndoLabel() string {
	if !s.CanUndo() {
		return ""
	}
	return s.commands[s.cursor].Label()
}

// RedoLabel returns the label of the command Redo would re-apply.
func (s *Stack) RedoLabel() string {
	if !s.CanRedo() {
		return ""
	}
	return s.commands[s.cursor+1].Label()
}

// Reset drops all history.
func (s *Stack) Reset() {
	s.commands = nil
	s.cursor = -1
}
