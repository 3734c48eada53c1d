package app

import (
	"image-splitter/internal/guide"
	"image-splitter/internal/history"
)

// mutator is the controller's replay surface for commands. It applies
// changes unconditionally and publishes the resulting state.
type mutator struct {
	c *Controller
}

var _ history.Mutator = mutator{}

func (m mutator) InsertLine(line guide.Line) {
	m.c.lines[line.ID] = line
	m.publishLines()
}

func (m mutator) RemoveLine(id string) {
	if _, ok := m.c.lines[id]; !ok {
		m.missing("remove", id)
		return
	}
	delete(m.c.lines, id)
	if m.c.selectedID == id {
		m.c.selectedID = ""
		m.c.Emit(EventSelectionChanged, "")
	}
	m.publishLines()
}

func (m mutator) SetLineY(id string, y float64) {
	line, ok := m.c.lines[id]
	if !ok {
		m.missing("move", id)
		return
	}
	m.c.lines[id] = line.WithY(y)
	m.publishLines()
}

func (m mutator) SetLineLocked(id string, locked bool) {
	line, ok := m.c.lines[id]
	if !ok {
		m.missing("lock", id)
		return
	}
	m.c.lines[id] = line.WithLocked(locked)
	m.publishLines()
}

func (m mutator) ReplaceAllLines(lines []guide.Line) {
	m.c.lines = make(map[string]guide.Line, len(lines))
	for _, l := range lines {
		m.c.lines[l.ID] = l
	}
	if m.c.selectedID != "" {
		m.c.selectedID = ""
		m.c.Emit(EventSelectionChanged, "")
	}
	m.publishLines()
}

func (m mutator) publishLines() {
	m.c.Emit(EventLinesChanged, m.c.SortedLines())
}

// missing reports a command replaying against a line that no longer exists.
// History discipline makes this unreachable; seeing it means a bug.
func (m mutator) missing(op, id string) {
	m.c.log().Error("Command references unknown line", "op", op, "id", id)
}
