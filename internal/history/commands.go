package history

import (
	"slices"

	"image-splitter/internal/guide"
)

// Mutator is the set of raw guide-set mutations a command may replay.
// Implementations apply the change unconditionally; validation happens
// before a command is built.
type Mutator interface {
	InsertLine(line guide.Line)
	RemoveLine(id string)
	SetLineY(id string, y float64)
	SetLineLocked(id string, locked bool)
	ReplaceAllLines(lines []guide.Line)
}

// AddLine inserts a line.
type AddLine struct {
	m    Mutator
	line guide.Line
}

// NewAddLine creates a command inserting line.
func NewAddLine(m Mutator, line guide.Line) *AddLine {
	return &AddLine{m: m, line: line}
}

func (c *AddLine) Do()           { c.m.InsertLine(c.line) }
func (c *AddLine) Undo()         { c.m.RemoveLine(c.line.ID) }
func (c *AddLine) Label() string { return "Add line" }

// DeleteLine removes a line, remembering its full value for undo.
type DeleteLine struct {
	m    Mutator
	line guide.Line
}

// NewDeleteLine creates a command removing line.
func NewDeleteLine(m Mutator, line guide.Line) *DeleteLine {
	return &DeleteLine{m: m, line: line}
}

func (c *DeleteLine) Do()           { c.m.RemoveLine(c.line.ID) }
func (c *DeleteLine) Undo()         { c.m.InsertLine(c.line) }
func (c *DeleteLine) Label() string { return "Delete line" }

// MoveLine changes a line's Y.
type MoveLine struct {
	m          Mutator
	id         string
	oldY, newY float64
}

// NewMoveLine creates a command moving line id from oldY to newY.
func NewMoveLine(m Mutator, id string, oldY, newY float64) *MoveLine {
	return &MoveLine{m: m, id: id, oldY: oldY, newY: newY}
}

func (c *MoveLine) Do()           { c.m.SetLineY(c.id, c.newY) }
func (c *MoveLine) Undo()         { c.m.SetLineY(c.id, c.oldY) }
func (c *MoveLine) Label() string { return "Move line" }

// ToggleLock sets a line's lock flag; undo restores the opposite value.
type ToggleLock struct {
	m      Mutator
	id     string
	locked bool
}

// NewToggleLock creates a command setting the lock flag of line id.
func NewToggleLock(m Mutator, id string, locked bool) *ToggleLock {
	return &ToggleLock{m: m, id: id, locked: locked}
}

func (c *ToggleLock) Do()           { c.m.SetLineLocked(c.id, c.locked) }
func (c *ToggleLock) Undo()         { c.m.SetLineLocked(c.id, !c.locked) }
func (c *ToggleLock) Label() string { return "Toggle lock" }

// ClearAll removes every line, keeping the prior list for undo.
type ClearAll struct {
	m        Mutator
	previous []guide.Line
}

// NewClearAll creates a command clearing the guide set. previous is copied.
func NewClearAll(m Mutator, previous []guide.Line) *ClearAll {
	return &ClearAll{m: m, previous: slices.Clone(previous)}
}

func (c *ClearAll) Do()           { c.m.ReplaceAllLines(nil) }
func (c *ClearAll) Undo()         { c.m.ReplaceAllLines(slices.Clone(c.previous)) }
func (c *ClearAll) Label() string { return "Clear lines" }
