// Package app provides the guide controller: the single owner of the loaded
// image, the guide set, the selection, the snap settings and the undo history.
package app

import (
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"time"

	"image-splitter/internal/export"
	"image-splitter/internal/guide"
	"image-splitter/internal/history"
	pkgimage "image-splitter/internal/image"
	"image-splitter/internal/logging"
	"image-splitter/pkg/geometry"
)

// Default snap settings for a new controller.
const (
	DefaultSnapMode = geometry.SnapPixel
	DefaultGridSize = 10
)

// Controller orchestrates every user-facing guide operation. It is not safe
// for concurrent mutation: callers must serialize operations.
type Controller struct {
	mu        sync.RWMutex // guards listeners
	listeners map[EventType][]EventListener

	layer      *pkgimage.Layer
	lines      map[string]guide.Line
	selectedID string
	snapMode   geometry.SnapMode
	gridSize   int
	history    *history.Stack

	now   func() time.Time
	randN func(n int) int
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for export directory names.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithRand overrides the random source used for export directory names.
// randN must return a value in [0, n).
func WithRand(randN func(n int) int) Option {
	return func(c *Controller) {
		c.randN = randN
	}
}

// NewController creates a controller with no image loaded.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		listeners: make(map[EventType][]EventListener),
		lines:     make(map[string]guide.Line),
		snapMode:  DefaultSnapMode,
		gridSize:  DefaultGridSize,
		history:   history.NewStack(),
		now:       time.Now,
		randN:     rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// On registers an event listener for the specified event type.
func (c *Controller) On(event EventType, listener EventListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[event] = append(c.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (c *Controller) Emit(event EventType, data interface{}) {
	c.mu.RLock()
	listeners := c.listeners[event]
	c.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (c *Controller) log() *slog.Logger {
	return logging.Logger().With("component", "controller")
}

func (c *Controller) status(key string, params map[string]any) {
	c.Emit(EventStatus, Status{Key: key, Params: params})
}

// HasImage reports whether an image is loaded.
func (c *Controller) HasImage() bool {
	return c.layer != nil
}

// ImageSize returns the loaded image dimensions.
func (c *Controller) ImageSize() (width, height int, ok bool) {
	if c.layer == nil {
		return 0, 0, false
	}
	return c.layer.Width(), c.layer.Height(), true
}

// ImagePath returns the path of the loaded image, or "".
func (c *Controller) ImagePath() string {
	if c.layer == nil {
		return ""
	}
	return c.layer.Path
}

// SelectedID returns the selected line id, or "" when nothing is selected.
func (c *Controller) SelectedID() string {
	return c.selectedID
}

// SnapMode returns the current snap mode.
func (c *Controller) SnapMode() geometry.SnapMode {
	return c.snapMode
}

// GridSize returns the current grid size.
func (c *Controller) GridSize() int {
	return c.gridSize
}

// Line returns the line with the given id.
func (c *Controller) Line(id string) (guide.Line, bool) {
	l, ok := c.lines[id]
	return l, ok
}

// SortedLines returns a snapshot of the guide set sorted by ascending y.
func (c *Controller) SortedLines() []guide.Line {
	out := make([]guide.Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l)
	}
	return guide.SortByY(out)
}

// CanUndo reports whether Undo would change anything.
func (c *Controller) CanUndo() bool { return c.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

// UndoLabel returns the label of the command Undo would revert.
func (c *Controller) UndoLabel() string { return c.history.UndoLabel() }

// RedoLabel returns the label of the command Redo would re-apply.
func (c *Controller) RedoLabel() string { return c.history.RedoLabel() }

// LoadImage decodes path and makes it the current image, discarding all
// lines, the selection and the history. On failure nothing changes.
func (c *Controller) LoadImage(path string) bool {
	layer, err := pkgimage.Load(path)
	if err != nil {
		c.log().Error("Failed to load image", "path", path, "error", err)
		c.status(StatusLoadFailed, map[string]any{"Name": filepath.Base(path)})
		return false
	}

	c.layer = layer
	c.lines = make(map[string]guide.Line)
	c.selectedID = ""
	c.history.Reset()

	c.log().Info("Image loaded", "path", path, "width", layer.Width(), "height", layer.Height())
	c.Emit(EventImageChanged, ImageChanged{Image: layer.Image, Path: path})
	c.Emit(EventLinesChanged, []guide.Line{})
	c.Emit(EventSelectionChanged, "")
	c.emitUndoState()
	c.status(StatusLoaded, map[string]any{
		"Name":   layer.Name(),
		"Width":  layer.Width(),
		"Height": layer.Height(),
	})
	return true
}

// CloseImage unloads the image and hard-resets lines, selection and history.
func (c *Controller) CloseImage() {
	if c.layer == nil {
		return
	}
	c.layer = nil
	c.lines = make(map[string]guide.Line)
	c.selectedID = ""
	c.history.Reset()

	c.Emit(EventLinesChanged, []guide.Line{})
	c.Emit(EventSelectionChanged, "")
	c.emitUndoState()
	c.Emit(EventImageCleared, nil)
	c.status(StatusImageClosed, nil)
}

// SetSnapMode changes the snap policy applied to new and moved lines.
func (c *Controller) SetSnapMode(mode geometry.SnapMode) {
	c.snapMode = mode
	c.status(StatusSnapMode, map[string]any{"Mode": mode.String()})
}

// SetGridSize changes the grid size; values below 1 become 1.
func (c *Controller) SetGridSize(n int) {
	c.gridSize = max(1, n)
}

// NormalizeY snaps y under the current policy and clamps it into the image.
// Without an image y is returned unchanged.
func (c *Controller) NormalizeY(y float64) float64 {
	if c.layer == nil {
		return y
	}
	snapped := geometry.Snap(y, c.snapMode, c.gridSize)
	return geometry.Clamp(snapped, 0, float64(c.layer.Height()))
}

func (c *Controller) isDuplicate(y float64, excludeID string) bool {
	for id, l := range c.lines {
		if id == excludeID {
			continue
		}
		if l.Near(y) {
			return true
		}
	}
	return false
}

// AddLine adds a line at the normalized y and selects it. NaN and infinite
// positions are rejected.
func (c *Controller) AddLine(y float64) {
	if c.layer == nil {
		c.status(StatusOpenFirst, nil)
		return
	}
	if !geometry.Finite(y) {
		c.log().Warn("Rejected non-finite line position", "y", y)
		c.status(StatusInvalidPosition, nil)
		return
	}
	y = c.NormalizeY(y)
	if c.isDuplicate(y, "") {
		c.status(StatusLineExists, map[string]any{"Y": y})
		return
	}

	line := guide.NewLine(y)
	c.history.PushAndExecute(history.NewAddLine(mutator{c}, line))
	c.SelectLine(line.ID)
	c.emitUndoState()
}

// DeleteLine removes the line with the given id, or the selected line when
// id is "". Locked lines are deleted too; gesture policy is up to the caller.
func (c *Controller) DeleteLine(id string) {
	if id == "" {
		id = c.selectedID
	}
	line, ok := c.lines[id]
	if !ok {
		return
	}
	c.history.PushAndExecute(history.NewDeleteLine(mutator{c}, line))
	c.emitUndoState()
}

// MoveLine moves a line to the normalized newY. Moves shorter than the
// duplicate tolerance are ignored.
func (c *Controller) MoveLine(id string, newY float64) {
	line, ok := c.lines[id]
	if !ok || c.layer == nil {
		return
	}
	if !geometry.Finite(newY) {
		c.log().Warn("Rejected non-finite line position", "id", id, "y", newY)
		c.status(StatusInvalidPosition, nil)
		return
	}
	newY = c.NormalizeY(newY)
	if line.Near(newY) {
		return
	}
	if c.isDuplicate(newY, id) {
		c.status(StatusLineExistsOther, map[string]any{"Y": newY})
		return
	}
	c.history.PushAndExecute(history.NewMoveLine(mutator{c}, id, line.Y, newY))
	c.emitUndoState()
}

// SetLocked sets the lock flag of a line.
func (c *Controller) SetLocked(id string, locked bool) {
	line, ok := c.lines[id]
	if !ok || line.Locked == locked {
		return
	}
	c.history.PushAndExecute(history.NewToggleLock(mutator{c}, id, locked))
	c.emitUndoState()
}

// ClearLines removes every line as one undoable step.
func (c *Controller) ClearLines() {
	if len(c.lines) == 0 {
		return
	}
	c.history.PushAndExecute(history.NewClearAll(mutator{c}, c.SortedLines()))
	c.emitUndoState()
}

// SelectLine selects the line with the given id; "" clears the selection.
// Unknown ids are ignored.
func (c *Controller) SelectLine(id string) {
	if id != "" {
		if _, ok := c.lines[id]; !ok {
			return
		}
	}
	c.selectedID = id
	c.Emit(EventSelectionChanged, id)
}

// Undo reverts the last command.
func (c *Controller) Undo() {
	c.history.Undo()
	c.emitUndoState()
}

// Redo re-applies the last undone command.
func (c *Controller) Redo() {
	c.history.Redo()
	c.emitUndoState()
}

// Export writes the current segments into a fresh timestamped directory
// under outDir. ok is false when no image is loaded.
func (c *Controller) Export(outDir string, format guide.ExportFormat, quality int) (result guide.ExportResult, ok bool) {
	if c.layer == nil {
		c.status(StatusOpenFirst, nil)
		return guide.ExportResult{}, false
	}

	target := filepath.Join(outDir, export.SubdirName(c.now(), c.randN(1000)))
	result = export.Export(c.layer.Image, c.SortedLines(), export.Options{
		OutputDir:      target,
		Format:         format,
		JPEGQuality:    quality,
		OriginalSuffix: c.layer.Suffix(),
	})

	c.Emit(EventExportFinished, result)
	if !result.Success() {
		c.status(StatusExportWithErrors, map[string]any{"Count": len(result.Errors), "Dir": target})
	} else {
		c.status(StatusExportOK, map[string]any{"Count": len(result.Written), "Dir": target})
	}
	return result, true
}

func (c *Controller) emitUndoState() {
	c.Emit(EventUndoStateChanged, UndoState{CanUndo: c.history.CanUndo(), CanRedo: c.history.CanRedo()})
}
