package app

import "image"

// EventType identifies the notifications the controller emits.
type EventType int

const (
	// EventImageChanged carries ImageChanged.
	EventImageChanged EventType = iota
	// EventImageCleared carries nil.
	EventImageCleared
	// EventLinesChanged carries the full y-sorted []guide.Line.
	EventLinesChanged
	// EventSelectionChanged carries the selected id as a string, "" for none.
	EventSelectionChanged
	// EventStatus carries Status.
	EventStatus
	// EventUndoStateChanged carries UndoState.
	EventUndoStateChanged
	// EventExportFinished carries guide.ExportResult.
	EventExportFinished
)

func (e EventType) String() string {
	switch e {
	case EventImageChanged:
		return "image-changed"
	case EventImageCleared:
		return "image-cleared"
	case EventLinesChanged:
		return "lines-changed"
	case EventSelectionChanged:
		return "selection-changed"
	case EventStatus:
		return "status"
	case EventUndoStateChanged:
		return "undo-state-changed"
	case EventExportFinished:
		return "export-finished"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs.
// Listeners must treat data as read-only.
type EventListener func(data interface{})

// ImageChanged is the payload of EventImageChanged.
type ImageChanged struct {
	Image image.Image
	Path  string
}

// UndoState is the payload of EventUndoStateChanged.
type UndoState struct {
	CanUndo bool
	CanRedo bool
}

// Status is a message for the user, identified by a catalog key. Params
// hold the template substitutions; rendering is left to the listener.
type Status struct {
	Key    string
	Params map[string]any
}

// Status message keys.
const (
	StatusLoadFailed       = "status.failed_load"
	StatusLoaded           = "status.loaded"
	StatusSnapMode         = "status.snap_mode"
	StatusOpenFirst        = "status.open_first"
	StatusLineExists       = "status.line_exists"
	StatusLineExistsOther  = "status.line_exists_other"
	StatusInvalidPosition  = "status.invalid_position"
	StatusImageClosed      = "status.image_closed"
	StatusExportOK         = "status.export_ok"
	StatusExportWithErrors = "status.export_errors"
)
