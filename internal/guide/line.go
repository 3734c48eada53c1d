// Package guide defines the guide-line value type and the export result
// shared by the controller, the command history and the exporter.
package guide

import (
	"slices"

	"github.com/google/uuid"
)

// DuplicateTolerance is the minimum distance, in image pixels, between two
// lines of the same guide set.
const DuplicateTolerance = 0.1

// Kind is the orientation of a guide line.
type Kind string

// Horizontal is the only orientation currently produced.
const Horizontal Kind = "horizontal"

// Line is a horizontal cut position in image pixel space.
// Lines are values: mutations return a copy carrying the same ID.
type Line struct {
	ID     string  `json:"id"`
	Y      float64 `json:"y"`
	Locked bool    `json:"locked"`
	Kind   Kind    `json:"kind"`
}

// NewLine creates an unlocked horizontal line with a fresh ID.
func NewLine(y float64) Line {
	return Line{ID: NewID(), Y: y, Kind: Horizontal}
}

// NewID returns a new opaque line identifier.
func NewID() string {
	return uuid.NewString()
}

// WithY returns a copy of the line moved to y.
func (l Line) WithY(y float64) Line {
	l.Y = y
	return l
}

// WithLocked returns a copy of the line with the lock flag set.
func (l Line) WithLocked(locked bool) Line {
	l.Locked = locked
	return l
}

// Near reports whether y lies within DuplicateTolerance of the line.
func (l Line) Near(y float64) bool {
	d := l.Y - y
	if d < 0 {
		d = -d
	}
	return d < DuplicateTolerance
}

// SortByY returns a copy of lines stably sorted by ascending Y.
func SortByY(lines []Line) []Line {
	out := slices.Clone(lines)
	slices.SortStableFunc(out, func(a, b Line) int {
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Ys returns the Y coordinate of every line, in the given order.
func Ys(lines []Line) []float64 {
	ys := make([]float64, len(lines))
	for i, l := range lines {
		ys[i] = l.Y
	}
	return ys
}
