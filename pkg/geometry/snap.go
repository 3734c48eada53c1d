package geometry

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// SnapMode is the policy applied to a raw coordinate before it is committed.
type SnapMode int

const (
	SnapOff SnapMode = iota
	SnapPixel
	SnapGrid
)

func (m SnapMode) String() string {
	switch m {
	case SnapOff:
		return "off"
	case SnapPixel:
		return "pixel"
	case SnapGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// ParseSnapMode parses "off", "pixel" or "grid" (case-insensitive).
func ParseSnapMode(s string) (SnapMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return SnapOff, true
	case "pixel":
		return SnapPixel, true
	case "grid":
		return SnapGrid, true
	}
	return SnapPixel, false
}

// SnapModes lists every mode in display order.
func SnapModes() []SnapMode {
	return []SnapMode{SnapOff, SnapPixel, SnapGrid}
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp bounds value to [lo, hi]. NaN is returned unchanged.
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// RoundHalfEven rounds to the nearest integer, resolving ties to the even
// neighbour: 2.5 -> 2, 3.5 -> 4, -0.5 -> -0.
func RoundHalfEven(v float64) float64 {
	return scalar.RoundEven(v, 0)
}

// Snap applies mode to y. PIXEL and GRID round half to even, so two values
// exactly 0.5px apart may land on the same row.
func Snap(y float64, mode SnapMode, gridSize int) float64 {
	switch mode {
	case SnapPixel:
		return RoundHalfEven(y)
	case SnapGrid:
		if gridSize <= 0 {
			return y
		}
		g := float64(gridSize)
		return RoundHalfEven(y/g) * g
	default:
		return y
	}
}
