// Package export slices an image into horizontal bands along guide lines
// and writes each band to its own file.
package export

import (
	"fmt"
	"slices"
	"strconv"

	"image-splitter/pkg/geometry"
)

// Segment is a half-open pixel-row range [Start, End).
type Segment struct {
	Start int
	End   int
}

// Height returns End - Start.
func (s Segment) Height() int {
	return s.End - s.Start
}

// Valid reports whether the segment covers at least one row.
func (s Segment) Valid() bool {
	return s.Height() > 0
}

func (s Segment) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Plan is the partition of an image height induced by a set of guide lines.
type Plan struct {
	Height     int
	Boundaries []int
	Candidates []Segment
	Valid      []Segment
	Skipped    []Segment
}

// NewPlan computes boundaries and segments for an image of the given height.
// Each y is rounded half to even and clamped to [0, height]; lines that land
// on the same row collapse into one boundary. The edges 0 and height are
// always kept, so a line on an edge produces a skipped zero-height segment.
// NaN and infinite values are ignored.
func NewPlan(height int, ys []float64) Plan {
	if height < 0 {
		height = 0
	}

	rows := make([]int, 0, len(ys))
	for _, y := range ys {
		if !geometry.Finite(y) {
			continue
		}
		row := geometry.Clamp(geometry.RoundHalfEven(y), 0, float64(height))
		rows = append(rows, int(row))
	}
	slices.Sort(rows)
	rows = slices.Compact(rows)

	boundaries := make([]int, 0, len(rows)+2)
	boundaries = append(boundaries, 0)
	boundaries = append(boundaries, rows...)
	boundaries = append(boundaries, height)

	p := Plan{Height: height, Boundaries: boundaries}
	for i := 0; i+1 < len(boundaries); i++ {
		seg := Segment{Start: boundaries[i], End: boundaries[i+1]}
		p.Candidates = append(p.Candidates, seg)
		if seg.Valid() {
			p.Valid = append(p.Valid, seg)
		} else {
			p.Skipped = append(p.Skipped, seg)
		}
	}
	return p
}

// PadWidth returns the zero-padding width for n numbered files: at least 3,
// or the digit count of n when larger.
func PadWidth(n int) int {
	if n < 1 {
		n = 1
	}
	return max(3, len(strconv.Itoa(n)))
}

// FileName returns the name of the index-th (1-based) file.
func FileName(index, pad int, ext string) string {
	return fmt.Sprintf("%0*d.%s", pad, index, ext)
}
