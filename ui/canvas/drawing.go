package canvas

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"image-splitter/internal/guide"
	"image-splitter/pkg/colorutil"

	"fyne.io/fyne/v2"
	xdraw "golang.org/x/image/draw"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

var symbolPatterns = map[rune][5]uint8{
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	return symbolPatterns[ch]
}

// Guide styles.
var (
	guideColor    = colorutil.Cyan
	lockedColor   = colorutil.Orange
	selectedColor = colorutil.Yellow
	previewColor  = colorutil.Green
	gridColor     = colorutil.WithAlpha(colorutil.White, 56)
)

// minGridSpacing is the closest grid rows are drawn, in device pixels.
const minGridSpacing = 4

// draw is the raster drawing function.
func (gc *GuideCanvas) draw(w, h int) image.Image {
	// Check for size change and auto-fit if enabled
	currentSize := fyne.NewSize(float32(w), float32(h))
	if gc.fitToWindow && currentSize != gc.lastScrollSize && w > 0 && h > 0 {
		gc.lastScrollSize = currentSize
		// Schedule fit after this draw completes
		go func() {
			gc.FitToWindow()
		}()
	}

	scale := gc.zoom
	if rw := gc.raster.Size().Width; rw > 0 {
		// device pixels per content unit
		scale *= float64(w) / float64(rw)
	}
	return gc.render(w, h, scale)
}

// render paints the image, grid and guides at scale device pixels per
// image pixel.
func (gc *GuideCanvas) render(w, h int, scale float64) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(output, output.Bounds(), image.NewUniform(colorutil.Backdrop), image.Point{}, xdraw.Src)
	if gc.img == nil {
		return output
	}

	area := gc.drawImage(output, scale)
	if gc.showGrid {
		gc.drawGrid(output, area, scale)
	}
	gc.drawGuides(output, area, scale)
	return output
}

// drawImage scales the image into the top-left of output and returns the
// covered area.
func (gc *GuideCanvas) drawImage(output *image.RGBA, scale float64) image.Rectangle {
	src := gc.img.Bounds()
	dst := image.Rect(0, 0,
		int(math.Round(float64(src.Dx())*scale)),
		int(math.Round(float64(src.Dy())*scale)),
	)

	var interp xdraw.Interpolator = xdraw.ApproxBiLinear
	if scale >= 2 {
		interp = xdraw.NearestNeighbor // keep pixels crisp when zoomed in
	}
	interp.Scale(output, dst, gc.img, src, xdraw.Over, nil)
	return dst.Intersect(output.Bounds())
}

// drawGrid draws the snap grid in both directions.
func (gc *GuideCanvas) drawGrid(output *image.RGBA, area image.Rectangle, scale float64) {
	step := float64(gc.gridSize) * scale
	if step < minGridSpacing {
		return
	}
	src := gc.img.Bounds()
	for _, row := range gridRows(src.Dy(), gc.gridSize) {
		y := int(math.Round(float64(row) * scale))
		blendRow(output, y, area.Min.X, area.Max.X, gridColor)
	}
	for _, col := range gridRows(src.Dx(), gc.gridSize) {
		x := int(math.Round(float64(col) * scale))
		blendColumn(output, x, area.Min.Y, area.Max.Y, gridColor)
	}
}

// drawGuides draws every guide with its y label. The dragged guide is
// drawn at its preview position.
func (gc *GuideCanvas) drawGuides(output *image.RGBA, area image.Rectangle, scale float64) {
	for _, l := range gc.lines {
		y, col, thickness := gc.guideStyle(l)
		py := int(math.Round(y * scale))
		for t := -thickness / 2; t <= thickness/2; t++ {
			fillRow(output, py+t, area.Min.X, area.Max.X, col)
		}
		drawText(output, strconv.FormatFloat(y, 'f', -1, 64), area.Min.X+4, py-8, col, 1)
	}
}

func (gc *GuideCanvas) guideStyle(l guide.Line) (y float64, col color.RGBA, thickness int) {
	y, col, thickness = l.Y, guideColor, 1
	switch {
	case gc.drag.id == l.ID:
		return gc.drag.y, previewColor, 3
	case l.ID == gc.selectedID:
		col, thickness = selectedColor, 3
	case l.Locked:
		col = lockedColor
	}
	return y, col, thickness
}

// gridRows returns the grid positions strictly inside (0, extent).
func gridRows(extent, step int) []int {
	if step <= 0 {
		return nil
	}
	var rows []int
	for v := step; v < extent; v += step {
		rows = append(rows, v)
	}
	return rows
}

// hitTest returns the guide nearest to y within tolerance.
func hitTest(lines []guide.Line, y, tolerance float64) (guide.Line, bool) {
	var (
		best  guide.Line
		found bool
		dist  = math.Inf(1)
	)
	for _, l := range lines {
		d := math.Abs(l.Y - y)
		if d <= tolerance && d < dist {
			best, dist, found = l, d, true
		}
	}
	return best, found
}

func fillRow(output *image.RGBA, y, x0, x1 int, col color.RGBA) {
	if y < output.Rect.Min.Y || y >= output.Rect.Max.Y {
		return
	}
	for x := max(x0, output.Rect.Min.X); x < min(x1, output.Rect.Max.X); x++ {
		output.SetRGBA(x, y, col)
	}
}

func blendRow(output *image.RGBA, y, x0, x1 int, col color.RGBA) {
	if y < output.Rect.Min.Y || y >= output.Rect.Max.Y {
		return
	}
	for x := max(x0, output.Rect.Min.X); x < min(x1, output.Rect.Max.X); x++ {
		output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), col))
	}
}

func blendColumn(output *image.RGBA, x, y0, y1 int, col color.RGBA) {
	if x < output.Rect.Min.X || x >= output.Rect.Max.X {
		return
	}
	for y := max(y0, output.Rect.Min.Y); y < min(y1, output.Rect.Max.Y); y++ {
		output.SetRGBA(x, y, colorutil.Blend(output.RGBAAt(x, y), col))
	}
}

// drawText draws text with its top-left corner at (x, y).
func drawText(output *image.RGBA, text string, x, y int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	bounds := output.Bounds()
	charWidth := 3 * scale
	spacing := scale

	for i, ch := range []rune(text) {
		pattern := getCharPattern(ch)
		charX := x + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				// Draw a scaled pixel block
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := y + row*scale + dy
						if image.Pt(px, py).In(bounds) {
							output.SetRGBA(px, py, col)
						}
					}
				}
			}
		}
	}
}
