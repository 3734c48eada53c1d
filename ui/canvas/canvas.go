// Package canvas provides the guide canvas: an image view with pan, zoom
// and horizontal guide lines that can be added, dragged and removed.
package canvas

import (
	"image"

	"image-splitter/internal/guide"
	"image-splitter/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.05
	maxZoom  = 16.0
	zoomStep = 1.25

	// pickRadius is the guide hit distance in screen units.
	pickRadius = 6.0
)

// GuideCanvas displays an image with its guide lines.
type GuideCanvas struct {
	widget.BaseWidget

	img        image.Image
	lines      []guide.Line
	selectedID string
	showGrid   bool
	gridSize   int

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Line being dragged, if any
	drag dragState

	// Container
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	normalize func(y float64) float64

	// Callbacks
	onAddLine    func(y float64)
	onSelect     func(id string)
	onDelete     func(id string)
	onMove       func(id string, y float64)
	onHover      func(x, y float64, inside bool)
	onZoomChange func(zoom float64)
}

type dragState struct {
	started bool
	id      string
	y       float64 // preview position in image coordinates
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *GuideCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *GuideCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	zs.canvas.zoomByWheel(ev)
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *GuideCanvas
	raster *fynecanvas.Raster
}

var (
	_ fyne.Tappable          = (*draggableContent)(nil)
	_ fyne.SecondaryTappable = (*draggableContent)(nil)
	_ fyne.Draggable         = (*draggableContent)(nil)
	_ desktop.Hoverable      = (*draggableContent)(nil)
)

func newDraggableContent(gc *GuideCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{
		canvas: gc,
		raster: raster,
	}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// Tapped selects the guide under the pointer, or adds one there.
func (dc *draggableContent) Tapped(ev *fyne.PointEvent) {
	gc := dc.canvas
	_, y, inside := gc.toImage(ev.Position)
	if !inside {
		return
	}
	if l, ok := gc.lineAt(y); ok {
		if gc.onSelect != nil {
			gc.onSelect(l.ID)
		}
		return
	}
	if gc.onAddLine != nil {
		gc.onAddLine(y)
	}
}

// TappedSecondary deletes the unlocked guide under the pointer.
func (dc *draggableContent) TappedSecondary(ev *fyne.PointEvent) {
	gc := dc.canvas
	_, y, inside := gc.toImage(ev.Position)
	if !inside {
		return
	}
	l, ok := gc.lineAt(y)
	if !ok || l.Locked {
		return
	}
	if gc.onDelete != nil {
		gc.onDelete(l.ID)
	}
}

// Dragged moves an unlocked guide, previewing the snapped position.
func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	gc := dc.canvas
	if !gc.drag.started {
		gc.drag.started = true
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		if _, y, inside := gc.toImage(start); inside {
			if l, ok := gc.lineAt(y); ok && !l.Locked {
				gc.drag.id = l.ID
				gc.drag.y = l.Y
				if gc.onSelect != nil {
					gc.onSelect(l.ID)
				}
			}
		}
	}
	dc.MouseMoved(&desktop.MouseEvent{PointEvent: ev.PointEvent})
	if gc.drag.id == "" {
		return
	}

	_, y, _ := gc.toImage(ev.Position)
	gc.drag.y = gc.normalizeY(y)
	gc.Refresh()
}

func (dc *draggableContent) DragEnd() {
	gc := dc.canvas
	id, y := gc.drag.id, gc.drag.y
	gc.drag = dragState{}
	if id != "" && gc.onMove != nil {
		gc.onMove(id, y)
	}
	gc.Refresh()
}

func (dc *draggableContent) MouseIn(ev *desktop.MouseEvent) {
	dc.MouseMoved(ev)
}

func (dc *draggableContent) MouseMoved(ev *desktop.MouseEvent) {
	gc := dc.canvas
	if gc.onHover == nil {
		return
	}
	x, y, inside := gc.toImage(ev.Position)
	gc.onHover(x, y, inside)
}

func (dc *draggableContent) MouseOut() {
	if dc.canvas.onHover != nil {
		dc.canvas.onHover(0, 0, false)
	}
}

func (dc *draggableContent) Scrolled(ev *fyne.ScrollEvent) {
	dc.canvas.zoomByWheel(ev)
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// NewGuideCanvas creates an empty guide canvas.
func NewGuideCanvas() *GuideCanvas {
	gc := &GuideCanvas{
		zoom:     1.0,
		gridSize: 10,
		imgSize:  fyne.NewSize(400, 300),
	}

	gc.raster = fynecanvas.NewRaster(gc.draw)
	gc.raster.ScaleMode = fynecanvas.ImageScalePixels
	gc.raster.SetMinSize(gc.imgSize)

	gc.content = newDraggableContent(gc, gc.raster)
	gc.scroll = newZoomScroll(gc.content, gc)

	gc.ExtendBaseWidget(gc)
	return gc
}

// Container returns the canvas container for embedding in layouts.
func (gc *GuideCanvas) Container() fyne.CanvasObject {
	return gc.scroll
}

// SetImage sets the displayed image and fits it to the window. nil clears
// the canvas.
func (gc *GuideCanvas) SetImage(img image.Image) {
	gc.img = img
	gc.drag = dragState{}
	if img == nil {
		gc.lines = nil
		gc.selectedID = ""
	}
	gc.updateContentSize()
	if img != nil {
		gc.SetFitToWindow(true)
	}
}

// SetLines replaces the displayed guides.
func (gc *GuideCanvas) SetLines(lines []guide.Line) {
	gc.lines = guide.SortByY(lines)
	gc.Refresh()
}

// SetSelected highlights the guide with the given id; "" clears it.
func (gc *GuideCanvas) SetSelected(id string) {
	gc.selectedID = id
	gc.Refresh()
}

// SetGrid shows or hides the snap grid overlay.
func (gc *GuideCanvas) SetGrid(show bool, size int) {
	gc.showGrid = show
	gc.gridSize = max(1, size)
	gc.Refresh()
}

// SetNormalizer sets the function used to snap drag previews. Without one
// previews are only clamped to the image.
func (gc *GuideCanvas) SetNormalizer(fn func(y float64) float64) {
	gc.normalize = fn
}

// SetZoom sets the zoom level.
func (gc *GuideCanvas) SetZoom(zoom float64) {
	gc.zoom = geometry.Clamp(zoom, minZoom, maxZoom)
	gc.updateContentSize()

	if gc.onZoomChange != nil {
		gc.onZoomChange(gc.zoom)
	}
}

// GetZoom returns the current zoom level.
func (gc *GuideCanvas) GetZoom() float64 {
	return gc.zoom
}

// ZoomIn increases the zoom level.
func (gc *GuideCanvas) ZoomIn() {
	gc.fitToWindow = false
	gc.SetZoom(gc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (gc *GuideCanvas) ZoomOut() {
	gc.fitToWindow = false
	gc.SetZoom(gc.zoom / zoomStep)
}

func (gc *GuideCanvas) zoomByWheel(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		gc.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		gc.ZoomOut()
	}
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (gc *GuideCanvas) FitToWindow() {
	if gc.img == nil {
		return
	}
	viewSize := gc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}
	b := gc.img.Bounds()
	fit := geometry.Fit(
		geometry.NewSize(float64(b.Dx()), float64(b.Dy())),
		geometry.NewSize(float64(viewSize.Width), float64(viewSize.Height)),
	)
	if fit.A <= 0 {
		return
	}
	gc.SetZoom(fit.A * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (gc *GuideCanvas) SetFitToWindow(fit bool) {
	gc.fitToWindow = fit
	if fit {
		gc.FitToWindow()
	}
}

// GetFitToWindow returns the current fit-to-window state.
func (gc *GuideCanvas) GetFitToWindow() bool {
	return gc.fitToWindow
}

// CheckResize checks if scroll container was resized and auto-fits if enabled.
func (gc *GuideCanvas) CheckResize(size fyne.Size) {
	if !gc.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != gc.lastScrollSize {
		gc.lastScrollSize = size
		gc.FitToWindow()
	}
}

// OnAddLine sets the callback for a tap on empty image area.
func (gc *GuideCanvas) OnAddLine(callback func(y float64)) {
	gc.onAddLine = callback
}

// OnSelect sets the callback for a tap or drag start on a guide.
func (gc *GuideCanvas) OnSelect(callback func(id string)) {
	gc.onSelect = callback
}

// OnDelete sets the callback for a secondary tap on an unlocked guide.
func (gc *GuideCanvas) OnDelete(callback func(id string)) {
	gc.onDelete = callback
}

// OnMove sets the callback for a finished drag. y is the previewed,
// already normalized position.
func (gc *GuideCanvas) OnMove(callback func(id string, y float64)) {
	gc.onMove = callback
}

// OnHover sets the callback for pointer motion. Coordinates are in image
// space; inside is false when the pointer is off the image.
func (gc *GuideCanvas) OnHover(callback func(x, y float64, inside bool)) {
	gc.onHover = callback
}

// OnZoomChange sets a callback for zoom changes.
func (gc *GuideCanvas) OnZoomChange(callback func(zoom float64)) {
	gc.onZoomChange = callback
}

// Refresh refreshes the canvas display.
func (gc *GuideCanvas) Refresh() {
	gc.raster.Refresh()
}

// view maps image coordinates to content coordinates.
func (gc *GuideCanvas) view() geometry.AffineTransform {
	return geometry.AffineTransform{A: gc.zoom, D: gc.zoom}
}

// toImage converts a content position to image coordinates.
func (gc *GuideCanvas) toImage(pos fyne.Position) (x, y float64, inside bool) {
	inv, ok := gc.view().Inverse()
	if !ok {
		return 0, 0, false
	}
	p := inv.Apply(geometry.NewPoint2D(float64(pos.X), float64(pos.Y)))
	if gc.img == nil {
		return p.X, p.Y, false
	}
	b := gc.img.Bounds()
	bounds := geometry.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}
	return p.X, p.Y, bounds.Contains(p)
}

func (gc *GuideCanvas) lineAt(y float64) (guide.Line, bool) {
	return hitTest(gc.lines, y, pickRadius/gc.zoom)
}

func (gc *GuideCanvas) normalizeY(y float64) float64 {
	if gc.normalize != nil {
		return gc.normalize(y)
	}
	if gc.img == nil {
		return y
	}
	return geometry.Clamp(y, 0, float64(gc.img.Bounds().Dy()))
}

// updateContentSize updates the content size based on image and zoom.
func (gc *GuideCanvas) updateContentSize() {
	if gc.img == nil {
		gc.imgSize = fyne.NewSize(400, 300)
	} else {
		b := gc.img.Bounds()
		gc.imgSize = fyne.NewSize(float32(float64(b.Dx())*gc.zoom), float32(float64(b.Dy())*gc.zoom))
	}

	gc.raster.SetMinSize(gc.imgSize)
	gc.raster.Resize(gc.imgSize)
	if gc.content != nil {
		gc.content.Resize(gc.imgSize)
		gc.content.Refresh()
	}
	gc.raster.Refresh()
	if gc.scroll != nil {
		gc.scroll.Refresh()
	}
}

// CreateRenderer implements fyne.Widget.
func (gc *GuideCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &guideCanvasRenderer{canvas: gc}
}

type guideCanvasRenderer struct {
	canvas *GuideCanvas
}

func (r *guideCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.CheckResize(size)
}

func (r *guideCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *guideCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *guideCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *guideCanvasRenderer) Destroy() {}
