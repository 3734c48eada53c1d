package app

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"image-splitter/internal/guide"
	"image-splitter/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	event EventType
	data  interface{}
}

// recorder captures every event a controller emits.
type recorder struct {
	events []recorded
}

func newRecorder(c *Controller) *recorder {
	r := &recorder{}
	for _, ev := range []EventType{
		EventImageChanged, EventImageCleared, EventLinesChanged, EventSelectionChanged,
		EventStatus, EventUndoStateChanged, EventExportFinished,
	} {
		ev := ev
		c.On(ev, func(data interface{}) {
			r.events = append(r.events, recorded{event: ev, data: data})
		})
	}
	return r
}

func (r *recorder) reset() { r.events = nil }

func (r *recorder) statuses() []string {
	var keys []string
	for _, e := range r.events {
		if s, ok := e.data.(Status); ok {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

func (r *recorder) last(ev EventType) (interface{}, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].event == ev {
			return r.events[i].data, true
		}
	}
	return nil, false
}

func writeImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		img.Set(0, y, color.NRGBA{R: uint8(y), A: 255})
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func loaded(t *testing.T, opts ...Option) (*Controller, *recorder) {
	t.Helper()
	c := NewController(opts...)
	require.True(t, c.LoadImage(writeImage(t, t.TempDir(), "page.png", 20, 100)))
	return c, newRecorder(c)
}

func ys(c *Controller) []float64 {
	return guide.Ys(c.SortedLines())
}

func TestLoadImage(t *testing.T) {
	c := NewController()
	r := newRecorder(c)
	path := writeImage(t, t.TempDir(), "page.png", 20, 100)

	require.True(t, c.LoadImage(path))

	assert.True(t, c.HasImage())
	w, h, ok := c.ImageSize()
	assert.True(t, ok)
	assert.Equal(t, 20, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, path, c.ImagePath())

	data, ok := r.last(EventImageChanged)
	require.True(t, ok)
	assert.Equal(t, path, data.(ImageChanged).Path)
	assert.Equal(t, []string{StatusLoaded}, r.statuses())

	undo, _ := r.last(EventUndoStateChanged)
	assert.Equal(t, UndoState{}, undo)
}

func TestLoadImage_FailureLeavesStateAlone(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(40)
	r.reset()

	assert.False(t, c.LoadImage(filepath.Join(t.TempDir(), "missing.png")))

	assert.Equal(t, []string{StatusLoadFailed}, r.statuses())
	assert.Len(t, r.events, 1)
	assert.True(t, c.HasImage())
	assert.Equal(t, []float64{40}, ys(c))
	assert.True(t, c.CanUndo())
}

func TestAddLine_WithoutImage(t *testing.T) {
	c := NewController()
	r := newRecorder(c)

	c.AddLine(10)

	assert.Empty(t, c.SortedLines())
	assert.Equal(t, []string{StatusOpenFirst}, r.statuses())
}

func TestAddLine_NormalizesAndSelects(t *testing.T) {
	c, r := loaded(t)

	c.AddLine(30.4)

	lines := c.SortedLines()
	require.Len(t, lines, 1)
	assert.Equal(t, 30.0, lines[0].Y)
	assert.Equal(t, guide.Horizontal, lines[0].Kind)
	assert.Equal(t, lines[0].ID, c.SelectedID())

	sel, _ := r.last(EventSelectionChanged)
	assert.Equal(t, lines[0].ID, sel)
	undo, _ := r.last(EventUndoStateChanged)
	assert.Equal(t, UndoState{CanUndo: true}, undo)
	published, _ := r.last(EventLinesChanged)
	assert.Equal(t, lines, published)
}

func TestAddLine_Clamps(t *testing.T) {
	c, _ := loaded(t)
	c.AddLine(-7)
	c.AddLine(512)
	assert.Equal(t, []float64{0, 100}, ys(c))
}

func TestAddLine_GridSnap(t *testing.T) {
	c, _ := loaded(t)
	c.SetSnapMode(geometry.SnapGrid)
	c.SetGridSize(0)
	assert.Equal(t, 1, c.GridSize())

	c.SetGridSize(25)
	c.AddLine(33)
	c.AddLine(62)
	assert.Equal(t, []float64{25, 50}, ys(c))
}

func TestAddLine_RejectsDuplicate(t *testing.T) {
	c, r := loaded(t)
	c.SetSnapMode(geometry.SnapOff)
	c.AddLine(30)
	r.reset()

	c.AddLine(30.05)

	assert.Equal(t, []float64{30}, ys(c))
	assert.Equal(t, []string{StatusLineExists}, r.statuses())
}

func TestAddLine_RejectsNonFinite(t *testing.T) {
	c, r := loaded(t)

	for _, y := range []float64{math.NaN(), math.NaN(), math.Inf(1), math.Inf(-1)} {
		c.AddLine(y)
	}

	assert.Empty(t, c.SortedLines())
	assert.False(t, c.CanUndo())
	assert.Equal(t, []string{
		StatusInvalidPosition, StatusInvalidPosition, StatusInvalidPosition, StatusInvalidPosition,
	}, r.statuses())

	res, ok := c.Export(t.TempDir(), guide.FormatPNG, 90)
	require.True(t, ok)
	assert.Len(t, res.Written, 1)
	assert.Empty(t, res.Skipped)
}

func TestMoveLine_RejectsNonFinite(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(30)
	id := c.SelectedID()
	r.reset()

	c.MoveLine(id, math.NaN())
	c.MoveLine(id, math.Inf(1))

	assert.Equal(t, []float64{30}, ys(c))
	assert.Equal(t, []string{StatusInvalidPosition, StatusInvalidPosition}, r.statuses())
	c.Undo()
	assert.Empty(t, c.SortedLines(), "only the add was recorded")
}

func TestSetSnapMode_EmitsStatus(t *testing.T) {
	c, r := loaded(t)
	c.SetSnapMode(geometry.SnapOff)

	data, _ := r.last(EventStatus)
	st := data.(Status)
	assert.Equal(t, StatusSnapMode, st.Key)
	assert.Equal(t, "off", st.Params["Mode"])
	assert.Equal(t, geometry.SnapOff, c.SnapMode())
}

func TestMoveLine(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(30)
	c.AddLine(60)
	id := c.SortedLines()[0].ID

	r.reset()
	c.MoveLine(id, 30.04)
	assert.Empty(t, r.events, "sub-tolerance move is a no-op")

	c.MoveLine(id, 60.2)
	assert.Equal(t, []string{StatusLineExistsOther}, r.statuses())
	assert.Equal(t, []float64{30, 60}, ys(c))

	c.MoveLine(id, 80)
	assert.Equal(t, []float64{60, 80}, ys(c))
	moved, _ := c.Line(id)
	assert.Equal(t, 80.0, moved.Y)

	c.Undo()
	assert.Equal(t, []float64{30, 60}, ys(c))

	r.reset()
	c.MoveLine("nope", 10)
	assert.Empty(t, r.events)
}

func TestSetLocked(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(30)
	id := c.SelectedID()

	r.reset()
	c.SetLocked(id, false)
	assert.Empty(t, r.events, "unchanged lock is a no-op")

	c.SetLocked(id, true)
	l, _ := c.Line(id)
	assert.True(t, l.Locked)
	assert.Equal(t, "Toggle lock", c.UndoLabel())

	c.Undo()
	l, _ = c.Line(id)
	assert.False(t, l.Locked)
	assert.Equal(t, "Toggle lock", c.RedoLabel())
}

func TestLockedLineCanStillBeEditedProgrammatically(t *testing.T) {
	c, _ := loaded(t)
	c.AddLine(30)
	id := c.SelectedID()
	c.SetLocked(id, true)

	c.MoveLine(id, 40)
	assert.Equal(t, []float64{40}, ys(c))

	c.DeleteLine(id)
	assert.Empty(t, c.SortedLines())
}

func TestDeleteLine_Selected(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(30)
	c.AddLine(60)
	selected := c.SelectedID()

	r.reset()
	c.DeleteLine("")

	assert.Equal(t, []float64{30}, ys(c))
	assert.Equal(t, "", c.SelectedID())
	sel, ok := r.last(EventSelectionChanged)
	require.True(t, ok)
	assert.Equal(t, "", sel)

	c.Undo()
	assert.Equal(t, []float64{30, 60}, ys(c))
	_, ok = c.Line(selected)
	assert.True(t, ok, "undo restores the same id")
}

func TestDeleteLine_ByIDKeepsOtherSelection(t *testing.T) {
	c, _ := loaded(t)
	c.AddLine(30)
	first := c.SelectedID()
	c.AddLine(60)
	second := c.SelectedID()

	c.DeleteLine(first)
	assert.Equal(t, second, c.SelectedID())
}

func TestDeleteLine_NoTargetIsSilent(t *testing.T) {
	c, r := loaded(t)
	r.reset()

	c.DeleteLine("")
	c.DeleteLine("unknown")

	assert.Empty(t, r.events)
	assert.False(t, c.CanUndo())
}

func TestClearLines(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(10)
	c.AddLine(20)
	c.AddLine(30)
	before := c.SortedLines()

	c.ClearLines()
	assert.Empty(t, c.SortedLines())
	assert.Equal(t, "", c.SelectedID())

	c.Undo()
	assert.Equal(t, before, c.SortedLines())

	c.Redo()
	assert.Empty(t, c.SortedLines())

	r.reset()
	c.ClearLines()
	assert.Empty(t, r.events, "clearing an empty set is a no-op")
}

func TestSelectLine(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(30)
	id := c.SelectedID()

	r.reset()
	c.SelectLine("unknown")
	assert.Empty(t, r.events)
	assert.Equal(t, id, c.SelectedID())

	c.SelectLine("")
	assert.Equal(t, "", c.SelectedID())

	c.SelectLine(id)
	assert.Equal(t, id, c.SelectedID())
}

func TestPushAfterUndoDiscardsRedo(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(10)
	c.AddLine(20)
	c.Undo()
	assert.True(t, c.CanRedo())

	c.AddLine(50)

	assert.False(t, c.CanRedo())
	undo, _ := r.last(EventUndoStateChanged)
	assert.Equal(t, UndoState{CanUndo: true, CanRedo: false}, undo)

	c.Redo()
	assert.Equal(t, []float64{10, 50}, ys(c))
}

func TestCloseThenLoadResets(t *testing.T) {
	c, r := loaded(t)
	c.AddLine(10)
	c.AddLine(20)
	c.Undo()

	c.CloseImage()
	assert.False(t, c.HasImage())
	_, ok := r.last(EventImageCleared)
	assert.True(t, ok)
	assert.Contains(t, r.statuses(), StatusImageClosed)

	require.True(t, c.LoadImage(writeImage(t, t.TempDir(), "next.png", 10, 50)))
	assert.Empty(t, c.SortedLines())
	assert.Equal(t, "", c.SelectedID())
	assert.False(t, c.CanUndo())
	assert.False(t, c.CanRedo())
}

func TestCloseImage_WithoutImage(t *testing.T) {
	c := NewController()
	r := newRecorder(c)
	c.CloseImage()
	assert.Empty(t, r.events)
}

func TestNormalizeY(t *testing.T) {
	c := NewController()
	assert.Equal(t, 12.7, c.NormalizeY(12.7), "no image: unchanged")

	c, _ = loaded(t)
	assert.Equal(t, 13.0, c.NormalizeY(12.7))
	assert.Equal(t, 100.0, c.NormalizeY(140))
}

// applyRandom runs n random mutations drawn from rng.
func applyRandom(c *Controller, rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		lines := c.SortedLines()
		pick := func() string {
			if len(lines) == 0 {
				return ""
			}
			return lines[rng.IntN(len(lines))].ID
		}
		switch rng.IntN(7) {
		case 0, 1:
			c.AddLine(rng.Float64() * 110)
		case 2:
			c.DeleteLine(pick())
		case 3:
			c.MoveLine(pick(), rng.Float64()*100)
		case 4:
			c.SetLocked(pick(), rng.IntN(2) == 0)
		case 5:
			if rng.IntN(4) == 0 {
				c.ClearLines()
			}
		case 6:
			c.SelectLine(pick())
		}
	}
}

func assertNoDuplicates(t *testing.T, c *Controller) {
	t.Helper()
	lines := c.SortedLines()
	for i := 1; i < len(lines); i++ {
		assert.GreaterOrEqual(t, lines[i].Y-lines[i-1].Y, guide.DuplicateTolerance,
			"lines %v and %v too close", lines[i-1], lines[i])
	}
}

func TestUndoIsTrueInverse(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		c, _ := loaded(t)
		c.SetSnapMode(geometry.SnapOff)
		rng := rand.New(rand.NewPCG(seed, 7))

		applyRandom(c, rng, 15)
		baseline := c.SortedLines()

		// every command publishes the line set exactly once when applied
		pushed := 0
		c.On(EventLinesChanged, func(interface{}) { pushed++ })
		applyRandom(c, rng, 40)
		assertNoDuplicates(t, c)

		n := pushed
		for i := 0; i < n; i++ {
			require.True(t, c.CanUndo())
			c.Undo()
		}
		assert.Equal(t, baseline, c.SortedLines(), "seed %d", seed)

		for c.CanRedo() {
			c.Redo()
			assertNoDuplicates(t, c)
		}
	}
}

func TestDuplicateInvariantUnderPixelSnap(t *testing.T) {
	c, _ := loaded(t)
	rng := rand.New(rand.NewPCG(42, 42))
	for i := 0; i < 10; i++ {
		applyRandom(c, rng, 25)
		assertNoDuplicates(t, c)
	}
	for c.CanUndo() {
		c.Undo()
		assertNoDuplicates(t, c)
	}
	assert.Empty(t, c.SortedLines())
}

func TestExport(t *testing.T) {
	ts := time.Date(2025, 3, 9, 8, 7, 6, 0, time.UTC)
	c, r := loaded(t,
		WithClock(func() time.Time { return ts }),
		WithRand(func(int) int { return 42 }),
	)
	c.AddLine(30)
	c.AddLine(70)
	out := t.TempDir()

	res, ok := c.Export(out, guide.FormatPNG, 90)
	require.True(t, ok)
	require.True(t, res.Success(), res.Errors)

	dir := filepath.Join(out, "2025-03-09_08-07-06_042")
	assert.Equal(t, []string{
		filepath.Join(dir, "001.png"),
		filepath.Join(dir, "002.png"),
		filepath.Join(dir, "003.png"),
	}, res.Written)

	finished, ok := r.last(EventExportFinished)
	require.True(t, ok)
	assert.Equal(t, res, finished)

	data, _ := r.last(EventStatus)
	st := data.(Status)
	assert.Equal(t, StatusExportOK, st.Key)
	assert.Equal(t, 3, st.Params["Count"])
}

func TestExport_KeepUnknownSuffix(t *testing.T) {
	c := NewController()
	src := writeImage(t, t.TempDir(), "scan.dat", 20, 100)
	require.True(t, c.LoadImage(src))
	c.AddLine(50)

	res, ok := c.Export(t.TempDir(), guide.FormatKeep, 90)
	require.True(t, ok)
	require.True(t, res.Success(), res.Errors)
	require.Len(t, res.Written, 2)
	for _, path := range res.Written {
		assert.Equal(t, ".dat", filepath.Ext(path))
		f, err := os.Open(path)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(f)
		require.NoError(t, f.Close())
		require.NoError(t, err, path)
		assert.Equal(t, 50, cfg.Height)
	}
}

func TestExport_Failure(t *testing.T) {
	c, r := loaded(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	res, ok := c.Export(blocker, guide.FormatPNG, 90)
	require.True(t, ok)
	assert.False(t, res.Success())

	data, _ := r.last(EventStatus)
	assert.Equal(t, StatusExportWithErrors, data.(Status).Key)
}

func TestExport_WithoutImage(t *testing.T) {
	c := NewController()
	r := newRecorder(c)

	_, ok := c.Export(t.TempDir(), guide.FormatPNG, 90)

	assert.False(t, ok)
	assert.Equal(t, []string{StatusOpenFirst}, r.statuses())
	_, finished := r.last(EventExportFinished)
	assert.False(t, finished)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "lines-changed", EventLinesChanged.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
