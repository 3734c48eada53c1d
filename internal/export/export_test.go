package export

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"image-splitter/internal/guide"
	pkgimage "image-splitter/internal/image"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripes returns a w x h image whose red channel encodes the row index.
func stripes(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(y), A: 255})
		}
	}
	return img
}

func lines(ys ...float64) []guide.Line {
	out := make([]guide.Line, len(ys))
	for i, y := range ys {
		out[i] = guide.NewLine(y)
	}
	return out
}

func TestExport_WritesOrderedSegments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	img := stripes(12, 100)

	res := Export(img, lines(70, 30), Options{OutputDir: dir, Format: guide.FormatPNG})

	require.True(t, res.Success(), res.Errors)
	require.Equal(t, []string{
		filepath.Join(dir, "001.png"),
		filepath.Join(dir, "002.png"),
		filepath.Join(dir, "003.png"),
	}, res.Written)
	assert.Empty(t, res.Skipped)

	wantRows := []struct{ start, height int }{{0, 30}, {30, 40}, {70, 30}}
	for i, path := range res.Written {
		layer, err := pkgimage.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 12, layer.Width())
		assert.Equal(t, wantRows[i].height, layer.Height())
		r, _, _, _ := layer.Image.At(0, 0).RGBA()
		assert.Equal(t, uint32(wantRows[i].start), r>>8, "first row of %s", path)
	}
}

func TestExport_EdgeLineSkipped(t *testing.T) {
	dir := t.TempDir()
	res := Export(stripes(4, 100), lines(0, 50), Options{OutputDir: dir, Format: guide.FormatPNG})

	require.True(t, res.Success())
	assert.Len(t, res.Written, 2)
	assert.Equal(t, []string{"0-0"}, res.Skipped)
}

func TestExport_JPEG(t *testing.T) {
	dir := t.TempDir()
	res := Export(stripes(8, 20), lines(10), Options{OutputDir: dir, Format: guide.FormatJPEG, JPEGQuality: 80})

	require.True(t, res.Success())
	assert.Equal(t, filepath.Join(dir, "001.jpg"), res.Written[0])

	layer, err := pkgimage.Load(res.Written[1])
	require.NoError(t, err)
	assert.Equal(t, "jpeg", layer.Format)
}

func TestExport_KeepReusesExtension(t *testing.T) {
	dir := t.TempDir()
	res := Export(stripes(8, 20), lines(5), Options{OutputDir: dir, Format: guide.FormatKeep, OriginalSuffix: ".BMP"})

	require.True(t, res.Success())
	assert.Equal(t, filepath.Join(dir, "001.bmp"), res.Written[0])

	layer, err := pkgimage.Load(res.Written[0])
	require.NoError(t, err)
	assert.Equal(t, "bmp", layer.Format)
	assert.Equal(t, 5, layer.Height())
}

func TestExport_KeepUnknownSuffixWritesPNG(t *testing.T) {
	dir := t.TempDir()
	res := Export(stripes(8, 20), lines(5), Options{OutputDir: dir, Format: guide.FormatKeep, OriginalSuffix: ".dat"})

	require.True(t, res.Success(), res.Errors)
	assert.Equal(t, []string{filepath.Join(dir, "001.dat"), filepath.Join(dir, "002.dat")}, res.Written)

	layer, err := pkgimage.Load(res.Written[1])
	require.NoError(t, err)
	assert.Equal(t, "png", layer.Format)
	assert.Equal(t, 15, layer.Height())
}

func TestExport_DirectoryFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	res := Export(stripes(4, 10), lines(5), Options{OutputDir: filepath.Join(blocker, "sub"), Format: guide.FormatPNG})

	assert.False(t, res.Success())
	assert.Len(t, res.Errors, 1)
	assert.Empty(t, res.Written)
	assert.Empty(t, res.Skipped)
}

func TestExport_SegmentFailureContinues(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the first file name makes that write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "001.png"), 0o755))

	res := Export(stripes(4, 30), lines(10, 20), Options{OutputDir: dir, Format: guide.FormatPNG})

	assert.False(t, res.Success())
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "001.png")
	assert.Equal(t, []string{filepath.Join(dir, "002.png"), filepath.Join(dir, "003.png")}, res.Written)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		format  guide.ExportFormat
		suffix  string
		wantExt string
		wantEnc string
	}{
		{guide.FormatPNG, ".jpg", "png", "PNG"},
		{guide.FormatJPEG, ".png", "jpg", "JPEG"},
		{guide.FormatKeep, ".JPEG", "jpeg", "JPEG"},
		{guide.FormatKeep, ".jpg", "jpg", "JPEG"},
		{guide.FormatKeep, "png", "png", "PNG"},
		{guide.FormatKeep, "", "png", "PNG"},
		{guide.FormatKeep, ".tif", "tif", "TIFF"},
		{guide.FormatKeep, ".webp", "webp", "OpenCV"},
		{guide.FormatKeep, ".PPM", "ppm", "OpenCV"},
		{guide.FormatKeep, ".dat", "dat", "PNG"},
		{guide.FormatKeep, ".exr", "exr", "PNG"},
	}
	for _, tt := range tests {
		ext, enc := Resolve(tt.format, tt.suffix)
		assert.Equal(t, tt.wantExt, ext, "%s %q", tt.format, tt.suffix)
		assert.Equal(t, tt.wantEnc, enc.Name(), "%s %q", tt.format, tt.suffix)
	}
}
