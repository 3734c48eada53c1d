package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"image-splitter/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(y), G: uint8(x), B: 7, A: 255})
		}
	}
	path := filepath.Join(dir, "source.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoad_PNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), 16, 40)

	layer, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 16, layer.Width())
	assert.Equal(t, 40, layer.Height())
	assert.Equal(t, "png", layer.Format)
	assert.Equal(t, ".png", layer.Suffix())
	assert.Equal(t, "source.png", layer.Name())
}

func TestLoad_BMP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 9))))
	require.NoError(t, f.Close())

	layer, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, layer.Height())
	assert.Equal(t, "bmp", layer.Format)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image: open file")
}

func TestLoad_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image: decode junk.png")
}

func TestNilLayer(t *testing.T) {
	var l *Layer
	assert.Equal(t, 0, l.Width())
	assert.Equal(t, 0, l.Height())
	assert.Equal(t, "", l.Suffix())
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("/tmp/a.PNG"))
	assert.True(t, IsSupportedFormat("scan.tiff"))
	assert.True(t, IsSupportedFormat("photo.webp"))
	assert.False(t, IsSupportedFormat("notes.txt"))
	assert.Contains(t, FileFilter(), "*.jpeg")
}

func TestCrop(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 20))
	src.Set(3, 12, color.NRGBA{R: 200, A: 255})

	band := Crop(src, geometry.Band(8, 10, 15))
	assert.Equal(t, 8, band.Bounds().Dx())
	assert.Equal(t, 5, band.Bounds().Dy())

	rgba := toRGBA(band)
	assert.Equal(t, uint8(200), rgba.RGBAAt(3, 2).R)
}

// plainImage hides SubImage so Crop takes the copying path.
type plainImage struct{ image.Image }

func TestCrop_WithoutSubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 10))
	src.Set(1, 6, color.NRGBA{G: 99, A: 255})

	band := Crop(plainImage{src}, geometry.Band(4, 5, 10))
	require.Equal(t, image.Rect(0, 0, 4, 5), band.Bounds())
	_, g, _, _ := band.At(1, 1).RGBA()
	assert.Equal(t, uint32(99), g>>8)
}
