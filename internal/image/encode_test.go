package image

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderFor(t *testing.T) {
	tests := []struct {
		ext  string
		want string
		ok   bool
	}{
		{"png", "PNG", true},
		{".PNG", "PNG", true},
		{"jpg", "JPEG", true},
		{"jpeg", "JPEG", true},
		{"gif", "GIF", true},
		{"bmp", "BMP", true},
		{"tif", "TIFF", true},
		{".tiff", "TIFF", true},
		{"webp", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		enc, ok := EncoderFor(tt.ext)
		assert.Equal(t, tt.ok, ok, tt.ext)
		if ok {
			assert.Equal(t, tt.want, enc.Name(), tt.ext)
		}
	}
}

func TestOpenCVWrites(t *testing.T) {
	for _, ext := range []string{"webp", ".jp2", "PPM", ".pgm", "hdr"} {
		assert.True(t, OpenCVWrites(ext), ext)
	}
	for _, ext := range []string{"dat", ".exr", "", "png", "heic"} {
		assert.False(t, OpenCVWrites(ext), ext)
	}
}

func TestClampQuality(t *testing.T) {
	assert.Equal(t, 1, ClampQuality(-3))
	assert.Equal(t, 1, ClampQuality(0))
	assert.Equal(t, 55, ClampQuality(55))
	assert.Equal(t, 100, ClampQuality(250))
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 6, 3))

	for _, ext := range []string{"png", "jpg", "gif", "bmp", "tiff"} {
		enc, ok := EncoderFor(ext)
		require.True(t, ok)

		path := filepath.Join(dir, "out."+ext)
		require.NoError(t, enc.WriteFile(path, img, 90), ext)

		layer, err := Load(path)
		require.NoError(t, err, ext)
		assert.Equal(t, 6, layer.Width(), ext)
		assert.Equal(t, 3, layer.Height(), ext)
	}
}

func TestWriteFile_JPEGQuality(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 31)
	}

	low := filepath.Join(dir, "low.jpg")
	high := filepath.Join(dir, "high.jpg")
	require.NoError(t, JPEG.WriteFile(low, img, 5))
	require.NoError(t, JPEG.WriteFile(high, img, 100))

	lowInfo, err := os.Stat(low)
	require.NoError(t, err)
	highInfo, err := os.Stat(high)
	require.NoError(t, err)
	assert.Less(t, lowInfo.Size(), highInfo.Size())

	f, err := os.Open(high)
	require.NoError(t, err)
	defer f.Close()
	_, err = jpeg.Decode(f)
	require.NoError(t, err)
}

func TestWriteFile_CreateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	err := PNG.WriteFile(path, image.NewRGBA(image.Rect(0, 0, 1, 1)), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image: create file")
}
