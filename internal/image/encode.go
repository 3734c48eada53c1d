package image

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder writes an image to a file.
type Encoder interface {
	Name() string
	WriteFile(path string, img image.Image, quality int) error
}

type streamEncoder struct {
	name   string
	encode func(w io.Writer, img image.Image, quality int) error
}

func (e streamEncoder) Name() string { return e.name }

func (e streamEncoder) WriteFile(path string, img image.Image, quality int) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := e.encode(f, img, quality); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("image: encode %s: %w", e.name, err)
	}

	return f.Close()
}

// ClampQuality bounds a JPEG quality to 1..100.
func ClampQuality(quality int) int {
	if quality < 1 {
		return 1
	}
	if quality > 100 {
		return 100
	}
	return quality
}

var (
	// PNG encodes with the standard PNG encoder; quality is ignored.
	PNG Encoder = streamEncoder{name: "PNG", encode: func(w io.Writer, img image.Image, _ int) error {
		return png.Encode(w, img)
	}}

	// JPEG encodes with the given quality, clamped to 1..100.
	JPEG Encoder = streamEncoder{name: "JPEG", encode: func(w io.Writer, img image.Image, quality int) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: ClampQuality(quality)})
	}}

	// GIF encodes with the standard palette quantizer.
	GIF Encoder = streamEncoder{name: "GIF", encode: func(w io.Writer, img image.Image, _ int) error {
		return gif.Encode(w, img, nil)
	}}

	// BMP encodes uncompressed bitmaps.
	BMP Encoder = streamEncoder{name: "BMP", encode: func(w io.Writer, img image.Image, _ int) error {
		return bmp.Encode(w, img)
	}}

	// TIFF encodes deflate-compressed TIFF.
	TIFF Encoder = streamEncoder{name: "TIFF", encode: func(w io.Writer, img image.Image, _ int) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}}
)

// EncoderFor returns the native encoder for an extension, with or without
// the leading dot. ok is false when no native encoder exists.
func EncoderFor(ext string) (enc Encoder, ok bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return PNG, true
	case "jpg", "jpeg":
		return JPEG, true
	case "gif":
		return GIF, true
	case "bmp":
		return BMP, true
	case "tif", "tiff":
		return TIFF, true
	}
	return nil, false
}
