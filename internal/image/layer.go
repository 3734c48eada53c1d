// Package image provides image loading, cropping and encoding for the splitter.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when no encoder matches an extension.
var ErrUnsupportedFormat = errors.New("image: unsupported format")

// Layer is a decoded source image together with the path it came from.
type Layer struct {
	Path   string      // Original file path
	Image  image.Image // Decoded pixels
	Format string      // Decoder name reported by image.Decode
}

// Load decodes the image at path.
func Load(path string) (*Layer, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("image: decode %s: %w", filepath.Base(path), err)
	}

	return &Layer{Path: path, Image: img, Format: format}, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Suffix returns the extension of the source path including the dot, or "".
func (l *Layer) Suffix() string {
	if l == nil {
		return ""
	}
	return filepath.Ext(l.Path)
}

// Name returns the base name of the source path.
func (l *Layer) Name() string {
	if l == nil {
		return ""
	}
	return filepath.Base(l.Path)
}

// SupportedFormats returns the list of extensions Load can decode.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns a file filter string for use in file dialogs.
func FileFilter() string {
	return "Image Files (*" + strings.Join(SupportedFormats(), ", *") + ")"
}
