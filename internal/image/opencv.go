package image

import (
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"
)

// openCVExts are the extensions handed to OpenCV. cv::imwrite throws, and
// takes the process down through cgo, for an extension it has no writer for,
// so only codecs OpenCV builds by default are listed. EXR is left out: its
// writer is disabled at runtime unless OPENCV_IO_ENABLE_OPENEXR is set.
var openCVExts = map[string]bool{
	"webp": true,
	"jp2":  true,
	"ppm":  true,
	"pgm":  true,
	"pbm":  true,
	"pnm":  true,
	"sr":   true,
	"ras":  true,
	"hdr":  true,
	"pic":  true,
}

// OpenCVWrites reports whether ext, with or without the dot, is written
// through OpenCV.
func OpenCVWrites(ext string) bool {
	return openCVExts[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// openCVEncoder lets OpenCV pick the codec from the file extension. When
// imwrite reports failure it falls back to PNG bytes under the same name.
type openCVEncoder struct {
	fallback Encoder
}

// OpenCV returns the encoder for the extensions accepted by OpenCVWrites.
func OpenCV() Encoder {
	return openCVEncoder{fallback: PNG}
}

func (e openCVEncoder) Name() string { return "OpenCV" }

func (e openCVEncoder) WriteFile(path string, img image.Image, quality int) error {
	if err := writeOpenCV(path, img); err == nil {
		return nil
	}
	return e.fallback.WriteFile(path, img, quality)
}

func writeOpenCV(path string, img image.Image) error {
	rgba := toRGBA(img)
	b := rgba.Bounds()

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return fmt.Errorf("image: opencv mat: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)

	if !gocv.IMWrite(path, bgr) {
		return fmt.Errorf("image: opencv cannot write %s: %w", path, ErrUnsupportedFormat)
	}
	return nil
}
