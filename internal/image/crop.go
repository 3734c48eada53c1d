package image

import (
	"image"

	"image-splitter/pkg/geometry"

	"golang.org/x/image/draw"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop returns the part of img covered by r, where r is relative to the
// image origin. The result shares pixels with img when the concrete type
// supports SubImage.
func Crop(img image.Image, r geometry.RectInt) image.Image {
	rect := r.ImageRect(img.Bounds().Min).Intersect(img.Bounds())
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// toRGBA copies img into a tightly packed RGBA buffer starting at (0,0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
