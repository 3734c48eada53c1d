package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"image-splitter/internal/guide"
	pkgimage "image-splitter/internal/image"
	"image-splitter/internal/logging"
	"image-splitter/pkg/geometry"
)

// Options configure one export run.
type Options struct {
	OutputDir      string
	Format         guide.ExportFormat
	JPEGQuality    int
	OriginalSuffix string // Source extension, with or without the dot
}

// Resolve returns the file extension and encoder for format. For FormatKeep
// the original suffix is reused verbatim (lowercased, "png" when empty).
// Suffixes without a native encoder go through OpenCV when it can write
// them; anything else is written as PNG under the original suffix.
func Resolve(format guide.ExportFormat, originalSuffix string) (string, pkgimage.Encoder) {
	switch format {
	case guide.FormatJPEG:
		return "jpg", pkgimage.JPEG
	case guide.FormatKeep:
		ext := strings.ToLower(strings.TrimPrefix(originalSuffix, "."))
		if ext == "" {
			return "png", pkgimage.PNG
		}
		if enc, ok := pkgimage.EncoderFor(ext); ok {
			return ext, enc
		}
		if pkgimage.OpenCVWrites(ext) {
			return ext, pkgimage.OpenCV()
		}
		return ext, pkgimage.PNG
	default:
		return "png", pkgimage.PNG
	}
}

// Export crops img into the bands induced by lines and writes them into
// opts.OutputDir as 001.<ext>, 002.<ext>, ... in ascending y order. It never
// fails as a whole: a directory that cannot be created yields a single error
// and no files, and each failed write is recorded while the rest continue.
func Export(img image.Image, lines []guide.Line, opts Options) guide.ExportResult {
	log := logging.Logger()
	var result guide.ExportResult

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		log.Error("Failed to create export directory", "dir", opts.OutputDir, "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("create directory %s: %v", opts.OutputDir, err))
		return result
	}

	bounds := img.Bounds()
	plan := NewPlan(bounds.Dy(), guide.Ys(guide.SortByY(lines)))
	ext, enc := Resolve(opts.Format, opts.OriginalSuffix)
	pad := PadWidth(len(plan.Valid))

	log.Info("Exporting segments",
		"dir", opts.OutputDir, "segments", len(plan.Valid), "encoder", enc.Name(), "ext", ext)

	for i, seg := range plan.Valid {
		path := filepath.Join(opts.OutputDir, FileName(i+1, pad, ext))
		band := pkgimage.Crop(img, geometry.Band(bounds.Dx(), seg.Start, seg.End))
		if err := enc.WriteFile(path, band, opts.JPEGQuality); err != nil {
			log.Warn("Failed to write segment", "path", path, "segment", seg.String(), "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("save %s: %v", path, err))
			continue
		}
		result.Written = append(result.Written, path)
	}

	for _, seg := range plan.Skipped {
		result.Skipped = append(result.Skipped, seg.String())
	}

	log.Info("Export finished", "summary", result.Summary())
	return result
}

// SubdirName returns the collision-avoiding directory name used for one
// export run, e.g. "2024-05-01_13-04-59_042". n is taken modulo 1000.
func SubdirName(t time.Time, n int) string {
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%s_%03d", t.Format("2006-01-02_15-04-05"), n%1000)
}
