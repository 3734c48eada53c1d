package guide

import (
	"fmt"
	"strings"
)

// ExportFormat selects the encoder used for exported segments.
type ExportFormat string

const (
	FormatPNG  ExportFormat = "png"
	FormatJPEG ExportFormat = "jpeg"
	// FormatKeep reuses the source file's extension and encoder.
	FormatKeep ExportFormat = "keep"
)

// ParseExportFormat parses "png", "jpeg"/"jpg" or "keep" (case-insensitive).
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, true
	case "jpeg", "jpg":
		return FormatJPEG, true
	case "keep":
		return FormatKeep, true
	}
	return FormatPNG, false
}

// ExportFormats lists every format in display order.
func ExportFormats() []ExportFormat {
	return []ExportFormat{FormatPNG, FormatJPEG, FormatKeep}
}

// ExportResult reports the outcome of one export run.
type ExportResult struct {
	// Written holds the path of every file written, in segment order.
	Written []string `json:"written"`
	// Skipped holds "start-end" descriptors of zero-height segments.
	Skipped []string `json:"skipped"`
	Errors  []string `json:"errors"`
}

// Success reports whether the run finished without errors.
func (r ExportResult) Success() bool {
	return len(r.Errors) == 0
}

// Summary returns a short human-readable account of the counts.
func (r ExportResult) Summary() string {
	var parts []string
	if len(r.Written) > 0 {
		parts = append(parts, fmt.Sprintf("saved %d slice(s)", len(r.Written)))
	}
	if len(r.Skipped) > 0 {
		parts = append(parts, fmt.Sprintf("skipped %d slice(s)", len(r.Skipped)))
	}
	if len(r.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("errors: %d", len(r.Errors)))
	}
	if len(parts) == 0 {
		return "no work done"
	}
	return strings.Join(parts, ", ")
}
