// Package theme provides the application's fyne theme.
package theme

import (
	"image/color"

	"image-splitter/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// SplitterTheme tints the default fyne theme with the guide palette, so the
// selection in the line list matches the selected guide on the canvas.
type SplitterTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*SplitterTheme)(nil)

// New returns the theme on top of fyne's default.
func New() *SplitterTheme {
	return &SplitterTheme{Theme: theme.DefaultTheme()}
}

func (t *SplitterTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return accent(variant)
	case theme.ColorNameFocus:
		return colorutil.WithAlpha(accent(variant), 0x66)
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Yellow, 0x70)
	case theme.ColorNameScrollBar:
		return colorutil.WithAlpha(colorutil.White, 0x90)
	}
	return t.Theme.Color(name, variant)
}

// accent is the guide cyan, darkened on light backgrounds for contrast.
func accent(variant fyne.ThemeVariant) color.RGBA {
	if variant == theme.VariantLight {
		return colorutil.Blend(colorutil.Cyan, colorutil.WithAlpha(colorutil.Black, 0x60))
	}
	return colorutil.Blend(colorutil.Backdrop, colorutil.WithAlpha(colorutil.Cyan, 0xD0))
}

func (t *SplitterTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	case theme.SizeNameScrollBarSmall:
		return 8
	}
	return t.Theme.Size(name)
}
