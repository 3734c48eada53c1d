package theme

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestColors(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	th := New()

	light := th.Color(theme.ColorNamePrimary, theme.VariantLight)
	dark := th.Color(theme.ColorNamePrimary, theme.VariantDark)
	assert.NotEqual(t, light, dark)
	assert.Equal(t, uint8(255), light.(color.RGBA).A)

	sel := th.Color(theme.ColorNameSelection, theme.VariantDark).(color.RGBA)
	assert.Equal(t, uint8(0x70), sel.A)

	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameForeground, theme.VariantDark),
		th.Color(theme.ColorNameForeground, theme.VariantDark))
}

func TestSizes(t *testing.T) {
	th := New()
	assert.Equal(t, float32(14), th.Size(theme.SizeNameScrollBar))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNamePadding), th.Size(theme.SizeNamePadding))
}
