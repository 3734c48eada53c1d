package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBand(t *testing.T) {
	b := Band(640, 30, 70)
	assert.Equal(t, RectInt{X: 0, Y: 30, Width: 640, Height: 40}, b)
	assert.False(t, b.Empty())
	assert.True(t, Band(640, 30, 30).Empty())

	r := b.ImageRect(image.Pt(5, 10))
	assert.Equal(t, image.Rect(5, 40, 645, 80), r)
}

func TestFit(t *testing.T) {
	tr := Fit(NewSize(200, 100), NewSize(400, 400))
	assert.Equal(t, 2.0, tr.A)
	assert.Equal(t, 2.0, tr.D)
	assert.Equal(t, 0.0, tr.TX)
	assert.Equal(t, 100.0, tr.TY)

	p := tr.Apply(NewPoint2D(100, 50))
	assert.Equal(t, NewPoint2D(200, 200), p)

	inv, ok := tr.Inverse()
	require.True(t, ok)
	assert.InDelta(t, 50.0, inv.Apply(p).Y, 1e-9)
}

func TestFit_EmptyIsIdentity(t *testing.T) {
	assert.Equal(t, Identity(), Fit(Size{}, NewSize(10, 10)))
	assert.Equal(t, Identity(), Fit(NewSize(10, 10), Size{}))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 5}
	assert.True(t, r.Contains(NewPoint2D(15, 12)))
	assert.False(t, r.Contains(NewPoint2D(15, 16)))
}
