package canvas_test

import (
	"math/rand"
	"testing"

	"wallboard/internal/canvas"

	"github.com/stretchr/testify/assert"
)

func TestRatioPixelRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sizes := []canvas.Size{
		{Width: 1, Height: 1},
		{Width: 640, Height: 480},
		{Width: 4032, Height: 3024},
		{Width: 333, Height: 7919},
	}

	for _, size := range sizes {
		for i := 0; i < 500; i++ {
			ratio := canvas.Point{X: rng.Float64(), Y: rng.Float64()}

			once := canvas.NativeToRatio(canvas.RatioToNative(ratio, size), size)
			twice := canvas.NativeToRatio(canvas.RatioToNative(once, size), size)

			assert.InDelta(t, ratio.X, once.X, 1e-9)
			assert.InDelta(t, ratio.Y, once.Y, 1e-9)
			assert.InDelta(t, once.X, twice.X, 1e-12)
			assert.InDelta(t, once.Y, twice.Y, 1e-12)
		}
	}
}

func TestRatioPixelRoundTrip_Corners(t *testing.T) {
	size := canvas.Size{Width: 1920, Height: 1080}
	for _, ratio := range []canvas.Point{{0, 0}, {1, 1}, {0, 1}, {1, 0}, {0.5, 0.5}} {
		got := canvas.NativeToRatio(canvas.RatioToNative(ratio, size), size)
		assert.InDelta(t, ratio.X, got.X, 1e-12)
		assert.InDelta(t, ratio.Y, got.Y, 1e-12)
	}
}

func TestDisplayNativeScale(t *testing.T) {
	p := canvas.DisplayToNative(canvas.Point{X: 100, Y: 50}, 2.5)
	assert.Equal(t, canvas.Point{X: 250, Y: 125}, p)
	assert.Equal(t, canvas.Point{X: 100, Y: 50}, canvas.NativeToDisplay(p, 2.5))
}
