package canvas_test

import (
	"bytes"
	"image/png"
	"testing"

	"wallboard/internal/canvas"
	"wallboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOverlay(t *testing.T) {
	holds := []model.Hold{
		{XRatio: 0.25, YRatio: 0.5, Type: model.HoldStart},
		{XRatio: 0.75, YRatio: 0.5, Type: model.HoldFinish},
	}

	var buf bytes.Buffer
	require.NoError(t, canvas.RenderOverlay(&buf, canvas.Size{Width: 400, Height: 200}, 200, holds, 0))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	_, _, _, cornerAlpha := img.At(0, 0).RGBA()
	assert.Zero(t, cornerAlpha)

	_, _, _, startAlpha := img.At(100, 100).RGBA()
	assert.NotZero(t, startAlpha)

	// radius is 10 display px at scale 2, so 20 native px
	_, _, _, inside := img.At(118, 100).RGBA()
	_, _, _, outside := img.At(125, 100).RGBA()
	assert.NotZero(t, inside)
	assert.Zero(t, outside)
}

func TestRenderOverlay_RejectsEmptyBoard(t *testing.T) {
	err := canvas.RenderOverlay(&bytes.Buffer{}, canvas.Size{}, 100, nil, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRenderOverlay_RefusesBoardsOverPixelCap(t *testing.T) {
	holds := []model.Hold{{XRatio: 0.5, YRatio: 0.5, Type: model.HoldStart}}

	err := canvas.RenderOverlay(&bytes.Buffer{}, canvas.Size{Width: 100000, Height: 100000}, 800, holds, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	err = canvas.RenderOverlay(&bytes.Buffer{}, canvas.Size{Width: 20, Height: 10}, 20, holds, 100)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	var buf bytes.Buffer
	require.NoError(t, canvas.RenderOverlay(&buf, canvas.Size{Width: 10, Height: 10}, 10, holds, 100))
	assert.NotZero(t, buf.Len())
}
