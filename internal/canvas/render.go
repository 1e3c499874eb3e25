package canvas

import (
	"fmt"
	"image/color"
	"io"

	"wallboard/internal/model"

	"github.com/fogleman/gg"
)

// MarkerRadius : hold marker radius in display pixels
const MarkerRadius = 10.0

// DefaultMaxPixels : largest board image, in native pixels, that is accepted or rendered
const DefaultMaxPixels int64 = 50_000_000

var holdColors = map[model.HoldType]color.NRGBA{
	model.HoldStart:  {R: 144, G: 238, B: 144, A: 153},
	model.HoldMiddle: {R: 255, G: 255, B: 0, A: 153},
	model.HoldFinish: {R: 255, G: 255, B: 255, A: 204},
}

func HoldColor(t model.HoldType) color.NRGBA {
	if c, ok := holdColors[t]; ok {
		return c
	}
	return holdColors[model.HoldMiddle]
}

// RenderOverlay : transparent PNG of the native image size with one filled circle per hold.
// displayWidth is the width the image is shown at, markers keep a constant on-screen size.
// Boards larger than maxPixels (DefaultMaxPixels when not positive) are refused.
func RenderOverlay(w io.Writer, native Size, displayWidth float64, holds []model.Hold, maxPixels int64) error {
	if native.Empty() {
		return fmt.Errorf("%w: board has no native size", model.ErrInvalidInput)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if native.Width*native.Height > float64(maxPixels) {
		return fmt.Errorf("%w: board image %gx%g is too large to render", model.ErrInvalidInput, native.Width, native.Height)
	}

	scale := 1.0
	if displayWidth > 0 {
		scale = native.Width / displayWidth
	}
	radius := MarkerRadius * scale

	dc := gg.NewContext(int(native.Width), int(native.Height))
	for _, hold := range holds {
		p := RatioToNative(Point{X: hold.XRatio, Y: hold.YRatio}, native)
		dc.SetColor(HoldColor(hold.Type))
		dc.DrawCircle(p.X, p.Y, radius)
		dc.Fill()
	}

	return dc.EncodePNG(w)
}
