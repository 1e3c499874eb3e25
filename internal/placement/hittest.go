package placement

import (
	"wallboard/internal/canvas"
	"wallboard/internal/model"
)

// CaptureRadius : how close, in native pixels, a delete click must land to a hold
const CaptureRadius = 12.0

// NearestHold : index of the closest hold within radius of click (native pixels), or -1.
// Distances compare squared; on a tie the earlier hold wins.
func NearestHold(holds []model.Hold, click canvas.Point, native canvas.Size, radius float64) int {
	best := -1
	bestDist := radius * radius

	for i, hold := range holds {
		p := canvas.RatioToNative(canvas.Point{X: hold.XRatio, Y: hold.YRatio}, native)
		dx, dy := p.X-click.X, p.Y-click.Y
		d := dx*dx + dy*dy
		if d > radius*radius {
			continue
		}
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best
}
