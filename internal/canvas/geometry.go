package canvas

import "math"

// Size : width and height in pixels
type Size struct {
	Width  float64
	Height float64
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

type Point struct {
	X float64
	Y float64
}

// DisplayToNative : on-screen point to image pixel, scale is buffer width over display width
func DisplayToNative(p Point, scale float64) Point {
	return Point{X: p.X * scale, Y: p.Y * scale}
}

func NativeToDisplay(p Point, scale float64) Point {
	if scale == 0 {
		return p
	}
	return Point{X: p.X / scale, Y: p.Y / scale}
}

// NativeToRatio : image pixel to fractions of the native size
func NativeToRatio(p Point, native Size) Point {
	if native.Empty() {
		return Point{}
	}
	return Point{X: p.X / native.Width, Y: p.Y / native.Height}
}

func RatioToNative(ratio Point, native Size) Point {
	return Point{X: ratio.X * native.Width, Y: ratio.Y * native.Height}
}

func clampRatio(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
