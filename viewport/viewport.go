// Package viewport maintains the affine transform between world coordinates
// and surface pixels: a translation plus a uniform, clamped scale. Every
// pan/zoom gesture in the system funnels through this type; nothing else may
// write the transform.
package viewport

import "math"

// Scale clamp defaults.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 4.0
)

// Point is a 2D coordinate, in whichever space the context implies.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform maps world coordinates to screen pixels:
// screen = world*K + (TX, TY).
type Transform struct {
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
	K  float64 `json:"k"`

	KMin float64 `json:"-"`
	KMax float64 `json:"-"`
}

// NewTransform returns the identity transform with default scale limits.
func NewTransform() *Transform {
	return &Transform{K: 1, KMin: DefaultMinScale, KMax: DefaultMaxScale}
}

// clampK bounds K to [KMin, KMax], tolerating an unconfigured zero limit.
func (t *Transform) clampK(k float64) float64 {
	lo, hi := t.KMin, t.KMax
	if lo <= 0 {
		lo = DefaultMinScale
	}
	if hi <= 0 {
		hi = DefaultMaxScale
	}
	return math.Min(math.Max(k, lo), hi)
}

// ToWorld maps a screen point into world space.
func (t *Transform) ToWorld(p Point) Point {
	return Point{X: (p.X - t.TX) / t.K, Y: (p.Y - t.TY) / t.K}
}

// ToScreen maps a world point onto the surface.
func (t *Transform) ToScreen(p Point) Point {
	return Point{X: p.X*t.K + t.TX, Y: p.Y*t.K + t.TY}
}

// PanBy shifts the view by a screen-space delta.
func (t *Transform) PanBy(dx, dy float64) {
	t.TX += dx
	t.TY += dy
}

// ZoomAt rescales by factor, clamped, keeping the world point under the given
// screen point fixed.
func (t *Transform) ZoomAt(screen Point, factor float64) {
	k := t.clampK(t.K * factor)
	if k == t.K {
		return
	}
	anchor := t.ToWorld(screen)
	t.K = k
	t.TX = screen.X - anchor.X*k
	t.TY = screen.Y - anchor.Y*k
}

// ZoomToFit frames all the given world points inside width×height with the
// given padding on every side, centered, never exceeding KMax. With no points
// or a degenerate viewport it leaves the transform unchanged.
func (t *Transform) ZoomToFit(points []Point, width, height, padding float64) {
	if len(points) == 0 || width <= 2*padding || height <= 2*padding {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	k := t.KMax
	if k <= 0 {
		k = DefaultMaxScale
	}
	if spanX > 0 {
		k = math.Min(k, (width-2*padding)/spanX)
	}
	if spanY > 0 {
		k = math.Min(k, (height-2*padding)/spanY)
	}
	t.K = t.clampK(k)

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	t.TX = width/2 - centerX*t.K
	t.TY = height/2 - centerY*t.K
}

// VisibleWorldRect returns the world-space rectangle currently on screen as
// (min, max) corners for a surface of the given size.
func (t *Transform) VisibleWorldRect(width, height float64) (Point, Point) {
	return t.ToWorld(Point{}), t.ToWorld(Point{X: width, Y: height})
}
