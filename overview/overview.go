// Package overview renders a miniature of the whole graph (ignoring
// collapse) with a rectangle marking the main viewport's visible region, and
// translates pointer gestures on the miniature into main-viewport updates.
package overview

import (
	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/render"
	"github.com/TFMV/canopy/viewport"
)

const (
	dotColor  = "#9aa7bd"
	rectColor = "rgba(66,133,244,0.25)"
	padding   = 8.0

	// The miniature may shrink far below the main viewport's minimum zoom.
	fitKMin = 1e-4
)

// Overview is the companion minimap surface.
type Overview struct {
	Width  float64
	Height float64

	fit viewport.Transform
}

// New creates an overview surface of a fixed pixel size.
func New(width, height float64) *Overview {
	return &Overview{
		Width:  width,
		Height: height,
		fit:    viewport.Transform{K: 1, KMin: fitKMin, KMax: viewport.DefaultMaxScale},
	}
}

// Render fits every node (collapsed or not) into the miniature, draws them as
// constant-size dots, and overlays the main viewport's visible world rect.
func (o *Overview) Render(c render.Canvas, nodes []*graph.Node, main *viewport.Transform, mainW, mainH float64) {
	if c == nil || main == nil || o.Width <= 0 || o.Height <= 0 {
		return
	}

	points := make([]viewport.Point, len(nodes))
	for i, n := range nodes {
		points[i] = viewport.Point{X: n.X, Y: n.Y}
	}
	o.fit.ZoomToFit(points, o.Width, o.Height, padding)

	c.Begin(o.Width, o.Height, "#ffffff")
	c.SetTransform(o.fit.TX, o.fit.TY, o.fit.K)

	dotR := 2 / o.fit.K
	for _, n := range nodes {
		c.Circle(n.X, n.Y, dotR, dotColor, "", 0)
	}

	min, max := main.VisibleWorldRect(mainW, mainH)
	c.Rect(min.X, min.Y, max.X-min.X, max.Y-min.Y, rectColor, 0)

	c.End()
}

// DragBy forwards a drag on the miniature (screen-space delta in overview
// pixels) to the main viewport: dragging the rect right moves the view right.
func (o *Overview) DragBy(dx, dy float64, main *viewport.Transform) {
	if o.fit.K == 0 {
		return
	}
	worldDX := dx / o.fit.K
	worldDY := dy / o.fit.K
	main.PanBy(-worldDX*main.K, -worldDY*main.K)
}

// Wheel forwards a scroll on the miniature to the main viewport, zooming
// toward the world point under the overview cursor with the same
// zoom-at-point math the main surface uses.
func (o *Overview) Wheel(p viewport.Point, factor float64, main *viewport.Transform) {
	world := o.fit.ToWorld(p)
	main.ZoomAt(main.ToScreen(world), factor)
}
