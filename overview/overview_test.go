package overview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/render"
	"github.com/TFMV/canopy/viewport"
)

func nodes() []*graph.Node {
	return []*graph.Node{
		{ID: "a", X: -500, Y: -500},
		{ID: "b", X: 500, Y: 500},
		{ID: "c", X: 0, Y: 0},
	}
}

func TestRenderFitsAllNodes(t *testing.T) {
	o := New(200, 150)
	main := viewport.NewTransform()
	c := render.NewSVGCanvas()

	o.Render(c, nodes(), main, 800, 600)
	out := string(c.Bytes())

	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Equal(t, 3, strings.Count(out, dotColor))
	assert.Contains(t, out, rectColor, "viewport rect drawn")

	// Every node projects inside the miniature.
	for _, n := range nodes() {
		s := o.fit.ToScreen(viewport.Point{X: n.X, Y: n.Y})
		assert.GreaterOrEqual(t, s.X, 0.0)
		assert.LessOrEqual(t, s.X, 200.0)
		assert.GreaterOrEqual(t, s.Y, 0.0)
		assert.LessOrEqual(t, s.Y, 150.0)
	}
}

func TestRenderGuards(t *testing.T) {
	o := New(200, 150)
	assert.NotPanics(t, func() {
		o.Render(nil, nodes(), viewport.NewTransform(), 800, 600)
		o.Render(render.NewSVGCanvas(), nodes(), nil, 800, 600)
		o.Render(render.NewSVGCanvas(), nil, viewport.NewTransform(), 800, 600)
	})
}

func TestDragByMovesMainViewport(t *testing.T) {
	o := New(200, 150)
	main := viewport.NewTransform()
	c := render.NewSVGCanvas()
	o.Render(c, nodes(), main, 800, 600) // establishes the fit transform

	centerBefore := main.ToWorld(viewport.Point{X: 400, Y: 300})
	o.DragBy(10, 0, main)
	centerAfter := main.ToWorld(viewport.Point{X: 400, Y: 300})

	assert.Greater(t, centerAfter.X, centerBefore.X, "dragging right shows world further right")
	assert.InDelta(t, centerBefore.Y, centerAfter.Y, 1e-9)
}

func TestWheelZoomsMainTowardPointer(t *testing.T) {
	o := New(200, 150)
	main := viewport.NewTransform()
	c := render.NewSVGCanvas()
	o.Render(c, nodes(), main, 800, 600)

	// Zoom toward node b via its overview position.
	target := o.fit.ToScreen(viewport.Point{X: 500, Y: 500})
	anchor := main.ToScreen(viewport.Point{X: 500, Y: 500})
	before := main.K

	o.Wheel(target, 1.5, main)

	assert.InDelta(t, before*1.5, main.K, 1e-9)
	// The world point under the anchor's screen position stays fixed.
	fixed := main.ToWorld(anchor)
	assert.InDelta(t, 500, fixed.X, 1e-6)
	assert.InDelta(t, 500, fixed.Y, 1e-6)
}
