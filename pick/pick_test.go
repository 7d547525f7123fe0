package pick

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/viewport"
)

func fixture() ([]*graph.Node, *viewport.Transform) {
	nodes := []*graph.Node{
		{ID: "root", Level: 0, X: 0, Y: 0},
		{ID: "a", Level: 1, X: 100, Y: 0},
		{ID: "b", Level: 2, X: 100, Y: 20}, // overlaps a's hit circle edge region
	}
	return nodes, viewport.NewTransform()
}

func TestNodeHitAndMiss(t *testing.T) {
	nodes, tr := fixture()

	assert.Equal(t, "root", Node(viewport.Point{X: 5, Y: 3}, nodes, tr))
	assert.Equal(t, "a", Node(viewport.Point{X: 100, Y: -8}, nodes, tr))
	assert.Equal(t, "", Node(viewport.Point{X: 500, Y: 500}, nodes, tr))
}

func TestNodeNearestWinsOnOverlap(t *testing.T) {
	nodes, tr := fixture()
	// (100, 18) is inside both a's and b's padded circles but closer to b.
	assert.Equal(t, "b", Node(viewport.Point{X: 100, Y: 18}, nodes, tr))
}

func TestNodeRespectsTransform(t *testing.T) {
	nodes, tr := fixture()
	tr.PanBy(200, 50)
	assert.Equal(t, "root", Node(viewport.Point{X: 200, Y: 50}, nodes, tr))
	assert.Equal(t, "", Node(viewport.Point{X: 0, Y: 0}, nodes, tr))

	tr.ZoomAt(viewport.Point{X: 200, Y: 50}, 2)
	assert.Equal(t, "a", Node(viewport.Point{X: 400, Y: 50}, nodes, tr))
}

func TestNodeIsDeterministic(t *testing.T) {
	nodes, tr := fixture()
	p := viewport.Point{X: 100, Y: 18}
	first := Node(p, nodes, tr)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Node(p, nodes, tr))
	}
}

func TestGlyphCenterBelowWhenNoParent(t *testing.T) {
	n := &graph.Node{ID: "root", Level: 0}
	c := GlyphCenter(n, nil, 1)
	assert.Equal(t, 0.0, c.X)
	assert.Greater(t, c.Y, graph.NodeRadius(0))
}

func TestGlyphCenterAwayFromParent(t *testing.T) {
	parent := &graph.Node{ID: "p", Level: 0, X: 0, Y: 0}
	n := &graph.Node{ID: "c", Level: 1, X: 100, Y: 0}
	c := GlyphCenter(n, parent, 1)
	assert.Greater(t, c.X, n.X, "glyph sits on the far side from the parent")
	assert.InDelta(t, 0, c.Y, 1e-9)
}

func TestGlyphHitScalesWithZoom(t *testing.T) {
	parent := &graph.Node{ID: "p", Level: 0}
	n := &graph.Node{ID: "c", Level: 1, X: 100, Y: 0}

	tr := viewport.NewTransform()
	c := GlyphCenter(n, parent, tr.K)
	hit := tr.ToScreen(viewport.Point{X: c.X, Y: c.Y})
	assert.True(t, Glyph(hit, n, parent, tr))

	// Zoomed out 4x the glyph keeps its screen size, so the same screen-space
	// offset from its center still hits.
	tr.ZoomAt(viewport.Point{}, 0.25)
	c = GlyphCenter(n, parent, tr.K)
	center := tr.ToScreen(viewport.Point{X: c.X, Y: c.Y})
	assert.True(t, Glyph(viewport.Point{X: center.X + GlyphRadius - 1, Y: center.Y}, n, parent, tr))
	assert.False(t, Glyph(viewport.Point{X: center.X + GlyphRadius + 2, Y: center.Y}, n, parent, tr))
}
