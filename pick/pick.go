// Package pick resolves pointer coordinates to the topmost node or
// interactive sub-control under them, by inverse-transforming the pointer
// into world space and testing against the same per-level radii the render
// pipeline paints with.
package pick

import (
	"math"

	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/viewport"
)

const (
	// HitPadding widens each node's hit circle beyond its painted radius.
	HitPadding = 3.0

	// Expand/collapse glyph geometry. GlyphRadius is in screen pixels; the
	// hit test and the painter both divide by the current scale so the glyph
	// keeps a constant screen size.
	GlyphRadius = 8.0
	glyphGap    = 6.0
)

// Node returns the id of the topmost visible node under the screen point, or
// "" if none. Ties go to the smallest center distance, so overlapping nodes
// pick deterministically.
func Node(screen viewport.Point, nodes []*graph.Node, t *viewport.Transform) string {
	w := t.ToWorld(screen)

	best := ""
	bestDist := math.Inf(1)
	for _, n := range nodes {
		d := math.Hypot(w.X-n.X, w.Y-n.Y)
		if d < graph.NodeRadius(n.Level)+HitPadding && d < bestDist {
			best = n.ID
			bestDist = d
		}
	}
	return best
}

// GlyphCenter returns the world position of a node's expand/collapse glyph:
// just off the node's rim, on the side away from the parent (toward the
// subtree), or straight below when the node has no parent.
func GlyphCenter(n *graph.Node, parent *graph.Node, k float64) viewport.Point {
	offset := graph.NodeRadius(n.Level) + (glyphGap+GlyphRadius)/k

	if parent == nil {
		return viewport.Point{X: n.X, Y: n.Y + offset}
	}
	dx := n.X - parent.X
	dy := n.Y - parent.Y
	d := math.Hypot(dx, dy)
	if d < 1e-6 {
		return viewport.Point{X: n.X, Y: n.Y + offset}
	}
	return viewport.Point{X: n.X + dx/d*offset, Y: n.Y + dy/d*offset}
}

// Glyph reports whether the screen point hits the node's expand/collapse
// glyph. The glyph's radius is divided by the scale so its clickable area
// matches its constant on-screen size.
func Glyph(screen viewport.Point, n *graph.Node, parent *graph.Node, t *viewport.Transform) bool {
	w := t.ToWorld(screen)
	c := GlyphCenter(n, parent, t.K)
	return math.Hypot(w.X-c.X, w.Y-c.Y) <= GlyphRadius/t.K
}
