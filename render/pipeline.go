package render

import (
	"fmt"
	"math"

	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/pick"
	"github.com/TFMV/canopy/viewport"
)

// Palette colors.
const (
	ColorBackground  = "#f8f8f8"
	ColorNode        = "#4285F4"
	ColorNodeSelect  = "#FBBC05"
	ColorNodeDim     = "#c9d4e8"
	ColorBorder      = "rgba(0,0,0,0.3)"
	ColorBorderHot   = "#EA4335"
	ColorBorderMatch = "#34A853"
	ColorHalo        = "#673AB7"
	ColorEdge        = "#999999"
	ColorEdgeDim     = "#e2e2e2"
	ColorEdgeHot     = "#EA4335"
	ColorRing        = "#e6e6e6"
	ColorLabel       = "#333333"
	ColorLabelBg     = "rgba(255,255,255,0.85)"
	ColorBadge       = "#3F51B5"
	ColorGlyph       = "#ffffff"
	ColorGlyphStroke = "#666666"
)

// Options are the level-of-detail and toggle settings of the pipeline. Zoom
// thresholds compare against the transform's K.
type Options struct {
	ShowRings      bool    `yaml:"show_rings" json:"show_rings"`
	ShowLevelBadge bool    `yaml:"show_level_badge" json:"show_level_badge"`
	ShowChildCount bool    `yaml:"show_child_count" json:"show_child_count"`
	RingStep       float64 `yaml:"ring_step" json:"ring_step"`
	LabelMinZoom   float64 `yaml:"label_min_zoom" json:"label_min_zoom"`
	BadgeMinZoom   float64 `yaml:"badge_min_zoom" json:"badge_min_zoom"`
	RingLabelZoom  float64 `yaml:"ring_label_min_zoom" json:"ring_label_min_zoom"`
}

// DefaultOptions returns the standard pipeline settings.
func DefaultOptions() Options {
	return Options{
		ShowRings:      true,
		ShowLevelBadge: false,
		ShowChildCount: true,
		RingStep:       130,
		LabelMinZoom:   0.8,
		BadgeMinZoom:   0.6,
		RingLabelZoom:  0.4,
	}
}

// Scene is one frame's worth of input, read live at draw time so a position
// mutated by a drag is visible to the very next frame.
type Scene struct {
	Nodes     []*graph.Node // visible nodes
	Edges     []*graph.Edge // visible edges
	Relations *graph.Relations
	Collapsed graph.IDSet
	Selection graph.IDSet
	Connected graph.IDSet // hover highlight set, nil when no hover
	Matches   graph.IDSet // search result tint
	HoverID   string
	Transform *viewport.Transform
	Width     float64
	Height    float64
}

// Pipeline draws scenes onto a Canvas.
type Pipeline struct {
	Opts Options
}

// NewPipeline creates a pipeline with default options.
func NewPipeline() *Pipeline {
	return &Pipeline{Opts: DefaultOptions()}
}

// Draw renders one frame. A nil canvas, an unmeasured surface, or a missing
// transform makes it a no-op: per-frame failures never escape the loop.
func (p *Pipeline) Draw(c Canvas, s *Scene) {
	if c == nil || s == nil || s.Transform == nil || s.Width <= 0 || s.Height <= 0 {
		return
	}
	t := s.Transform
	k := t.K
	if k <= 0 {
		return
	}

	c.Begin(s.Width, s.Height, ColorBackground)
	c.SetTransform(t.TX, t.TY, k)

	// Cull rectangle in world space, inflated so labels and halos just off
	// the edge still draw.
	min, max := t.VisibleWorldRect(s.Width, s.Height)
	margin := graph.NodeRadius(0) + 80/k
	min.X -= margin
	min.Y -= margin
	max.X += margin
	max.Y += margin
	onScreen := func(n *graph.Node) bool {
		return n.X >= min.X && n.X <= max.X && n.Y >= min.Y && n.Y <= max.Y
	}

	p.drawRings(c, s, k)
	p.drawEdges(c, s, k, min, max)
	p.drawNodes(c, s, k, onScreen)

	c.End()
}

// drawRings paints a concentric guide ring per populated level, with a level
// label once zoomed in far enough.
func (p *Pipeline) drawRings(c Canvas, s *Scene, k float64) {
	if !p.Opts.ShowRings {
		return
	}
	maxLevel := 0
	for _, n := range s.Nodes {
		maxLevel = int(math.Max(float64(maxLevel), float64(n.Level)))
	}
	for lvl := 1; lvl <= maxLevel; lvl++ {
		r := float64(lvl) * p.Opts.RingStep
		c.Circle(0, 0, r, "", ColorRing, 1/k)
		if k >= p.Opts.RingLabelZoom {
			c.Text(0, -r-6/k, fmt.Sprintf("L%d", lvl), 11/k, ColorRing)
		}
	}
}

// drawEdges paints visible edges, dimming those outside the connected set
// while a hover is active and emphasizing those inside it.
func (p *Pipeline) drawEdges(c Canvas, s *Scene, k float64, lo, hi viewport.Point) {
	byID := make(map[string]*graph.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		byID[n.ID] = n
	}

	for _, e := range s.Edges {
		a, b := byID[e.Source], byID[e.Target]
		if a == nil || b == nil {
			continue
		}
		// Culling must test the segment, not the endpoints: a long edge can
		// cross the viewport with both ends outside it.
		if !segmentIntersectsRect(a.X, a.Y, b.X, b.Y, lo, hi) {
			continue
		}

		stroke, width := ColorEdge, 1.2/k
		if s.Connected != nil {
			if s.Connected.Has(a.ID) && s.Connected.Has(b.ID) {
				stroke, width = ColorEdgeHot, 2.2/k
			} else {
				stroke = ColorEdgeDim
			}
		}
		c.Line(a.X, a.Y, b.X, b.Y, stroke, width)
	}
}

// segmentIntersectsRect reports whether the segment (x1,y1)-(x2,y2) touches
// the axis-aligned rectangle [lo, hi], via Liang-Barsky parameter clipping.
func segmentIntersectsRect(x1, y1, x2, y2 float64, lo, hi viewport.Point) bool {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 - lo.X},
		{dx, hi.X - x1},
		{-dy, y1 - lo.Y},
		{dy, hi.Y - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return true
}

// drawNodes paints each visible node with its badges, glyph, and label.
func (p *Pipeline) drawNodes(c Canvas, s *Scene, k float64, onScreen func(*graph.Node) bool) {
	for _, n := range s.Nodes {
		if !onScreen(n) {
			continue
		}
		r := graph.NodeRadius(n.Level)
		hovered := n.ID == s.HoverID
		selected := s.Selection.Has(n.ID)
		connected := s.Connected != nil && s.Connected.Has(n.ID)
		dimmed := s.Connected != nil && !connected

		fill := ColorNode
		switch {
		case selected:
			fill = ColorNodeSelect
		case dimmed:
			fill = ColorNodeDim
		}
		border, borderW := ColorBorder, 0.8/k
		switch {
		case connected:
			border, borderW = ColorBorderHot, 2/k
		case s.Matches.Has(n.ID):
			border, borderW = ColorBorderMatch, 2/k
		}
		c.Circle(n.X, n.Y, r, fill, border, borderW)

		if hovered || selected {
			c.Circle(n.X, n.Y, r+4/k, "", ColorHalo, 1.5/k)
		}

		if p.Opts.ShowLevelBadge {
			p.drawBadge(c, n.X-r, n.Y-r, fmt.Sprintf("%d", n.Level), k)
		}
		if p.Opts.ShowChildCount && k >= p.Opts.BadgeMinZoom {
			if kids := s.Relations.Children(n.ID); len(kids) > 0 {
				p.drawBadge(c, n.X+r, n.Y-r, fmt.Sprintf("%d", len(kids)), k)
			}
		}

		if s.Relations.HasChildren(n.ID) {
			p.drawGlyph(c, s, n, k)
		}

		if hovered || selected || connected || k >= p.Opts.LabelMinZoom {
			p.drawLabel(c, n, r, k)
		}
	}
}

// drawBadge paints a small count circle with centered text, constant screen
// size.
func (p *Pipeline) drawBadge(c Canvas, x, y float64, text string, k float64) {
	c.Circle(x, y, 8/k, ColorBadge, "", 0)
	c.Text(x, y+3/k, text, 9/k, "#ffffff")
}

// drawGlyph paints the expand/collapse control: a circle with a minus
// (expanded) or plus (collapsed) sign, positioned away from the parent.
func (p *Pipeline) drawGlyph(c Canvas, s *Scene, n *graph.Node, k float64) {
	var parent *graph.Node
	if pid, ok := s.Relations.Parent(n.ID); ok {
		parent = nodeIn(s.Nodes, pid)
	}
	center := pick.GlyphCenter(n, parent, k)
	gr := pick.GlyphRadius / k

	c.Circle(center.X, center.Y, gr, ColorGlyph, ColorGlyphStroke, 1.2/k)
	arm := gr * 0.55
	c.Line(center.X-arm, center.Y, center.X+arm, center.Y, ColorGlyphStroke, 1.4/k)
	if s.Collapsed.Has(n.ID) {
		c.Line(center.X, center.Y-arm, center.X, center.Y+arm, ColorGlyphStroke, 1.4/k)
	}
}

// drawLabel paints the node label over a backing rect below the node.
func (p *Pipeline) drawLabel(c Canvas, n *graph.Node, r, k float64) {
	if n.Label == "" {
		return
	}
	size := 12 / k
	w := float64(len(n.Label)) * size * 0.62
	y := n.Y + r + 6/k
	c.Rect(n.X-w/2-3/k, y, w+6/k, size+6/k, ColorLabelBg, 3/k)
	c.Text(n.X, y+size, n.Label, size, ColorLabel)
}

func nodeIn(nodes []*graph.Node, id string) *graph.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
