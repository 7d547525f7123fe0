// Package render draws the current scene once per display frame: guide
// rings, edges, nodes, badges, expand glyphs, and labels, culled against the
// viewport and level-of-detail gated by the zoom factor.
package render

import (
	"bytes"
	"fmt"
)

// Canvas is the drawing surface contract. The pipeline sets one scene
// transform per frame and then draws in world coordinates; implementations
// apply the transform themselves.
type Canvas interface {
	// Begin clears the surface to the background color and starts a frame.
	Begin(width, height float64, background string)
	// SetTransform applies the scene transform (translate then scale) to all
	// subsequent drawing.
	SetTransform(tx, ty, k float64)
	// Circle draws a filled and/or stroked circle. Empty fill or stroke
	// skips that part.
	Circle(cx, cy, r float64, fill, stroke string, strokeWidth float64)
	// Line draws a stroked segment.
	Line(x1, y1, x2, y2 float64, stroke string, width float64)
	// Rect draws a filled rounded rectangle.
	Rect(x, y, w, h float64, fill string, rx float64)
	// Text draws a horizontally centered string at the given baseline point.
	Text(x, y float64, s string, size float64, fill string)
	// End finishes the frame.
	End()
}

// SVGCanvas renders frames as standalone SVG documents. It is the surface
// used by tests, the one-shot CLI export, and the demo server's frame
// endpoint.
type SVGCanvas struct {
	buf         bytes.Buffer
	transformed bool
	done        bool
}

// NewSVGCanvas returns an empty SVG canvas.
func NewSVGCanvas() *SVGCanvas {
	return &SVGCanvas{}
}

// Begin writes the SVG header and background.
func (c *SVGCanvas) Begin(width, height float64, background string) {
	c.buf.Reset()
	c.transformed = false
	c.done = false
	fmt.Fprintf(&c.buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// SetTransform opens the scene group.
func (c *SVGCanvas) SetTransform(tx, ty, k float64) {
	if c.transformed {
		c.buf.WriteString("</g>\n")
	}
	fmt.Fprintf(&c.buf, `<g transform="translate(%g,%g) scale(%g)">`+"\n", tx, ty, k)
	c.transformed = true
}

// Circle draws a circle element.
func (c *SVGCanvas) Circle(cx, cy, r float64, fill, stroke string, strokeWidth float64) {
	if fill == "" {
		fill = "none"
	}
	if stroke == "" {
		fmt.Fprintf(&c.buf, `<circle cx="%g" cy="%g" r="%g" fill="%s"/>`+"\n", cx, cy, r, fill)
		return
	}
	fmt.Fprintf(&c.buf, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="%g"/>`+"\n",
		cx, cy, r, fill, stroke, strokeWidth)
}

// Line draws a line element.
func (c *SVGCanvas) Line(x1, y1, x2, y2 float64, stroke string, width float64) {
	fmt.Fprintf(&c.buf, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="%g"/>`+"\n",
		x1, y1, x2, y2, stroke, width)
}

// Rect draws a rounded rect element.
func (c *SVGCanvas) Rect(x, y, w, h float64, fill string, rx float64) {
	fmt.Fprintf(&c.buf, `<rect x="%g" y="%g" width="%g" height="%g" rx="%g" fill="%s"/>`+"\n",
		x, y, w, h, rx, fill)
}

// Text draws a centered text element.
func (c *SVGCanvas) Text(x, y float64, s string, size float64, fill string) {
	fmt.Fprintf(&c.buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="%g" fill="%s" text-anchor="middle">%s</text>`+"\n",
		x, y, size, fill, escapeText(s))
}

// End closes the document.
func (c *SVGCanvas) End() {
	if c.done {
		return
	}
	if c.transformed {
		c.buf.WriteString("</g>\n")
		c.transformed = false
	}
	c.buf.WriteString("</svg>")
	c.done = true
}

// Bytes returns the finished document.
func (c *SVGCanvas) Bytes() []byte {
	return c.buf.Bytes()
}

func escapeText(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
