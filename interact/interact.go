// Package interact interprets pointer and keyboard input into model
// mutations: hover, selection, drag, pan, collapse toggling, and subtree
// deletion. State is a handful of flags read live by the render loop each
// frame, not an event stream.
package interact

import (
	"time"

	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/layout"
	"github.com/TFMV/canopy/pick"
	"github.com/TFMV/canopy/viewport"
)

// Scene is what the controller needs from its host: the current visible
// scene, the collapse and structure mutations, and the simulation reheat
// hook. The engine implements it.
type Scene interface {
	VisibleNodes() []*graph.Node
	Node(id string) *graph.Node
	Parent(id string) *graph.Node
	HasChildren(id string) bool
	Collapsed() graph.IDSet
	ToggleCollapse(id string)
	Expand(id string)
	DeleteSubtree(id string)
	Reheat(target float64)
	Transform() *viewport.Transform
}

// Options tunes the gesture thresholds.
type Options struct {
	// DragThreshold is the screen-space motion, in pixels, below which a
	// press-release pair is a click.
	DragThreshold float64
	// HoverClearDelay debounces hover exit so an adjacent tooltip panel can
	// be reached without flicker. Hover entry is immediate.
	HoverClearDelay time.Duration
	// DoubleClickWindow is the maximum gap between two clicks on the same
	// target for them to count as a double-click.
	DoubleClickWindow time.Duration
	// KeepPinned leaves a dragged node fixed where it was released instead
	// of handing it back to the simulation.
	KeepPinned bool
}

// DefaultOptions returns the standard gesture tuning.
func DefaultOptions() Options {
	return Options{
		DragThreshold:     3,
		HoverClearDelay:   250 * time.Millisecond,
		DoubleClickWindow: 300 * time.Millisecond,
	}
}

// Modifiers carries the modifier-key state of a pointer event.
type Modifiers struct {
	Multi bool // platform multi-select modifier (ctrl/cmd/shift)
}

// Controller is the interaction state machine. All methods must be called
// from the same goroutine that runs the frame loop; the engine serializes
// host callbacks for it.
type Controller struct {
	scene Scene
	opts  Options
	now   func() time.Time

	hoverID      string
	hoverClearAt time.Time // zero: no clear pending

	pressed      bool
	pressedID    string // "" for background press
	glyphPressed bool
	pressPos     viewport.Point
	dragOffsetX  float64
	dragOffsetY  float64

	dragging       bool
	panning        bool
	lastPointerPos viewport.Point

	selection graph.IDSet

	lastClickAt time.Time
	lastClickID string
}

// NewController creates a controller bound to a scene.
func NewController(scene Scene, opts Options) *Controller {
	if opts.DragThreshold <= 0 {
		opts.DragThreshold = DefaultOptions().DragThreshold
	}
	if opts.HoverClearDelay <= 0 {
		opts.HoverClearDelay = DefaultOptions().HoverClearDelay
	}
	if opts.DoubleClickWindow <= 0 {
		opts.DoubleClickWindow = DefaultOptions().DoubleClickWindow
	}
	return &Controller{
		scene:     scene,
		opts:      opts,
		now:       time.Now,
		selection: make(graph.IDSet),
	}
}

// HoverID returns the currently hovered node id, or "".
func (c *Controller) HoverID() string { return c.hoverID }

// Dragging reports whether a node drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Selection returns the live selection set. Callers must not mutate it.
func (c *Controller) Selection() graph.IDSet { return c.selection }

// Cursor returns the cursor the host should show.
func (c *Controller) Cursor() string {
	switch {
	case c.dragging:
		return "grabbing"
	case c.hoverID != "":
		return "pointer"
	default:
		return "default"
	}
}

// PointerDown begins a gesture. Glyph hits take priority over node bodies;
// anything else is a background press (a pending pan or clear-click).
func (c *Controller) PointerDown(p viewport.Point, mods Modifiers) {
	c.pressed = true
	c.pressPos = p
	c.lastPointerPos = p
	c.glyphPressed = false
	c.dragging = false
	c.panning = false
	c.pressedID = ""

	t := c.scene.Transform()
	nodes := c.scene.VisibleNodes()

	// The glyph floats outside its node's body, so test glyphs across all
	// nodes with children before falling back to node bodies.
	for _, n := range nodes {
		if !c.scene.HasChildren(n.ID) {
			continue
		}
		if pick.Glyph(p, n, c.scene.Parent(n.ID), t) {
			c.pressedID = n.ID
			c.glyphPressed = true
			return
		}
	}

	if id := pick.Node(p, nodes, t); id != "" {
		c.pressedID = id
		if n := c.scene.Node(id); n != nil {
			w := t.ToWorld(p)
			c.dragOffsetX = n.X - w.X
			c.dragOffsetY = n.Y - w.Y
		}
	}
}

// PointerMove advances hover, drag, or pan depending on the gesture state.
func (c *Controller) PointerMove(p viewport.Point) {
	t := c.scene.Transform()

	if c.pressed && !c.dragging && !c.panning && !c.glyphPressed {
		dx := p.X - c.pressPos.X
		dy := p.Y - c.pressPos.Y
		if dx*dx+dy*dy > c.opts.DragThreshold*c.opts.DragThreshold {
			if c.pressedID != "" {
				c.dragging = true
				c.clearHover()
			} else {
				c.panning = true
			}
		}
	}

	switch {
	case c.dragging:
		if n := c.scene.Node(c.pressedID); n != nil {
			w := t.ToWorld(p)
			n.Pin(w.X+c.dragOffsetX, w.Y+c.dragOffsetY)
			c.scene.Reheat(layout.ReheatDrag)
		}
	case c.panning:
		t.PanBy(p.X-c.lastPointerPos.X, p.Y-c.lastPointerPos.Y)
	default:
		c.updateHover(p)
	}
	c.lastPointerPos = p
}

// PointerUp ends the gesture: release a drag, or resolve a click.
func (c *Controller) PointerUp(p viewport.Point, mods Modifiers) {
	defer func() {
		c.pressed = false
		c.pressedID = ""
		c.glyphPressed = false
		c.dragging = false
		c.panning = false
	}()

	if c.dragging {
		if n := c.scene.Node(c.pressedID); n != nil && !c.opts.KeepPinned {
			n.Unpin()
		}
		c.scene.Reheat(layout.ReheatDrag)
		return
	}
	if c.panning {
		return
	}
	c.click(p, mods)
}

// click resolves a sub-threshold press/release pair. A second click on the
// same target inside the double-click window becomes a double-click instead,
// suppressing the ordinary click semantics.
func (c *Controller) click(p viewport.Point, mods Modifiers) {
	if c.glyphPressed {
		// Glyph presses never touch the selection and sit outside
		// double-click detection: rapid collapse/expand must each toggle.
		c.lastClickID = ""
		c.scene.ToggleCollapse(c.pressedID)
		return
	}

	now := c.now()
	isDouble := c.pressedID != "" &&
		c.pressedID == c.lastClickID &&
		now.Sub(c.lastClickAt) <= c.opts.DoubleClickWindow
	c.lastClickAt = now
	c.lastClickID = c.pressedID

	if isDouble {
		c.lastClickID = "" // a triple click starts over
		if c.scene.Collapsed().Has(c.pressedID) {
			c.scene.Expand(c.pressedID)
		}
		return
	}

	switch {
	case c.pressedID != "":
		if mods.Multi {
			c.selection.Toggle(c.pressedID)
		} else {
			clear(c.selection)
			c.selection.Add(c.pressedID)
		}
	default:
		clear(c.selection)
	}
}

// KeyPress handles keyboard input. Delete removes the subtree of every
// selected node.
func (c *Controller) KeyPress(key string) {
	switch key {
	case "Delete", "Backspace":
		for id := range c.selection {
			c.scene.DeleteSubtree(id)
		}
		clear(c.selection)
		c.clearHover()
	}
}

// Tick applies time-based transitions; the frame loop calls it every frame.
// Currently that is only the debounced hover exit.
func (c *Controller) Tick() {
	if !c.hoverClearAt.IsZero() && !c.now().Before(c.hoverClearAt) {
		c.clearHover()
	}
}

// updateHover recomputes hover from the pointer position: entry is
// immediate, exit waits out the debounce delay.
func (c *Controller) updateHover(p viewport.Point) {
	id := pick.Node(p, c.scene.VisibleNodes(), c.scene.Transform())
	if id != "" {
		c.hoverID = id
		c.hoverClearAt = time.Time{}
		return
	}
	if c.hoverID != "" && c.hoverClearAt.IsZero() {
		c.hoverClearAt = c.now().Add(c.opts.HoverClearDelay)
	}
}

func (c *Controller) clearHover() {
	c.hoverID = ""
	c.hoverClearAt = time.Time{}
}

// DropSelection removes ids that no longer exist (after deletions elsewhere).
func (c *Controller) DropSelection(removed graph.IDSet) {
	for id := range removed {
		c.selection.Remove(id)
		if c.hoverID == id {
			c.clearHover()
		}
	}
}

// ConnectedSet returns the highlight set for a hovered node: the node, its
// full ancestor chain, and its direct children for a root or its full
// descendant subtree otherwise.
func ConnectedSet(id string, rel *graph.Relations) graph.IDSet {
	if id == "" {
		return nil
	}
	set := graph.NewIDSet(id)
	for _, a := range rel.Ancestors(id) {
		set.Add(a)
	}
	if _, hasParent := rel.Parent(id); !hasParent {
		for _, child := range rel.Children(id) {
			set.Add(child)
		}
	} else {
		for _, d := range rel.Descendants(id) {
			set.Add(d)
		}
	}
	return set
}
