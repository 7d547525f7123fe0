package interact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/pick"
	"github.com/TFMV/canopy/viewport"
)

// testScene is a minimal Scene over a real graph, recording mutations.
type testScene struct {
	g         *graph.Graph
	collapsed graph.IDSet
	transform *viewport.Transform
	reheats   int
	deleted   []string
}

func newTestScene() *testScene {
	g := graph.New(
		[]*graph.Node{
			{ID: "root", Level: 0, X: 0, Y: 0},
			{ID: "a", Level: 1, X: 200, Y: 0},
			{ID: "b", Level: 1, X: -200, Y: 0},
			{ID: "a1", Level: 2, X: 300, Y: 0},
		},
		[]*graph.Edge{
			{Source: "root", Target: "a"},
			{Source: "root", Target: "b"},
			{Source: "a", Target: "a1"},
		},
	)
	return &testScene{
		g:         g,
		collapsed: make(graph.IDSet),
		transform: viewport.NewTransform(),
	}
}

func (s *testScene) rel() *graph.Relations { return s.g.DeriveRelations() }

func (s *testScene) VisibleNodes() []*graph.Node {
	v := s.g.ComputeVisibility(s.collapsed)
	return s.g.VisibleNodes(v)
}
func (s *testScene) Node(id string) *graph.Node { return s.g.Node(id) }
func (s *testScene) Parent(id string) *graph.Node {
	if pid, ok := s.rel().Parent(id); ok {
		return s.g.Node(pid)
	}
	return nil
}
func (s *testScene) HasChildren(id string) bool    { return s.rel().HasChildren(id) }
func (s *testScene) Collapsed() graph.IDSet        { return s.collapsed }
func (s *testScene) ToggleCollapse(id string)      { s.collapsed.Toggle(id) }
func (s *testScene) Expand(id string)              { s.collapsed.Remove(id) }
func (s *testScene) DeleteSubtree(id string)       { s.deleted = append(s.deleted, id); s.g.DeleteSubtree(id) }
func (s *testScene) Reheat(target float64)         { s.reheats++ }
func (s *testScene) Transform() *viewport.Transform { return s.transform }

func newController(s *testScene) (*Controller, *time.Time) {
	c := NewController(s, DefaultOptions())
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestClickSelectsNode(t *testing.T) {
	s := newTestScene()
	c, _ := newController(s)

	c.PointerDown(viewport.Point{X: 200, Y: 0}, Modifiers{})
	c.PointerUp(viewport.Point{X: 200, Y: 0}, Modifiers{})

	assert.True(t, c.Selection().Has("a"))
	assert.Len(t, c.Selection(), 1)
}

func TestClickReplacesUnlessMultiModifier(t *testing.T) {
	s := newTestScene()
	c, now := newController(s)

	press := func(x float64, mods Modifiers) {
		*now = now.Add(time.Second) // keep clicks apart
		c.PointerDown(viewport.Point{X: x, Y: 0}, mods)
		c.PointerUp(viewport.Point{X: x, Y: 0}, mods)
	}

	press(200, Modifiers{})
	press(-200, Modifiers{Multi: true})
	assert.Len(t, c.Selection(), 2)

	press(-200, Modifiers{Multi: true}) // modifier-click toggles off
	assert.True(t, c.Selection().Has("a"))
	assert.Len(t, c.Selection(), 1)

	press(-200, Modifiers{}) // plain click replaces
	assert.True(t, c.Selection().Has("b"))
	assert.Len(t, c.Selection(), 1)
}

func TestBackgroundClickClearsSelection(t *testing.T) {
	s := newTestScene()
	c, now := newController(s)

	c.PointerDown(viewport.Point{X: 200, Y: 0}, Modifiers{})
	c.PointerUp(viewport.Point{X: 200, Y: 0}, Modifiers{})
	require.Len(t, c.Selection(), 1)

	*now = now.Add(time.Second)
	c.PointerDown(viewport.Point{X: 555, Y: 555}, Modifiers{})
	c.PointerUp(viewport.Point{X: 555, Y: 555}, Modifiers{})
	assert.Empty(t, c.Selection())
}

func TestDragPinsAndReheats(t *testing.T) {
	s := newTestScene()
	c, _ := newController(s)
	n := s.g.Node("a")

	c.PointerDown(viewport.Point{X: 200, Y: 0}, Modifiers{})
	assert.False(t, c.Dragging())

	// Under the threshold: still a potential click.
	c.PointerMove(viewport.Point{X: 201, Y: 1})
	assert.False(t, c.Dragging())

	c.PointerMove(viewport.Point{X: 240, Y: 30})
	assert.True(t, c.Dragging())
	assert.True(t, n.Pinned())
	assert.InDelta(t, 240, n.X, 1e-9)
	assert.InDelta(t, 30, n.Y, 1e-9)
	assert.Equal(t, "grabbing", c.Cursor())
	assert.Greater(t, s.reheats, 0)

	c.PointerUp(viewport.Point{X: 240, Y: 30}, Modifiers{})
	assert.False(t, n.Pinned())
	assert.False(t, c.Dragging())
	// A drag is not a click: nothing got selected.
	assert.Empty(t, c.Selection())
}

func TestDragKeepPinned(t *testing.T) {
	s := newTestScene()
	opts := DefaultOptions()
	opts.KeepPinned = true
	c := NewController(s, opts)

	c.PointerDown(viewport.Point{X: 200, Y: 0}, Modifiers{})
	c.PointerMove(viewport.Point{X: 260, Y: 0})
	c.PointerUp(viewport.Point{X: 260, Y: 0}, Modifiers{})
	assert.True(t, s.g.Node("a").Pinned())
}

func TestBackgroundDragPans(t *testing.T) {
	s := newTestScene()
	c, _ := newController(s)

	c.PointerDown(viewport.Point{X: 500, Y: 500}, Modifiers{})
	c.PointerMove(viewport.Point{X: 530, Y: 490})
	c.PointerUp(viewport.Point{X: 530, Y: 490}, Modifiers{})

	assert.InDelta(t, 30, s.transform.TX, 1e-9)
	assert.InDelta(t, -10, s.transform.TY, 1e-9)
	assert.Empty(t, c.Selection(), "a pan is not a background click")
}

func TestGlyphClickTogglesCollapse(t *testing.T) {
	s := newTestScene()
	c, now := newController(s)

	// Node a has children; its parent is root at the origin, so the glyph
	// sits on the far side along +X.
	a := s.g.Node("a")
	center := pick.GlyphCenter(a, s.g.Node("root"), s.transform.K)
	p := s.transform.ToScreen(viewport.Point{X: center.X, Y: center.Y})

	c.PointerDown(p, Modifiers{})
	c.PointerUp(p, Modifiers{})
	assert.True(t, s.collapsed.Has("a"))
	assert.Empty(t, c.Selection(), "glyph press suppresses selection")

	*now = now.Add(time.Second)
	c.PointerDown(p, Modifiers{})
	c.PointerUp(p, Modifiers{})
	assert.False(t, s.collapsed.Has("a"))
}

func TestRapidGlyphClicksEachToggle(t *testing.T) {
	s := newTestScene()
	c, now := newController(s)

	a := s.g.Node("a")
	center := pick.GlyphCenter(a, s.g.Node("root"), s.transform.K)
	p := s.transform.ToScreen(viewport.Point{X: center.X, Y: center.Y})

	// Two glyph clicks well inside the double-click window: collapse, then
	// expand, with no swallowed second click.
	c.PointerDown(p, Modifiers{})
	c.PointerUp(p, Modifiers{})
	require.True(t, s.collapsed.Has("a"))

	*now = now.Add(50 * time.Millisecond)
	c.PointerDown(p, Modifiers{})
	c.PointerUp(p, Modifiers{})
	assert.False(t, s.collapsed.Has("a"))

	*now = now.Add(50 * time.Millisecond)
	c.PointerDown(p, Modifiers{})
	c.PointerUp(p, Modifiers{})
	assert.True(t, s.collapsed.Has("a"))
}

func TestDoubleClickExpandsOnly(t *testing.T) {
	s := newTestScene()
	c, now := newController(s)
	s.collapsed.Add("a")

	click := func() {
		c.PointerDown(viewport.Point{X: 200, Y: 0}, Modifiers{})
		c.PointerUp(viewport.Point{X: 200, Y: 0}, Modifiers{})
	}

	click()
	*now = now.Add(100 * time.Millisecond)
	click()
	assert.False(t, s.collapsed.Has("a"), "double-click expands a collapsed node")

	// Double-click on an expanded node never collapses it.
	*now = now.Add(time.Second)
	click()
	*now = now.Add(100 * time.Millisecond)
	click()
	assert.False(t, s.collapsed.Has("a"))
}

func TestHoverEntryImmediateExitDebounced(t *testing.T) {
	s := newTestScene()
	c, now := newController(s)

	c.PointerMove(viewport.Point{X: 200, Y: 0})
	assert.Equal(t, "a", c.HoverID())
	assert.Equal(t, "pointer", c.Cursor())

	// Off the node: hover survives until the debounce elapses.
	c.PointerMove(viewport.Point{X: 600, Y: 600})
	c.Tick()
	assert.Equal(t, "a", c.HoverID())

	*now = now.Add(DefaultOptions().HoverClearDelay + time.Millisecond)
	c.Tick()
	assert.Equal(t, "", c.HoverID())
}

func TestHoverReentryCancelsPendingClear(t *testing.T) {
	s := newTestScene()
	c, now := newController(s)

	c.PointerMove(viewport.Point{X: 200, Y: 0})
	c.PointerMove(viewport.Point{X: 600, Y: 600})
	c.PointerMove(viewport.Point{X: 200, Y: 0}) // back on the node

	*now = now.Add(time.Hour)
	c.Tick()
	assert.Equal(t, "a", c.HoverID())
}

func TestDeleteKeyRemovesSelectedSubtrees(t *testing.T) {
	s := newTestScene()
	c, _ := newController(s)

	c.PointerDown(viewport.Point{X: 200, Y: 0}, Modifiers{})
	c.PointerUp(viewport.Point{X: 200, Y: 0}, Modifiers{})
	require.True(t, c.Selection().Has("a"))

	c.KeyPress("Delete")
	assert.Equal(t, []string{"a"}, s.deleted)
	assert.Nil(t, s.g.Node("a1"), "descendants removed with the subtree")
	assert.Empty(t, c.Selection())
}

func TestConnectedSet(t *testing.T) {
	s := newTestScene()
	rel := s.rel()

	// Non-root: self + ancestors + full descendant subtree.
	set := ConnectedSet("a", rel)
	assert.ElementsMatch(t, []string{"a", "root", "a1"}, setKeys(set))

	// Root: self + direct children only.
	set = ConnectedSet("root", rel)
	assert.ElementsMatch(t, []string{"root", "a", "b"}, setKeys(set))

	assert.Nil(t, ConnectedSet("", rel))
}

func setKeys(s graph.IDSet) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
