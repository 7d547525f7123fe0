// Package engine composes the canopy components into one interactive
// surface: the graph model, the force layout, the viewport transform, the
// interaction state machine, the render pipeline, and the overview minimap.
//
// The engine is the only holder of the mutex; host event callbacks and the
// frame loop both enter through it, and the library packages underneath are
// deliberately lock-free.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TFMV/canopy/config"
	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/interact"
	"github.com/TFMV/canopy/layout"
	"github.com/TFMV/canopy/overview"
	"github.com/TFMV/canopy/render"
	"github.com/TFMV/canopy/viewport"
)

// FrameInterval is the target frame cadence of Run.
const FrameInterval = time.Second / 60

// SearchResult marks a node matched by an external search index; matched
// nodes get a tinted border.
type SearchResult struct {
	NodeID  string   `json:"node_id"`
	Matches []string `json:"matches,omitempty"`
}

// Stats is the live counter snapshot exposed to metrics panels.
type Stats struct {
	TotalNodes   int     `json:"total_nodes"`
	TotalEdges   int     `json:"total_edges"`
	VisibleNodes int     `json:"visible_nodes"`
	VisibleEdges int     `json:"visible_edges"`
	Alpha        float64 `json:"alpha"`
	FPS          float64 `json:"fps"`
	Mode         string  `json:"mode"`
}

// Engine is the interactive graph surface.
type Engine struct {
	mu  sync.Mutex
	log *zap.Logger
	cfg *config.Config

	g         *graph.Graph
	collapsed graph.IDSet
	vis       *graph.Visibility
	visNodes  []*graph.Node
	visEdges  []*graph.Edge
	matches   graph.IDSet

	sim       *layout.Simulation
	transform *viewport.Transform
	ctrl      *interact.Controller
	pipe      *render.Pipeline
	mini      *overview.Overview

	width  float64
	height float64

	frames      int
	windowStart time.Time
	fps         float64
}

// New creates an engine with the given configuration. A nil config uses the
// defaults; a nil logger logs nowhere.
func New(cfg *config.Config, log *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	t := viewport.NewTransform()
	t.KMin = cfg.Viewport.MinScale
	t.KMax = cfg.Viewport.MaxScale

	e := &Engine{
		log:       log.Named("engine"),
		cfg:       cfg,
		g:         graph.NewEmpty(),
		collapsed: make(graph.IDSet),
		matches:   make(graph.IDSet),
		sim:       layout.NewSimulation(),
		transform: t,
		pipe:      render.NewPipeline(),
		mini:      overview.New(200, 150),
	}
	e.pipe.Opts = render.Options{
		ShowRings:      cfg.Render.ShowRings,
		ShowLevelBadge: cfg.Render.ShowLevelBadge,
		ShowChildCount: cfg.Render.ShowChildCount,
		RingStep:       render.DefaultOptions().RingStep,
		LabelMinZoom:   cfg.Render.LabelMinZoom,
		BadgeMinZoom:   cfg.Render.BadgeMinZoom,
		RingLabelZoom:  cfg.Render.RingLabelZoom,
	}
	e.ctrl = interact.NewController(&scene{e}, interact.Options{
		DragThreshold:     cfg.Interact.DragThresholdPx,
		HoverClearDelay:   cfg.Interact.HoverClearDelay.Std(),
		DoubleClickWindow: cfg.Interact.DoubleClickWindow.Std(),
		KeepPinned:        cfg.Interact.KeepPinned,
	})
	e.sim.SetCollision(layout.CollisionMode(cfg.Layout.Collision))
	if cfg.Layout.Mode != layout.ModeConcentric {
		// Mode errors were caught by config validation.
		_ = e.sim.SetMode(cfg.Layout.Mode, nil)
	}
	e.refreshLocked()
	return e
}

// SetSurfaceSize records the drawing surface's pixel size. Until a non-zero
// size arrives, rendering is a no-op.
func (e *Engine) SetSurfaceSize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	first := e.width == 0 && e.height == 0
	e.width, e.height = width, height
	if first && e.g.Len() > 0 {
		e.zoomToFitLocked()
	}
}

// SetData replaces the graph. Collapse and selection state reset; the
// previous solver state is discarded with the old node set, and the view is
// fitted to the new graph if the surface is measured.
func (e *Engine) SetData(g *graph.Graph) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if g == nil {
		g = graph.NewEmpty()
	}
	if limit := e.cfg.Layout.MaxVisibleNodes; limit > 0 && g.Len() > limit {
		e.log.Warn("node count over cap, truncating",
			zap.Int("nodes", g.Len()), zap.Int("cap", limit))
		g = graph.New(g.Nodes[:limit], g.Edges)
	}

	e.g = g
	clear(e.collapsed)
	clear(e.matches)
	e.ctrl.DropSelection(allIDs(g))
	e.refreshLocked()
	if e.width > 0 && e.height > 0 {
		e.zoomToFitLocked()
	}
	e.log.Info("graph loaded", zap.Int("nodes", g.Len()), zap.Int("edges", len(g.Edges)))
}

// refreshLocked recomputes visibility and hands the visible subset to the
// simulation. Callers hold the mutex.
func (e *Engine) refreshLocked() {
	e.vis = e.g.ComputeVisibility(e.collapsed)
	e.visNodes = e.g.VisibleNodes(e.vis)
	e.visEdges = e.g.VisibleEdges(e.vis)
	e.sim.SetData(e.visNodes, e.visEdges, e.vis.Relations)
}

func (e *Engine) zoomToFitLocked() {
	points := make([]viewport.Point, len(e.visNodes))
	for i, n := range e.visNodes {
		// Fit against anchors: actual positions may still be mid-flight.
		points[i] = viewport.Point{X: n.InitialX, Y: n.InitialY}
	}
	e.transform.ZoomToFit(points, e.width, e.height, 50)
}

// Advance runs one cooperative tick: time-based interaction transitions and,
// while the simulation is warm, one relaxation step. The render path is
// separate so hover and selection keep painting after the layout goes idle.
func (e *Engine) Advance() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ctrl.Tick()
	e.sim.Tick()

	now := time.Now()
	if e.windowStart.IsZero() {
		e.windowStart = now
	}
	e.frames++
	if elapsed := now.Sub(e.windowStart); elapsed >= time.Second {
		e.fps = float64(e.frames) / elapsed.Seconds()
		e.frames = 0
		e.windowStart = now
	}
}

// RenderTo draws the current frame onto the canvas, reading live state so a
// drag applied a moment ago is already visible.
func (e *Engine) RenderTo(c render.Canvas) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderLocked(c)
}

func (e *Engine) renderLocked(c render.Canvas) {
	hover := e.ctrl.HoverID()
	var connected graph.IDSet
	if hover != "" {
		connected = interact.ConnectedSet(hover, e.vis.Relations)
	}
	e.pipe.Draw(c, &render.Scene{
		Nodes:     e.visNodes,
		Edges:     e.visEdges,
		Relations: e.vis.Relations,
		Collapsed: e.collapsed,
		Selection: e.ctrl.Selection(),
		Connected: connected,
		Matches:   e.matches,
		HoverID:   hover,
		Transform: e.transform,
		Width:     e.width,
		Height:    e.height,
	})
}

// Run drives the frame loop at ~60 Hz until the context is cancelled: one
// Advance and one rendered frame per tick, with onFrame (if non-nil) invoked
// after each render. Cancellation releases the ticker; nothing leaks.
func (e *Engine) Run(ctx context.Context, c render.Canvas, onFrame func(render.Canvas)) {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	e.log.Info("frame loop started")
	for {
		select {
		case <-ctx.Done():
			e.log.Info("frame loop stopped")
			return
		case <-ticker.C:
			e.Advance()
			e.RenderTo(c)
			if onFrame != nil {
				onFrame(c)
			}
		}
	}
}

// PointerDown forwards a pointer press at surface pixel (x, y).
func (e *Engine) PointerDown(x, y float64, multi bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctrl.PointerDown(viewport.Point{X: x, Y: y}, interact.Modifiers{Multi: multi})
}

// PointerMove forwards pointer motion.
func (e *Engine) PointerMove(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctrl.PointerMove(viewport.Point{X: x, Y: y})
}

// PointerUp forwards a pointer release.
func (e *Engine) PointerUp(x, y float64, multi bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctrl.PointerUp(viewport.Point{X: x, Y: y}, interact.Modifiers{Multi: multi})
}

// KeyPress forwards a key press (Delete removes selected subtrees).
func (e *Engine) KeyPress(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctrl.KeyPress(key)
}

// Wheel zooms at the pointer position by the given factor.
func (e *Engine) Wheel(x, y, factor float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transform.ZoomAt(viewport.Point{X: x, Y: y}, factor)
}

// ZoomToFit frames the whole visible graph.
func (e *Engine) ZoomToFit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.width > 0 && e.height > 0 {
		points := make([]viewport.Point, len(e.visNodes))
		for i, n := range e.visNodes {
			points[i] = viewport.Point{X: n.X, Y: n.Y}
		}
		e.transform.ZoomToFit(points, e.width, e.height, 50)
	}
}

// SetLayoutMode switches the placement/force mode, reseeding anchors and
// gently reheating. Unknown names fall back to concentric and return the
// error.
func (e *Engine) SetLayoutMode(mode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.sim.SetMode(mode, e.vis.Relations)
	if err != nil {
		e.log.Warn("unknown layout mode", zap.String("mode", mode))
	}
	return err
}

// SetCollisionMode switches the collision force mode.
func (e *Engine) SetCollisionMode(mode layout.CollisionMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sim.SetCollision(mode)
}

// SetSearchResults replaces the search-match tint set.
func (e *Engine) SetSearchResults(results []SearchResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.matches)
	for _, r := range results {
		e.matches.Add(r.NodeID)
	}
}

// ToggleCollapse flips a node's collapsed state and recomputes visibility.
func (e *Engine) ToggleCollapse(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toggleCollapseLocked(id)
}

func (e *Engine) toggleCollapseLocked(id string) {
	if e.g.Node(id) == nil {
		return
	}
	e.collapsed.Toggle(id)
	e.refreshLocked()
}

// AddChild grows the tree under the given parent and reheats the layout. The
// returned node is a copy; the live one belongs to the simulation.
func (e *Engine) AddChild(parentID string) (graph.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, _, err := e.g.AddChild(parentID)
	if err != nil {
		return graph.Node{}, fmt.Errorf("engine: %w", err)
	}
	e.refreshLocked()
	return *n, nil
}

// DeleteSubtree removes a node and its descendants.
func (e *Engine) DeleteSubtree(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleteSubtreeLocked(id)
}

func (e *Engine) deleteSubtreeLocked(id string) error {
	removed, err := e.g.DeleteSubtree(id)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	for rid := range removed {
		e.collapsed.Remove(rid)
		e.matches.Remove(rid)
	}
	e.ctrl.DropSelection(removed)
	e.refreshLocked()
	return nil
}

// HoveredID returns the hovered node id, or "".
func (e *Engine) HoveredID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.HoverID()
}

// SelectedIDs returns the selected node ids, sorted for stable output.
func (e *Engine) SelectedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.ctrl.Selection()))
	for id := range e.ctrl.Selection() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Transform returns a snapshot of the main viewport transform.
func (e *Engine) Transform() viewport.Transform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.transform
}

// Cursor returns the cursor the host should currently show.
func (e *Engine) Cursor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Cursor()
}

// Stats returns the live counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		TotalNodes:   e.g.Len(),
		TotalEdges:   len(e.g.Edges),
		VisibleNodes: len(e.visNodes),
		VisibleEdges: len(e.visEdges),
		Alpha:        e.sim.Alpha(),
		FPS:          e.fps,
		Mode:         e.sim.Mode(),
	}
}

// RenderOverview draws the minimap: every node regardless of collapse, plus
// the main viewport rectangle.
func (e *Engine) RenderOverview(c render.Canvas) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mini.Render(c, e.g.Nodes, e.transform, e.width, e.height)
}

// OverviewDragBy forwards a drag gesture on the minimap to the main
// viewport.
func (e *Engine) OverviewDragBy(dx, dy float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mini.DragBy(dx, dy, e.transform)
}

// OverviewWheel forwards a scroll on the minimap to the main viewport.
func (e *Engine) OverviewWheel(x, y, factor float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mini.Wheel(viewport.Point{X: x, Y: y}, factor, e.transform)
}

// Snapshot returns copies of the current nodes and edges, taken under the
// engine lock. Callers may read or marshal them while the frame loop keeps
// mutating the live graph.
func (e *Engine) Snapshot() ([]graph.Node, []graph.Edge) {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodes := make([]graph.Node, len(e.g.Nodes))
	for i, n := range e.g.Nodes {
		nodes[i] = *n
	}
	edges := make([]graph.Edge, len(e.g.Edges))
	for i, ed := range e.g.Edges {
		edges[i] = *ed
	}
	return nodes, edges
}

func allIDs(g *graph.Graph) graph.IDSet {
	s := make(graph.IDSet, g.Len())
	for _, n := range g.Nodes {
		s.Add(n.ID)
	}
	return s
}

// scene adapts the engine to interact.Scene without re-entering the mutex:
// the controller only runs inside engine calls that already hold it.
type scene struct{ e *Engine }

func (s *scene) VisibleNodes() []*graph.Node { return s.e.visNodes }
func (s *scene) Node(id string) *graph.Node  { return s.e.g.Node(id) }

func (s *scene) Parent(id string) *graph.Node {
	if pid, ok := s.e.vis.Relations.Parent(id); ok {
		return s.e.g.Node(pid)
	}
	return nil
}

func (s *scene) HasChildren(id string) bool {
	return s.e.vis.Relations.HasChildren(id)
}

func (s *scene) Collapsed() graph.IDSet { return s.e.collapsed }

func (s *scene) ToggleCollapse(id string) { s.e.toggleCollapseLocked(id) }

func (s *scene) Expand(id string) {
	if s.e.collapsed.Has(id) {
		s.e.collapsed.Remove(id)
		s.e.refreshLocked()
	}
}

func (s *scene) DeleteSubtree(id string) {
	if err := s.e.deleteSubtreeLocked(id); err != nil {
		s.e.log.Warn("delete subtree", zap.String("id", id), zap.Error(err))
	}
}

func (s *scene) Reheat(target float64) { s.e.sim.Reheat(target) }

func (s *scene) Transform() *viewport.Transform { return s.e.transform }
