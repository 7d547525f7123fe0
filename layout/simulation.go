package layout

import (
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/TFMV/canopy/graph"
)

// Simulation default tuning. Alpha decays geometrically each tick and the
// simulation idles below alphaMin; reheating raises alpha without touching
// positions, so structural changes nudge the layout instead of restarting it.
const (
	alphaInitial  = 1.0
	alphaMin      = 0.005
	alphaDecay    = 0.028
	velocityDecay = 0.6

	// Reheat targets for the common triggers.
	ReheatStructural = 0.5
	ReheatDrag       = 0.3
	ReheatMode       = 0.4

	collisionBase = 0.7
	jitterScale   = 6.0
	noiseSeed     = 9221
)

// Simulation relaxes the positions of the current visible node set. It writes
// (X, Y, VX, VY) of every unpinned node each tick; pinned nodes are snapped
// to their fixed position with zero velocity. Like the graph package it is
// synchronization-free; the engine serializes access.
type Simulation struct {
	nodes []*graph.Node
	edges []*graph.Edge
	byID  map[string]*graph.Node

	mode      string
	spec      ModeSpec
	collision CollisionMode

	alpha float64
	noise opensimplex.Noise

	rootPinned *graph.Node
}

// NewSimulation creates an idle simulation in concentric mode with no data.
func NewSimulation() *Simulation {
	spec, _ := LookupMode(ModeConcentric)
	return &Simulation{
		byID:      make(map[string]*graph.Node),
		mode:      ModeConcentric,
		spec:      spec,
		collision: CollisionFull,
		noise:     opensimplex.NewNormalized(noiseSeed),
	}
}

// Mode returns the current layout mode name.
func (s *Simulation) Mode() string { return s.mode }

// Alpha returns the simulation temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Warm reports whether the simulation still has ticks to run.
func (s *Simulation) Warm() bool { return s.alpha >= alphaMin }

// Reheat raises alpha to at least target, never lowering it.
func (s *Simulation) Reheat(target float64) {
	s.alpha = math.Min(math.Max(s.alpha, target), alphaInitial)
}

// SetMode switches the layout mode, reseeds anchors for the current data, and
// gently reheats. Unknown names fall back to concentric and return the error.
func (s *Simulation) SetMode(name string, rel *graph.Relations) error {
	spec, err := LookupMode(name)
	s.spec = spec
	if err == nil {
		s.mode = name
	} else {
		s.mode = ModeConcentric
	}
	s.Reseed(rel)
	s.Reheat(ReheatMode)
	return err
}

// SetCollision switches the collision mode and reheats so the change shows.
func (s *Simulation) SetCollision(mode CollisionMode) {
	s.collision = mode
	s.Reheat(ReheatMode)
}

// SetData replaces the simulated node and edge set with the current visible
// subset. Surviving nodes keep their positions; anchors are recomputed and
// never-placed nodes are seeded at them. Replacing the data discards all
// previous solver state for departed nodes.
func (s *Simulation) SetData(nodes []*graph.Node, edges []*graph.Edge, rel *graph.Relations) {
	s.nodes = nodes
	s.edges = edges
	clear(s.byID)
	for _, n := range nodes {
		s.byID[n.ID] = n
	}
	s.Reseed(rel)
	s.Reheat(ReheatStructural)
}

// Reseed recomputes every node's anchor (InitialX/InitialY) from the current
// mode's placement rule. Positions are only assigned for nodes that have
// never been placed, so settled subtrees do not jump.
func (s *Simulation) Reseed(rel *graph.Relations) {
	if len(s.nodes) == 0 {
		return
	}

	// Seed level by level so a fan layout sees its parent's fresh anchor.
	levels := make(map[int][]*graph.Node)
	var order []int
	for _, n := range s.nodes {
		if len(levels[n.Level]) == 0 {
			order = append(order, n.Level)
		}
		levels[n.Level] = append(levels[n.Level], n)
	}
	sort.Ints(order)

	seq := 0
	for _, lvl := range order {
		members := levels[lvl]
		for _, group := range s.seedGroups(members, rel) {
			for i, n := range group.nodes {
				p := s.spec.Rule.InitialPosition(n.Level, i, len(group.nodes), group.parent)
				if n.Level > 0 {
					p.X += (s.noise.Eval2(float64(seq)*0.918, 0.37) - 0.5) * jitterScale
					p.Y += (s.noise.Eval2(0.53, float64(seq)*0.734) - 0.5) * jitterScale
				}
				n.InitialX, n.InitialY = p.X, p.Y
				if n.X == 0 && n.Y == 0 && n.Level > 0 {
					n.X, n.Y = p.X, p.Y
				}
				seq++
			}
		}
	}

	s.reseedRootPin(rel)
}

type seedGroup struct {
	parent Point
	nodes  []*graph.Node
}

// seedGroups splits one level's nodes into placement groups: the whole level
// for ring-style rules, or one group per parent for fan-style rules.
func (s *Simulation) seedGroups(members []*graph.Node, rel *graph.Relations) []seedGroup {
	if !s.spec.GroupByParent || rel == nil {
		return []seedGroup{{nodes: members}}
	}

	byParent := make(map[string][]*graph.Node)
	var order []string
	for _, n := range members {
		pid := rel.ParentOf[n.ID]
		if len(byParent[pid]) == 0 {
			order = append(order, pid)
		}
		byParent[pid] = append(byParent[pid], n)
	}

	groups := make([]seedGroup, 0, len(order))
	for _, pid := range order {
		g := seedGroup{nodes: byParent[pid]}
		if p := s.byID[pid]; p != nil {
			g.parent = Point{X: p.InitialX, Y: p.InitialY}
		}
		groups = append(groups, g)
	}
	return groups
}

// reseedRootPin pins level-0 nodes at the center in root-pinning modes and
// releases a pin left over from a previous mode.
func (s *Simulation) reseedRootPin(rel *graph.Relations) {
	if !s.spec.PinRoot {
		if s.rootPinned != nil {
			s.rootPinned.Unpin()
			s.rootPinned = nil
		}
		return
	}
	for _, n := range s.nodes {
		if n.Level == 0 {
			n.Pin(0, 0)
			s.rootPinned = n
			return
		}
	}
}

// Tick runs one relaxation step. It reports whether the simulation did any
// work; once alpha has decayed below the idle threshold it does nothing until
// reheated.
func (s *Simulation) Tick() bool {
	if !s.Warm() || len(s.nodes) == 0 {
		return false
	}

	s.applyCharge()
	s.applyLinks()
	s.applyCollision()
	s.applyCenterAndAnchor()
	s.integrate()

	s.alpha *= 1 - alphaDecay
	return true
}

// applyCharge accumulates pairwise repulsion, skipping pairs beyond the
// mode's interaction cap.
func (s *Simulation) applyCharge() {
	p := s.spec.Forces
	maxSq := p.ChargeMaxDist * p.ChargeMaxDist
	for i := 0; i < len(s.nodes); i++ {
		a := s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			distSq := dx*dx + dy*dy
			if distSq > maxSq {
				continue
			}
			if distSq < 1 {
				distSq = 1
			}
			// Inverse-distance falloff; negative strength pushes apart.
			f := p.ChargeStrength * s.alpha / distSq
			a.VX += dx * f
			a.VY += dy * f
			b.VX -= dx * f
			b.VY -= dy * f
		}
	}
}

// applyLinks pulls each linked pair toward the mode's target distance.
func (s *Simulation) applyLinks() {
	p := s.spec.Forces
	for _, e := range s.edges {
		a := s.byID[e.Source]
		b := s.byID[e.Target]
		if a == nil || b == nil {
			continue
		}
		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.1)
		f := (dist - p.LinkDistance) / dist * p.LinkStrength * s.alpha
		fx, fy := dx*f*0.5, dy*f*0.5
		a.VX += fx
		a.VY += fy
		b.VX -= fx
		b.VY -= fy
	}
}

// applyCollision separates overlapping nodes. Radii come from the shared
// per-level step function plus the mode's padding.
func (s *Simulation) applyCollision() {
	strength := collisionBase * s.collision.strength()
	if strength == 0 {
		return
	}
	pad := s.spec.Forces.CollisionPad
	for i := 0; i < len(s.nodes); i++ {
		a := s.nodes[i]
		ra := graph.NodeRadius(a.Level) + pad
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]
			minDist := ra + graph.NodeRadius(b.Level) + pad
			dx := b.X - a.X
			dy := b.Y - a.Y
			distSq := dx*dx + dy*dy
			if distSq >= minDist*minDist {
				continue
			}
			dist := math.Max(math.Sqrt(distSq), 0.1)
			push := (minDist - dist) / dist * strength * 0.5
			a.VX -= dx * push
			a.VY -= dy * push
			b.VX += dx * push
			b.VY += dy * push
		}
	}
}

// applyCenterAndAnchor adds the weak pull toward the layout center and the
// restoring pull toward each node's structural anchor.
func (s *Simulation) applyCenterAndAnchor() {
	p := s.spec.Forces
	for _, n := range s.nodes {
		n.VX += -n.X * p.CenterStrength * s.alpha
		n.VY += -n.Y * p.CenterStrength * s.alpha
		n.VX += (n.InitialX - n.X) * p.AnchorStrength * s.alpha
		n.VY += (n.InitialY - n.Y) * p.AnchorStrength * s.alpha
	}
}

// integrate applies damped velocities. Pinned nodes snap to their fixed
// position; the drag handler is the only writer of that position, the
// simulation only copies it.
func (s *Simulation) integrate() {
	for _, n := range s.nodes {
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= velocityDecay
		n.VY *= velocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
}
