// Package layout assigns positions to visible nodes: a structural initial
// placement keyed on layout mode, then continuous refinement by a force
// simulation that cools down and goes idle until something reheats it.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// Point is a world-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlacementRule computes the structural initial position for one node. level
// is the node's depth (root 0), index/count describe the node's slot within
// its seeding group, and parent is the parent's current position (the zero
// Point for roots). The world origin is the layout center.
type PlacementRule interface {
	InitialPosition(level, index, count int, parent Point) Point
	Name() string
}

// ErrUnknownMode is returned when a mode name has no registered rule.
var ErrUnknownMode = errors.New("layout: unknown mode")

// Mode names. Cluster shares concentric seeding and differs only in force
// weights; radial-tree shares it too but pins the root at the center.
const (
	ModeConcentric   = "concentric"
	ModeProgressive  = "progressive"
	ModeHierarchical = "hierarchical"
	ModeRadialTree   = "radial-tree"
	ModeCluster      = "cluster"
)

// ModeSpec bundles everything mode-dependent: the placement geometry, the
// force weights, how seeding groups siblings, and whether the root is pinned.
type ModeSpec struct {
	Rule          PlacementRule
	Forces        ForceParams
	GroupByParent bool // seed groups are a parent's children, not a whole level
	PinRoot       bool
}

var modes = map[string]ModeSpec{
	ModeConcentric: {
		Rule:   ringRule{step: 130},
		Forces: concentricForces,
	},
	ModeProgressive: {
		Rule:   progressiveRule{base: 130, growth: 1.35},
		Forces: progressiveForces,
	},
	ModeHierarchical: {
		Rule:          fanRule{step: 120, spread: math.Pi / 2},
		Forces:        hierarchicalForces,
		GroupByParent: true,
	},
	ModeRadialTree: {
		Rule:    ringRule{step: 130},
		Forces:  radialTreeForces,
		PinRoot: true,
	},
	ModeCluster: {
		Rule:   ringRule{step: 110},
		Forces: clusterForces,
	},
}

// LookupMode returns the ModeSpec for the named mode, falling back to concentric
// for unknown names. The error lets callers surface the typo without losing
// a usable layout.
func LookupMode(name string) (ModeSpec, error) {
	if spec, ok := modes[name]; ok {
		return spec, nil
	}
	return modes[ModeConcentric], fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// ModeNames returns the registered mode names.
func ModeNames() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	return names
}

// ringRule places each level on a circle of radius level*step, members evenly
// spaced by angle. The root lands at the center. Used by concentric, cluster
// and radial-tree.
type ringRule struct {
	step float64
}

func (r ringRule) Name() string { return "ring" }

func (r ringRule) InitialPosition(level, index, count int, _ Point) Point {
	if level <= 0 {
		return Point{}
	}
	return onRing(float64(level)*r.step, index, count)
}

// progressiveRule grows ring radius geometrically with level so deep, crowded
// levels get disproportionately more circumference.
type progressiveRule struct {
	base   float64
	growth float64
}

func (r progressiveRule) Name() string { return "progressive" }

func (r progressiveRule) InitialPosition(level, index, count int, _ Point) Point {
	if level <= 0 {
		return Point{}
	}
	radius := r.base * math.Pow(r.growth, float64(level-1))
	return onRing(radius, index, count)
}

// fanRule derives each child's angle from its parent's angle plus a bounded
// spread divided among the siblings, with radius growing linearly. Children
// of the root (parent at the center, where no angle exists) fall back to even
// spacing around the full circle.
type fanRule struct {
	step   float64
	spread float64
}

func (r fanRule) Name() string { return "fan" }

func (r fanRule) InitialPosition(level, index, count int, parent Point) Point {
	if level <= 0 {
		return Point{}
	}
	radius := float64(level) * r.step
	if count < 1 {
		count = 1
	}

	if parent.X == 0 && parent.Y == 0 {
		return onRing(radius, index, count)
	}

	parentAngle := math.Atan2(parent.Y, parent.X)
	angle := parentAngle - r.spread/2 + r.spread*(float64(index)+0.5)/float64(count)
	return Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}

func onRing(radius float64, index, count int) Point {
	if count < 1 {
		count = 1
	}
	angle := 2 * math.Pi * float64(index) / float64(count)
	return Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}
