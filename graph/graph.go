// Package graph provides the node-link data model for canopy: a flat node and
// edge list with tree relations derived from it, visibility under a set of
// collapsed nodes, and the add-child / delete-subtree mutations.
//
// The package carries no synchronization. The engine serializes all access;
// nothing here may be called concurrently with a mutation.
package graph

// Node is a single graph node. Position and velocity are owned by the layout
// simulation except while the node is pinned (FX/FY non-nil), in which case
// the drag handler owns position and velocity stays zero.
type Node struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Level  int    `json:"level"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`

	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"-"`
	VY float64 `json:"-"`

	// Anchor for the restoring force, recomputed whenever the visible set or
	// layout mode changes.
	InitialX float64 `json:"-"`
	InitialY float64 `json:"-"`

	// Pinned position while dragged, nil otherwise.
	FX *float64 `json:"-"`
	FY *float64 `json:"-"`
}

// Pinned reports whether the node's position is currently user-driven.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Pin fixes the node at (x, y) and zeroes its velocity.
func (n *Node) Pin(x, y float64) {
	n.X, n.Y = x, y
	n.FX, n.FY = &x, &y
	n.VX, n.VY = 0, 0
}

// Unpin releases a pinned node back to the simulation.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Edge is a directed edge used for hierarchy derivation (Source is the
// parent). Rendering treats edges as non-directional.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a mutable collection of nodes and edges with an id index.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	byID map[string]*Node
}

// New creates a graph from the supplied node and edge lists. The node slice
// is indexed, not copied; callers hand over ownership.
func New(nodes []*Node, edges []*Edge) *Graph {
	g := &Graph{
		Nodes: nodes,
		Edges: edges,
		byID:  make(map[string]*Node, len(nodes)),
	}
	g.reindex()
	return g
}

// NewEmpty creates a graph with no nodes or edges.
func NewEmpty() *Graph {
	return New(nil, nil)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.byID[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

func (g *Graph) reindex() {
	if g.byID == nil {
		g.byID = make(map[string]*Node, len(g.Nodes))
	} else {
		clear(g.byID)
	}
	for _, n := range g.Nodes {
		g.byID[n.ID] = n
	}
}

// IDSet is a set of node ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set contains nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id string) { s[id] = struct{}{} }

// Remove deletes id from the set.
func (s IDSet) Remove(id string) { delete(s, id) }

// Toggle flips membership of id and reports the new state.
func (s IDSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}
