package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrNodeNotFound is returned by mutations referencing an unknown node id.
var ErrNodeNotFound = errors.New("graph: node not found")

// childSeedDistance is how far from the parent a freshly added child is
// placed before the simulation takes over.
const childSeedDistance = 40.0

// AddChild allocates a new node one level below the parent, links it with an
// edge, and seeds its position near the parent. The uuid allocation makes the
// id unique without a collision check.
func (g *Graph) AddChild(parentID string) (*Node, *Edge, error) {
	parent := g.byID[parentID]
	if parent == nil {
		return nil, nil, fmt.Errorf("add child of %q: %w", parentID, ErrNodeNotFound)
	}

	id := uuid.New().String()
	siblings := float64(len(g.DeriveRelations().ChildrenOf[parentID]))
	angle := siblings * (math.Pi / 4)
	child := &Node{
		ID:       id,
		Label:    "node-" + id[:8],
		Level:    parent.Level + 1,
		Type:     parent.Type,
		X:        parent.X + childSeedDistance*math.Cos(angle),
		Y:        parent.Y + childSeedDistance*math.Sin(angle),
		InitialX: parent.X,
		InitialY: parent.Y,
	}
	edge := &Edge{Source: parentID, Target: id}

	g.Nodes = append(g.Nodes, child)
	g.Edges = append(g.Edges, edge)
	g.byID[id] = child
	return child, edge, nil
}

// DeleteSubtree removes the node, all transitive descendants, and every edge
// touching a removed id, in one pass over each list. The returned set holds
// the removed ids.
func (g *Graph) DeleteSubtree(id string) (IDSet, error) {
	if g.byID[id] == nil {
		return nil, fmt.Errorf("delete subtree %q: %w", id, ErrNodeNotFound)
	}

	doomed := NewIDSet(id)
	for _, d := range g.DeriveRelations().Descendants(id) {
		doomed.Add(d)
	}

	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if !doomed.Has(n.ID) {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if !doomed.Has(e.Source) && !doomed.Has(e.Target) {
			edges = append(edges, e)
		}
	}
	g.Edges = edges

	g.reindex()
	return doomed, nil
}
