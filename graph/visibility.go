package graph

// Visibility is the derived visible subset of a graph under a collapsed set.
type Visibility struct {
	Visible   IDSet
	Relations *Relations
}

// ComputeVisibility derives the relations and the visible node set for the
// given collapsed ids. A node is visible iff none of its ancestors, starting
// at the direct parent, is collapsed. Nodes without a parent are visible
// unconditionally, collapsed or not: collapsing hides descendants, never the
// collapsed node itself.
func (g *Graph) ComputeVisibility(collapsed IDSet) *Visibility {
	r := g.DeriveRelations()
	v := &Visibility{
		Visible:   make(IDSet, len(g.Nodes)),
		Relations: r,
	}
	for _, n := range g.Nodes {
		if r.isVisible(n.ID, collapsed) {
			v.Visible.Add(n.ID)
		}
	}
	return v
}

// isVisible walks the ancestor chain looking for a collapsed ancestor. The
// visited guard bounds the walk on cyclic input; a node on a parent cycle
// resolves from the ancestors actually reached before the walk closes.
func (r *Relations) isVisible(id string, collapsed IDSet) bool {
	visited := NewIDSet(id)
	cur := id
	for {
		parent, ok := r.ParentOf[cur]
		if !ok || visited.Has(parent) {
			return true
		}
		if collapsed.Has(parent) {
			return false
		}
		visited.Add(parent)
		cur = parent
	}
}

// VisibleNodes returns the visible nodes of g in input order.
func (g *Graph) VisibleNodes(v *Visibility) []*Node {
	out := make([]*Node, 0, len(v.Visible))
	for _, n := range g.Nodes {
		if v.Visible.Has(n.ID) {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns the edges whose both endpoints are visible.
func (g *Graph) VisibleEdges(v *Visibility) []*Edge {
	out := make([]*Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if v.Visible.Has(e.Source) && v.Visible.Has(e.Target) {
			out = append(out, e)
		}
	}
	return out
}
