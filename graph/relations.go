package graph

// Relations holds the parent/child maps derived from the edge list. They are
// recomputed from scratch after every mutation rather than patched in place,
// so they can never drift from the node and edge lists.
type Relations struct {
	ParentOf   map[string]string
	ChildrenOf map[string][]string
}

// DeriveRelations builds parent and child maps in one pass over the edges.
// Edges referencing an unknown node id are dropped. A node keeps the first
// parent an edge assigns to it; later conflicting edges are dropped the same
// way, so multi-parent input degrades to a tree deterministically.
func (g *Graph) DeriveRelations() *Relations {
	r := &Relations{
		ParentOf:   make(map[string]string, len(g.Nodes)),
		ChildrenOf: make(map[string][]string, len(g.Nodes)),
	}
	for _, e := range g.Edges {
		if g.byID[e.Source] == nil || g.byID[e.Target] == nil {
			continue
		}
		if _, seen := r.ParentOf[e.Target]; seen {
			continue // first-seen-parent wins
		}
		r.ParentOf[e.Target] = e.Source
		r.ChildrenOf[e.Source] = append(r.ChildrenOf[e.Source], e.Target)
	}
	return r
}

// Parent returns the parent id of the given node and whether one exists.
func (r *Relations) Parent(id string) (string, bool) {
	p, ok := r.ParentOf[id]
	return p, ok
}

// Children returns the child ids of the given node in edge order.
func (r *Relations) Children(id string) []string {
	return r.ChildrenOf[id]
}

// HasChildren reports whether the node has at least one child.
func (r *Relations) HasChildren(id string) bool {
	return len(r.ChildrenOf[id]) > 0
}

// Ancestors returns the ancestor chain of id starting at its direct parent.
// The walk carries a visited set so a cycle that slipped past derivation
// terminates instead of looping.
func (r *Relations) Ancestors(id string) []string {
	var chain []string
	visited := NewIDSet(id)
	cur := id
	for {
		parent, ok := r.ParentOf[cur]
		if !ok || visited.Has(parent) {
			return chain
		}
		chain = append(chain, parent)
		visited.Add(parent)
		cur = parent
	}
}

// Descendants returns every node transitively below id, not including id
// itself. Iterative with a visited guard for the same reason as Ancestors.
func (r *Relations) Descendants(id string) []string {
	var out []string
	visited := NewIDSet(id)
	stack := append([]string(nil), r.ChildrenOf[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Has(cur) {
			continue
		}
		visited.Add(cur)
		out = append(out, cur)
		stack = append(stack, r.ChildrenOf[cur]...)
	}
	return out
}
