// Package ingest turns external node-link data into a graph: JSON and CSV
// loaders plus a small synthetic tree builder used by the demo server and
// tests. Loaders are forgiving: duplicate ids keep the first occurrence and
// edges with unknown endpoints are dropped downstream, never an error.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TFMV/canopy/graph"
)

// Document is the JSON wire shape of a graph.
type Document struct {
	Nodes []*graph.Node `json:"nodes"`
	Edges []*graph.Edge `json:"edges"`
}

// FromJSON reads a {"nodes": [...], "edges": [...]} document.
func FromJSON(r io.Reader) (*graph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode graph json: %w", err)
	}
	return graph.New(dedupe(doc.Nodes), doc.Edges), nil
}

// FromCSV reads rows of id,label,parent. The header row is optional; levels
// are derived from the parent chain, so rows may appear in any order.
func FromCSV(r io.Reader) (*graph.Graph, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read graph csv: %w", err)
	}

	var nodes []*graph.Node
	var edges []*graph.Edge
	parent := make(map[string]string)
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		id := strings.TrimSpace(rec[0])
		if id == "" || (i == 0 && strings.EqualFold(id, "id")) {
			continue
		}
		n := &graph.Node{ID: id, Label: strings.TrimSpace(rec[1])}
		nodes = append(nodes, n)
		if len(rec) > 2 {
			if p := strings.TrimSpace(rec[2]); p != "" {
				parent[id] = p
				edges = append(edges, &graph.Edge{Source: p, Target: id})
			}
		}
	}

	nodes = dedupe(nodes)
	for _, n := range nodes {
		n.Level = depthOf(n.ID, parent)
	}
	return graph.New(nodes, edges), nil
}

// depthOf walks the parent chain, visited-guarded against cyclic input.
func depthOf(id string, parent map[string]string) int {
	depth := 0
	visited := graph.NewIDSet(id)
	for {
		p, ok := parent[id]
		if !ok || visited.Has(p) {
			return depth
		}
		visited.Add(p)
		depth++
		id = p
	}
}

// dedupe keeps the first node per id, preserving order.
func dedupe(nodes []*graph.Node) []*graph.Node {
	seen := make(graph.IDSet, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if n == nil || n.ID == "" || seen.Has(n.ID) {
			continue
		}
		seen.Add(n.ID)
		out = append(out, n)
	}
	return out
}

// BalancedTree builds a synthetic tree with the given depth and fan-out:
// depth 0 is just the root. Useful for demos and benchmarks.
func BalancedTree(depth, fanout int) *graph.Graph {
	root := &graph.Node{ID: "n0", Label: "root", Level: 0, Type: "root"}
	nodes := []*graph.Node{root}
	var edges []*graph.Edge

	frontier := []*graph.Node{root}
	next := 1
	for lvl := 1; lvl <= depth; lvl++ {
		var created []*graph.Node
		for _, p := range frontier {
			for i := 0; i < fanout; i++ {
				n := &graph.Node{
					ID:    "n" + strconv.Itoa(next),
					Label: fmt.Sprintf("node %d", next),
					Level: lvl,
					Type:  "branch",
				}
				if lvl == depth {
					n.Type = "leaf"
				}
				next++
				nodes = append(nodes, n)
				edges = append(edges, &graph.Edge{Source: p.ID, Target: n.ID})
				created = append(created, n)
			}
		}
		frontier = created
	}
	return graph.New(nodes, edges)
}
