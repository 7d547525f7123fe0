package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": "r", "label": "Root", "level": 0},
			{"id": "a", "label": "A", "level": 1, "type": "branch"},
			{"id": "a", "label": "dup", "level": 9}
		],
		"edges": [{"source": "r", "target": "a"}]
	}`
	g, err := FromJSON(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 2, g.Len(), "duplicate id keeps the first node")
	assert.Equal(t, "A", g.Node("a").Label)
	assert.Equal(t, "r", g.Edges[0].Source)
}

func TestFromJSONMalformed(t *testing.T) {
	_, err := FromJSON(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestFromCSVDerivesLevels(t *testing.T) {
	in := "id,label,parent\nr,Root,\nb,Bee,a\na,Aye,r\n"
	g, err := FromCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 3, g.Len())
	assert.Equal(t, 0, g.Node("r").Level)
	assert.Equal(t, 1, g.Node("a").Level)
	assert.Equal(t, 2, g.Node("b").Level, "levels derive across out-of-order rows")
	assert.Len(t, g.Edges, 2)
}

func TestFromCSVCyclicParentsTerminate(t *testing.T) {
	in := "a,A,b\nb,B,a\n"
	assert.NotPanics(t, func() {
		g, err := FromCSV(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, 2, g.Len())
	})
}

func TestBalancedTree(t *testing.T) {
	g := BalancedTree(2, 3)
	assert.Equal(t, 1+3+9, g.Len())
	assert.Len(t, g.Edges, 12)

	rel := g.DeriveRelations()
	assert.Len(t, rel.Children("n0"), 3)
	for _, n := range g.Nodes {
		if n.Level == 2 {
			assert.Equal(t, "leaf", n.Type)
		}
	}

	root := BalancedTree(0, 5)
	assert.Equal(t, 1, root.Len())
	assert.Empty(t, root.Edges)
}
