package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screenplot/screenplot/store"
	teststore "github.com/screenplot/screenplot/store/test"
)

// buildGraph creates one node per label and one directed edge per pair,
// returning a label→id lookup.
func buildGraph(ctx context.Context, t *testing.T, ts *store.Store, labels []string, edges [][2]string) map[string]string {
	t.Helper()
	ids := make(map[string]string, len(labels))
	for _, label := range labels {
		node, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeScene, Label: label})
		require.NoError(t, err)
		ids[label] = node.ID
	}
	for _, pair := range edges {
		_, err := ts.CreateEdge(ctx, &store.Edge{
			FromNodeID: ids[pair[0]],
			ToNodeID:   ids[pair[1]],
			Type:       store.EdgeTypeFollows,
		})
		require.NoError(t, err)
	}
	return ids
}

func labelsOf(nodes []*store.Node) []string {
	labels := make([]string, 0, len(nodes))
	for _, node := range nodes {
		labels = append(labels, node.Label)
	}
	return labels
}

func TestNeighbors(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	ids := buildGraph(ctx, t, ts, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"},
		{"a", "c"},
		{"d", "a"},
	})

	out, err := engine.Neighbors(ctx, ids["a"], NeighborOptions{Direction: DirectionOut})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c"}, labelsOf(out))

	in, err := engine.Neighbors(ctx, ids["a"], NeighborOptions{Direction: DirectionIn})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"d"}, labelsOf(in))

	// Empty direction defaults to both.
	both, err := engine.Neighbors(ctx, ids["a"], NeighborOptions{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c", "d"}, labelsOf(both))

	_, err = engine.Neighbors(ctx, ids["a"], NeighborOptions{Direction: Direction("sideways")})
	require.Error(t, err)
}

func TestNeighborsExcludesSelfLoop(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	node, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeScene, Label: "loop"})
	require.NoError(t, err)
	_, err = ts.CreateEdge(ctx, &store.Edge{FromNodeID: node.ID, ToNodeID: node.ID, Type: store.EdgeTypeFollows})
	require.NoError(t, err)

	// Excluded under both only.
	neighbors, err := engine.Neighbors(ctx, node.ID, NeighborOptions{})
	require.NoError(t, err)
	require.Empty(t, neighbors)

	out, err := engine.Neighbors(ctx, node.ID, NeighborOptions{Direction: DirectionOut})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"loop"}, labelsOf(out))

	in, err := engine.Neighbors(ctx, node.ID, NeighborOptions{Direction: DirectionIn})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"loop"}, labelsOf(in))
}

func TestFindPath(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	ids := buildGraph(ctx, t, ts, []string{"a", "b", "c", "d", "e"}, [][2]string{
		{"a", "b"},
		{"b", "c"},
		{"c", "d"},
		// Unreachable along outgoing edges from a.
		{"e", "a"},
	})

	path, err := engine.FindPath(ctx, ids["a"], ids["d"], PathOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{ids["a"], ids["b"], ids["c"], ids["d"]}, path)

	// Traversal follows edge direction only.
	path, err = engine.FindPath(ctx, ids["a"], ids["e"], PathOptions{})
	require.NoError(t, err)
	require.Nil(t, path)

	// A node reaches itself through the empty path.
	path, err = engine.FindPath(ctx, ids["a"], ids["a"], PathOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{ids["a"]}, path)

	// Absent start is a miss, not an error.
	path, err = engine.FindPath(ctx, "no-such-node", ids["a"], PathOptions{})
	require.NoError(t, err)
	require.Nil(t, path)
}

func TestFindPathMaxDepth(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	labels := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7"}
	var edges [][2]string
	for i := 0; i+1 < len(labels); i++ {
		edges = append(edges, [2]string{labels[i], labels[i+1]})
	}
	ids := buildGraph(ctx, t, ts, labels, edges)

	// Seven hops exceeds the default limit of six.
	path, err := engine.FindPath(ctx, ids["n0"], ids["n7"], PathOptions{})
	require.NoError(t, err)
	require.Nil(t, path)

	path, err = engine.FindPath(ctx, ids["n0"], ids["n7"], PathOptions{MaxDepth: 7})
	require.NoError(t, err)
	require.Len(t, path, 8)

	path, err = engine.FindPath(ctx, ids["n0"], ids["n6"], PathOptions{})
	require.NoError(t, err)
	require.Len(t, path, 7)
}

func TestSubgraph(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	ids := buildGraph(ctx, t, ts, []string{"center", "out1", "in1", "far"}, [][2]string{
		{"center", "out1"},
		{"in1", "center"},
		{"out1", "far"},
	})

	sub, err := engine.Subgraph(ctx, ids["center"], 1, "")
	require.NoError(t, err)
	require.Equal(t, ids["center"], sub.Center)
	require.ElementsMatch(t, []string{"center", "out1", "in1"}, labelsOf(sub.Nodes))
	// Only edges with both endpoints inside the radius are induced.
	require.Len(t, sub.Edges, 2)

	sub, err = engine.Subgraph(ctx, ids["center"], 0, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"center"}, labelsOf(sub.Nodes))
	require.Empty(t, sub.Edges)

	sub, err = engine.Subgraph(ctx, ids["center"], 5, "")
	require.NoError(t, err)
	require.Len(t, sub.Nodes, 4)
	require.Len(t, sub.Edges, 3)
}
