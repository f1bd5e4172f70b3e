package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/screenplot/screenplot/store"
	teststore "github.com/screenplot/screenplot/store/test"
)

func TestDegreeCentrality(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	// Path graph a - b - c. Edge direction is irrelevant for centrality.
	ids := buildGraph(ctx, t, ts, []string{"a", "b", "c"}, [][2]string{
		{"a", "b"},
		{"c", "b"},
	})

	raw, err := engine.DegreeCentrality(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1.0, raw[ids["a"]])
	require.Equal(t, 2.0, raw[ids["b"]])
	require.Equal(t, 1.0, raw[ids["c"]])

	// Raw degrees sum to twice the edge count.
	sum := 0.0
	for _, v := range raw {
		sum += v
	}
	require.Equal(t, 4.0, sum)

	normalized, err := engine.DegreeCentrality(ctx, true)
	require.NoError(t, err)
	require.InDelta(t, 0.25, normalized[ids["a"]], 1e-9)
	require.InDelta(t, 0.5, normalized[ids["b"]], 1e-9)
}

func TestDegreeCentralityCountsSelfLoopTwice(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	node, err := ts.CreateNode(ctx, &store.Node{Type: store.NodeTypeScene, Label: "loop"})
	require.NoError(t, err)
	_, err = ts.CreateEdge(ctx, &store.Edge{FromNodeID: node.ID, ToNodeID: node.ID, Type: store.EdgeTypeFollows})
	require.NoError(t, err)

	raw, err := engine.DegreeCentrality(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 2.0, raw[node.ID])
}

func TestBetweennessCentralityPathGraph(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	// Path graph a - b - c - d - e.
	ids := buildGraph(ctx, t, ts, []string{"a", "b", "c", "d", "e"}, [][2]string{
		{"a", "b"},
		{"b", "c"},
		{"c", "d"},
		{"d", "e"},
	})

	raw, err := engine.BetweennessCentrality(ctx, false)
	require.NoError(t, err)
	require.InDelta(t, 0.0, raw[ids["a"]], 1e-9)
	require.InDelta(t, 3.0, raw[ids["b"]], 1e-9)
	require.InDelta(t, 4.0, raw[ids["c"]], 1e-9)
	require.InDelta(t, 3.0, raw[ids["d"]], 1e-9)
	require.InDelta(t, 0.0, raw[ids["e"]], 1e-9)

	normalized, err := engine.BetweennessCentrality(ctx, true)
	require.NoError(t, err)
	require.InDelta(t, 3.0/6.0, normalized[ids["b"]], 1e-9)
	require.InDelta(t, 4.0/6.0, normalized[ids["c"]], 1e-9)
}

func TestBetweennessCentralityTinyGraph(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	ids := buildGraph(ctx, t, ts, []string{"a", "b"}, [][2]string{{"a", "b"}})

	// With two nodes there is nothing to pass through; normalization
	// must not divide by zero.
	scores, err := engine.BetweennessCentrality(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 0.0, scores[ids["a"]])
	require.Equal(t, 0.0, scores[ids["b"]])
}

func TestClosenessCentrality(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	// Path graph a - b - c.
	ids := buildGraph(ctx, t, ts, []string{"a", "b", "c"}, [][2]string{
		{"a", "b"},
		{"b", "c"},
	})

	raw, err := engine.ClosenessCentrality(ctx, false)
	require.NoError(t, err)
	require.InDelta(t, 2.0/3.0, raw[ids["a"]], 1e-9)
	require.InDelta(t, 1.0, raw[ids["b"]], 1e-9)

	// Fully connected component: the reachability factor is 1 and the
	// normalized values match the raw ones.
	normalized, err := engine.ClosenessCentrality(ctx, true)
	require.NoError(t, err)
	require.InDelta(t, raw[ids["a"]], normalized[ids["a"]], 1e-9)
}

func TestClosenessCentralityDisconnected(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	ids := buildGraph(ctx, t, ts, []string{"a", "b", "lone"}, [][2]string{{"a", "b"}})

	raw, err := engine.ClosenessCentrality(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 0.0, raw[ids["lone"]])
	require.InDelta(t, 1.0, raw[ids["a"]], 1e-9)

	// The normalized variant scales by the reachable share of the graph.
	normalized, err := engine.ClosenessCentrality(ctx, true)
	require.NoError(t, err)
	require.InDelta(t, 0.5, normalized[ids["a"]], 1e-9)
}

func TestEigenvectorCentrality(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	// Star graph: hub touches every spoke.
	ids := buildGraph(ctx, t, ts, []string{"hub", "s1", "s2", "s3"}, [][2]string{
		{"hub", "s1"},
		{"hub", "s2"},
		{"hub", "s3"},
	})

	scores, err := engine.EigenvectorCentrality(ctx, EigenvectorOptions{})
	require.NoError(t, err)
	require.Greater(t, scores[ids["hub"]], scores[ids["s1"]])
	require.InDelta(t, scores[ids["s1"]], scores[ids["s2"]], 1e-6)
	require.InDelta(t, scores[ids["s1"]], scores[ids["s3"]], 1e-6)

	// The score vector is L2 normalized.
	sumSquares := 0.0
	for _, v := range scores {
		sumSquares += v * v
	}
	require.InDelta(t, 1.0, sumSquares, 1e-6)
}

func TestCentralityEmptyGraph(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	engine := NewEngine(ts)

	for name, run := range map[string]func(context.Context) (map[string]float64, error){
		"degree":      func(ctx context.Context) (map[string]float64, error) { return engine.DegreeCentrality(ctx, true) },
		"betweenness": func(ctx context.Context) (map[string]float64, error) { return engine.BetweennessCentrality(ctx, true) },
		"closeness":   func(ctx context.Context) (map[string]float64, error) { return engine.ClosenessCentrality(ctx, true) },
		"eigenvector": func(ctx context.Context) (map[string]float64, error) {
			return engine.EigenvectorCentrality(ctx, EigenvectorOptions{})
		},
	} {
		t.Run(name, func(t *testing.T) {
			scores, err := run(ctx)
			require.NoError(t, err)
			require.Empty(t, scores)
		})
	}
}
