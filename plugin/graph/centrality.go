package graph

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/screenplot/screenplot/store"
)

// Centrality treats the graph as undirected even though edges are stored
// directed: every stored edge contributes to both endpoints. All measures
// work on an in-memory snapshot taken at call time; a write landing during
// the computation is not reflected.

// EigenvectorOptions tunes the power iteration.
type EigenvectorOptions struct {
	// MaxIterations caps the power iteration; 100 when zero.
	MaxIterations int
	// Tolerance is the L1 convergence threshold; 1e-6 when zero.
	Tolerance float64
}

const (
	defaultEigenvectorIterations = 100
	defaultEigenvectorTolerance  = 1e-6
)

// snapshot is a flat arena of the whole graph: nodes and adjacency are
// keyed by integer index so the cyclic structure needs no object
// references.
type snapshot struct {
	ids   []string
	index map[string]int
	// adj holds unique undirected neighbor indexes per node.
	adj [][]int
	// endpointCount counts edge endpoints per node, self-loops twice.
	endpointCount []int
	edgeCount     int
}

func (e *Engine) snapshot(ctx context.Context) (*snapshot, error) {
	nodes, err := e.store.FindNodes(ctx, &store.FindNode{})
	if err != nil {
		return nil, err
	}
	edges, err := e.store.FindEdges(ctx, &store.FindEdge{})
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		ids:           make([]string, 0, len(nodes)),
		index:         make(map[string]int, len(nodes)),
		adj:           make([][]int, len(nodes)),
		endpointCount: make([]int, len(nodes)),
	}
	for _, node := range nodes {
		snap.index[node.ID] = len(snap.ids)
		snap.ids = append(snap.ids, node.ID)
	}

	type pair struct{ a, b int }
	seen := map[pair]bool{}
	for _, edge := range edges {
		from, okFrom := snap.index[edge.FromNodeID]
		to, okTo := snap.index[edge.ToNodeID]
		if !okFrom || !okTo {
			continue
		}
		snap.edgeCount++
		snap.endpointCount[from]++
		snap.endpointCount[to]++
		if from == to {
			continue
		}
		a, b := from, to
		if a > b {
			a, b = b, a
		}
		if seen[pair{a, b}] {
			continue
		}
		seen[pair{a, b}] = true
		snap.adj[a] = append(snap.adj[a], b)
		snap.adj[b] = append(snap.adj[b], a)
	}

	return snap, nil
}

// DegreeCentrality returns the both-direction degree of every node. When
// normalized, values are divided by 2·(n−1), reflecting that edges
// contribute to both endpoints.
func (e *Engine) DegreeCentrality(ctx context.Context, normalized bool) (map[string]float64, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]float64, len(snap.ids))
	n := len(snap.ids)
	for i, id := range snap.ids {
		degree := float64(snap.endpointCount[i])
		if normalized {
			if n > 1 {
				degree /= float64(2 * (n - 1))
			} else {
				degree = 0
			}
		}
		result[id] = degree
	}
	return result, nil
}

// BetweennessCentrality computes Brandes' betweenness for every node.
// Unreachable pairs contribute zero. When normalized, values are scaled by
// 2/((n−1)(n−2)); graphs with n ≤ 2 yield all zeros.
func (e *Engine) BetweennessCentrality(ctx context.Context, normalized bool) (map[string]float64, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	n := len(snap.ids)
	betweenness := make([]float64, n)

	// Every source contributes independently, so the per-source passes run
	// in parallel and merge under a lock.
	var mu sync.Mutex
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for source := 0; source < n; source++ {
		group.Go(func() error {
			// BFS phase: shortest-path counts and predecessor sets.
			stack := make([]int, 0, n)
			preds := make([][]int, n)
			sigma := make([]float64, n)
			dist := make([]int, n)
			for i := range dist {
				dist[i] = -1
			}
			sigma[source] = 1
			dist[source] = 0
			queue := []int{source}
			for len(queue) > 0 {
				v := queue[0]
				queue = queue[1:]
				stack = append(stack, v)
				for _, w := range snap.adj[v] {
					if dist[w] < 0 {
						dist[w] = dist[v] + 1
						queue = append(queue, w)
					}
					if dist[w] == dist[v]+1 {
						sigma[w] += sigma[v]
						preds[w] = append(preds[w], v)
					}
				}
			}

			// Accumulation phase in reverse BFS order.
			delta := make([]float64, n)
			for i := len(stack) - 1; i >= 0; i-- {
				w := stack[i]
				for _, v := range preds[w] {
					delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
				}
			}

			mu.Lock()
			for w, d := range delta {
				if w != source {
					betweenness[w] += d
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]float64, n)
	scale := 0.5 // each unordered pair is visited from both endpoints
	if normalized {
		if n > 2 {
			scale = 1 / float64((n-1)*(n-2))
		} else {
			scale = 0
		}
	}
	for i, id := range snap.ids {
		result[id] = betweenness[i] * scale
	}
	return result, nil
}

// ClosenessCentrality computes (reachable−1)/totalDistance per node. When
// normalized, values are additionally scaled by (reachable−1)/(n−1) to
// penalize small disconnected components.
func (e *Engine) ClosenessCentrality(ctx context.Context, normalized bool) (map[string]float64, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	n := len(snap.ids)
	result := make(map[string]float64, n)
	for source := 0; source < n; source++ {
		dist := make([]int, n)
		for i := range dist {
			dist[i] = -1
		}
		dist[source] = 0
		queue := []int{source}
		reachable, totalDistance := 1, 0
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range snap.adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					reachable++
					totalDistance += dist[w]
					queue = append(queue, w)
				}
			}
		}

		value := 0.0
		if totalDistance > 0 {
			value = float64(reachable-1) / float64(totalDistance)
			if normalized && n > 1 {
				value *= float64(reachable-1) / float64(n-1)
			}
		}
		result[snap.ids[source]] = value
	}
	return result, nil
}

// EigenvectorCentrality runs power iteration over the dense undirected
// adjacency matrix, L2-normalizing every step, until the L1 change drops
// below the tolerance or the iteration cap is hit.
func (e *Engine) EigenvectorCentrality(ctx context.Context, opts EigenvectorOptions) (map[string]float64, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultEigenvectorIterations
	}
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = defaultEigenvectorTolerance
	}

	n := len(snap.ids)
	result := make(map[string]float64, n)
	if n == 0 {
		return result, nil
	}

	vector := make([]float64, n)
	for i := range vector {
		vector[i] = 1 / float64(n)
	}

	next := make([]float64, n)
	for iteration := 0; iteration < maxIterations; iteration++ {
		// Iterate with A+I; the self term keeps bipartite graphs from
		// oscillating between two vectors.
		copy(next, vector)
		for v := 0; v < n; v++ {
			for _, w := range snap.adj[v] {
				next[v] += vector[w]
			}
		}

		norm := 0.0
		for _, x := range next {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			// no edges: centrality is zero everywhere
			for i := range vector {
				vector[i] = 0
			}
			break
		}

		change := 0.0
		for i := range next {
			next[i] /= norm
			change += math.Abs(next[i] - vector[i])
		}
		vector, next = next, vector
		if change < tolerance {
			break
		}
	}

	for i, id := range snap.ids {
		result[id] = vector[i]
	}
	return result, nil
}
