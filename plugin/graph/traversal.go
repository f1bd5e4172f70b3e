package graph

import (
	"context"

	"github.com/pkg/errors"

	"github.com/screenplot/screenplot/store"
)

// Neighbors returns the nodes reachable from nodeID by exactly one edge
// matching the options. With DirectionBoth a node is never its own
// neighbor, even through a self-loop; with out or in a self-loop does make
// the node its own neighbor.
func (e *Engine) Neighbors(ctx context.Context, nodeID string, opts NeighborOptions) ([]*store.Node, error) {
	direction := opts.Direction
	if direction == "" {
		direction = DirectionBoth
	}
	if !direction.Valid() {
		return nil, errors.Errorf("invalid direction %q: must be out, in or both", opts.Direction)
	}

	neighborIDs, err := e.neighborIDs(ctx, nodeID, opts.EdgeType, direction)
	if err != nil {
		return nil, err
	}

	nodes := make([]*store.Node, 0, len(neighborIDs))
	for _, id := range neighborIDs {
		node, err := e.store.GetNode(ctx, id)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// neighborIDs returns the deduplicated neighbor ids of nodeID in edge
// discovery order. Under DirectionBoth nodeID is excluded from its own
// neighbor set; under out or in a self-loop yields nodeID as usual.
func (e *Engine) neighborIDs(ctx context.Context, nodeID string, edgeType store.EdgeType, direction Direction) ([]string, error) {
	var typeFilter *store.EdgeType
	if edgeType != "" {
		typeFilter = &edgeType
	}

	seen := map[string]bool{}
	if direction == DirectionBoth {
		seen[nodeID] = true
	}
	ids := []string{}

	if direction == DirectionOut || direction == DirectionBoth {
		edges, err := e.store.FindEdges(ctx, &store.FindEdge{FromNodeID: &nodeID, Type: typeFilter})
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			if !seen[edge.ToNodeID] {
				seen[edge.ToNodeID] = true
				ids = append(ids, edge.ToNodeID)
			}
		}
	}
	if direction == DirectionIn || direction == DirectionBoth {
		edges, err := e.store.FindEdges(ctx, &store.FindEdge{ToNodeID: &nodeID, Type: typeFilter})
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			if !seen[edge.FromNodeID] {
				seen[edge.FromNodeID] = true
				ids = append(ids, edge.FromNodeID)
			}
		}
	}

	return ids, nil
}

// FindPath runs a breadth-first search over outgoing edges from start to
// end and returns the first shortest path found as a sequence of node ids,
// or nil when end is unreachable within the hop limit. When several
// shortest paths exist the one returned follows edge discovery order and is
// not otherwise specified.
func (e *Engine) FindPath(ctx context.Context, start, end string, opts PathOptions) ([]string, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	startNode, err := e.store.GetNode(ctx, start)
	if err != nil {
		return nil, err
	}
	if startNode == nil {
		return nil, nil
	}
	if start == end {
		return []string{start}, nil
	}

	parent := map[string]string{start: ""}
	frontier := []string{start}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		next := []string{}
		for _, current := range frontier {
			neighborIDs, err := e.neighborIDs(ctx, current, opts.EdgeType, DirectionOut)
			if err != nil {
				return nil, err
			}
			for _, neighbor := range neighborIDs {
				if _, visited := parent[neighbor]; visited {
					continue
				}
				parent[neighbor] = current
				if neighbor == end {
					return buildPath(parent, start, end), nil
				}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return nil, nil
}

func buildPath(parent map[string]string, start, end string) []string {
	path := []string{end}
	for current := end; current != start; {
		current = parent[current]
		path = append(path, current)
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Subgraph expands breadth-first in both directions from center up to
// radius hops and returns the induced node set together with every edge
// whose endpoints both fall inside it. Expansion halts as soon as a round
// discovers nothing new.
func (e *Engine) Subgraph(ctx context.Context, center string, radius int, edgeType store.EdgeType) (*Subgraph, error) {
	centerNode, err := e.store.GetNode(ctx, center)
	if err != nil {
		return nil, err
	}
	if centerNode == nil {
		return &Subgraph{Center: center, Radius: radius}, nil
	}

	visited := map[string]bool{center: true}
	order := []string{center}
	frontier := []string{center}

	for hop := 0; hop < radius && len(frontier) > 0; hop++ {
		next := []string{}
		for _, current := range frontier {
			neighborIDs, err := e.neighborIDs(ctx, current, edgeType, DirectionBoth)
			if err != nil {
				return nil, err
			}
			for _, neighbor := range neighborIDs {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				order = append(order, neighbor)
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	subgraph := &Subgraph{Center: center, Radius: radius}
	for _, id := range order {
		node, err := e.store.GetNode(ctx, id)
		if err != nil {
			return nil, err
		}
		if node != nil {
			subgraph.Nodes = append(subgraph.Nodes, node)
		}
	}

	var typeFilter *store.EdgeType
	if edgeType != "" {
		typeFilter = &edgeType
	}
	seenEdges := map[string]bool{}
	for _, id := range order {
		edges, err := e.store.FindEdges(ctx, &store.FindEdge{FromNodeID: &id, Type: typeFilter})
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			if seenEdges[edge.ID] || !visited[edge.ToNodeID] {
				continue
			}
			seenEdges[edge.ID] = true
			subgraph.Edges = append(subgraph.Edges, edge)
		}
	}

	return subgraph, nil
}
