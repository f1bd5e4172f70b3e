// Package graph provides read-only traversal and centrality analysis over
// the property graph store.
package graph

import (
	"github.com/screenplot/screenplot/store"
)

// Direction selects which edges count as neighbors.
type Direction string

const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// Valid reports whether the direction is one of out/in/both.
func (d Direction) Valid() bool {
	switch d {
	case DirectionOut, DirectionIn, DirectionBoth:
		return true
	}
	return false
}

// NeighborOptions filters a neighbor lookup. A zero EdgeType matches every
// edge type; an empty Direction defaults to both.
type NeighborOptions struct {
	EdgeType  store.EdgeType
	Direction Direction
}

// PathOptions bounds a shortest-path search.
type PathOptions struct {
	// MaxDepth is the hop limit; DefaultMaxDepth when zero.
	MaxDepth int
	// EdgeType restricts the search to one edge type when set.
	EdgeType store.EdgeType
}

// DefaultMaxDepth is the hop limit applied when PathOptions.MaxDepth is zero.
const DefaultMaxDepth = 6

// Subgraph is the induced graph around a center node: the discovered node
// set and every stored edge whose endpoints both fall inside it.
type Subgraph struct {
	Center string
	Radius int
	Nodes  []*store.Node
	Edges  []*store.Edge
}

// Engine runs traversals and centrality computations against the store.
// Traversal and centrality only read; Sync is the one mutating entry point
// and goes through the store like every other writer.
type Engine struct {
	store *store.Store
}

// NewEngine creates a graph engine over the given store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}
