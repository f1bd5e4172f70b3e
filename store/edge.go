package store

import (
	"context"

	"github.com/google/uuid"
)

// EdgeType names the relationship an edge carries.
type EdgeType string

const (
	EdgeTypeHasScene  EdgeType = "HAS_SCENE"
	EdgeTypeAppearsIn EdgeType = "APPEARS_IN"
	EdgeTypeLocatedAt EdgeType = "LOCATED_AT"
	EdgeTypeFollows   EdgeType = "FOLLOWS"
	EdgeTypeDependsOn EdgeType = "DEPENDS_ON"
)

// Edge is a directed relationship between two nodes. Endpoint existence is
// the caller's responsibility at creation time; node deletion cascades to
// every touching edge. A zero Weight at creation means "unset" and is
// stored as the default 1.0; weights must be positive.
type Edge struct {
	ID         string     `json:"id"`
	FromNodeID string     `json:"fromNodeId"`
	ToNodeID   string     `json:"toNodeId"`
	Type       EdgeType   `json:"type"`
	Props      Properties `json:"props,omitempty"`
	Weight     float64    `json:"weight"`
	CreatedTs  int64      `json:"createdTs"`
	UpdatedTs  int64      `json:"updatedTs"`
}

// FindEdge filters edge lookups. Empty/nil fields match everything.
type FindEdge struct {
	ID         *string
	FromNodeID *string
	ToNodeID   *string
	Type       *EdgeType
	Limit      *int
}

type DeleteEdge struct {
	ID string
}

// NewEdgeID generates an edge identifier.
func NewEdgeID() string {
	return uuid.NewString()
}

func (s *Store) CreateEdge(ctx context.Context, create *Edge) (*Edge, error) {
	if create.ID == "" {
		create.ID = NewEdgeID()
	}
	// Zero is the unset sentinel, see Edge.
	if create.Weight == 0 {
		create.Weight = 1.0
	}
	return s.driver.CreateEdge(ctx, create)
}

// GetEdge returns the edge with the given id, or nil when absent.
func (s *Store) GetEdge(ctx context.Context, id string) (*Edge, error) {
	return s.driver.GetEdge(ctx, id)
}

func (s *Store) DeleteEdge(ctx context.Context, delete *DeleteEdge) error {
	return s.driver.DeleteEdge(ctx, delete)
}

func (s *Store) FindEdges(ctx context.Context, find *FindEdge) ([]*Edge, error) {
	return s.driver.FindEdges(ctx, find)
}
