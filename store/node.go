package store

import (
	"context"
	"log/slog"

	"github.com/lithammer/shortuuid/v4"
)

// NodeType classifies graph nodes by the screenplay entity they represent.
type NodeType string

const (
	NodeTypeScript    NodeType = "script"
	NodeTypeScene     NodeType = "scene"
	NodeTypeCharacter NodeType = "character"
	NodeTypeLocation  NodeType = "location"
	NodeTypeSeason    NodeType = "season"
	NodeTypeEpisode   NodeType = "episode"
)

// EntityID is a weak reference from a graph node to the relational row it
// represents. The node never owns the row; resolving it is an explicit
// lookup through the store.
type EntityID int32

// Node is a vertex of the property graph. ID is generated at creation and
// immutable afterwards.
type Node struct {
	ID        string     `json:"id"`
	Type      NodeType   `json:"type"`
	EntityID  *EntityID  `json:"entityId,omitempty"`
	Label     string     `json:"label"`
	Props     Properties `json:"props,omitempty"`
	CreatedTs int64      `json:"createdTs"`
	UpdatedTs int64      `json:"updatedTs"`
}

// FindNode filters node lookups. Empty/nil fields match everything.
type FindNode struct {
	ID           *string
	Type         *NodeType
	EntityID     *EntityID
	LabelPattern *string // SQL LIKE pattern
	Limit        *int
}

// UpdateNode is a partial node update; nil fields are left untouched.
type UpdateNode struct {
	ID       string
	Label    *string
	EntityID *EntityID
	Props    *Properties
}

// NewNodeID generates a node identifier.
func NewNodeID() string {
	return shortuuid.New()
}

func (s *Store) CreateNode(ctx context.Context, create *Node) (*Node, error) {
	if create.ID == "" {
		create.ID = NewNodeID()
	}
	node, err := s.driver.CreateNode(ctx, create)
	if err != nil {
		return nil, err
	}
	s.nodeCache.Set(ctx, node.ID, node)
	return node, nil
}

// GetNode returns the node with the given id, or nil when absent.
func (s *Store) GetNode(ctx context.Context, id string) (*Node, error) {
	if cached, ok := s.nodeCache.Get(ctx, id); ok {
		if node, ok := cached.(*Node); ok {
			return node, nil
		}
	}
	node, err := s.driver.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if node != nil {
		s.nodeCache.Set(ctx, node.ID, node)
	}
	return node, nil
}

func (s *Store) UpdateNode(ctx context.Context, update *UpdateNode) (*Node, error) {
	node, err := s.driver.UpdateNode(ctx, update)
	if err != nil {
		return nil, err
	}
	s.nodeCache.Delete(ctx, update.ID)
	return node, nil
}

// DeleteNode removes the node and every edge that references it.
func (s *Store) DeleteNode(ctx context.Context, id string) error {
	if err := s.driver.DeleteNode(ctx, id); err != nil {
		return err
	}
	s.nodeCache.Delete(ctx, id)
	return nil
}

func (s *Store) FindNodes(ctx context.Context, find *FindNode) ([]*Node, error) {
	return s.driver.FindNodes(ctx, find)
}

// ResolveEntity follows a node's weak entity reference to the scene row it
// represents. Returns nil when the node has no reference, references a
// non-scene entity, or the row no longer exists.
func (s *Store) ResolveEntity(ctx context.Context, node *Node) (*Scene, error) {
	if node == nil || node.EntityID == nil || node.Type != NodeTypeScene {
		return nil, nil
	}
	id := int32(*node.EntityID)
	scenes, err := s.driver.ListScenes(ctx, &FindScene{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		slog.Debug("node entity reference is dangling", "node_id", node.ID, "entity_id", id)
		return nil, nil
	}
	return scenes[0], nil
}
