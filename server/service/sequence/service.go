// Package sequence maintains the three parallel scene orders of a script:
// the authored script order, the inferred temporal order and the
// dependency-derived logical order.
//
// Key behaviors:
//   - Dependency detection is heuristic and best-effort; duplicates on the
//     (from, to, type) triple are skipped.
//   - Only dependencies at or above the strength threshold constrain the
//     logical order.
//   - A dependency cycle falls back to script order for the whole script
//     with a logged warning instead of failing.
//
// Callers get a best-effort ordering and must run the consistency
// validator explicitly to discover conflicts.
package sequence

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/screenplot/screenplot/plugin/graph"
	"github.com/screenplot/screenplot/store"
)

// Service computes and persists scene orderings.
type Service struct {
	store *store.Store
	graph *graph.Engine
}

// NewService creates a sequencing service over the given store.
func NewService(s *store.Store, g *graph.Engine) *Service {
	return &Service{store: s, graph: g}
}

// EnsureScriptOrder verifies that the script order is a dense 1..N
// sequence and reassigns it by creation timestamp when it is not.
func (s *Service) EnsureScriptOrder(ctx context.Context, scriptID int32) ([]*store.Scene, error) {
	scenes, err := s.store.ListScenes(ctx, &store.FindScene{ScriptID: &scriptID})
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return scenes, nil
	}

	if isSequential(scenes) {
		return scenes, nil
	}

	// Reassign by creation timestamp, falling back to id for stability.
	sort.SliceStable(scenes, func(i, j int) bool {
		if scenes[i].CreatedTs != scenes[j].CreatedTs {
			return scenes[i].CreatedTs < scenes[j].CreatedTs
		}
		return scenes[i].ID < scenes[j].ID
	})

	updates := make([]*store.UpdateSceneOrder, 0, len(scenes))
	for i, scene := range scenes {
		order := int32(i + 1)
		scene.ScriptOrder = &order
		updates = append(updates, &store.UpdateSceneOrder{
			SceneID: scene.ID,
			Type:    store.OrderTypeScript,
			Value:   &order,
		})
	}
	if err := s.store.UpdateSceneOrders(ctx, updates); err != nil {
		return nil, err
	}
	return scenes, nil
}

// isSequential reports whether every scene carries a script order and the
// values form exactly 1..N.
func isSequential(scenes []*store.Scene) bool {
	seen := make(map[int32]bool, len(scenes))
	for _, scene := range scenes {
		if scene.ScriptOrder == nil {
			return false
		}
		order := *scene.ScriptOrder
		if order < 1 || order > int32(len(scenes)) || seen[order] {
			return false
		}
		seen[order] = true
	}
	return true
}

// GetSceneDependencies returns every dependency the scene participates in,
// incoming and outgoing.
func (s *Service) GetSceneDependencies(ctx context.Context, sceneID int32) ([]*store.SceneDependency, error) {
	outgoing, err := s.store.ListSceneDependencies(ctx, &store.FindSceneDependency{FromSceneID: &sceneID})
	if err != nil {
		return nil, err
	}
	incoming, err := s.store.ListSceneDependencies(ctx, &store.FindSceneDependency{ToSceneID: &sceneID})
	if err != nil {
		return nil, err
	}
	return append(outgoing, incoming...), nil
}

// mirrorFollows replaces the FOLLOWS edges of one order type with edges
// matching the given scene sequence. Scenes without a synced graph node
// are skipped.
func (s *Service) mirrorFollows(ctx context.Context, ordered []*store.Scene, orderType store.OrderType) error {
	nodes := make([]*store.Node, 0, len(ordered))
	for _, scene := range ordered {
		node, err := s.graph.SceneNode(ctx, scene.ID)
		if err != nil {
			return err
		}
		nodes = append(nodes, node)
	}

	// Drop prior FOLLOWS edges of this order type between the scenes.
	followsType := store.EdgeTypeFollows
	for _, node := range nodes {
		if node == nil {
			continue
		}
		edges, err := s.store.FindEdges(ctx, &store.FindEdge{FromNodeID: &node.ID, Type: &followsType})
		if err != nil {
			return err
		}
		for _, edge := range edges {
			if edge.Props.GetString("order_type") != string(orderType) {
				continue
			}
			if err := s.store.DeleteEdge(ctx, &store.DeleteEdge{ID: edge.ID}); err != nil {
				return err
			}
		}
	}

	for i := 0; i+1 < len(nodes); i++ {
		from, to := nodes[i], nodes[i+1]
		if from == nil || to == nil {
			continue
		}
		props := store.Properties{}
		props.Set("order_type", store.StringValue(string(orderType)))
		if _, err := s.store.CreateEdge(ctx, &store.Edge{
			FromNodeID: from.ID,
			ToNodeID:   to.ID,
			Type:       store.EdgeTypeFollows,
			Props:      props,
		}); err != nil {
			return errors.Wrapf(err, "failed to mirror %s order edge", orderType)
		}
	}
	return nil
}
