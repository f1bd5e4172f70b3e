package graph

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/screenplot/screenplot/store"
)

// SyncResult reports what one graph sync changed.
type SyncResult struct {
	NodesCreated int   `json:"nodesCreated"`
	EdgesCreated int   `json:"edgesCreated"`
	BuildMs      int64 `json:"buildMs"`
}

// Sync mirrors a script's relational rows into the property graph: one node
// per script, scene, character and location, plus HAS_SCENE, APPEARS_IN and
// LOCATED_AT edges. It is idempotent: nodes are keyed by their entity
// reference and existing edges are kept, so re-syncing an unchanged script
// changes nothing.
func (e *Engine) Sync(ctx context.Context, scriptID int32) (*SyncResult, error) {
	start := time.Now()
	result := &SyncResult{}

	script, err := e.store.GetScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if script == nil {
		return nil, errors.Errorf("script %d not found", scriptID)
	}

	scriptNode, err := e.ensureEntityNode(ctx, store.NodeTypeScript, store.EntityID(script.ID), script.Title, result)
	if err != nil {
		return nil, err
	}

	scenes, err := e.store.ListScenes(ctx, &store.FindScene{ScriptID: &scriptID})
	if err != nil {
		return nil, err
	}
	sceneNodes := make(map[int32]*store.Node, len(scenes))
	for _, scene := range scenes {
		node, err := e.ensureEntityNode(ctx, store.NodeTypeScene, store.EntityID(scene.ID), scene.Heading, result)
		if err != nil {
			return nil, err
		}
		sceneNodes[scene.ID] = node
		if err := e.ensureEdge(ctx, scriptNode.ID, node.ID, store.EdgeTypeHasScene, nil, result); err != nil {
			return nil, err
		}
	}

	characters, err := e.store.ListCharacters(ctx, &store.FindCharacter{ScriptID: &scriptID})
	if err != nil {
		return nil, err
	}
	characterNodes := make(map[int32]*store.Node, len(characters))
	for _, character := range characters {
		node, err := e.ensureEntityNode(ctx, store.NodeTypeCharacter, store.EntityID(character.ID), character.Name, result)
		if err != nil {
			return nil, err
		}
		characterNodes[character.ID] = node
	}

	appearances, err := e.store.ListSceneCharacters(ctx, &store.FindSceneCharacter{ScriptID: &scriptID})
	if err != nil {
		return nil, err
	}
	for _, appearance := range appearances {
		characterNode := characterNodes[appearance.CharacterID]
		sceneNode := sceneNodes[appearance.SceneID]
		if characterNode == nil || sceneNode == nil {
			continue
		}
		if err := e.ensureEdge(ctx, characterNode.ID, sceneNode.ID, store.EdgeTypeAppearsIn, nil, result); err != nil {
			return nil, err
		}
	}

	locations, err := e.store.ListLocations(ctx, &store.FindLocation{ScriptID: &scriptID})
	if err != nil {
		return nil, err
	}
	locationNodes := make(map[string]*store.Node, len(locations))
	for _, location := range locations {
		node, err := e.ensureEntityNode(ctx, store.NodeTypeLocation, store.EntityID(location.ID), location.Name, result)
		if err != nil {
			return nil, err
		}
		locationNodes[location.Name] = node
	}
	for _, scene := range scenes {
		if scene.Location == "" {
			continue
		}
		locationNode := locationNodes[scene.Location]
		sceneNode := sceneNodes[scene.ID]
		if locationNode == nil || sceneNode == nil {
			continue
		}
		if err := e.ensureEdge(ctx, sceneNode.ID, locationNode.ID, store.EdgeTypeLocatedAt, nil, result); err != nil {
			return nil, err
		}
	}

	result.BuildMs = time.Since(start).Milliseconds()
	return result, nil
}

// SceneNode returns the graph node mirroring the given scene, or nil when
// the scene has not been synced.
func (e *Engine) SceneNode(ctx context.Context, sceneID int32) (*store.Node, error) {
	nodeType := store.NodeTypeScene
	entityID := store.EntityID(sceneID)
	nodes, err := e.store.FindNodes(ctx, &store.FindNode{Type: &nodeType, EntityID: &entityID})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

func (e *Engine) ensureEntityNode(ctx context.Context, nodeType store.NodeType, entityID store.EntityID, label string, result *SyncResult) (*store.Node, error) {
	nodes, err := e.store.FindNodes(ctx, &store.FindNode{Type: &nodeType, EntityID: &entityID})
	if err != nil {
		return nil, err
	}
	if len(nodes) > 0 {
		node := nodes[0]
		if node.Label != label {
			node, err = e.store.UpdateNode(ctx, &store.UpdateNode{ID: node.ID, Label: &label})
			if err != nil {
				return nil, err
			}
		}
		return node, nil
	}

	node, err := e.store.CreateNode(ctx, &store.Node{
		Type:     nodeType,
		EntityID: &entityID,
		Label:    label,
	})
	if err != nil {
		return nil, err
	}
	result.NodesCreated++
	return node, nil
}

func (e *Engine) ensureEdge(ctx context.Context, from, to string, edgeType store.EdgeType, props store.Properties, result *SyncResult) error {
	existing, err := e.store.FindEdges(ctx, &store.FindEdge{FromNodeID: &from, ToNodeID: &to, Type: &edgeType})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if _, err := e.store.CreateEdge(ctx, &store.Edge{
		FromNodeID: from,
		ToNodeID:   to,
		Type:       edgeType,
		Props:      props,
	}); err != nil {
		return err
	}
	result.EdgesCreated++
	return nil
}
