package sequence

import (
	"context"
	"log/slog"
	"sort"

	"github.com/screenplot/screenplot/store"
)

// GetLogicalOrder computes a logical scene order from the strong
// dependencies, persists it and mirrors it as FOLLOWS edges. On a
// dependency cycle the whole script falls back to script order.
func (s *Service) GetLogicalOrder(ctx context.Context, scriptID int32) ([]*store.Scene, error) {
	scenes, err := s.EnsureScriptOrder(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return scenes, nil
	}

	minStrength := store.StrongDependencyThreshold
	deps, err := s.store.ListSceneDependencies(ctx, &store.FindSceneDependency{
		ScriptID:    &scriptID,
		MinStrength: &minStrength,
	})
	if err != nil {
		return nil, err
	}

	ordered, ok := topoSort(scenes, deps)
	if !ok {
		slog.Warn("dependency cycle detected, falling back to script order", "scriptID", scriptID)
		ordered = make([]*store.Scene, len(scenes))
		copy(ordered, scenes)
		sort.SliceStable(ordered, func(i, j int) bool {
			return *ordered[i].ScriptOrder < *ordered[j].ScriptOrder
		})
	}

	updates := make([]*store.UpdateSceneOrder, 0, len(ordered))
	for i, scene := range ordered {
		order := int32(i + 1)
		scene.LogicalOrder = &order
		updates = append(updates, &store.UpdateSceneOrder{
			SceneID: scene.ID,
			Type:    store.OrderTypeLogical,
			Value:   &order,
		})
	}
	if err := s.store.UpdateSceneOrders(ctx, updates); err != nil {
		return nil, err
	}
	if err := s.mirrorFollows(ctx, ordered, store.OrderTypeLogical); err != nil {
		return nil, err
	}
	return ordered, nil
}

// topoSort runs Kahn's algorithm over the dependency graph. A scene that
// depends on another is placed after it; ties are broken by script order
// so the result stays close to the authored sequence. The second return
// is false when the graph contains a cycle.
func topoSort(scenes []*store.Scene, deps []*store.SceneDependency) ([]*store.Scene, bool) {
	byID := make(map[int32]*store.Scene, len(scenes))
	inDegree := make(map[int32]int, len(scenes))
	for _, scene := range scenes {
		byID[scene.ID] = scene
		inDegree[scene.ID] = 0
	}

	// dep.From depends on dep.To, so To unlocks From.
	dependents := make(map[int32][]int32)
	for _, dep := range deps {
		if byID[dep.FromSceneID] == nil || byID[dep.ToSceneID] == nil {
			continue
		}
		dependents[dep.ToSceneID] = append(dependents[dep.ToSceneID], dep.FromSceneID)
		inDegree[dep.FromSceneID]++
	}

	ready := make([]*store.Scene, 0, len(scenes))
	for _, scene := range scenes {
		if inDegree[scene.ID] == 0 {
			ready = append(ready, scene)
		}
	}

	ordered := make([]*store.Scene, 0, len(scenes))
	for len(ready) > 0 {
		next := 0
		for i := 1; i < len(ready); i++ {
			if *ready[i].ScriptOrder < *ready[next].ScriptOrder {
				next = i
			}
		}
		scene := ready[next]
		ready = append(ready[:next], ready[next+1:]...)
		ordered = append(ordered, scene)

		for _, dependent := range dependents[scene.ID] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, byID[dependent])
			}
		}
	}

	if len(ordered) != len(scenes) {
		return nil, false
	}
	return ordered, true
}
