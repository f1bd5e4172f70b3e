package sequence

import (
	"context"
	"fmt"
	"sort"

	"github.com/screenplot/screenplot/store"
)

// ConflictType classifies an ordering inconsistency.
type ConflictType string

const (
	ConflictMissingScriptOrder  ConflictType = "missing_script_order"
	ConflictDuplicateOrder      ConflictType = "duplicate_order"
	ConflictDependencyViolation ConflictType = "dependency_violation"
)

// Conflict describes one inconsistency found by the validator.
type Conflict struct {
	Type         ConflictType    `json:"type"`
	SceneID      int32           `json:"sceneId"`
	OtherSceneID int32           `json:"otherSceneId,omitempty"`
	OrderType    store.OrderType `json:"orderType,omitempty"`
	Message      string          `json:"message"`
}

// ConsistencyReport is the result of validating a script's orderings.
type ConsistencyReport struct {
	ScriptID  int32      `json:"scriptId"`
	Valid     bool       `json:"valid"`
	Conflicts []Conflict `json:"conflicts"`
}

// ValidateOrderingConsistency checks the three scene orders for missing
// script positions, duplicated positions within an order, and strong
// dependencies that the logical order violates. It never mutates; the
// report lists everything a resequencing run would have to fix.
func (s *Service) ValidateOrderingConsistency(ctx context.Context, scriptID int32) (*ConsistencyReport, error) {
	scenes, err := s.store.ListScenes(ctx, &store.FindScene{ScriptID: &scriptID})
	if err != nil {
		return nil, err
	}
	report := &ConsistencyReport{ScriptID: scriptID, Conflicts: []Conflict{}}

	for _, scene := range scenes {
		if scene.ScriptOrder == nil {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:      ConflictMissingScriptOrder,
				SceneID:   scene.ID,
				OrderType: store.OrderTypeScript,
				Message:   fmt.Sprintf("scene %d has no script order", scene.ID),
			})
		}
	}

	for _, orderType := range []store.OrderType{store.OrderTypeScript, store.OrderTypeTemporal, store.OrderTypeLogical} {
		report.Conflicts = append(report.Conflicts, duplicateOrderConflicts(scenes, orderType)...)
	}

	minStrength := store.StrongDependencyThreshold
	deps, err := s.store.ListSceneDependencies(ctx, &store.FindSceneDependency{
		ScriptID:    &scriptID,
		MinStrength: &minStrength,
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[int32]*store.Scene, len(scenes))
	for _, scene := range scenes {
		byID[scene.ID] = scene
	}
	for _, dep := range deps {
		from, to := byID[dep.FromSceneID], byID[dep.ToSceneID]
		if from == nil || to == nil || from.LogicalOrder == nil || to.LogicalOrder == nil {
			continue
		}
		if *from.LogicalOrder <= *to.LogicalOrder {
			report.Conflicts = append(report.Conflicts, Conflict{
				Type:         ConflictDependencyViolation,
				SceneID:      dep.FromSceneID,
				OtherSceneID: dep.ToSceneID,
				OrderType:    store.OrderTypeLogical,
				Message: fmt.Sprintf("scene %d %s scene %d but is ordered at or before it",
					dep.FromSceneID, dep.Type, dep.ToSceneID),
			})
		}
	}

	report.Valid = len(report.Conflicts) == 0
	return report, nil
}

func duplicateOrderConflicts(scenes []*store.Scene, orderType store.OrderType) []Conflict {
	firstSeen := make(map[int32]int32)
	var conflicts []Conflict
	sorted := make([]*store.Scene, len(scenes))
	copy(sorted, scenes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, scene := range sorted {
		value := scene.OrderValue(orderType)
		if value == nil {
			continue
		}
		if other, dup := firstSeen[*value]; dup {
			conflicts = append(conflicts, Conflict{
				Type:         ConflictDuplicateOrder,
				SceneID:      scene.ID,
				OtherSceneID: other,
				OrderType:    orderType,
				Message: fmt.Sprintf("scenes %d and %d share %s order %d",
					other, scene.ID, orderType, *value),
			})
			continue
		}
		firstSeen[*value] = scene.ID
	}
	return conflicts
}
