package store

import (
	"context"
)

// DependencyType classifies why one scene depends on another.
type DependencyType string

const (
	DependencyTypeRequires    DependencyType = "REQUIRES"
	DependencyTypeReferences  DependencyType = "REFERENCES"
	DependencyTypeContinues   DependencyType = "CONTINUES"
	DependencyTypeFlashbackTo DependencyType = "FLASHBACK_TO"
)

// StrongDependencyThreshold is the minimum strength at which a dependency
// constrains the logical order.
const StrongDependencyThreshold = 0.7

// SceneDependency records that FromSceneID depends on ToSceneID. Unique per
// (from, to, type) triple; upserting a duplicate keeps the existing row.
type SceneDependency struct {
	ID          int32          `json:"id"`
	FromSceneID int32          `json:"fromSceneId"`
	ToSceneID   int32          `json:"toSceneId"`
	Type        DependencyType `json:"type"`
	Description string         `json:"description"`
	Strength    float64        `json:"strength"`
	Metadata    Properties     `json:"metadata,omitempty"`
	CreatedTs   int64          `json:"createdTs"`
}

type FindSceneDependency struct {
	FromSceneID *int32
	ToSceneID   *int32
	ScriptID    *int32
	Type        *DependencyType
	MinStrength *float64
}

type DeleteSceneDependency struct {
	ID *int32
	// ScriptID removes every dependency between scenes of the script.
	ScriptID *int32
}

// IsStrong reports whether the dependency constrains logical ordering.
func (d *SceneDependency) IsStrong() bool {
	return d.Strength >= StrongDependencyThreshold
}

// UpsertSceneDependency persists a detected dependency; a duplicate triple
// is skipped and the stored row returned.
func (s *Store) UpsertSceneDependency(ctx context.Context, upsert *SceneDependency) (*SceneDependency, error) {
	return s.driver.UpsertSceneDependency(ctx, upsert)
}

func (s *Store) ListSceneDependencies(ctx context.Context, find *FindSceneDependency) ([]*SceneDependency, error) {
	return s.driver.ListSceneDependencies(ctx, find)
}

func (s *Store) DeleteSceneDependency(ctx context.Context, delete *DeleteSceneDependency) error {
	return s.driver.DeleteSceneDependency(ctx, delete)
}
