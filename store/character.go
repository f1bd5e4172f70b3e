package store

import (
	"context"
)

// Character is a named character of a script.
type Character struct {
	ID        int32  `json:"id"`
	ScriptID  int32  `json:"scriptId"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"createdTs"`
}

type FindCharacter struct {
	ID       *int32
	ScriptID *int32
	Name     *string
}

// SceneCharacter marks a character's appearance in a scene.
type SceneCharacter struct {
	SceneID     int32 `json:"sceneId"`
	CharacterID int32 `json:"characterId"`
	// Name is the character name, populated on list for convenience.
	Name string `json:"name"`
}

type FindSceneCharacter struct {
	SceneID     *int32
	CharacterID *int32
	ScriptID    *int32
}

func (s *Store) CreateCharacter(ctx context.Context, create *Character) (*Character, error) {
	return s.driver.CreateCharacter(ctx, create)
}

func (s *Store) ListCharacters(ctx context.Context, find *FindCharacter) ([]*Character, error) {
	return s.driver.ListCharacters(ctx, find)
}

// UpsertSceneCharacter records an appearance; duplicates are ignored.
func (s *Store) UpsertSceneCharacter(ctx context.Context, upsert *SceneCharacter) error {
	return s.driver.UpsertSceneCharacter(ctx, upsert)
}

func (s *Store) ListSceneCharacters(ctx context.Context, find *FindSceneCharacter) ([]*SceneCharacter, error) {
	return s.driver.ListSceneCharacters(ctx, find)
}
