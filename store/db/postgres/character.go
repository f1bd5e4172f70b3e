package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/screenplot/screenplot/store"
)

func (d *DB) CreateCharacter(ctx context.Context, create *store.Character) (*store.Character, error) {
	stmt := `INSERT INTO characters (script_id, name)
		VALUES ($1, $2)
		ON CONFLICT (script_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, create.ScriptID, create.Name).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}

	return create, nil
}

func (d *DB) ListCharacters(ctx context.Context, find *store.FindCharacter) ([]*store.Character, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ScriptID; v != nil {
		where, args = append(where, "script_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "name = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, script_id, name, created_ts
		FROM characters
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Character, 0)
	for rows.Next() {
		var character store.Character
		if err := rows.Scan(
			&character.ID,
			&character.ScriptID,
			&character.Name,
			&character.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		list = append(list, &character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate characters: %w", err)
	}

	return list, nil
}

func (d *DB) UpsertSceneCharacter(ctx context.Context, upsert *store.SceneCharacter) error {
	stmt := `INSERT INTO scene_characters (scene_id, character_id)
		VALUES ($1, $2)
		ON CONFLICT (scene_id, character_id) DO NOTHING`

	if _, err := d.db.ExecContext(ctx, stmt, upsert.SceneID, upsert.CharacterID); err != nil {
		return fmt.Errorf("failed to upsert scene character: %w", err)
	}
	return nil
}

func (d *DB) ListSceneCharacters(ctx context.Context, find *store.FindSceneCharacter) ([]*store.SceneCharacter, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.SceneID; v != nil {
		where, args = append(where, "sc.scene_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CharacterID; v != nil {
		where, args = append(where, "sc.character_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ScriptID; v != nil {
		where, args = append(where, "c.script_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT sc.scene_id, sc.character_id, c.name
		FROM scene_characters sc
		JOIN characters c ON c.id = sc.character_id
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY sc.scene_id ASC, c.name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scene characters: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SceneCharacter, 0)
	for rows.Next() {
		var sceneCharacter store.SceneCharacter
		if err := rows.Scan(
			&sceneCharacter.SceneID,
			&sceneCharacter.CharacterID,
			&sceneCharacter.Name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scene character: %w", err)
		}
		list = append(list, &sceneCharacter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scene characters: %w", err)
	}

	return list, nil
}
