package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/screenplot/screenplot/store"
)

func (d *DB) UpsertSceneDependency(ctx context.Context, upsert *store.SceneDependency) (*store.SceneDependency, error) {
	metadata, err := marshalProperties(upsert.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dependency metadata: %w", err)
	}

	// A duplicate (from, to, type) triple keeps the existing row untouched.
	stmt := `INSERT INTO scene_dependencies (from_scene_id, to_scene_id, dependency_type, description, strength, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (from_scene_id, to_scene_id, dependency_type) DO NOTHING
		RETURNING id, created_ts`

	err = d.db.QueryRowContext(ctx, stmt,
		upsert.FromSceneID,
		upsert.ToSceneID,
		upsert.Type,
		upsert.Description,
		upsert.Strength,
		metadata,
	).Scan(&upsert.ID, &upsert.CreatedTs)
	if err == nil {
		return upsert, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to upsert scene dependency: %w", err)
	}

	// Conflict: return the stored row.
	existing, err := d.ListSceneDependencies(ctx, &store.FindSceneDependency{
		FromSceneID: &upsert.FromSceneID,
		ToSceneID:   &upsert.ToSceneID,
		Type:        &upsert.Type,
	})
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("scene dependency upsert conflict but row not found")
	}
	return existing[0], nil
}

func (d *DB) ListSceneDependencies(ctx context.Context, find *store.FindSceneDependency) ([]*store.SceneDependency, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.FromSceneID; v != nil {
		where, args = append(where, "sd.from_scene_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ToSceneID; v != nil {
		where, args = append(where, "sd.to_scene_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Type; v != nil {
		where, args = append(where, "sd.dependency_type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.MinStrength; v != nil {
		where, args = append(where, "sd.strength >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ScriptID; v != nil {
		where, args = append(where, "s.script_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT sd.id, sd.from_scene_id, sd.to_scene_id, sd.dependency_type, sd.description, sd.strength, sd.metadata, sd.created_ts
		FROM scene_dependencies sd
		JOIN scenes s ON s.id = sd.from_scene_id
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY sd.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scene dependencies: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SceneDependency, 0)
	for rows.Next() {
		var dependency store.SceneDependency
		var metadata string
		if err := rows.Scan(
			&dependency.ID,
			&dependency.FromSceneID,
			&dependency.ToSceneID,
			&dependency.Type,
			&dependency.Description,
			&dependency.Strength,
			&metadata,
			&dependency.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scene dependency: %w", err)
		}
		dependency.Metadata = unmarshalProperties(metadata)
		list = append(list, &dependency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scene dependencies: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteSceneDependency(ctx context.Context, delete *store.DeleteSceneDependency) error {
	if delete.ID != nil {
		if _, err := d.db.ExecContext(ctx, "DELETE FROM scene_dependencies WHERE id = ?", *delete.ID); err != nil {
			return fmt.Errorf("failed to delete scene dependency: %w", err)
		}
		return nil
	}
	if delete.ScriptID != nil {
		stmt := `DELETE FROM scene_dependencies
			WHERE from_scene_id IN (SELECT id FROM scenes WHERE script_id = ?)`
		if _, err := d.db.ExecContext(ctx, stmt, *delete.ScriptID); err != nil {
			return fmt.Errorf("failed to delete script dependencies: %w", err)
		}
		return nil
	}
	return fmt.Errorf("delete scene dependency requires an id or script id")
}
