package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/screenplot/screenplot/store"
)

func (d *DB) CreateLocation(ctx context.Context, create *store.Location) (*store.Location, error) {
	stmt := `INSERT INTO locations (script_id, name)
		VALUES (?, ?)
		ON CONFLICT (script_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, create.ScriptID, create.Name).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return create, nil
}

func (d *DB) ListLocations(ctx context.Context, find *store.FindLocation) ([]*store.Location, error) {
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
		FROM locations
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Location, 0)
	for rows.Next() {
		var location store.Location
		if err := rows.Scan(
			&location.ID,
			&location.ScriptID,
			&location.Name,
			&location.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		list = append(list, &location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}

	return list, nil
}
