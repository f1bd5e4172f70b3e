package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/screenplot/screenplot/store"
)

func (d *DB) CreateScript(ctx context.Context, create *store.Script) (*store.Script, error) {
	fields := []string{"uid", "title", "author"}
	args := []any{create.UID, create.Title, create.Author}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}

	stmt := `INSERT INTO scripts (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create script: %w", err)
	}

	return create, nil
}

func (d *DB) ListScripts(ctx context.Context, find *store.FindScript) ([]*store.Script, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, title, author, created_ts, updated_ts
		FROM scripts
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts ASC, id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scripts: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Script, 0)
	for rows.Next() {
		var script store.Script
		if err := rows.Scan(
			&script.ID,
			&script.UID,
			&script.Title,
			&script.Author,
			&script.CreatedTs,
			&script.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		list = append(list, &script)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scripts: %w", err)
	}

	return list, nil
}
