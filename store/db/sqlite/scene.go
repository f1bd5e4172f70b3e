package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/screenplot/screenplot/store"
)

func (d *DB) CreateScene(ctx context.Context, create *store.Scene) (*store.Scene, error) {
	fields := []string{"uid", "script_id", "heading", "time_of_day", "location", "content"}
	args := []any{create.UID, create.ScriptID, create.Heading, create.TimeOfDay, create.Location, create.Content}

	if create.ScriptOrder != nil {
		fields = append(fields, "script_order")
		args = append(args, *create.ScriptOrder)
	}
	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}

	stmt := `INSERT INTO scenes (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	return create, nil
}

func (d *DB) ListScenes(ctx context.Context, find *store.FindScene) ([]*store.Scene, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ScriptID; v != nil {
		where, args = append(where, "script_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Authored order first, creation order for scenes not yet ordered.
	query := `
		SELECT id, uid, script_id, heading, time_of_day, location, content,
			script_order, temporal_order, logical_order, created_ts, updated_ts
		FROM scenes
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY script_order IS NULL, script_order ASC, created_ts ASC, id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Scene, 0)
	for rows.Next() {
		var scene store.Scene
		var scriptOrder, temporalOrder, logicalOrder sql.NullInt32
		if err := rows.Scan(
			&scene.ID,
			&scene.UID,
			&scene.ScriptID,
			&scene.Heading,
			&scene.TimeOfDay,
			&scene.Location,
			&scene.Content,
			&scriptOrder,
			&temporalOrder,
			&logicalOrder,
			&scene.CreatedTs,
			&scene.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		if scriptOrder.Valid {
			scene.ScriptOrder = &scriptOrder.Int32
		}
		if temporalOrder.Valid {
			scene.TemporalOrder = &temporalOrder.Int32
		}
		if logicalOrder.Valid {
			scene.LogicalOrder = &logicalOrder.Int32
		}
		list = append(list, &scene)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenes: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateScene(ctx context.Context, update *store.UpdateScene) error {
	set, args := []string{}, []any{}

	if v := update.Heading; v != nil {
		set, args = append(set, "heading = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.TimeOfDay; v != nil {
		set, args = append(set, "time_of_day = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "location = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Content; v != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_ts = strftime('%s', 'now')")
	args = append(args, update.ID)

	stmt := `UPDATE scenes SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update scene: %w", err)
	}
	return nil
}

func orderColumn(orderType store.OrderType) (string, error) {
	switch orderType {
	case store.OrderTypeScript:
		return "script_order", nil
	case store.OrderTypeTemporal:
		return "temporal_order", nil
	case store.OrderTypeLogical:
		return "logical_order", nil
	}
	return "", fmt.Errorf("unknown order type: %s", orderType)
}

func (d *DB) UpdateSceneOrder(ctx context.Context, update *store.UpdateSceneOrder) error {
	return d.UpdateSceneOrders(ctx, []*store.UpdateSceneOrder{update})
}

// UpdateSceneOrders applies all order writes in one transaction.
func (d *DB) UpdateSceneOrders(ctx context.Context, updates []*store.UpdateSceneOrder) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, update := range updates {
		column, err := orderColumn(update.Type)
		if err != nil {
			return err
		}
		stmt := `UPDATE scenes SET ` + column + ` = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`
		var value any
		if update.Value != nil {
			value = *update.Value
		}
		if _, err := tx.ExecContext(ctx, stmt, value, update.SceneID); err != nil {
			return fmt.Errorf("failed to update scene order: %w", err)
		}
	}

	return tx.Commit()
}
