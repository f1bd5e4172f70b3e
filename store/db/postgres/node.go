package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/screenplot/screenplot/store"
)

func (d *DB) CreateNode(ctx context.Context, create *store.Node) (*store.Node, error) {
	props, err := marshalProperties(create.Props)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node properties: %w", err)
	}

	fields := []string{"id", "node_type", "entity_id", "label", "properties"}
	args := []any{create.ID, create.Type, entityIDValue(create.EntityID), create.Label, props}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields = append(fields, "updated_ts")
		args = append(args, create.UpdatedTs)
	}

	stmt := `INSERT INTO nodes (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}

	return create, nil
}

func (d *DB) GetNode(ctx context.Context, id string) (*store.Node, error) {
	nodes, err := d.FindNodes(ctx, &store.FindNode{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

func (d *DB) UpdateNode(ctx context.Context, update *store.UpdateNode) (*store.Node, error) {
	set, args := []string{}, []any{}

	if v := update.Label; v != nil {
		set, args = append(set, "label = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.EntityID; v != nil {
		set, args = append(set, "entity_id = "+placeholder(len(args)+1)), append(args, int32(*v))
	}
	if v := update.Props; v != nil {
		props, err := marshalProperties(*v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal node properties: %w", err)
		}
		set, args = append(set, "properties = "+placeholder(len(args)+1)), append(args, props)
	}
	set = append(set, "updated_ts = EXTRACT(EPOCH FROM NOW())")
	args = append(args, update.ID)

	stmt := `UPDATE nodes SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to update node: %w", err)
	}

	return d.GetNode(ctx, update.ID)
}

// DeleteNode removes the node and all edges touching it in one transaction.
func (d *DB) DeleteNode(ctx context.Context, id string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM edges WHERE from_node_id = $1 OR to_node_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete node edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	return tx.Commit()
}

func (d *DB) FindNodes(ctx context.Context, find *store.FindNode) ([]*store.Node, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Type; v != nil {
		where, args = append(where, "node_type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.EntityID; v != nil {
		where, args = append(where, "entity_id = "+placeholder(len(args)+1)), append(args, int32(*v))
	}
	if v := find.LabelPattern; v != nil {
		where, args = append(where, "label LIKE "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, node_type, entity_id, label, properties::TEXT, created_ts, updated_ts
		FROM nodes
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts ASC, id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Node, 0)
	for rows.Next() {
		var node store.Node
		var entityID sql.NullInt32
		var props string
		if err := rows.Scan(
			&node.ID,
			&node.Type,
			&entityID,
			&node.Label,
			&props,
			&node.CreatedTs,
			&node.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		if entityID.Valid {
			eid := store.EntityID(entityID.Int32)
			node.EntityID = &eid
		}
		node.Props = unmarshalProperties(props)
		list = append(list, &node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nodes: %w", err)
	}

	return list, nil
}

func entityIDValue(id *store.EntityID) any {
	if id == nil {
		return nil
	}
	return int32(*id)
}
