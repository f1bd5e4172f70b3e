package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/screenplot/screenplot/store"
)

func (d *DB) CreateEdge(ctx context.Context, create *store.Edge) (*store.Edge, error) {
	props, err := marshalProperties(create.Props)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal edge properties: %w", err)
	}

	fields := []string{"id", "from_node_id", "to_node_id", "edge_type", "properties", "weight"}
	args := []any{create.ID, create.FromNodeID, create.ToNodeID, create.Type, props, create.Weight}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}

	stmt := `INSERT INTO edges (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create edge: %w", err)
	}

	return create, nil
}

func (d *DB) GetEdge(ctx context.Context, id string) (*store.Edge, error) {
	edges, err := d.FindEdges(ctx, &store.FindEdge{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, nil
	}
	return edges[0], nil
}

func (d *DB) DeleteEdge(ctx context.Context, delete *store.DeleteEdge) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM edges WHERE id = $1", delete.ID); err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	return nil
}

func (d *DB) FindEdges(ctx context.Context, find *store.FindEdge) ([]*store.Edge, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.FromNodeID; v != nil {
		where, args = append(where, "from_node_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ToNodeID; v != nil {
		where, args = append(where, "to_node_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Type; v != nil {
		where, args = append(where, "edge_type = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, from_node_id, to_node_id, edge_type, properties::TEXT, weight, created_ts, updated_ts
		FROM edges
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts ASC, id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Edge, 0)
	for rows.Next() {
		var edge store.Edge
		var props string
		if err := rows.Scan(
			&edge.ID,
			&edge.FromNodeID,
			&edge.ToNodeID,
			&edge.Type,
			&props,
			&edge.Weight,
			&edge.CreatedTs,
			&edge.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edge.Props = unmarshalProperties(props)
		list = append(list, &edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate edges: %w", err)
	}

	return list, nil
}
