package services

import (
	"context"
	"fmt"
)

// namedRow is the (id, name) shape shared by countries and technologies
type namedRow struct {
	ID   int64
	Name string
}

// namedTable implements CRUD for tables whose only payload is a unique name
type namedTable struct {
	table string
	what  string
}

func (t namedTable) list(ctx context.Context, q queryer) ([]namedRow, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, t.table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.table, err)
	}
	defer rows.Close()

	items := make([]namedRow, 0)
	for rows.Next() {
		var r namedRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.what, err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (t namedTable) get(ctx context.Context, q queryer, id int64) (namedRow, error) {
	var r namedRow
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, t.table), id).Scan(&r.ID, &r.Name)
	return r, translateError(err, t.what)
}

func (t namedTable) create(ctx context.Context, q queryer, name string) (namedRow, error) {
	var r namedRow
	err := q.QueryRowContext(ctx, fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, name`, t.table), name).Scan(&r.ID, &r.Name)
	return r, translateError(err, t.what)
}

func (t namedTable) update(ctx context.Context, q queryer, id int64, name string) (namedRow, error) {
	var r namedRow
	err := q.QueryRowContext(ctx, fmt.Sprintf(`UPDATE %s SET name = $2 WHERE id = $1 RETURNING id, name`, t.table), id, name).Scan(&r.ID, &r.Name)
	return r, translateError(err, t.what)
}

func (t namedTable) delete(ctx context.Context, q queryer, id int64) error {
	result, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table), id)
	if err != nil {
		return translateError(err, t.what)
	}
	return expectAffected(result, t.what)
}
