package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/fechador/store"
)

func (d *DB) CreateResolution(ctx context.Context, create *store.Resolution) (*store.Resolution, error) {
	fields := []string{
		"request_id", "expression", "reference", "zone",
		"language", "outcome", "provenance", "iso_datetime",
	}
	placeholderValues := []any{
		create.RequestID, create.Expression, create.Reference, create.Zone,
		create.Language, create.Outcome, create.Provenance, create.ISO,
	}
	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO resolution (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create resolution: %w", err)
	}
	return create, nil
}

func (d *DB) ListResolutions(ctx context.Context, find *store.FindResolution) ([]*store.Resolution, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Outcome; v != nil {
		where, args = append(where, "outcome = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Language; v != nil {
		where, args = append(where, "language = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, request_id, expression, reference, zone,
			language, outcome, provenance, iso_datetime, created_ts
		FROM resolution
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Resolution, 0)
	for rows.Next() {
		var r store.Resolution
		if err := rows.Scan(
			&r.ID,
			&r.RequestID,
			&r.Expression,
			&r.Reference,
			&r.Zone,
			&r.Language,
			&r.Outcome,
			&r.Provenance,
			&r.ISO,
			&r.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		list = append(list, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resolutions: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteResolutions(ctx context.Context, delete *store.DeleteResolution) (int64, error) {
	where, args := []string{}, []any{}

	if v := delete.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.CreatedTsBefore; v != nil {
		where, args = append(where, "created_ts < "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("refusing to delete resolutions without a condition")
	}

	result, err := d.db.ExecContext(ctx, "DELETE FROM resolution WHERE "+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete resolutions: %w", err)
	}
	return result.RowsAffected()
}
