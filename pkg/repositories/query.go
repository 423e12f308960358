package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// rowScanner decodes one row into a new record.
type rowScanner[T any] func(row pgx.Row) (*T, error)

// queryOne runs a single-row lookup. A missing row is apperrors.ErrNotFound.
func queryOne[T any](ctx context.Context, q database.Querier, what string, scan rowScanner[T], sql string, args ...any) (*T, error) {
	item, err := scan(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return item, nil
}

// queryList runs a multi-row query. The result is never nil.
func queryList[T any](ctx context.Context, q database.Querier, what string, scan rowScanner[T], sql string, args ...any) ([]*T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}

	return items, nil
}

// pageQuery describes a paged listing over one table.
type pageQuery struct {
	what       string
	columns    string
	from       string
	conditions []string
	args       []any
	orderBy    string
}

// where joins the conditions, or returns "" when there are none.
func (p *pageQuery) where() string {
	if len(p.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conditions, " AND ")
}

// add appends a condition whose single placeholder is written as %d.
func (p *pageQuery) add(condition string, arg any) {
	p.args = append(p.args, arg)
	p.conditions = append(p.conditions, fmt.Sprintf(condition, len(p.args)))
}

// queryPage counts the matching rows, then fetches the requested slice.
// orderBy must make the order total so pages never overlap.
func queryPage[T any](ctx context.Context, q database.Querier, pq pageQuery, req models.PageRequest, scan rowScanner[T]) (*models.Page[*T], error) {
	where := pq.where()

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, pq.from, where)
	var total int64
	if err := q.QueryRow(ctx, countQuery, pq.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", pq.what, err)
	}

	argIdx := len(pq.args) + 1
	dataQuery := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		pq.columns, pq.from, where, pq.orderBy, argIdx, argIdx+1)
	args := append(append([]any{}, pq.args...), req.Size, req.Offset())

	items, err := queryList(ctx, q, pq.what, scan, dataQuery, args...)
	if err != nil {
		return nil, err
	}

	return models.NewPage(items, req, total), nil
}

// writeError wraps a failed INSERT/UPDATE with the translated application error.
func writeError(action string, err error) error {
	translated := database.TranslateError(err)
	if errors.Is(translated, apperrors.ErrNotFound) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, translated)
}

// deleteByID removes one row by primary key.
func deleteByID(ctx context.Context, q database.Querier, what, table, idColumn string, id any) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, idColumn)

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		translated := database.TranslateError(err)
		if errors.Is(translated, apperrors.ErrInvalidReference) {
			return fmt.Errorf("failed to delete %s: %w: still referenced by other records", what, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to delete %s: %w", what, translated)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
