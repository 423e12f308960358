package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
)

// projection is a fixed read-only query whose result columns are decoded
// positionally into T. columns and dest must line up one to one; the SQL is
// generated from columns so the two cannot drift apart silently.
type projection[T any] struct {
	name    string
	columns []string
	from    string
	dest    func(rec *T) []any
}

// newProjection panics when the column list and the destination list differ
// in length, which turns a decoder mismatch into a startup failure.
func newProjection[T any](name string, columns []string, from string, dest func(rec *T) []any) *projection[T] {
	p := &projection[T]{name: name, columns: columns, from: from, dest: dest}
	if c, d := p.columnCount(), p.destCount(); c != d {
		panic(fmt.Sprintf("projection %s: %d columns but %d scan destinations", name, c, d))
	}
	return p
}

func (p *projection[T]) sql() string {
	return "SELECT " + strings.Join(p.columns, ", ") + " FROM " + p.from
}

func (p *projection[T]) scan(row pgx.Row) (*T, error) {
	var rec T
	if err := row.Scan(p.dest(&rec)...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (p *projection[T]) one(ctx context.Context, q database.Querier, args ...any) (*T, error) {
	return queryOne(ctx, q, p.name, p.scan, p.sql(), args...)
}

func (p *projection[T]) all(ctx context.Context, q database.Querier, args ...any) ([]*T, error) {
	return queryList(ctx, q, p.name, p.scan, p.sql(), args...)
}

func (p *projection[T]) queryName() string { return p.name }
func (p *projection[T]) columnCount() int  { return len(p.columns) }
func (p *projection[T]) destCount() int    { return len(p.dest(new(T))) }

// projectionShape lets tests inspect projections of different record types.
type projectionShape interface {
	queryName() string
	columnCount() int
	destCount() int
}
