package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// catalog lists the collections reachable through Query and their columns,
// in the order rows are scanned.
var catalog = map[string][]string{
	"users":       {"id", "email", "password_hash", "full_name", "avatar_url", "is_instructor", "created_at"},
	"courses":     {"id", "title", "description", "price", "instructor_id", "thumbnail_url", "created_at"},
	"lessons":     {"id", "course_id", "title", "description", "content_url", "sort_order", "kind", "created_at"},
	"enrollments": {"id", "user_id", "course_id", "created_at"},
}

// Eq is an equality filter.
type Eq struct {
	Column string
	Value  any
}

type Order struct {
	Column string
	Desc   bool
}

// Query describes a read against one collection.
type Query struct {
	Table   string
	Columns []string
	Where   []Eq
	OrderBy []Order
	Limit   int
	Offset  int
}

// Build renders the query with ? placeholders. Table and column names must
// appear in the catalog.
func (q Query) Build() (string, []any, error) {
	known, ok := catalog[q.Table]
	if !ok {
		return "", nil, fmt.Errorf("unknown collection %q", q.Table)
	}
	check := func(col string) error {
		if !slices.Contains(known, col) {
			return fmt.Errorf("unknown column %q in %s", col, q.Table)
		}
		return nil
	}

	cols := q.Columns
	if len(cols) == 0 {
		cols = known
	}
	for _, c := range cols {
		if err := check(c); err != nil {
			return "", nil, err
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.Table)

	args := make([]any, 0, len(q.Where)+2)
	for i, w := range q.Where {
		if err := check(w.Column); err != nil {
			return "", nil, err
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(w.Column)
		b.WriteString(" = ?")
		args = append(args, w.Value)
	}

	for i, o := range q.OrderBy {
		if err := check(o.Column); err != nil {
			return "", nil, err
		}
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(o.Column)
		if o.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
		if q.Offset > 0 {
			b.WriteString(" OFFSET ?")
			args = append(args, q.Offset)
		}
	}
	return b.String(), args, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// selectRows runs q and calls scan for every row.
func (s *Store) selectRows(ctx context.Context, q Query, scan func(scanner) error) error {
	query, args, err := q.Build()
	if err != nil {
		return err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("select %s: %w", q.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", q.Table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", q.Table, err)
	}
	return nil
}

// selectOne runs q limited to one row; a missing row yields ErrNotFound.
func (s *Store) selectOne(ctx context.Context, q Query, scan func(scanner) error) error {
	q.Limit = 1
	q.Offset = 0
	query, args, err := q.Build()
	if err != nil {
		return err
	}
	row := s.db.QueryRowContext(ctx, s.rebind(query), args...)
	if err := scan(row); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, table string, where ...Eq) (bool, error) {
	err := s.selectOne(ctx, Query{Table: table, Columns: []string{"id"}, Where: where}, func(r scanner) error {
		var id string
		return r.Scan(&id)
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}
