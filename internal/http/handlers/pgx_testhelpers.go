package handlers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SimpleRow adapts a scan func to pgx.Row for handler tests.
type SimpleRow struct {
	scan func(dest ...any) error
}

func NewSimpleRow(scanner func(dest ...any) error) SimpleRow {
	return SimpleRow{scan: scanner}
}

func (r SimpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// StubSQL answers every statement with a fixed row. Tests that need
// per-query behavior can set RowFunc.
type StubSQL struct {
	Row     SimpleRow
	RowFunc func(query string, args ...any) pgx.Row
	ExecTag pgconn.CommandTag
	Queries []string
}

func (s *StubSQL) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	s.Queries = append(s.Queries, query)
	return s.ExecTag, nil
}

func (s *StubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.Queries = append(s.Queries, query)
	if s.RowFunc != nil {
		return s.RowFunc(query, args...)
	}
	return s.Row
}

func (s *StubSQL) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	s.Queries = append(s.Queries, query)
	return nil, pgx.ErrNoRows
}
