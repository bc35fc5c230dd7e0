package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"goldrates/internal/fetcher"
)

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

type fakeRows struct {
	values []string
	idx    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.values) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.values[r.idx-1]
	return nil
}

type fakeQuerier struct {
	row      fakeRow
	rows     []string
	lastArgs []any
}

func (q *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	q.lastArgs = args
	return &fakeRows{values: q.rows}, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.lastArgs = args
	return q.row
}

func TestStoreLatestRow(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{value: `{"date":"2026-01-31","22K_1g_today":14720}`}}
	store := NewStoreWithQuerier(q)

	row, err := store.LatestRow(context.Background(), "kerala")
	if err != nil {
		t.Fatalf("latest row: %v", err)
	}
	if row["22K_1g_today"] != 14720.0 {
		t.Fatalf("unexpected row %v", row)
	}
	if q.lastArgs[0] != "kerala" {
		t.Fatalf("region not bound: %v", q.lastArgs)
	}
}

func TestStoreLatestRowNoRows(t *testing.T) {
	store := NewStoreWithQuerier(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})
	if _, err := store.LatestRow(context.Background(), "kerala"); !errors.Is(err, fetcher.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestStoreHistoryRows(t *testing.T) {
	q := &fakeQuerier{rows: []string{`{"date":"2026-01-31","price":1}`, `{"date":"2026-01-30","price":2}`}}
	store := NewStoreWithQuerier(q)

	rows, err := store.HistoryRows(context.Background(), "kerala", 30)
	if err != nil {
		t.Fatalf("history rows: %v", err)
	}
	if len(rows) != 2 || rows[1]["date"] != "2026-01-30" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if q.lastArgs[1] != 30 {
		t.Fatalf("limit not bound: %v", q.lastArgs)
	}
}

func TestStoreNotConfigured(t *testing.T) {
	var store *Store
	if _, err := store.LatestRow(context.Background(), "kerala"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("nil store should report ErrNotConfigured, got %v", err)
	}
	if _, err := NewStore(nil).HistoryRows(context.Background(), "kerala", 1); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("store without pool should report ErrNotConfigured, got %v", err)
	}
}
