package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"goldrates/internal/fetcher"
	"goldrates/internal/pricing"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

// Rows are read as JSON so the same normalisation path serves both the
// REST and the direct database backends.
const (
	latestQuoteSQL = `SELECT row_to_json(g)::text
    FROM gold_prices_api g
    WHERE g.slug = $1
    ORDER BY g.date DESC
    LIMIT 1;`

	historyRowsSQL = `SELECT row_to_json(g)::text
    FROM gold_prices_22k_graph g
    WHERE g.slug = $1
    ORDER BY g.date DESC
    LIMIT $2;`
)

// Querier is the subset of pgxpool.Pool used by Store.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads gold quote views straight from PostgreSQL.
type Store struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	s := &Store{pool: pool}
	if pool != nil {
		s.db = pool
	}
	return s
}

// NewStoreWithQuerier builds a Store over any Querier.
func NewStoreWithQuerier(db Querier) *Store {
	return &Store{db: db}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) querier() (Querier, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	return s.db, nil
}

// LatestRow returns the newest quote row for region.
func (s *Store) LatestRow(ctx context.Context, region string) (pricing.RawQuoteRow, error) {
	db, err := s.querier()
	if err != nil {
		return nil, err
	}

	var raw string
	if err := db.QueryRow(ctx, latestQuoteSQL, region).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fetcher.ErrNoData
		}
		return nil, fmt.Errorf("latest quote row: %w", err)
	}
	return decodeRow(raw)
}

// HistoryRows returns up to limit of the newest history rows for region.
func (s *Store) HistoryRows(ctx context.Context, region string, limit int) ([]pricing.RawQuoteRow, error) {
	db, err := s.querier()
	if err != nil {
		return nil, err
	}

	rows, queryErr := db.Query(ctx, historyRowsSQL, region, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("history rows: %w", queryErr)
	}
	defer rows.Close()

	out := make([]pricing.RawQuoteRow, 0, limit)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		row, err := decodeRow(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func decodeRow(raw string) (pricing.RawQuoteRow, error) {
	var row pricing.RawQuoteRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return nil, fmt.Errorf("decode quote row: %w", err)
	}
	return row, nil
}

var _ fetcher.GoldQuoteStore = (*Store)(nil)
