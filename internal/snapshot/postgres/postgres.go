// Package postgres registers the "postgres" snapshot kind backed by a pgx v5
// connection pool. Column lists are stored as text[].
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wlcheck/internal/snapshot"
)

// Store is a Postgres-backed snapshot.Store.
type Store struct {
	pool  *pgxpool.Pool
	table string // quoted
	now   func() time.Time
}

var _ snapshot.Store = (*Store)(nil)

func init() {
	snapshot.Register("postgres", func(ctx context.Context, cfg snapshot.Config) (snapshot.Store, error) {
		return Open(ctx, cfg.DSN, cfg.Table)
	})
}

// Open connects to dsn, e.g. "postgres://wlcheck@localhost:5432/wlcheck", and
// creates the snapshot table when missing.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	s := &Store{pool: pool, table: pgFQN(table), now: time.Now}
	if _, err := pool.Exec(ctx, createSQL(s.table)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: create table %s: %w", s.table, err)
	}
	return s, nil
}

func createSQL(t string) string {
	return "CREATE TABLE IF NOT EXISTS " + t + " (" +
		"name text PRIMARY KEY, " +
		"column_list text[] NOT NULL, " +
		"updated_at timestamptz NOT NULL)"
}

func selectSQL(t string) string {
	return "SELECT column_list FROM " + t + " WHERE name = $1"
}

func upsertSQL(t string) string {
	return "INSERT INTO " + t + " (name, column_list, updated_at) VALUES ($1, $2, $3) " +
		"ON CONFLICT (name) DO UPDATE SET column_list = EXCLUDED.column_list, updated_at = EXCLUDED.updated_at"
}

func deleteSQL(t string) string {
	return "DELETE FROM " + t + " WHERE name = $1"
}

// Columns implements snapshot.Store.
func (s *Store) Columns(ctx context.Context, watchlist string) ([]string, error) {
	if err := snapshot.CheckName(watchlist); err != nil {
		return nil, err
	}
	var cols []string
	err := s.pool.QueryRow(ctx, selectSQL(s.table), watchlist).Scan(&cols)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: select snapshot: %w", err)
	}
	if cols == nil {
		cols = []string{}
	}
	return cols, nil
}

// Save implements snapshot.Store.
func (s *Store) Save(ctx context.Context, watchlist string, columns []string) error {
	if err := snapshot.CheckName(watchlist); err != nil {
		return err
	}
	if columns == nil {
		columns = []string{}
	}
	if _, err := s.pool.Exec(ctx, upsertSQL(s.table), watchlist, columns, s.now().UTC()); err != nil {
		return fmt.Errorf("postgres: save snapshot: %w", err)
	}
	return nil
}

// Delete implements snapshot.Store.
func (s *Store) Delete(ctx context.Context, watchlist string) error {
	if err := snapshot.CheckName(watchlist); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, deleteSQL(s.table), watchlist); err != nil {
		return fmt.Errorf("postgres: delete snapshot: %w", err)
	}
	return nil
}

// Close implements snapshot.Store.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// pgIdent quotes an identifier for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.watchlists" to
// "\"public\".\"watchlists\"".
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}
