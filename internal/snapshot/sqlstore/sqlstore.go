// Package sqlstore is a snapshot.Store over database/sql. Each watchlist is
// one row holding its column list as a JSON array; the SQL that differs
// between backends lives in a Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wlcheck/internal/snapshot"
)

// Store is a database/sql backed snapshot.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string // quoted
	now     func() time.Time
}

var _ snapshot.Store = (*Store)(nil)

// New creates the snapshot table when missing and returns a Store that owns
// db; Close closes it.
func New(ctx context.Context, db *sql.DB, table string, d Dialect) (*Store, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("%s: table must not be empty", d.Name)
	}
	s := &Store{db: db, dialect: d, table: d.FQN(table), now: time.Now}
	if _, err := db.ExecContext(ctx, d.Create(s.table)); err != nil {
		return nil, fmt.Errorf("%s: create table %s: %w", d.Name, s.table, err)
	}
	return s, nil
}

// Columns implements snapshot.Store.
func (s *Store) Columns(ctx context.Context, watchlist string) ([]string, error) {
	if err := snapshot.CheckName(watchlist); err != nil {
		return nil, err
	}
	var raw string
	err := s.db.QueryRowContext(ctx, s.dialect.selectSQL(s.table), watchlist).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: select snapshot: %w", s.dialect.Name, err)
	}
	cols := []string{}
	if err := json.Unmarshal([]byte(raw), &cols); err != nil {
		return nil, fmt.Errorf("%s: decode column list of %q: %w", s.dialect.Name, watchlist, err)
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
	raw, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("%s: encode column list: %w", s.dialect.Name, err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert(s.table), watchlist, string(raw), s.now().UTC()); err != nil {
		return fmt.Errorf("%s: save snapshot: %w", s.dialect.Name, err)
	}
	return nil
}

// Delete implements snapshot.Store.
func (s *Store) Delete(ctx context.Context, watchlist string) error {
	if err := snapshot.CheckName(watchlist); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.deleteSQL(s.table), watchlist); err != nil {
		return fmt.Errorf("%s: delete snapshot: %w", s.dialect.Name, err)
	}
	return nil
}

// Close implements snapshot.Store.
func (s *Store) Close() error { return s.db.Close() }
