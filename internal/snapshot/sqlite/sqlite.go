// Package sqlite registers the "sqlite" snapshot kind backed by
// modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"wlcheck/internal/snapshot"
	"wlcheck/internal/snapshot/sqlstore"
)

func init() {
	snapshot.Register("sqlite", func(ctx context.Context, cfg snapshot.Config) (snapshot.Store, error) {
		return Open(ctx, cfg.DSN, cfg.Table)
	})
}

// Open connects to the SQLite database at dsn, e.g. "wlcheck.db" or
// "file:wlcheck.db?_pragma=busy_timeout(5000)".
func Open(ctx context.Context, dsn, table string) (*sqlstore.Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// SQLite serializes writers; one connection also keeps :memory: databases
	// coherent.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	s, err := sqlstore.New(ctx, db, table, sqlstore.SQLite)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
