// Package mysql registers the "mysql" snapshot kind backed by
// github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"wlcheck/internal/snapshot"
	"wlcheck/internal/snapshot/sqlstore"
)

func init() {
	snapshot.Register("mysql", func(ctx context.Context, cfg snapshot.Config) (snapshot.Store, error) {
		return Open(ctx, cfg.DSN, cfg.Table)
	})
}

// Open connects to MySQL, e.g. "wlcheck:secret@tcp(localhost:3306)/wlcheck".
func Open(ctx context.Context, dsn, table string) (*sqlstore.Store, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	// updated_at is written as time.Time.
	mc.ParseTime = true

	conn, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("mysql: connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	s, err := sqlstore.New(ctx, db, table, sqlstore.MySQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
