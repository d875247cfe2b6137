package sqlstore

import (
	"fmt"
	"strings"
)

// Dialect holds the SQL that differs between database/sql backends. Table
// arguments are already quoted.
type Dialect struct {
	Name string
	// Ident quotes one identifier part.
	Ident func(string) string
	// Bind returns the n-th (1-based) bind parameter.
	Bind func(n int) string
	// Create returns an idempotent CREATE TABLE statement.
	Create func(table string) string
	// Upsert inserts or replaces a row given (name, column_list, updated_at).
	Upsert func(table string) string
}

func question(int) string { return "?" }

// SQLite targets modernc.org/sqlite.
var SQLite = Dialect{
	Name:  "sqlite",
	Ident: func(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` },
	Bind:  question,
	Create: func(t string) string {
		return "CREATE TABLE IF NOT EXISTS " + t + " (" +
			"name TEXT NOT NULL PRIMARY KEY, " +
			"column_list TEXT NOT NULL, " +
			"updated_at TIMESTAMP NOT NULL)"
	},
	Upsert: func(t string) string {
		return "INSERT INTO " + t + " (name, column_list, updated_at) VALUES (?, ?, ?) " +
			"ON CONFLICT (name) DO UPDATE SET column_list = excluded.column_list, updated_at = excluded.updated_at"
	},
}

// MySQL targets github.com/go-sql-driver/mysql.
var MySQL = Dialect{
	Name:  "mysql",
	Ident: func(s string) string { return "`" + strings.ReplaceAll(s, "`", "``") + "`" },
	Bind:  question,
	Create: func(t string) string {
		return "CREATE TABLE IF NOT EXISTS " + t + " (" +
			"name VARCHAR(255) NOT NULL PRIMARY KEY, " +
			"column_list MEDIUMTEXT NOT NULL, " +
			"updated_at DATETIME(6) NOT NULL)"
	},
	Upsert: func(t string) string {
		return "INSERT INTO " + t + " (name, column_list, updated_at) VALUES (?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE column_list = VALUES(column_list), updated_at = VALUES(updated_at)"
	},
}

// MSSQL targets github.com/microsoft/go-mssqldb.
var MSSQL = Dialect{
	Name:  "mssql",
	Ident: func(s string) string { return `[` + strings.ReplaceAll(s, `]`, `]]`) + `]` },
	Bind:  func(n int) string { return fmt.Sprintf("@p%d", n) },
	Create: func(t string) string {
		return "IF OBJECT_ID(N'" + strings.ReplaceAll(t, "'", "''") + "', N'U') IS NULL " +
			"CREATE TABLE " + t + " (" +
			"name NVARCHAR(255) NOT NULL PRIMARY KEY, " +
			"column_list NVARCHAR(MAX) NOT NULL, " +
			"updated_at DATETIME2 NOT NULL)"
	},
	Upsert: func(t string) string {
		return "MERGE " + t + " WITH (HOLDLOCK) AS tgt " +
			"USING (SELECT @p1 AS name, @p2 AS column_list, @p3 AS updated_at) AS src " +
			"ON tgt.name = src.name " +
			"WHEN MATCHED THEN UPDATE SET column_list = src.column_list, updated_at = src.updated_at " +
			"WHEN NOT MATCHED THEN INSERT (name, column_list, updated_at) " +
			"VALUES (src.name, src.column_list, src.updated_at);"
	},
}

// FQN quotes a possibly schema-qualified table name part by part, so
// "dbo.watchlists" becomes "[dbo].[watchlists]" under MSSQL.
func (d Dialect) FQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.Ident(p)
	}
	return strings.Join(parts, ".")
}

func (d Dialect) selectSQL(t string) string {
	return "SELECT column_list FROM " + t + " WHERE name = " + d.Bind(1)
}

func (d Dialect) deleteSQL(t string) string {
	return "DELETE FROM " + t + " WHERE name = " + d.Bind(1)
}
