// Package all enables every built-in snapshot kind. Import it for side
// effects:
//
//	import _ "wlcheck/internal/snapshot/all"
//
// after which snapshot.Open accepts "file", "postgres", "sqlite", "mssql" and
// "mysql".
package all

import (
	_ "wlcheck/internal/snapshot/file"
	_ "wlcheck/internal/snapshot/mssql"
	_ "wlcheck/internal/snapshot/mysql"
	_ "wlcheck/internal/snapshot/postgres"
	_ "wlcheck/internal/snapshot/sqlite"
)
