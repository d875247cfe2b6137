package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wlcheck/internal/snapshot"
)

func TestOpen_ViaRegistry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "wlcheck.db")

	st, err := snapshot.Open(ctx, snapshot.Config{Kind: "sqlite", DSN: dsn, Table: "watchlist_schemas"})
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, "HighRisk", []string{"Email", "Name"}))
	require.NoError(t, st.Close())

	// A second open sees the persisted row.
	st, err = snapshot.Open(ctx, snapshot.Config{Kind: "sqlite", DSN: dsn, Table: "watchlist_schemas"})
	require.NoError(t, err)
	defer st.Close()
	cols, err := st.Columns(ctx, "HighRisk")
	require.NoError(t, err)
	assert.Equal(t, []string{"Email", "Name"}, cols)
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), " ", "t")
	require.Error(t, err)
}

func TestOpen_EmptyTable(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), ":memory:", "")
	require.Error(t, err)
}
