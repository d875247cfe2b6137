package mssql

import (
	"context"
	"testing"

	"wlcheck/internal/snapshot"
)

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), "", "t"); err == nil {
		t.Fatal("Open with empty DSN: want error")
	}
}

func TestRegistered(t *testing.T) {
	t.Parallel()
	for _, k := range snapshot.ListKinds() {
		if k == "mssql" {
			return
		}
	}
	t.Fatalf("mssql kind not registered: %v", snapshot.ListKinds())
}
