package file

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLocal_Open(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "HighRisk.csv", "Email,Name\na@x.io,A\n")
	rc, err := NewLocal(path).Open(context.Background())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(b) != "Email,Name\na@x.io,A\n" {
		t.Fatalf("content=%q", b)
	}
}

func TestLocal_OpenMissing(t *testing.T) {
	t.Parallel()

	_, err := NewLocal(filepath.Join(t.TempDir(), "nope.csv")).Open(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err=%v; want fs.ErrNotExist", err)
	}
}

func TestLocal_OpenCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeTempFile(t, "a.csv", "x")
	if _, err := NewLocal(path).Open(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v; want context.Canceled", err)
	}
}

func TestLocal_Name(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"exports/HighRisk.csv", "HighRisk"},
		{"Leavers", "Leavers"},
		{"/tmp/a.b.tsv", "a.b"},
	}
	for _, tt := range tests {
		if got := NewLocal(tt.path).Name(); got != tt.want {
			t.Fatalf("Name(%q)=%q; want %q", tt.path, got, tt.want)
		}
	}
}

func TestReadList(t *testing.T) {
	t.Parallel()

	content := `
# nightly exports
exports/HighRisk.csv
   # indented comment
https://hr.example.com/export/Leavers.csv

   exports/Contractors.csv
`
	path := writeTempFile(t, "list.txt", content)

	got, err := ReadList(path)
	if err != nil {
		t.Fatalf("ReadList error: %v", err)
	}
	want := []string{
		"exports/HighRisk.csv",
		"https://hr.example.com/export/Leavers.csv",
		"exports/Contractors.csv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadList = %#v, want %#v", got, want)
	}
}

func TestReadList_Empty(t *testing.T) {
	t.Parallel()

	got, err := ReadList(writeTempFile(t, "list.txt", ""))
	if err != nil {
		t.Fatalf("ReadList error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

func TestReadList_Missing(t *testing.T) {
	t.Parallel()

	if _, err := ReadList("does-not-exist-12345.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
