package datasource

import (
	"errors"
	"testing"

	"wlcheck/internal/datasource/file"
	"wlcheck/internal/datasource/httpds"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantKind string
		wantName string
		wantErr  error
	}{
		{name: "relative path", in: "exports/HighRisk.csv", wantKind: "file", wantName: "HighRisk"},
		{name: "file url", in: "file:///data/Leavers.csv", wantKind: "file", wantName: "Leavers"},
		{name: "https", in: "https://hr.example.com/x/Contractors.csv", wantKind: "http", wantName: "Contractors"},
		{name: "upper-case scheme", in: "HTTP://hr.example.com/a.csv", wantKind: "http", wantName: "a"},
		{name: "ftp rejected", in: "ftp://hr.example.com/a.csv", wantErr: ErrUnsupportedScheme},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src, err := Resolve(tt.in, httpds.Config{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err=%v; want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			switch src.(type) {
			case *file.Local:
				if tt.wantKind != "file" {
					t.Fatalf("got file source; want %s", tt.wantKind)
				}
			case *httpds.Source:
				if tt.wantKind != "http" {
					t.Fatalf("got http source; want %s", tt.wantKind)
				}
			default:
				t.Fatalf("unexpected source %T", src)
			}
			if src.Name() != tt.wantName {
				t.Fatalf("Name=%q; want %q", src.Name(), tt.wantName)
			}
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	t.Parallel()
	if _, err := Resolve("  ", httpds.Config{}); err == nil {
		t.Fatal("want error for empty location")
	}
}
