package httpds

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSource_Open(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exports/HighRisk.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "Email\na@x.io\n")
	}))
	defer srv.Close()

	src := NewSource(fastClient(0), srv.URL+"/exports/HighRisk.csv")
	if src.Name() != "HighRisk" {
		t.Fatalf("Name=%q; want HighRisk", src.Name())
	}
	rc, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "Email\na@x.io\n" {
		t.Fatalf("body=%q", b)
	}

	_, err = NewSource(fastClient(0), srv.URL+"/missing.csv").Open(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("err=%v; want *StatusError 404", err)
	}
}
