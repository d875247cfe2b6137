// Package file stores watchlist schema snapshots as one document per
// watchlist in a directory. Documents are written as JSON; hand-maintained
// YAML documents (.yaml or .yml) are read as well. Every document is checked
// against an embedded JSON Schema before use.
package file

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"wlcheck/internal/schema"
	"wlcheck/internal/snapshot"
)

//go:embed document.schema.json
var documentSchema []byte

// Document is the on-disk form of one snapshot.
type Document struct {
	Watchlist string   `json:"watchlist" yaml:"watchlist"`
	Columns   []string `json:"columns" yaml:"columns"`
	UpdatedAt string   `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Store is a directory-backed snapshot.Store.
type Store struct {
	dir string
	now func() time.Time
}

var _ snapshot.Store = (*Store)(nil)

func init() {
	snapshot.Register("file", func(ctx context.Context, cfg snapshot.Config) (snapshot.Store, error) {
		return New(cfg.Dir)
	})
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file snapshot: dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file snapshot: create dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Columns implements snapshot.Store. The JSON document wins over a YAML one.
func (s *Store) Columns(ctx context.Context, watchlist string) ([]string, error) {
	if err := snapshot.CheckName(watchlist); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(s.dir, watchlist+ext)
		b, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("file snapshot: read %s: %w", path, err)
		}
		doc, err := decode(ext, b)
		if err != nil {
			return nil, fmt.Errorf("file snapshot: %s: %w", path, err)
		}
		if doc.Watchlist != watchlist {
			return nil, fmt.Errorf("file snapshot: %s holds watchlist %q", path, doc.Watchlist)
		}
		if doc.Columns == nil {
			doc.Columns = []string{}
		}
		return doc.Columns, nil
	}
	return nil, nil
}

func decode(ext string, b []byte) (Document, error) {
	var doc Document
	if ext == ".json" {
		if err := schema.Check(documentSchema, b); err != nil {
			return doc, err
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return doc, fmt.Errorf("decode json: %w", err)
		}
		return doc, nil
	}

	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return doc, fmt.Errorf("decode yaml: %w", err)
	}
	if err := schema.CheckValue(documentSchema, raw); err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode yaml: %w", err)
	}
	return doc, nil
}

// Save implements snapshot.Store. The document is written to a temporary file
// and renamed into place; any YAML document for the watchlist is removed so it
// cannot shadow a later delete.
func (s *Store) Save(ctx context.Context, watchlist string, columns []string) error {
	if err := snapshot.CheckName(watchlist); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if columns == nil {
		columns = []string{}
	}
	b, err := json.MarshalIndent(Document{
		Watchlist: watchlist,
		Columns:   columns,
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("file snapshot: encode: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("file snapshot: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("file snapshot: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file snapshot: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, watchlist+".json")); err != nil {
		return fmt.Errorf("file snapshot: rename: %w", err)
	}
	return s.remove(watchlist, ".yaml", ".yml")
}

// Delete implements snapshot.Store.
func (s *Store) Delete(ctx context.Context, watchlist string) error {
	if err := snapshot.CheckName(watchlist); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.remove(watchlist, ".json", ".yaml", ".yml")
}

func (s *Store) remove(watchlist string, exts ...string) error {
	for _, ext := range exts {
		err := os.Remove(filepath.Join(s.dir, watchlist+ext))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file snapshot: remove: %w", err)
		}
	}
	return nil
}

// Close implements snapshot.Store; the file store holds no resources.
func (s *Store) Close() error { return nil }
