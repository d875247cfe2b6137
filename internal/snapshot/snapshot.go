// Package snapshot looks up and records the column sets of deployed
// watchlists. The schema-diff step compares a new header against the columns
// returned by Store.Columns; a nil result means the watchlist has never been
// deployed.
//
// Backends register a Factory for their kind at init time. Import
// wlcheck/internal/snapshot/all to enable every built-in kind.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store reads and writes deployed watchlist schemas.
type Store interface {
	// Columns returns the deployed column names of watchlist in their stored
	// order, or nil when the watchlist has no snapshot.
	Columns(ctx context.Context, watchlist string) ([]string, error)
	// Save replaces the snapshot of watchlist.
	Save(ctx context.Context, watchlist string, columns []string) error
	// Delete removes the snapshot of watchlist. Deleting a missing snapshot
	// is not an error.
	Delete(ctx context.Context, watchlist string) error
	Close() error
}

// Config selects and parameterizes a Store.
type Config struct {
	Kind string
	// DSN is used by the database kinds.
	DSN string
	// Table holds one row per watchlist; it may be schema-qualified.
	Table string
	// Dir is the directory used by the file kind.
	Dir string
}

// Factory constructs a Store for cfg.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var (
	// ErrUnknownKind is returned by Open when no factory is registered.
	ErrUnknownKind = errors.New("unknown snapshot kind")
	// ErrInvalidName is returned for watchlist names no store can hold.
	ErrInvalidName = errors.New("invalid watchlist name")
)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// Open constructs the Store registered for cfg.Kind.
func Open(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownKind, cfg.Kind, strings.Join(ListKinds(), ", "))
	}
	s, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s snapshot store: %w", cfg.Kind, err)
	}
	return s, nil
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CheckName rejects watchlist names that are blank, padded, overly long, or
// that contain path separators or control characters.
func CheckName(name string) error {
	switch {
	case name == "" || strings.TrimSpace(name) != name:
		return fmt.Errorf("%w %q: must be non-empty without surrounding spaces", ErrInvalidName, name)
	case len(name) > 255:
		return fmt.Errorf("%w: longer than 255 bytes", ErrInvalidName)
	case name == "." || name == "..", strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w %q: must not be a path", ErrInvalidName, name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w %q: contains control characters", ErrInvalidName, name)
		}
	}
	return nil
}
