// Package file reads watchlist files from the local disk.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local is a watchlist file on disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the file. A context that is already done wins over the
// filesystem; errors keep the underlying cause for errors.Is checks.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Name is the file's base name without extension, e.g. "HighRisk" for
// "exports/HighRisk.csv".
func (l *Local) Name() string {
	base := filepath.Base(l.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// String returns the path.
func (l *Local) String() string { return l.path }
