// Package datasource opens watchlist inputs given as local paths or
// HTTP(S) URLs.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"wlcheck/internal/datasource/file"
	"wlcheck/internal/datasource/httpds"
)

// Source is one watchlist input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name is the default watchlist name derived from the location.
	Name() string
	String() string
}

// ErrUnsupportedScheme is returned for URLs other than http, https and file.
var ErrUnsupportedScheme = errors.New("unsupported input scheme")

// Resolve maps a location to a Source. "http://" and "https://" URLs are
// downloaded with a client built from cfg; "file://" URLs and anything
// without a scheme are local paths.
func Resolve(location string, cfg httpds.Config) (Source, error) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		return nil, errors.New("empty input location")
	}
	scheme, rest, ok := strings.Cut(loc, "://")
	if !ok {
		return file.NewLocal(loc), nil
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
		return httpds.NewSource(httpds.NewClient(cfg), loc), nil
	case "file":
		return file.NewLocal(rest), nil
	default:
		return nil, fmt.Errorf("%w %q in %s", ErrUnsupportedScheme, scheme, loc)
	}
}
