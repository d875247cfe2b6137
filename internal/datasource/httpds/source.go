package httpds

import (
	"context"
	"fmt"
	"io"
)

// StatusError reports a final non-2xx response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpds: GET %s: %s", e.URL, e.Status)
}

// Source is a remote watchlist file.
type Source struct {
	client *Client
	url    string
}

// NewSource returns a Source that downloads url with client.
func NewSource(client *Client, url string) *Source {
	return &Source{client: client, url: url}
}

// Open downloads the file. The body is returned unread; callers bound how
// much of it they consume.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
		return nil, &StatusError{URL: s.url, Status: resp.Status, Code: resp.StatusCode}
	}
	return resp.Body, nil
}

// Name derives a watchlist name from the URL.
func (s *Source) Name() string { return NameFromURL(s.url) }

// String returns the URL.
func (s *Source) String() string { return s.url }

