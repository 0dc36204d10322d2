package requestclient

import "context"

// Getter fetches a URL and returns the response body as text.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

// Poster sends a JSON document to a URL and returns the response body as text.
type Poster interface {
	Post(ctx context.Context, url, jsonBody string) (string, error)
}

// Doer is the full request surface, so callers can inject fakes or a different transport.
type Doer interface {
	Getter
	Poster
}

var _ Doer = (*Client)(nil)
