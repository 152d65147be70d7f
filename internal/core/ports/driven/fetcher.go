package driven

import "context"

// FetchOptions carries per-request loader options.
type FetchOptions struct {
	// Headers are extra request headers.
	Headers map[string]string
}

// Fetcher is the loader contract: it returns the raw body for a URI.
// Implementations report non-success responses as errors.
type Fetcher interface {
	// Fetch retrieves the document at uri.
	Fetch(ctx context.Context, uri string, opts FetchOptions) ([]byte, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string, opts FetchOptions) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, uri string, opts FetchOptions) ([]byte, error) {
	return f(ctx, uri, opts)
}
