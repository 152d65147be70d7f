// Package fetcher routes document loads to the filesystem or HTTP loader.
package fetcher

import (
	"context"
	"fmt"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/fetcher/local"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.Fetcher = (*Router)(nil)

// Router sends local URIs to Local and everything else to Remote.
// Either side may be nil.
type Router struct {
	Local  driven.Fetcher
	Remote driven.Fetcher
}

// NewRouter creates a Router.
func NewRouter(localFetcher, remote driven.Fetcher) *Router {
	return &Router{Local: localFetcher, Remote: remote}
}

// Fetch implements driven.Fetcher.
func (r *Router) Fetch(ctx context.Context, uri string, opts driven.FetchOptions) ([]byte, error) {
	target := r.Remote
	if local.IsLocal(uri) {
		target = r.Local
	}
	if target == nil {
		return nil, fmt.Errorf("%w: no loader for %s", domain.ErrInvalidInput, uri)
	}
	return target.Fetch(ctx, uri, opts)
}
