// Package local loads documents from the filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher reads file:// URIs and plain paths.
// Relative paths resolve against Root when it is set.
type Fetcher struct {
	Root string
}

// New creates a filesystem fetcher rooted at root.
func New(root string) *Fetcher {
	return &Fetcher{Root: root}
}

// Fetch reads the file named by uri.
func (f *Fetcher) Fetch(ctx context.Context, uri string, _ driven.FetchOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := f.Path(uri)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Path maps uri to a filesystem path.
func (f *Fetcher) Path(uri string) (string, error) {
	path := uri
	if IsFileURI(uri) {
		u, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, uri)
		}
		path = u.Path
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	if !filepath.IsAbs(path) && f.Root != "" {
		path = filepath.Join(f.Root, path)
	}
	return filepath.Clean(path), nil
}

// IsFileURI reports whether uri uses the file scheme.
func IsFileURI(uri string) bool {
	return strings.HasPrefix(strings.ToLower(uri), "file://")
}

// IsLocal reports whether uri should be read from disk: a file URI or
// anything without a scheme.
func IsLocal(uri string) bool {
	if IsFileURI(uri) {
		return true
	}
	u, err := url.Parse(uri)
	if err != nil {
		return true
	}
	// A Windows drive letter parses as a one-letter scheme.
	return u.Scheme == "" || len(u.Scheme) == 1
}
