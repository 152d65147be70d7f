package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/services"
	"github.com/custodia-labs/iiif-vault/internal/normalisers/presentation"
)

const (
	manifestURI = "https://example.org/manifest"
	canvasURI   = "https://example.org/canvas/1"
	collURI     = "https://example.org/coll"
	collPage1   = "https://example.org/coll?page=1"
)

var documents = map[string]string{
	manifestURI: `{
  "id": "https://example.org/manifest",
  "type": "Manifest",
  "label": {"en": ["Book"]},
  "items": [{"id": "https://example.org/canvas/1", "type": "Canvas", "label": {"en": ["p. 1"]}}]
}`,
	collURI: `{
  "id": "https://example.org/coll",
  "type": "Collection",
  "total": 1,
  "first": {"id": "https://example.org/coll?page=1", "type": "CollectionPage"}
}`,
	collPage1: `{
  "id": "https://example.org/coll?page=1",
  "type": "CollectionPage",
  "items": [{"id": "https://example.org/manifest", "type": "Manifest"}]
}`,
}

func testFetcher() driven.Fetcher {
	return driven.FetcherFunc(func(_ context.Context, uri string, _ driven.FetchOptions) ([]byte, error) {
		body, ok := documents[uri]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return []byte(body), nil
	})
}

func newTestServer(t *testing.T) (*Server, *services.Vault) {
	t.Helper()
	vault := services.NewVault(services.Options{
		Fetcher:    testFetcher(),
		Normaliser: presentation.New(),
	})
	server, err := NewServer(&Ports{
		Vault:    vault,
		Snapshot: services.NewSnapshotService(vault, memory.NewSnapshotStore()),
	})
	require.NoError(t, err)
	return server, vault
}
