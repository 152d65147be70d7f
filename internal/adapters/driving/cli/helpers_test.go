package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/core/services"
	"github.com/custodia-labs/iiif-vault/internal/normalisers/presentation"
)

const (
	manifestURI = "https://example.org/manifest"
	canvas1     = "https://example.org/canvas/1"
	canvas2     = "https://example.org/canvas/2"
	rangeA      = "https://example.org/range/a"
	rangeB      = "https://example.org/range/b"
	collURI     = "https://example.org/coll"
	collPage1   = "https://example.org/coll?page=1"
	collPage2   = "https://example.org/coll?page=2"
)

var fixtures = map[string]string{
	manifestURI: `{
  "id": "https://example.org/manifest",
  "type": "Manifest",
  "label": {"en": ["Book"]},
  "items": [
    {"id": "https://example.org/canvas/1", "type": "Canvas", "label": {"en": ["p. 1"]}},
    {"id": "https://example.org/canvas/2", "type": "Canvas", "label": {"en": ["p. 2"]}}
  ],
  "structures": [
    {
      "id": "https://example.org/range/a",
      "type": "Range",
      "label": {"en": ["Chapter A"]},
      "items": [
        {"id": "https://example.org/canvas/1", "type": "Canvas"},
        {"id": "https://example.org/canvas/2", "type": "Canvas"}
      ]
    },
    {"id": "https://example.org/range/b", "type": "Range", "label": {"en": ["Chapter B"]}, "items": []}
  ]
}`,
	collURI: `{
  "id": "https://example.org/coll",
  "type": "Collection",
  "total": 2,
  "first": {"id": "https://example.org/coll?page=1", "type": "CollectionPage"}
}`,
	collPage1: `{
  "id": "https://example.org/coll?page=1",
  "type": "CollectionPage",
  "next": {"id": "https://example.org/coll?page=2", "type": "CollectionPage"},
  "items": [{"id": "https://example.org/m1", "type": "Manifest"}]
}`,
	collPage2: `{
  "id": "https://example.org/coll?page=2",
  "type": "CollectionPage",
  "items": [{"id": "https://example.org/m2", "type": "Manifest"}]
}`,
}

func fixtureFetcher() driven.Fetcher {
	return driven.FetcherFunc(func(_ context.Context, uri string, _ driven.FetchOptions) ([]byte, error) {
		body, ok := fixtures[uri]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return []byte(body), nil
	})
}

// setupTestServices installs a fixture-backed vault and returns it.
func setupTestServices(t *testing.T) *services.Vault {
	t.Helper()

	oldVault, oldSnapshot, oldSettings, oldClose, oldBuilder :=
		vaultService, snapshotService, settingsService, closeServices, builder

	vault := services.NewVault(services.Options{
		Fetcher:    fixtureFetcher(),
		Normaliser: presentation.New(),
	})
	builder = nil
	SetServices(&Services{
		Vault:    vault,
		Snapshot: services.NewSnapshotService(vault, memory.NewSnapshotStore()),
		Settings: services.NewSettingsService(memory.NewConfigStore()),
	})

	t.Cleanup(func() {
		vaultService, snapshotService, settingsService, closeServices, builder =
			oldVault, oldSnapshot, oldSettings, oldClose, oldBuilder
		resetFlags()
	})
	return vault
}

// resetFlags restores flag variables between executions of rootCmd.
func resetFlags() {
	verbose, configDir, snapshotName, prettyJSON = false, "", "", false
	loadPartOf, loadHeaders = "", nil
	getType, getParent, getPreserve, getStub, getPath = "", "", false, false, nil
	paginateAll, paginateMaxPages, paginateStatus = false, -1, false
	treeRangesOnly = false
	moveKey, moveToKey, moveSubjects, moveStart, moveLength, moveIndex = "items", "", nil, -1, 1, -1
}

// execute runs rootCmd with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func mustLoad(t *testing.T, vault *services.Vault, uri string) {
	t.Helper()
	_, err := vault.Load(context.Background(), uri, driving.LoadOptions{})
	require.NoError(t, err)
}
