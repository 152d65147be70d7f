package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/normalisers/presentation"
)

const (
	manifestURI = "https://example.org/manifest"
	canvas1     = "https://example.org/canvas/1"
	canvas2     = "https://example.org/canvas/2"
	rangeA      = "https://example.org/range/a"
	rangeB      = "https://example.org/range/b"
	imageURI    = "https://example.org/image/1.jpg"
)

const manifestJSON = `{
  "id": "https://example.org/manifest",
  "type": "Manifest",
  "label": {"en": ["Book"]},
  "items": [
    {
      "id": "https://example.org/canvas/1",
      "type": "Canvas",
      "label": {"en": ["p. 1"]},
      "items": [{
        "id": "https://example.org/page/1",
        "type": "AnnotationPage",
        "items": [{
          "id": "https://example.org/anno/1",
          "type": "Annotation",
          "motivation": "painting",
          "body": {"id": "https://example.org/image/1.jpg", "type": "Image", "format": "image/jpeg"},
          "target": "https://example.org/canvas/1"
        }]
      }]
    },
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
    {
      "id": "https://example.org/range/b",
      "type": "Range",
      "label": {"en": ["Chapter B"]},
      "items": []
    }
  ]
}`

// Paged collection whose pages carry their own ids.
const (
	collURI   = "https://example.org/coll"
	collPage1 = "https://example.org/coll?page=1"
	collPage2 = "https://example.org/coll?page=2"
)

const collJSON = `{
  "id": "https://example.org/coll",
  "type": "Collection",
  "label": {"en": ["Paged"]},
  "total": 3,
  "first": {"id": "https://example.org/coll?page=1", "type": "CollectionPage"}
}`

const collPage1JSON = `{
  "id": "https://example.org/coll?page=1",
  "type": "CollectionPage",
  "items": [
    {"id": "https://example.org/m/1", "type": "Manifest", "label": {"en": ["One"]}},
    {"id": "https://example.org/m/2", "type": "Manifest", "label": {"en": ["Two"]}}
  ],
  "next": {"id": "https://example.org/coll?page=2", "type": "CollectionPage"}
}`

const collPage2JSON = `{
  "id": "https://example.org/coll?page=2",
  "type": "CollectionPage",
  "items": [
    {"id": "https://example.org/m/3", "type": "Manifest", "label": {"en": ["Three"]}}
  ],
  "prev": "https://example.org/coll?page=1"
}`

// Paged collection whose pages all declare the collection's id.
const (
	sameURI   = "https://example.org/same"
	samePage1 = "https://example.org/same?p=1"
	samePage2 = "https://example.org/same?p=2"
)

const sameJSON = `{
  "id": "https://example.org/same",
  "type": "Collection",
  "first": "https://example.org/same?p=1"
}`

const samePage1JSON = `{
  "id": "https://example.org/same",
  "type": "Collection",
  "items": [
    {"id": "https://example.org/m/1", "type": "Manifest", "label": {"en": ["One"]}},
    {"id": "https://example.org/m/2", "type": "Manifest", "label": {"en": ["Two"]}}
  ],
  "next": "https://example.org/same?p=2"
}`

const samePage2JSON = `{
  "id": "https://example.org/same",
  "type": "Collection",
  "items": [
    {"id": "https://example.org/m/3", "type": "Manifest", "label": {"en": ["Three"]}}
  ]
}`

// fakeFetcher serves canned bodies and counts calls per URI.
type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  map[string]int
	// block holds the first fetch of a URI until the channel is closed.
	block map[string]chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: map[string]string{
			manifestURI: manifestJSON,
			collURI:     collJSON,
			collPage1:   collPage1JSON,
			collPage2:   collPage2JSON,
			sameURI:     sameJSON,
			samePage1:   samePage1JSON,
			samePage2:   samePage2JSON,
		},
		errs:  make(map[string]error),
		calls: make(map[string]int),
		block: make(map[string]chan struct{}),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, uri string, _ driven.FetchOptions) ([]byte, error) {
	f.mu.Lock()
	f.calls[uri]++
	gate, blocked := f.block[uri]
	delete(f.block, uri)
	f.mu.Unlock()

	if blocked {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[uri]; err != nil {
		return nil, err
	}
	body, ok := f.bodies[uri]
	if !ok {
		return nil, fmt.Errorf("404 not found: %s", uri)
	}
	return []byte(body), nil
}

func (f *fakeFetcher) setErr(uri string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, uri)
		return
	}
	f.errs[uri] = err
}

func (f *fakeFetcher) hold(uri string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.block[uri] = gate
	return gate
}

func (f *fakeFetcher) count(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[uri]
}

func newTestVault(fetcher driven.Fetcher) *Vault {
	return NewVault(Options{
		Fetcher:     fetcher,
		Normaliser:  presentation.New(),
		WaitTimeout: time.Second,
	})
}

func ids(refs []domain.Reference) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.MatchID()
	}
	return out
}

func itemIDs(e *domain.Entity) []string {
	if e == nil {
		return nil
	}
	refs, _ := e.RefList("items")
	return ids(refs)
}

func boolPtr(b bool) *bool {
	return &b
}
