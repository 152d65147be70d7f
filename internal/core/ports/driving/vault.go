package driving

import (
	"context"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

// GetOptions controls how a reference is resolved.
type GetOptions struct {
	// Type is used for bare ids whose type is not in the mapping.
	Type domain.EntityType

	// Parent selects the hasPart fragment to frame the entity with.
	// Empty falls back to the reference's own PartOf, then the entity id.
	Parent string

	// PreserveSpecificResources returns specific-resource wrappers as they are
	// instead of resolving their source.
	PreserveSpecificResources bool

	// SkipSelfReturn controls misses: nil or true returns nil, false returns
	// an unresolved stub.
	SkipSelfReturn *bool
}

// LoadOptions controls a document load.
type LoadOptions struct {
	// PartOf is the parent context the document is fetched under.
	// When the body declares a different id the entity is framed with it.
	PartOf string

	// Headers are extra request headers passed to the fetcher.
	Headers map[string]string
}

// RangeNode is one node of a table-of-contents tree.
type RangeNode struct {
	// Ref references the range or canvas.
	Ref domain.Reference

	// Label is the node label.
	Label domain.InternationalString

	// Children are nested ranges and canvases in order.
	Children []*RangeNode

	// Revisited is set when the range was already expanded elsewhere in the
	// tree; its children are not repeated.
	Revisited bool
}

// Vault is the normalised entity store.
type Vault interface {
	// Load fetches and imports a document, reusing any completed or in-flight request.
	Load(ctx context.Context, uri string, opts LoadOptions) (*domain.Entity, error)

	// LoadSync imports an already-fetched document body.
	LoadSync(uri string, body []byte, opts LoadOptions) (*domain.Entity, error)

	// Get resolves a reference against the committed state.
	Get(ref domain.Reference, opts GetOptions) *domain.Entity

	// GetAll resolves each reference in refs.
	GetAll(refs []domain.Reference, opts GetOptions) []*domain.Entity

	// GetByID resolves a bare id through the id-to-type mapping.
	GetByID(id string, opts GetOptions) *domain.Entity

	// Dispatch applies one action.
	Dispatch(action domain.Action)

	// DispatchBatch applies actions as one atomic unit.
	DispatchBatch(actions ...domain.Action)

	// State returns the committed state.
	State() *domain.State

	// RequestStatus returns the request record for uri.
	RequestStatus(uri string) (domain.RequestRecord, bool)

	// GetPaginationState returns the pagination record of a paged resource.
	GetPaginationState(ref domain.Reference) *domain.PaginationState

	// LoadNextPage fetches and merges the next page of a paged resource.
	LoadNextPage(ctx context.Context, ref domain.Reference) (*domain.PaginationState, *domain.Entity)

	// LoadAllPages loads pages until the resource is fully loaded or maxPages is reached.
	LoadAllPages(ctx context.Context, ref domain.Reference, maxPages int) (*domain.PaginationState, error)

	// RangeTree builds the table-of-contents tree below a range or manifest.
	RangeTree(ref domain.Reference) *RangeNode

	// Snapshot captures the committed state under name.
	Snapshot(name string) *domain.Snapshot

	// Restore replaces the state with a snapshot.
	Restore(snapshot *domain.Snapshot)
}
