package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/logger"
)

type claimResult int

const (
	claimOwned claimResult = iota
	claimReady
	claimWait
)

// RequestStatus returns the request record for uri.
func (v *Vault) RequestStatus(uri string) (domain.RequestRecord, bool) {
	record, ok := v.State().Requests[uri]
	return record, ok
}

// Load fetches and imports the document at uri.
//
// A completed request is a cache hit. A request already in flight is
// awaited until it finishes or the wait timeout passes; on timeout or
// failure of the other request this call issues its own fetch. Failed
// requests are retried.
func (v *Vault) Load(ctx context.Context, uri string, opts driving.LoadOptions) (*domain.Entity, error) {
	if v.fetcher == nil {
		return nil, domain.ErrNoFetcher
	}

	force := false
	for {
		result, wait, cancel := v.claim(uri, force)
		switch result {
		case claimReady:
			logger.Debug("vault: cache hit for %s", uri)
			return v.loaded(uri, opts), nil

		case claimWait:
			record, ok := v.waitFor(ctx, wait)
			cancel()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if ok && record.LoadingState == domain.LoadingReady {
				return v.loaded(uri, opts), nil
			}
			logger.Debug("vault: in-flight request for %s did not complete, fetching", uri)
			force = true

		default:
			return v.fetchAndImport(ctx, uri, opts)
		}
	}
}

// LoadSync imports an already-fetched body as the document at uri.
func (v *Vault) LoadSync(uri string, body []byte, opts driving.LoadOptions) (*domain.Entity, error) {
	return v.importBody(uri, body, opts, domain.RequestResource{RequestURI: uri})
}

// claim decides under the dispatch lock whether this caller fetches uri,
// uses the completed result, or waits for the request in flight.
func (v *Vault) claim(uri string, force bool) (claimResult, <-chan domain.RequestRecord, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	record, ok := v.state.Load().Requests[uri]
	if ok && !force {
		switch record.LoadingState {
		case domain.LoadingReady:
			return claimReady, nil, func() {}
		case domain.LoadingRequested, domain.LoadingResource:
			wait := make(chan domain.RequestRecord, 1)
			sub := v.Subscribe(func(_, next *domain.State) {
				current, ok := next.Requests[uri]
				if !ok || !current.LoadingState.IsTerminal() {
					return
				}
				select {
				case wait <- current:
				default:
				}
			})
			return claimWait, wait, sub.Unsubscribe
		}
	}

	v.apply(domain.Batch{Actions: []domain.Action{
		domain.RequestResource{RequestURI: uri},
		domain.ResourceLoading{RequestURI: uri},
	}})
	return claimOwned, nil, func() {}
}

// waitFor blocks until the awaited request finishes, the wait timeout
// passes or ctx is done. The boolean is false unless a record arrived.
func (v *Vault) waitFor(ctx context.Context, wait <-chan domain.RequestRecord) (domain.RequestRecord, bool) {
	timer := time.NewTimer(v.waitTimeout)
	defer timer.Stop()

	select {
	case record := <-wait:
		return record, true
	case <-timer.C:
		return domain.RequestRecord{}, false
	case <-ctx.Done():
		return domain.RequestRecord{}, false
	}
}

func (v *Vault) fetchAndImport(ctx context.Context, uri string, opts driving.LoadOptions) (*domain.Entity, error) {
	logger.Debug("vault: fetching %s", uri)
	body, err := v.fetcher.Fetch(ctx, uri, driven.FetchOptions{Headers: opts.Headers})
	if err != nil {
		v.Dispatch(domain.ResourceError{RequestURI: uri, Message: err.Error()})
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, uri, err)
	}
	return v.importBody(uri, body, opts)
}

// importBody normalises body and dispatches prelude, the imports and the
// request completion as one batch.
func (v *Vault) importBody(uri string, body []byte, opts driving.LoadOptions, prelude ...domain.Action) (*domain.Entity, error) {
	if v.normaliser == nil {
		return nil, fmt.Errorf("%w: normaliser not configured", domain.ErrNormalise)
	}

	result, err := v.normaliser.Normalise(uri, body)
	if err != nil {
		v.DispatchBatch(append(prelude, domain.ResourceError{RequestURI: uri, Message: err.Error()})...)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrNormalise, uri, err)
	}

	actions := append(prelude, importActions(result, opts.PartOf)...)
	if result.Root.ID != "" && result.Root.ID != uri {
		logger.Debug("vault: %s declared id %s", uri, result.Root.ID)
		actions = append(actions, domain.RequestMismatch{RequestURI: uri, ActualID: result.Root.ID})
	}
	actions = append(actions, domain.ResourceReady{RequestURI: uri})
	v.DispatchBatch(actions...)

	return v.loaded(uri, opts), nil
}

// importActions splits the normalised entities into one import for the
// nested entities and one for the root, which is framed under partOf.
func importActions(result *driven.NormaliseResult, partOf string) []domain.Action {
	nested := make(domain.Entities, len(result.Entities))
	var root *domain.Entity
	for typ, partition := range result.Entities {
		for id, entity := range partition {
			if id == result.Root.ID && typ == result.Root.Type {
				root = entity
				continue
			}
			if nested[typ] == nil {
				nested[typ] = make(map[string]*domain.Entity)
			}
			nested[typ][id] = entity
		}
	}

	var actions []domain.Action
	if len(nested) > 0 {
		actions = append(actions, domain.ImportEntities{Entities: nested})
	}
	if root != nil {
		actions = append(actions, domain.ImportEntities{
			Entities: domain.Entities{root.Type: {root.ID: root}},
			Context:  partOf,
		})
	}
	return actions
}

// loaded resolves the entity a completed request produced.
func (v *Vault) loaded(uri string, opts driving.LoadOptions) *domain.Entity {
	state := v.State()
	id := uri
	if record, ok := state.Requests[uri]; ok && record.ResourceURI != "" {
		id = record.ResourceURI
	}
	skip := false
	return resolve(state, domain.Reference{ID: id}, driving.GetOptions{
		Parent:         opts.PartOf,
		SkipSelfReturn: &skip,
	})
}
