package reducers

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// Reduce folds one action into state and returns the next state.
// It returns state itself when the action changed nothing.
func Reduce(state *domain.State, action domain.Action) *domain.State {
	if state == nil {
		state = domain.NewState()
	}

	switch a := action.(type) {
	case domain.Batch:
		for _, sub := range a.Actions {
			state = Reduce(state, sub)
		}
		return state
	case domain.HydrateState:
		if a.State == nil {
			return state
		}
		return hydrate(a.State)
	}

	entities, entitiesChanged := Entities(state.Entities, action)
	mapping, mappingChanged := Mapping(state.Mapping, action)
	requests, requestsChanged := Requests(state.Requests, action)
	meta, metaChanged := Meta(state.Meta, action)

	if !entitiesChanged && !mappingChanged && !requestsChanged && !metaChanged {
		return state
	}

	return &domain.State{
		Entities: entities,
		Mapping:  mapping,
		Requests: requests,
		Meta:     meta,
	}
}

// hydrate fills any nil maps of a restored state.
func hydrate(in *domain.State) *domain.State {
	out := *in
	if out.Entities == nil {
		out.Entities = make(domain.Entities)
	}
	if out.Mapping == nil {
		out.Mapping = make(domain.Mapping)
	}
	if out.Requests == nil {
		out.Requests = make(domain.Requests)
	}
	if out.Meta == nil {
		out.Meta = make(domain.Meta)
	}
	return &out
}
