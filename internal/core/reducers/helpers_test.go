package reducers

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

func canvasRefs(ids ...string) []domain.Reference {
	refs := make([]domain.Reference, len(ids))
	for i, id := range ids {
		refs[i] = domain.Ref(domain.TypeCanvas, id)
	}
	return refs
}

func refIDs(refs []domain.Reference) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

func rangeEntity(id string, items ...string) *domain.Entity {
	e := domain.NewEntity(domain.TypeRange, id)
	e.Refs["items"] = canvasRefs(items...)
	return e
}

func seed(entities ...*domain.Entity) *domain.State {
	partition := make(map[domain.EntityType]map[string]*domain.Entity)
	for _, e := range entities {
		if partition[e.Type] == nil {
			partition[e.Type] = make(map[string]*domain.Entity)
		}
		partition[e.Type][e.ID] = e
	}
	return Reduce(domain.NewState(), domain.ImportEntities{Entities: partition})
}

func get(state *domain.State, typ domain.EntityType, id string) *domain.Entity {
	e, _ := state.Lookup(typ, id)
	return e
}
