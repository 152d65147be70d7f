package services

import (
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// Get resolves a reference against the committed state.
//
// Specific-resource wrappers resolve to their source unless
// PreserveSpecificResources is set. Entities carrying hasPart fragments are
// framed with the fragment for the parent context. Misses return nil, or an
// unresolved stub when SkipSelfReturn is false.
//
// The returned entity belongs to the store and must not be modified.
func (v *Vault) Get(ref domain.Reference, opts driving.GetOptions) *domain.Entity {
	return resolve(v.State(), ref, opts)
}

// GetAll resolves each reference in refs. Misses are nil entries unless
// SkipSelfReturn is false.
func (v *Vault) GetAll(refs []domain.Reference, opts driving.GetOptions) []*domain.Entity {
	return resolveAll(v.State(), refs, opts)
}

// GetByID resolves a bare id through the id-to-type mapping.
func (v *Vault) GetByID(id string, opts driving.GetOptions) *domain.Entity {
	return resolve(v.State(), domain.Reference{ID: id}, opts)
}

func resolveAll(state *domain.State, refs []domain.Reference, opts driving.GetOptions) []*domain.Entity {
	out := make([]*domain.Entity, len(refs))
	for i, ref := range refs {
		out[i] = resolve(state, ref, opts)
	}
	return out
}

func resolve(state *domain.State, ref domain.Reference, opts driving.GetOptions) *domain.Entity {
	if ref.IsSpecificResource() {
		if opts.PreserveSpecificResources {
			return specificResource(state, ref)
		}
		source := ref.Unwrap()
		if source.PartOf == "" {
			source.PartOf = ref.PartOf
		}
		ref = source
	}

	seen := make(map[string]bool)
	id := ref.ID
	for id != "" && !seen[id] {
		seen[id] = true

		typ := typeOf(state, id, ref.Type, opts.Type)
		if entity, ok := state.Lookup(typ, id); ok {
			return frame(entity, ref, opts)
		}

		// A request whose body declared another id resolves through that id.
		record, ok := state.Requests[id]
		if !ok || record.ResourceURI == "" || record.ResourceURI == id {
			break
		}
		id = record.ResourceURI
		ref.Type = ""
	}

	if skipSelfReturn(opts) {
		return nil
	}
	stub := ref
	if stub.Type == "" {
		stub.Type = state.Mapping[ref.ID]
	}
	return domain.Stub(stub)
}

// typeOf picks the partition for id: the reference's own type, then the
// import mapping, then the caller's type hint.
func typeOf(state *domain.State, id string, declared, hint domain.EntityType) domain.EntityType {
	if declared != "" {
		if !declared.IsValid() {
			return domain.Partition(string(declared))
		}
		return declared
	}
	if typ, ok := state.Mapping[id]; ok {
		return typ
	}
	return hint
}

// frame lays the fragment for the parent context over entity. Without an
// explicit parent the reference's partOf is used, then the entity's own id.
func frame(entity *domain.Entity, ref domain.Reference, opts driving.GetOptions) *domain.Entity {
	if len(entity.HasPart) == 0 {
		return entity
	}
	parent := opts.Parent
	if parent == "" {
		parent = ref.PartOf
	}
	if parent == "" {
		parent = entity.ID
	}
	part, ok := entity.FragmentFor(parent)
	if !ok {
		return entity
	}
	return entity.Frame(part)
}

// specificResource returns a stored specific resource, or an entity view of
// the wrapper when it has no stored record.
func specificResource(state *domain.State, ref domain.Reference) *domain.Entity {
	if ref.ID != "" {
		if entity, ok := state.Lookup(domain.TypeSpecificResource, ref.ID); ok {
			return entity
		}
	}
	entity := domain.NewEntity(domain.TypeSpecificResource, ref.ID)
	entity.Refs["source"] = []domain.Reference{*ref.Source}
	if ref.Selector != nil {
		entity.Extensions["selector"] = ref.Selector
	}
	return entity
}

func skipSelfReturn(opts driving.GetOptions) bool {
	return opts.SkipSelfReturn == nil || *opts.SkipSelfReturn
}
