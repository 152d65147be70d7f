package reducers

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// Entities applies entity actions. The boolean reports whether anything changed.
func Entities(entities domain.Entities, action domain.Action) (domain.Entities, bool) {
	switch a := action.(type) {
	case domain.ModifyEntityField:
		return modifyEntityField(entities, a)
	case domain.ReorderEntityField:
		return reorderEntityField(entities, a)
	case domain.AddReference:
		return addReference(entities, a)
	case domain.UpdateReference:
		return updateReference(entities, a)
	case domain.RemoveReference:
		return removeReference(entities, a)
	case domain.MoveEntities:
		return moveEntities(entities, a)
	case domain.AddMetadata:
		return addMetadata(entities, a)
	case domain.UpdateMetadata:
		return updateMetadata(entities, a)
	case domain.RemoveMetadata:
		return removeMetadata(entities, a)
	case domain.ReorderMetadata:
		return reorderMetadata(entities, a)
	case domain.ImportEntities:
		return importEntities(entities, a)
	default:
		return entities, false
	}
}

// Mapping records the type of every imported id.
func Mapping(mapping domain.Mapping, action domain.Action) (domain.Mapping, bool) {
	imp, ok := action.(domain.ImportEntities)
	if !ok {
		return mapping, false
	}

	var next domain.Mapping
	for typ, partition := range imp.Entities {
		for id := range partition {
			if mapping[id] == typ {
				continue
			}
			if next == nil {
				next = make(domain.Mapping, len(mapping)+len(partition))
				for k, v := range mapping {
					next[k] = v
				}
			}
			next[id] = typ
		}
	}
	if next == nil {
		return mapping, false
	}
	return next, true
}

func lookup(entities domain.Entities, ref domain.Reference) (*domain.Entity, bool) {
	partition, ok := entities[ref.Type]
	if !ok {
		return nil, false
	}
	entity, ok := partition[ref.ID]
	return entity, ok
}

// put returns a copy of entities with each given entity stored under its type and id.
func put(entities domain.Entities, updated ...*domain.Entity) domain.Entities {
	next := make(domain.Entities, len(entities)+1)
	for typ, partition := range entities {
		next[typ] = partition
	}
	copied := make(map[domain.EntityType]bool)
	for _, entity := range updated {
		if !copied[entity.Type] {
			partition := make(map[string]*domain.Entity, len(next[entity.Type])+1)
			for id, e := range next[entity.Type] {
				partition[id] = e
			}
			next[entity.Type] = partition
			copied[entity.Type] = true
		}
		next[entity.Type][entity.ID] = entity
	}
	return next
}

func modifyEntityField(entities domain.Entities, a domain.ModifyEntityField) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok {
		return entities, false
	}
	next := entity.Clone()
	if err := next.Set(a.Key, a.Value); err != nil {
		return entities, false
	}
	return put(entities, next), true
}

func reorderEntityField(entities domain.Entities, a domain.ReorderEntityField) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok {
		return entities, false
	}

	if a.Key == "metadata" {
		items, ok := reorder(entity.Metadata, a.StartIndex, a.EndIndex)
		if !ok {
			return entities, false
		}
		next := entity.Clone()
		next.Metadata = items
		return put(entities, next), true
	}

	if refs, isList := entity.RefList(a.Key); isList {
		reordered, ok := reorder(refs, a.StartIndex, a.EndIndex)
		if !ok {
			return entities, false
		}
		next := entity.Clone()
		next.Refs[a.Key] = reordered
		return put(entities, next), true
	}

	if list, isList := entity.Extensions[a.Key].([]any); isList {
		reordered, ok := reorder(list, a.StartIndex, a.EndIndex)
		if !ok {
			return entities, false
		}
		next := entity.Clone()
		next.Extensions[a.Key] = reordered
		return put(entities, next), true
	}

	return entities, false
}

func addReference(entities domain.Entities, a domain.AddReference) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok {
		return entities, false
	}
	refs, isList := entity.ListField(a.Key)
	if !isList {
		return entities, false
	}

	index := len(refs)
	if a.Index != nil {
		index = *a.Index
	}
	if index < 0 || index > len(refs) {
		return entities, false
	}

	next := entity.Clone()
	next.Refs[a.Key] = insert(refs, index, a.Reference)
	return put(entities, next), true
}

func updateReference(entities domain.Entities, a domain.UpdateReference) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok {
		return entities, false
	}
	refs, isList := entity.RefList(a.Key)
	if !isList {
		return entities, false
	}

	index := resolveIndex(refs, a.Index, a.Reference)
	if index < 0 {
		return entities, false
	}

	next := entity.Clone()
	next.Refs[a.Key][index] = a.Reference
	return put(entities, next), true
}

func removeReference(entities domain.Entities, a domain.RemoveReference) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok {
		return entities, false
	}
	refs, isList := entity.RefList(a.Key)
	if !isList {
		return entities, false
	}

	index := resolveIndex(refs, a.Index, a.Reference)
	if index < 0 {
		return entities, false
	}

	next := entity.Clone()
	next.Refs[a.Key] = remove(refs, index)
	return put(entities, next), true
}

// resolveIndex returns the explicit index when in range, otherwise the
// position of the reference matching ref's id. It returns -1 on a miss.
func resolveIndex(refs []domain.Reference, index *int, ref domain.Reference) int {
	if index != nil {
		if *index < 0 || *index >= len(refs) {
			return -1
		}
		return *index
	}
	return domain.IndexOfRef(refs, ref.MatchID())
}

func importEntities(entities domain.Entities, a domain.ImportEntities) (domain.Entities, bool) {
	var updated []*domain.Entity
	for typ, partition := range a.Entities {
		for id, patch := range partition {
			if patch == nil {
				continue
			}
			incoming := patch.Clone()
			incoming.ID = id
			incoming.Type = typ
			incoming.Unresolved = false

			framed := a.Context != "" && a.Context != id
			existing, ok := lookup(entities, domain.Ref(typ, id))
			switch {
			case ok && framed:
				updated = append(updated, existing.WithFragment(incoming.AsFragment(a.Context)))
			case ok:
				updated = append(updated, existing.Merge(incoming))
			case framed:
				updated = append(updated, incoming.WithFragment(incoming.AsFragment(a.Context)))
			default:
				updated = append(updated, incoming)
			}
		}
	}
	if len(updated) == 0 {
		return entities, false
	}
	return put(entities, updated...), true
}
