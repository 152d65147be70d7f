package reducers

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

func addMetadata(entities domain.Entities, a domain.AddMetadata) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok {
		return entities, false
	}

	index := len(entity.Metadata)
	if a.BeforeIndex != nil {
		index = *a.BeforeIndex
	}
	if index < 0 || index > len(entity.Metadata) {
		return entities, false
	}

	next := entity.Clone()
	next.Metadata = insert(entity.Metadata, index, domain.MetadataItem{Label: a.Label, Value: a.Value})
	return put(entities, next), true
}

func updateMetadata(entities domain.Entities, a domain.UpdateMetadata) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok || a.AtIndex < 0 || a.AtIndex >= len(entity.Metadata) {
		return entities, false
	}

	next := entity.Clone()
	next.Metadata[a.AtIndex] = domain.MetadataItem{Label: a.Label, Value: a.Value}
	return put(entities, next), true
}

func removeMetadata(entities domain.Entities, a domain.RemoveMetadata) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok || a.AtIndex < 0 || a.AtIndex >= len(entity.Metadata) {
		return entities, false
	}

	next := entity.Clone()
	next.Metadata = remove(entity.Metadata, a.AtIndex)
	return put(entities, next), true
}

func reorderMetadata(entities domain.Entities, a domain.ReorderMetadata) (domain.Entities, bool) {
	entity, ok := lookup(entities, a.Entity)
	if !ok {
		return entities, false
	}

	items, ok := reorder(entity.Metadata, a.StartIndex, a.EndIndex)
	if !ok {
		return entities, false
	}

	next := entity.Clone()
	next.Metadata = items
	return put(entities, next), true
}
