package services

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// MoveEntity moves one item between reference lists.
func (v *Vault) MoveEntity(subject string, from, to domain.Location) {
	v.MoveEntities(domain.Subjects{IDs: []string{subject}}, from, to)
}

// MoveEntities moves the selected items between reference lists.
// Subjects missing from the source list are ignored.
func (v *Vault) MoveEntities(subjects domain.Subjects, from, to domain.Location) {
	v.Dispatch(domain.MoveEntities{Subjects: subjects, From: from, To: to})
}

// ModifyEntityField replaces one field of an entity.
func (v *Vault) ModifyEntityField(entity domain.Reference, key string, value any) {
	v.Dispatch(domain.ModifyEntityField{Entity: entity, Key: key, Value: value})
}

// ReorderEntityField moves the list item at start to end.
func (v *Vault) ReorderEntityField(entity domain.Reference, key string, start, end int) {
	v.Dispatch(domain.ReorderEntityField{Entity: entity, Key: key, StartIndex: start, EndIndex: end})
}

// AddReference inserts ref into the list key of entity at index, or appends when index is nil.
func (v *Vault) AddReference(entity domain.Reference, key string, ref domain.Reference, index *int) {
	v.Dispatch(domain.AddReference{Entity: entity, Key: key, Reference: ref, Index: index})
}

// UpdateReference replaces the item at index, or the one sharing ref's id, with ref.
func (v *Vault) UpdateReference(entity domain.Reference, key string, ref domain.Reference, index *int) {
	v.Dispatch(domain.UpdateReference{Entity: entity, Key: key, Reference: ref, Index: index})
}

// RemoveReference removes ref, or the item at index, from the list key of entity.
func (v *Vault) RemoveReference(entity domain.Reference, key string, ref domain.Reference, index *int) {
	v.Dispatch(domain.RemoveReference{Entity: entity, Key: key, Reference: ref, Index: index})
}

// AddMetadata inserts a label/value pair before the pair at before, or appends when before is nil.
func (v *Vault) AddMetadata(entity domain.Reference, label, value domain.InternationalString, before *int) {
	v.Dispatch(domain.AddMetadata{Entity: entity, Label: label, Value: value, BeforeIndex: before})
}

// UpdateMetadata replaces the pair at index.
func (v *Vault) UpdateMetadata(entity domain.Reference, index int, label, value domain.InternationalString) {
	v.Dispatch(domain.UpdateMetadata{Entity: entity, AtIndex: index, Label: label, Value: value})
}

// RemoveMetadata deletes the pair at index.
func (v *Vault) RemoveMetadata(entity domain.Reference, index int) {
	v.Dispatch(domain.RemoveMetadata{Entity: entity, AtIndex: index})
}

// ReorderMetadata moves the pair at start to end.
func (v *Vault) ReorderMetadata(entity domain.Reference, start, end int) {
	v.Dispatch(domain.ReorderMetadata{Entity: entity, StartIndex: start, EndIndex: end})
}
