package services

import (
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// Deep walks a reference graph one hop at a time. Every step resolves
// against the state captured when the walk started; a miss at any step
// yields an empty Deep, so chains need no intermediate nil checks.
//
//	body := vault.Deep(manifest).Field("items").First().
//		Field("items").First().Field("items").First().Field("body").Entity()
type Deep struct {
	state  *domain.State
	opts   driving.GetOptions
	entity *domain.Entity
	refs   []domain.Reference
	value  any
	list   bool
}

// Deep starts a walk at ref.
func (v *Vault) Deep(ref domain.Reference) *Deep {
	state := v.State()
	d := &Deep{state: state}
	d.entity = resolve(state, ref, d.opts)
	return d
}

// DeepWith starts a walk at ref with resolver options applied to every step.
func (v *Vault) DeepWith(ref domain.Reference, opts driving.GetOptions) *Deep {
	state := v.State()
	d := &Deep{state: state, opts: opts}
	d.entity = resolve(state, ref, opts)
	return d
}

func (d *Deep) empty() *Deep {
	return &Deep{state: d.state, opts: d.opts}
}

// Field steps into a field of the current entity. Reference lists become
// the current list; a single reference is resolved; other values are kept
// for Value. On a list the field is read from the first entity.
func (d *Deep) Field(key string) *Deep {
	current := d.entity
	if d.list {
		current = d.At(0).entity
	}
	if current == nil {
		return d.empty()
	}

	raw, ok := current.Field(key)
	if !ok {
		return d.empty()
	}

	next := d.empty()
	switch value := raw.(type) {
	case []domain.Reference:
		next.list = true
		next.refs = d.inherit(value, current)
	case domain.Reference:
		next.entity = resolve(d.state, value, d.opts)
	default:
		next.value = raw
	}
	return next
}

// inherit tags references without a parent context with the entity they
// were read from, so framed children resolve consistently.
func (d *Deep) inherit(refs []domain.Reference, parent *domain.Entity) []domain.Reference {
	if len(parent.HasPart) == 0 {
		return refs
	}
	out := make([]domain.Reference, len(refs))
	for i, ref := range refs {
		if ref.PartOf == "" {
			ref.PartOf = parent.ID
		}
		out[i] = ref
	}
	return out
}

// At resolves the i-th reference of the current list.
func (d *Deep) At(i int) *Deep {
	if !d.list || i < 0 || i >= len(d.refs) {
		return d.empty()
	}
	next := d.empty()
	next.entity = resolve(d.state, d.refs[i], d.opts)
	return next
}

// First resolves the first reference of the current list.
func (d *Deep) First() *Deep {
	return d.At(0)
}

// Entity returns the current entity, or nil.
func (d *Deep) Entity() *domain.Entity {
	if d.list {
		return d.At(0).entity
	}
	return d.entity
}

// Entities resolves every reference of the current list, dropping misses.
// On a single entity it returns that entity alone.
func (d *Deep) Entities() []*domain.Entity {
	if !d.list {
		if d.entity == nil {
			return nil
		}
		return []*domain.Entity{d.entity}
	}
	out := make([]*domain.Entity, 0, len(d.refs))
	for _, entity := range resolveAll(d.state, d.refs, d.opts) {
		if entity != nil {
			out = append(out, entity)
		}
	}
	return out
}

// Refs returns the current reference list.
func (d *Deep) Refs() []domain.Reference {
	return d.refs
}

// Value returns a non-reference field value reached by Field.
func (d *Deep) Value() (any, bool) {
	return d.value, d.value != nil
}

// Len returns the length of the current list, 1 for an entity and 0 otherwise.
func (d *Deep) Len() int {
	switch {
	case d.list:
		return len(d.refs)
	case d.entity != nil:
		return 1
	default:
		return 0
	}
}

// Ok returns true if the walk has not missed.
func (d *Deep) Ok() bool {
	return d.list || d.entity != nil || d.value != nil
}
