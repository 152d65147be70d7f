package domain

import (
	"encoding/json"
	"fmt"
)

// Reference is a minimal pointer to an entity.
// When Type is TypeSpecificResource the reference is a specific-resource
// wrapper: Source holds the wrapped reference and Selector the optional
// region or time selector.
type Reference struct {
	// ID is the referenced entity identifier.
	ID string

	// Type is the referenced entity type.
	Type EntityType

	// PartOf names the parent context the reference was taken from.
	// It is used to frame entities that carry hasPart fragments.
	PartOf string

	// Source is the wrapped reference of a specific resource.
	Source *Reference

	// Selector is the raw selector of a specific resource.
	Selector any
}

// Ref builds a plain reference.
func Ref(typ EntityType, id string) Reference {
	return Reference{ID: id, Type: typ}
}

// SpecificResource wraps a reference with an optional selector.
func SpecificResource(source Reference, selector any) Reference {
	src := source
	return Reference{Type: TypeSpecificResource, Source: &src, Selector: selector}
}

// IsSpecificResource returns true if the reference wraps another reference.
func (r Reference) IsSpecificResource() bool {
	return r.Type == TypeSpecificResource && r.Source != nil
}

// Unwrap returns the wrapped source of a specific resource, or the reference itself.
func (r Reference) Unwrap() Reference {
	if r.IsSpecificResource() {
		return *r.Source
	}
	return r
}

// MatchID returns the identifier used when matching references inside a list.
// Specific resources without an id of their own match on their source.
func (r Reference) MatchID() string {
	if r.ID == "" && r.IsSpecificResource() {
		return r.Source.ID
	}
	return r.ID
}

// IsZero returns true for the empty reference.
func (r Reference) IsZero() bool {
	return r.ID == "" && r.Source == nil
}

// String returns a compact representation for logs.
func (r Reference) String() string {
	if r.IsSpecificResource() {
		return fmt.Sprintf("SpecificResource(%s)", r.Source.String())
	}
	return fmt.Sprintf("%s(%s)", r.Type, r.ID)
}

type referenceJSON struct {
	ID       string     `json:"id,omitempty"`
	Type     EntityType `json:"type"`
	PartOf   string     `json:"partOf,omitempty"`
	Source   *Reference `json:"source,omitempty"`
	Selector any        `json:"selector,omitempty"`
}

// MarshalJSON encodes the reference in its {id, type} wire shape.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(referenceJSON{
		ID:       r.ID,
		Type:     r.Type,
		PartOf:   r.PartOf,
		Source:   r.Source,
		Selector: r.Selector,
	})
}

// UnmarshalJSON decodes a reference, accepting a bare string id.
func (r *Reference) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Reference{ID: id}
		return nil
	}
	var raw referenceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Reference{
		ID:       raw.ID,
		Type:     raw.Type,
		PartOf:   raw.PartOf,
		Source:   raw.Source,
		Selector: raw.Selector,
	}
	return nil
}

// IndexOfRef returns the index of the first reference matching id, or -1.
func IndexOfRef(refs []Reference, id string) int {
	for i := range refs {
		if refs[i].MatchID() == id {
			return i
		}
	}
	return -1
}
