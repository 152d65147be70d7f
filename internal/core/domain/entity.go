package domain

import (
	"encoding/json"
	"fmt"
)

// InternationalString is a language map: language code to values.
type InternationalString map[string][]string

// First returns the first value in the first of langs that has one, then
// in any language. Map iteration makes the fallback order unspecified.
func (s InternationalString) First(langs ...string) string {
	for _, lang := range langs {
		if values := s[lang]; len(values) > 0 {
			return values[0]
		}
	}
	for _, values := range s {
		if len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// MetadataItem is one label/value pair of an entity's descriptive metadata.
type MetadataItem struct {
	Label InternationalString `json:"label"`
	Value InternationalString `json:"value"`
}

// ReferenceFields are the properties normalised into reference lists.
// Anything else stays a scalar or raw value in the entity's extensions.
var ReferenceFields = map[string]bool{
	"items":              true,
	"annotations":        true,
	"structures":         true,
	"body":               true,
	"target":             true,
	"thumbnail":          true,
	"seeAlso":            true,
	"rendering":          true,
	"homepage":           true,
	"logo":               true,
	"partOf":             true,
	"start":              true,
	"supplementary":      true,
	"service":            true,
	"services":           true,
	"provider":           true,
	"placeholderCanvas":  true,
	"accompanyingCanvas": true,
}

// Fragment is one hasPart entry: the shape an entity takes when it is
// viewed from the parent context named by PartOf.
type Fragment struct {
	// ID is the identifier of the framed entity.
	ID string

	// PartOf is the parent context the fragment was imported under.
	PartOf string

	// Refs holds the fragment's reference-list fields.
	Refs map[string][]Reference

	// Extensions holds the fragment's other fields.
	Extensions map[string]any
}

// Entity is a normalised record of the presentation graph.
// Reference-bearing fields never embed other entity bodies.
type Entity struct {
	// ID is the entity identifier, unique within its type partition.
	ID string

	// Type is the store partition of the entity.
	Type EntityType

	// Label is the human-readable label.
	Label InternationalString

	// Summary is the short description.
	Summary InternationalString

	// Metadata is the ordered label/value list.
	Metadata []MetadataItem

	// Refs holds every reference-list field keyed by property name.
	Refs map[string][]Reference

	// HasPart lists the fragments imported under other parent contexts.
	HasPart []Fragment

	// Extensions keeps every other field for round-trip fidelity.
	Extensions map[string]any

	// Unresolved marks a stub returned for a reference that is not in the store.
	Unresolved bool
}

// NewEntity creates an empty entity with initialised maps.
func NewEntity(typ EntityType, id string) *Entity {
	return &Entity{
		ID:         id,
		Type:       typ,
		Refs:       make(map[string][]Reference),
		Extensions: make(map[string]any),
	}
}

// Stub returns an unresolved entity standing in for ref.
func Stub(ref Reference) *Entity {
	typ := ref.Type
	if typ == "" {
		typ = TypeUnknown
	}
	return &Entity{ID: ref.ID, Type: typ, Unresolved: true}
}

// Ref returns a reference to the entity.
func (e *Entity) Ref() Reference {
	return Reference{ID: e.ID, Type: e.Type}
}

// DeclaredType returns the type the resource declared, such as Image for a
// content resource, falling back to the partition type.
func (e *Entity) DeclaredType() string {
	if declared, ok := e.Extensions["type"].(string); ok && declared != "" {
		return declared
	}
	return string(e.Type)
}

// RefList returns the reference list stored under key.
// The boolean is false when the field is not a reference list.
func (e *Entity) RefList(key string) ([]Reference, bool) {
	if e == nil || e.Refs == nil {
		return nil, false
	}
	refs, ok := e.Refs[key]
	return refs, ok
}

// ListField returns the reference list under key for editing. Reference
// properties the document never declared read as an empty list.
func (e *Entity) ListField(key string) ([]Reference, bool) {
	if refs, ok := e.RefList(key); ok {
		return refs, true
	}
	if e == nil || !ReferenceFields[key] {
		return nil, false
	}
	if _, raw := e.Extensions[key]; raw {
		return nil, false
	}
	return []Reference{}, true
}

// Field returns the value of a named field.
func (e *Entity) Field(key string) (any, bool) {
	if e == nil {
		return nil, false
	}
	switch key {
	case "id":
		return e.ID, true
	case "type":
		return e.Type, true
	case "label":
		return e.Label, e.Label != nil
	case "summary":
		return e.Summary, e.Summary != nil
	case "metadata":
		return e.Metadata, e.Metadata != nil
	case "hasPart":
		return e.HasPart, e.HasPart != nil
	}
	if refs, ok := e.Refs[key]; ok {
		return refs, true
	}
	v, ok := e.Extensions[key]
	return v, ok
}

// Text returns the field key as a string, or "".
func (e *Entity) Text(key string) string {
	v, _ := e.Field(key)
	return stringOf(v)
}

// Int returns the extension field key as an int, or 0.
func (e *Entity) Int(key string) int {
	v, _ := e.Field(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

// LinkID returns the identifier held by a scalar link field such as
// first, next or prev, which may be a bare id or an {id, type} object.
func (e *Entity) LinkID(key string) string {
	v, ok := e.Field(key)
	if !ok {
		return ""
	}
	switch link := v.(type) {
	case string:
		return link
	case Reference:
		return link.ID
	case *Reference:
		if link == nil {
			return ""
		}
		return link.ID
	case map[string]any:
		return stringOf(link["id"])
	default:
		return ""
	}
}

// Clone returns a copy that can be modified without touching the original.
// Slices and maps are copied one level deep.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e
	out.Label = cloneIntl(e.Label)
	out.Summary = cloneIntl(e.Summary)
	if e.Metadata != nil {
		out.Metadata = append([]MetadataItem(nil), e.Metadata...)
	}
	out.Refs = make(map[string][]Reference, len(e.Refs))
	for k, v := range e.Refs {
		out.Refs[k] = append([]Reference{}, v...)
	}
	out.Extensions = make(map[string]any, len(e.Extensions))
	for k, v := range e.Extensions {
		out.Extensions[k] = v
	}
	if e.HasPart != nil {
		out.HasPart = make([]Fragment, len(e.HasPart))
		copy(out.HasPart, e.HasPart)
	}
	return &out
}

// Set assigns a field by name. Reference lists go to Refs; well-known
// fields are assigned to their typed slot; anything else is an extension.
func (e *Entity) Set(key string, value any) error {
	switch key {
	case "id", "type":
		return fmt.Errorf("%w: %s is read-only", ErrInvalidInput, key)
	case "label", "summary":
		intl, ok := toIntl(value)
		if !ok {
			return fmt.Errorf("%w: %s must be a language map", ErrInvalidInput, key)
		}
		if key == "label" {
			e.Label = intl
		} else {
			e.Summary = intl
		}
		return nil
	case "metadata":
		items, ok := value.([]MetadataItem)
		if !ok {
			return fmt.Errorf("%w: metadata must be a list of label/value pairs", ErrInvalidInput)
		}
		e.Metadata = items
		return nil
	case "hasPart":
		parts, ok := value.([]Fragment)
		if !ok {
			return fmt.Errorf("%w: hasPart must be a list of fragments", ErrInvalidInput)
		}
		e.HasPart = parts
		return nil
	}
	if e.Refs == nil {
		e.Refs = make(map[string][]Reference)
	}
	if e.Extensions == nil {
		e.Extensions = make(map[string]any)
	}
	if refs, ok := value.([]Reference); ok {
		e.Refs[key] = refs
		delete(e.Extensions, key)
		return nil
	}
	e.Extensions[key] = value
	delete(e.Refs, key)
	return nil
}

// Merge shallow-merges patch over a copy of e. Fields present on patch
// win; lists are replaced wholesale.
func (e *Entity) Merge(patch *Entity) *Entity {
	out := e.Clone()
	if patch.Label != nil {
		out.Label = cloneIntl(patch.Label)
	}
	if patch.Summary != nil {
		out.Summary = cloneIntl(patch.Summary)
	}
	if patch.Metadata != nil {
		out.Metadata = append([]MetadataItem{}, patch.Metadata...)
	}
	for k, v := range patch.Refs {
		out.Refs[k] = append([]Reference{}, v...)
		delete(out.Extensions, k)
	}
	for k, v := range patch.Extensions {
		out.Extensions[k] = v
		delete(out.Refs, k)
	}
	if patch.HasPart != nil {
		out.HasPart = append([]Fragment{}, patch.HasPart...)
	}
	return out
}

// FragmentFor returns the hasPart fragment imported under parent.
func (e *Entity) FragmentFor(parent string) (Fragment, bool) {
	for _, part := range e.HasPart {
		if part.PartOf == parent {
			return part, true
		}
	}
	return Fragment{}, false
}

// Frame returns a copy of e with the fragment's fields laid over it.
func (e *Entity) Frame(part Fragment) *Entity {
	out := e.Clone()
	for k, v := range part.Refs {
		out.Refs[k] = append([]Reference{}, v...)
	}
	for k, v := range part.Extensions {
		out.Extensions[k] = v
	}
	return out
}

// WithFragment returns a copy of e whose hasPart holds part, replacing any
// fragment that shares its parent context.
func (e *Entity) WithFragment(part Fragment) *Entity {
	out := e.Clone()
	for i := range out.HasPart {
		if out.HasPart[i].PartOf == part.PartOf {
			out.HasPart[i] = part
			return out
		}
	}
	out.HasPart = append(out.HasPart, part)
	return out
}

// AsFragment captures the entity's list and extension fields as a fragment
// imported under parent.
func (e *Entity) AsFragment(parent string) Fragment {
	part := Fragment{
		ID:         e.ID,
		PartOf:     parent,
		Refs:       make(map[string][]Reference, len(e.Refs)),
		Extensions: make(map[string]any, len(e.Extensions)),
	}
	for k, v := range e.Refs {
		part.Refs[k] = append([]Reference{}, v...)
	}
	for k, v := range e.Extensions {
		part.Extensions[k] = v
	}
	return part
}

func cloneIntl(in InternationalString) InternationalString {
	if in == nil {
		return nil
	}
	out := make(InternationalString, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func toIntl(value any) (InternationalString, bool) {
	switch v := value.(type) {
	case InternationalString:
		return cloneIntl(v), true
	case map[string][]string:
		return cloneIntl(v), true
	case string:
		return InternationalString{"none": {v}}, true
	case map[string]any:
		out := make(InternationalString, len(v))
		for lang, raw := range v {
			list, ok := raw.([]any)
			if !ok {
				return nil, false
			}
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				out[lang] = append(out[lang], s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case EntityType:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return ""
	}
}

// ParseInternationalString converts a decoded JSON language map, or a plain
// string, into an InternationalString.
func ParseInternationalString(value any) (InternationalString, bool) {
	return toIntl(value)
}
