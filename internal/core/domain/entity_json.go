package domain

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the entity as one flat object, the shape it has on the wire.
func (e *Entity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Refs)+len(e.Extensions)+6)
	for k, v := range e.Extensions {
		out[k] = v
	}
	for k, v := range e.Refs {
		out[k] = v
	}
	out["id"] = e.ID
	out["type"] = e.DeclaredType()
	if e.Label != nil {
		out["label"] = e.Label
	}
	if e.Summary != nil {
		out["summary"] = e.Summary
	}
	if e.Metadata != nil {
		out["metadata"] = e.Metadata
	}
	if len(e.HasPart) > 0 {
		parts := make([]map[string]any, len(e.HasPart))
		for i, part := range e.HasPart {
			parts[i] = part.flatten()
		}
		out["hasPart"] = parts
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat entity object.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewEntity("", "")
	for key, value := range raw {
		if err := out.decodeField(key, value); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
	}
	*e = *out
	return nil
}

func (e *Entity) decodeField(key string, value json.RawMessage) error {
	switch key {
	case "id":
		return json.Unmarshal(value, &e.ID)
	case "type":
		var declared string
		if err := json.Unmarshal(value, &declared); err != nil {
			return err
		}
		e.Type = Partition(declared)
		if declared != string(e.Type) {
			e.Extensions["type"] = declared
		}
		return nil
	case "label":
		return json.Unmarshal(value, &e.Label)
	case "summary":
		return json.Unmarshal(value, &e.Summary)
	case "metadata":
		return json.Unmarshal(value, &e.Metadata)
	case "hasPart":
		var parts []map[string]json.RawMessage
		if err := json.Unmarshal(value, &parts); err != nil {
			return err
		}
		for _, raw := range parts {
			part, err := decodeFragment(raw)
			if err != nil {
				return err
			}
			e.HasPart = append(e.HasPart, part)
		}
		return nil
	}
	if ReferenceFields[key] {
		refs, err := decodeRefs(value)
		if err != nil {
			return err
		}
		e.Refs[key] = refs
		return nil
	}
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return err
	}
	e.Extensions[key] = v
	return nil
}

// fragmentContextKey holds a fragment's framing context. It cannot clash
// with the fragment's own partOf list.
const fragmentContextKey = "@partOf"

func (f Fragment) flatten() map[string]any {
	out := make(map[string]any, len(f.Refs)+len(f.Extensions)+2)
	for k, v := range f.Extensions {
		out[k] = v
	}
	for k, v := range f.Refs {
		out[k] = v
	}
	out["id"] = f.ID
	out[fragmentContextKey] = f.PartOf
	return out
}

func decodeFragment(raw map[string]json.RawMessage) (Fragment, error) {
	part := Fragment{
		Refs:       make(map[string][]Reference),
		Extensions: make(map[string]any),
	}
	for key, value := range raw {
		switch {
		case key == "id":
			if err := json.Unmarshal(value, &part.ID); err != nil {
				return part, err
			}
		case key == fragmentContextKey:
			if err := json.Unmarshal(value, &part.PartOf); err != nil {
				return part, err
			}
		case ReferenceFields[key]:
			refs, err := decodeRefs(value)
			if err != nil {
				return part, err
			}
			part.Refs[key] = refs
		default:
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return part, err
			}
			part.Extensions[key] = v
		}
	}
	return part, nil
}

// decodeRefs accepts a list of references or a single reference.
func decodeRefs(value json.RawMessage) ([]Reference, error) {
	var refs []Reference
	if err := json.Unmarshal(value, &refs); err == nil {
		return refs, nil
	}
	var single Reference
	if err := json.Unmarshal(value, &single); err != nil {
		return nil, err
	}
	return []Reference{single}, nil
}
