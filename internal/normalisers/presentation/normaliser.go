package presentation

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// BlankPrefix prefixes the identifiers minted for resources without an id.
const BlankPrefix = "vault://"

// Normaliser flattens Presentation API documents into entities.
// Version 3 keys are read directly; the version 2 "@id" and "@type"
// aliases are accepted for identifiers and types.
type Normaliser struct {
	mint func() string
}

// New creates a new presentation normaliser.
func New() *Normaliser {
	return &Normaliser{
		mint: func() string { return BlankPrefix + uuid.NewString() },
	}
}

// Normalise decodes body and returns every embedded resource as a flat
// entity whose nested resources are replaced by references. A root without
// an id takes requestURI as its id.
func (n *Normaliser) Normalise(requestURI string, body []byte) (*driven.NormaliseResult, error) {
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("decode %s: %w", requestURI, err)
	}
	if root == nil {
		return nil, fmt.Errorf("decode %s: %w: document is not an object", requestURI, domain.ErrInvalidInput)
	}
	if identifier(root) == "" {
		root["id"] = requestURI
	}

	w := &walker{mint: n.mint, entities: make(domain.Entities)}
	ref := w.node(root)
	if ref.IsSpecificResource() {
		return nil, fmt.Errorf("decode %s: %w: root is a specific resource", requestURI, domain.ErrInvalidInput)
	}

	return &driven.NormaliseResult{
		Root:     ref,
		Entities: w.entities,
	}, nil
}

type walker struct {
	mint     func() string
	entities domain.Entities
}

// node stores the resource described by raw and returns a reference to it.
func (w *walker) node(raw map[string]any) domain.Reference {
	declared := typeName(raw)
	id := identifier(raw)

	if declared == string(domain.TypeSpecificResource) {
		return w.specificResource(id, raw)
	}

	typ := domain.Partition(declared)
	if id == "" {
		id = w.mint()
	}
	ref := domain.Ref(typ, id)

	// {id, type} pointers refer to resources described elsewhere.
	if isReferenceOnly(raw) {
		return ref
	}

	entity := domain.NewEntity(typ, id)
	if declared != "" && declared != string(typ) {
		entity.Extensions["type"] = declared
	}
	for key, value := range raw {
		w.field(entity, key, value)
	}
	w.store(entity)
	return ref
}

func (w *walker) field(entity *domain.Entity, key string, value any) {
	switch key {
	case "id", "@id", "type", "@type":
		return
	case "metadata":
		if items, ok := metadata(value); ok {
			entity.Metadata = items
			return
		}
	case "label", "summary":
		if err := entity.Set(key, value); err == nil {
			return
		}
	}

	if domain.ReferenceFields[key] {
		entity.Refs[key] = w.refs(value)
		return
	}
	entity.Extensions[key] = value
}

// refs normalises a reference-bearing value, which may be a single
// resource, a bare id or a list of either.
func (w *walker) refs(value any) []domain.Reference {
	list, ok := value.([]any)
	if !ok {
		list = []any{value}
	}

	out := make([]domain.Reference, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, w.node(v))
		case string:
			out = append(out, domain.Reference{ID: v})
		}
	}
	return out
}

func (w *walker) specificResource(id string, raw map[string]any) domain.Reference {
	var source domain.Reference
	switch v := raw["source"].(type) {
	case map[string]any:
		source = w.node(v)
	case string:
		source = domain.Reference{ID: v}
	}

	ref := domain.SpecificResource(source, raw["selector"])
	ref.ID = id
	return ref
}

// store adds entity, merging it over an earlier copy from the same body.
func (w *walker) store(entity *domain.Entity) {
	partition, ok := w.entities[entity.Type]
	if !ok {
		partition = make(map[string]*domain.Entity)
		w.entities[entity.Type] = partition
	}
	if existing, ok := partition[entity.ID]; ok {
		partition[entity.ID] = existing.Merge(entity)
		return
	}
	partition[entity.ID] = entity
}

func identifier(raw map[string]any) string {
	if id, ok := raw["id"].(string); ok && id != "" {
		return id
	}
	id, _ := raw["@id"].(string)
	return id
}

func typeName(raw map[string]any) string {
	if typ, ok := raw["type"].(string); ok && typ != "" {
		return typ
	}
	switch typ := raw["@type"].(type) {
	case string:
		return stripPrefix(typ)
	case []any:
		if len(typ) > 0 {
			s, _ := typ[0].(string)
			return stripPrefix(s)
		}
	}
	return ""
}

// stripPrefix removes compact JSON-LD prefixes such as "sc:" and "oa:".
func stripPrefix(typ string) string {
	for i := 0; i < len(typ); i++ {
		if typ[i] == ':' {
			return typ[i+1:]
		}
	}
	return typ
}

func isReferenceOnly(raw map[string]any) bool {
	for key := range raw {
		switch key {
		case "id", "@id", "type", "@type":
		default:
			return false
		}
	}
	return true
}

func metadata(value any) ([]domain.MetadataItem, bool) {
	list, ok := value.([]any)
	if !ok {
		return nil, false
	}

	items := make([]domain.MetadataItem, 0, len(list))
	for _, raw := range list {
		pair, ok := raw.(map[string]any)
		if !ok {
			return nil, false
		}
		label, _ := domain.ParseInternationalString(pair["label"])
		text, _ := domain.ParseInternationalString(pair["value"])
		items = append(items, domain.MetadataItem{Label: label, Value: text})
	}
	return items, true
}
