package reducers

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// Meta applies generic per-resource metadata actions.
func Meta(meta domain.Meta, action domain.Action) (domain.Meta, bool) {
	switch a := action.(type) {
	case domain.SetMetaValue:
		return setMeta(meta, a.ID, a.Namespace, a.Key, a.Value), true
	case domain.SetMetaValueDynamic:
		value := a.Default
		if ns, ok := meta[a.ID][a.Namespace]; ok {
			if existing, ok := ns[a.Key]; ok {
				value = existing
			}
		}
		if a.Update != nil {
			value = a.Update(value)
		}
		return setMeta(meta, a.ID, a.Namespace, a.Key, value), true
	case domain.UnsetMetaValue:
		ns, ok := meta[a.ID][a.Namespace]
		if !ok {
			return meta, false
		}
		if _, ok := ns[a.Key]; !ok {
			return meta, false
		}
		nextNS := make(map[string]any, len(ns))
		for k, v := range ns {
			if k != a.Key {
				nextNS[k] = v
			}
		}
		return withNamespace(meta, a.ID, a.Namespace, nextNS), true
	default:
		return meta, false
	}
}

func setMeta(meta domain.Meta, id, namespace, key string, value any) domain.Meta {
	ns := meta[id][namespace]
	nextNS := make(map[string]any, len(ns)+1)
	for k, v := range ns {
		nextNS[k] = v
	}
	nextNS[key] = value
	return withNamespace(meta, id, namespace, nextNS)
}

func withNamespace(meta domain.Meta, id, namespace string, ns map[string]any) domain.Meta {
	resource := meta[id]
	nextResource := make(map[string]map[string]any, len(resource)+1)
	for k, v := range resource {
		nextResource[k] = v
	}
	nextResource[namespace] = ns

	next := make(domain.Meta, len(meta)+1)
	for k, v := range meta {
		next[k] = v
	}
	next[id] = nextResource
	return next
}
