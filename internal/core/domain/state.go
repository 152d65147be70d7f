package domain

// Entities maps each type partition to its id-keyed entities.
type Entities map[EntityType]map[string]*Entity

// Mapping records the type of every imported id.
type Mapping map[string]EntityType

// Requests maps a requested URI to its request record.
type Requests map[string]RequestRecord

// Meta maps a resource id to namespaced key/value metadata.
type Meta map[string]map[string]map[string]any

// State is the full committed store. A State is never modified in place:
// reducers return a new State sharing every untouched map.
type State struct {
	Entities Entities `json:"entities"`
	Mapping  Mapping  `json:"mapping"`
	Requests Requests `json:"requests"`
	Meta     Meta     `json:"meta"`
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		Entities: make(Entities),
		Mapping:  make(Mapping),
		Requests: make(Requests),
		Meta:     make(Meta),
	}
}

// Lookup returns the stored entity for (typ, id).
func (s *State) Lookup(typ EntityType, id string) (*Entity, bool) {
	if s == nil {
		return nil, false
	}
	partition, ok := s.Entities[typ]
	if !ok {
		return nil, false
	}
	entity, ok := partition[id]
	return entity, ok
}

// MetaValue returns a metadata value for id in namespace.
func (s *State) MetaValue(id, namespace, key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	ns, ok := s.Meta[id][namespace]
	if !ok {
		return nil, false
	}
	v, ok := ns[key]
	return v, ok
}

// Count returns the number of stored entities across all partitions.
func (s *State) Count() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, partition := range s.Entities {
		n += len(partition)
	}
	return n
}
