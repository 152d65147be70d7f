package domain

// ActionType identifies a state transition.
type ActionType string

// Action types understood by the reducers.
const (
	ActionModifyEntityField   ActionType = "modify-entity-field"
	ActionReorderEntityField  ActionType = "reorder-entity-field"
	ActionAddReference        ActionType = "add-reference"
	ActionUpdateReference     ActionType = "update-reference"
	ActionRemoveReference     ActionType = "remove-reference"
	ActionMoveEntities        ActionType = "move-entities"
	ActionAddMetadata         ActionType = "add-metadata"
	ActionUpdateMetadata      ActionType = "update-metadata"
	ActionRemoveMetadata      ActionType = "remove-metadata"
	ActionReorderMetadata     ActionType = "reorder-metadata"
	ActionImportEntities      ActionType = "import-entities"
	ActionSetMetaValue        ActionType = "set-meta-value"
	ActionSetMetaValueDynamic ActionType = "set-meta-value-dynamic"
	ActionUnsetMetaValue      ActionType = "unset-meta-value"
	ActionRequestResource     ActionType = "request-resource"
	ActionResourceLoading     ActionType = "resource-loading"
	ActionRequestMismatch     ActionType = "request-mismatch"
	ActionResourceReady       ActionType = "resource-ready"
	ActionResourceError       ActionType = "resource-error"
	ActionHydrateState        ActionType = "hydrate-state"
	ActionBatch               ActionType = "batch"
)

// Action is a state transition. Reducers ignore action types they do not know.
type Action interface {
	ActionType() ActionType
}

// At returns a pointer to i, for the optional index fields of actions.
func At(i int) *int {
	return &i
}

// ModifyEntityField replaces one field of one entity.
type ModifyEntityField struct {
	Entity Reference
	Key    string
	Value  any
}

// ReorderEntityField moves one element of a list field from StartIndex to EndIndex.
type ReorderEntityField struct {
	Entity     Reference
	Key        string
	StartIndex int
	EndIndex   int
}

// AddReference inserts Reference into the list Key at Index (default: end).
type AddReference struct {
	Entity    Reference
	Key       string
	Reference Reference
	Index     *int
}

// UpdateReference replaces the reference at Index, or the one matching Reference's id.
type UpdateReference struct {
	Entity    Reference
	Key       string
	Reference Reference
	Index     *int
}

// RemoveReference deletes the reference at Index, or the one matching Reference's id.
type RemoveReference struct {
	Entity    Reference
	Key       string
	Reference Reference
	Index     *int
}

// Slice selects Length contiguous items starting at StartIndex.
type Slice struct {
	StartIndex int
	Length     int
}

// Subjects selects the items of a move: either an ordered id list or a slice.
type Subjects struct {
	IDs   []string
	Slice *Slice
}

// Location is one end of a move: a reference-list field on an entity.
type Location struct {
	Entity Reference
	Key    string
	Index  *int
}

// MoveEntities relocates the selected items from one reference list to another.
type MoveEntities struct {
	Subjects Subjects
	From     Location
	To       Location
}

// AddMetadata inserts a label/value pair before BeforeIndex (default: end).
type AddMetadata struct {
	Entity      Reference
	Label       InternationalString
	Value       InternationalString
	BeforeIndex *int
}

// UpdateMetadata replaces the pair at AtIndex.
type UpdateMetadata struct {
	Entity  Reference
	AtIndex int
	Label   InternationalString
	Value   InternationalString
}

// RemoveMetadata deletes the pair at AtIndex.
type RemoveMetadata struct {
	Entity  Reference
	AtIndex int
}

// ReorderMetadata moves the pair at StartIndex to EndIndex.
type ReorderMetadata struct {
	Entity     Reference
	StartIndex int
	EndIndex   int
}

// ImportEntities merges partial entities into the store.
// Context, when set, names the parent context the entities were fetched under.
type ImportEntities struct {
	Entities Entities
	Context  string
}

// SetMetaValue sets one metadata value.
type SetMetaValue struct {
	ID        string
	Namespace string
	Key       string
	Value     any
}

// SetMetaValueDynamic derives the new value from the current one (or Default).
type SetMetaValueDynamic struct {
	ID        string
	Namespace string
	Key       string
	Default   any
	Update    func(current any) any
}

// UnsetMetaValue removes one metadata value.
type UnsetMetaValue struct {
	ID        string
	Namespace string
	Key       string
}

// RequestResource marks a URI as requested.
type RequestResource struct {
	RequestURI string
}

// ResourceLoading marks a requested URI as being fetched.
type ResourceLoading struct {
	RequestURI string
}

// RequestMismatch records that the body fetched for RequestURI declared ActualID.
type RequestMismatch struct {
	RequestURI string
	ActualID   string
}

// ResourceReady marks a request as successfully loaded.
type ResourceReady struct {
	RequestURI string
}

// ResourceError marks a request as failed.
type ResourceError struct {
	RequestURI string
	Message    string
}

// HydrateState replaces the whole state, e.g. from a snapshot.
type HydrateState struct {
	State *State
}

// Batch is an ordered group of actions applied as one dispatch.
type Batch struct {
	Actions []Action
}

func (ModifyEntityField) ActionType() ActionType   { return ActionModifyEntityField }
func (ReorderEntityField) ActionType() ActionType  { return ActionReorderEntityField }
func (AddReference) ActionType() ActionType        { return ActionAddReference }
func (UpdateReference) ActionType() ActionType     { return ActionUpdateReference }
func (RemoveReference) ActionType() ActionType     { return ActionRemoveReference }
func (MoveEntities) ActionType() ActionType        { return ActionMoveEntities }
func (AddMetadata) ActionType() ActionType         { return ActionAddMetadata }
func (UpdateMetadata) ActionType() ActionType      { return ActionUpdateMetadata }
func (RemoveMetadata) ActionType() ActionType      { return ActionRemoveMetadata }
func (ReorderMetadata) ActionType() ActionType     { return ActionReorderMetadata }
func (ImportEntities) ActionType() ActionType      { return ActionImportEntities }
func (SetMetaValue) ActionType() ActionType        { return ActionSetMetaValue }
func (SetMetaValueDynamic) ActionType() ActionType { return ActionSetMetaValueDynamic }
func (UnsetMetaValue) ActionType() ActionType      { return ActionUnsetMetaValue }
func (RequestResource) ActionType() ActionType     { return ActionRequestResource }
func (ResourceLoading) ActionType() ActionType     { return ActionResourceLoading }
func (RequestMismatch) ActionType() ActionType     { return ActionRequestMismatch }
func (ResourceReady) ActionType() ActionType       { return ActionResourceReady }
func (ResourceError) ActionType() ActionType       { return ActionResourceError }
func (HydrateState) ActionType() ActionType        { return ActionHydrateState }
func (Batch) ActionType() ActionType               { return ActionBatch }

// Flatten expands nested batches into a single ordered action list.
func Flatten(actions []Action) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if b, ok := a.(Batch); ok {
			out = append(out, Flatten(b.Actions)...)
			continue
		}
		out = append(out, a)
	}
	return out
}
