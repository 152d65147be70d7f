package domain

import "strings"

// EntityType names a partition of the entity store.
type EntityType string

// Known entity types.
const (
	TypeCollection           EntityType = "Collection"
	TypeManifest             EntityType = "Manifest"
	TypeCanvas               EntityType = "Canvas"
	TypeRange                EntityType = "Range"
	TypeAnnotation           EntityType = "Annotation"
	TypeAnnotationPage       EntityType = "AnnotationPage"
	TypeAnnotationCollection EntityType = "AnnotationCollection"
	TypeContentResource      EntityType = "ContentResource"
	TypeAgent                EntityType = "Agent"
	TypeService              EntityType = "Service"
	TypeSelector             EntityType = "Selector"
	TypeSpecificResource     EntityType = "SpecificResource"

	// TypeUnknown is used for stubs whose type could not be determined.
	TypeUnknown EntityType = "unknown"
)

// AllTypes lists every store partition in a stable order.
var AllTypes = []EntityType{
	TypeCollection,
	TypeManifest,
	TypeCanvas,
	TypeRange,
	TypeAnnotation,
	TypeAnnotationPage,
	TypeAnnotationCollection,
	TypeContentResource,
	TypeAgent,
	TypeService,
	TypeSelector,
}

// contentResourceTypes are declared resource types stored under ContentResource.
var contentResourceTypes = map[string]bool{
	"Image":         true,
	"Sound":         true,
	"Audio":         true,
	"Video":         true,
	"Text":          true,
	"Dataset":       true,
	"Model":         true,
	"Choice":        true,
	"Composite":     true,
	"List":          true,
	"Independents":  true,
	"TextualBody":   true,
	"dctypes:Image": true,
	"dctypes:Sound": true,
	"dctypes:Video": true,
	"dctypes:Text":  true,
}

// selectorTypes are declared selector types stored under Selector.
var selectorTypes = map[string]bool{
	"FragmentSelector":      true,
	"SvgSelector":           true,
	"PointSelector":         true,
	"ImageApiSelector":      true,
	"AudioContentSelector":  true,
	"VideoContentSelector":  true,
	"TextQuoteSelector":     true,
	"TextPositionSelector":  true,
	"DataPositionSelector":  true,
	"CssSelector":           true,
	"XPathSelector":         true,
	"RangeSelector":         true,
	"iiif:ImageApiSelector": true,
	"oa:FragmentSelector":   true,
}

// IsValid returns true if the type is a known store partition.
func (t EntityType) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t EntityType) String() string {
	return string(t)
}

// Partition maps a declared resource type onto the store partition it lives in.
// Unrecognised declared types are stored as content resources.
func Partition(declared string) EntityType {
	switch {
	case declared == "" || declared == string(TypeUnknown):
		return TypeUnknown
	case declared == string(TypeSpecificResource):
		return TypeSpecificResource
	case EntityType(declared).IsValid():
		return EntityType(declared)
	case declared == "CollectionPage":
		return TypeCollection
	case declared == "AnnotationCollectionPage":
		return TypeAnnotationCollection
	case declared == "Person" || declared == "Organization":
		return TypeAgent
	case contentResourceTypes[declared]:
		return TypeContentResource
	case selectorTypes[declared]:
		return TypeSelector
	case strings.Contains(declared, "Service"):
		return TypeService
	default:
		return TypeContentResource
	}
}
