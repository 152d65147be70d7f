package driven

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// Normaliser decomposes a fetched document into normalised entities.
type Normaliser interface {
	// Normalise parses body, fetched from requestURI, into flat entities.
	Normalise(requestURI string, body []byte) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Root references the top-level resource the body declared.
	Root domain.Reference

	// Entities holds every entity found in the body, including Root.
	Entities domain.Entities
}
