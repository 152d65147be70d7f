package domain

// LoadingState is the state of a resource request.
type LoadingState string

// Request loading states.
const (
	LoadingRequested LoadingState = "REQUESTED"
	LoadingResource  LoadingState = "RESOURCE_LOADING"
	LoadingReady     LoadingState = "RESOURCE_READY"
	LoadingError     LoadingState = "RESOURCE_ERROR"
)

// IsTerminal returns true once a request has finished, successfully or not.
func (s LoadingState) IsTerminal() bool {
	return s == LoadingReady || s == LoadingError
}

// RequestRecord tracks one fetch of a source URI.
type RequestRecord struct {
	// RequestURI is the URI that was requested.
	RequestURI string `json:"requestUri"`

	// ResourceURI is the canonical id the fetched body declared.
	ResourceURI string `json:"resourceUri"`

	// LoadingState is the current state of the request.
	LoadingState LoadingState `json:"loadingState"`

	// Error holds the failure message when LoadingState is LoadingError.
	Error string `json:"error,omitempty"`

	// URIMismatch is set when the body declared an id different from RequestURI.
	URIMismatch bool `json:"uriMismatch"`
}
