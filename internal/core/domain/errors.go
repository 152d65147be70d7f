package domain

import "errors"

// Domain errors represent vault failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity or snapshot does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed indicates the loader could not fetch a resource.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNormalise indicates a fetched body could not be turned into entities.
	ErrNormalise = errors.New("normalise failed")

	// ErrTypeMismatch indicates a loaded resource is not of the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNoFetcher indicates an asynchronous load was requested without a fetcher.
	ErrNoFetcher = errors.New("fetcher not configured")

	// ErrDefaultNotInitialised indicates the process default vault was used before InitDefault.
	ErrDefaultNotInitialised = errors.New("default vault not initialised")
)
