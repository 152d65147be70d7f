// Package messages defines the Bubbletea messages of the browser.
package messages

import (
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

// EntityOpened is sent when the browser navigates to an entity.
type EntityOpened struct {
	Ref domain.Reference
}

// EntityLoaded carries the result of fetching a reference that was not in
// the store.
type EntityLoaded struct {
	Ref    domain.Reference
	Entity *domain.Entity
	Err    error
}

// PageLoaded carries the result of loading the next page of a paged resource.
type PageLoaded struct {
	ID    string
	State *domain.PaginationState
	Err   error
}

// ErrorOccurred reports an error to show in the status bar.
type ErrorOccurred struct {
	Err error
}
