package domain

import "encoding/json"

// PaginationNamespace is the meta namespace holding pagination records.
const PaginationNamespace = "@vault/pagination"

// PaginationKey is the meta key of the pagination record.
const PaginationKey = "state"

// PageEntry records one merged page.
type PageEntry struct {
	ID         string `json:"id"`
	Order      int    `json:"order"`
	PageLength int    `json:"pageLength"`
	StartIndex int    `json:"startIndex"`
}

// PaginationState tracks fetch progress of a paged resource.
type PaginationState struct {
	CurrentPage      string      `json:"currentPage,omitempty"`
	CurrentPageIndex int         `json:"currentPageIndex"`
	IsFetching       bool        `json:"isFetching"`
	IsFullyLoaded    bool        `json:"isFullyLoaded"`
	Next             string      `json:"next,omitempty"`
	Previous         string      `json:"previous,omitempty"`
	Page             int         `json:"page"`
	Pages            []PageEntry `json:"pages"`
	TotalItems       int         `json:"totalItems"`
	Error            string      `json:"error,omitempty"`
}

// LoadedItems returns the number of items merged across every page.
func (p PaginationState) LoadedItems() int {
	n := 0
	for _, page := range p.Pages {
		n += page.PageLength
	}
	return n
}

// Clone returns a copy with its own page ledger.
func (p PaginationState) Clone() PaginationState {
	p.Pages = append([]PageEntry{}, p.Pages...)
	return p
}

// PaginationFromValue reads a pagination record stored as a meta value.
// Records restored from JSON arrive as plain maps and are decoded.
func PaginationFromValue(value any) (PaginationState, bool) {
	switch v := value.(type) {
	case PaginationState:
		return v.Clone(), true
	case *PaginationState:
		if v == nil {
			return PaginationState{}, false
		}
		return v.Clone(), true
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return PaginationState{}, false
		}
		var out PaginationState
		if err := json.Unmarshal(data, &out); err != nil {
			return PaginationState{}, false
		}
		return out, true
	default:
		return PaginationState{}, false
	}
}
