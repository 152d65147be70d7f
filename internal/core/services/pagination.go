package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/logger"
)

// GetPaginationState returns the pagination record of a paged resource,
// creating it from the resource's first and total fields the first time.
// A resource without first is treated as its own first page. Returns nil
// if ref does not resolve.
func (v *Vault) GetPaginationState(ref domain.Reference) *domain.PaginationState {
	base := v.base(v.State(), ref)
	if base == nil {
		return nil
	}

	if value, ok := v.State().MetaValue(base.ID, domain.PaginationNamespace, domain.PaginationKey); ok {
		if pagination, ok := domain.PaginationFromValue(value); ok {
			return &pagination
		}
	}

	initial := initialPagination(base)
	v.Dispatch(domain.SetMetaValueDynamic{
		ID:        base.ID,
		Namespace: domain.PaginationNamespace,
		Key:       domain.PaginationKey,
		Default:   initial,
		Update: func(current any) any {
			if _, ok := domain.PaginationFromValue(current); ok {
				return current
			}
			return initial
		},
	})

	value, _ := v.State().MetaValue(base.ID, domain.PaginationNamespace, domain.PaginationKey)
	pagination, _ := domain.PaginationFromValue(value)
	return &pagination
}

func initialPagination(base *domain.Entity) domain.PaginationState {
	pagination := domain.PaginationState{
		CurrentPageIndex: -1,
		Pages:            []domain.PageEntry{},
		TotalItems:       base.Int("total"),
	}

	if first := base.LinkID("first"); first != "" {
		pagination.Next = first
		return pagination
	}

	// The resource is its own first page.
	items, _ := base.RefList("items")
	pagination.CurrentPage = base.ID
	pagination.CurrentPageIndex = 0
	pagination.Page = 1
	pagination.Pages = []domain.PageEntry{{ID: base.ID, PageLength: len(items)}}
	pagination.Next = base.LinkID("next")
	pagination.IsFullyLoaded = pagination.Next == ""
	return pagination
}

// LoadNextPage fetches the next page of a paged resource and appends its
// items to the resource. It does nothing and returns a nil page when the
// resource is fully loaded, has no next page or a page fetch is already
// in flight. A failed fetch leaves the items untouched and records the
// error on the returned state, which can be retried.
func (v *Vault) LoadNextPage(ctx context.Context, ref domain.Reference) (*domain.PaginationState, *domain.Entity) {
	if v.GetPaginationState(ref) == nil {
		return nil, nil
	}

	base, pagination, ok := v.beginPage(ref)
	if base == nil {
		return nil, nil
	}
	if !ok {
		return &pagination, nil
	}
	pageURI := pagination.Next

	logger.Debug("vault: loading page %d of %s from %s", pagination.Page+1, base.ID, pageURI)
	page, err := v.Load(ctx, pageURI, driving.LoadOptions{PartOf: pageURI})
	if err == nil && (page == nil || page.Unresolved) {
		err = fmt.Errorf("%w: page %s returned no resource", domain.ErrFetchFailed, pageURI)
	}
	if err != nil {
		logger.Warn("vault: page %s of %s failed: %v", pageURI, base.ID, err)
		failed := v.finishPage(base, func(p *domain.PaginationState) {
			p.IsFetching = false
			p.Error = err.Error()
		}, nil)
		return &failed, nil
	}

	items, _ := page.RefList("items")
	merged := v.finishPage(base, func(p *domain.PaginationState) {
		p.Pages = append(p.Pages, domain.PageEntry{
			ID:         pageURI,
			Order:      len(p.Pages),
			PageLength: len(items),
			StartIndex: p.LoadedItems(),
		})
		p.Previous = page.LinkID("prev")
		if p.Previous == "" {
			p.Previous = p.CurrentPage
		}
		p.CurrentPage = pageURI
		p.CurrentPageIndex = len(p.Pages) - 1
		p.Page = len(p.Pages)
		p.Next = page.LinkID("next")
		if p.Next != "" && seenPage(p.Pages, p.Next) {
			p.Next = ""
		}
		p.IsFullyLoaded = p.Next == ""
		p.IsFetching = false
		p.Error = ""
		if p.TotalItems == 0 {
			p.TotalItems = page.Int("total")
		}
	}, items)
	return &merged, page
}

// LoadAllPages loads pages until the resource is fully loaded or maxPages
// pages were fetched by this call. Zero maxPages means no limit.
func (v *Vault) LoadAllPages(ctx context.Context, ref domain.Reference, maxPages int) (*domain.PaginationState, error) {
	fetched := 0
	for {
		if err := ctx.Err(); err != nil {
			return v.GetPaginationState(ref), err
		}

		pagination, page := v.LoadNextPage(ctx, ref)
		switch {
		case pagination == nil:
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, ref.ID)
		case pagination.Error != "":
			return pagination, fmt.Errorf("%w: %s", domain.ErrFetchFailed, pagination.Error)
		case page == nil:
			return pagination, nil
		}

		fetched++
		if maxPages > 0 && fetched >= maxPages {
			return pagination, nil
		}
	}
}

// base resolves ref to the stored, unframed resource.
func (v *Vault) base(state *domain.State, ref domain.Reference) *domain.Entity {
	entity := resolve(state, ref, driving.GetOptions{})
	if entity == nil {
		return nil
	}
	if stored, ok := state.Lookup(entity.Type, entity.ID); ok {
		return stored
	}
	return entity
}

// beginPage marks the resource as fetching. It reports false, with the
// current record, when there is nothing to fetch or a fetch is in flight.
func (v *Vault) beginPage(ref domain.Reference) (*domain.Entity, domain.PaginationState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := v.state.Load()
	base := v.base(state, ref)
	if base == nil {
		return nil, domain.PaginationState{}, false
	}
	value, _ := state.MetaValue(base.ID, domain.PaginationNamespace, domain.PaginationKey)
	pagination, _ := domain.PaginationFromValue(value)
	if pagination.IsFullyLoaded || pagination.Next == "" || pagination.IsFetching {
		return base, pagination, false
	}

	pagination.IsFetching = true
	pagination.Error = ""
	v.apply(setPagination(base.ID, pagination))
	return base, pagination, true
}

// finishPage updates the record and appends items to the resource in one batch.
func (v *Vault) finishPage(base *domain.Entity, update func(*domain.PaginationState), items []domain.Reference) domain.PaginationState {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := v.state.Load()
	value, _ := state.MetaValue(base.ID, domain.PaginationNamespace, domain.PaginationKey)
	pagination, _ := domain.PaginationFromValue(value)
	update(&pagination)

	actions := []domain.Action{setPagination(base.ID, pagination)}
	if items != nil {
		current, _ := state.Lookup(base.Type, base.ID)
		existing, _ := current.RefList("items")
		merged := make([]domain.Reference, 0, len(existing)+len(items))
		merged = append(merged, existing...)
		merged = append(merged, items...)
		actions = append([]domain.Action{domain.ModifyEntityField{
			Entity: base.Ref(),
			Key:    "items",
			Value:  merged,
		}}, actions...)
	}
	v.apply(domain.Batch{Actions: actions})
	return pagination
}

func setPagination(id string, pagination domain.PaginationState) domain.Action {
	return domain.SetMetaValue{
		ID:        id,
		Namespace: domain.PaginationNamespace,
		Key:       domain.PaginationKey,
		Value:     pagination,
	}
}

func seenPage(pages []domain.PageEntry, id string) bool {
	for _, page := range pages {
		if page.ID == id {
			return true
		}
	}
	return false
}
