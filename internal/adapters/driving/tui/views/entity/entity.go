// Package entity provides the entity view of the browser: a header
// describing the open entity and the list of its references.
package entity

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// headerLines is the height of the header above the list.
const headerLines = 5

// View shows one entity.
type View struct {
	styles     *styles.Styles
	vault      driving.Vault
	list       *list.RefList
	entity     *domain.Entity
	pagination *domain.PaginationState
	width      int
	height     int
}

// NewView creates a new entity view.
func NewView(s *styles.Styles, km *keymap.KeyMap, vault driving.Vault) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		vault:  vault,
		list:   list.NewRefList(s, km),
		width:  80,
		height: 24,
	}
}

// SetEntity shows entity and resets the selection.
func (v *View) SetEntity(entity *domain.Entity) {
	v.entity = entity
	v.list.SetRows(list.Rows(v.vault, entity))
	v.pagination = v.paging(entity)
}

// Refresh re-reads the open entity from the store, keeping the selection.
func (v *View) Refresh() {
	if v.entity == nil {
		return
	}
	selected := v.list.Selected()
	if fresh := v.vault.Get(v.entity.Ref(), driving.GetOptions{}); fresh != nil {
		v.entity = fresh
	}
	v.list.SetRows(list.Rows(v.vault, v.entity))
	v.list.SetSelected(selected)
	v.pagination = v.paging(v.entity)
}

// paging returns the pagination record of a paged resource. Resources
// without first or next links are not paged and are left alone.
func (v *View) paging(entity *domain.Entity) *domain.PaginationState {
	if entity == nil || (entity.LinkID("first") == "" && entity.LinkID("next") == "") {
		return nil
	}
	return v.vault.GetPaginationState(entity.Ref())
}

// Entity returns the open entity.
func (v *View) Entity() *domain.Entity {
	return v.entity
}

// Pagination returns the pagination record of the open entity, or nil.
func (v *View) Pagination() *domain.PaginationState {
	return v.pagination
}

// SelectedRow returns the selected reference row.
func (v *View) SelectedRow() *list.Row {
	return v.list.SelectedRow()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update forwards navigation keys to the list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View renders the header and the reference list.
func (v *View) View() string {
	if v.entity == nil {
		return v.styles.Muted.Render("Nothing open")
	}

	title := v.entity.Label.First("en", "none")
	if title == "" {
		title = "(no label)"
	}

	lines := []string{
		v.styles.Title.Render(title) + "  " + v.styles.Type.Render(v.entity.DeclaredType()),
		v.styles.Muted.Render(v.entity.ID),
		v.styles.Normal.Render(v.describe()),
	}
	if summary := v.entity.Summary.First("en", "none"); summary != "" {
		lines = append(lines, v.styles.Muted.Render(truncate(summary, v.width)))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "", v.list.View())
	return strings.Join(lines, "\n")
}

// describe summarises the entity's references and paging.
func (v *View) describe() string {
	parts := []string{fmt.Sprintf("%d references", v.list.Count())}
	if n := len(v.entity.Metadata); n > 0 {
		parts = append(parts, fmt.Sprintf("%d metadata entries", n))
	}
	if p := v.pagination; p != nil {
		pages := fmt.Sprintf("%d pages loaded", len(p.Pages))
		if p.TotalItems > 0 {
			pages += fmt.Sprintf(", %d of %d items", p.LoadedItems(), p.TotalItems)
		}
		switch {
		case p.IsFullyLoaded:
			pages += ", complete"
		case p.Error != "":
			pages += ", last page failed"
		case p.Next != "":
			pages += ", more available"
		}
		parts = append(parts, pages)
	}
	return strings.Join(parts, " | ")
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	rows := height - headerLines - 2
	if rows < 1 {
		rows = 1
	}
	v.list.SetDimensions(width, rows)
}

func truncate(s string, width int) string {
	if width < 10 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
