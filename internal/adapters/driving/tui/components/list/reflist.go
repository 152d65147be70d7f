// Package list provides the reference list of the browser.
package list

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// fieldOrder lists the reference fields shown first, in this order.
// Other fields follow alphabetically.
var fieldOrder = []string{
	"items", "structures", "annotations", "body", "target",
	"thumbnail", "start", "partOf", "seeAlso", "rendering",
	"homepage", "logo", "provider", "service", "services",
	"supplementary", "placeholderCanvas", "accompanyingCanvas",
}

// Row is one reference of the open entity.
type Row struct {
	// Field is the reference field the row was read from.
	Field string

	// Index is the position within the field.
	Index int

	// Ref is the reference itself.
	Ref domain.Reference

	// Label is the resolved label, empty if none.
	Label string

	// Unresolved is set when the reference is not in the store.
	Unresolved bool
}

// RefList displays the references of one entity in a navigable list.
type RefList struct {
	rows     []Row
	selected int
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	width    int
	height   int
}

// NewRefList creates a new reference list.
func NewRefList(s *styles.Styles, km *keymap.KeyMap) *RefList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &RefList{
		styles: s,
		keymap: km,
		width:  80,
		height: 20,
	}
}

// Rows builds the rows of entity, resolving each reference with vault.
func Rows(vault driving.Vault, entity *domain.Entity) []Row {
	if entity == nil {
		return nil
	}

	fields := make([]string, 0, len(entity.Refs))
	known := make(map[string]bool, len(fieldOrder))
	for _, field := range fieldOrder {
		known[field] = true
		if _, ok := entity.Refs[field]; ok {
			fields = append(fields, field)
		}
	}
	var rest []string
	for field := range entity.Refs {
		if !known[field] {
			rest = append(rest, field)
		}
	}
	sort.Strings(rest)
	fields = append(fields, rest...)

	var rows []Row
	for _, field := range fields {
		for i, ref := range entity.Refs[field] {
			row := Row{Field: field, Index: i, Ref: ref}
			target := vault.Get(ref, driving.GetOptions{})
			if target == nil {
				row.Unresolved = true
			} else {
				row.Label = target.Label.First("en", "none")
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Init initialises the list.
func (r *RefList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation.
func (r *RefList) Update(msg tea.Msg) (*RefList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, r.keymap.Up):
			r.MoveUp()
		case key.Matches(msg, r.keymap.Down):
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible rows.
func (r *RefList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render("No references")
	}

	visible := r.height
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.rows) {
		end = len(r.rows)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (r *RefList) renderRow(index int) string {
	row := r.rows[index]

	field := fmt.Sprintf("%s[%d]", row.Field, row.Index)
	name := row.Label
	if name == "" {
		name = row.Ref.MatchID()
	}
	typ := string(row.Ref.Type)
	if typ == "" {
		typ = string(domain.TypeUnknown)
	}

	maxName := r.width - 40
	if maxName < 10 {
		maxName = 10
	}
	if len(name) > maxName {
		name = name[:maxName-3] + "..."
	}

	if index == r.selected {
		return r.styles.Selected.Render(fmt.Sprintf("> %-18s %-16s %s", field, typ, name))
	}

	nameStyle := r.styles.Normal
	if row.Unresolved {
		nameStyle = r.styles.Unresolved
	}
	return "  " + r.styles.Field.Render(fmt.Sprintf("%-18s", field)) + " " +
		r.styles.Type.Render(fmt.Sprintf("%-16s", typ)) + " " +
		nameStyle.Render(name)
}

// SetRows replaces the rows and resets the selection.
func (r *RefList) SetRows(rows []Row) {
	r.rows = rows
	r.selected = 0
}

// Rows returns the current rows.
func (r *RefList) Rows() []Row {
	return r.rows
}

// Selected returns the index of the selected row.
func (r *RefList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index if it is in range.
func (r *RefList) SetSelected(index int) {
	if index >= 0 && index < len(r.rows) {
		r.selected = index
	}
}

// SelectedRow returns the selected row, or nil if the list is empty.
func (r *RefList) SelectedRow() *Row {
	if r.selected < 0 || r.selected >= len(r.rows) {
		return nil
	}
	return &r.rows[r.selected]
}

// MoveUp moves the selection up.
func (r *RefList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *RefList) MoveDown() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

// SetDimensions sets the width and the number of visible rows.
func (r *RefList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of rows.
func (r *RefList) Count() int {
	return len(r.rows)
}
