// Package styles provides the colour theme and styles of the browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette of the browser.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary marks entity types.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for ids and hints.
	Muted lipgloss.Color

	// Warning marks unresolved references.
	Warning lipgloss.Color

	// Error marks failed loads.
	Error lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles are the lipgloss styles built from a theme.
type Styles struct {
	theme *Theme

	// Title renders the label of the open entity.
	Title lipgloss.Style

	// Type renders entity type badges.
	Type lipgloss.Style

	// Field renders reference field names.
	Field lipgloss.Style

	Normal lipgloss.Style
	Muted  lipgloss.Style

	// Selected renders the highlighted row.
	Selected lipgloss.Style

	// Unresolved renders references that are not in the store.
	Unresolved lipgloss.Style

	Error     lipgloss.Style
	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Type: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Field: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Muted),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Unresolved: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
