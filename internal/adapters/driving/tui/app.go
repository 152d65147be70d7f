package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/views/entity"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// App is the browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	view *entity.View
	bar  *status.Bar
	help help.Model

	// start is the entity opened first.
	start domain.Reference

	// history holds the entities opened before the current one.
	history []domain.Reference

	showHelp bool
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a browser that opens start first.
func NewApp(ports *Ports, start string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if start == "" {
		return nil, ErrNoStart
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		view:   entity.NewView(s, km, ports.Vault),
		bar:    status.NewBar(s, km),
		help:   help.New(),
		start:  domain.Reference{ID: start},
	}, nil
}

// WithContext sets the context used for loads.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	start := a.start
	return tea.Batch(
		tea.SetWindowTitle("vault"),
		func() tea.Msg { return messages.EntityOpened{Ref: start} },
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.EntityOpened:
		if found := a.ports.Vault.Get(msg.Ref, driving.GetOptions{}); found != nil {
			a.show(found)
			return a, nil
		}
		a.bar.SetState(status.StateLoading, msg.Ref.ID)
		return a, a.load(msg.Ref)

	case messages.EntityLoaded:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.show(msg.Entity)
		return a, nil

	case messages.PageLoaded:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.view.Refresh()
		a.setReady()
		return a, nil

	case messages.ErrorOccurred:
		a.fail(msg.Err)
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil

	case key.Matches(msg, a.keymap.Back):
		a.back()
		return a, nil

	case key.Matches(msg, a.keymap.Open):
		row := a.view.SelectedRow()
		if row == nil {
			return a, nil
		}
		ref := row.Ref.Unwrap()
		return a, func() tea.Msg { return messages.EntityOpened{Ref: ref} }

	case key.Matches(msg, a.keymap.NextPage):
		return a, a.nextPage()

	case key.Matches(msg, a.keymap.Reload):
		current := a.view.Entity()
		if current == nil {
			return a, nil
		}
		a.bar.SetState(status.StateLoading, current.ID)
		return a, a.load(current.Ref())
	}

	var cmd tea.Cmd
	a.view, cmd = a.view.Update(msg)
	return a, cmd
}

// show opens e, remembering the entity it replaces.
func (a *App) show(e *domain.Entity) {
	if current := a.view.Entity(); current != nil && current.ID != e.ID {
		a.history = append(a.history, current.Ref())
	}
	a.view.SetEntity(e)
	a.err = nil
	a.setReady()
}

// back reopens the previous entity.
func (a *App) back() {
	for len(a.history) > 0 {
		ref := a.history[len(a.history)-1]
		a.history = a.history[:len(a.history)-1]
		if previous := a.ports.Vault.Get(ref, driving.GetOptions{}); previous != nil {
			a.view.SetEntity(previous)
			a.setReady()
			return
		}
	}
}

func (a *App) fail(err error) {
	a.err = err
	a.bar.SetState(status.StateError, err.Error())
}

func (a *App) setReady() {
	message := ""
	if p := a.view.Pagination(); p != nil && p.Next != "" && !p.IsFullyLoaded {
		message = "more pages"
	}
	a.bar.SetState(status.StateReady, message)
	a.bar.SetEntities(a.ports.Vault.State().Count())
}

// load fetches ref and reports the result as an EntityLoaded message.
func (a *App) load(ref domain.Reference) tea.Cmd {
	ctx, vault := a.ctx, a.ports.Vault
	return func() tea.Msg {
		loaded, err := vault.Load(ctx, ref.ID, driving.LoadOptions{PartOf: ref.PartOf})
		if err == nil && (loaded == nil || loaded.Unresolved) {
			err = fmt.Errorf("%w: %s", domain.ErrNotFound, ref.ID)
		}
		return messages.EntityLoaded{Ref: ref, Entity: loaded, Err: err}
	}
}

// nextPage loads the next page of the open entity, if it has one.
func (a *App) nextPage() tea.Cmd {
	current := a.view.Entity()
	p := a.view.Pagination()
	if current == nil || p == nil || p.IsFullyLoaded || p.Next == "" {
		return nil
	}

	a.bar.SetState(status.StateLoading, p.Next)
	ctx, vault, ref := a.ctx, a.ports.Vault, current.Ref()
	return func() tea.Msg {
		state, _ := vault.LoadNextPage(ctx, ref)
		if state != nil && state.Error != "" {
			return messages.PageLoaded{ID: ref.ID, State: state, Err: fmt.Errorf("%w: %s", domain.ErrFetchFailed, state.Error)}
		}
		return messages.PageLoaded{ID: ref.ID, State: state}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	body := a.view.View()
	if a.showHelp {
		body += "\n\n" + a.help.View(a.keymap)
	}
	return body + "\n\n" + a.bar.View()
}

// Run starts the browser.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Current returns the open entity.
func (a *App) Current() *domain.Entity {
	return a.view.Entity()
}

// History returns the entities opened before the current one.
func (a *App) History() []domain.Reference {
	return a.history
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.view.SetDimensions(width, height)
	a.bar.SetWidth(width)
	a.help.Width = width
}
