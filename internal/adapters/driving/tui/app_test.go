package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/core/services"
	"github.com/custodia-labs/iiif-vault/internal/normalisers/presentation"
)

const (
	collURI   = "https://example.org/coll"
	page1     = "https://example.org/coll?page=1"
	page2     = "https://example.org/coll?page=2"
	manifest1 = "https://example.org/m1"
	missing   = "https://example.org/missing"
)

var fixtures = map[string]string{
	collURI: `{"id": "https://example.org/coll", "type": "Collection", "label": {"en": ["Everything"]},
	  "total": 2, "first": {"id": "https://example.org/coll?page=1", "type": "CollectionPage"}}`,
	page1: `{"id": "https://example.org/coll?page=1", "type": "CollectionPage",
	  "next": {"id": "https://example.org/coll?page=2", "type": "CollectionPage"},
	  "items": [{"id": "https://example.org/m1", "type": "Manifest"}]}`,
	page2: `{"id": "https://example.org/coll?page=2", "type": "CollectionPage",
	  "items": [{"id": "https://example.org/m2", "type": "Manifest"}]}`,
	manifest1: `{"id": "https://example.org/m1", "type": "Manifest", "label": {"en": ["First"]},
	  "items": [{"id": "https://example.org/m1/c1", "type": "Canvas", "label": {"en": ["Front"]}, "height": 10}]}`,
}

func newTestApp(t *testing.T, start string) (*App, *services.Vault) {
	t.Helper()
	vault := services.NewVault(services.Options{
		Normaliser: presentation.New(),
		Fetcher: driven.FetcherFunc(func(_ context.Context, uri string, _ driven.FetchOptions) ([]byte, error) {
			body, ok := fixtures[uri]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return []byte(body), nil
		}),
	})
	app, err := NewApp(&Ports{Vault: vault}, start)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, vault
}

// drain runs cmd and feeds its messages back into the app until none are left.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(t, app, c)
			}
			return
		}
		_, cmd = app.Update(msg)
	}
}

func press(t *testing.T, app *App, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := app.Update(msg)
	drain(t, app, cmd)
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Validation(t *testing.T) {
	_, err := NewApp(&Ports{}, collURI)
	assert.ErrorIs(t, err, ErrMissingVault)

	_, err = NewApp(nil, collURI)
	assert.ErrorIs(t, err, ErrMissingVault)

	vault := services.NewVault(services.Options{})
	_, err = NewApp(&Ports{Vault: vault}, "")
	assert.ErrorIs(t, err, ErrNoStart)
}

func TestApp_NotReadyUntilSized(t *testing.T) {
	vault := services.NewVault(services.Options{})
	app, err := NewApp(&Ports{Vault: vault}, collURI)
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
}

func TestApp_InitLoadsStart(t *testing.T) {
	app, vault := newTestApp(t, collURI)

	drain(t, app, app.Init())

	require.NotNil(t, app.Current())
	assert.Equal(t, collURI, app.Current().ID)
	assert.NotNil(t, vault.GetByID(collURI, driving.GetOptions{}))
	view := app.View()
	assert.Contains(t, view, "Everything")
	assert.Contains(t, view, "0 pages loaded, 0 of 2 items, more available")
	assert.Contains(t, view, "more pages")
}

func TestApp_NextPageAndOpen(t *testing.T) {
	app, _ := newTestApp(t, collURI)
	drain(t, app, app.Init())

	press(t, app, runes("n"))
	assert.Contains(t, app.View(), "1 pages loaded, 1 of 2 items")

	press(t, app, runes("n"))
	assert.Contains(t, app.View(), "2 pages loaded, 2 of 2 items, complete")
	assert.NotContains(t, app.View(), "more pages")

	// Already complete.
	_, cmd := app.Update(runes("n"))
	assert.Nil(t, cmd)

	press(t, app, keyEnter)
	require.NotNil(t, app.Current())
	assert.Equal(t, manifest1, app.Current().ID)
	assert.Equal(t, collURI, app.History()[0].ID)
	assert.Contains(t, app.View(), "Front")

	press(t, app, keyEsc)
	assert.Equal(t, collURI, app.Current().ID)
	assert.Empty(t, app.History())
}

func TestApp_OpenFailureKeepsCurrent(t *testing.T) {
	app, _ := newTestApp(t, collURI)
	drain(t, app, app.Init())
	press(t, app, runes("n"))
	press(t, app, runes("n"))

	// The second item has no fixture.
	press(t, app, keyDown)
	press(t, app, keyEnter)

	assert.Equal(t, collURI, app.Current().ID)
	assert.ErrorIs(t, app.Err(), domain.ErrFetchFailed)
	assert.Contains(t, app.View(), "Error:")
}

func TestApp_StartMissing(t *testing.T) {
	app, _ := newTestApp(t, missing)
	drain(t, app, app.Init())

	assert.Nil(t, app.Current())
	assert.Error(t, app.Err())
	assert.Contains(t, app.View(), "Nothing open")
}

func TestApp_ErrorMessage(t *testing.T) {
	app, _ := newTestApp(t, collURI)

	app.Update(messages.ErrorOccurred{Err: domain.ErrInvalidInput})

	assert.ErrorIs(t, app.Err(), domain.ErrInvalidInput)
}

func TestApp_HelpAndQuit(t *testing.T) {
	app, _ := newTestApp(t, collURI)
	drain(t, app, app.Init())

	press(t, app, runes("?"))
	assert.Contains(t, app.View(), "next page")

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
