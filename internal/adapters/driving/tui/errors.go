package tui

import "errors"

// ErrMissingVault is returned when the vault is not provided.
var ErrMissingVault = errors.New("tui: vault is required")

// ErrNoStart is returned when the browser is started without an entity id.
var ErrNoStart = errors.New("tui: an entity id to open is required")
