// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Vault service is the normalised entity store: it owns the committed
// state, folds actions through the reducers, notifies observers, resolves
// references and drives the loading and pagination pipelines.
//
// Services are pure Go with no CGO or external dependencies.
package services
