// Package reducers implements the pure state transitions of the vault.
//
// Every reducer takes the current state and an action and returns the next
// state. Reducers never modify their input: touched maps and entities are
// copied, untouched ones are shared. When an action does not apply (unknown
// type, missing entity, field that is not a list, index out of range) the
// input is returned unchanged, so callers can detect a no-op by identity.
package reducers
