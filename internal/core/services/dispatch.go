package services

import (
	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/reducers"
)

// HookContext is passed to action hooks.
type HookContext struct {
	// Action is the action being applied.
	Action domain.Action

	// State is the state before the dispatch for Before hooks and the
	// committed state after it for After hooks.
	State *domain.State
}

// Hook observes one action type. Either callback may be nil.
type Hook struct {
	Before func(HookContext)
	After  func(HookContext)
}

// Listener is notified after every dispatch that changed the state.
type Listener func(prev, next *domain.State)

// Subscription is the handle returned by On and Subscribe.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the hook or listener. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

type hookEntry struct {
	id         uint64
	actionType domain.ActionType
	hook       Hook
}

type listenerEntry struct {
	id       uint64
	listener Listener
}

// On registers a hook for actionType. An empty actionType observes every action.
// Hooks run synchronously in registration order.
func (v *Vault) On(actionType domain.ActionType, hook Hook) *Subscription {
	v.observersMu.Lock()
	defer v.observersMu.Unlock()

	v.nextID++
	id := v.nextID
	v.hooks = append(v.hooks, hookEntry{id: id, actionType: actionType, hook: hook})

	return &Subscription{cancel: func() {
		v.observersMu.Lock()
		defer v.observersMu.Unlock()
		for i, entry := range v.hooks {
			if entry.id == id {
				v.hooks = append(v.hooks[:i:i], v.hooks[i+1:]...)
				return
			}
		}
	}}
}

// Subscribe registers a listener called after each state-changing dispatch.
func (v *Vault) Subscribe(listener Listener) *Subscription {
	v.observersMu.Lock()
	defer v.observersMu.Unlock()

	v.nextID++
	id := v.nextID
	v.listeners = append(v.listeners, listenerEntry{id: id, listener: listener})

	return &Subscription{cancel: func() {
		v.observersMu.Lock()
		defer v.observersMu.Unlock()
		for i, entry := range v.listeners {
			if entry.id == id {
				v.listeners = append(v.listeners[:i:i], v.listeners[i+1:]...)
				return
			}
		}
	}}
}

// Dispatch applies one action. A domain.Batch is applied atomically.
func (v *Vault) Dispatch(action domain.Action) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.apply(action)
}

// DispatchBatch applies actions as one atomic unit: every Before hook runs
// before any reducer, every After hook runs against the final state.
func (v *Vault) DispatchBatch(actions ...domain.Action) {
	if len(actions) == 0 {
		return
	}
	v.Dispatch(domain.Batch{Actions: actions})
}

// apply folds action into the state. Caller must hold v.mu.
func (v *Vault) apply(action domain.Action) {
	actions := domain.Flatten([]domain.Action{action})
	if len(actions) == 0 {
		return
	}

	hooks, listeners := v.observers()
	prev := v.state.Load()

	for _, a := range actions {
		for _, entry := range hooks {
			if entry.hook.Before != nil && matches(entry.actionType, a) {
				entry.hook.Before(HookContext{Action: a, State: prev})
			}
		}
	}

	next := prev
	for _, a := range actions {
		next = reducers.Reduce(next, a)
	}
	v.state.Store(next)

	for _, a := range actions {
		for _, entry := range hooks {
			if entry.hook.After != nil && matches(entry.actionType, a) {
				entry.hook.After(HookContext{Action: a, State: next})
			}
		}
	}

	if next != prev {
		for _, entry := range listeners {
			entry.listener(prev, next)
		}
	}
}

func (v *Vault) observers() ([]hookEntry, []listenerEntry) {
	v.observersMu.RLock()
	defer v.observersMu.RUnlock()
	return append([]hookEntry(nil), v.hooks...), append([]listenerEntry(nil), v.listeners...)
}

func matches(actionType domain.ActionType, action domain.Action) bool {
	return actionType == "" || actionType == action.ActionType()
}

// BatchScope collects actions inside Batch.
type BatchScope struct {
	state   *domain.State
	actions []domain.Action
}

// Dispatch queues an action for the batch.
func (b *BatchScope) Dispatch(action domain.Action) {
	b.actions = append(b.actions, action)
}

// State returns the state committed before the batch began.
func (b *BatchScope) State() *domain.State {
	return b.state
}

// Len returns the number of queued actions.
func (b *BatchScope) Len() int {
	return len(b.actions)
}

// Batch runs fn and dispatches every action it queued as one batch.
// If fn returns an error or panics the queue is discarded, the state is
// left as it was, and the error (or panic) is passed on to the caller.
func (v *Vault) Batch(fn func(b *BatchScope) error) error {
	scope := &BatchScope{state: v.State()}

	defer func() {
		if r := recover(); r != nil {
			scope.actions = nil
			panic(r)
		}
	}()

	if err := fn(scope); err != nil {
		scope.actions = nil
		return err
	}

	v.DispatchBatch(scope.actions...)
	return nil
}
