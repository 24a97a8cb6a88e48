package driven

import (
	"context"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

// ConnectivitySource exposes network availability as an observable value.
type ConnectivitySource interface {
	// Current returns the latest known state.
	Current() domain.ConnectivityState

	// Subscribe registers fn to be called with each new state. Callbacks run
	// on the source's goroutine and must not block. The returned func removes
	// the subscription and is safe to call more than once.
	Subscribe(fn func(domain.ConnectivityState)) (unsubscribe func())
}

// LifecycleOwner is the host whose foreground/background transitions drive
// the dispatcher. Its context bounds the lifetime of any subscription made
// against it.
type LifecycleOwner interface {
	// Context is cancelled when the owner is destroyed.
	Context() context.Context

	// Subscribe registers fn to be called with each lifecycle event. The
	// returned func removes the subscription and is safe to call more than once.
	Subscribe(fn func(domain.LifecycleEvent)) (unsubscribe func())
}
