package lifecycle

import (
	"context"
	"sync"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// Ensure Owner implements the interface.
var _ driven.LifecycleOwner = (*Owner)(nil)

// Owner is a lifecycle event bus bound to a context. Emitting
// LifecycleDestroyed, or cancelling the parent context, ends it.
type Owner struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	next      int
	subs      map[int]func(domain.LifecycleEvent)
	last      domain.LifecycleEvent
	destroyed bool

	// emitMu keeps deliveries in Emit order.
	emitMu sync.Mutex
}

// NewOwner creates an owner in the Created state.
func NewOwner(parent context.Context) *Owner {
	ctx, cancel := context.WithCancel(parent)
	return &Owner{
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[int]func(domain.LifecycleEvent)),
		last:   domain.LifecycleCreated,
	}
}

// Context is cancelled once the owner is destroyed.
func (o *Owner) Context() context.Context {
	return o.ctx
}

// Subscribe registers fn for future events.
func (o *Owner) Subscribe(fn func(domain.LifecycleEvent)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.next
	o.next++
	o.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
		})
	}
}

// Emit delivers event to every subscriber. Events after the owner is
// destroyed are dropped.
func (o *Owner) Emit(event domain.LifecycleEvent) {
	o.emitMu.Lock()
	defer o.emitMu.Unlock()

	o.mu.Lock()
	if o.destroyed || o.ctx.Err() != nil {
		o.mu.Unlock()
		logger.Debug("lifecycle: dropped %s after destroy", event)
		return
	}
	o.last = event
	if event == domain.LifecycleDestroyed {
		o.destroyed = true
	}
	fns := make([]func(domain.LifecycleEvent), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	logger.Debug("lifecycle: %s", event)
	for _, fn := range fns {
		fn(event)
	}

	if event == domain.LifecycleDestroyed {
		o.cancel()
	}
}

// Destroy emits LifecycleDestroyed.
func (o *Owner) Destroy() {
	o.Emit(domain.LifecycleDestroyed)
}

// Last returns the most recently emitted event.
func (o *Owner) Last() domain.LifecycleEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}
