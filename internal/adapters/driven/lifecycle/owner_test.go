package lifecycle

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []domain.LifecycleEvent
}

func (r *eventRecorder) record(e domain.LifecycleEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) got() []domain.LifecycleEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LifecycleEvent(nil), r.events...)
}

func TestOwner_EmitDeliversInOrder(t *testing.T) {
	o := NewOwner(context.Background())
	rec := &eventRecorder{}
	o.Subscribe(rec.record)

	assert.Equal(t, domain.LifecycleCreated, o.Last())

	o.Emit(domain.LifecycleStarted)
	o.Emit(domain.LifecycleStopped)
	o.Emit(domain.LifecycleStarted)

	assert.Equal(t, []domain.LifecycleEvent{
		domain.LifecycleStarted,
		domain.LifecycleStopped,
		domain.LifecycleStarted,
	}, rec.got())
	assert.Equal(t, domain.LifecycleStarted, o.Last())
}

func TestOwner_Unsubscribe(t *testing.T) {
	o := NewOwner(context.Background())
	rec := &eventRecorder{}
	unsubscribe := o.Subscribe(rec.record)

	o.Emit(domain.LifecycleStarted)
	unsubscribe()
	unsubscribe()
	o.Emit(domain.LifecycleStopped)

	assert.Equal(t, []domain.LifecycleEvent{domain.LifecycleStarted}, rec.got())
}

func TestOwner_Destroy(t *testing.T) {
	o := NewOwner(context.Background())
	rec := &eventRecorder{}
	o.Subscribe(rec.record)

	o.Destroy()

	assert.Error(t, o.Context().Err())
	assert.Equal(t, []domain.LifecycleEvent{domain.LifecycleDestroyed}, rec.got())

	o.Emit(domain.LifecycleStarted)
	assert.Len(t, rec.got(), 1)
	assert.Equal(t, domain.LifecycleDestroyed, o.Last())
}

func TestOwner_ParentCancelled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	o := NewOwner(parent)
	rec := &eventRecorder{}
	o.Subscribe(rec.record)

	cancel()
	<-o.Context().Done()
	o.Emit(domain.LifecycleStarted)

	assert.Empty(t, rec.got())
}
