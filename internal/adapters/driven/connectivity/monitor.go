package connectivity

import (
	"sync"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
)

// Ensure Monitor implements the interface.
var _ driven.ConnectivitySource = (*Monitor)(nil)

// Monitor is an observable connectivity state. Subscribers are only called
// when Set changes the state.
type Monitor struct {
	mu    sync.Mutex
	state domain.ConnectivityState
	next  int
	subs  map[int]func(domain.ConnectivityState)

	// emitMu keeps deliveries in Set order.
	emitMu sync.Mutex
}

// NewMonitor creates a monitor holding initial.
func NewMonitor(initial domain.ConnectivityState) *Monitor {
	return &Monitor{
		state: initial,
		subs:  make(map[int]func(domain.ConnectivityState)),
	}
}

// Current returns the latest state.
func (m *Monitor) Current() domain.ConnectivityState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn for future changes.
func (m *Monitor) Subscribe(fn func(domain.ConnectivityState)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	m.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
		})
	}
}

// Set updates the state and notifies subscribers if it changed.
// It reports whether the state changed.
func (m *Monitor) Set(state domain.ConnectivityState) bool {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	if m.state == state {
		m.mu.Unlock()
		return false
	}
	m.state = state
	fns := make([]func(domain.ConnectivityState), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
	return true
}
