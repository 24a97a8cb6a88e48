//go:build unix

package lifecycle

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

// signalEvents maps operator signals to lifecycle events.
var signalEvents = map[os.Signal]domain.LifecycleEvent{
	syscall.SIGUSR1: domain.LifecycleStarted,
	syscall.SIGUSR2: domain.LifecycleStopped,
}

// NotifySignals emits Started on SIGUSR1 and Stopped on SIGUSR2 until the
// owner is destroyed or the returned stop func is called.
func NotifySignals(o *Owner) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-o.Context().Done():
				return
			case <-done:
				return
			case sig := <-ch:
				if event, ok := signalEvents[sig]; ok {
					o.Emit(event)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
