//go:build !unix

package lifecycle

// NotifySignals is a no-op on platforms without SIGUSR1 and SIGUSR2.
func NotifySignals(_ *Owner) (stop func()) {
	return func() {}
}
