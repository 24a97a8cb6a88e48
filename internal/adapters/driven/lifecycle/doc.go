// Package lifecycle provides a driven.LifecycleOwner for long-running
// processes. The daemon emits Started once it is ready; the operator can
// move it between foreground and background with SIGUSR1 and SIGUSR2.
package lifecycle
