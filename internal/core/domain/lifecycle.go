package domain

// LifecycleEvent is a transition of the host process between background
// and foreground.
type LifecycleEvent int

// Lifecycle events, in the order a process normally moves through them.
const (
	LifecycleCreated LifecycleEvent = iota
	LifecycleStarted
	LifecycleResumed
	LifecyclePaused
	LifecycleStopped
	LifecycleDestroyed
)

var lifecycleNames = map[LifecycleEvent]string{
	LifecycleCreated:   "created",
	LifecycleStarted:   "started",
	LifecycleResumed:   "resumed",
	LifecyclePaused:    "paused",
	LifecycleStopped:   "stopped",
	LifecycleDestroyed: "destroyed",
}

// String returns the lower-case name of the event.
func (e LifecycleEvent) String() string {
	if name, ok := lifecycleNames[e]; ok {
		return name
	}
	return "unknown"
}

// EntersForeground reports whether the event moves the process into the foreground.
func (e LifecycleEvent) EntersForeground() bool {
	return e == LifecycleStarted
}
