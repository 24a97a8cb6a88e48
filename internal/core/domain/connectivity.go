package domain

import (
	"fmt"
	"strings"
)

// ConnectivityState is the observed network availability.
type ConnectivityState int

// Connectivity states. The zero value is ConnectivityUnknown.
const (
	ConnectivityUnknown ConnectivityState = iota
	ConnectivityAvailable
	ConnectivityUnavailable
)

// String returns the lower-case name of the state.
func (c ConnectivityState) String() string {
	switch c {
	case ConnectivityAvailable:
		return "available"
	case ConnectivityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// IsAvailable reports whether the network is available.
func (c ConnectivityState) IsAvailable() bool {
	return c == ConnectivityAvailable
}

// ParseConnectivityState parses the String form of a state.
// Surrounding whitespace and case are ignored.
func ParseConnectivityState(s string) (ConnectivityState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available", "online", "up":
		return ConnectivityAvailable, nil
	case "unavailable", "offline", "down":
		return ConnectivityUnavailable, nil
	case "unknown", "":
		return ConnectivityUnknown, nil
	default:
		return ConnectivityUnknown, fmt.Errorf("%w: connectivity state %q", ErrInvalidInput, s)
	}
}
