// Package connectivity provides driven.ConnectivitySource implementations.
//
// Monitor holds the current state and notifies subscribers when it changes.
// Prober feeds a Monitor by periodically dialling a TCP address; FileWatcher
// feeds one from a status file written by another process (for example a
// NetworkManager dispatcher script).
package connectivity
