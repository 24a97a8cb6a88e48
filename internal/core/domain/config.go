package domain

import "time"

// DispatcherConfig holds tuning for the auto-upload dispatcher and the
// adapters that feed it.
type DispatcherConfig struct {
	// MaxConcurrentSites bounds how many sites a sweep enqueues at once.
	// Zero means unbounded.
	MaxConcurrentSites int

	// SweepInterval is how often the periodic sweep runs. Zero disables it.
	SweepInterval time.Duration

	// ProbeAddress is the host:port dialled to detect connectivity.
	ProbeAddress string

	// ProbeInterval is how often ProbeAddress is dialled.
	ProbeInterval time.Duration

	// StatusFile, when set, is watched for connectivity state instead of probing.
	StatusFile string

	// UploadRate is the number of queued uploads handed to the transport per second.
	UploadRate int
}

// Configuration keys, as stored in config.toml.
const (
	KeyMaxConcurrentSites   = "autoupload.max_concurrent_sites"
	KeySweepIntervalMinutes = "autoupload.sweep_interval_minutes"
	KeyProbeAddress         = "connectivity.probe_address"
	KeyProbeIntervalSeconds = "connectivity.probe_interval_seconds"
	KeyStatusFile           = "connectivity.status_file"
	KeyUploadRate           = "upload.rate_per_second"
)

// DefaultDispatcherConfig returns sensible defaults for the dispatcher.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		MaxConcurrentSites: 4,
		SweepInterval:      30 * time.Minute,
		ProbeAddress:       "1.1.1.1:443",
		ProbeInterval:      15 * time.Second,
		UploadRate:         2,
	}
}
