package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
)

// settingKind describes how a config key's string form is parsed.
type settingKind int

const (
	kindInt settingKind = iota
	kindString
)

// knownSettings lists every key SettingsService.Set accepts.
var knownSettings = map[string]settingKind{
	domain.KeyMaxConcurrentSites:   kindInt,
	domain.KeySweepIntervalMinutes: kindInt,
	domain.KeyProbeAddress:         kindString,
	domain.KeyProbeIntervalSeconds: kindInt,
	domain.KeyStatusFile:           kindString,
	domain.KeyUploadRate:           kindInt,
}

// SettingsService resolves the dispatcher configuration from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
// A nil configStore yields the defaults.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the dispatcher configuration, falling back to defaults for
// anything unset or invalid.
func (s *SettingsService) Get() domain.DispatcherConfig {
	cfg := domain.DefaultDispatcherConfig()
	if s.configStore == nil {
		return cfg
	}

	if n, ok := s.lookupInt(domain.KeyMaxConcurrentSites); ok && n >= 0 {
		cfg.MaxConcurrentSites = n // 0 = unbounded
	}
	if minutes, ok := s.lookupInt(domain.KeySweepIntervalMinutes); ok && minutes >= 0 {
		cfg.SweepInterval = time.Duration(minutes) * time.Minute
	}
	cfg.ProbeAddress = s.getString(domain.KeyProbeAddress, cfg.ProbeAddress)
	if seconds, ok := s.lookupInt(domain.KeyProbeIntervalSeconds); ok && seconds > 0 {
		cfg.ProbeInterval = time.Duration(seconds) * time.Second
	}
	cfg.StatusFile = s.configStore.GetString(domain.KeyStatusFile) // No default - empty means probe
	cfg.UploadRate = s.getInt(domain.KeyUploadRate, cfg.UploadRate)

	return cfg
}

// Set validates and stores a single setting given in string form.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return fmt.Errorf("%w: no config store", domain.ErrInvalidInput)
	}

	kind, ok := knownSettings[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	default:
		return s.configStore.Set(key, strings.TrimSpace(value))
	}
}

// lookupInt returns the integer stored at key, if any.
func (s *SettingsService) lookupInt(key string) (int, bool) {
	if _, ok := s.configStore.Get(key); !ok {
		return 0, false
	}
	return s.configStore.GetInt(key), true
}

// getInt returns the positive integer stored at key or def.
func (s *SettingsService) getInt(key string, def int) int {
	if n, ok := s.lookupInt(key); ok && n > 0 {
		return n
	}
	return def
}

// getString returns the non-empty string stored at key or def.
func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}
