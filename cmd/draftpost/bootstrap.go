package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/draftpost/internal/adapters/driven/config/file"
	"github.com/custodia-labs/draftpost/internal/adapters/driven/connectivity"
	"github.com/custodia-labs/draftpost/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/draftpost/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/draftpost/internal/adapters/driven/upload"
	"github.com/custodia-labs/draftpost/internal/adapters/driving/cli"
	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
	"github.com/custodia-labs/draftpost/internal/core/services"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// bootstrap wires the stores, the upload queue and the dispatcher from the
// global flags.
func bootstrap(opts cli.Options) (*cli.Dependencies, func() error, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".draftpost")
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settings := services.NewSettingsService(configStore)
	cfg := settings.Get()

	var (
		sites     driven.SiteStore
		drafts    driven.DraftStore
		schedules driven.SchedulerStore
		closers   []func() error
	)
	if opts.Memory {
		logger.Info("storage: in memory")
		sites = memory.NewSiteStore()
		drafts = memory.NewDraftStore()
		schedules = memory.NewSchedulerStore()
	} else {
		store, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening store: %w", err)
		}
		logger.Info("storage: %s", store.Path())
		sites = store.SiteStore()
		drafts = store.DraftStore()
		schedules = store.SchedulerStore()
		closers = append(closers, store.Close)
	}

	queue := upload.NewQueue(upload.NewLogTransport(), drafts, cfg.UploadRate)
	closers = append([]func() error{func() error { queue.Close(); return nil }}, closers...)

	var source cli.ConnectivityRunner
	if cfg.StatusFile != "" {
		logger.Info("connectivity: watching %s", cfg.StatusFile)
		source = connectivity.NewFileWatcher(cfg.StatusFile)
	} else {
		logger.Info("connectivity: probing %s every %s", cfg.ProbeAddress, cfg.ProbeInterval)
		source = connectivity.NewProber(cfg.ProbeAddress, cfg.ProbeInterval)
	}

	uploader := services.NewAutoUploader(sites, drafts, queue, source, cfg)
	scheduler := services.NewScheduler(domain.SchedulerConfigFor(cfg), schedules, uploader)

	d := &cli.Dependencies{
		Sites:        sites,
		Drafts:       drafts,
		Config:       configStore,
		Settings:     settings,
		Uploader:     uploader,
		Queue:        queue,
		Connectivity: source,
		Scheduler:    scheduler,
		Schedules:    schedules,
		LockPath:     filepath.Join(dataDir, "daemon.lock"),
	}

	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}
	return d, closeAll, nil
}
