package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
	"github.com/custodia-labs/draftpost/internal/core/ports/driving"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// Ensure AutoUploader implements the interface.
var _ driving.AutoUploader = (*AutoUploader)(nil)

// AutoUploader enqueues uploads for local drafts across all sites.
//
// It keeps no record of what it submitted. Whether a draft is already in
// flight is asked of the gateway immediately before each submission, so two
// overlapping sweeps can both see a draft as idle and both submit it; the
// gateway's SubmitUpload drops the second one.
type AutoUploader struct {
	sites        driven.SiteStore
	drafts       driven.DraftStore
	gateway      driven.UploadGateway
	connectivity driven.ConnectivitySource

	maxConcurrentSites int

	mu        sync.Mutex
	started   bool
	ownerCtx  context.Context
	lastState domain.ConnectivityState

	// wg tracks every background enqueue so Wait can drain them.
	wg sync.WaitGroup
}

// NewAutoUploader creates an auto-uploader.
// connectivity may be nil, in which case only lifecycle events trigger sweeps.
func NewAutoUploader(
	sites driven.SiteStore,
	drafts driven.DraftStore,
	gateway driven.UploadGateway,
	connectivity driven.ConnectivitySource,
	cfg domain.DispatcherConfig,
) *AutoUploader {
	return &AutoUploader{
		sites:              sites,
		drafts:             drafts,
		gateway:            gateway,
		connectivity:       connectivity,
		maxConcurrentSites: cfg.MaxConcurrentSites,
	}
}

// Activate subscribes to the owner's lifecycle events and to connectivity
// changes. Calls after the first are no-ops. Both subscriptions are removed
// when the owner's context is done.
func (u *AutoUploader) Activate(owner driven.LifecycleOwner) {
	u.mu.Lock()
	if u.started {
		u.mu.Unlock()
		logger.Debug("autoupload: already active")
		return
	}
	u.started = true
	u.ownerCtx = owner.Context()
	if u.connectivity != nil {
		// The state at activation is the baseline, not a transition.
		u.lastState = u.connectivity.Current()
	}
	ctx := u.ownerCtx
	u.mu.Unlock()

	unsubscribers := []func(){owner.Subscribe(u.onLifecycle)}
	if u.connectivity != nil {
		unsubscribers = append(unsubscribers, u.connectivity.Subscribe(u.onConnectivity))
		// A change between reading the baseline and subscribing is never
		// emitted to us; replaying the current state catches it. A value the
		// callback already delivered compares equal and is ignored.
		u.onConnectivity(u.connectivity.Current())
	}
	logger.Info("autoupload: active")

	go func() {
		<-ctx.Done()
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
		logger.Debug("autoupload: owner gone, unsubscribed")
	}()
}

// onConnectivity sweeps on every transition into ConnectivityAvailable.
func (u *AutoUploader) onConnectivity(state domain.ConnectivityState) {
	u.mu.Lock()
	prev := u.lastState
	u.lastState = state
	u.mu.Unlock()

	if !state.IsAvailable() || prev.IsAvailable() {
		return
	}
	logger.Info("autoupload: connectivity %s -> %s", prev, state)
	u.trigger("connectivity")
}

// onLifecycle sweeps whenever the owner enters the foreground.
func (u *AutoUploader) onLifecycle(event domain.LifecycleEvent) {
	if !event.EntersForeground() {
		return
	}
	logger.Info("autoupload: lifecycle %s", event)
	u.trigger("foreground")
}

// trigger starts a sweep bound to the owner's lifetime. It returns without
// waiting for the sweep.
func (u *AutoUploader) trigger(reason string) {
	u.mu.Lock()
	ctx := u.ownerCtx
	u.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}

	sweep := u.SweepAll(ctx)

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		result, err := sweep.Wait(ctx)
		if err != nil {
			logger.Warn("autoupload: %s sweep: %v", reason, err)
			return
		}
		logger.Info("autoupload: %s sweep done: %d submitted, %d skipped, %d failed",
			reason, result.Submitted, result.Skipped, result.Failed)
	}()
}

// SweepAll runs the per-site enqueue concurrently for every known site. A
// failing site is recorded on its own handle and does not stop the others.
func (u *AutoUploader) SweepAll(ctx context.Context) *driving.SweepHandle {
	handle, complete := driving.NewSweepHandle()

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()

		sites, err := u.sites.List(ctx)
		if err != nil {
			complete(nil, fmt.Errorf("list sites: %w", err))
			return
		}

		// Plain Group, not WithContext: one site failing must not cancel the rest.
		var g errgroup.Group
		if u.maxConcurrentSites > 0 {
			g.SetLimit(u.maxConcurrentSites)
		}

		handles := make([]*driving.UploadHandle, len(sites))
		for i, site := range sites {
			site := site
			h, completeSite := driving.NewUploadHandle(site.ID)
			handles[i] = h
			g.Go(func() error {
				completeSite(u.enqueueSite(ctx, site))
				return nil
			})
		}
		_ = g.Wait()

		complete(handles, nil)
	}()

	return handle
}

// QueueUploadFromSite submits the site's local drafts in the background and
// returns a handle that completes once every submission has been made.
func (u *AutoUploader) QueueUploadFromSite(ctx context.Context, site domain.Site) *driving.UploadHandle {
	handle, complete := driving.NewUploadHandle(site.ID)

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		complete(u.enqueueSite(ctx, site))
	}()

	return handle
}

// Wait blocks until every background enqueue started so far has finished.
// Nothing may start a new enqueue while Wait is blocked: cancel the owner's
// context first so triggers stop, and do not call SweepAll or
// QueueUploadFromSite concurrently.
func (u *AutoUploader) Wait() {
	u.wg.Wait()
}

// enqueueSite is the shared primitive behind sweeps and manual enqueues.
//
//nolint:gocognit // Sequential filter-and-submit loop with per-document outcomes
func (u *AutoUploader) enqueueSite(ctx context.Context, site domain.Site) (driving.SiteResult, error) {
	result := driving.SiteResult{SiteID: site.ID}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	docs, err := u.drafts.LocalDrafts(ctx, site)
	if err != nil {
		logger.Warn("autoupload: site %s: %v", site.ID, err)
		return result, fmt.Errorf("load local drafts: %w", err)
	}

	var errs []error
	for i := range docs {
		doc := docs[i]
		if !doc.IsLocalDraft() {
			continue
		}
		result.Candidates++

		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		busy, err := u.gateway.IsQueuedOrUploading(ctx, doc)
		if err != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("check %s: %w", doc.ID, err))
			continue
		}
		if busy {
			result.Skipped++
			logger.Debug("autoupload: %s already queued or uploading", doc.ID)
			continue
		}

		req := domain.UploadRequest{
			Document: doc,
			IsRetry:  true,
			Publish:  false,
		}
		if err := u.gateway.SubmitUpload(ctx, req); err != nil {
			if errors.Is(err, domain.ErrAlreadyQueued) {
				result.Skipped++
				continue
			}
			result.Failed++
			errs = append(errs, fmt.Errorf("submit %s: %w", doc.ID, err))
			continue
		}
		result.Submitted++
		logger.Debug("autoupload: submitted %s (site %s)", doc.ID, site.ID)
	}

	if result.Candidates == 0 {
		logger.Debug("autoupload: site %s has no local drafts", site.ID)
	}
	return result, errors.Join(errs...)
}
