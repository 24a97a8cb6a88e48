package driving

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// UploadHandle tracks one site's enqueue. It completes when every eligible
// draft has been submitted, not when the uploads finish.
type UploadHandle struct {
	siteID string
	done   chan struct{}
	once   sync.Once

	result SiteResult
	err    error
}

// NewUploadHandle returns a pending handle and the func that completes it.
// Only the first call to complete has any effect.
func NewUploadHandle(siteID string) (*UploadHandle, func(SiteResult, error)) {
	h := &UploadHandle{
		siteID: siteID,
		done:   make(chan struct{}),
	}
	return h, h.complete
}

func (h *UploadHandle) complete(result SiteResult, err error) {
	h.once.Do(func() {
		result.SiteID = h.siteID
		h.result = result
		h.err = err
		close(h.done)
	})
}

// SiteID returns the site this handle belongs to.
func (h *UploadHandle) SiteID() string {
	return h.siteID
}

// Done is closed when the enqueue has finished.
func (h *UploadHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the enqueue finishes or ctx is done. Giving up on a
// handle does not stop the enqueue.
func (h *UploadHandle) Wait(ctx context.Context) (SiteResult, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return SiteResult{SiteID: h.siteID}, ctx.Err()
	}
}

// Err returns the enqueue error, or nil while the handle is pending.
func (h *UploadHandle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Result returns the counts so far; they are final once Done is closed.
func (h *UploadHandle) Result() SiteResult {
	select {
	case <-h.done:
		return h.result
	default:
		return SiteResult{SiteID: h.siteID}
	}
}

// SweepResult aggregates the site results of one sweep.
type SweepResult struct {
	Sites     []SiteResult
	Submitted int
	Skipped   int
	Failed    int
}

// SweepHandle tracks a sweep across all sites. It completes after every
// site handle has completed.
type SweepHandle struct {
	done chan struct{}
	once sync.Once

	sites  []*UploadHandle
	result SweepResult
	err    error
}

// NewSweepHandle returns a pending sweep handle and the func that completes
// it. complete must only be called once every site handle is done; listErr
// is set when the sites could not be listed at all.
func NewSweepHandle() (*SweepHandle, func(sites []*UploadHandle, listErr error)) {
	h := &SweepHandle{done: make(chan struct{})}
	return h, h.complete
}

func (h *SweepHandle) complete(sites []*UploadHandle, listErr error) {
	h.once.Do(func() {
		h.sites = sites

		var errs []error
		if listErr != nil {
			errs = append(errs, listErr)
		}
		for _, site := range sites {
			r := site.Result()
			h.result.Sites = append(h.result.Sites, r)
			h.result.Submitted += r.Submitted
			h.result.Skipped += r.Skipped
			h.result.Failed += r.Failed
			if err := site.Err(); err != nil {
				errs = append(errs, fmt.Errorf("site %s: %w", site.SiteID(), err))
			}
		}
		h.err = errors.Join(errs...)
		close(h.done)
	})
}

// Done is closed when every site has finished.
func (h *SweepHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the sweep finishes or ctx is done. The error joins the
// failures of individual sites; a failing site never hides the results of
// the others.
func (h *SweepHandle) Wait(ctx context.Context) (SweepResult, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return SweepResult{}, ctx.Err()
	}
}

// Sites returns the per-site handles once the sweep is done, nil before.
func (h *SweepHandle) Sites() []*UploadHandle {
	select {
	case <-h.done:
		return h.sites
	default:
		return nil
	}
}
