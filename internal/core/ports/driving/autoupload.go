package driving

import (
	"context"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
)

// AutoUploader enqueues uploads for local drafts, automatically on
// connectivity and foreground transitions, or on demand per site.
type AutoUploader interface {
	// Activate subscribes to the owner's lifecycle events and to connectivity
	// changes. Only the first call has any effect.
	Activate(owner driven.LifecycleOwner)

	// QueueUploadFromSite submits every local draft of the site that is not
	// already queued or uploading. The handle completes once all submissions
	// have been made.
	QueueUploadFromSite(ctx context.Context, site domain.Site) *UploadHandle

	// SweepAll runs QueueUploadFromSite concurrently for every known site.
	SweepAll(ctx context.Context) *SweepHandle
}

// SiteResult counts what one site's enqueue did.
type SiteResult struct {
	// SiteID identifies the site.
	SiteID string

	// Candidates is the number of local drafts found.
	Candidates int

	// Submitted is the number of drafts handed to the gateway.
	Submitted int

	// Skipped is the number of drafts already queued or uploading.
	Skipped int

	// Failed is the number of drafts whose check or submission returned an error.
	Failed int
}
