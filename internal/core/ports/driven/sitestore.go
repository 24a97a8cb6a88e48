package driven

import (
	"context"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

// SiteStore persists the sites drafts are uploaded to.
type SiteStore interface {
	// Save stores or updates a site.
	Save(ctx context.Context, site domain.Site) error

	// Get retrieves a site by ID.
	Get(ctx context.Context, id string) (*domain.Site, error)

	// Delete removes a site.
	Delete(ctx context.Context, id string) error

	// List returns all known sites.
	List(ctx context.Context) ([]domain.Site, error)
}
