package driven

import (
	"context"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

// DraftStore persists documents and answers which of them are local drafts.
// Documents are written by the editing subsystem; the dispatcher only reads.
type DraftStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns every document of a site.
	ListDocuments(ctx context.Context, siteID string) ([]domain.Document, error)

	// LocalDrafts returns the documents of a site whose latest edits have not
	// been synced, ordered by modification time (oldest first).
	LocalDrafts(ctx context.Context, site domain.Site) ([]domain.Document, error)

	// MarkSynced records the remote ID and clears the local-changes flag if
	// the stored revision is still revision. A document saved again since
	// keeps its local changes. Revision 0 clears the flag unconditionally.
	MarkSynced(ctx context.Context, id, remoteID string, revision int64) error
}
