package driven

import (
	"context"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

// UploadGateway accepts documents for upload and owns the set of documents
// currently queued or uploading. That set is the only de-duplication state
// in the system: callers check it immediately before submitting.
type UploadGateway interface {
	// IsQueuedOrUploading reports whether the document is already queued or
	// being uploaded.
	IsQueuedOrUploading(ctx context.Context, doc domain.Document) (bool, error)

	// SubmitUpload enqueues an upload. Implementations should treat a
	// submission for a document that is already in flight as a no-op.
	SubmitUpload(ctx context.Context, req domain.UploadRequest) error
}

// UploadTransport performs the network transfer of a single document.
// It is owned by infrastructure outside the dispatcher.
type UploadTransport interface {
	// Upload sends the document and returns the remote ID assigned to it.
	Upload(ctx context.Context, req domain.UploadRequest) (remoteID string, err error)
}
