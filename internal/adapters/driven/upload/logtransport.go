package upload

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// Ensure LogTransport implements the interface.
var _ driven.UploadTransport = (*LogTransport)(nil)

// LogTransport is an UploadTransport that performs no network transfer. It
// logs and records each request and hands back a remote ID: the document's
// existing one, or a fresh one for documents never uploaded.
type LogTransport struct {
	mu       sync.Mutex
	uploaded []domain.UploadRequest
}

// NewLogTransport creates a log-only transport.
func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

// Upload records the request.
func (t *LogTransport) Upload(ctx context.Context, req domain.UploadRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	t.uploaded = append(t.uploaded, req)
	t.mu.Unlock()

	remoteID := req.Document.RemoteID
	if req.Document.IsNew() {
		remoteID = uuid.New().String()
	}
	logger.Info("upload: %q -> site %s (retry=%t, publish=%t)",
		req.Document.Title, req.Document.SiteID, req.IsRetry, req.Publish)
	return remoteID, nil
}

// Uploaded returns every request seen so far.
func (t *LogTransport) Uploaded() []domain.UploadRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.UploadRequest(nil), t.uploaded...)
}
