package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
)

// Ensure DraftStore implements the interface.
var _ driven.DraftStore = (*DraftStore)(nil)

// DraftStore is an in-memory implementation of driven.DraftStore.
type DraftStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDraftStore creates a new in-memory draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document. A document without an ID is
// given one; the ID and the new revision are written back to doc.
func (s *DraftStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.SiteID == "" {
		return domain.ErrInvalidInput
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.ModifiedAt.IsZero() {
		doc.ModifiedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Revision = s.documents[doc.ID].Revision + 1
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DraftStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// DeleteDocument removes a document.
func (s *DraftStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// ListDocuments returns the documents of a site, oldest edit first.
func (s *DraftStore) ListDocuments(_ context.Context, siteID string) ([]domain.Document, error) {
	return s.filter(func(d *domain.Document) bool { return d.SiteID == siteID }), nil
}

// LocalDrafts returns the site's documents with unsynced edits, oldest edit first.
func (s *DraftStore) LocalDrafts(_ context.Context, site domain.Site) ([]domain.Document, error) {
	return s.filter(func(d *domain.Document) bool {
		return d.SiteID == site.ID && d.IsLocalDraft()
	}), nil
}

// MarkSynced records the remote ID and clears the local-changes flag unless
// the document was saved again after revision.
func (s *DraftStore) MarkSynced(_ context.Context, id, remoteID string, revision int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if revision == 0 || doc.Revision == revision {
		doc.LocalChanges = false
	}
	if remoteID != "" {
		doc.RemoteID = remoteID
	}
	s.documents[id] = doc
	return nil
}

func (s *DraftStore) filter(keep func(*domain.Document) bool) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if keep(&doc) {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ModifiedAt.Equal(result[j].ModifiedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].ModifiedAt.Before(result[j].ModifiedAt)
	})
	return result
}
