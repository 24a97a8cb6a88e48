package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockSiteStore implements driven.SiteStore for testing.
type mockSiteStore struct {
	mu      sync.RWMutex
	sites   []domain.Site
	listErr error
}

func newMockSiteStore(sites ...domain.Site) *mockSiteStore {
	return &mockSiteStore{sites: sites}
}

func (m *mockSiteStore) Save(_ context.Context, site domain.Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sites = append(m.sites, site)
	return nil
}

func (m *mockSiteStore) Get(_ context.Context, id string) (*domain.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.sites {
		if m.sites[i].ID == id {
			site := m.sites[i]
			return &site, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSiteStore) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockSiteStore) List(_ context.Context) ([]domain.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Site(nil), m.sites...), nil
}

// mockDraftStore implements driven.DraftStore for testing.
type mockDraftStore struct {
	mu      sync.Mutex
	drafts  map[string][]domain.Document
	errs    map[string]error
	calls   map[string]int
	blockCh chan struct{} // when set, LocalDrafts waits for it to close
}

func newMockDraftStore() *mockDraftStore {
	return &mockDraftStore{
		drafts: make(map[string][]domain.Document),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// addDrafts adds n local drafts to the site, with IDs "<site>-post-<i>".
func (m *mockDraftStore) addDrafts(siteID string, n int) []domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	added := make([]domain.Document, 0, n)
	for i := 0; i < n; i++ {
		doc := domain.Document{
			ID:           fmt.Sprintf("%s-post-%d", siteID, i+1),
			SiteID:       siteID,
			Title:        fmt.Sprintf("Post %d", i+1),
			Status:       domain.StatusDraft,
			LocalChanges: true,
		}
		m.drafts[siteID] = append(m.drafts[siteID], doc)
		added = append(added, doc)
	}
	return added
}

func (m *mockDraftStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[doc.SiteID] = append(m.drafts[doc.SiteID], *doc)
	return nil
}

func (m *mockDraftStore) GetDocument(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDraftStore) DeleteDocument(_ context.Context, _ string) error {
	return nil
}

func (m *mockDraftStore) ListDocuments(_ context.Context, siteID string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Document(nil), m.drafts[siteID]...), nil
}

func (m *mockDraftStore) LocalDrafts(ctx context.Context, site domain.Site) ([]domain.Document, error) {
	m.mu.Lock()
	m.calls[site.ID]++
	block := m.blockCh
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[site.ID]; err != nil {
		return nil, err
	}
	return append([]domain.Document(nil), m.drafts[site.ID]...), nil
}

func (m *mockDraftStore) MarkSynced(_ context.Context, _, _ string, _ int64) error {
	return nil
}

func (m *mockDraftStore) callCount(siteID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[siteID]
}

// mockGateway implements driven.UploadGateway for testing. It records every
// call; queued documents answer true to IsQueuedOrUploading.
type mockGateway struct {
	mu         sync.Mutex
	queued     map[string]bool
	checkErrs  map[string]error
	submitErrs map[string]error
	checks     []string
	submits    []domain.UploadRequest

	// queueOnSubmit makes submitted documents report as queued afterwards.
	queueOnSubmit bool
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		queued:     make(map[string]bool),
		checkErrs:  make(map[string]error),
		submitErrs: make(map[string]error),
	}
}

func (m *mockGateway) IsQueuedOrUploading(_ context.Context, doc domain.Document) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, doc.ID)
	if err := m.checkErrs[doc.ID]; err != nil {
		return false, err
	}
	return m.queued[doc.ID], nil
}

func (m *mockGateway) SubmitUpload(_ context.Context, req domain.UploadRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submits = append(m.submits, req)
	if err := m.submitErrs[req.Document.ID]; err != nil {
		return err
	}
	if m.queueOnSubmit {
		m.queued[req.Document.ID] = true
	}
	return nil
}

func (m *mockGateway) checkedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.checks...)
}

func (m *mockGateway) submitted() []domain.UploadRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.UploadRequest(nil), m.submits...)
}

func (m *mockGateway) submittedIDs() []string {
	reqs := m.submitted()
	ids := make([]string, 0, len(reqs))
	for i := range reqs {
		ids = append(ids, reqs[i].Document.ID)
	}
	return ids
}

// subscribers is a small callback registry shared by the signal mocks.
type subscribers[T any] struct {
	mu     sync.Mutex
	next   int
	fns    map[int]func(T)
	subbed int
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.subbed++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers[T]) emit(v T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

func (s *subscribers[T]) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

func (s *subscribers[T]) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subbed
}

// mockConnectivity implements driven.ConnectivitySource for testing.
type mockConnectivity struct {
	mu      sync.Mutex
	current domain.ConnectivityState
	subs    subscribers[domain.ConnectivityState]
}

func newMockConnectivity(initial domain.ConnectivityState) *mockConnectivity {
	return &mockConnectivity{current: initial}
}

func (m *mockConnectivity) Current() domain.ConnectivityState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *mockConnectivity) Subscribe(fn func(domain.ConnectivityState)) func() {
	return m.subs.add(fn)
}

// set updates the state and delivers it to subscribers synchronously.
func (m *mockConnectivity) set(state domain.ConnectivityState) {
	m.mu.Lock()
	m.current = state
	m.mu.Unlock()
	m.subs.emit(state)
}

// mockOwner implements driven.LifecycleOwner for testing.
type mockOwner struct {
	ctx    context.Context
	cancel context.CancelFunc
	subs   subscribers[domain.LifecycleEvent]
}

func newMockOwner() *mockOwner {
	ctx, cancel := context.WithCancel(context.Background())
	return &mockOwner{ctx: ctx, cancel: cancel}
}

func (m *mockOwner) Context() context.Context {
	return m.ctx
}

func (m *mockOwner) Subscribe(fn func(domain.LifecycleEvent)) func() {
	return m.subs.add(fn)
}

func (m *mockOwner) emit(event domain.LifecycleEvent) {
	m.subs.emit(event)
}

// Ensure mocks implement interfaces
var _ driven.SiteStore = (*mockSiteStore)(nil)
var _ driven.DraftStore = (*mockDraftStore)(nil)
var _ driven.UploadGateway = (*mockGateway)(nil)
var _ driven.ConnectivitySource = (*mockConnectivity)(nil)
var _ driven.LifecycleOwner = (*mockOwner)(nil)
