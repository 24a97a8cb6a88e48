package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/draftpost/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
	"github.com/custodia-labs/draftpost/internal/core/ports/driving"
)

// mockSettings implements SettingsManager for testing.
type mockSettings struct {
	cfg    domain.DispatcherConfig
	setErr error
	set    map[string]string
}

func (m *mockSettings) Get() domain.DispatcherConfig { return m.cfg }

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values map[string]any
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}
func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}
func (m *mockConfigStore) GetInt(key string) int {
	n, _ := m.values[key].(int)
	return n
}
func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}
func (m *mockConfigStore) Keys() []string { return nil }
func (m *mockConfigStore) Path() string   { return "/tmp/draftpost/config.toml" }

// mockQueue implements UploadQueue for testing.
type mockQueue struct {
	mu       sync.Mutex
	started  int
	drained  int
	pending  int
	drainErr error
}

func (m *mockQueue) Start(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *mockQueue) Drain(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drained++
	m.pending = 0
	return m.drainErr
}

func (m *mockQueue) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// mockUploader implements driving.AutoUploader for testing.
type mockUploader struct {
	mu        sync.Mutex
	activated int
	sites     []string
	sweeps    int
	result    driving.SiteResult
	err       error
}

func (m *mockUploader) Activate(driven.LifecycleOwner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activated++
}

func (m *mockUploader) QueueUploadFromSite(_ context.Context, site domain.Site) *driving.UploadHandle {
	m.mu.Lock()
	m.sites = append(m.sites, site.ID)
	result, err := m.result, m.err
	m.mu.Unlock()

	h, complete := driving.NewUploadHandle(site.ID)
	complete(result, err)
	return h
}

func (m *mockUploader) SweepAll(ctx context.Context) *driving.SweepHandle {
	m.mu.Lock()
	m.sweeps++
	m.mu.Unlock()

	h, complete := driving.NewSweepHandle()
	site := m.QueueUploadFromSite(ctx, domain.Site{ID: "all"})
	complete([]*driving.UploadHandle{site}, nil)
	return h
}

var _ SettingsManager = (*mockSettings)(nil)
var _ driven.ConfigStore = (*mockConfigStore)(nil)
var _ UploadQueue = (*mockQueue)(nil)
var _ driving.AutoUploader = (*mockUploader)(nil)

// testDeps swaps in dependencies backed by memory stores and mocks.
type testDeps struct {
	*Dependencies
	settings *mockSettings
	config   *mockConfigStore
	queue    *mockQueue
	uploader *mockUploader
}

func setupDeps(t *testing.T) *testDeps {
	t.Helper()

	td := &testDeps{
		settings: &mockSettings{cfg: domain.DefaultDispatcherConfig()},
		config:   &mockConfigStore{values: map[string]any{}},
		queue:    &mockQueue{},
		uploader: &mockUploader{},
	}
	td.Dependencies = &Dependencies{
		Sites:    memory.NewSiteStore(),
		Drafts:   memory.NewDraftStore(),
		Config:   td.config,
		Settings: td.settings,
		Uploader: td.uploader,
		Queue:    td.queue,
	}

	old := deps
	deps = td.Dependencies
	t.Cleanup(func() { deps = old })
	return td
}

func (td *testDeps) addSite(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, td.Sites.Save(context.Background(), domain.Site{
		ID:   id,
		Name: name,
		URL:  "https://" + id + ".example.com",
	}))
}

// resetFlags restores flag variables to their defaults; cobra only
// assigns flags that appear on the command line.
func resetFlags() {
	opts = Options{}
	siteID = ""
	draftContent = ""
	draftStatus = string(domain.StatusDraft)
	draftLocalOnly = false
	uploadTimeout = 5 * time.Minute
	drainTimeout = 30 * time.Second
	sweepsLimit = 10
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
