package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/draftpost/internal/adapters/driven/connectivity"
	"github.com/custodia-labs/draftpost/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/draftpost/internal/adapters/driven/upload"
	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/services"
)

// monitorRunner is a connectivity source whose state the test sets.
type monitorRunner struct {
	*connectivity.Monitor
}

func (m monitorRunner) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDaemonCmd_Flags(t *testing.T) {
	assert.Equal(t, "daemon", daemonCmd.Use)
	assert.NotNil(t, daemonCmd.Flags().Lookup("drain-timeout"))
}

func TestAcquireLock_HeldTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "daemon.lock")

	unlock, err := acquireLock(path)
	require.NoError(t, err)

	_, err = acquireLock(path)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	unlock()
	unlockAgain, err := acquireLock(path)
	require.NoError(t, err)
	unlockAgain()
}

func TestAcquireLock_NoPath(t *testing.T) {
	unlock, err := acquireLock("")
	require.NoError(t, err)
	unlock()
}

//nolint:funlen // Drives the daemon through start, both triggers and shutdown
func TestRunDispatcher_UploadsOnTriggers(t *testing.T) {
	sites := memory.NewSiteStore()
	drafts := memory.NewDraftStore()
	ctx := context.Background()
	require.NoError(t, sites.Save(ctx, domain.Site{ID: "blog", Name: "Blog"}))
	require.NoError(t, drafts.SaveDocument(ctx, &domain.Document{ID: "d1", SiteID: "blog", LocalChanges: true}))

	transport := upload.NewLogTransport()
	queue := upload.NewQueue(transport, drafts, 0)
	monitor := connectivity.NewMonitor(domain.ConnectivityUnavailable)
	uploader := services.NewAutoUploader(sites, drafts, queue, monitor, domain.DefaultDispatcherConfig())

	old := deps
	deps = &Dependencies{
		Sites:        sites,
		Drafts:       drafts,
		Settings:     &mockSettings{cfg: domain.DefaultDispatcherConfig()},
		Uploader:     uploader,
		Queue:        queue,
		Connectivity: monitorRunner{monitor},
		LockPath:     filepath.Join(t.TempDir(), "daemon.lock"),
	}
	t.Cleanup(func() { deps = old })
	drainTimeout = 5 * time.Second

	out := &syncBuffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- runDispatcher(runCtx, cmd) }()

	synced := func(id string) func() bool {
		return func() bool {
			doc, err := drafts.GetDocument(ctx, id)
			return err == nil && !doc.LocalChanges
		}
	}

	// Entering the foreground sweeps.
	require.Eventually(t, synced("d1"), 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "Dispatcher running.")

	// Coming back online sweeps.
	require.NoError(t, drafts.SaveDocument(ctx, &domain.Document{ID: "d2", SiteID: "blog", LocalChanges: true}))
	require.True(t, monitor.Set(domain.ConnectivityAvailable))
	require.Eventually(t, synced("d2"), 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
	uploader.Wait()

	assert.Contains(t, out.String(), "Shutting down...")
	assert.Len(t, transport.Uploaded(), 2)
	assert.Zero(t, queue.Len())
}

// gatedTransport blocks every upload until release is closed.
type gatedTransport struct {
	release chan struct{}

	mu   sync.Mutex
	seen []string
}

func (g *gatedTransport) Upload(ctx context.Context, req domain.UploadRequest) (string, error) {
	g.mu.Lock()
	g.seen = append(g.seen, req.Document.ID)
	g.mu.Unlock()

	select {
	case <-g.release:
		return "remote-" + req.Document.ID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *gatedTransport) uploaded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.seen...)
}

func TestRunDispatcher_ShutdownFinishesQueuedUploads(t *testing.T) {
	td := setupDeps(t)
	ctx := context.Background()
	td.addSite(t, "blog", "Blog")

	transport := &gatedTransport{release: make(chan struct{})}
	queue := upload.NewQueue(transport, td.Drafts, 0)
	td.Queue = queue
	for _, id := range []string{"d1", "d2", "d3"} {
		doc := &domain.Document{ID: id, SiteID: "blog", LocalChanges: true}
		require.NoError(t, td.Drafts.SaveDocument(ctx, doc))
		require.NoError(t, queue.SubmitUpload(ctx, domain.UploadRequest{Document: *doc, IsRetry: true}))
	}
	drainTimeout = 5 * time.Second

	out := &syncBuffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	runCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- runDispatcher(runCtx, cmd) }()

	require.Eventually(t, func() bool { return len(transport.uploaded()) == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "Shutting down...") },
		2*time.Second, 5*time.Millisecond)
	close(transport.release)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(4 * time.Second):
		t.Fatal("shutdown did not finish queued uploads")
	}

	assert.Equal(t, []string{"d1", "d2", "d3"}, transport.uploaded())
	assert.NotContains(t, out.String(), "abandoned")
	local, err := td.Drafts.LocalDrafts(ctx, domain.Site{ID: "blog"})
	require.NoError(t, err)
	assert.Empty(t, local)
}

func TestRunDispatcher_LockHeld(t *testing.T) {
	td := setupDeps(t)
	td.LockPath = filepath.Join(t.TempDir(), "daemon.lock")

	unlock, err := acquireLock(td.LockPath)
	require.NoError(t, err)
	defer unlock()

	cmd := &cobra.Command{}
	cmd.SetOut(&syncBuffer{})
	err = runDispatcher(context.Background(), cmd)

	assert.ErrorIs(t, err, domain.ErrLockHeld)
	assert.Zero(t, td.uploader.activated)
	assert.Zero(t, td.queue.started)
}

func TestRunDispatcher_DrainFailureWarns(t *testing.T) {
	td := setupDeps(t)
	td.queue.drainErr = context.DeadlineExceeded
	drainTimeout = time.Millisecond

	out := &syncBuffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runDispatcher(ctx, cmd))

	assert.Contains(t, out.String(), "uploads abandoned")
	assert.Equal(t, 1, td.uploader.activated)
	assert.Equal(t, 1, td.queue.drained)
}
