package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/draftpost/internal/adapters/driven/connectivity"
	"github.com/custodia-labs/draftpost/internal/adapters/driving/cli"
	"github.com/custodia-labs/draftpost/internal/core/domain"
)

func TestBootstrap_Memory(t *testing.T) {
	dir := t.TempDir()

	d, closeDeps, err := bootstrap(cli.Options{Memory: true, DataDir: dir})
	require.NoError(t, err)
	defer func() { require.NoError(t, closeDeps()) }()

	assert.Equal(t, filepath.Join(dir, "daemon.lock"), d.LockPath)
	assert.Equal(t, filepath.Join(dir, "config.toml"), d.Config.Path())
	assert.NoFileExists(t, filepath.Join(dir, "data", "drafts.db"))
	assert.IsType(t, &connectivity.Prober{}, d.Connectivity)
	assert.NotNil(t, d.Scheduler)

	ctx := context.Background()
	require.NoError(t, d.Sites.Save(ctx, domain.Site{ID: "blog", Name: "Blog"}))
	sites, err := d.Sites.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestBootstrap_SQLite(t *testing.T) {
	dir := t.TempDir()

	d, closeDeps, err := bootstrap(cli.Options{DataDir: dir})
	require.NoError(t, err)

	require.NoError(t, d.Sites.Save(context.Background(), domain.Site{ID: "blog", Name: "Blog"}))
	require.NoError(t, closeDeps())
	assert.FileExists(t, filepath.Join(dir, "data", "drafts.db"))

	d, closeDeps, err = bootstrap(cli.Options{DataDir: dir})
	require.NoError(t, err)
	defer func() { require.NoError(t, closeDeps()) }()

	site, err := d.Sites.Get(context.Background(), "blog")
	require.NoError(t, err)
	assert.Equal(t, "Blog", site.Name)
}

func TestBootstrap_StatusFile(t *testing.T) {
	dir := t.TempDir()

	d, closeDeps, err := bootstrap(cli.Options{Memory: true, DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, d.Settings.Set(domain.KeyStatusFile, filepath.Join(dir, "net-status")))
	require.NoError(t, closeDeps())

	d, closeDeps, err = bootstrap(cli.Options{Memory: true, DataDir: dir})
	require.NoError(t, err)
	defer func() { require.NoError(t, closeDeps()) }()

	assert.IsType(t, &connectivity.FileWatcher{}, d.Connectivity)
	assert.Equal(t, domain.ConnectivityUnknown, d.Connectivity.Current())
}
