package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

func TestNewSiteStore(t *testing.T) {
	store := NewSiteStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.sites)
}

func TestSiteStore_Save_Success(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()

	err := store.Save(ctx, domain.Site{ID: "site-1", Name: "Travel Blog", URL: "https://travel.example"})
	require.NoError(t, err)

	saved, err := store.Get(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, "Travel Blog", saved.Name)
	assert.Equal(t, "https://travel.example", saved.URL)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestSiteStore_Save_AssignsID(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Site{Name: "No ID"}))

	sites, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.NotEmpty(t, sites[0].ID)
}

func TestSiteStore_Get_NotFound(t *testing.T) {
	store := NewSiteStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSiteStore_Delete(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Site{ID: "site-1"}))

	require.NoError(t, store.Delete(ctx, "site-1"))
	require.NoError(t, store.Delete(ctx, "site-1"), "deleting twice is fine")

	_, err := store.Get(ctx, "site-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSiteStore_List_OldestFirst(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, domain.Site{ID: "newest", CreatedAt: now}))
	require.NoError(t, store.Save(ctx, domain.Site{ID: "oldest", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.Site{ID: "middle", CreatedAt: now.Add(-time.Hour)}))

	sites, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 3)
	assert.Equal(t, "oldest", sites[0].ID)
	assert.Equal(t, "middle", sites[1].ID)
	assert.Equal(t, "newest", sites[2].ID)
}

func TestSiteStore_ConcurrentAccess(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, domain.Site{Name: "concurrent"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	sites, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sites, 20)
}
