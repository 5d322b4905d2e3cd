package storage

import (
	"clanwatch/internal/models"
	"clanwatch/internal/structures"
	"clanwatch/internal/testutil"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "clanwatch.db"), &testutil.MockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func binding(group, user int64, tag string) models.Binding {
	return models.Binding{GroupID: group, UserID: user, Tag: tag, DisplayName: tag + "-name"}
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("  ", &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clanwatch.db")
	ctx := context.Background()

	store, err := Open(path, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, store.UpsertBinding(ctx, binding(1, 10, "#2PP")))
	require.NoError(t, store.Close())

	store, err = Open(path, &testutil.MockLogger{})
	require.NoError(t, err)
	defer store.Close()

	b, ok, err := store.GetBinding(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#2PP", b.Tag)
}

func TestNewStoreProvider(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Path: filepath.Join(t.TempDir(), "s.db")}}
	store, err := NewStoreProvider(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestUpsertBinding_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	b := binding(-100, 42, "#2PP")
	b.CreatedAt = created
	require.NoError(t, store.UpsertBinding(ctx, b))

	got, ok, err := store.GetBinding(ctx, -100, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "#2PP", got.Tag)
	assert.Equal(t, "#2PP-name", got.DisplayName)
	assert.Equal(t, created, got.CreatedAt)
}

func TestUpsertBinding_OverwritesWithoutDuplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertBinding(ctx, binding(-100, 42, "#2PP")))
	require.NoError(t, store.UpsertBinding(ctx, binding(-100, 42, "#YL9JU8R")))

	got, ok, err := store.GetBinding(ctx, -100, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "#YL9JU8R", got.Tag)
	assert.Equal(t, "#YL9JU8R-name", got.DisplayName)

	all, err := store.GetBindingsForGroup(ctx, -100)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertBinding_RequiresTag(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.UpsertBinding(context.Background(), models.Binding{GroupID: 1, UserID: 1}))
}

func TestGetBinding_Absent(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.GetBinding(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteBinding(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertBinding(ctx, binding(1, 10, "#2PP")))

	removed, err := store.DeleteBinding(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteBinding(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, removed)

	_, ok, err := store.GetBinding(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetBindingsForTags(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertBinding(ctx, binding(1, 10, "#2PP")))
	require.NoError(t, store.UpsertBinding(ctx, binding(1, 11, "#YL9JU8R")))
	require.NoError(t, store.UpsertBinding(ctx, binding(1, 12, "#QGRJCUV")))
	require.NoError(t, store.UpsertBinding(ctx, binding(2, 10, "#2PP")))

	got, err := store.GetBindingsForTags(ctx, 1, map[string]struct{}{"#2PP": {}, "#QGRJCUV": {}, "#UNKNOWN": {}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), got[0].UserID)
	assert.Equal(t, int64(12), got[1].UserID)

	empty, err := store.GetBindingsForTags(ctx, 1, map[string]struct{}{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetGroupIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ids, err := store.GetGroupIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.UpsertBinding(ctx, binding(5, 1, "#2PP")))
	require.NoError(t, store.UpsertBinding(ctx, binding(-3, 1, "#2PP")))
	require.NoError(t, store.UpsertBinding(ctx, binding(5, 2, "#2PP")))

	ids, err = store.GetGroupIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{-3, 5}, ids)
}

func TestCooldowns_SetAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 18, 30, 15, 500, time.UTC)

	require.NoError(t, store.SetCooldowns(ctx, 1, []int64{10, 11}, at))

	got, err := store.GetCooldowns(ctx, 1, []int64{10, 11, 12})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, at.Equal(got[10]))
	assert.True(t, at.Equal(got[11]))

	later := at.Add(2 * time.Hour)
	require.NoError(t, store.SetCooldowns(ctx, 1, []int64{10}, later))
	got, err = store.GetCooldowns(ctx, 1, []int64{10})
	require.NoError(t, err)
	assert.True(t, later.Equal(got[10]))

	other, err := store.GetCooldowns(ctx, 2, []int64{10})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCooldowns_MalformedSkipped(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetCooldowns(ctx, 1, []int64{10}, at))

	_, err := store.db.ExecContext(ctx, `INSERT INTO cooldowns (group_id, user_id, last_notified_at) VALUES (1, 11, 'yesterday')`)
	require.NoError(t, err)

	got, err := store.GetCooldowns(ctx, 1, []int64{10, 11})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, int64(10))
}

func TestCooldowns_EmptyInput(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCooldowns(ctx, 1, nil, time.Now()))
	got, err := store.GetCooldowns(ctx, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			errs <- store.UpsertBinding(ctx, binding(1, id, "#2PP"))
		}(int64(i))
		go func(id int64) {
			defer wg.Done()
			errs <- store.SetCooldowns(ctx, 1, []int64{id}, time.Now())
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	all, err := store.GetBindingsForGroup(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestExtractUpMigration(t *testing.T) {
	assert.Equal(t, "\nCREATE;\n", extractUpMigration("-- +migrate Up\nCREATE;\n-- +migrate Down\nDROP;"))
	assert.Equal(t, "CREATE;", extractUpMigration("CREATE;"))
}
