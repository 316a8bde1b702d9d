package configcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/testutil"
)

func makeTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "config.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_LoadMiss(t *testing.T) {
	store := makeTestStore(t)

	body, ok, err := store.Load(3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store := makeTestStore(t)

	require.NoError(t, store.Save(3, "customers", []byte(testutil.ConfigJSON)))

	body, ok, err := store.Load(3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(testutil.ConfigJSON), body)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	store := makeTestStore(t)

	require.NoError(t, store.Save(3, "customers", []byte(`{"v":1}`)))
	require.NoError(t, store.Save(3, "customers", []byte(`{"v":2}`)))

	body, ok, err := store.Load(3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(body))
}

func TestSQLiteStore_Evict(t *testing.T) {
	store := makeTestStore(t)

	require.NoError(t, store.Save(3, "customers", []byte(`{}`)))
	require.NoError(t, store.Evict(3))

	_, ok, err := store.Load(3)
	require.NoError(t, err)
	assert.False(t, ok)

	// Evicting an absent row is not an error.
	require.NoError(t, store.Evict(999))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(59, "cases", []byte(testutil.ConfigJSON)))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	body, ok, err := reopened.Load(59)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(testutil.ConfigJSON), body)
}

func TestCache_WithSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	fetches := 0
	fetch := func(appid.Descriptor) ([]byte, error) {
		fetches++
		return []byte(testutil.ConfigJSON), nil
	}

	c := NewWithStore(store)
	_, err = c.Get("customers", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)

	// A fresh session backed by the same file loads from the store.
	fresh := NewWithStore(store)
	_, err = fresh.Get("customers", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
}
