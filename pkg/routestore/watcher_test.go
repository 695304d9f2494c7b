package routestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonecho/jsonecho/pkg/config"
	"github.com/jsonecho/jsonecho/pkg/fsys"
)

func watcherFixture(t *testing.T, initial string) (*Handle, *Watcher, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o644))

	resolver, err := fsys.NewResolver(dir)
	require.NoError(t, err)
	loader := config.NewLoader(resolver)

	cfg, err := loader.Load(context.Background(), "db.json")
	require.NoError(t, err)

	store := New()
	require.NoError(t, store.Populate(cfg.Routes))
	handle := NewHandle(store)

	w := NewWatcher(handle, loader, "db.json")
	w.debounce = 20 * time.Millisecond
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Close() })

	return handle, w, path
}

func TestWatcherReloadsOnChange(t *testing.T) {
	handle, _, path := watcherFixture(t,
		`{"routes": {"/ping": {"response": {"body": "pong"}}}}`)

	require.Equal(t, 1, handle.Load().Len())

	updated := `{"routes": {
		"/ping": {"response": {"body": "pong"}},
		"/health": {"response": {"body": "ok"}}
	}}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		return handle.Load().Len() == 2
	}, 3*time.Second, 10*time.Millisecond)

	_, ok := handle.Load().GetModel("[GET] /health")
	assert.True(t, ok)
}

func TestWatcherKeepsStoreOnBrokenConfig(t *testing.T) {
	handle, _, path := watcherFixture(t,
		`{"routes": {"/ping": {"response": {"body": "pong"}}}}`)

	before := handle.Load()

	require.NoError(t, os.WriteFile(path, []byte(`{"routes":`), 0o644))

	// Give the debounce window time to fire; the broken document must
	// not displace the serving store.
	time.Sleep(200 * time.Millisecond)
	assert.Same(t, before, handle.Load())
	assert.Equal(t, 1, handle.Load().Len())
}

func TestWatcherSurvivesRenameOverSave(t *testing.T) {
	handle, _, path := watcherFixture(t,
		`{"routes": {"/ping": {"response": {"body": "pong"}}}}`)

	// Write a sibling temp file and rename it over the target, the way
	// atomic saves do.
	tmp := path + ".tmp"
	updated := `{"routes": {"/renamed": {"response": {"body": 1}}}}`
	require.NoError(t, os.WriteFile(tmp, []byte(updated), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool {
		_, ok := handle.Load().GetModel("[GET] /renamed")
		return ok
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatcherCloseIsIdempotentBeforeStart(t *testing.T) {
	resolver, err := fsys.NewResolver(t.TempDir())
	require.NoError(t, err)

	w := NewWatcher(NewHandle(New()), config.NewLoader(resolver), "db.json")
	assert.NoError(t, w.Close())
}
