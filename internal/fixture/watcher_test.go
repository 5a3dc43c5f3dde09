package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneProduct = `products:
  - title: Oak Chair
    brand: Acme
    price: "$10"
`

const twoProducts = `products:
  - title: Oak Chair
    brand: Acme
    price: "$10"
  - title: Pine Desk
    brand: Zen
    price: "$20"
`

func startWatcher(t *testing.T, path string, s *Server) *Watcher {
	t.Helper()
	w, err := NewWatcher(path, s)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	return w
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(oneProduct), 0644))

	data, err := Load(path)
	require.NoError(t, err)
	s := NewServer(data)
	w := startWatcher(t, path, s)

	require.NoError(t, os.WriteFile(path, []byte(twoProducts), 0644))
	require.Eventually(t, func() bool {
		return len(s.Data().Products) == 2
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "Pine Desk", s.Data().Products[1].Title)
	assert.GreaterOrEqual(t, w.Stats().Reloads, 1)
}

func TestWatcherKeepsCatalogOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(oneProduct), 0644))

	data, err := Load(path)
	require.NoError(t, err)
	s := NewServer(data)
	w := startWatcher(t, path, s)

	require.NoError(t, os.WriteFile(path, []byte("products: [unterminated"), 0644))
	require.Eventually(t, func() bool {
		return w.Stats().Errors > 0
	}, 5*time.Second, 20*time.Millisecond)

	assert.Len(t, s.Data().Products, 1)
	assert.Contains(t, w.Stats().LastError, "failed to parse fixture")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(oneProduct), 0644))

	s := NewServer(Default())
	w := startWatcher(t, path, s)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte(twoProducts), 0644))
	time.Sleep(400 * time.Millisecond)
	assert.Zero(t, w.Stats().Reloads)
	assert.Len(t, s.Data().Products, len(Default().Products))
}

func TestWatcherStopAfterFailedStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "products.yaml")
	w, err := NewWatcher(path, NewServer(Default()))
	require.NoError(t, err)

	require.Error(t, w.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}
