package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnPageChange(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.md")
	require.NoError(t, os.WriteFile(page, []byte("# v1\n"), 0644))

	changed := make(chan string, 4)
	w, err := NewWatcher(dir, func(path string) error {
		changed <- path
		return nil
	}, false)
	require.NoError(t, err)
	w.Start()
	t.Cleanup(func() { w.Stop() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(page, []byte("# v2\n"), 0644))

	select {
	case got := <-changed:
		assert.Equal(t, "index.md", got)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after editing index.md")
	}

	select {
	case got := <-changed:
		t.Fatalf("unexpected extra reload for %s", got)
	case <-time.After(3 * debounceDelay):
	}
}

func TestServerWatchReloadsPage(t *testing.T) {
	srv := newTestServer(t, testPage, testConfig())
	require.NoError(t, srv.EnableWatch())
	t.Cleanup(func() { srv.StopWatch() })

	updated := "---\ntitle: \"Renamed\"\n---\n\n# New\n"
	require.NoError(t, os.WriteFile(filepath.Join(srv.rootDir, "index.md"), []byte(updated), 0644))

	require.Eventually(t, func() bool {
		return srv.Page().Title == "Renamed"
	}, 3*time.Second, 20*time.Millisecond)
	assert.Empty(t, srv.Page().Steps)
}
