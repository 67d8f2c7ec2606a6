package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemove_DeletesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a-high.jpg")
	b := filepath.Join(dir, "a-low.jpg")
	for _, p := range []string{a, b} {
		require.NoError(t, os.WriteFile(p, []byte("jpeg"), 0644))
	}

	c := NewCleaner()
	c.Remove(a, b)

	for _, p := range []string{a, b} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "expected %s to be gone", p)
	}
	assert.Empty(t, c.Pending())
}

func TestRemove_MissingFileIsNotAFailure(t *testing.T) {
	c := NewCleaner()
	c.Remove(filepath.Join(t.TempDir(), "never-existed.jpg"))
	assert.Empty(t, c.Pending())
}

func TestRemove_SkipsEmptyPaths(t *testing.T) {
	c := NewCleaner()
	c.Remove("", "")
	assert.Empty(t, c.Pending())
}

func TestRemove_KeepsFailedDeletionsPending(t *testing.T) {
	// A path whose parent is a plain file cannot be removed and is not
	// "not exist" either, so it must land on the pending list.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	stuck := filepath.Join(blocker, "cover.jpg")

	c := NewCleaner()
	c.Remove(stuck)
	assert.Equal(t, []string{stuck}, c.Pending())

	// Still failing: retry keeps it around.
	c.Retry()
	assert.Equal(t, []string{stuck}, c.Pending())
}

func TestRetry_DrainsPendingOnceDeletable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	stuck := filepath.Join(blocker, "cover.jpg")

	c := NewCleaner()
	c.Remove(stuck)
	require.NotEmpty(t, c.Pending())

	// Replace the blocking file with a real directory and file.
	require.NoError(t, os.Remove(blocker))
	require.NoError(t, os.MkdirAll(blocker, 0755))
	require.NoError(t, os.WriteFile(stuck, []byte("jpeg"), 0644))

	c.Retry()
	assert.Empty(t, c.Pending())
	_, err := os.Stat(stuck)
	assert.True(t, os.IsNotExist(err))
}

func TestStartStop(t *testing.T) {
	c := NewCleaner()
	c.Start(10 * time.Millisecond)
	c.Stop()
	// Stop with no running sweep is a no-op.
	c.Stop()

	// Non-positive interval never starts a sweep.
	c.Start(0)
	c.Stop()
}
