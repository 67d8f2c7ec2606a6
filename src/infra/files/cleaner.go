package files

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

// Cleaner removes orphaned cover-image files after a library delete has
// committed. Removal is best-effort: the database is already consistent
// without it, so failures are logged and queued for retry, never
// propagated. A file that is already gone counts as removed.
type Cleaner struct {
	mu      sync.Mutex
	pending []string

	stop chan struct{}
	done chan struct{}
}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Remove attempts to delete each path now. Paths that fail for any
// reason other than not existing are kept on the pending list.
func (c *Cleaner) Remove(paths ...string) {
	var failed []string
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to delete cover file, will retry", "path", path, "error", err)
			failed = append(failed, path)
			continue
		}
		slog.Debug("Deleted cover file", "path", path)
	}

	if len(failed) > 0 {
		c.mu.Lock()
		c.pending = append(c.pending, failed...)
		c.mu.Unlock()
	}
}

// Retry re-attempts every pending deletion once.
func (c *Cleaner) Retry() {
	c.mu.Lock()
	paths := c.pending
	c.pending = nil
	c.mu.Unlock()

	if len(paths) > 0 {
		slog.Debug("Retrying pending cover deletions", "count", len(paths))
		c.Remove(paths...)
	}
}

// Pending returns a copy of the paths still awaiting deletion.
func (c *Cleaner) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.pending...)
}

// Start launches a background sweep retrying failed deletions on the
// given interval. A non-positive interval disables the sweep.
func (c *Cleaner) Start(interval time.Duration) {
	if interval <= 0 || c.stop != nil {
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(c.done)
		for {
			select {
			case <-ticker.C:
				c.Retry()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop halts the background sweep and runs one final retry.
func (c *Cleaner) Stop() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	<-c.done
	c.stop = nil
	c.Retry()
}
