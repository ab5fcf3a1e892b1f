package catalog

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Loader owns the catalog cache. Every resolution call checks the backing file's
// modification time and rebuilds the index when it changed. Readers always see a complete
// index: reloads build a new one and swap the pointer.
type Loader struct {
	path   string
	logger *slog.Logger

	current atomic.Pointer[index]

	mu    sync.Mutex // serializes reloads
	mtime time.Time
}

// NewLoader creates a loader backed by the file at path. A missing or malformed file is
// not an error: the loader serves an empty catalog (or the last good one) and logs.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{path: path, logger: logger}
	l.current.Store(newIndex(Catalog{}))
	l.refresh()
	return l
}

// NewStatic creates a loader serving a fixed in-memory catalog.
func NewStatic(c Catalog) *Loader {
	l := &Loader{logger: slog.Default()}
	l.current.Store(newIndex(c))
	return l
}

// Load returns the current catalog, reloading it first if the file changed.
func (l *Loader) Load() Catalog {
	return l.snapshot().catalog
}

func (l *Loader) snapshot() *index {
	l.refresh()
	return l.current.Load()
}

func (l *Loader) refresh() {
	if l.path == "" {
		return
	}
	info, err := os.Stat(l.path)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if info.ModTime().Equal(l.mtime) {
		return
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Warn("catalog read failed, keeping previous", "file", l.path, "error", err)
		return
	}
	c, err := Parse(data)
	if err != nil {
		l.logger.Warn("catalog parse failed, keeping previous", "file", l.path, "error", err)
		return
	}

	l.current.Store(newIndex(c))
	l.mtime = info.ModTime()
	l.logger.Info("catalog loaded", "file", l.path, "cities", len(c.Cities), "sports", len(c.Sports))
}
