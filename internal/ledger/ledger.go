package ledger

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"subweld/internal/logging"
)

// Ledger tracks every temporary artifact created for a job and guarantees
// its removal when the job concludes. Paths must be registered before first
// use; Cleanup removes each registered path exactly once and is safe to call
// repeatedly and from multiple goroutines.
type Ledger struct {
	logger *slog.Logger

	mu      sync.Mutex
	paths   []string
	removed map[string]struct{}
}

// New constructs an empty ledger.
func New(logger *slog.Logger) *Ledger {
	return &Ledger{
		logger:  logging.NewComponentLogger(logger, "ledger"),
		removed: make(map[string]struct{}),
	}
}

// Register records a path owed for cleanup. Empty and duplicate paths are
// ignored.
func (l *Ledger) Register(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, done := l.removed[path]; done {
		return
	}
	for _, existing := range l.paths {
		if existing == path {
			return
		}
	}
	l.paths = append(l.paths, path)
}

// Registered returns a snapshot of the paths still owed for cleanup.
func (l *Ledger) Registered() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]string, len(l.paths))
	copy(cp, l.paths)
	return cp
}

// Cleanup removes every registered path. Removal failures are logged at WARN
// and do not stop the sweep; a missing file counts as already removed.
func (l *Ledger) Cleanup() {
	l.mu.Lock()
	pending := l.paths
	l.paths = nil
	for _, path := range pending {
		l.removed[path] = struct{}{}
	}
	l.mu.Unlock()

	for _, path := range pending {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("failed to remove temp artifact",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		l.logger.Debug("removed temp artifact", logging.String("path", path))
	}
}
