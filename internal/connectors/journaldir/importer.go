package journaldir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/logger"
)

// Extensions lists the file types imported as entries.
var Extensions = []string{".md", ".markdown", ".txt"}

// MaxFileSize caps the size of a single imported file.
const MaxFileSize = 4 << 20

// ErrClosed is returned when the importer has been closed.
var ErrClosed = errors.New("journal importer closed")

// Importer reads journal files from a directory into the entry service.
type Importer struct {
	root    string
	entries driving.EntryService

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// Ensure Importer implements the interface.
var _ driving.JournalImporter = (*Importer)(nil)

// New creates an importer for the directory at root.
func New(root string, entries driving.EntryService) *Importer {
	return &Importer{root: root, entries: entries}
}

// Root returns the journal directory.
func (i *Importer) Root() string {
	return i.root
}

// Import upserts every journal file under the root and returns how many
// entries were created or changed. Unreadable files are logged and skipped.
func (i *Importer) Import(ctx context.Context) (int, error) {
	if err := validateRoot(i.root); err != nil {
		return 0, err
	}

	changed := 0
	err := filepath.WalkDir(i.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != i.root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isJournalFile(path) {
			return nil
		}

		ok, err := i.ImportFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("journal import: skipping %s: %v", path, err)
			return nil
		}
		if ok {
			changed++
		}
		return nil
	})
	if err != nil {
		return changed, fmt.Errorf("walk journal directory: %w", err)
	}

	logger.Info("journal import: %d entries changed under %s", changed, i.root)
	return changed, nil
}

// ImportFile upserts a single file. Blank files are ignored.
func (i *Importer) ImportFile(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return false, fmt.Errorf("%s is larger than %d bytes", path, MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	body := strings.TrimSpace(string(content))
	if body == "" {
		return false, nil
	}

	_, changed, err := i.entries.Upsert(ctx, FileURI(path), "", body)
	if err != nil {
		return false, fmt.Errorf("upsert %s: %w", path, err)
	}
	return changed, nil
}

// Close stops any running watch.
func (i *Importer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closed = true
	if i.watcher != nil {
		err := i.watcher.Close()
		i.watcher = nil
		return err
	}
	return nil
}

// FileURI returns the entry URI for a file path.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}

// PathFromURI converts an entry URI back to a local path.
// Bare paths pass through unchanged.
func PathFromURI(uri string) string {
	return filepath.FromSlash(strings.TrimPrefix(uri, "file://"))
}

func validateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", root)
	}
	return nil
}

// isJournalFile reports whether path has an imported extension and a
// visible base name.
func isJournalFile(path string) bool {
	if isHidden(filepath.Base(path)) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
