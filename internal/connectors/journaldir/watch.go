package journaldir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/logger"
)

// ChangeType describes what happened to a journal file.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is a filesystem event on a journal file.
type Change struct {
	Type ChangeType
	Path string
}

// Watch follows the journal directory and emits changes to journal files.
// The channel closes when ctx is cancelled or the importer is closed; the
// underlying watcher is released in both cases.
func (i *Importer) Watch(ctx context.Context) (<-chan Change, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil, ErrClosed
	}
	if err := validateRoot(i.root); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addDirs(watcher, i.root); err != nil {
		watcher.Close()
		return nil, err
	}
	if i.watcher != nil {
		i.watcher.Close()
	}
	i.watcher = watcher

	changes := make(chan Change)
	go func() {
		defer close(changes)
		defer i.releaseWatcher(watcher)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !i.hiddenInRoot(event.Name) {
						if err := addDirs(watcher, event.Name); err != nil {
							logger.Warn("journal watch: %v", err)
						}
						continue
					}
				}
				change := i.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("journal watch: %v", err)
			}
		}
	}()

	return changes, nil
}

// releaseWatcher closes w and forgets it unless a newer watch replaced it.
func (i *Importer) releaseWatcher(w *fsnotify.Watcher) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.watcher == w {
		i.watcher = nil
	}
	if err := w.Close(); err != nil {
		logger.Debug("journal watch: closing watcher: %v", err)
	}
}

// Apply imports or archives the entry behind a change.
// Returns true when an entry changed.
func (i *Importer) Apply(ctx context.Context, change Change) (bool, error) {
	switch change.Type {
	case ChangeCreated, ChangeUpdated:
		return i.ImportFile(ctx, change.Path)
	case ChangeDeleted:
		err := i.entries.ArchiveByURI(ctx, FileURI(change.Path))
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown change type %q", domain.ErrInvalidInput, change.Type)
	}
}

// Follow watches the directory and applies every change until ctx is done.
// onChange, when set, is called after each applied change.
func (i *Importer) Follow(ctx context.Context, onChange func(Change, error)) error {
	changes, err := i.Watch(ctx)
	if err != nil {
		return err
	}
	for change := range changes {
		_, err := i.Apply(ctx, change)
		if err != nil {
			logger.Warn("journal watch: %s %s: %v", change.Type, change.Path, err)
		}
		if onChange != nil {
			onChange(change, err)
		}
	}
	return ctx.Err()
}

// handleFsEvent converts an fsnotify event into a Change, or nil when the
// event does not concern a journal file.
func (i *Importer) handleFsEvent(event fsnotify.Event) *Change {
	if i.hiddenInRoot(event.Name) || !isJournalFile(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Type: ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &Change{Type: ChangeCreated, Path: event.Name}
	case event.Has(fsnotify.Write):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &Change{Type: ChangeUpdated, Path: event.Name}
	default:
		return nil
	}
}

// hiddenInRoot reports whether path is hidden relative to the journal root.
func (i *Importer) hiddenInRoot(path string) bool {
	rel, err := filepath.Rel(i.root, path)
	if err != nil {
		return isHidden(filepath.Base(path))
	}
	return isHidden(rel)
}

// addDirs watches dir and every visible directory below it.
func addDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
