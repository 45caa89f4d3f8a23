package state

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/hoverlink/internal/hover"
	"github.com/Paintersrp/hoverlink/internal/pathutil"
)

// ErrWatcherClosed is returned once the watcher has been shut down.
var ErrWatcherClosed = errors.New("vault watcher closed")

// DocumentHandler receives note lifecycle events. Paths are vault-relative.
// OnFolderDeleted drops every note under a removed or renamed folder and
// returns their ids.
type DocumentHandler interface {
	OnDocumentCreated(path string) error
	OnDocumentChanged(path string) error
	OnDocumentDeleted(path string) error
	OnFolderDeleted(path string) ([]string, error)
}

// EventKind is the lifecycle event a filesystem notification maps to.
type EventKind int

const (
	DocumentCreated EventKind = iota
	DocumentChanged
	DocumentDeleted
)

func (k EventKind) String() string {
	switch k {
	case DocumentCreated:
		return "created"
	case DocumentChanged:
		return "changed"
	case DocumentDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is a note lifecycle event with its vault-relative path.
type Event struct {
	Kind EventKind
	Path string
}

type VaultNoteChangedMsg struct {
	Event Event
}

type VaultWatcherErrMsg struct {
	Err error
}

// eventKind maps an fsnotify operation to a lifecycle event. A rename reports
// the old name only; fsnotify delivers a Create for the new one.
func eventKind(op fsnotify.Op) (EventKind, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return DocumentDeleted, true
	case op.Has(fsnotify.Create):
		return DocumentCreated, true
	case op.Has(fsnotify.Write):
		return DocumentChanged, true
	default:
		return 0, false
	}
}

type pendingEvent struct {
	ev      Event
	applied bool
}

// VaultWatcher forwards note changes under a vault to a DocumentHandler.
type VaultWatcher struct {
	watcher        *fsnotify.Watcher
	vault          string
	ignoredFolders []string
	ignorePatterns []string
	handler        DocumentHandler
	log            *slog.Logger
	done           chan struct{}
	once           sync.Once

	// pending holds events produced by a single folder notification.
	pending []pendingEvent

	mu        sync.Mutex
	onChange  func(Event)
	onSettled func()
	settle    *hover.Timer
	onClose   func()
}

// NewVaultWatcher watches every non-hidden, non-ignored directory under
// vault.
func NewVaultWatcher(vault string, handler DocumentHandler, ignoredFolders, ignorePatterns []string, logger *slog.Logger) (*VaultWatcher, error) {
	normalizedVault := pathutil.NormalizePath(vault)
	if normalizedVault == "" {
		return nil, errors.New("vault directory cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &VaultWatcher{
		watcher:        w,
		vault:          normalizedVault,
		ignoredFolders: ignoredFolders,
		ignorePatterns: ignorePatterns,
		handler:        handler,
		log:            logger.With("component", "watcher"),
		done:           make(chan struct{}),
	}

	if err := watcher.addRecursive(normalizedVault); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// Start returns a command that blocks until the next note event has been
// applied and reports it. Callers re-issue the command after each message.
func (w *VaultWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		ev, err := w.next(context.Background())
		switch {
		case errors.Is(err, ErrWatcherClosed):
			return nil
		case err != nil:
			return VaultWatcherErrMsg{Err: err}
		}
		return VaultNoteChangedMsg{Event: ev}
	}
}

// Run applies note events until ctx is cancelled or the watcher is closed.
// Watcher errors are logged and do not stop the loop.
func (w *VaultWatcher) Run(ctx context.Context) error {
	for {
		_, err := w.next(ctx)
		switch {
		case errors.Is(err, ErrWatcherClosed), ctx.Err() != nil:
			return nil
		case err != nil:
			w.log.Warn("watch error", "error", err)
		}
	}
}

// next waits for one relevant event, applies it and returns it.
func (w *VaultWatcher) next(ctx context.Context) (Event, error) {
	for {
		if p, ok := w.popPending(); ok {
			if p.applied {
				w.notify(p.ev)
			} else {
				w.apply(p.ev)
			}
			return p.ev, nil
		}

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-w.done:
			return Event{}, ErrWatcherClosed
		case event, ok := <-w.watcher.Events:
			if !ok {
				return Event{}, ErrWatcherClosed
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.folderCreated(event.Name)
					continue
				}
			}

			ev, ok := w.translate(event)
			if !ok {
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.folderRemoved(event.Name)
				}
				continue
			}
			w.apply(ev)
			return ev, nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return Event{}, ErrWatcherClosed
			}
			if err != nil {
				return Event{}, err
			}
		}
	}
}

// folderCreated watches a new folder and queues a create for every note
// already inside it, which covers folders moved into the vault.
func (w *VaultWatcher) folderCreated(dir string) {
	if w.ignoredDir(dir) {
		return
	}
	if err := w.addRecursive(dir); err != nil {
		w.log.Warn("watch folder", "path", dir, "error", err)
	}

	var queued []pendingEvent
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && w.ignoredDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if ev, ok := w.translate(fsnotify.Event{Name: path, Op: fsnotify.Create}); ok {
			queued = append(queued, pendingEvent{ev: ev})
		}
		return nil
	})
	if err != nil {
		w.log.Warn("scan folder", "path", dir, "error", err)
	}
	w.push(queued)
}

// folderRemoved drops the notes of a folder that was removed or renamed
// away. The handler has already applied the deletes, so they are only
// reported.
func (w *VaultWatcher) folderRemoved(name string) {
	if w.handler == nil || pathutil.IsNote(name) {
		return
	}
	rel := w.relativePath(name)
	if rel == "" || w.ignoredDir(name) {
		return
	}

	ids, err := w.handler.OnFolderDeleted(rel)
	if err != nil {
		w.log.Warn("apply folder removal", "path", rel, "error", err)
		return
	}

	queued := make([]pendingEvent, 0, len(ids))
	for _, id := range ids {
		queued = append(queued, pendingEvent{ev: Event{Kind: DocumentDeleted, Path: id}, applied: true})
	}
	w.push(queued)
}

func (w *VaultWatcher) push(events []pendingEvent) {
	if len(events) == 0 {
		return
	}
	w.mu.Lock()
	w.pending = append(w.pending, events...)
	w.mu.Unlock()
}

func (w *VaultWatcher) popPending() (pendingEvent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return pendingEvent{}, false
	}
	p := w.pending[0]
	w.pending = w.pending[1:]
	return p, true
}

func (w *VaultWatcher) translate(event fsnotify.Event) (Event, bool) {
	kind, ok := eventKind(event.Op)
	if !ok || !pathutil.IsNote(event.Name) {
		return Event{}, false
	}

	rel := w.relativePath(event.Name)
	if rel == "" || pathutil.Ignored(rel, w.ignoredFolders, w.ignorePatterns) {
		return Event{}, false
	}
	return Event{Kind: kind, Path: rel}, true
}

func (w *VaultWatcher) apply(ev Event) {
	if w.handler != nil {
		var err error
		switch ev.Kind {
		case DocumentCreated:
			err = w.handler.OnDocumentCreated(ev.Path)
		case DocumentChanged:
			err = w.handler.OnDocumentChanged(ev.Path)
		case DocumentDeleted:
			err = w.handler.OnDocumentDeleted(ev.Path)
		}
		if err != nil {
			w.log.Warn("apply event", "event", ev.Kind, "path", ev.Path, "error", err)
		} else {
			w.log.Debug("applied event", "event", ev.Kind, "path", ev.Path)
		}
	}
	w.notify(ev)
}

func (w *VaultWatcher) notify(ev Event) {
	w.mu.Lock()
	onChange, onSettled, settle := w.onChange, w.onSettled, w.settle
	w.mu.Unlock()

	if onChange != nil {
		onChange(ev)
	}
	if onSettled != nil && settle != nil {
		settle.Schedule(onSettled)
	}
}

func (w *VaultWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()

		w.mu.Lock()
		settle, onClose := w.settle, w.onClose
		w.mu.Unlock()

		if settle != nil {
			settle.Stop()
		}
		if onClose != nil {
			onClose()
		}
	})

	return closeErr
}

// OnChange registers a callback that receives every applied event.
func (w *VaultWatcher) OnChange(fn func(Event)) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// OnSettled registers a callback that runs once events stop arriving for
// delay.
func (w *VaultWatcher) OnSettled(delay time.Duration, fn func()) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.settle != nil {
		w.settle.Stop()
	}
	w.onSettled = fn
	w.settle = hover.NewTimer(delay)
}

// OnClose registers a callback that is invoked exactly once when the watcher
// shuts down.
func (w *VaultWatcher) OnClose(fn func()) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClose = fn
}

func (w *VaultWatcher) addRecursive(root string) error {
	normalized := pathutil.NormalizePath(root)
	return filepath.WalkDir(normalized, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if w.ignoredDir(path) {
			return filepath.SkipDir
		}

		return w.watcher.Add(path)
	})
}

func (w *VaultWatcher) ignoredDir(path string) bool {
	rel := w.relativePath(path)
	if rel == "" {
		return false
	}
	return pathutil.Ignored(rel+"/"+pathutil.NoteExt, w.ignoredFolders, nil)
}

func (w *VaultWatcher) relativePath(path string) string {
	return pathutil.DocumentID(w.vault, path)
}
