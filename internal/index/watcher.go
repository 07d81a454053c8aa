package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/almanac/internal/storage"
)

// Change kinds reported to an EventCallback.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

const reconcileDelay = 200 * time.Millisecond

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind, path string)

type watcher struct {
	ix     *Indexer
	store  storage.Provider
	root   string
	logger *slog.Logger
	cb     EventCallback
}

func (w *watcher) notify(kind, path string) {
	if w.cb != nil {
		w.cb(kind, path)
	}
}

// Watch re-indexes records under root as they change until ctx is
// cancelled. Directories created at runtime join the watch list. A rename
// drops the old path at once and schedules a reconciliation pass.
func Watch(ctx context.Context, ix *Indexer, store storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", root))

	w := &watcher{ix: ix, store: store, root: root, logger: logger, cb: cb}

	var (
		timer     *time.Timer
		reconcile <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reconcileDelay)
			reconcile = timer.C
			return
		}
		timer.Reset(reconcileDelay)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcile:
			w.reconcile()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if storage.Hidden(filepath.Base(ev.Name)) {
						continue
					}
					if err := addDirsRecursive(fw, ev.Name); err != nil {
						logger.Warn("watcher: add new dir failed", slog.String("path", ev.Name), slog.String("error", err.Error()))
					}
					w.indexDir(ev.Name)
					continue
				}
			}
			if w.handle(ev) {
				schedule()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", err.Error()))
		}
	}
}

// handle applies one file event and reports whether a reconciliation pass
// is needed.
func (w *watcher) handle(ev fsnotify.Event) bool {
	if !storage.IsRecord(ev.Name) {
		return false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return false
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		kind := KindUpdated
		if ev.Op&fsnotify.Create != 0 {
			kind = KindCreated
		}
		w.index(rel, kind)
	case ev.Op&fsnotify.Remove != 0:
		w.remove(rel)
	case ev.Op&fsnotify.Rename != 0:
		// The new name arrives as a separate Create when it stays inside
		// a watched directory.
		w.remove(rel)
		return true
	}
	return false
}

func (w *watcher) index(rel, kind string) {
	data, err := w.store.Read(rel)
	if err != nil {
		w.logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if err := w.ix.IndexFile(rel, data); err != nil {
		w.logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
	w.notify(kind, rel)
}

func (w *watcher) remove(rel string) {
	if err := w.ix.DB.DeleteRecord(rel); err != nil {
		w.logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("watcher: deleted", slog.String("path", rel))
	w.notify(KindDeleted, rel)
}

// reconcile drops index entries whose files are gone and indexes files
// whose checksum differs from the stored one.
func (w *watcher) reconcile() {
	checksums, err := w.ix.DB.AllChecksums()
	if err != nil {
		w.logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := w.store.List("")
	if err != nil {
		w.logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			w.remove(p)
		}
	}
	for p, cs := range disk {
		if checksums[p] != cs {
			w.index(p, KindCreated)
		}
	}
}

func (w *watcher) indexDir(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && storage.Hidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !storage.IsRecord(path) {
			return nil
		}
		if rel, err := filepath.Rel(w.root, path); err == nil {
			w.index(rel, KindCreated)
		}
		return nil
	})
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && storage.Hidden(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
