// Package watch re-runs generation when compiled output changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

const DefaultDebounce = 500 * time.Millisecond

var log = commonlog.GetLogger("kt2ts.watch")

// Watcher follows classpath roots. Directories are watched recursively;
// for a jar the containing directory is watched and only that file counts.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	jars     map[string]bool
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func New(roots []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}
	w := &Watcher{fs: fw, debounce: DefaultDebounce, jars: map[string]bool{}}
	for _, opt := range opts {
		opt(w)
	}
	for _, root := range roots {
		if err := w.add(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "cannot watch %s", root)
	}
	if !info.IsDir() {
		w.jars[filepath.Clean(root)] = true
		return errors.Wrapf(w.fs.Add(filepath.Dir(root)), "cannot watch %s", root)
	}
	return w.addTree(root)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return errors.Wrapf(err, "cannot watch %s", path)
		}
		log.Debugf("watching %s", path)
		return nil
	})
}

// relevant reports whether a change to path should trigger a run.
func (w *Watcher) relevant(path string) bool {
	if w.jars[filepath.Clean(path)] {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".class", ".jar":
		return true
	}
	return false
}

// Run blocks until ctx is done, calling onChange with the changed paths
// once a burst of changes has settled. An error from onChange is logged
// and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string) error) error {
	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						log.Warningf("%s", err)
					}
					continue
				}
			}
			if !w.relevant(event.Name) || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			log.Debugf("%s: %s", event.Op, event.Name)
			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			log.Infof("%d files changed", len(changed))
			if err := onChange(changed); err != nil {
				log.Errorf("%s", err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch error: %s", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
