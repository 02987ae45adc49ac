package jit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/yacobolo/jitcss/internal/log"
)

// configFileChanged compares only the config file itself. Changes to its
// presets reach it through the watcher, which touches the config file.
func configFileChanged(path string, prev configEntry) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("tracking config: %w", err)
	}
	t, ok := prev.modified[path]
	return !ok || info.ModTime().After(t), nil
}

// setupWatching gets the context for a long-running build. Each new
// context gets a file watcher that queues changed content and touches a
// sentinel file the host rebuilds on.
func (r *Registry) setupWatching(in Input, found directives, emit func(Message)) (*Context, error) {
	rc, err := r.loadConfig(in.Config, configFileChanged)
	if err != nil {
		return nil, err
	}

	var configDeps []string
	if rc.path != "" {
		configDeps = []string{rc.path}
	}
	contextDeps := slices.Clone(configDeps)
	if len(found) > 0 {
		contextDeps = append(contextDeps, in.From)
		contextDeps = append(contextDeps, in.Dependencies...)
	}

	ctx, isNew, err := r.getContext(in.Root, in.From, rc.cfg, rc.path, contextDeps)
	if err != nil {
		return nil, err
	}
	files, err := candidateFiles(rc.cfg)
	if err != nil {
		return nil, err
	}
	for _, f := range configDeps {
		emit(Message{Type: MessageDependency, File: f})
	}

	if isNew {
		ctx.mu.Lock()
		ctx.candidateFiles = files
		ctx.configDeps = slices.DeleteFunc(slices.Clone(rc.deps), func(dep string) bool { return dep == rc.path })
		ctx.disposables = append(ctx.disposables, ctx.closeWatcher)
		ctx.mu.Unlock()
		if err := r.rebootWatcher(ctx, rc.path); err != nil {
			return nil, err
		}
	}

	ctx.mu.Lock()
	touchFile := ctx.touchFile
	ctx.mu.Unlock()
	if touchFile != "" {
		emit(Message{Type: MessageDependency, File: touchFile})
	}

	if len(found) > 0 {
		content, err := r.watchedContent(ctx, files)
		if err != nil {
			return nil, err
		}
		ctx.PushContent(content...)
	}
	return ctx, nil
}

// watchedContent returns the static content of the context's config, plus
// every candidate file on the first build. Later changes arrive through
// the watcher.
func (r *Registry) watchedContent(ctx *Context, patterns []string) ([]Content, error) {
	content, err := staticContent(ctx.Config)
	if err != nil {
		return nil, err
	}

	ctx.mu.Lock()
	scanned := ctx.scanned
	ctx.scanned = true
	ctx.mu.Unlock()
	if scanned {
		return content, nil
	}

	files, _, err := r.files.expand(patterns)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		c, err := readContent(file)
		if err != nil {
			return nil, err
		}
		content = append(content, c)
	}
	return content, nil
}

// rebootWatcher creates the touch file if needed and replaces the
// context's watcher.
func (r *Registry) rebootWatcher(ctx *Context, configPath string) error {
	ctx.mu.Lock()
	if ctx.touchFile == "" {
		f, err := os.CreateTemp(r.env.TouchDir, "jitcss-touch-*")
		if err != nil {
			ctx.mu.Unlock()
			return fmt.Errorf("creating touch file: %w", err)
		}
		_ = f.Close()
		ctx.touchFile = f.Name()
	}
	old := ctx.watcher
	ctx.watcher = nil
	patterns, configDeps, touchFile := ctx.candidateFiles, ctx.configDeps, ctx.touchFile
	ctx.mu.Unlock()

	if old != nil {
		old.close()
	}

	r.log.Info("jitcss is watching for changes...")
	w, err := newWatcher(ctx, patterns, configDeps, configPath, touchFile, r.log)
	if err != nil {
		return err
	}
	ctx.mu.Lock()
	ctx.watcher = w
	ctx.mu.Unlock()
	return nil
}

// closeWatcher stops the watcher and removes the touch file.
func (c *Context) closeWatcher() {
	c.mu.Lock()
	w, touchFile := c.watcher, c.touchFile
	c.watcher, c.touchFile = nil, ""
	c.mu.Unlock()
	if w != nil {
		w.close()
	}
	if touchFile != "" {
		_ = os.Remove(touchFile)
	}
}

// watcher follows the candidate files and config dependencies of one
// context.
type watcher struct {
	fs  *fsnotify.Watcher
	ctx *Context
	log *log.Logger

	patterns   []string
	configDeps map[string]struct{}
	configPath string
	touchFile  string

	wg sync.WaitGroup
}

func newWatcher(ctx *Context, patterns, configDeps []string, configPath, touchFile string, logger *log.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting watcher: %w", err)
	}
	w := &watcher{
		fs:         fw,
		ctx:        ctx,
		log:        logger,
		patterns:   patterns,
		configDeps: make(map[string]struct{}, len(configDeps)),
		configPath: configPath,
		touchFile:  touchFile,
	}

	for _, p := range patterns {
		root := filepath.Dir(p)
		if isGlob(p) {
			base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
			root = filepath.FromSlash(base)
		}
		w.addRecursive(root)
	}
	for _, dep := range configDeps {
		w.configDeps[dep] = struct{}{}
		if err := fw.Add(filepath.Dir(dep)); err != nil {
			logger.Warn(fmt.Sprintf("cannot watch %s: %v", dep, err))
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// addRecursive watches dir and every directory below it.
func (w *watcher) addRecursive(dir string) {
	WatchTree(w.fs, dir, func(path string, err error) {
		w.log.Warn(fmt.Sprintf("cannot watch %s: %v", path, err))
	})
}

// WatchTree adds dir and every directory below it to fw. Directories that
// cannot be watched are reported to onErr and skipped.
func WatchTree(fw *fsnotify.Watcher, dir string, onErr func(path string, err error)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil && onErr != nil {
				onErr(path, err)
			}
		}
		return nil
	})
}

func (w *watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn(fmt.Sprintf("watcher: %v", err))
		}
	}
}

func (w *watcher) close() {
	_ = w.fs.Close()
	w.wg.Wait()
}

// handle reacts to one event. New or changed candidate files are queued
// and the touch file is touched. A changed or removed config dependency
// touches the config file so the next build sees a new config.
func (w *watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	_, isConfigDep := w.configDeps[path]

	switch {
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.addRecursive(path)
			return
		}
		if w.matches(path) {
			w.push(path)
		}
	case ev.Has(fsnotify.Write):
		if isConfigDep {
			touch(w.configPath)
			return
		}
		if w.matches(path) {
			w.push(path)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if isConfigDep {
			touch(w.configPath)
		}
	}
}

func (w *watcher) matches(path string) bool {
	for _, p := range w.patterns {
		if p == path {
			return true
		}
		if ok, _ := doublestar.PathMatch(p, path); ok {
			return true
		}
	}
	return false
}

func (w *watcher) push(path string) {
	c, err := readContent(path)
	if err != nil {
		w.log.Warn(err.Error())
		return
	}
	w.ctx.PushContent(c)
	touch(w.touchFile)
}

// touch bumps the modification time of path, creating it if needed.
func touch(path string) {
	if path == "" {
		return
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err == nil {
		return
	}
	if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		_ = f.Close()
	}
}
