package jit

import (
	"fmt"
	"os"
	"time"

	"github.com/yacobolo/jitcss/internal/config"
)

// configEntry is a resolved config file and the modification times of the
// files it was loaded from.
type configEntry struct {
	cfg      *config.Resolved
	deps     []string
	modified map[string]time.Time
}

// resolvedConfig is the outcome of reading a config input.
type resolvedConfig struct {
	cfg  *config.Resolved
	path string
	// deps are the files the config was loaded from, the config first.
	deps []string
}

// loadConfig resolves in. An in-memory config has no path and no
// dependencies. A config file is only reloaded when check reports that
// the cached entry is stale.
func (r *Registry) loadConfig(in config.Input, check func(path string, prev configEntry) (bool, error)) (resolvedConfig, error) {
	path, err := config.ResolvePath(in)
	if err != nil {
		return resolvedConfig{}, err
	}
	if path == "" {
		raw := in.Config
		if raw == nil {
			raw = &config.Config{}
		}
		cfg := config.Resolve(raw)
		r.logNotices(cfg)
		return resolvedConfig{cfg: cfg}, nil
	}

	if prev, ok := r.configPaths.Get(path); ok {
		stale, err := check(path, prev)
		if err != nil {
			return resolvedConfig{}, err
		}
		if !stale {
			return resolvedConfig{cfg: prev.cfg, path: path, deps: prev.deps}, nil
		}
	}

	raw, deps, err := config.Load(path)
	if err != nil {
		return resolvedConfig{}, err
	}
	cfg := config.Resolve(raw)
	r.logNotices(cfg)

	modified := make(map[string]time.Time, len(deps))
	if _, err := trackModified(deps, modified); err != nil {
		return resolvedConfig{}, err
	}
	r.configPaths.Add(path, configEntry{cfg: cfg, deps: deps, modified: modified})
	return resolvedConfig{cfg: cfg, path: path, deps: deps}, nil
}

func (r *Registry) logNotices(cfg *config.Resolved) {
	for _, n := range cfg.Notices {
		r.log.WarnOnce(n, n)
	}
}

// depsChanged reports whether any file the config was loaded from changed.
func depsChanged(_ string, prev configEntry) (bool, error) {
	for _, file := range prev.deps {
		info, err := os.Stat(file)
		if err != nil {
			return false, fmt.Errorf("tracking config dependency: %w", err)
		}
		if t, ok := prev.modified[file]; !ok || info.ModTime().After(t) {
			return true, nil
		}
	}
	return false, nil
}

// setupTracking gets the context for a build that polls candidate files.
// Changed files are found by comparing modification times on every build.
func (r *Registry) setupTracking(in Input, found directives, emit func(Message)) (*Context, error) {
	rc, err := r.loadConfig(in.Config, depsChanged)
	if err != nil {
		return nil, err
	}

	contextDeps := append([]string(nil), rc.deps...)
	if len(found) > 0 {
		contextDeps = append(contextDeps, in.From)
		contextDeps = append(contextDeps, in.Dependencies...)
	}

	ctx, _, err := r.getContext(in.Root, in.From, rc.cfg, rc.path, contextDeps)
	if err != nil {
		return nil, err
	}
	files, err := candidateFiles(rc.cfg)
	if err != nil {
		return nil, err
	}

	if len(found) > 0 {
		for _, f := range files {
			emit(parseDependency(f, r.env.FlatDirDependencies))
		}
		content, err := r.trackedContent(ctx, files)
		if err != nil {
			return nil, err
		}
		ctx.PushContent(content...)
	}
	for _, f := range rc.deps {
		emit(Message{Type: MessageDependency, File: f})
	}
	return ctx, nil
}

// trackedContent returns the static content of the context's config and
// every candidate file modified since the last build.
func (r *Registry) trackedContent(ctx *Context, patterns []string) ([]Content, error) {
	content, err := staticContent(ctx.Config)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	files, stats, err := r.files.expand(patterns)
	if err != nil {
		return nil, err
	}
	r.log.Debugf("Finding changed files: %s (%d scanned, %d skipped)", time.Since(start), stats.FilesScanned, stats.FilesSkipped)

	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("tracking content file: %w", err)
		}
		if prev, ok := ctx.fileModified[file]; ok && !info.ModTime().After(prev) {
			continue
		}
		ctx.fileModified[file] = info.ModTime()
		c, err := readContent(file)
		if err != nil {
			return nil, err
		}
		content = append(content, c)
	}
	return content, nil
}
