package jit

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/log"
)

var (
	// ErrMissingDirective is returned when a stylesheet uses @layer,
	// @responsive or @variants without the @tailwind directive it feeds.
	ErrMissingDirective = errors.New("missing @tailwind directive")
	// ErrInvalidSeparator is returned for the "-" separator, which cannot be
	// told apart from the dashes inside class names.
	ErrInvalidSeparator = errors.New("the '-' character cannot be used as a custom separator in JIT mode due to parsing ambiguity, use another character like '_' instead")
)

// getContext returns the context for sourcePath built from cfg, reusing an
// existing one unless one of deps changed since it was last seen. The
// returned flag reports whether a new context was created.
func (r *Registry) getContext(root *csstree.Root, sourcePath string, cfg *config.Resolved, configPath string, deps []string) (*Context, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Debugf("Source path: %s", sourcePath)

	var existing *Context
	if ctx, ok := r.contexts[sourcePath]; configPath != "" && ok {
		existing = ctx
	} else if ctx, ok := r.configContexts[cfg.Hash]; ok {
		r.link(ctx, cfg.Hash, sourcePath)
		existing = ctx
	}

	if existing != nil {
		changed, err := existing.trackModified(deps)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return existing, false, nil
		}
	}

	r.unlink(sourcePath)

	r.log.Debugf("Setting up new context...")
	ctx := createContext(cfg, root, r.log)
	if _, err := ctx.trackModified(deps); err != nil {
		ctx.dispose()
		return nil, false, err
	}
	r.link(ctx, cfg.Hash, sourcePath)
	return ctx, true, nil
}

// createContext registers every plugin for cfg. @layer blocks of root
// become plugins and are removed from it.
func createContext(cfg *config.Resolved, root *csstree.Root, logger *log.Logger) *Context {
	if len(cfg.Purge.Content) == 0 {
		logger.Risk("The `content` option in your config is empty or missing.",
			"Only safelisted classes will be generated.")
	}
	ctx := newContext(cfg, logger)
	registerPlugins(ctx, resolvePlugins(cfg, root))
	return ctx
}

// trackModified records the modification time of each file and reports
// whether any is new or newer than recorded.
func trackModified(files []string, modified map[string]time.Time) (bool, error) {
	changed := false
	for _, file := range files {
		if file == "" {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			return false, fmt.Errorf("tracking dependency: %w", err)
		}
		prev, ok := modified[file]
		if !ok || info.ModTime().After(prev) {
			changed = true
		}
		modified[file] = info.ModTime()
	}
	return changed, nil
}
