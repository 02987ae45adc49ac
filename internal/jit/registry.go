// Package jit generates utility CSS on demand.
//
// A Registry owns every compilation Context of a process. Each call to
// Process resolves the config, reuses or builds the Context for it, feeds
// the content that changed since the last call through candidate
// extraction and rule generation, and replaces the @tailwind directives of
// the stylesheet with the generated rules.
package jit

import (
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yacobolo/jitcss/internal/log"
)

const (
	contentMatchCacheSize = 25000
	configPathCacheSize   = 100
)

// Options configure a Registry.
type Options struct {
	Env    Env
	Logger *log.Logger
}

// Registry holds the contexts shared by every stylesheet built in a
// process. It is safe for concurrent use; builds of different contexts run
// in parallel, builds of the same context are serialized.
type Registry struct {
	mu sync.Mutex

	env Env
	log *log.Logger

	// contexts maps a source path to its context and configContexts maps a
	// config hash to its context. sources lists the source paths using a
	// context.
	contexts       map[string]*Context
	configContexts map[string]*Context
	sources        map[*Context]map[string]struct{}

	// contentMatch caches the candidates of a trimmed content line across
	// all contexts.
	contentMatch *lru.Cache[string, []string]
	configPaths  *lru.Cache[string, configEntry]
	files        *fileScanner
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, false, opts.Env.Debug)
	}
	// lru.New only fails for a non-positive size.
	contentMatch, _ := lru.New[string, []string](contentMatchCacheSize)
	configPaths, _ := lru.New[string, configEntry](configPathCacheSize)
	return &Registry{
		env:            opts.Env,
		log:            logger,
		contexts:       make(map[string]*Context),
		configContexts: make(map[string]*Context),
		sources:        make(map[*Context]map[string]struct{}),
		contentMatch:   contentMatch,
		configPaths:    configPaths,
		files:          &fileScanner{},
	}
}

// Stats describes the registry's caches.
type Stats struct {
	Contexts            int
	ContentMatchEntries int
}

// Stats returns the number of live contexts and cached content lines.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Contexts:            len(r.sources),
		ContentMatchEntries: r.contentMatch.Len(),
	}
}

// Dispose evicts every context and runs its disposables, closing any file
// watchers.
func (r *Registry) Dispose() {
	r.mu.Lock()
	contexts := make([]*Context, 0, len(r.sources))
	for ctx := range r.sources {
		contexts = append(contexts, ctx)
	}
	r.contexts = make(map[string]*Context)
	r.configContexts = make(map[string]*Context)
	r.sources = make(map[*Context]map[string]struct{})
	r.mu.Unlock()

	for _, ctx := range contexts {
		ctx.dispose()
	}
}

// unlink removes sourcePath from the context it used. A context left
// without sources is evicted and disposed. The caller holds r.mu.
func (r *Registry) unlink(sourcePath string) {
	old, ok := r.contexts[sourcePath]
	if !ok {
		return
	}
	srcs, ok := r.sources[old]
	if !ok {
		return
	}
	delete(srcs, sourcePath)
	if len(srcs) > 0 {
		return
	}
	delete(r.sources, old)
	for hash, ctx := range r.configContexts {
		if ctx == old {
			delete(r.configContexts, hash)
		}
	}
	old.dispose()
}

// link registers ctx under hash and sourcePath. The caller holds r.mu.
func (r *Registry) link(ctx *Context, hash, sourcePath string) {
	r.configContexts[hash] = ctx
	r.contexts[sourcePath] = ctx
	srcs, ok := r.sources[ctx]
	if !ok {
		srcs = make(map[string]struct{})
		r.sources[ctx] = srcs
	}
	srcs[sourcePath] = struct{}{}
}
