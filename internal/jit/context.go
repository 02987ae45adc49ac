package jit

import (
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/log"
	"github.com/yacobolo/jitcss/internal/plugin"
)

// Layer is a coarse cascade group.
type Layer int

// Layers, in cascade order.
const (
	LayerBase Layer = iota
	LayerComponents
	LayerUtilities
)

func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerComponents:
		return "components"
	default:
		return "utilities"
	}
}

// ruleOptions are the resolved plugin.Options of a registered rule.
type ruleOptions struct {
	respectPrefix    bool
	respectImportant bool
	respectVariants  bool
}

// ruleMeta travels with a rule through generation. sort holds the
// registration offset and, once variants are applied, their bits.
type ruleMeta struct {
	sort    *big.Int
	layer   Layer
	options ruleOptions
}

// ruleSource is an entry of the candidate rule map: either a static rule
// or a function of the class modifier.
type ruleSource struct {
	meta  ruleMeta
	rule  csstree.Node
	match func(modifier string) []csstree.Node
}

type variantEntry struct {
	sort *big.Int
	fn   plugin.VariantFunc
}

// Rule is a generated rule and its final sort key.
type Rule struct {
	Sort *big.Int
	Node csstree.Node
}

// Content is a block of text waiting to be scanned for candidates.
// Extension selects the extractor and transformer.
type Content struct {
	Content   string
	Extension string
}

// Stylesheet is the generated CSS partitioned by layer. Rules carrying a
// variant bit are in Variants regardless of their layer.
type Stylesheet struct {
	Base       []csstree.Node
	Components []csstree.Node
	Utilities  []csstree.Node
	Variants   []csstree.Node
}

// VariantSort is a variant and its sort bit.
type VariantSort struct {
	Name string
	Sort *big.Int
}

// Context is the compiled state for one config. It is shared by every
// source built with that config and only ever grows until it is replaced.
type Context struct {
	mu sync.Mutex

	Config *config.Resolved
	log    *log.Logger

	candidateRuleMap map[string][]*ruleSource

	// Filled in while plugins register.
	variantList []string
	variantFns  map[string][]plugin.VariantFunc

	variantOrder         []VariantSort
	variantMap           map[string][]variantEntry
	layerOrder           [3]*big.Int
	minimumScreen        *big.Int
	arbitraryVariantSort *big.Int

	ruleCache  []Rule
	ruleSet    map[csstree.Node]struct{}
	classCache map[string][]Rule
	stylesheet *Stylesheet

	changedContent []Content
	fileModified   map[string]time.Time
	disposables    []func()

	// Dependency tracking state.
	candidateFiles []string
	configDeps     []string
	touchFile      string
	watcher        *watcher
	scanned        bool
}

func newContext(cfg *config.Resolved, logger *log.Logger) *Context {
	return &Context{
		Config:           cfg,
		log:              logger,
		candidateRuleMap: make(map[string][]*ruleSource),
		variantFns:       make(map[string][]plugin.VariantFunc),
		variantMap:       make(map[string][]variantEntry),
		ruleSet:          make(map[csstree.Node]struct{}),
		classCache:       make(map[string][]Rule),
		fileModified:     make(map[string]time.Time),
	}
}

// PushContent queues content for the next build.
func (c *Context) PushContent(content ...Content) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changedContent = append(c.changedContent, content...)
}

// PendingContent returns the number of queued content blocks.
func (c *Context) PendingContent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.changedContent)
}

// VariantOrder returns the registered variants by ascending sort bit.
func (c *Context) VariantOrder() []VariantSort {
	out := make([]VariantSort, len(c.variantOrder))
	for i, v := range c.variantOrder {
		out[i] = VariantSort{Name: v.Name, Sort: new(big.Int).Set(v.Sort)}
	}
	return out
}

// LayerOrder returns the bit that marks rules of layer l.
func (c *Context) LayerOrder(l Layer) *big.Int {
	return new(big.Int).Set(c.layerOrder[l])
}

// MinimumScreen is the smallest variant bit. Sort keys at or above it
// belong to the variants bucket.
func (c *Context) MinimumScreen() *big.Int {
	return new(big.Int).Set(c.minimumScreen)
}

// Stylesheet returns the last assembled stylesheet, or nil before the
// first build.
func (c *Context) Stylesheet() *Stylesheet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stylesheet
}

// Rules returns the cached rules sorted by sort key.
func (c *Context) Rules() []Rule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortRules(c.ruleCache)
}

// ContextStats describes the caches of a context.
type ContextStats struct {
	Identifiers  int
	Variants     int
	ClassCache   int
	RuleCache    int
	Base         int
	Components   int
	Utilities    int
	VariantRules int
}

// Stats returns cache sizes and the bucket sizes of the last build.
func (c *Context) Stats() ContextStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := ContextStats{
		Identifiers: len(c.candidateRuleMap),
		Variants:    len(c.variantOrder),
		ClassCache:  len(c.classCache),
		RuleCache:   len(c.ruleCache),
	}
	if c.stylesheet != nil {
		s.Base = len(c.stylesheet.Base)
		s.Components = len(c.stylesheet.Components)
		s.Utilities = len(c.stylesheet.Utilities)
		s.VariantRules = len(c.stylesheet.Variants)
	}
	return s
}

// trackModified stats files and records their modification times. It
// reports whether any file is new or newer than last recorded. Empty
// names are skipped.
func (c *Context) trackModified(files []string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return trackModified(files, c.fileModified)
}

// dispose runs and clears the disposables.
func (c *Context) dispose() {
	c.mu.Lock()
	fns := c.disposables
	c.disposables = nil
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func sortRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sort.Cmp(out[j].Sort) < 0
	})
	return out
}
