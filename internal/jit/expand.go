package jit

import (
	"math/big"
	"time"

	"github.com/yacobolo/jitcss/internal/csstree"
)

// buildStylesheet partitions rules, sorted by sort key, into buckets. A
// rule at or above the minimum variant bit goes to Variants whatever its
// layer.
func (c *Context) buildStylesheet(rules []Rule) *Stylesheet {
	s := &Stylesheet{}
	zero := new(big.Int)
	and := new(big.Int)
	for _, r := range sortRules(rules) {
		switch {
		case r.Sort.Cmp(c.minimumScreen) >= 0:
			s.Variants = append(s.Variants, r.Node)
		case and.And(r.Sort, c.layerOrder[LayerBase]).Cmp(zero) != 0:
			s.Base = append(s.Base, r.Node)
		case and.And(r.Sort, c.layerOrder[LayerComponents]).Cmp(zero) != 0:
			s.Components = append(s.Components, r.Node)
		case and.And(r.Sort, c.layerOrder[LayerUtilities]).Cmp(zero) != 0:
			s.Utilities = append(s.Utilities, r.Node)
		}
	}
	return s
}

// addRules appends rules not cached yet. Rules are identified by node.
func (c *Context) addRules(rules []Rule) {
	for _, r := range rules {
		if _, ok := c.ruleSet[r.Node]; ok {
			continue
		}
		c.ruleSet[r.Node] = struct{}{}
		c.ruleCache = append(c.ruleCache, r)
	}
}

// expand replaces the @tailwind directives of root with the generated
// CSS. Without directives root is left alone and the queued content is
// kept for the next stylesheet that has them.
func (r *Registry) expand(c *Context, root *csstree.Root) {
	layerNodes := map[string]*csstree.AtRule{}
	csstree.WalkAtRules(root, "tailwind", func(a *csstree.AtRule) {
		switch a.Params {
		case "base", "components", "utilities", "variants":
			layerNodes[a.Params] = a
		}
	})
	if len(layerNodes) == 0 {
		return
	}

	// Read before locking the context; the registry never waits on one.
	stats := r.Stats()

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	candidates := c.extractCandidates(r.contentMatch)
	r.log.Debugf("Reading changed files: %s", time.Since(start))

	classCacheCount := len(c.classCache)
	start = time.Now()
	rules := c.generateRules(candidates)
	r.log.Debugf("Generate rules: %s", time.Since(start))

	start = time.Now()
	if c.stylesheet == nil || len(c.classCache) != classCacheCount {
		c.addRules(rules)
		c.stylesheet = c.buildStylesheet(c.ruleCache)
	}
	r.log.Debugf("Build stylesheet: %s", time.Since(start))

	replace := func(name string, nodes []csstree.Node) {
		if a := layerNodes[name]; a != nil {
			csstree.ReplaceWith(a, csstree.CloneAll(nodes)...)
		}
	}
	replace("base", c.stylesheet.Base)
	replace("components", c.stylesheet.Components)
	replace("utilities", c.stylesheet.Utilities)
	if layerNodes["variants"] != nil {
		replace("variants", c.stylesheet.Variants)
	} else {
		root.Append(csstree.CloneAll(c.stylesheet.Variants)...)
	}

	r.log.Debugf("Potential classes: %d", len(candidates))
	r.log.Debugf("Active contexts: %d", stats.Contexts)
	r.log.Debugf("Content match entries: %d", r.contentMatch.Len())

	c.changedContent = nil
	removeLayerRules(root)
}
