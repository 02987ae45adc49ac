package jit

import (
	"math/big"
	"sort"
	"strings"

	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/plugin"
)

// match is a rule produced for a candidate, before its layer bit is added.
type match struct {
	meta ruleMeta
	node csstree.Node
}

// splitWithSeparator splits a candidate at every separator that is not
// inside square brackets.
func splitWithSeparator(input, separator string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(input); i++ {
		switch {
		case input[i] == '[':
			depth++
		case input[i] == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.HasPrefix(input[i:], separator):
			parts = append(parts, input[start:i])
			start = i + len(separator)
			i += len(separator) - 1
		}
	}
	return append(parts, input[start:])
}

// permutation is a split of a candidate into an identifier and modifier.
type permutation struct {
	prefix, modifier string
}

// candidatePermutations splits candidate at each dash, rightmost first.
// A candidate ending in "]" is only split right before its "[".
func candidatePermutations(candidate string) []permutation {
	var out []permutation
	if strings.HasSuffix(candidate, "]") {
		if idx := strings.IndexByte(candidate, '['); idx > 0 {
			if c := candidate[idx-1]; c == '-' || c == '/' {
				out = append(out, permutation{candidate[:idx-1], candidate[idx:]})
				return append(out, dashPermutations(candidate, idx-2)...)
			}
		}
		return nil
	}
	return dashPermutations(candidate, len(candidate)-1)
}

func dashPermutations(candidate string, last int) []permutation {
	var out []permutation
	for last >= 0 {
		idx := strings.LastIndexByte(candidate[:last+1], '-')
		if idx < 0 {
			break
		}
		out = append(out, permutation{candidate[:idx], candidate[idx+1:]})
		last = idx - 1
	}
	return out
}

// matchedPlugins is a set of rule sources and the modifier to call them
// with.
type matchedPlugins struct {
	sources  []*ruleSource
	modifier string
}

// resolveMatchedPlugins finds the rule sources for a class candidate: the
// exact identifier with the DEFAULT modifier, then the longest identifier
// prefix. A dash right after the prefix makes the modifier negative.
func (c *Context) resolveMatchedPlugins(candidate string) []matchedPlugins {
	var out []matchedPlugins
	if sources, ok := c.candidateRuleMap[candidate]; ok {
		out = append(out, matchedPlugins{sources, "DEFAULT"})
	}

	prefix := c.Config.Prefix
	stripped, negative := candidate, false
	if len(candidate) > len(prefix) && candidate[len(prefix)] == '-' {
		negative = true
		stripped = prefix + candidate[len(prefix)+1:]
	}
	for _, p := range candidatePermutations(stripped) {
		if sources, ok := c.candidateRuleMap[p.prefix]; ok {
			modifier := p.modifier
			if negative {
				modifier = "-" + modifier
			}
			return append(out, matchedPlugins{sources, modifier})
		}
	}
	return out
}

// resolveMatches produces the rules for one candidate with its prefix,
// important flag and variants applied.
func (c *Context) resolveMatches(candidate string) []match {
	parts := splitWithSeparator(candidate, c.Config.Separator)
	classCandidate := parts[len(parts)-1]
	variants := parts[:len(parts)-1]

	important := false
	if strings.HasPrefix(classCandidate, "!") {
		important = true
		classCandidate = classCandidate[1:]
	}

	var out []match
	for _, mp := range c.resolveMatchedPlugins(classCandidate) {
		var matches []match
		for _, src := range mp.sources {
			switch {
			case src.match != nil:
				for _, n := range src.match(mp.modifier) {
					matches = append(matches, match{meta: src.meta, node: n})
				}
			case mp.modifier == "DEFAULT":
				// Static rules only apply to their exact class.
				matches = append(matches, match{meta: src.meta, node: src.rule})
			}
		}

		matches = c.applyPrefix(matches)
		if important {
			matches = applyImportant(matches)
		}
		for i := len(variants) - 1; i >= 0; i-- {
			matches = c.applyVariant(variants[i], matches)
		}
		out = append(out, matches...)
	}
	return out
}

func (c *Context) applyPrefix(matches []match) []match {
	if c.Config.Prefix == "" {
		return matches
	}
	for i, m := range matches {
		if !m.meta.options.respectPrefix {
			continue
		}
		node := m.node.Clone()
		walkRulesSelf(node, func(r *csstree.Rule) {
			r.Selector = plugin.PrefixSelector(c.Config.Prefix, r.Selector)
		})
		matches[i].node = node
	}
	return matches
}

// applyImportant marks every class with "!" and every declaration
// !important.
func applyImportant(matches []match) []match {
	out := make([]match, 0, len(matches))
	for _, m := range matches {
		node := m.node.Clone()
		walkRulesSelf(node, func(r *csstree.Rule) {
			r.Selector = plugin.UpdateAllClasses(r.Selector, func(className string, _ *plugin.ClassModifier) string {
				return "!" + className
			})
			csstree.WalkDecls(r, "", func(d *csstree.Decl) { d.Important = true })
		})
		out = append(out, match{meta: m.meta, node: node})
	}
	return out
}

// applyVariant produces one copy of each match per function of the
// variant. Unknown variants produce nothing.
func (c *Context) applyVariant(variant string, matches []match) []match {
	if len(matches) == 0 {
		return matches
	}

	entries, ok := c.variantMap[variant]
	if !ok {
		fn, ok := arbitraryVariant(variant)
		if !ok {
			return nil
		}
		entries = []variantEntry{{sort: c.arbitraryVariantSort, fn: fn}}
	}

	var out []match
	for _, m := range matches {
		if !m.meta.options.respectVariants {
			out = append(out, m)
			continue
		}
		for _, e := range entries {
			vctx := &plugin.VariantContext{
				Container: csstree.NewRoot(m.node.Clone()),
				Separator: c.Config.Separator,
			}
			if !e.fn(vctx) {
				continue
			}
			nodes := vctx.Container.RemoveAll()
			if len(nodes) == 0 {
				continue
			}
			meta := m.meta
			meta.sort = new(big.Int).Or(e.sort, m.meta.sort)
			out = append(out, match{meta: meta, node: nodes[0]})
		}
	}
	return out
}

// arbitraryVariant builds a variant from "[selector]" where "&" stands for
// the rule's selector, as in "[&:nth-child(3)]".
func arbitraryVariant(variant string) (plugin.VariantFunc, bool) {
	if len(variant) < 3 || variant[0] != '[' || variant[len(variant)-1] != ']' {
		return nil, false
	}
	format := variant[1 : len(variant)-1]
	if !strings.Contains(format, "&") || !plugin.IsValidArbitraryValue(format) {
		return nil, false
	}
	format = strings.ReplaceAll(format, "_", " ")
	return func(ctx *plugin.VariantContext) bool {
		csstree.WalkRules(ctx.Container, func(r *csstree.Rule) {
			if csstree.InKeyframes(r) {
				return
			}
			selectors := r.Selectors()
			for i, sel := range selectors {
				selectors[i] = strings.ReplaceAll(format, "&", plugin.UpdateLastClasses(sel, func(className string, _ *plugin.ClassModifier) string {
					return variant + ctx.Separator + className
				}))
			}
			r.SetSelectors(selectors)
		})
		return true
	}, true
}

// generateRules resolves every candidate not seen before and returns the
// rules of all candidates with their final sort keys. Candidates without
// rules are remembered too.
func (c *Context) generateRules(candidates map[string]struct{}) []Rule {
	sorted := make([]string, 0, len(candidates))
	for cand := range candidates {
		sorted = append(sorted, cand)
	}
	sort.Strings(sorted)

	var all []Rule
	for _, cand := range sorted {
		if rules, ok := c.classCache[cand]; ok {
			all = append(all, rules...)
			continue
		}
		matches := c.resolveMatches(cand)
		rules := make([]Rule, 0, len(matches))
		for _, m := range matches {
			rules = append(rules, Rule{
				Sort: new(big.Int).Or(m.meta.sort, c.layerOrder[m.meta.layer]),
				Node: c.applyConfigImportant(m),
			})
		}
		c.classCache[cand] = rules
		all = append(all, rules...)
	}
	return all
}

// applyConfigImportant applies the important setting to rules that
// respect it. A selector nests the rules under it; true marks their
// declarations !important. Keyframes are left alone.
func (c *Context) applyConfigImportant(m match) csstree.Node {
	imp := c.Config.Important
	if !m.meta.options.respectImportant || (!imp.Enabled && imp.Selector == "") {
		return m.node
	}
	node := m.node.Clone()
	walkRulesSelf(node, func(r *csstree.Rule) {
		if csstree.InKeyframes(r) {
			return
		}
		if imp.Selector != "" {
			selectors := r.Selectors()
			for i, sel := range selectors {
				selectors[i] = imp.Selector + " " + sel
			}
			r.SetSelectors(selectors)
			return
		}
		for _, n := range r.Nodes() {
			if d, ok := n.(*csstree.Decl); ok {
				d.Important = true
			}
		}
	})
	return node
}

// walkRulesSelf visits n when it is a rule and every rule below it.
func walkRulesSelf(n csstree.Node, fn func(*csstree.Rule)) {
	if r, ok := n.(*csstree.Rule); ok {
		fn(r)
	}
	if c, ok := n.(csstree.Container); ok {
		csstree.WalkRules(c, fn)
	}
}
