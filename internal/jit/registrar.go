package jit

import (
	"math/big"
	"math/bits"
	"slices"
	"sort"

	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/coreplugins"
	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/plugin"
)

// pluginAPI is the plugin.API handed to plugins while a context is set up.
type pluginAPI struct {
	ctx     *Context
	cfg     *config.Resolved
	offsets [3]int64
}

var _ plugin.API = (*pluginAPI)(nil)

func (a *pluginAPI) nextOffset(l Layer) *big.Int {
	off := a.offsets[l]
	a.offsets[l]++
	return big.NewInt(off)
}

func (a *pluginAPI) register(identifier string, src *ruleSource) {
	a.ctx.candidateRuleMap[identifier] = append(a.ctx.candidateRuleMap[identifier], src)
}

// prefixIdentifier prefixes a class identifier. The universal identifier
// is never prefixed.
func (a *pluginAPI) prefixIdentifier(identifier string, opts ruleOptions) string {
	if identifier == "*" || !opts.respectPrefix {
		return identifier
	}
	return a.cfg.Prefix + identifier
}

func resolveOptions(opts plugin.Options, defaults ruleOptions) ruleOptions {
	if opts.RespectPrefix != nil {
		defaults.respectPrefix = *opts.RespectPrefix
	}
	if opts.RespectImportant != nil {
		defaults.respectImportant = *opts.RespectImportant
	}
	if opts.RespectVariants != nil {
		defaults.respectVariants = *opts.RespectVariants
	}
	return defaults
}

func (a *pluginAPI) AddBase(nodes []csstree.Node) {
	opts := ruleOptions{respectVariants: true}
	for _, id := range withIdentifiers(nodes) {
		a.register(a.prefixIdentifier(id.identifier, ruleOptions{}), &ruleSource{
			meta: ruleMeta{sort: a.nextOffset(LayerBase), layer: LayerBase, options: opts},
			rule: id.node,
		})
	}
}

func (a *pluginAPI) AddComponents(nodes []csstree.Node, options plugin.Options) {
	a.addStatic(nodes, LayerComponents, resolveOptions(options, ruleOptions{
		respectPrefix:   true,
		respectVariants: true,
	}))
}

func (a *pluginAPI) AddUtilities(nodes []csstree.Node, options plugin.Options) {
	a.addStatic(nodes, LayerUtilities, resolveOptions(options, ruleOptions{
		respectPrefix:    true,
		respectImportant: true,
		respectVariants:  true,
	}))
}

func (a *pluginAPI) addStatic(nodes []csstree.Node, l Layer, opts ruleOptions) {
	for _, id := range withIdentifiers(nodes) {
		a.register(a.prefixIdentifier(id.identifier, opts), &ruleSource{
			meta: ruleMeta{sort: a.nextOffset(l), layer: l, options: opts},
			rule: id.node,
		})
	}
}

// MatchUtilities shares one offset between all identifiers of the call.
func (a *pluginAPI) MatchUtilities(utilities map[string]plugin.MatchFunc, options plugin.MatchOptions) {
	opts := resolveOptions(options.Options, ruleOptions{
		respectPrefix:    true,
		respectImportant: true,
		respectVariants:  true,
	})
	types := options.Type
	if len(types) == 0 {
		types = []string{plugin.TypeAny}
	}
	opacity := a.cfg.ThemeMap("opacity")
	offset := a.nextOffset(LayerUtilities)

	identifiers := make([]string, 0, len(utilities))
	for id := range utilities {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)

	for _, identifier := range identifiers {
		fn := utilities[identifier]
		a.register(a.prefixIdentifier(identifier, opts), &ruleSource{
			meta: ruleMeta{sort: offset, layer: LayerUtilities, options: opts},
			match: func(modifier string) []csstree.Node {
				value, coerced, ok := plugin.CoerceValue(types, modifier, options.Values, opacity)
				if !ok || !slices.Contains(types, coerced) {
					return nil
				}
				if !plugin.IsValidArbitraryValue(value) {
					return nil
				}
				decls := fn(value)
				if len(decls) == 0 {
					return nil
				}
				rule := csstree.NewRule("." + plugin.NameClass(identifier, modifier))
				for _, d := range decls {
					rule.Append(d)
				}
				return []csstree.Node{rule}
			},
		})
	}
}

// AddVariant registers a variant. Registering a name again replaces its
// functions and keeps its position.
func (a *pluginAPI) AddVariant(name string, fns []plugin.VariantFunc, opts plugin.VariantOptions) {
	if _, ok := a.ctx.variantFns[name]; !ok {
		a.ctx.variantList = insertInto(a.ctx.variantList, name, opts.Before)
	}
	a.ctx.variantFns[name] = fns
}

func (a *pluginAPI) Theme(path string) any         { return a.cfg.ThemeValue(path) }
func (a *pluginAPI) Config(path string) any        { return a.cfg.Value(path) }
func (a *pluginAPI) Variants(path string) []string { return a.cfg.PluginVariants(path) }
func (a *pluginAPI) CorePlugins(name string) bool  { return a.cfg.CorePluginEnabled(name) }
func (a *pluginAPI) Prefix(selector string) string { return plugin.PrefixSelector(a.cfg.Prefix, selector) }
func (a *pluginAPI) E(className string) string     { return csstree.EscapeClassName(className) }

// insertInto inserts value before the earliest of before found in list,
// or appends it.
func insertInto(list []string, value string, before []string) []string {
	idx := -1
	for _, other := range before {
		if i := slices.Index(list, other); i != -1 && (idx == -1 || i < idx) {
			idx = i
		}
	}
	if idx == -1 {
		return append(list, value)
	}
	return slices.Insert(list, idx, value)
}

type identified struct {
	identifier string
	node       csstree.Node
}

// withIdentifiers pairs each node with every class its selectors mention.
// Nodes without classes always apply and get the universal identifier.
func withIdentifiers(nodes []csstree.Node) []identified {
	var out []identified
	for _, node := range nodes {
		var classes []string
		switch n := node.(type) {
		case *csstree.Rule:
			classes = plugin.Classes(n.Selector)
		case *csstree.AtRule:
			csstree.WalkRules(n, func(r *csstree.Rule) {
				classes = append(classes, plugin.Classes(r.Selector)...)
			})
		}
		classes = uniqueStrings(classes)
		if len(classes) == 0 {
			out = append(out, identified{identifier: "*", node: node})
			continue
		}
		for _, c := range classes {
			out = append(out, identified{identifier: c, node: node})
		}
	}
	return out
}

func uniqueStrings(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// resolvePlugins lists the plugins of a context in registration order.
// Custom variants register between the pseudo variants and the direction,
// motion, dark and screen variants.
func resolvePlugins(cfg *config.Resolved, root *csstree.Root) []plugin.Func {
	var plugins []plugin.Func
	for _, name := range config.CorePluginList {
		if !cfg.CorePluginEnabled(name) {
			continue
		}
		if p, ok := coreplugins.Get(name); ok {
			plugins = append(plugins, p)
		}
	}
	plugins = append(plugins,
		coreplugins.PseudoElementVariants,
		coreplugins.PseudoClassVariants,
	)
	for _, p := range cfg.Plugins {
		if p.Handler != nil {
			plugins = append(plugins, p.Handler)
		}
	}
	plugins = append(plugins,
		coreplugins.DirectionVariants,
		coreplugins.ReducedMotionVariants,
		coreplugins.DarkVariants,
		coreplugins.ScreenVariants,
	)
	return append(plugins, collectLayerPlugins(root)...)
}

// registerPlugins runs every plugin against ctx and lays out the sort
// bits: registration offsets at the bottom, then one bit per layer, then
// one bit per variant function.
func registerPlugins(ctx *Context, plugins []plugin.Func) {
	api := &pluginAPI{ctx: ctx, cfg: ctx.Config}
	for _, p := range plugins {
		p(api)
	}

	highest := max(api.offsets[LayerBase], api.offsets[LayerComponents], api.offsets[LayerUtilities])
	reserved := uint(max(bits.Len64(uint64(highest)), 1))
	for l := range ctx.layerOrder {
		ctx.layerOrder[l] = new(big.Int).Lsh(big.NewInt(1), reserved+uint(l))
	}
	reserved += 3

	offset := 0
	ctx.variantOrder = make([]VariantSort, 0, len(ctx.variantList))
	for i, name := range ctx.variantList {
		bit := new(big.Int).Lsh(big.NewInt(1), uint(i+offset)+reserved)
		ctx.variantOrder = append(ctx.variantOrder, VariantSort{Name: name, Sort: bit})
		offset += max(len(ctx.variantFns[name]), 1) - 1
	}
	sort.SliceStable(ctx.variantOrder, func(i, j int) bool {
		return ctx.variantOrder[i].Sort.Cmp(ctx.variantOrder[j].Sort) < 0
	})

	// Arbitrary variants share the bit above every registered variant.
	ctx.arbitraryVariantSort = new(big.Int).Lsh(big.NewInt(1), uint(len(ctx.variantList)+offset)+reserved)
	ctx.minimumScreen = ctx.arbitraryVariantSort
	if len(ctx.variantOrder) > 0 {
		ctx.minimumScreen = ctx.variantOrder[0].Sort
	}

	for _, v := range ctx.variantOrder {
		fns := ctx.variantFns[v.Name]
		entries := make([]variantEntry, len(fns))
		for idx, fn := range fns {
			entries[idx] = variantEntry{sort: new(big.Int).Lsh(v.Sort, uint(idx)), fn: fn}
		}
		ctx.variantMap[v.Name] = entries
	}
}
