package config

import (
	"slices"
	"sort"
)

// Variants configures which variants each core plugin generates.
//
// Global, when set on the user config, replaces per-plugin resolution
// entirely. Lists replace the inherited list for a plugin; Funcs compute it
// from the inherited list; Extend appends to it.
type Variants struct {
	Global []string
	Lists  map[string][]string
	Funcs  map[string]VariantsFunc
	Extend map[string][]string
}

// VariantsFunc computes a plugin's variant list relative to the lists
// resolved from lower-priority configs.
type VariantsFunc func(h VariantHelpers) []string

// VariantHelpers splice variant lists relative to the inherited list of
// one plugin.
type VariantHelpers struct {
	resolved map[string][]string
	plugin   string
}

// Variants returns the resolved list for another plugin.
func (h VariantHelpers) Variants(path string) []string {
	return slices.Clone(h.resolved[path])
}

// Before inserts toInsert ahead of pivot. An empty pivot prepends; a
// pivot that is not in the list appends.
func (h VariantHelpers) Before(toInsert []string, pivot string) []string {
	return insertBefore(h.resolved[h.plugin], toInsert, pivot)
}

// After inserts toInsert behind pivot. An empty pivot appends; a pivot that
// is not in the list prepends.
func (h VariantHelpers) After(toInsert []string, pivot string) []string {
	return insertAfter(h.resolved[h.plugin], toInsert, pivot)
}

// Without removes toRemove from the inherited list.
func (h VariantHelpers) Without(toRemove []string) []string {
	var out []string
	for _, v := range h.resolved[h.plugin] {
		if !slices.Contains(toRemove, v) {
			out = append(out, v)
		}
	}
	return out
}

func insertBefore(existing, toInsert []string, pivot string) []string {
	if pivot == "" {
		return concat(toInsert, existing)
	}
	idx := slices.Index(existing, pivot)
	if idx == -1 {
		return concat(existing, toInsert)
	}
	return concat(existing[:idx], toInsert, existing[idx:])
}

func insertAfter(existing, toInsert []string, pivot string) []string {
	if pivot == "" {
		return concat(existing, toInsert)
	}
	idx := slices.Index(existing, pivot)
	if idx == -1 {
		return concat(toInsert, existing)
	}
	return concat(existing[:idx+1], toInsert, existing[idx+1:])
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// resolveVariants merges variant configs given highest priority first. A
// global list on the first config short-circuits the merge.
func resolveVariants(configs []*Variants, order []string) (map[string][]string, []string) {
	if len(configs) > 0 && configs[0] != nil && configs[0].Global != nil {
		return nil, slices.Clone(configs[0].Global)
	}

	resolved := make(map[string][]string)
	// each config's extensions land in front of the lower-priority ones
	extensions := make(map[string][][]string)

	for i := len(configs) - 1; i >= 0; i-- {
		v := configs[i]
		if v == nil {
			continue
		}
		for _, name := range sortedKeys(v.Lists) {
			resolved[name] = slices.Clone(v.Lists[name])
		}
		for _, name := range sortedKeys(v.Funcs) {
			resolved[name] = v.Funcs[name](VariantHelpers{resolved: resolved, plugin: name})
		}
		for _, name := range sortedKeys(v.Extend) {
			extensions[name] = append([][]string{v.Extend[name]}, extensions[name]...)
		}
	}

	for name, exts := range extensions {
		merged := uniq(concat(resolved[name], concat(exts...)))
		if len(concat(exts...)) > 0 {
			sort.SliceStable(merged, func(a, b int) bool {
				return slices.Index(order, merged[a]) < slices.Index(order, merged[b])
			})
		}
		resolved[name] = merged
	}
	return resolved, nil
}

func uniq(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resolveCorePlugins applies core plugin configs from lowest to highest
// priority starting from the full list.
func resolveCorePlugins(configs []*CorePlugins) []string {
	resolved := slices.Clone(CorePluginList)
	for i := len(configs) - 1; i >= 0; i-- {
		c := configs[i]
		switch {
		case c == nil:
		case c.Func != nil:
			resolved = c.Func(resolved)
		case c.Only != nil:
			resolved = slices.Clone(c.Only)
		default:
			resolved = slices.DeleteFunc(resolved, func(name string) bool {
				enabled, ok := c.Toggle[name]
				return ok && !enabled
			})
		}
	}
	return resolved
}

// CorePluginList names the core utility plugins in registration order.
var CorePluginList = []string{
	"preflight",
	"display",
	"textColor",
	"backgroundColor",
	"fill",
	"width",
	"padding",
	"margin",
	"fontWeight",
	"gridTemplateColumns",
	"rotate",
	"content",
}
