package config

import (
	"slices"
	"sort"
)

// Resolved is a normalized config. It is never mutated after Resolve
// returns.
type Resolved struct {
	Prefix    string
	Important Important
	Separator string
	DarkMode  string
	Mode      string

	// Theme holds fully evaluated scales: nested map[string]any with
	// string or []string leaves.
	Theme map[string]any
	// Variants is nil when GlobalVariants is set.
	Variants       map[string][]string
	GlobalVariants []string
	VariantOrder   []string
	CorePlugins    []string
	Plugins        []Plugin
	Purge          Purge

	// Notices are deprecation messages for the caller to log once.
	Notices []string
	// Hash identifies the logical content of the config.
	Hash string
}

// ThemeValue returns the theme value at path, or nil.
func (r *Resolved) ThemeValue(path string) any {
	return Lookup(r.Theme, path)
}

// ThemeMap returns the theme scale at path as a map, or nil.
func (r *Resolved) ThemeMap(path string) map[string]any {
	m, _ := r.ThemeValue(path).(map[string]any)
	return m
}

// Value returns the config value at path, for the plugin config accessor.
func (r *Resolved) Value(path string) any {
	segs := ToPath(path)
	if len(segs) == 0 {
		return nil
	}
	rest := segs[1:]
	switch segs[0] {
	case "prefix":
		return r.Prefix
	case "separator":
		return r.Separator
	case "darkMode":
		return r.DarkMode
	case "mode":
		return r.Mode
	case "important":
		if r.Important.Selector != "" {
			return r.Important.Selector
		}
		return r.Important.Enabled
	case "theme":
		return lookupSegments(r.Theme, rest)
	case "variants":
		if r.GlobalVariants != nil {
			return r.GlobalVariants
		}
		if len(rest) == 0 {
			return r.Variants
		}
		return r.Variants[rest[0]]
	case "variantOrder":
		return r.VariantOrder
	case "corePlugins":
		return r.CorePlugins
	}
	return nil
}

// PluginVariants returns the variants configured for a core plugin.
func (r *Resolved) PluginVariants(name string) []string {
	if r.GlobalVariants != nil {
		return slices.Clone(r.GlobalVariants)
	}
	return slices.Clone(r.Variants[name])
}

// CorePluginEnabled reports whether the named core plugin is enabled.
func (r *Resolved) CorePluginEnabled(name string) bool {
	return slices.Contains(r.CorePlugins, name)
}

// Resolve normalizes cfg with its presets.
func Resolve(cfg *Config) *Resolved {
	configs := allConfigs(cfg)
	withPlugins := extractPluginConfigs(configs)

	r := &Resolved{Separator: ":"}

	// Scalars come from the first config that sets them.
	for i := len(withPlugins) - 1; i >= 0; i-- {
		c := withPlugins[i]
		if c.Prefix != "" {
			r.Prefix = c.Prefix
		}
		if c.Important != nil {
			r.Important = *c.Important
		}
		if c.Separator != "" {
			r.Separator = c.Separator
		}
		if c.DarkMode != "" {
			r.DarkMode = c.DarkMode
		}
		if c.Mode != "" {
			r.Mode = c.Mode
		}
		if c.Purge != nil {
			r.Purge = *c.Purge
		}
		if c.Content != nil {
			r.Purge.Content = c.Content
		}
	}
	if r.DarkMode == "false" {
		r.DarkMode = ""
	}

	r.VariantOrder = DefaultVariantOrder
	for _, c := range withPlugins {
		if c.VariantOrder != nil {
			r.VariantOrder = c.VariantOrder
			break
		}
	}

	themes := make([]map[string]any, 0, len(withPlugins))
	variants := make([]*Variants, 0, len(withPlugins))
	corePlugins := make([]*CorePlugins, 0, len(withPlugins))
	for _, c := range withPlugins {
		themes = append(themes, c.Theme)
		variants = append(variants, c.Variants)
		corePlugins = append(corePlugins, c.CorePlugins)
	}

	theme, extend := mergeThemes(themes)
	theme = resolveFunctionKeys(mergeExtensions(theme, extend))
	var notices []string
	resolvePaletteRefs(theme, &notices)
	r.Theme = theme
	r.Notices = uniq(notices)
	sort.Strings(r.Notices)

	r.Variants, r.GlobalVariants = resolveVariants(variants, r.VariantOrder)
	r.CorePlugins = resolveCorePlugins(corePlugins)

	// Plugins of lower-priority configs register first.
	for i := len(configs) - 1; i >= 0; i-- {
		r.Plugins = append(r.Plugins, configs[i].Plugins...)
	}

	r.Hash = Hash(r)
	return r
}

// allConfigs flattens cfg and its presets, highest priority first. Later
// presets take priority over earlier ones.
func allConfigs(cfg *Config) []*Config {
	presets := cfg.Presets
	if presets == nil {
		presets = []*Config{Default()}
	}
	out := []*Config{cfg}
	for i := len(presets) - 1; i >= 0; i-- {
		out = append(out, allConfigs(presets[i])...)
	}
	return out
}

// extractPluginConfigs inserts the configs carried by plugins right after
// the config that declares them.
func extractPluginConfigs(configs []*Config) []*Config {
	var out []*Config
	for _, c := range configs {
		out = append(out, c)
		for _, p := range c.Plugins {
			if p.Config == nil {
				continue
			}
			out = append(out, extractPluginConfigs([]*Config{p.Config})...)
		}
	}
	return out
}
