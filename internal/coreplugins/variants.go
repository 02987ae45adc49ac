package coreplugins

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/plugin"
)

func one(fn plugin.VariantFunc) []plugin.VariantFunc { return []plugin.VariantFunc{fn} }

func ensureContent(rule *csstree.Rule) {
	found := false
	csstree.WalkDecls(rule, "content", func(*csstree.Decl) { found = true })
	if !found {
		rule.Prepend(csstree.NewDecl("content", `""`))
	}
}

func pseudoElement(name, sep, pseudo string, opts plugin.TransformOptions) plugin.VariantFunc {
	return plugin.TransformAllSelectors(func(selector string) string {
		return plugin.UpdateAllClasses(selector, func(className string, m *plugin.ClassModifier) string {
			return m.WithPseudo(name+sep+className, pseudo)
		})
	}, opts)
}

// descendantPseudo targets the pseudo-element on every descendant, as in
// ".marker\:x *::marker".
func descendantPseudo(name, sep, pseudo string) plugin.VariantFunc {
	return plugin.TransformAllSelectors(func(selector string) string {
		return plugin.UpdateAllClasses(selector, func(className string, _ *plugin.ClassModifier) string {
			return name + sep + className
		}) + " *" + pseudo
	}, plugin.TransformOptions{})
}

// PseudoElementVariants registers first-letter, first-line, marker,
// selection, before and after.
func PseudoElementVariants(api plugin.API) {
	sep := separator(api)
	api.AddVariant("first-letter", one(pseudoElement("first-letter", sep, "::first-letter", plugin.TransformOptions{})), plugin.VariantOptions{})
	api.AddVariant("first-line", one(pseudoElement("first-line", sep, "::first-line", plugin.TransformOptions{})), plugin.VariantOptions{})
	api.AddVariant("marker", []plugin.VariantFunc{
		descendantPseudo("marker", sep, "::marker"),
		pseudoElement("marker", sep, "::marker", plugin.TransformOptions{}),
	}, plugin.VariantOptions{})
	api.AddVariant("selection", []plugin.VariantFunc{
		descendantPseudo("selection", sep, "::selection"),
		pseudoElement("selection", sep, "::selection", plugin.TransformOptions{}),
	}, plugin.VariantOptions{})
	withContent := plugin.TransformOptions{WithRule: ensureContent}
	api.AddVariant("before", one(pseudoElement("before", sep, "::before", withContent)), plugin.VariantOptions{})
	api.AddVariant("after", one(pseudoElement("after", sep, "::after", withContent)), plugin.VariantOptions{})
}

// pseudoClasses pairs a variant name with the pseudo-class it applies.
var pseudoClasses = [][2]string{
	// positional
	{"first", "first-child"}, {"last", "last-child"}, {"only", "only-child"},
	{"odd", "nth-child(odd)"}, {"even", "nth-child(even)"},
	{"first-of-type", "first-of-type"}, {"last-of-type", "last-of-type"}, {"only-of-type", "only-of-type"},
	// state
	{"visited", "visited"}, {"target", "target"},
	// forms
	{"default", "default"}, {"checked", "checked"}, {"indeterminate", "indeterminate"},
	{"placeholder-shown", "placeholder-shown"}, {"autofill", "autofill"}, {"required", "required"},
	{"valid", "valid"}, {"invalid", "invalid"}, {"in-range", "in-range"},
	{"out-of-range", "out-of-range"}, {"read-only", "read-only"},
	// content
	{"empty", "empty"},
	// interactive
	{"focus-within", "focus-within"}, {"hover", "hover"}, {"focus", "focus"},
	{"focus-visible", "focus-visible"}, {"active", "active"}, {"disabled", "disabled"},
}

// markerVariant builds the group- and peer- variants. The marker class
// itself is left alone and receives the state.
func markerVariant(variant, sep, marker, state string, join func(marker, selector string) string) plugin.VariantFunc {
	return plugin.TransformAllSelectors(func(selector string) string {
		updated := plugin.UpdateAllClasses(selector, func(className string, _ *plugin.ClassModifier) string {
			if "."+className == marker {
				return className
			}
			return variant + sep + className
		})
		if updated == selector {
			return ""
		}
		return plugin.ApplyPseudoToMarker(updated, marker, state, join)
	}, plugin.TransformOptions{})
}

// PseudoClassVariants registers the plain, group- and peer- pseudo-class
// variants.
func PseudoClassVariants(api plugin.API) {
	sep := separator(api)
	for _, pc := range pseudoClasses {
		name, state := pc[0], pc[1]
		api.AddVariant(name, one(plugin.TransformAllClasses(func(className string, m *plugin.ClassModifier) string {
			return m.WithPseudo(name+sep+className, ":"+state)
		}, plugin.TransformOptions{})), plugin.VariantOptions{})
	}

	group := plugin.PrefixSelector(prefix(api), ".group")
	for _, pc := range pseudoClasses {
		name := "group-" + pc[0]
		api.AddVariant(name, one(markerVariant(name, sep, group, pc[1], func(marker, selector string) string {
			return marker + " " + selector
		})), plugin.VariantOptions{})
	}

	peer := plugin.PrefixSelector(prefix(api), ".peer")
	for _, pc := range pseudoClasses {
		name := "peer-" + pc[0]
		api.AddVariant(name, one(markerVariant(name, sep, peer, pc[1], func(marker, selector string) string {
			if strings.HasPrefix(strings.TrimSpace(selector), "~") {
				return marker + selector
			}
			return marker + " ~ " + selector
		})), plugin.VariantOptions{})
	}
}

// DirectionVariants registers ltr and rtl.
func DirectionVariants(api plugin.API) {
	sep := separator(api)
	for _, dir := range []string{"ltr", "rtl"} {
		api.AddVariant(dir, one(plugin.TransformAllSelectors(func(selector string) string {
			return `[dir="` + dir + `"] ` + plugin.UpdateAllClasses(selector, func(className string, _ *plugin.ClassModifier) string {
				return dir + sep + className
			})
		}, plugin.TransformOptions{})), plugin.VariantOptions{})
	}
}

func mediaVariant(name, sep, query string) plugin.VariantFunc {
	return plugin.TransformLastClasses(func(className string, _ *plugin.ClassModifier) string {
		return name + sep + className
	}, plugin.TransformOptions{Wrap: func() *csstree.AtRule {
		return csstree.NewAtRule("media", query)
	}})
}

// ReducedMotionVariants registers motion-safe and motion-reduce.
func ReducedMotionVariants(api plugin.API) {
	sep := separator(api)
	api.AddVariant("motion-safe", one(mediaVariant("motion-safe", sep, "(prefers-reduced-motion: no-preference)")), plugin.VariantOptions{})
	api.AddVariant("motion-reduce", one(mediaVariant("motion-reduce", sep, "(prefers-reduced-motion: reduce)")), plugin.VariantOptions{})
}

// DarkVariants registers dark according to the darkMode setting. Nothing is
// registered when dark mode is off.
func DarkVariants(api plugin.API) {
	sep := separator(api)
	mode, _ := api.Config("darkMode").(string)
	switch mode {
	case "class":
		dark := plugin.PrefixSelector(prefix(api), ".dark")
		api.AddVariant("dark", one(plugin.TransformAllSelectors(func(selector string) string {
			updated := plugin.UpdateLastClasses(selector, func(className string, _ *plugin.ClassModifier) string {
				return "dark" + sep + className
			})
			if updated == selector {
				return ""
			}
			return dark + " " + updated
		}, plugin.TransformOptions{})), plugin.VariantOptions{})
	case "media":
		api.AddVariant("dark", one(mediaVariant("dark", sep, "(prefers-color-scheme: dark)")), plugin.VariantOptions{})
	}
}

// ScreenVariants registers one variant per theme screen, smallest first.
func ScreenVariants(api plugin.API) {
	sep := separator(api)
	screens := themeMap(api, "screens")
	for _, name := range SortScreens(screens) {
		api.AddVariant(name, one(mediaVariant(name, sep, BuildMediaQuery(screens[name]))), plugin.VariantOptions{})
	}
}

// SortScreens orders screen names by their minimum width. Screens without
// one come last; ties are broken by name.
func SortScreens(screens map[string]any) []string {
	names := make([]string, 0, len(screens))
	for name := range screens {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := minWidth(screens[names[i]]), minWidth(screens[names[j]])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
	return names
}

func minWidth(screen any) float64 {
	var s string
	switch v := screen.(type) {
	case string:
		s = v
	case map[string]any:
		s, _ = v["min"].(string)
		if s == "" {
			s, _ = v["min-width"].(string)
		}
	}
	n, err := strconv.ParseFloat(strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz%"), 64)
	if err != nil {
		return math.MaxFloat64
	}
	return n
}

// BuildMediaQuery turns a screen value into a media query. A string is a
// minimum width; a map may hold min, max or a raw query.
func BuildMediaQuery(screen any) string {
	switch v := screen.(type) {
	case string:
		return "(min-width: " + v + ")"
	case map[string]any:
		if raw, ok := v["raw"].(string); ok {
			return raw
		}
		var parts []string
		for _, k := range []string{"min", "min-width"} {
			if s, ok := v[k].(string); ok {
				parts = append(parts, "(min-width: "+s+")")
				break
			}
		}
		for _, k := range []string{"max", "max-width"} {
			if s, ok := v[k].(string); ok {
				parts = append(parts, "(max-width: "+s+")")
				break
			}
		}
		return strings.Join(parts, " and ")
	}
	return ""
}
