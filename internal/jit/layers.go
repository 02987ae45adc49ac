package jit

import (
	"fmt"

	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/plugin"
)

// directives are the @tailwind params found in a stylesheet.
type directives map[string]struct{}

func (d directives) has(name string) bool {
	_, ok := d[name]
	return ok
}

// normalizeDirectives collects the @tailwind params of root, renaming the
// legacy "screens" directive to "variants". @layer, @responsive and
// @variants blocks need the matching directive when any of base,
// components or utilities is missing.
func normalizeDirectives(root *csstree.Root) (directives, error) {
	found := directives{}
	var layers []*csstree.AtRule
	csstree.WalkAtRules(root, "", func(a *csstree.AtRule) {
		switch a.Name {
		case "tailwind":
			if a.Params == "screens" {
				a.Params = "variants"
			}
			found[a.Params] = struct{}{}
		case "layer", "responsive", "variants":
			layers = append(layers, a)
		}
	})

	if found.has("base") && found.has("components") && found.has("utilities") {
		return found, nil
	}
	for _, a := range layers {
		switch {
		case a.Name == "layer" && isLayerName(a.Params):
			if !found.has(a.Params) {
				return nil, fmt.Errorf("%w: `@layer %s` is used but no matching `@tailwind %s` directive is present", ErrMissingDirective, a.Params, a.Params)
			}
		case a.Name == "responsive" || a.Name == "variants":
			if !found.has("utilities") {
				return nil, fmt.Errorf("%w: `@%s` is used but `@tailwind utilities` is missing", ErrMissingDirective, a.Name)
			}
		}
	}
	return found, nil
}

func isLayerName(s string) bool {
	return s == "base" || s == "components" || s == "utilities"
}

// collectLayerPlugins turns the children of @layer blocks into plugins and
// removes the blocks. Top-level @responsive and @variants blocks count as
// @layer utilities.
func collectLayerPlugins(root *csstree.Root) []plugin.Func {
	for _, n := range root.Nodes() {
		if a, ok := n.(*csstree.AtRule); ok && (a.Name == "responsive" || a.Name == "variants") {
			a.Name = "layer"
			a.Params = "utilities"
		}
	}

	var plugins []plugin.Func
	noPrefix := plugin.Options{RespectPrefix: plugin.Bool(false)}
	csstree.WalkAtRules(root, "layer", func(layer *csstree.AtRule) {
		if !isLayerName(layer.Params) {
			return
		}
		extractVariantAtRules(layer)
		params := layer.Params
		for _, node := range layer.RemoveAll() {
			nodes := []csstree.Node{node}
			switch params {
			case "base":
				plugins = append(plugins, func(api plugin.API) { api.AddBase(nodes) })
			case "components":
				plugins = append(plugins, func(api plugin.API) { api.AddComponents(nodes, noPrefix) })
			default:
				plugins = append(plugins, func(api plugin.API) { api.AddUtilities(nodes, noPrefix) })
			}
		}
		csstree.Remove(layer)
	})
	return plugins
}

// extractVariantAtRules unwraps nested @responsive and @variants blocks.
func extractVariantAtRules(c csstree.Container) {
	csstree.WalkAtRules(c, "", func(a *csstree.AtRule) {
		if a.Name != "responsive" && a.Name != "variants" {
			return
		}
		extractVariantAtRules(a)
		csstree.ReplaceWith(a, a.RemoveAll()...)
	})
}

// removeLayerRules drops @layer blocks left in root when an existing
// context was reused.
func removeLayerRules(root *csstree.Root) {
	csstree.WalkAtRules(root, "layer", func(a *csstree.AtRule) {
		if isLayerName(a.Params) {
			csstree.Remove(a)
		}
	})
}
