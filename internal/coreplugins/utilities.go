package coreplugins

import (
	"strings"

	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/plugin"
)

func decls(pairs ...string) []*csstree.Decl {
	out := make([]*csstree.Decl, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, csstree.NewDecl(pairs[i], pairs[i+1]))
	}
	return out
}

// property sets each of props to the value.
func property(props ...string) plugin.MatchFunc {
	return func(value string) []*csstree.Decl {
		out := make([]*csstree.Decl, 0, len(props))
		for _, p := range props {
			out = append(out, csstree.NewDecl(p, value))
		}
		return out
	}
}

// colorProperty sets prop to the value. Hex colors go through the opacity
// variable so that opacity utilities can adjust them.
func colorProperty(prop, opacityVar string) plugin.MatchFunc {
	return func(value string) []*csstree.Decl {
		if strings.HasPrefix(value, "#") {
			if withVar, ok := plugin.WithAlphaValue(value, "var("+opacityVar+")"); ok {
				return decls(opacityVar, "1", prop, withVar)
			}
		}
		return decls(prop, value)
	}
}

func options(api plugin.API, name string) plugin.Options {
	return plugin.Options{Variants: api.Variants(name)}
}

var displayValues = []string{
	"block", "inline-block", "inline", "flex", "inline-flex", "table", "inline-table",
	"table-caption", "table-cell", "table-column", "table-column-group",
	"table-footer-group", "table-header-group", "table-row-group", "table-row",
	"flow-root", "grid", "inline-grid", "contents", "list-item",
}

func display(api plugin.API) {
	nodes := make([]csstree.Node, 0, len(displayValues)+1)
	for _, v := range displayValues {
		nodes = append(nodes, csstree.NewRule("."+api.E(v), csstree.NewDecl("display", v)))
	}
	nodes = append(nodes, csstree.NewRule(".hidden", csstree.NewDecl("display", "none")))
	api.AddUtilities(nodes, options(api, "display"))
}

func textColor(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"text": colorProperty("color", "--tw-text-opacity"),
	}, plugin.MatchOptions{
		Options: options(api, "textColor"),
		Values:  plugin.FlattenColorPalette(themeMap(api, "textColor")),
		Type:    []string{plugin.TypeColor},
	})
}

func backgroundColor(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"bg": colorProperty("background-color", "--tw-bg-opacity"),
	}, plugin.MatchOptions{
		Options: options(api, "backgroundColor"),
		Values:  plugin.FlattenColorPalette(themeMap(api, "backgroundColor")),
		Type:    []string{plugin.TypeColor},
	})
}

func fill(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"fill": property("fill"),
	}, plugin.MatchOptions{
		Options: options(api, "fill"),
		Values:  plugin.FlattenColorPalette(themeMap(api, "fill")),
		Type:    []string{plugin.TypeColor, plugin.TypeAny},
	})
}

func width(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"w": property("width"),
	}, plugin.MatchOptions{
		Options: options(api, "width"),
		Values:  themeMap(api, "width"),
		Type:    []string{plugin.TypeLength},
	})
}

// spacingUtilities builds the all-sides, axis and per-side variants of a
// box property such as padding or margin.
func spacingUtilities(short, prop string) map[string]plugin.MatchFunc {
	return map[string]plugin.MatchFunc{
		short:       property(prop),
		short + "x": property(prop+"-left", prop+"-right"),
		short + "y": property(prop+"-top", prop+"-bottom"),
		short + "t": property(prop + "-top"),
		short + "r": property(prop + "-right"),
		short + "b": property(prop + "-bottom"),
		short + "l": property(prop + "-left"),
	}
}

func padding(api plugin.API) {
	api.MatchUtilities(spacingUtilities("p", "padding"), plugin.MatchOptions{
		Options: options(api, "padding"),
		Values:  themeMap(api, "padding"),
		Type:    []string{plugin.TypeLength},
	})
}

// margin scales carry their negative values as "-key" entries.
func margin(api plugin.API) {
	api.MatchUtilities(spacingUtilities("m", "margin"), plugin.MatchOptions{
		Options: options(api, "margin"),
		Values:  themeMap(api, "margin"),
		Type:    []string{plugin.TypeLength},
	})
}

func fontWeight(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"font": property("font-weight"),
	}, plugin.MatchOptions{
		Options: options(api, "fontWeight"),
		Values:  themeMap(api, "fontWeight"),
		Type:    []string{plugin.TypeLookup, plugin.TypeAny},
	})
}

func gridTemplateColumns(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"grid-cols": property("grid-template-columns"),
	}, plugin.MatchOptions{
		Options: options(api, "gridTemplateColumns"),
		Values:  themeMap(api, "gridTemplateColumns"),
		Type:    []string{plugin.TypeLookup, plugin.TypeList},
	})
}

func rotate(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"rotate": property("--tw-rotate"),
	}, plugin.MatchOptions{
		Options: options(api, "rotate"),
		Values:  themeMap(api, "rotate"),
		Type:    []string{plugin.TypeAngle},
	})
}

func content(api plugin.API) {
	api.MatchUtilities(map[string]plugin.MatchFunc{
		"content": property("content"),
	}, plugin.MatchOptions{
		Options: options(api, "content"),
		Values:  themeMap(api, "content"),
		Type:    []string{plugin.TypeAny},
	})
}
