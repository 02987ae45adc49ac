package config

// DefaultVariantOrder is the order variants added through Variants.Extend
// are sorted into.
var DefaultVariantOrder = []string{
	"first", "last", "odd", "even", "visited", "checked", "empty", "read-only",
	"group-hover", "group-focus", "focus-within", "hover", "focus",
	"focus-visible", "active", "disabled",
}

func spacing() map[string]any {
	return map[string]any{
		"px": "1px", "0": "0px", "0.5": "0.125rem", "1": "0.25rem", "1.5": "0.375rem",
		"2": "0.5rem", "2.5": "0.625rem", "3": "0.75rem", "3.5": "0.875rem",
		"4": "1rem", "5": "1.25rem", "6": "1.5rem", "8": "2rem", "10": "2.5rem",
		"12": "3rem", "16": "4rem", "20": "5rem", "24": "6rem", "32": "8rem",
		"48": "12rem", "64": "16rem", "96": "24rem",
	}
}

func colors() map[string]any {
	out := make(map[string]any)
	for _, name := range PaletteNames() {
		out[name], _, _ = Palette(name)
	}
	return out
}

func themeRef(path string) ThemeFunc {
	return func(theme func(string) any, _ Utils) any { return theme(path) }
}

// Default returns the built-in config every user config is layered on
// unless it declares its own presets.
func Default() *Config {
	return &Config{
		Presets:      []*Config{},
		VariantOrder: DefaultVariantOrder,
		Purge:        &Purge{},
		Theme: map[string]any{
			"screens": map[string]any{
				"sm": "640px", "md": "768px", "lg": "1024px", "xl": "1280px", "2xl": "1536px",
			},
			"colors":  colors(),
			"spacing": spacing(),
			"opacity": map[string]any{
				"0": "0", "5": "0.05", "10": "0.1", "20": "0.2", "25": "0.25", "30": "0.3",
				"40": "0.4", "50": "0.5", "60": "0.6", "70": "0.7", "75": "0.75",
				"80": "0.8", "90": "0.9", "95": "0.95", "100": "1",
			},
			"textColor":       themeRef("colors"),
			"backgroundColor": themeRef("colors"),
			"fill":            map[string]any{"current": "currentColor"},
			"padding":         themeRef("spacing"),
			"margin": ThemeFunc(func(theme func(string) any, u Utils) any {
				sp, _ := theme("spacing").(map[string]any)
				out := map[string]any{"auto": "auto"}
				for k, v := range sp {
					out[k] = v
				}
				for k, v := range u.Negative(sp) {
					out[k] = v
				}
				return out
			}),
			"width": ThemeFunc(func(theme func(string) any, _ Utils) any {
				out := map[string]any{
					"auto": "auto", "1/2": "50%", "1/3": "33.333333%", "2/3": "66.666667%",
					"1/4": "25%", "3/4": "75%", "full": "100%", "screen": "100vw",
					"min": "min-content", "max": "max-content",
				}
				sp, _ := theme("spacing").(map[string]any)
				for k, v := range sp {
					out[k] = v
				}
				return out
			}),
			"fontWeight": map[string]any{
				"thin": "100", "extralight": "200", "light": "300", "normal": "400",
				"medium": "500", "semibold": "600", "bold": "700", "extrabold": "800",
				"black": "900",
			},
			"gridTemplateColumns": map[string]any{
				"none": "none",
				"1":    "repeat(1, minmax(0, 1fr))", "2": "repeat(2, minmax(0, 1fr))",
				"3": "repeat(3, minmax(0, 1fr))", "4": "repeat(4, minmax(0, 1fr))",
				"6": "repeat(6, minmax(0, 1fr))", "12": "repeat(12, minmax(0, 1fr))",
			},
			"rotate": ThemeFunc(func(_ func(string) any, u Utils) any {
				out := map[string]any{
					"0": "0deg", "1": "1deg", "2": "2deg", "3": "3deg", "6": "6deg",
					"12": "12deg", "45": "45deg", "90": "90deg", "180": "180deg",
				}
				for k, v := range u.Negative(out) {
					out[k] = v
				}
				return out
			}),
			"content": map[string]any{"none": "none"},
		},
		Variants: &Variants{
			Lists: map[string][]string{
				"textColor":       {"responsive", "dark", "group-hover", "focus-within", "hover", "focus"},
				"backgroundColor": {"responsive", "dark", "group-hover", "focus-within", "hover", "focus"},
				"display":         {"responsive"},
				"width":           {"responsive"},
				"padding":         {"responsive"},
				"margin":          {"responsive"},
			},
		},
	}
}
