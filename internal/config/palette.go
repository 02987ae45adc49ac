package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Utils are the helpers handed to theme functions.
type Utils struct{}

// Negative returns the negated scale, keyed by "-key". Zero values are
// skipped.
func (Utils) Negative(scale map[string]any) map[string]any {
	out := make(map[string]any, len(scale))
	for k, v := range scale {
		s, ok := v.(string)
		if !ok || s == "0" {
			continue
		}
		out["-"+k] = NegateValue(s)
	}
	return out
}

// Breakpoints maps "screen-<name>" to each string screen value.
func (Utils) Breakpoints(screens map[string]any) map[string]any {
	out := make(map[string]any, len(screens))
	for k, v := range screens {
		if s, ok := v.(string); ok {
			out["screen-"+k] = s
		}
	}
	return out
}

// Color returns a palette entry. See Palette.
func (Utils) Color(name string) (any, string) {
	v, notice, _ := Palette(name)
	return v, notice
}

// NegateValue negates a CSS length: "1rem" becomes "-1rem" and "-2px"
// becomes "2px". Values that are functions are wrapped in calc.
func NegateValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "0" {
		return value
	}
	if strings.HasPrefix(value, "-") {
		return value[1:]
	}
	if _, err := strconv.ParseFloat(strings.TrimRight(value, "abcdefghijklmnopqrstuvwxyz%"), 64); err == nil {
		return "-" + value
	}
	if strings.HasPrefix(value, "var(") || strings.HasPrefix(value, "calc(") {
		return fmt.Sprintf("calc(%s * -1)", value)
	}
	return value
}

// deprecatedColors maps renamed palette keys to their replacement and the
// notice shown when they are used.
var deprecatedColors = map[string]struct {
	replacement string
	notice      string
}{
	"lightBlue": {"sky", "As of v2.2, `lightBlue` has been renamed to `sky`. Update your configuration file to silence this warning."},
}

// Palette returns the named color family from the built-in palette. Renamed
// keys still resolve to their replacement and return a non-empty notice for
// the caller to log.
func Palette(name string) (any, string, bool) {
	if d, ok := deprecatedColors[name]; ok {
		v, ok := palette[d.replacement]
		return copyValue(v), d.notice, ok
	}
	v, ok := palette[name]
	return copyValue(v), "", ok
}

// PaletteNames lists the palette keys, renamed keys excluded.
func PaletteNames() []string {
	names := make([]string, 0, len(palette))
	for k := range palette {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func shades(values ...string) map[string]any {
	keys := []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900"}
	out := make(map[string]any, len(keys))
	for i, k := range keys {
		out[k] = values[i]
	}
	return out
}

var palette = map[string]any{
	"transparent": "transparent",
	"current":     "currentColor",
	"black":       "#000",
	"white":       "#fff",
	"gray":        shades("#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827"),
	"red":         shades("#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d"),
	"yellow":      shades("#fffbeb", "#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706", "#b45309", "#92400e", "#78350f"),
	"green":       shades("#ecfdf5", "#d1fae5", "#a7f3d0", "#6ee7b7", "#34d399", "#10b981", "#059669", "#047857", "#065f46", "#064e3b"),
	"blue":        shades("#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a"),
	"indigo":      shades("#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81"),
	"purple":      shades("#f5f3ff", "#ede9fe", "#ddd6fe", "#c4b5fd", "#a78bfa", "#8b5cf6", "#7c3aed", "#6d28d9", "#5b21b6", "#4c1d95"),
	"pink":        shades("#fdf2f8", "#fce7f3", "#fbcfe8", "#f9a8d4", "#f472b6", "#ec4899", "#db2777", "#be185d", "#9d174d", "#831843"),
	"sky":         shades("#f0f9ff", "#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8", "#0ea5e9", "#0284c7", "#0369a1", "#075985", "#0c4a6e"),
}
