// Package coreplugins holds the built-in utility and variant plugins.
//
// Utility plugins are looked up by the names listed in
// config.CorePluginList and are only run when enabled. Variant plugins are
// always run, in the order the registrar places them around user plugins.
package coreplugins

import (
	"github.com/yacobolo/jitcss/internal/plugin"
)

var utilities = map[string]plugin.Func{
	"preflight":           preflight,
	"display":             display,
	"textColor":           textColor,
	"backgroundColor":     backgroundColor,
	"fill":                fill,
	"width":               width,
	"padding":             padding,
	"margin":              margin,
	"fontWeight":          fontWeight,
	"gridTemplateColumns": gridTemplateColumns,
	"rotate":              rotate,
	"content":             content,
}

// Get returns the core utility plugin with the given name.
func Get(name string) (plugin.Func, bool) {
	fn, ok := utilities[name]
	return fn, ok
}

func separator(api plugin.API) string {
	if s, ok := api.Config("separator").(string); ok && s != "" {
		return s
	}
	return ":"
}

func prefix(api plugin.API) string {
	s, _ := api.Config("prefix").(string)
	return s
}

func themeMap(api plugin.API, path string) map[string]any {
	m, _ := api.Theme(path).(map[string]any)
	return m
}
