// Package plugin defines the API that core and user plugins use to register
// utilities, components, base styles and variants, together with the
// selector and value helpers those plugins share.
package plugin

import (
	"github.com/yacobolo/jitcss/internal/csstree"
)

// Func is a plugin. It is called once per compilation context.
type Func func(api API)

// API is handed to every plugin while a context is being set up.
type API interface {
	// AddBase registers base styles. Base styles are never prefixed.
	AddBase(nodes []csstree.Node)
	// AddComponents registers component classes.
	AddComponents(nodes []csstree.Node, opts Options)
	// AddUtilities registers utility classes.
	AddUtilities(nodes []csstree.Node, opts Options)
	// MatchUtilities registers dynamic utilities keyed by class prefix. The
	// value after the prefix is coerced according to opts before fn is
	// called.
	MatchUtilities(utilities map[string]MatchFunc, opts MatchOptions)
	// AddVariant registers a variant. Each function in fns produces one
	// copy of the matched rules.
	AddVariant(name string, fns []VariantFunc, opts VariantOptions)

	// Theme returns the resolved theme value at path, or nil.
	Theme(path string) any
	// Config returns the resolved config value at path, or nil.
	Config(path string) any
	// Variants returns the configured variant list for a core plugin.
	Variants(path string) []string
	// CorePlugins reports whether the named core plugin is enabled.
	CorePlugins(name string) bool
	// Prefix applies the configured prefix to every class in selector.
	Prefix(selector string) string
	// E escapes a class name for use in a selector.
	E(className string) string
}

// Options tune how registered rules react to the prefix, important and
// variant settings. Nil fields take the defaults of the registering call.
type Options struct {
	Variants         []string
	RespectPrefix    *bool
	RespectImportant *bool
	RespectVariants  *bool
}

// Bool returns a pointer to b, for Options fields.
func Bool(b bool) *bool { return &b }

// MatchFunc turns a coerced value into declarations. Returning no
// declarations means the value does not produce a rule.
type MatchFunc func(value string) []*csstree.Decl

// MatchOptions configure MatchUtilities.
type MatchOptions struct {
	Options
	// Values is the theme scale the modifier is looked up in.
	Values map[string]any
	// Type lists the value types the utility accepts; the first entry is
	// used to interpret scale values and the last for arbitrary values.
	Type []string
}

// VariantFunc rewrites the rules in ctx.Container. Returning false skips
// this variant for the candidate.
type VariantFunc func(ctx *VariantContext) bool

// VariantOptions configure AddVariant.
type VariantOptions struct {
	// Before inserts the variant ahead of the earliest of these already
	// registered variants instead of appending it.
	Before []string
}
