package coreplugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/plugin"
)

// recorder is a plugin.API that keeps everything registered with it.
type recorder struct {
	cfg *config.Resolved

	base      []csstree.Node
	utilities []csstree.Node
	matchers  map[string]plugin.MatchFunc
	matchOpts map[string]plugin.MatchOptions
	names     []string
	variants  map[string][]plugin.VariantFunc
}

func newRecorder(cfg *config.Config) *recorder {
	return &recorder{
		cfg:       config.Resolve(cfg),
		matchers:  map[string]plugin.MatchFunc{},
		matchOpts: map[string]plugin.MatchOptions{},
		variants:  map[string][]plugin.VariantFunc{},
	}
}

func (r *recorder) AddBase(nodes []csstree.Node) {
	r.base = append(r.base, nodes...)
}

func (r *recorder) AddComponents([]csstree.Node, plugin.Options) {}

func (r *recorder) AddUtilities(nodes []csstree.Node, _ plugin.Options) {
	r.utilities = append(r.utilities, nodes...)
}

func (r *recorder) MatchUtilities(utilities map[string]plugin.MatchFunc, opts plugin.MatchOptions) {
	for k, fn := range utilities {
		r.matchers[k] = fn
		r.matchOpts[k] = opts
	}
}

func (r *recorder) AddVariant(name string, fns []plugin.VariantFunc, _ plugin.VariantOptions) {
	r.names = append(r.names, name)
	r.variants[name] = fns
}

func (r *recorder) Theme(path string) any         { return r.cfg.ThemeValue(path) }
func (r *recorder) Config(path string) any        { return r.cfg.Value(path) }
func (r *recorder) Variants(path string) []string { return r.cfg.PluginVariants(path) }
func (r *recorder) CorePlugins(name string) bool  { return r.cfg.CorePluginEnabled(name) }
func (r *recorder) Prefix(selector string) string { return plugin.PrefixSelector(r.cfg.Prefix, selector) }
func (r *recorder) E(className string) string     { return csstree.EscapeClassName(className) }

// apply runs the idx-th function of a variant on a single rule and returns
// the resulting container, or nil when the variant skipped it.
func (r *recorder) apply(t *testing.T, name string, idx int, selector string) *csstree.Root {
	t.Helper()
	fns, ok := r.variants[name]
	require.True(t, ok, "variant %q not registered", name)
	require.Greater(t, len(fns), idx)
	ctx := &plugin.VariantContext{
		Container: csstree.NewRoot(csstree.NewRule(selector, csstree.NewDecl("color", "red"))),
		Separator: ":",
	}
	if !fns[idx](ctx) {
		return nil
	}
	return ctx.Container
}

func selectorOf(t *testing.T, root *csstree.Root) string {
	t.Helper()
	require.NotNil(t, root)
	var sel string
	csstree.WalkRules(root, func(r *csstree.Rule) { sel = r.Selector })
	return sel
}

func (r *recorder) match(t *testing.T, prefix, modifier string) map[string]string {
	t.Helper()
	fn, ok := r.matchers[prefix]
	require.True(t, ok, "utility %q not registered", prefix)
	opts := r.matchOpts[prefix]
	value, _, ok := plugin.CoerceValue(opts.Type, modifier, opts.Values, r.cfg.ThemeMap("opacity"))
	require.True(t, ok, "modifier %q rejected", modifier)
	out := map[string]string{}
	for _, d := range fn(value) {
		out[d.Prop] = d.Value
	}
	return out
}

func TestGet(t *testing.T) {
	for _, name := range config.CorePluginList {
		_, ok := Get(name)
		assert.True(t, ok, name)
	}
	_, ok := Get("nope")
	assert.False(t, ok)
}

func TestPseudoClassVariants(t *testing.T) {
	r := newRecorder(&config.Config{})
	PseudoClassVariants(r)

	assert.Equal(t, "first", r.names[0])
	assert.Contains(t, r.names, "group-hover")
	assert.Contains(t, r.names, "peer-focus")

	tests := []struct {
		variant string
		in      string
		want    string
	}{
		{"hover", ".text-red", `.hover\:text-red:hover`},
		{"odd", ".a", `.odd\:a:nth-child(odd)`},
		{"group-hover", ".text-red", `.group:hover .group-hover\:text-red`},
		{"peer-focus", ".text-red", `.peer:focus ~ .peer-focus\:text-red`},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			assert.Equal(t, tt.want, selectorOf(t, r.apply(t, tt.variant, 0, tt.in)))
		})
	}
}

func TestGroupVariantSkipsMarkerOnly(t *testing.T) {
	r := newRecorder(&config.Config{})
	PseudoClassVariants(r)
	assert.Nil(t, r.apply(t, "group-hover", 0, ".group"))
}

func TestGroupVariantUsesPrefix(t *testing.T) {
	r := newRecorder(&config.Config{Prefix: "tw-"})
	PseudoClassVariants(r)
	assert.Equal(t, `.tw-group:hover .group-hover\:tw-x`, selectorOf(t, r.apply(t, "group-hover", 0, ".tw-x")))
}

func TestPseudoElementVariants(t *testing.T) {
	r := newRecorder(&config.Config{})
	PseudoElementVariants(r)

	require.Len(t, r.variants["marker"], 2)
	assert.Equal(t, `.marker\:x *::marker`, selectorOf(t, r.apply(t, "marker", 0, ".x")))
	assert.Equal(t, `.marker\:x::marker`, selectorOf(t, r.apply(t, "marker", 1, ".x")))

	before := r.apply(t, "before", 0, ".x")
	rule := before.Nodes()[0].(*csstree.Rule)
	assert.Equal(t, `.before\:x::before`, rule.Selector)
	first := rule.Nodes()[0].(*csstree.Decl)
	assert.Equal(t, "content", first.Prop)
	assert.Equal(t, `""`, first.Value)
}

func TestDirectionAndMotionVariants(t *testing.T) {
	r := newRecorder(&config.Config{})
	DirectionVariants(r)
	ReducedMotionVariants(r)

	assert.Equal(t, []string{"ltr", "rtl", "motion-safe", "motion-reduce"}, r.names)
	assert.Equal(t, `[dir="rtl"] .rtl\:x`, selectorOf(t, r.apply(t, "rtl", 0, ".x")))

	out := r.apply(t, "motion-safe", 0, ".x")
	media := out.Nodes()[0].(*csstree.AtRule)
	assert.Equal(t, "(prefers-reduced-motion: no-preference)", media.Params)
	assert.Equal(t, `.motion-safe\:x`, selectorOf(t, out))
}

func TestDarkVariants(t *testing.T) {
	t.Run("class", func(t *testing.T) {
		r := newRecorder(&config.Config{DarkMode: "class"})
		DarkVariants(r)
		assert.Equal(t, `.dark .dark\:x`, selectorOf(t, r.apply(t, "dark", 0, ".x")))
	})
	t.Run("media", func(t *testing.T) {
		r := newRecorder(&config.Config{DarkMode: "media"})
		DarkVariants(r)
		out := r.apply(t, "dark", 0, ".x")
		assert.Equal(t, "(prefers-color-scheme: dark)", out.Nodes()[0].(*csstree.AtRule).Params)
	})
	t.Run("off", func(t *testing.T) {
		r := newRecorder(&config.Config{})
		DarkVariants(r)
		assert.Empty(t, r.names)
	})
}

func TestScreenVariants(t *testing.T) {
	r := newRecorder(&config.Config{})
	ScreenVariants(r)
	assert.Equal(t, []string{"sm", "md", "lg", "xl", "2xl"}, r.names)

	out := r.apply(t, "md", 0, ".p-4")
	assert.Equal(t, "(min-width: 768px)", out.Nodes()[0].(*csstree.AtRule).Params)
	assert.Equal(t, `.md\:p-4`, selectorOf(t, out))
}

func TestBuildMediaQuery(t *testing.T) {
	tests := []struct {
		name   string
		screen any
		want   string
	}{
		{"min", "640px", "(min-width: 640px)"},
		{"range", map[string]any{"min": "640px", "max": "767px"}, "(min-width: 640px) and (max-width: 767px)"},
		{"max", map[string]any{"max": "767px"}, "(max-width: 767px)"},
		{"raw", map[string]any{"raw": "print"}, "print"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildMediaQuery(tt.screen))
		})
	}
}

func TestSortScreens(t *testing.T) {
	got := SortScreens(map[string]any{
		"print":  map[string]any{"raw": "print"},
		"tablet": "40rem",
		"wide":   map[string]any{"min": "80rem"},
		"phone":  "20rem",
	})
	assert.Equal(t, []string{"phone", "tablet", "wide", "print"}, got)
}

func TestColorUtilities(t *testing.T) {
	r := newRecorder(&config.Config{})
	textColor(r)
	backgroundColor(r)
	fill(r)

	assert.Equal(t, map[string]string{
		"--tw-text-opacity": "1",
		"color":             "rgba(239, 68, 68, var(--tw-text-opacity))",
	}, r.match(t, "text", "red-500"))
	assert.Equal(t, map[string]string{"color": "rgba(239, 68, 68, 0.5)"}, r.match(t, "text", "red-500/50"))
	assert.Equal(t, map[string]string{"color": "currentColor"}, r.match(t, "text", "current"))
	assert.Equal(t, "1", r.match(t, "bg", "black")["--tw-bg-opacity"])
	assert.Equal(t, map[string]string{"fill": "#bada55"}, r.match(t, "fill", "[#bada55]"))
}

func TestSpacingUtilities(t *testing.T) {
	r := newRecorder(&config.Config{})
	width(r)
	padding(r)
	margin(r)

	assert.Equal(t, map[string]string{"width": "50%"}, r.match(t, "w", "1/2"))
	assert.Equal(t, map[string]string{"padding-left": "1rem", "padding-right": "1rem"}, r.match(t, "px", "4"))
	assert.Equal(t, map[string]string{"margin-top": "-1rem"}, r.match(t, "mt", "-4"))
	assert.Equal(t, map[string]string{"margin": "auto"}, r.match(t, "m", "auto"))
	assert.Equal(t, map[string]string{"width": "calc(100% - 1rem)"}, r.match(t, "w", "[calc(100%-1rem)]"))
}

func TestOtherUtilities(t *testing.T) {
	r := newRecorder(&config.Config{})
	fontWeight(r)
	gridTemplateColumns(r)
	rotate(r)
	content(r)

	assert.Equal(t, map[string]string{"font-weight": "700"}, r.match(t, "font", "bold"))
	assert.Equal(t, map[string]string{"grid-template-columns": "1fr 2fr"}, r.match(t, "grid-cols", "[1fr,2fr]"))
	assert.Equal(t, map[string]string{"--tw-rotate": "-45deg"}, r.match(t, "rotate", "-45"))
	assert.Equal(t, map[string]string{"content": "'hi'"}, r.match(t, "content", "['hi']"))
}

func TestDisplayAndPreflight(t *testing.T) {
	r := newRecorder(&config.Config{})
	display(r)
	preflight(r)

	var selectors []string
	for _, n := range r.utilities {
		selectors = append(selectors, n.(*csstree.Rule).Selector)
	}
	assert.Contains(t, selectors, ".block")
	assert.Contains(t, selectors, ".hidden")

	require.NotEmpty(t, r.base)
	first := r.base[0].(*csstree.Rule)
	assert.Equal(t, "*, ::before, ::after", first.Selector)
	assert.Nil(t, first.Parent())
}
