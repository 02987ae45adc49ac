package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/jitcss/internal/csstree"
)

func TestClasses(t *testing.T) {
	assert.Equal(t, []string{"btn", "hover:text-red"}, Classes(`.btn > .hover\:text-red:hover`))
	assert.Equal(t, []string{"w-1/2"}, Classes(`.w-1\/2`))
	assert.Equal(t, []string{"2xl:p-4"}, Classes(`.\32 xl\:p-4`))
	assert.Empty(t, Classes(`*, ::before`))
	assert.Empty(t, Classes(`[data-x="a.b"]`))
}

func TestUpdateAllClasses(t *testing.T) {
	got := UpdateAllClasses(`.a .b:focus`, func(c string, _ *ClassModifier) string {
		return "md:" + c
	})
	assert.Equal(t, `.md\:a .md\:b:focus`, got)

	got = UpdateAllClasses(`.text-red`, func(c string, m *ClassModifier) string {
		return m.WithPseudo("hover:"+c, ":hover")
	})
	assert.Equal(t, `.hover\:text-red:hover`, got)
}

func TestUpdateLastClasses(t *testing.T) {
	got := UpdateLastClasses(`.group .item:not(.x), .other`, func(c string, m *ClassModifier) string {
		return m.WithPseudo("focus:"+c, ":focus")
	})
	assert.Equal(t, `.group .focus\:item:focus:not(.x), .focus\:other:focus`, got)
}

func TestPrefixSelector(t *testing.T) {
	assert.Equal(t, `.tw-a > .tw-b`, PrefixSelector("tw-", ".a > .b"))
	assert.Equal(t, ".a", PrefixSelector("", ".a"))
}

func TestApplyPseudoToMarker(t *testing.T) {
	join := func(marker, sel string) string { return marker + " " + sel }

	assert.Equal(t, `.group:hover .x`, ApplyPseudoToMarker(`.x`, ".group", "hover", join))
	assert.Equal(t, `.group:focus:hover .x`, ApplyPseudoToMarker(`.group:hover .x`, ".group", "focus", join))
}

func TestTransformAllSelectors(t *testing.T) {
	ctx := &VariantContext{Container: csstree.NewRoot(
		csstree.NewRule(".a, .b", csstree.NewDecl("color", "red")),
		csstree.NewAtRule("keyframes", "spin", csstree.NewRule("from")),
	)}

	fn := TransformAllSelectors(func(sel string) string { return "[dir=rtl] " + sel }, TransformOptions{
		Wrap: func() *csstree.AtRule { return csstree.NewAtRule("supports", "(display: grid)") },
	})
	require.True(t, fn(ctx))

	require.Len(t, ctx.Container.Nodes(), 1)
	wrapper := ctx.Container.Nodes()[0].(*csstree.AtRule)
	assert.Equal(t, "supports", wrapper.Name)
	assert.Equal(t, "[dir=rtl] .a, [dir=rtl] .b", wrapper.Nodes()[0].(*csstree.Rule).Selector)
	frames := wrapper.Nodes()[1].(*csstree.AtRule)
	assert.Equal(t, "from", frames.Nodes()[0].(*csstree.Rule).Selector)

	skip := TransformAllSelectors(func(string) string { return "" }, TransformOptions{})
	assert.False(t, skip(&VariantContext{Container: csstree.NewRoot(csstree.NewRule(".a"))}))
}

func TestModifySelectors(t *testing.T) {
	ctx := &VariantContext{Container: csstree.NewRoot(csstree.NewRule(".text-red"))}
	ctx.ModifySelectors(func(className, selector string) string {
		return "." + csstree.EscapeClassName("hover:"+className) + ":hover"
	})
	assert.Equal(t, `.hover\:text-red:hover`, ctx.Container.Nodes()[0].(*csstree.Rule).Selector)
}

func TestCoerceValue(t *testing.T) {
	colors := map[string]any{"red-500": "#ef4444", "black": "#000"}
	opacity := map[string]any{"50": "0.5"}
	lengths := map[string]any{"4": "1rem", "1/2": "50%"}

	tests := []struct {
		name     string
		types    []string
		modifier string
		values   map[string]any
		want     string
		wantType string
		ok       bool
	}{
		{"scale color", []string{TypeColor}, "red-500", colors, "#ef4444", TypeColor, true},
		{"opacity modifier", []string{TypeColor}, "red-500/50", colors, "rgba(239, 68, 68, 0.5)", TypeColor, true},
		{"arbitrary alpha", []string{TypeColor}, "black/[.35]", colors, "rgba(0, 0, 0, .35)", TypeColor, true},
		{"unknown opacity", []string{TypeColor}, "red-500/33", colors, "", TypeColor, false},
		{"arbitrary color", []string{TypeColor}, "[#bada55]", colors, "#bada55", TypeColor, true},
		{"arbitrary named color", []string{TypeColor}, "[rebeccapurple]", colors, "rebeccapurple", TypeColor, true},
		{"arbitrary non color", []string{TypeColor}, "[12px]", colors, "", TypeColor, false},
		{"scale length", []string{TypeLength}, "1/2", lengths, "50%", TypeLength, true},
		{"arbitrary length", []string{TypeLength}, "[3px]", lengths, "3px", TypeLength, true},
		{"arbitrary calc", []string{TypeLength}, "[calc(100%-1rem)]", lengths, "calc(100% - 1rem)", TypeLength, true},
		{"arbitrary bad length", []string{TypeLength}, "[3deg]", lengths, "", TypeLength, false},
		{"arbitrary angle", []string{TypeAngle}, "[-45deg]", nil, "-45deg", TypeAngle, true},
		{"arbitrary list", []string{TypeLookup, TypeList}, "[1fr,2fr]", nil, "1fr 2fr", TypeList, true},
		{"lookup miss", []string{TypeLookup}, "7", lengths, "", TypeLookup, false},
		{"explicit type", []string{TypeColor}, "[length:2px]", colors, "2px", TypeLength, true},
		{"unknown explicit type", []string{TypeAny}, "[foo:bar]", nil, "foo:bar", TypeAny, true},
		{"any arbitrary", []string{TypeAny}, "['hello']", nil, "'hello'", TypeAny, true},
		{"non arbitrary miss", []string{TypeAny}, "nope", nil, "", TypeAny, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotType, ok := CoerceValue(tt.types, tt.modifier, tt.values, opacity)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantType, gotType)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsValidArbitraryValue(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#bada55", true},
		{"calc(100%-1rem)", true},
		{"this-is]w-[weird", false},
		{`this-is\]w-\[weird-but-valid`, true},
		{"'this-is-also-valid]-weirdly-enough'", true},
		{"(]", false},
		{"((", false},
		{"{[()]}", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidArbitraryValue(tt.in))
		})
	}
}

func TestNameClass(t *testing.T) {
	tests := []struct{ prefix, modifier, want string }{
		{"text", "DEFAULT", "text"},
		{"m", "-", `-m`},
		{"m", "-DEFAULT", `-m`},
		{"m", "-4", `-m-4`},
		{"w", "1/2", `w-1\/2`},
		{"fill", "[#bada55]", `fill-\[\#bada55\]`},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+tt.modifier, func(t *testing.T) {
			assert.Equal(t, tt.want, NameClass(tt.prefix, tt.modifier))
		})
	}
}

func TestFlattenColorPalette(t *testing.T) {
	flat := FlattenColorPalette(map[string]any{
		"black": "#000",
		"red":   map[string]any{"500": "#ef4444", "DEFAULT": "#f00"},
	})
	assert.Equal(t, map[string]any{"black": "#000", "red-500": "#ef4444", "red": "#f00"}, flat)
}

func TestIsColor(t *testing.T) {
	for _, c := range []string{"#fff", "#ffffff", "#ffffff80", "rgb(0, 0, 0)", "rgba(0 0 0 / 50%)", "hsl(120, 50%, 50%)", "red", "transparent"} {
		assert.True(t, IsColor(c), c)
	}
	for _, c := range []string{"12px", "var(--x)", "#ggg", "rgb(1)"} {
		assert.False(t, IsColor(c), c)
	}
}
