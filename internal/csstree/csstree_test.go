package csstree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	root, err := Parse(`
@tailwind base;
.btn, .card { color: red; margin: 0 auto !important; }
@media (min-width: 640px) {
  .sm\:btn { color: blue; }
}
`)
	require.NoError(t, err)
	require.Len(t, root.Nodes(), 3)

	marker, ok := root.Nodes()[0].(*AtRule)
	require.True(t, ok)
	assert.Equal(t, "tailwind", marker.Name)
	assert.Equal(t, "base", marker.Params)
	assert.False(t, marker.HasBlock)

	rule, ok := root.Nodes()[1].(*Rule)
	require.True(t, ok)
	assert.Equal(t, []string{".btn", ".card"}, rule.Selectors())
	require.Len(t, rule.Nodes(), 2)
	margin := rule.Nodes()[1].(*Decl)
	assert.Equal(t, "margin", margin.Prop)
	assert.Equal(t, "0 auto", margin.Value)
	assert.True(t, margin.Important)

	media, ok := root.Nodes()[2].(*AtRule)
	require.True(t, ok)
	assert.Equal(t, "media", media.Name)
	assert.Equal(t, "(min-width: 640px)", media.Params)
	require.Len(t, media.Nodes(), 1)
	assert.Equal(t, `.sm\:btn`, media.Nodes()[0].(*Rule).Selector)
	assert.Equal(t, media, media.Nodes()[0].Parent())
}

func TestParseRawAtRuleBodies(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "screen",
			input: "@screen md { .x { color: red; } }",
			want:  "@screen md {\n  .x {\n    color: red;\n  }\n}\n",
		},
		{
			name:  "variants with nested selector",
			input: "@variants hover, focus { .a .b { margin: 0 auto; } .c { color: red } }",
			want:  "@variants hover, focus {\n  .a .b {\n    margin: 0 auto;\n  }\n  .c {\n    color: red;\n  }\n}\n",
		},
		{
			name:  "responsive inside layer",
			input: "@layer utilities { @responsive { .x { color: red; } } }",
			want:  "@layer utilities {\n  @responsive {\n    .x {\n      color: red;\n    }\n  }\n}\n",
		},
		{
			name:  "declaration body",
			input: "@property --x { syntax: '<length>'; inherits: false; }",
			want:  "@property --x {\n  syntax: '<length>';\n  inherits: false;\n}\n",
		},
		{
			name:  "empty body",
			input: "@responsive {}",
			want:  "@responsive {\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, root.String())
		})
	}
}

func TestParseRawAtRuleBodyParents(t *testing.T) {
	root, err := Parse("@variants hover { .x { color: red; } }")
	require.NoError(t, err)

	variants := root.Nodes()[0].(*AtRule)
	assert.Equal(t, "hover", variants.Params)
	assert.True(t, variants.HasBlock)
	require.Len(t, variants.Nodes(), 1)
	rule := variants.Nodes()[0].(*Rule)
	assert.Equal(t, variants, rule.Parent())
	require.Len(t, rule.Nodes(), 1)
	assert.Equal(t, rule, rule.Nodes()[0].Parent())
}

func TestParsePreludeSpacing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"selector list", "*,::before,::after { margin: 0 }", "*, ::before, ::after"},
		{"combinators", ".a>.b, .c + .d, .e~.f { margin: 0 }", ".a > .b, .c + .d, .e ~ .f"},
		{"pseudo class arguments", ".a:not(.b,.c) { margin: 0 }", ".a:not(.b,.c)"},
		{"media feature", "@media (min-width:640px) and (max-width:767px) { .a { margin: 0 } }", "(min-width: 640px) and (max-width: 767px)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.input)
			require.NoError(t, err)
			switch n := root.Nodes()[0].(type) {
			case *Rule:
				assert.Equal(t, tt.want, n.Selector)
			case *AtRule:
				assert.Equal(t, tt.want, n.Params)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	root := NewRoot(
		NewRule(".text-red", NewDecl("color", "red")),
		NewAtRule("media", "(min-width: 640px)",
			NewRule(`.sm\:text-red`, &Decl{Prop: "color", Value: "red", Important: true}),
		),
		&AtRule{Name: "tailwind", Params: "utilities"},
	)

	want := `.text-red {
  color: red;
}
@media (min-width: 640px) {
  .sm\:text-red {
    color: red !important;
  }
}
@tailwind utilities;
`
	assert.Equal(t, want, root.String())
}

func TestTreeMutation(t *testing.T) {
	a := NewRule(".a")
	b := NewRule(".b")
	c := NewRule(".c")
	root := NewRoot(a, c)

	root.InsertBefore(c, b)
	assert.Equal(t, []Node{a, b, c}, root.Nodes())

	ReplaceWith(b, NewRule(".x"), NewRule(".y"))
	require.Len(t, root.Nodes(), 4)
	assert.Nil(t, b.Parent())
	assert.Equal(t, ".x", root.Nodes()[1].(*Rule).Selector)

	// Appending a node that already has a parent moves it.
	other := NewRoot()
	other.Append(a)
	assert.Len(t, root.Nodes(), 3)
	assert.Equal(t, Container(other), a.Parent())

	removed := root.RemoveAll()
	assert.Len(t, removed, 3)
	assert.Empty(t, root.Nodes())
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewAtRule("media", "print", NewRule(".a", NewDecl("color", "red")))
	clone := orig.Clone().(*AtRule)

	clone.Nodes()[0].(*Rule).Selector = ".b"
	clone.Nodes()[0].(*Rule).Nodes()[0].(*Decl).Value = "blue"

	assert.Equal(t, ".a", orig.Nodes()[0].(*Rule).Selector)
	assert.Equal(t, "red", orig.Nodes()[0].(*Rule).Nodes()[0].(*Decl).Value)
	assert.Nil(t, clone.Parent())
}

func TestWalkAllowsRemoval(t *testing.T) {
	root := NewRoot(
		NewAtRule("layer", "base", NewRule(".a")),
		NewRule(".b"),
		NewAtRule("layer", "utilities", NewRule(".c")),
	)

	WalkAtRules(root, "layer", func(a *AtRule) { Remove(a) })

	require.Len(t, root.Nodes(), 1)
	assert.Equal(t, ".b", root.Nodes()[0].(*Rule).Selector)
}

func TestInKeyframes(t *testing.T) {
	from := NewRule("from")
	NewAtRule("keyframes", "spin", from)
	assert.True(t, InKeyframes(from))
	assert.False(t, InKeyframes(NewRule(".a")))
}

func TestSplitSelectors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{".a", []string{".a"}},
		{".a, .b", []string{".a", ".b"}},
		{`.a\,b, .c`, []string{`.a\,b`, ".c"}},
		{`:is(.a, .b), .c`, []string{":is(.a, .b)", ".c"}},
		{`[data-x="a,b"], .c`, []string{`[data-x="a,b"]`, ".c"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSelectors(tt.in))
		})
	}
}

func TestEscapeClassName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"text-red", "text-red"},
		{"hover:text-red", `hover\:text-red`},
		{"w-1.5", `w-1\.5`},
		{"w-1/2", `w-1\/2`},
		{"fill-[#bada55]", `fill-\[\#bada55\]`},
		{"2xl:p-4", `\32 xl\:p-4`},
		{"-mt-2", "-mt-2"},
		{"-2", `\-2`},
		{"grid-cols-[1fr,2fr]", `grid-cols-\[1fr\2c 2fr\]`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeClassName(tt.in))
		})
	}
}

func TestUnescapeIdent(t *testing.T) {
	assert.Equal(t, "hover:text-red", UnescapeIdent(`hover\:text-red`))
	assert.Equal(t, "2xl:p-4", UnescapeIdent(`\32 xl\:p-4`))
	assert.Equal(t, "a,b", UnescapeIdent(`a\2c b`))
	assert.Equal(t, "plain", UnescapeIdent("plain"))

	for _, name := range []string{"hover:text-red", "w-1.5", "fill-[#bada55]", "2xl:p-4", "content-['x']"} {
		assert.Equal(t, name, UnescapeIdent(EscapeClassName(name)))
	}
}
