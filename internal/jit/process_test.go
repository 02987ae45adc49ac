package jit

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/log"
	"github.com/yacobolo/jitcss/internal/plugin"
)

const allDirectives = "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n@tailwind variants;\n"

func testRegistry(t *testing.T, env Env) *Registry {
	t.Helper()
	r := NewRegistry(Options{Env: env, Logger: log.Discard()})
	t.Cleanup(r.Dispose)
	return r
}

func process(t *testing.T, r *Registry, css string, in Input) (*csstree.Root, *Output) {
	t.Helper()
	root := csstree.MustParse(css)
	in.Root = root
	out, err := r.Process(in)
	require.NoError(t, err)
	return root, out
}

// redText registers a single .text-red utility.
func redText(content ...string) *config.Config {
	cfg := withPlugin(func(api plugin.API) {
		api.AddUtilities([]csstree.Node{csstree.NewRule(".text-red", csstree.NewDecl("color", "red"))}, plugin.Options{})
	})
	for _, c := range content {
		cfg.Content = append(cfg.Content, config.ContentSource{Raw: c})
	}
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestProcessMinimalBuild(t *testing.T) {
	r := testRegistry(t, Env{})
	root, out := process(t, r, allDirectives, Input{Config: config.Input{Config: redText("hover:text-red text-red")}})

	assert.Equal(t, ".text-red {\n  color: red;\n}\n.hover\\:text-red:hover {\n  color: red;\n}\n", root.String())

	rules := out.Context.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, ".text-red", rules[0].Node.(*csstree.Rule).Selector)
	assert.Equal(t, `.hover\:text-red:hover`, rules[1].Node.(*csstree.Rule).Selector)

	s := out.Context.Stylesheet()
	assert.Len(t, s.Utilities, 1)
	assert.Len(t, s.Variants, 1)
	assert.Zero(t, out.Context.PendingContent())
}

func TestProcessReusesContext(t *testing.T) {
	r := testRegistry(t, Env{})
	cfg := redText("hover:text-red text-red")

	first, out1 := process(t, r, allDirectives, Input{Config: config.Input{Config: cfg}})
	stats := out1.Context.Stats()

	second, out2 := process(t, r, allDirectives, Input{Config: config.Input{Config: cfg}})
	assert.Same(t, out1.Context, out2.Context)
	assert.Equal(t, stats.RuleCache, out2.Context.Stats().RuleCache)
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, 1, r.Stats().Contexts)
}

func TestProcessWithoutDirectivesKeepsContent(t *testing.T) {
	r := testRegistry(t, Env{})
	cfg := redText()

	root, out := process(t, r, ".a { color: blue; }", Input{Config: config.Input{Config: cfg}})
	assert.Equal(t, ".a {\n  color: blue;\n}\n", root.String())

	out.Context.PushContent(Content{Content: "text-red", Extension: "html"})
	_, out = process(t, r, ".a { color: blue; }", Input{Config: config.Input{Config: cfg}})
	assert.Equal(t, 1, out.Context.PendingContent())

	root, out = process(t, r, "@tailwind utilities;", Input{Config: config.Input{Config: cfg}})
	assert.Equal(t, ".text-red {\n  color: red;\n}\n", root.String())
	assert.Zero(t, out.Context.PendingContent())
}

func TestProcessLayerBlocks(t *testing.T) {
	r := testRegistry(t, Env{})
	cfg := withPlugin(func(plugin.API) {})
	cfg.Content = []config.ContentSource{{Raw: "btn hover:btn"}}

	css := "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n@layer components {\n  .btn { padding: 1rem; }\n}\n"
	root, _ := process(t, r, css, Input{Config: config.Input{Config: cfg}})

	assert.Equal(t, ".btn {\n  padding: 1rem;\n}\n.hover\\:btn:hover {\n  padding: 1rem;\n}\n", root.String())
}

func TestProcessResponsiveBlocks(t *testing.T) {
	r := testRegistry(t, Env{})
	cfg := withPlugin(func(plugin.API) {})
	cfg.Content = []config.ContentSource{{Raw: "x md:x"}}

	css := "@tailwind utilities;\n@responsive {\n  .x { color: red; }\n}\n"
	root, _ := process(t, r, css, Input{Config: config.Input{Config: cfg}})

	got := root.String()
	assert.Contains(t, got, ".x {\n  color: red;\n}\n")
	assert.Contains(t, got, "@media")
	assert.Contains(t, got, `.md\:x`)
	assert.NotContains(t, got, "@responsive")
}

func TestProcessLegacyVariantBlocks(t *testing.T) {
	tests := []struct {
		name    string
		css     string
		content string
		want    []string
	}{
		{
			name:    "variants",
			css:     "@tailwind utilities;\n@tailwind variants;\n@variants hover {\n  .x { color: red; }\n}\n",
			content: "x hover:x",
			want:    []string{".x {\n  color: red;\n}\n", `.hover\:x:hover {`},
		},
		{
			name:    "responsive inside layer",
			css:     "@tailwind utilities;\n@layer utilities {\n  @responsive {\n    .x { color: red; }\n  }\n}\n",
			content: "x md:x",
			want:    []string{".x {\n  color: red;\n}\n", "@media", `.md\:x {`},
		},
		{
			name:    "descendant selector",
			css:     "@tailwind utilities;\n@variants focus {\n  .a .b { margin: 0 auto; }\n}\n",
			content: "a b",
			want:    []string{".a .b {\n  margin: 0 auto;\n}\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRegistry(t, Env{})
			cfg := withPlugin(func(plugin.API) {})
			cfg.Content = []config.ContentSource{{Raw: tt.content}}

			root, _ := process(t, r, tt.css, Input{Config: config.Input{Config: cfg}})
			got := root.String()
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
			assert.NotContains(t, got, "@variants")
			assert.NotContains(t, got, "@responsive")
			assert.NotContains(t, got, "@layer")
		})
	}
}

func TestProcessWarnsAboutMissingContent(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(Options{Logger: log.New(&buf, false, false)})
	t.Cleanup(r.Dispose)

	process(t, r, "@tailwind utilities;", Input{Config: config.Input{Config: withPlugin(func(plugin.API) {})}})
	assert.Contains(t, buf.String(), "risk - The `content` option in your config is empty or missing.")

	buf.Reset()
	process(t, r, "@tailwind utilities;", Input{Config: config.Input{Config: redText("text-red")}})
	assert.NotContains(t, buf.String(), "risk")
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name string
		css  string
		cfg  *config.Config
		want error
	}{
		{
			name: "layer without directive",
			css:  "@tailwind base;\n@layer utilities {\n  .x { color: red; }\n}\n",
			cfg:  redText(),
			want: ErrMissingDirective,
		},
		{
			name: "variants without utilities",
			css:  "@tailwind base;\n@variants hover {\n  .x { color: red; }\n}\n",
			cfg:  redText(),
			want: ErrMissingDirective,
		},
		{
			name: "dash separator",
			css:  allDirectives,
			cfg:  &config.Config{Separator: "-", CorePlugins: &config.CorePlugins{Only: []string{}}},
			want: ErrInvalidSeparator,
		},
		{
			name: "regexp in safelist",
			css:  allDirectives,
			cfg: &config.Config{
				CorePlugins: &config.CorePlugins{Only: []string{}},
				Purge:       &config.Purge{Safelist: []any{"p-4", regexp.MustCompile("^bg-")}},
			},
			want: config.ErrInvalidSafelist,
		},
		{
			name: "number in safelist",
			css:  allDirectives,
			cfg: &config.Config{
				CorePlugins: &config.CorePlugins{Only: []string{}},
				Purge:       &config.Purge{Safelist: []any{42}},
			},
			want: config.ErrInvalidSafelist,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRegistry(t, Env{})
			_, err := r.Process(Input{Root: csstree.MustParse(tt.css), Config: config.Input{Config: tt.cfg}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestSafelistIsAlwaysGenerated(t *testing.T) {
	r := testRegistry(t, Env{})
	cfg := redText()
	cfg.Purge = &config.Purge{Safelist: []any{"text-red"}}

	root, _ := process(t, r, "@tailwind utilities;", Input{Config: config.Input{Config: cfg}})
	assert.Equal(t, ".text-red {\n  color: red;\n}\n", root.String())
}

func TestGetContextTracksDependencies(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.css")
	b := filepath.Join(dir, "b.css")
	writeFile(t, a, "")
	writeFile(t, b, "")

	calls := 0
	cfg := config.Resolve(withPlugin(func(plugin.API) { calls++ }))
	r := testRegistry(t, Env{})

	ctx1, isNew, err := r.getContext(csstree.NewRoot(), a, cfg, "", []string{a, b})
	require.NoError(t, err)
	assert.True(t, isNew)

	ctx2, isNew, err := r.getContext(csstree.NewRoot(), a, cfg, "", []string{a, b})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Same(t, ctx1, ctx2)
	assert.Equal(t, 1, calls)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(b, later, later))

	ctx3, isNew, err := r.getContext(csstree.NewRoot(), a, cfg, "", []string{a, b})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotSame(t, ctx1, ctx3)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, r.Stats().Contexts)
}

func TestGetContextSharesConfig(t *testing.T) {
	cfg := config.Resolve(redText())
	r := testRegistry(t, Env{})

	one, _, err := r.getContext(csstree.NewRoot(), "one.css", cfg, "", nil)
	require.NoError(t, err)
	two, isNew, err := r.getContext(csstree.NewRoot(), "two.css", cfg, "", nil)
	require.NoError(t, err)

	assert.False(t, isNew)
	assert.Same(t, one, two)
	assert.Equal(t, 1, r.Stats().Contexts)
}

func TestProcessTracksChangedFiles(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	css := filepath.Join(dir, "main.css")
	writeFile(t, page, `<p class="text-red"></p>`)
	writeFile(t, css, "@tailwind utilities;")

	cfg := redText()
	cfg.Content = []config.ContentSource{{Path: filepath.Join(dir, "*.html")}}
	r := testRegistry(t, Env{})
	in := Input{From: css, Config: config.Input{Config: cfg}}

	root, out := process(t, r, "@tailwind utilities;\n@tailwind variants;", in)
	assert.Equal(t, ".text-red {\n  color: red;\n}\n", root.String())
	assert.Contains(t, out.Messages, Message{Type: MessageDirDependency, Dir: dir, Glob: "*.html", Parent: css})

	writeFile(t, page, `<p class="hover:text-red"></p>`)
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(page, later, later))

	root, out2 := process(t, r, "@tailwind utilities;\n@tailwind variants;", in)
	assert.Same(t, out.Context, out2.Context)
	assert.Equal(t, ".text-red {\n  color: red;\n}\n.hover\\:text-red:hover {\n  color: red;\n}\n", root.String())
}

func TestProcessFlatDirDependencies(t *testing.T) {
	dir := t.TempDir()
	cfg := redText()
	cfg.Content = []config.ContentSource{{Path: filepath.Join(dir, "**/*.html")}}
	r := testRegistry(t, Env{FlatDirDependencies: true})

	_, out := process(t, r, "@tailwind utilities;", Input{Config: config.Input{Config: cfg}})
	assert.Contains(t, out.Messages, Message{Type: MessageDependency, File: dir})
}

func TestParseDependency(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		flat bool
		want Message
	}{
		{"file", filepath.Join(dir, "index.html"), false, Message{Type: MessageDependency, File: filepath.Join(dir, "index.html")}},
		{"glob", filepath.Join(dir, "src", "**", "*.html"), false, Message{Type: MessageDirDependency, Dir: filepath.Join(dir, "src"), Glob: "**/*.html"}},
		{"flat glob", filepath.Join(dir, "src", "*.vue"), true, Message{Type: MessageDependency, File: filepath.Join(dir, "src")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDependency(tt.path, tt.flat))
		})
	}
}

func TestProcessConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tailwind.config.yaml")
	writeFile(t, path, "prefix: tw-\ncorePlugins:\n  - padding\npurge:\n  content:\n    - raw: tw-p-4\n")

	r := testRegistry(t, Env{})
	root, out := process(t, r, "@tailwind utilities;", Input{Config: config.Input{Path: path}})

	assert.Equal(t, ".tw-p-4 {\n  padding: 1rem;\n}\n", root.String())
	assert.Contains(t, out.Messages, Message{Type: MessageDependency, File: path})
}
