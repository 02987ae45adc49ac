package jit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/log"
)

func TestLoadEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		env, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, "build", env.Mode)
		assert.False(t, env.Debug)
		assert.False(t, env.Watching())
	})

	t.Run("watch", func(t *testing.T) {
		t.Setenv("JITCSS_DEBUG", "1")
		t.Setenv("JITCSS_MODE", "watch")
		t.Setenv("JITCSS_DISABLE_TOUCH", "false")
		t.Setenv("JITCSS_TOUCH_DIR", "/tmp/touch")
		t.Setenv("JITCSS_FLAT_DIR_DEPENDENCIES", "true")

		env, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, Env{
			Debug:               true,
			Mode:                "watch",
			TouchDir:            "/tmp/touch",
			FlatDirDependencies: true,
		}, env)
		assert.True(t, env.Watching())
	})

	t.Run("touch disabled", func(t *testing.T) {
		t.Setenv("JITCSS_MODE", "watch")
		t.Setenv("JITCSS_DISABLE_TOUCH", "1")

		env, err := LoadEnv()
		require.NoError(t, err)
		assert.False(t, env.Watching())
	})
}

func modTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

func TestWatcherHandle(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	notes := filepath.Join(dir, "notes.txt")
	preset := filepath.Join(dir, "preset.yaml")
	cfgPath := filepath.Join(dir, "tailwind.config.yaml")
	touchFile := filepath.Join(dir, "touch")
	writeFile(t, page, `<p class="text-red"></p>`)
	writeFile(t, notes, "text-red")
	writeFile(t, preset, "")
	writeFile(t, cfgPath, "")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cfgPath, past, past))

	ctx := testContext(t, redText())
	w := &watcher{
		ctx:        ctx,
		log:        log.Discard(),
		patterns:   []string{filepath.Join(dir, "*.html")},
		configDeps: map[string]struct{}{preset: {}},
		configPath: cfgPath,
		touchFile:  touchFile,
	}

	w.handle(fsnotify.Event{Name: notes, Op: fsnotify.Write})
	assert.Zero(t, ctx.PendingContent())
	assert.NoFileExists(t, touchFile)

	w.handle(fsnotify.Event{Name: page, Op: fsnotify.Write})
	assert.Equal(t, 1, ctx.PendingContent())
	assert.FileExists(t, touchFile)

	w.handle(fsnotify.Event{Name: page, Op: fsnotify.Remove})
	assert.Equal(t, 1, ctx.PendingContent())

	w.handle(fsnotify.Event{Name: preset, Op: fsnotify.Write})
	assert.True(t, modTime(t, cfgPath).After(past))

	require.NoError(t, os.Chtimes(cfgPath, past, past))
	w.handle(fsnotify.Event{Name: preset, Op: fsnotify.Remove})
	assert.True(t, modTime(t, cfgPath).After(past))
}

func TestTouch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "touch")

	touch(path)
	assert.FileExists(t, path)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))
	touch(path)
	assert.True(t, modTime(t, path).After(past))

	touch("")
}

func TestProcessWatching(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<p class="text-red"></p>`)

	cfg := redText()
	cfg.Content = []config.ContentSource{{Path: filepath.Join(dir, "*.html")}}
	r := testRegistry(t, Env{Mode: "watch", TouchDir: t.TempDir()})
	in := Input{Config: config.Input{Config: cfg}}

	root, out := process(t, r, "@tailwind utilities;", in)
	assert.Equal(t, ".text-red {\n  color: red;\n}\n", root.String())

	ctx := out.Context
	ctx.mu.Lock()
	touchFile := ctx.touchFile
	ctx.mu.Unlock()
	require.NotEmpty(t, touchFile)
	assert.FileExists(t, touchFile)
	assert.Contains(t, out.Messages, Message{Type: MessageDependency, File: touchFile})

	writeFile(t, filepath.Join(dir, "about.html"), `<p class="hover:text-red"></p>`)
	assert.Eventually(t, func() bool { return ctx.PendingContent() > 0 }, 5*time.Second, 10*time.Millisecond)

	root, out2 := process(t, r, "@tailwind utilities;\n@tailwind variants;", in)
	assert.Same(t, ctx, out2.Context)
	assert.Contains(t, root.String(), `.hover\:text-red:hover`)

	r.Dispose()
	assert.NoFileExists(t, touchFile)
}

func TestWatchTree(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "pages", "admin")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, filepath.Join(nested, "index.html"), "p-4")

	fw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })

	var failed []string
	WatchTree(fw, dir, func(path string, _ error) { failed = append(failed, path) })

	assert.Empty(t, failed)
	assert.ElementsMatch(t, []string{dir, filepath.Join(dir, "pages"), nested}, fw.WatchList())
}
