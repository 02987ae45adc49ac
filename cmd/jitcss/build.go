package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yacobolo/jitcss"
	"github.com/yacobolo/jitcss/internal/jit"
	"github.com/yacobolo/jitcss/internal/log"
)

// rebuildDelay collapses bursts of file events into one rebuild.
const rebuildDelay = 50 * time.Millisecond

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build stylesheets",
	Long: `Expand the @tailwind directives of each input stylesheet with the
rules its content files use. With --watch, rebuild whenever the stylesheet,
the config or any content file changes.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringSliceP("input", "i", nil, "Stylesheets to build (default src/main.css)")
	f.StringP("output", "o", "", "Output file, or directory for several inputs (default stdout)")
	f.BoolP("watch", "w", false, "Rebuild when dependencies change")
	f.String("report", "", "Report format: text|json")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	config := buildBuildConfig()

	format, err := jitcss.ParseReportFormat(config.Report)
	if err != nil {
		return err
	}

	env, err := jitcss.LoadEnv()
	if err != nil {
		return err
	}
	if config.Watch {
		env.Mode = "watch"
	}
	if config.Verbose {
		env.Debug = true
	}

	useColors := jitcss.ShouldUseColors(config.Color)
	logOut := cmd.ErrOrStderr()
	if config.Quiet {
		logOut = io.Discard
	}

	p, err := jitcss.New(jitcss.Options{
		ConfigPath: config.TailwindConfig,
		Env:        &env,
		Log:        logOut,
		UseColors:  useColors,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	b := &builder{
		p:         p,
		config:    config,
		format:    format,
		useColors: useColors,
		out:       cmd.OutOrStdout(),
		reportOut: cmd.ErrOrStderr(),
		log:       log.New(logOut, useColors, config.Verbose),
	}

	results, err := b.buildAll()
	if err != nil {
		return err
	}
	if !config.Watch {
		return nil
	}

	// Nil when rootCmd delegates here without executing buildCmd.
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	return b.watch(ctx, results)
}

type builder struct {
	p         *jitcss.Processor
	config    buildConfig
	format    jitcss.ReportFormat
	useColors bool
	out       io.Writer
	reportOut io.Writer
	log       *log.Logger
}

// buildAll builds every input and writes a report for the run.
func (b *builder) buildAll() ([]*jitcss.Result, error) {
	results := make([]*jitcss.Result, 0, len(b.config.Inputs))
	reports := make([]jitcss.Report, 0, len(b.config.Inputs))
	for _, input := range b.config.Inputs {
		res, err := b.p.ProcessFile(input)
		if err != nil {
			return nil, err
		}
		if err := b.write(input, res.CSS); err != nil {
			return nil, err
		}
		results = append(results, res)
		reports = append(reports, res.Report)
	}

	if !b.config.Quiet {
		if err := jitcss.WriteReport(b.reportOut, reports, b.format, b.useColors); err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
	}
	return results, nil
}

func (b *builder) write(input, css string) error {
	dest := outputPath(b.config.Output, input, len(b.config.Inputs))
	if dest == "" {
		_, err := io.WriteString(b.out, css)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(css), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// outputPath is where the CSS built from input goes. Empty means stdout.
func outputPath(output, input string, inputs int) string {
	if output == "" || inputs == 1 {
		return output
	}
	return filepath.Join(output, filepath.Base(input))
}

// watch rebuilds whenever a watched path changes, until ctx is done.
func (b *builder) watch(ctx context.Context, results []*jitcss.Result) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	outputs := make(map[string]bool)
	for _, input := range b.config.Inputs {
		if dest := outputPath(b.config.Output, input, len(b.config.Inputs)); dest != "" {
			if abs, err := filepath.Abs(dest); err == nil {
				outputs[abs] = true
			}
		}
	}

	watched := make(map[string]bool)
	b.addWatches(w, watched, results)
	b.log.Info(fmt.Sprintf("watching %d paths for changes", len(watched)))

	timer := time.NewTimer(rebuildDelay)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if abs, err := filepath.Abs(ev.Name); err == nil && outputs[abs] {
				continue
			}
			b.log.Debugf("changed: %s (%s)", ev.Name, ev.Op)
			if ev.Has(fsnotify.Create) && watched[filepath.Dir(ev.Name)] {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					b.watchTree(w, watched, ev.Name)
				}
			}
			timer.Reset(rebuildDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.log.Warn(fmt.Sprintf("watch error: %v", err))
		case <-timer.C:
			results, err := b.buildAll()
			if err != nil {
				b.log.Warn(err.Error())
				continue
			}
			b.addWatches(w, watched, results)
		}
	}
}

// addWatches adds the inputs and dependencies of results to w. Directories
// are watched with everything below them.
func (b *builder) addWatches(w *fsnotify.Watcher, watched map[string]bool, results []*jitcss.Result) {
	files, dirs := watchPaths(b.config.Inputs, results)
	for _, path := range files {
		if watched[path] {
			continue
		}
		if err := w.Add(path); err != nil {
			b.log.Warn(fmt.Sprintf("cannot watch %s: %v", path, err))
			continue
		}
		watched[path] = true
	}
	for _, dir := range dirs {
		if !watched[dir] {
			b.watchTree(w, watched, dir)
		}
	}
}

func (b *builder) watchTree(w *fsnotify.Watcher, watched map[string]bool, dir string) {
	jit.WatchTree(w, dir, func(path string, err error) {
		b.log.Warn(fmt.Sprintf("cannot watch %s: %v", path, err))
	})
	for _, path := range w.WatchList() {
		watched[path] = true
	}
}

// watchPaths splits what to watch into files (the inputs and dependency
// files) and directories (from dir-dependency messages), each sorted and
// without duplicates.
func watchPaths(inputs []string, results []*jitcss.Result) (files, dirs []string) {
	fileSet := make(map[string]bool)
	dirSet := make(map[string]bool)
	add := func(set map[string]bool, path string) {
		if path == "" {
			return
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		set[path] = true
	}

	for _, input := range inputs {
		add(fileSet, input)
	}
	for _, res := range results {
		for _, m := range res.Messages {
			switch m.Type {
			case jitcss.MessageDependency:
				add(fileSet, m.File)
			case jitcss.MessageDirDependency:
				add(dirSet, m.Dir)
			}
		}
	}
	return sortedKeys(fileSet), sortedKeys(dirSet)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
