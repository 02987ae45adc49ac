// Package jitcss generates utility CSS on demand.
//
// A stylesheet marks where generated CSS goes with @tailwind directives.
// The Processor scans the content files named by the config for class
// candidates and replaces the directives with the rules those candidates
// need:
//
//	p, err := jitcss.New(jitcss.Options{ConfigPath: "tailwind.config.yaml"})
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	res, err := p.ProcessFile("web/styles/main.css")
//	if err != nil {
//		return err
//	}
//	os.WriteFile("public/main.css", []byte(res.CSS), 0o644)
//
// A Processor keeps its compiled state between calls, so repeated builds only
// scan content that changed. With JITCSS_MODE=watch each config gets a file
// watcher instead; see Env.
//
// # CLI Tool
//
// jitcss also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/jitcss/cmd/jitcss@latest
package jitcss

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/jit"
	"github.com/yacobolo/jitcss/internal/log"
)

type (
	// Config is an in-memory config.
	Config = config.Config
	// Env holds the process-wide switches normally read from JITCSS_*
	// variables.
	Env = jit.Env
	// Message tells the host about a file or directory a build depends on.
	Message = jit.Message
)

// Message types.
const (
	MessageDependency    = jit.MessageDependency
	MessageDirDependency = jit.MessageDirDependency
)

// Options configure a Processor.
type Options struct {
	// ConfigPath is the config file. When both ConfigPath and Config are
	// empty the default config files are searched for in the working
	// directory.
	ConfigPath string
	// Config is used instead of a config file.
	Config *Config
	// Env overrides the environment. Nil reads JITCSS_* variables.
	Env *Env
	// Log receives info and warning lines. Nil means stderr.
	Log       io.Writer
	UseColors bool
}

// Source is one stylesheet to build.
type Source struct {
	// Path identifies the stylesheet. Sources sharing a config share their
	// compiled state.
	Path string
	CSS  string
	// Dependencies are files the stylesheet imports. A change to any of
	// them recompiles the config.
	Dependencies []string
}

// Result is a built stylesheet.
type Result struct {
	CSS      string
	Messages []Message
	Report   Report

	ctx *jit.Context
}

// Processor builds stylesheets. It is safe for concurrent use.
type Processor struct {
	opts     Options
	registry *jit.Registry
}

// New creates a Processor.
func New(opts Options) (*Processor, error) {
	var env Env
	if opts.Env != nil {
		env = *opts.Env
	} else {
		loaded, err := jit.LoadEnv()
		if err != nil {
			return nil, err
		}
		env = loaded
	}

	w := opts.Log
	if w == nil {
		w = os.Stderr
	}
	registry := jit.NewRegistry(jit.Options{
		Env:    env,
		Logger: log.New(w, opts.UseColors, env.Debug),
	})
	return &Processor{opts: opts, registry: registry}, nil
}

// Process builds src.
func (p *Processor) Process(src Source) (*Result, error) {
	start := time.Now()

	root, err := csstree.Parse(src.CSS)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", sourceName(src.Path), err)
	}

	out, err := p.registry.Process(jit.Input{
		Root:         root,
		From:         src.Path,
		Config:       config.Input{Path: p.opts.ConfigPath, Config: p.opts.Config},
		Dependencies: src.Dependencies,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", sourceName(src.Path), err)
	}

	res := &Result{
		CSS:      root.String(),
		Messages: out.Messages,
		ctx:      out.Context,
	}
	res.Report = newReport(src.Path, out.Context.Stats(), p.registry.Stats(), time.Since(start))
	return res, nil
}

// ProcessFile reads and builds the stylesheet at path.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet: %w", err)
	}
	return p.Process(Source{Path: abs, CSS: string(b)})
}

// LoadEnv reads the JITCSS_* environment variables.
func LoadEnv() (Env, error) {
	return jit.LoadEnv()
}

// Close releases the compiled state, stopping any file watchers.
func (p *Processor) Close() {
	p.registry.Dispose()
}

func sourceName(path string) string {
	if path == "" {
		return "stylesheet"
	}
	return path
}
