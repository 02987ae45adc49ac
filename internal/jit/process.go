package jit

import (
	"github.com/yacobolo/jitcss/internal/config"
	"github.com/yacobolo/jitcss/internal/csstree"
)

// Message types reported to the host.
const (
	MessageDependency    = "dependency"
	MessageDirDependency = "dir-dependency"
)

// Message tells the host about a file or directory the output depends on.
type Message struct {
	Type string
	// File is set for dependency messages.
	File string
	// Dir and Glob are set for dir-dependency messages.
	Dir  string
	Glob string
	// Parent is the stylesheet the dependency was found for.
	Parent string
}

// Input is one stylesheet to build.
type Input struct {
	// Root is expanded in place.
	Root *csstree.Root
	// From is the path of the stylesheet. Sources sharing a config share a
	// context.
	From string
	// Config is the config file or in-memory config to build with.
	Config config.Input
	// Dependencies are files the stylesheet imports. A change to any of
	// them rebuilds the context.
	Dependencies []string
}

// Output is the result of Process.
type Output struct {
	Context  *Context
	Messages []Message
}

// Process expands the @tailwind directives of in.Root using the context
// for its config, creating or refreshing the context as needed.
func (r *Registry) Process(in Input) (*Output, error) {
	found, err := normalizeDirectives(in.Root)
	if err != nil {
		return nil, err
	}

	out := &Output{}
	emit := func(m Message) {
		m.Parent = in.From
		out.Messages = append(out.Messages, m)
	}

	setup := r.setupTracking
	if r.env.Watching() {
		setup = r.setupWatching
	}
	ctx, err := setup(in, found, emit)
	if err != nil {
		return nil, err
	}
	if ctx.Config.Separator == "-" {
		return nil, ErrInvalidSeparator
	}

	r.expand(ctx, in.Root)
	out.Context = ctx
	return out, nil
}
