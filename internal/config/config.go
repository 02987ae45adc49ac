// Package config resolves user configuration into the normalized form the
// engine compiles contexts from.
//
// A Config can be built in Go or loaded from a YAML or JSON file. Resolve
// merges it with its presets (the built-in defaults unless presets are given
// explicitly), applies theme extensions, evaluates theme functions and
// produces a Resolved value whose Hash identifies it.
package config

import (
	"errors"

	"github.com/yacobolo/jitcss/internal/plugin"
)

var (
	// ErrInvalidSafelist is returned when a safelist entry is not a string.
	ErrInvalidSafelist = errors.New("invalid safelist entry")
	// ErrUnsupportedContent is returned for content entries that are neither
	// paths nor raw content.
	ErrUnsupportedContent = errors.New("unsupported content entry")
	// ErrConfigNotFound is returned when an explicit config path does not exist.
	ErrConfigNotFound = errors.New("config file not found")
)

// Config is a user configuration before resolution. Zero fields are
// inherited from presets.
type Config struct {
	// Prefix is prepended to every generated utility class.
	Prefix string
	// Important makes utilities important, or scopes them under a selector.
	Important *Important
	// Separator splits variants from the class, ":" by default.
	Separator string
	// DarkMode is "media", "class" or empty for disabled.
	DarkMode string
	// Mode is "jit" for on-demand generation.
	Mode string

	// Theme holds scales keyed by name. The "extend" key holds scales that
	// are merged into the inherited ones instead of replacing them. Values
	// may be ThemeFunc.
	Theme map[string]any
	// Variants configures variants per core plugin.
	Variants *Variants
	// VariantOrder orders variants added through Variants.Extend.
	VariantOrder []string
	// CorePlugins enables or disables core plugins.
	CorePlugins *CorePlugins
	// Plugins are user plugins.
	Plugins []Plugin
	// Purge describes the content scanned for class candidates.
	Purge *Purge
	// Content is a shorthand for Purge.Content.
	Content []ContentSource

	// Presets are merged beneath this config. Nil means the defaults; an
	// empty slice means no presets at all.
	Presets []*Config
}

// Important is the important setting: either a flag or a selector that
// every utility is nested under.
type Important struct {
	Enabled  bool
	Selector string
}

// Plugin is a user plugin, optionally carrying its own config that is
// merged beneath the user config.
type Plugin struct {
	Name    string
	Handler plugin.Func
	Config  *Config
}

// CorePlugins selects the enabled core plugins. Only, when set, is the
// exact list; otherwise Toggle disables plugins mapped to false. Func, when
// set, receives the list resolved so far.
type CorePlugins struct {
	Only   []string
	Toggle map[string]bool
	Func   func(resolved []string) []string
}

// ContentSource is a glob path or a block of raw content.
type ContentSource struct {
	Path      string
	Raw       string
	Extension string
}

// IsRaw reports whether the source carries inline content.
func (c ContentSource) IsRaw() bool { return c.Path == "" }

// Extractor pulls candidate class names out of content.
type Extractor func(content string) []string

// Transformer rewrites content before extraction.
type Transformer func(content string) string

// ExtractorEntry binds an extractor to file extensions.
type ExtractorEntry struct {
	Extensions []string
	Extractor  Extractor
}

// Purge configures content scanning.
type Purge struct {
	Content []ContentSource
	// Safelist entries are always treated as present. Only strings are
	// accepted; anything else fails the build.
	Safelist []any
	// Extract and Transform are keyed by file extension, with "DEFAULT"
	// as the fallback.
	Extract   map[string]Extractor
	Transform map[string]Transformer
	Options   PurgeOptions
}

// PurgeOptions holds the legacy extractor settings.
type PurgeOptions struct {
	DefaultExtractor Extractor
	Extractors       []ExtractorEntry
}

// ThemeFunc computes a theme value from other theme values.
type ThemeFunc func(theme func(path string) any, utils Utils) any

// Input is either a config file path or an in-memory config. When both are
// empty the default config files are searched for in the working directory.
type Input struct {
	Path   string
	Config *Config
}
