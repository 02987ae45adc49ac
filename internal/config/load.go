package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFiles are searched for in the working directory when no
// config is given.
var DefaultConfigFiles = []string{
	"tailwind.config.yaml",
	"tailwind.config.yml",
	"tailwind.config.json",
}

// keyDelim separates nested koanf keys. Theme keys such as "0.5" and "1/2"
// contain dots and slashes, so neither can be used.
const keyDelim = "::"

// ResolvePath returns the absolute config file path for in, or "" when the
// config is an in-memory object or no default file exists.
func ResolvePath(in Input) (string, error) {
	if in.Config != nil {
		return "", nil
	}
	if in.Path != "" {
		abs, err := filepath.Abs(in.Path)
		if err != nil {
			return "", fmt.Errorf("resolving config path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, in.Path)
		}
		return abs, nil
	}
	for _, name := range DefaultConfigFiles {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("resolving config path: %w", err)
		}
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
	}
	return "", nil
}

// Load reads a config file and its presets. It returns the files the config
// was built from, the config file first.
func Load(path string) (*Config, []string, error) {
	return load(path, map[string]bool{})
}

func load(path string, visiting map[string]bool) (*Config, []string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving config path: %w", err)
	}
	if visiting[abs] {
		return nil, nil, fmt.Errorf("preset cycle through %s", abs)
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(abs), yaml.Parser()); err != nil {
		return nil, nil, fmt.Errorf("loading config file %s: %w", abs, err)
	}

	cfg, presetPaths, err := FromMap(k.Raw())
	if err != nil {
		return nil, nil, fmt.Errorf("config file %s: %w", abs, err)
	}

	deps := []string{abs}
	if presetPaths != nil {
		cfg.Presets = []*Config{}
	}
	for _, p := range presetPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(abs), p)
		}
		preset, presetDeps, err := load(p, visiting)
		if err != nil {
			return nil, nil, err
		}
		cfg.Presets = append(cfg.Presets, preset)
		deps = append(deps, presetDeps...)
	}
	return cfg, deps, nil
}

// FromMap builds a Config from decoded YAML or JSON. Preset paths are
// returned instead of loaded; nil means the key was absent.
func FromMap(raw map[string]any) (*Config, []string, error) {
	cfg := &Config{
		Prefix:    str(raw["prefix"]),
		Separator: str(raw["separator"]),
		Mode:      str(raw["mode"]),
	}

	switch v := raw["darkMode"].(type) {
	case nil:
	case bool:
		if !v {
			cfg.DarkMode = "false"
		}
	default:
		cfg.DarkMode = str(v)
	}

	switch v := raw["important"].(type) {
	case nil:
	case bool:
		cfg.Important = &Important{Enabled: v}
	case string:
		cfg.Important = &Important{Selector: v}
	default:
		return nil, nil, fmt.Errorf("important must be a boolean or a selector, got %T", v)
	}

	if theme, ok := raw["theme"].(map[string]any); ok {
		cfg.Theme = theme
	}
	if order, ok := raw["variantOrder"]; ok {
		cfg.VariantOrder = strs(order)
	}

	switch v := raw["variants"].(type) {
	case nil:
	case []any:
		cfg.Variants = &Variants{Global: strs(v)}
	case map[string]any:
		cfg.Variants = &Variants{Lists: map[string][]string{}}
		for name, list := range v {
			if name == "extend" {
				ext, _ := list.(map[string]any)
				cfg.Variants.Extend = make(map[string][]string, len(ext))
				for plugin, extList := range ext {
					cfg.Variants.Extend[plugin] = strs(extList)
				}
				continue
			}
			cfg.Variants.Lists[name] = strs(list)
		}
	default:
		return nil, nil, fmt.Errorf("variants must be a list or a map, got %T", v)
	}

	switch v := raw["corePlugins"].(type) {
	case nil:
	case []any:
		cfg.CorePlugins = &CorePlugins{Only: strs(v)}
	case map[string]any:
		cfg.CorePlugins = &CorePlugins{Toggle: make(map[string]bool, len(v))}
		for name, on := range v {
			b, _ := on.(bool)
			cfg.CorePlugins.Toggle[name] = b
		}
	default:
		return nil, nil, fmt.Errorf("corePlugins must be a list or a map, got %T", v)
	}

	if v, ok := raw["purge"]; ok {
		purge, err := purgeFromRaw(v)
		if err != nil {
			return nil, nil, err
		}
		cfg.Purge = purge
	}
	if v, ok := raw["content"]; ok {
		content, err := contentFromRaw(v)
		if err != nil {
			return nil, nil, err
		}
		cfg.Content = content
	}

	var presets []string
	if v, ok := raw["presets"]; ok {
		presets = strs(v)
		if presets == nil {
			presets = []string{}
		}
	}
	return cfg, presets, nil
}

func purgeFromRaw(v any) (*Purge, error) {
	switch t := v.(type) {
	case []any:
		content, err := contentFromRaw(t)
		if err != nil {
			return nil, err
		}
		return &Purge{Content: content}, nil
	case map[string]any:
		p := &Purge{}
		if c, ok := t["content"]; ok {
			content, err := contentFromRaw(c)
			if err != nil {
				return nil, err
			}
			p.Content = content
		}
		if s, ok := t["safelist"].([]any); ok {
			p.Safelist = s
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: purge must be a list or a map, got %T", ErrUnsupportedContent, v)
	}
}

func contentFromRaw(v any) ([]ContentSource, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: content must be a list, got %T", ErrUnsupportedContent, v)
	}
	out := make([]ContentSource, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, ContentSource{Path: t})
		case map[string]any:
			raw, ok := t["raw"].(string)
			if !ok {
				return nil, fmt.Errorf("%w: content object needs a raw string", ErrUnsupportedContent)
			}
			ext := str(t["extension"])
			if ext == "" {
				ext = "html"
			}
			out = append(out, ContentSource{Raw: raw, Extension: ext})
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedContent, item)
		}
	}
	return out, nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	s, _ := normalize(v).(string)
	return s
}

func strs(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, str(item))
		}
		return out
	case []string:
		return t
	case string:
		return strings.Fields(t)
	}
	return nil
}
