package jit

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/jitcss/internal/config"
)

// ScanStats counts the files found for the candidate globs.
type ScanStats struct {
	FilesDiscovered int // Regular files matched by the globs
	FilesScanned    int // Files kept after filtering
	FilesSkipped    int // Files dropped by .gitignore
}

// fileScanner expands candidate globs into files.
type fileScanner struct {
	gitIgnoreOnce sync.Once
	gitIgnore     *ignore.GitIgnore
}

// loadGitIgnore loads .gitignore from the working directory once. A
// missing file disables filtering.
func (s *fileScanner) loadGitIgnore() *ignore.GitIgnore {
	s.gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			return
		}
		s.gitIgnore = gi
	})
	return s.gitIgnore
}

// shouldSkip reports whether .gitignore excludes path. Only paths inside
// the working directory are checked.
func (s *fileScanner) shouldSkip(path string) bool {
	gi := s.loadGitIgnore()
	if gi == nil {
		return false
	}
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return gi.MatchesPath(rel)
}

// expand returns the regular files matching patterns, deduplicated, in
// pattern order.
func (s *fileScanner) expand(patterns []string) ([]string, ScanStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++
			if s.shouldSkip(match) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
			stats.FilesScanned++
		}
	}
	return files, stats, nil
}

// candidateFiles returns the absolute content globs of cfg.
func candidateFiles(cfg *config.Resolved) ([]string, error) {
	var out []string
	for _, c := range cfg.Purge.Content {
		if c.IsRaw() {
			continue
		}
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving content path %q: %w", c.Path, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// parseDependency describes a content path for the host: a file, or a
// directory and the glob inside it. With flat set a glob is reported as a
// plain dependency on its directory.
func parseDependency(fileOrGlob string, flat bool) Message {
	if !isGlob(fileOrGlob) {
		return Message{Type: MessageDependency, File: fileOrGlob}
	}
	base, glob := doublestar.SplitPattern(filepath.ToSlash(fileOrGlob))
	dir, err := filepath.Abs(filepath.FromSlash(base))
	if err != nil {
		dir = filepath.FromSlash(base)
	}
	if flat {
		return Message{Type: MessageDependency, File: dir}
	}
	return Message{Type: MessageDirDependency, Dir: dir, Glob: glob}
}

// readContent reads a file as content for its extension.
func readContent(file string) (Content, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return Content{}, fmt.Errorf("reading %s: %w", file, err)
	}
	return Content{Content: string(b), Extension: strings.TrimPrefix(filepath.Ext(file), ".")}, nil
}

// staticContent returns the raw content entries of cfg followed by its
// safelist. Safelist entries must be strings.
func staticContent(cfg *config.Resolved) ([]Content, error) {
	var out []Content
	for _, c := range cfg.Purge.Content {
		if c.IsRaw() {
			ext := c.Extension
			if ext == "" {
				ext = "html"
			}
			out = append(out, Content{Content: c.Raw, Extension: ext})
		}
	}
	for _, entry := range cfg.Purge.Safelist {
		switch v := entry.(type) {
		case string:
			out = append(out, Content{Content: v, Extension: "html"})
		case *regexp.Regexp:
			return nil, fmt.Errorf("%w: values inside 'purge.safelist' can only be of type 'string', found 'regex'", config.ErrInvalidSafelist)
		default:
			return nil, fmt.Errorf("%w: values inside 'purge.safelist' can only be of type 'string', found '%s'", config.ErrInvalidSafelist, jsType(v))
		}
	}
	return out, nil
}

// jsType names the kind of a config value the way config files spell it.
func jsType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case func(), func(string) string, func(string) []string:
		return "function"
	default:
		return "object"
	}
}
