package jit

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yacobolo/jitcss/internal/config"
)

const stop = "<>\"'`\\s"

var (
	// broadMatch keeps arbitrary values such as content-['hello'] and
	// fill-[#bada55] whole.
	broadMatch = regexp.MustCompile(strings.Join([]string{
		`([^` + stop + `]*\['[^` + stop + `]*'\])`,
		`([^` + stop + `]*\["[^` + stop + `]*"\])`,
		`([^` + stop + `]*\[[^` + stop + `]+\])`,
		`([^` + stop + `]*[^` + stop + `:])`,
	}, "|"))
	// innerMatch finds class-like runs inside attribute values and
	// expressions, such as the classes in class="{{ a ? 'p-4' : '' }}".
	innerMatch = regexp.MustCompile(`[^<>"'` + "`" + `\s.(){}[\]#=%]*[^<>"'` + "`" + `\s.(){}[\]#=%:]`)

	svelteClassDirective = regexp.MustCompile(`(?:^|\s)class:`)
)

// DefaultExtractor returns every token that could be a class. Broad
// matches come first, then inner matches.
func DefaultExtractor(content string) []string {
	return append(broadMatch.FindAllString(content, -1), innerMatch.FindAllString(content, -1)...)
}

var builtinExtractors = map[string]config.Extractor{
	"DEFAULT": DefaultExtractor,
}

var builtinTransformers = map[string]config.Transformer{
	"DEFAULT": func(content string) string { return content },
	"svelte": func(content string) string {
		return svelteClassDirective.ReplaceAllString(content, " ")
	},
}

// extractorFor picks the extractor for a file extension. purge.extract
// wins, then purge.options, then the built-in extractors.
func extractorFor(purge config.Purge, ext string) config.Extractor {
	extractors := make(map[string]config.Extractor, len(purge.Extract)+1)
	for k, v := range purge.Extract {
		extractors[k] = v
	}
	if purge.Options.DefaultExtractor != nil {
		extractors["DEFAULT"] = purge.Options.DefaultExtractor
	}
	for _, e := range purge.Options.Extractors {
		for _, x := range e.Extensions {
			extractors[x] = e.Extractor
		}
	}
	if fn := extractors[ext]; fn != nil {
		return fn
	}
	if fn := extractors["DEFAULT"]; fn != nil {
		return fn
	}
	if fn := builtinExtractors[ext]; fn != nil {
		return fn
	}
	return builtinExtractors["DEFAULT"]
}

func transformerFor(purge config.Purge, ext string) config.Transformer {
	if fn := purge.Transform[ext]; fn != nil {
		return fn
	}
	if fn := purge.Transform["DEFAULT"]; fn != nil {
		return fn
	}
	if fn := builtinTransformers[ext]; fn != nil {
		return fn
	}
	return builtinTransformers["DEFAULT"]
}

// classCandidates adds the candidates of every trimmed line of content to
// candidates. Lines in seen are skipped; cache holds the candidates of
// lines scanned before.
func classCandidates(content string, extract config.Extractor, cache *lru.Cache[string, []string], candidates, seen map[string]struct{}) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}

		if matches, ok := cache.Get(line); ok {
			for _, m := range matches {
				candidates[m] = struct{}{}
			}
			continue
		}

		var matches []string
		unique := make(map[string]struct{})
		for _, m := range extract(line) {
			if m == "!*" {
				continue
			}
			if _, ok := unique[m]; ok {
				continue
			}
			unique[m] = struct{}{}
			matches = append(matches, m)
			candidates[m] = struct{}{}
		}
		cache.Add(line, matches)
	}
}

// extractCandidates scans the queued content. The result always holds the
// universal candidate "*".
func (c *Context) extractCandidates(cache *lru.Cache[string, []string]) map[string]struct{} {
	candidates := map[string]struct{}{"*": {}}
	seen := make(map[string]struct{})
	for _, content := range c.changedContent {
		transform := transformerFor(c.Config.Purge, content.Extension)
		extract := extractorFor(c.Config.Purge, content.Extension)
		classCandidates(transform(content.Content), extract, cache, candidates, seen)
	}
	return candidates
}
