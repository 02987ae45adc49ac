package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hash computes a stable digest of a resolved config. Functions are not
// hashed; plugins contribute only their names, so two configs that differ
// only in anonymous plugin code share a hash.
func Hash(r *Resolved) string {
	d := xxhash.New()
	w := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.WriteString("\x00")
		}
	}

	w("prefix", r.Prefix, "separator", r.Separator, "darkMode", r.DarkMode, "mode", r.Mode)
	w("important", strconv.FormatBool(r.Important.Enabled), r.Important.Selector)
	w("theme")
	hashValue(w, r.Theme)
	w("variants")
	hashValue(w, normalize(r.Variants))
	w("globalVariants")
	hashValue(w, r.GlobalVariants)
	w("variantOrder")
	hashValue(w, r.VariantOrder)
	w("corePlugins")
	hashValue(w, r.CorePlugins)
	w("plugins", strconv.Itoa(len(r.Plugins)))
	for _, p := range r.Plugins {
		w(p.Name)
	}

	w("purge")
	for _, c := range r.Purge.Content {
		w(c.Path, c.Raw, c.Extension)
	}
	for _, s := range r.Purge.Safelist {
		w(fmt.Sprintf("%T:%v", s, s))
	}
	w("extract")
	hashValue(w, sortedKeys(r.Purge.Extract))
	hashValue(w, sortedKeys(r.Purge.Transform))
	w(strconv.FormatBool(r.Purge.Options.DefaultExtractor != nil), strconv.Itoa(len(r.Purge.Options.Extractors)))

	return strconv.FormatUint(d.Sum64(), 16)
}

func hashValue(w func(...string), v any) {
	switch t := v.(type) {
	case nil:
		w("nil")
	case string:
		w("s", t)
	case []string:
		w("l", strconv.Itoa(len(t)))
		w(t...)
	case map[string][]string:
		hashValue(w, normalize(t))
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w("m", strconv.Itoa(len(keys)))
		for _, k := range keys {
			w(k)
			hashValue(w, t[k])
		}
	default:
		w(fmt.Sprint(t))
	}
}
