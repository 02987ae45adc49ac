package config

import (
	"fmt"
	"strconv"
	"strings"
)

// mergeThemes takes each top-level key from the first theme that defines it
// and collects every theme's "extend" entries, lowest priority first.
func mergeThemes(themes []map[string]any) (map[string]any, map[string][]any) {
	merged := make(map[string]any)
	extend := make(map[string][]any)
	for _, theme := range themes {
		for k, v := range theme {
			if k == "extend" {
				continue
			}
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
		ext, _ := theme["extend"].(map[string]any)
		for k, v := range ext {
			extend[k] = append([]any{v}, extend[k]...)
		}
	}
	return merged, extend
}

// mergeExtensions deep merges each extension into its base scale. When any
// part is a function the merge is deferred into a function too.
func mergeExtensions(theme map[string]any, extend map[string][]any) map[string]any {
	for key, extensions := range extend {
		parts := append([]any{theme[key]}, extensions...)

		hasFunc := false
		for _, p := range parts {
			if _, ok := asThemeFunc(p); ok {
				hasFunc = true
			}
		}
		if !hasFunc {
			theme[key] = mergeAll(parts)
			continue
		}
		theme[key] = ThemeFunc(func(resolve func(string) any, u Utils) any {
			values := make([]any, len(parts))
			for i, p := range parts {
				values[i] = callValue(p, resolve, u)
			}
			return mergeAll(values)
		})
	}
	return theme
}

func mergeAll(parts []any) any {
	var out any = map[string]any{}
	for _, p := range parts {
		out = mergeValue(out, p)
	}
	return out
}

// mergeValue deep merges src into dst. Lists and scalars in src replace dst.
func mergeValue(dst, src any) any {
	if src == nil {
		return dst
	}
	sm, sok := src.(map[string]any)
	dm, dok := dst.(map[string]any)
	if !sok || !dok {
		return copyValue(src)
	}
	out := make(map[string]any, len(dm)+len(sm))
	for k, v := range dm {
		out[k] = v
	}
	for k, v := range sm {
		out[k] = mergeValue(out[k], v)
	}
	return out
}

func asThemeFunc(v any) (ThemeFunc, bool) {
	switch fn := v.(type) {
	case ThemeFunc:
		return fn, true
	case func(func(string) any, Utils) any:
		return fn, true
	}
	return nil, false
}

func callValue(v any, resolve func(string) any, u Utils) any {
	if fn, ok := asThemeFunc(v); ok {
		return fn(resolve, u)
	}
	return v
}

// resolveFunctionKeys evaluates top-level theme functions. Functions may
// reference any other theme path, which is resolved on demand.
func resolveFunctionKeys(theme map[string]any) map[string]any {
	var resolvePath func(path string) any
	resolvePath = func(path string) any {
		var val any = theme
		for _, seg := range ToPath(path) {
			m, ok := val.(map[string]any)
			if !ok {
				return nil
			}
			val = callValue(m[seg], resolvePath, Utils{})
			if val == nil {
				return nil
			}
		}
		return val
	}

	out := make(map[string]any, len(theme))
	for k, v := range theme {
		out[k] = normalize(callValue(v, resolvePath, Utils{}))
	}
	return out
}

// ToPath splits a dotted theme path. Bracketed segments keep their dots, so
// "spacing[0.5]" is ["spacing", "0.5"].
func ToPath(path string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				cur.WriteString(path[i+1:])
				i = len(path)
				continue
			}
			seg := strings.Trim(path[i+1:i+end], `"'`)
			out = append(out, seg)
			i += end
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

// Lookup walks a resolved value along path. Keys containing dots, such as
// "0.5", are matched greedily when the plain split misses.
func Lookup(root any, path string) any {
	return lookupSegments(root, ToPath(path))
}

func lookupSegments(val any, segs []string) any {
	if len(segs) == 0 {
		return val
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil
	}
	for n := len(segs); n >= 1; n-- {
		key := strings.Join(segs[:n], ".")
		if next, ok := m[key]; ok {
			if found := lookupSegments(next, segs[n:]); found != nil {
				return found
			}
		}
	}
	return nil
}

// normalize converts loaded values into map[string]any, []string and
// string leaves. Palette references ("palette.sky") are left for
// resolvePaletteRefs.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(normalize(item)))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	default:
		return fmt.Sprint(t)
	}
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = copyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// resolvePaletteRefs replaces "palette.<name>" strings with the palette
// family and returns the notices of any renamed families used.
func resolvePaletteRefs(v any, notices *[]string) any {
	switch t := v.(type) {
	case string:
		name, ok := strings.CutPrefix(t, "palette.")
		if !ok {
			return t
		}
		family, notice, found := Palette(name)
		if !found {
			return t
		}
		if notice != "" {
			*notices = append(*notices, notice)
		}
		return normalize(family)
	case map[string]any:
		for k, item := range t {
			t[k] = resolvePaletteRefs(item, notices)
		}
		return t
	default:
		return v
	}
}
