package plugin

import (
	"regexp"
	"strings"

	"github.com/yacobolo/jitcss/internal/csstree"
)

// Value types accepted by MatchOptions.Type.
const (
	TypeAny    = "any"
	TypeList   = "list"
	TypeColor  = "color"
	TypeAngle  = "angle"
	TypeLength = "length"
	TypeLookup = "lookup"
)

type coercer func(modifier string, values map[string]any, opacity map[string]any) (string, bool)

var typeMap = map[string]coercer{
	TypeAny: func(m string, v map[string]any, _ map[string]any) (string, bool) {
		return asValue(m, v, nil, nil)
	},
	TypeList: func(m string, v map[string]any, _ map[string]any) (string, bool) {
		return AsList(m, v)
	},
	TypeColor: AsColor,
	TypeAngle: func(m string, v map[string]any, _ map[string]any) (string, bool) {
		return AsAngle(m, v)
	},
	TypeLength: func(m string, v map[string]any, _ map[string]any) (string, bool) {
		return AsLength(m, v)
	},
	TypeLookup: func(m string, v map[string]any, _ map[string]any) (string, bool) {
		return lookup(v, m)
	},
}

// CoerceValue interprets a utility modifier. types[0] applies to scale
// values and the last entry to arbitrary values, unless an arbitrary value
// names its own type as in "[length:2px]". It returns the value, the type
// it was read as, and whether a value was found.
func CoerceValue(types []string, modifier string, values, opacity map[string]any) (string, string, bool) {
	if len(types) == 0 {
		types = []string{TypeAny}
	}
	scaleType, arbitraryType := types[0], types[len(types)-1]

	if isArbitrary(modifier) {
		explicitType, value, _ := strings.Cut(modifier[1:len(modifier)-1], ":")
		if _, known := typeMap[explicitType]; value != "" && known {
			v, ok := asValue("["+value+"]", values, nil, nil)
			return v, explicitType, ok
		}
		coerce, known := typeMap[arbitraryType]
		if !known {
			return "", arbitraryType, false
		}
		v, ok := coerce(modifier, values, opacity)
		return v, arbitraryType, ok
	}

	coerce, known := typeMap[scaleType]
	if !known {
		return "", scaleType, false
	}
	v, ok := coerce(modifier, values, opacity)
	return v, scaleType, ok
}

func isArbitrary(s string) bool {
	return len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']'
}

// lookup returns a scale value. Lists are joined with commas.
func lookup(values map[string]any, key string) (string, bool) {
	switch v := values[key].(type) {
	case string:
		return v, true
	case []string:
		return strings.Join(v, ", "), true
	}
	return "", false
}

// asValue returns the scale value for modifier or, for an arbitrary
// "[...]" modifier, the validated and transformed inner value.
func asValue(modifier string, values map[string]any, validate func(string) bool, transform func(string) string) (string, bool) {
	if v, ok := lookup(values, modifier); ok {
		return v, true
	}
	if !isArbitrary(modifier) {
		return "", false
	}
	value := modifier[1 : len(modifier)-1]
	if validate != nil && !validate(value) {
		return "", false
	}
	if transform != nil {
		value = transform(value)
	}
	return spaceOperators(value), true
}

// spaceOperators adds spaces around math operators that directly follow a
// number, a number with a unit, or a closing parenthesis, so that
// "calc(100%-1rem)" becomes "calc(100% - 1rem)".
func spaceOperators(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if strings.IndexByte("+-/*", c) >= 0 && followsOperand(value[:i]) {
			b.WriteByte(' ')
			b.WriteByte(c)
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func followsOperand(prefix string) bool {
	if prefix == "" {
		return false
	}
	if prefix[len(prefix)-1] == ')' {
		return true
	}
	j := len(prefix)
	if prefix[j-1] == '%' {
		j--
	} else {
		for j > 0 && prefix[j-1] >= 'a' && prefix[j-1] <= 'z' {
			j--
		}
	}
	return j > 0 && prefix[j-1] >= '0' && prefix[j-1] <= '9'
}

func unitValidator(units []string) func(string) bool {
	pattern := "(?:" + strings.Join(units, "|") + ")"
	suffix := regexp.MustCompile(pattern + "$")
	calc := regexp.MustCompile(`^calc\(.+?` + pattern)
	return func(v string) bool {
		return suffix.MatchString(v) || calc.MatchString(v)
	}
}

var (
	angleUnits  = unitValidator([]string{"deg", "grad", "rad", "turn"})
	lengthUnits = unitValidator([]string{"cm", "mm", "Q", "in", "pc", "pt", "px", "em", "ex", "ch", "rem", "lh", "vw", "vh", "vmin", "vmax", "%"})
)

// AsAngle accepts scale values and arbitrary angles.
func AsAngle(modifier string, values map[string]any) (string, bool) {
	return asValue(modifier, values, angleUnits, nil)
}

// AsLength accepts scale values and arbitrary lengths.
func AsLength(modifier string, values map[string]any) (string, bool) {
	return asValue(modifier, values, lengthUnits, nil)
}

// AsList accepts scale values and arbitrary comma separated lists, which
// are joined with spaces.
func AsList(modifier string, values map[string]any) (string, bool) {
	return asValue(modifier, values, nil, func(v string) string {
		parts := SplitComma(v)
		for i, p := range parts {
			parts[i] = strings.ReplaceAll(p, ",", ", ")
		}
		return strings.Join(parts, " ")
	})
}

// AsColor accepts scale colors, scale colors with an opacity modifier
// ("red-500/50" or "red-500/[.35]") and arbitrary colors.
func AsColor(modifier string, values map[string]any, opacity map[string]any) (string, bool) {
	if v, ok := lookup(values, modifier); ok {
		return v, true
	}
	color, alpha, hasAlpha := splitAlpha(modifier)
	if base, ok := lookup(values, color); ok && hasAlpha {
		if isArbitrary(alpha) {
			return WithAlphaValue(base, alpha[1:len(alpha)-1])
		}
		a, ok := lookup(opacity, alpha)
		if !ok {
			return "", false
		}
		return WithAlphaValue(base, a)
	}
	return asValue(modifier, values, IsColor, nil)
}

func splitAlpha(modifier string) (string, string, bool) {
	idx := strings.LastIndexByte(modifier, '/')
	if idx == -1 || idx == len(modifier)-1 {
		return modifier, "", false
	}
	return modifier[:idx], modifier[idx+1:], true
}

// SplitComma splits a value at top-level commas, ignoring commas inside
// quotes and parentheses, and trims each part.
func SplitComma(value string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(value[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(value[start:]))
}

var (
	openBrackets  = map[rune]rune{'{': '}', '[': ']', '(': ')'}
	closeBrackets = map[rune]rune{'}': '{', ']': '[', ')': '('}
)

// IsValidArbitraryValue reports whether the brackets in value balance.
// Escaped characters and anything inside quotes are ignored.
func IsValidArbitraryValue(value string) bool {
	var stack []rune
	inQuotes := false
	runes := []rune(value)
	for i, c := range runes {
		escaped := i > 0 && runes[i-1] == '\\'
		if (c == '"' || c == '\'' || c == '`') && !escaped {
			inQuotes = !inQuotes
		}
		if inQuotes || escaped {
			continue
		}
		if _, ok := openBrackets[c]; ok {
			stack = append(stack, c)
			continue
		}
		if open, ok := closeBrackets[c]; ok {
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// NameClass builds the class name a dynamic utility produces for
// modifier, escaped for use in a selector.
func NameClass(prefix, modifier string) string {
	return csstree.EscapeClassName(nameClass(prefix, modifier))
}

func nameClass(prefix, modifier string) string {
	switch {
	case modifier == "DEFAULT":
		return prefix
	case modifier == "-" || modifier == "-DEFAULT":
		return "-" + prefix
	case strings.HasPrefix(modifier, "-"):
		return "-" + prefix + modifier
	default:
		return prefix + "-" + modifier
	}
}

// FlattenColorPalette turns nested color families into "family-shade"
// keys. A family's DEFAULT shade is also available as the family name.
func FlattenColorPalette(colors map[string]any) map[string]any {
	out := make(map[string]any)
	for name, v := range colors {
		switch t := v.(type) {
		case map[string]any:
			for shade, c := range FlattenColorPalette(t) {
				if shade == "DEFAULT" {
					out[name] = c
					continue
				}
				out[name+"-"+shade] = c
			}
		default:
			out[name] = t
		}
	}
	return out
}
