package csstree

import (
	"fmt"
	"strconv"
	"strings"
)

// EscapeClassName escapes a raw class name so it can be used after a "."
// in a selector: "hover:text-red" becomes "hover\:text-red".
func EscapeClassName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		case r >= 0x80:
			b.WriteRune(r)
		case r == ',':
			b.WriteString(`\2c `)
		case isIdentChar(byte(r)):
			if i == 0 && r >= '0' && r <= '9' {
				fmt.Fprintf(&b, "\\3%c ", r)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "-" {
		return `\-`
	}
	if len(out) > 1 && out[0] == '-' && (out[1] == '-' || (out[1] >= '0' && out[1] <= '9')) {
		return `\-` + out[1:]
	}
	return out
}

// UnescapeIdent resolves CSS escapes in an identifier: "w-1\.5" becomes
// "w-1.5" and "\32xl" becomes "2xl".
func UnescapeIdent(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && j < i+7 && isHex(s[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(s[j])
			i = j
			continue
		}
		code, err := strconv.ParseUint(s[i+1:j], 16, 32)
		if err != nil || code == 0 || code > 0x10ffff {
			code = 0xfffd
		}
		b.WriteRune(rune(code))
		if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
