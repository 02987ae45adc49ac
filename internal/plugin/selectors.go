package plugin

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/jitcss/internal/csstree"
)

type selectorToken struct {
	tt   css.TokenType
	data string
}

func tokenizeSelector(selector string) []selectorToken {
	var tokens []selectorToken
	l := css.NewLexer(parse.NewInputString(selector))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return tokens
		}
		tokens = append(tokens, selectorToken{tt: tt, data: string(data)})
	}
}

func isClassToken(tokens []selectorToken, i int) bool {
	if tokens[i].tt != css.DelimToken || tokens[i].data != "." || i+1 >= len(tokens) {
		return false
	}
	next := tokens[i+1].tt
	return next == css.IdentToken || next == css.CustomPropertyNameToken
}

// ClassModifier is passed to class update functions.
type ClassModifier struct {
	pseudos []string
}

// WithPseudo appends pseudo right after the class being updated and
// returns className unchanged.
func (m *ClassModifier) WithPseudo(className, pseudo string) string {
	m.pseudos = append(m.pseudos, pseudo)
	return className
}

// UpdateClassFunc returns the new unescaped name for a class.
type UpdateClassFunc func(className string, m *ClassModifier) string

// Classes returns the unescaped class names in selector, in order.
func Classes(selector string) []string {
	tokens := tokenizeSelector(selector)
	var out []string
	for i := range tokens {
		if isClassToken(tokens, i) {
			out = append(out, csstree.UnescapeIdent(tokens[i+1].data))
		}
	}
	return out
}

// UpdateAllClasses rewrites every class in selector.
func UpdateAllClasses(selector string, update UpdateClassFunc) string {
	tokens := tokenizeSelector(selector)
	var b strings.Builder
	for i := 0; i < len(tokens); i++ {
		if !isClassToken(tokens, i) {
			b.WriteString(tokens[i].data)
			continue
		}
		writeClass(&b, tokens[i+1].data, update)
		i++
	}
	return b.String()
}

// UpdateLastClasses rewrites the last top-level class of every selector
// in a selector list.
func UpdateLastClasses(selector string, update UpdateClassFunc) string {
	parts := csstree.SplitSelectors(selector)
	for idx, part := range parts {
		tokens := tokenizeSelector(part)
		last := -1
		depth := 0
		for i, t := range tokens {
			switch {
			case t.tt == css.FunctionToken || t.tt == css.LeftParenthesisToken:
				depth++
			case t.tt == css.RightParenthesisToken:
				depth--
			case depth == 0 && isClassToken(tokens, i):
				last = i
			}
		}
		if last == -1 {
			continue
		}
		var b strings.Builder
		for i := 0; i < len(tokens); i++ {
			if i == last {
				writeClass(&b, tokens[i+1].data, update)
				i++
				continue
			}
			b.WriteString(tokens[i].data)
		}
		parts[idx] = b.String()
	}
	return strings.Join(parts, ", ")
}

func writeClass(b *strings.Builder, raw string, update UpdateClassFunc) {
	m := &ClassModifier{}
	updated := update(csstree.UnescapeIdent(raw), m)
	b.WriteByte('.')
	b.WriteString(csstree.EscapeClassName(updated))
	for _, p := range m.pseudos {
		b.WriteString(p)
	}
}

// PrefixSelector prefixes every class in selector.
func PrefixSelector(prefix, selector string) string {
	if prefix == "" {
		return selector
	}
	return UpdateAllClasses(selector, func(className string, _ *ClassModifier) string {
		return prefix + className
	})
}

// TransformOptions add work around a selector transformation.
type TransformOptions struct {
	// Wrap returns an at-rule that receives all transformed nodes.
	Wrap func() *csstree.AtRule
	// WithRule is called with each transformed rule.
	WithRule func(rule *csstree.Rule)
}

func (o TransformOptions) apply(rule *csstree.Rule) {
	if o.WithRule != nil {
		o.WithRule(rule)
	}
}

func (o TransformOptions) wrap(ctx *VariantContext) {
	if o.Wrap != nil {
		ctx.Wrap(o.Wrap())
	}
}

// TransformAllSelectors builds a variant that rewrites every selector of
// every rule. Returning "" from transform skips the variant.
func TransformAllSelectors(transform func(selector string) string, opts TransformOptions) VariantFunc {
	return func(ctx *VariantContext) bool {
		ok := true
		csstree.WalkRules(ctx.Container, func(rule *csstree.Rule) {
			if csstree.InKeyframes(rule) {
				return
			}
			selectors := rule.Selectors()
			for i, sel := range selectors {
				transformed := transform(sel)
				if transformed == "" {
					ok = false
					return
				}
				selectors[i] = transformed
			}
			rule.SetSelectors(selectors)
			opts.apply(rule)
		})
		if !ok {
			return false
		}
		opts.wrap(ctx)
		return true
	}
}

// TransformAllClasses builds a variant that rewrites every class.
func TransformAllClasses(transform UpdateClassFunc, opts TransformOptions) VariantFunc {
	return func(ctx *VariantContext) bool {
		csstree.WalkRules(ctx.Container, func(rule *csstree.Rule) {
			rule.Selector = UpdateAllClasses(rule.Selector, transform)
			opts.apply(rule)
		})
		opts.wrap(ctx)
		return true
	}
}

// TransformLastClasses builds a variant that rewrites the last class of
// every selector.
func TransformLastClasses(transform UpdateClassFunc, opts TransformOptions) VariantFunc {
	return func(ctx *VariantContext) bool {
		csstree.WalkRules(ctx.Container, func(rule *csstree.Rule) {
			rule.Selector = UpdateLastClasses(rule.Selector, transform)
			opts.apply(rule)
		})
		opts.wrap(ctx)
		return true
	}
}

// ApplyPseudoToMarker attaches state to marker in selector, merging with
// states already attached, and joins the result with join. For marker
// ".group" and state "hover", ".group-hover\:x" becomes
// join(".group:hover", ".group-hover\:x").
func ApplyPseudoToMarker(selector, marker, state string, join func(marker, selector string) string) string {
	states := []string{state}
	if idx := strings.Index(selector, marker+":"); idx != -1 {
		end := strings.IndexByte(selector[idx:], ' ')
		if end == -1 {
			end = len(selector) - idx
		}
		existing := selector[idx : idx+end]
		states = append(states, strings.Split(existing[len(marker)+1:], ":")...)
		selector = strings.Replace(selector, existing, "", 1)
		selector = strings.TrimSpace(selector)
	}
	return join(marker+":"+strings.Join(states, ":"), selector)
}
