package csstree

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Parse builds a tree from a stylesheet.
func Parse(content string) (*Root, error) {
	return parseList(content, false)
}

// frame is an open container. At-rules the tokenizer has no grammar for
// (@responsive, @variants, @screen) arrive as raw tokens; raw collects them
// and nested records whether the body holds blocks.
type frame struct {
	node   Container
	raw    *strings.Builder
	nested bool
}

// parseList parses a rule list, or a declaration list when inline is set.
func parseList(content string, inline bool) (*Root, error) {
	root := NewRoot()
	stack := []*frame{{node: root}}

	p := css.NewParser(parse.NewInputString(content), inline)
	for {
		gt, tt, data := p.Next()
		f := stack[len(stack)-1]
		top := f.node

		switch gt {
		case css.ErrorGrammar:
			// ErrorGrammar at EOF is the normal end of input
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parse css: %w", err)
			}
			return root, nil

		case css.CommentGrammar:
			text := strings.TrimSuffix(strings.TrimPrefix(string(data), "/*"), "*/")
			top.Append(&Comment{Text: strings.TrimSpace(text)})

		case css.AtRuleGrammar:
			top.Append(&AtRule{
				Name:   strings.TrimPrefix(string(data), "@"),
				Params: joinPrelude(p.Values(), false),
			})

		case css.BeginAtRuleGrammar:
			a := &AtRule{
				Name:     strings.TrimPrefix(string(data), "@"),
				Params:   joinPrelude(p.Values(), false),
				HasBlock: true,
			}
			top.Append(a)
			stack = append(stack, &frame{node: a})

		case css.TokenGrammar:
			if _, ok := top.(*AtRule); !ok {
				continue
			}
			if f.raw == nil {
				f.raw = &strings.Builder{}
			}
			f.raw.Write(data)
			if tt == css.LeftBraceToken {
				f.nested = true
			}

		case css.BeginRulesetGrammar:
			r := NewRule(joinPrelude(p.Values(), true))
			top.Append(r)
			stack = append(stack, &frame{node: r})

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if len(stack) == 1 {
				continue
			}
			if f.raw != nil {
				body, err := parseList(f.raw.String(), !f.nested)
				if err != nil {
					return nil, err
				}
				top.Append(body.RemoveAll()...)
			}
			stack = stack[:len(stack)-1]

		case css.DeclarationGrammar:
			top.Append(declaration(string(data), p.Values()))

		case css.CustomPropertyGrammar:
			top.Append(NewDecl(string(data), strings.TrimSpace(joinTokens(p.Values()))))
		}
	}
}

// MustParse is Parse for literal stylesheets in plugins and tests.
func MustParse(content string) *Root {
	root, err := Parse(content)
	if err != nil {
		panic(err)
	}
	return root
}

func declaration(prop string, values []css.Token) *Decl {
	d := &Decl{Prop: prop}
	values = trimWhitespace(values)

	// Trailing "!important" arrives as a delimiter plus an identifier
	n := len(values)
	if n >= 2 &&
		values[n-2].TokenType == css.DelimToken && string(values[n-2].Data) == "!" &&
		values[n-1].TokenType == css.IdentToken && strings.EqualFold(string(values[n-1].Data), "important") {
		d.Important = true
		values = trimWhitespace(values[:n-2])
	}
	d.Value = joinTokens(values)
	return d
}

// joinTokens concatenates token data, collapsing whitespace runs.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	space := false
	for _, t := range trimWhitespace(tokens) {
		if t.TokenType == css.WhitespaceToken || t.TokenType == css.CommentToken {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.Write(t.Data)
	}
	return b.String()
}

// joinPrelude renders a selector list or at-rule prelude. The tokenizer drops
// the whitespace after commas, combinators and colons, so top-level commas
// and selector combinators get it back, as do colons in media features.
func joinPrelude(tokens []css.Token, selector bool) string {
	var b strings.Builder
	space := false
	depth := 0
	for _, t := range trimWhitespace(tokens) {
		if t.TokenType == css.WhitespaceToken || t.TokenType == css.CommentToken {
			space = true
			continue
		}
		combinator := selector && depth == 0 && t.TokenType == css.DelimToken && isCombinator(t.Data)
		if (space || combinator) && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.Write(t.Data)

		switch t.TokenType {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		}
		space = combinator ||
			t.TokenType == css.CommaToken && depth == 0 ||
			t.TokenType == css.ColonToken && depth > 0 && !selector
	}
	return b.String()
}

func isCombinator(data []byte) bool {
	return len(data) == 1 && (data[0] == '>' || data[0] == '+' || data[0] == '~')
}

func trimWhitespace(tokens []css.Token) []css.Token {
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
