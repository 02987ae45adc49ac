package csstree

import "strings"

// Walk visits every descendant of c depth-first. Children are snapshotted
// before descending, so fn may remove or replace the node it is given.
// Returning false from fn skips the node's children.
func Walk(c Container, fn func(Node) bool) {
	nodes := append([]Node(nil), c.Nodes()...)
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if child, ok := n.(Container); ok {
			Walk(child, fn)
		}
	}
}

// WalkRules visits every rule below c.
func WalkRules(c Container, fn func(*Rule)) {
	Walk(c, func(n Node) bool {
		if r, ok := n.(*Rule); ok {
			fn(r)
		}
		return true
	})
}

// WalkAtRules visits every at-rule below c. An empty name matches all.
func WalkAtRules(c Container, name string, fn func(*AtRule)) {
	Walk(c, func(n Node) bool {
		if a, ok := n.(*AtRule); ok && (name == "" || a.Name == name) {
			fn(a)
		}
		return true
	})
}

// WalkDecls visits every declaration below c. An empty prop matches all.
func WalkDecls(c Container, prop string, fn func(*Decl)) {
	Walk(c, func(n Node) bool {
		if d, ok := n.(*Decl); ok && (prop == "" || d.Prop == prop) {
			fn(d)
		}
		return true
	})
}

// InKeyframes reports whether r sits directly inside a @keyframes block.
func InKeyframes(r *Rule) bool {
	a, ok := r.Parent().(*AtRule)
	return ok && strings.HasSuffix(a.Name, "keyframes")
}

// SplitSelectors splits a selector list at commas that are not escaped,
// quoted, or nested inside parentheses or brackets.
func SplitSelectors(selector string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(selector); i++ {
		ch := selector[i]
		switch {
		case ch == '\\':
			i++
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(selector[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(selector[start:]))
}

func joinSelectors(selectors []string) string {
	return strings.Join(selectors, ", ")
}
