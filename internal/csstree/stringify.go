package csstree

import "strings"

const indentUnit = "  "

// String serializes the root as a formatted stylesheet.
func (r *Root) String() string {
	var b strings.Builder
	writeChildren(&b, r.nodes, 0)
	return b.String()
}

// Stringify serializes a single node.
func Stringify(n Node) string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return b.String()
}

func writeChildren(b *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		writeNode(b, n, depth)
	}
}

func writeNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch v := n.(type) {
	case *Root:
		writeChildren(b, v.nodes, depth)

	case *Rule:
		b.WriteString(indent)
		b.WriteString(v.Selector)
		b.WriteString(" {\n")
		writeChildren(b, v.nodes, depth+1)
		b.WriteString(indent)
		b.WriteString("}\n")

	case *AtRule:
		b.WriteString(indent)
		b.WriteByte('@')
		b.WriteString(v.Name)
		if v.Params != "" {
			b.WriteByte(' ')
			b.WriteString(v.Params)
		}
		if !v.HasBlock {
			b.WriteString(";\n")
			return
		}
		b.WriteString(" {\n")
		writeChildren(b, v.nodes, depth+1)
		b.WriteString(indent)
		b.WriteString("}\n")

	case *Decl:
		b.WriteString(indent)
		b.WriteString(v.Prop)
		b.WriteString(": ")
		b.WriteString(v.Value)
		if v.Important {
			b.WriteString(" !important")
		}
		b.WriteString(";\n")

	case *Comment:
		b.WriteString(indent)
		b.WriteString("/* ")
		b.WriteString(v.Text)
		b.WriteString(" */\n")
	}
}
