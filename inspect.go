package jitcss

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/yacobolo/jitcss/internal/csstree"
	"github.com/yacobolo/jitcss/internal/jit"
)

// Bit names a sort bit.
type Bit struct {
	Name string
	// Bit is the position of the bit in the sort key.
	Bit int
}

// Bucket is an output bucket and the selectors of its rules.
type Bucket struct {
	Name  string
	Rules []string
}

// Inspection is the compiled state a result was built with.
type Inspection struct {
	Layers        []Bit
	Variants      []Bit
	MinimumScreen int
	Buckets       []Bucket
}

// Inspect describes the sort layout and output buckets behind r.
func (r *Result) Inspect() Inspection {
	var in Inspection
	for _, l := range []jit.Layer{jit.LayerBase, jit.LayerComponents, jit.LayerUtilities} {
		in.Layers = append(in.Layers, Bit{Name: l.String(), Bit: r.ctx.LayerOrder(l).BitLen() - 1})
	}
	for _, v := range r.ctx.VariantOrder() {
		in.Variants = append(in.Variants, Bit{Name: v.Name, Bit: v.Sort.BitLen() - 1})
	}
	in.MinimumScreen = r.ctx.MinimumScreen().BitLen() - 1

	s := r.ctx.Stylesheet()
	if s == nil {
		return in
	}
	for _, b := range []struct {
		name  string
		nodes []csstree.Node
	}{
		{"base", s.Base},
		{"components", s.Components},
		{"utilities", s.Utilities},
		{"variants", s.Variants},
	} {
		bucket := Bucket{Name: b.name}
		for _, n := range b.nodes {
			bucket.Rules = append(bucket.Rules, describe(n))
		}
		in.Buckets = append(in.Buckets, bucket)
	}
	return in
}

// describe summarizes a rule as its selector, with any wrapping at-rules.
func describe(n csstree.Node) string {
	switch v := n.(type) {
	case *csstree.Rule:
		return v.Selector
	case *csstree.AtRule:
		var inner []string
		for _, c := range v.Nodes() {
			inner = append(inner, describe(c))
		}
		head := "@" + v.Name
		if v.Params != "" {
			head += " " + v.Params
		}
		return head + " { " + strings.Join(inner, ", ") + " }"
	}
	return ""
}

// Tree renders the inspection as a tree.
func (in Inspection) Tree() string {
	t := treeprint.NewWithRoot("context")

	layers := t.AddBranch("layers")
	for _, l := range in.Layers {
		layers.AddNode(fmt.Sprintf("%s: bit %d", l.Name, l.Bit))
	}

	variants := t.AddBranch(fmt.Sprintf("variants (from bit %d)", in.MinimumScreen))
	for _, v := range in.Variants {
		variants.AddNode(fmt.Sprintf("%s: bit %d", v.Name, v.Bit))
	}

	buckets := t.AddBranch("buckets")
	for _, b := range in.Buckets {
		branch := buckets.AddBranch(fmt.Sprintf("%s (%d)", b.Name, len(b.Rules)))
		for _, rule := range b.Rules {
			branch.AddNode(rule)
		}
	}
	return t.String()
}
