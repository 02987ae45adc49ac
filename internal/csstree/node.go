// Package csstree is a small mutable CSS syntax tree.
//
// Rules and at-rules own their children. Every node keeps a pointer to its
// parent so that nodes can be removed or replaced in place while the tree is
// being walked, which is what the at-rule expansion needs.
package csstree

// NodeType identifies the concrete kind of a Node.
type NodeType int

// Node kinds.
const (
	RootNode NodeType = iota
	RuleNode
	AtRuleNode
	DeclNode
	CommentNode
)

// Node is any element of the tree.
type Node interface {
	Type() NodeType
	Parent() Container
	// Clone returns a deep copy detached from any parent.
	Clone() Node

	setParent(Container)
}

// Container is a node that holds child nodes.
type Container interface {
	Node
	Nodes() []Node
	Append(nodes ...Node)
	Prepend(nodes ...Node)
	InsertBefore(ref Node, nodes ...Node)
	RemoveChild(child Node)
	RemoveAll() []Node
	list() *[]Node
}

type children struct {
	nodes []Node
}

func (c *children) list() *[]Node { return &c.nodes }

// Nodes returns the direct children. The slice must not be modified.
func (c *children) Nodes() []Node { return c.nodes }

func adopt(owner Container, nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if p := n.Parent(); p != nil {
			p.RemoveChild(n)
		}
		n.setParent(owner)
		out = append(out, n)
	}
	return out
}

func appendTo(owner Container, nodes ...Node) {
	l := owner.list()
	*l = append(*l, adopt(owner, nodes)...)
}

func prependTo(owner Container, nodes ...Node) {
	l := owner.list()
	adopted := adopt(owner, nodes)
	*l = append(adopted, *l...)
}

func insertBefore(owner Container, ref Node, nodes ...Node) {
	adopted := adopt(owner, nodes)
	l := owner.list()
	idx := indexOf(*l, ref)
	if idx < 0 {
		*l = append(*l, adopted...)
		return
	}
	next := make([]Node, 0, len(*l)+len(adopted))
	next = append(next, (*l)[:idx]...)
	next = append(next, adopted...)
	next = append(next, (*l)[idx:]...)
	*l = next
}

func removeChild(owner Container, child Node) {
	l := owner.list()
	idx := indexOf(*l, child)
	if idx < 0 {
		return
	}
	*l = append((*l)[:idx:idx], (*l)[idx+1:]...)
	child.setParent(nil)
}

func removeAll(owner Container) []Node {
	l := owner.list()
	out := *l
	*l = nil
	for _, n := range out {
		n.setParent(nil)
	}
	return out
}

func indexOf(nodes []Node, ref Node) int {
	for i, n := range nodes {
		if n == ref {
			return i
		}
	}
	return -1
}

func cloneChildren(owner Container, src []Node) {
	for _, n := range src {
		appendTo(owner, n.Clone())
	}
}

// Remove detaches n from its parent, if any.
func Remove(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// ReplaceWith inserts nodes in place of n and detaches n.
func ReplaceWith(n Node, nodes ...Node) {
	p := n.Parent()
	if p == nil {
		return
	}
	p.InsertBefore(n, nodes...)
	p.RemoveChild(n)
}

// Root is the top of a stylesheet.
type Root struct {
	children
}

// NewRoot creates a root holding nodes.
func NewRoot(nodes ...Node) *Root {
	r := &Root{}
	r.Append(nodes...)
	return r
}

func (r *Root) Type() NodeType         { return RootNode }
func (r *Root) Parent() Container      { return nil }
func (r *Root) setParent(Container)    {}
func (r *Root) Append(n ...Node)       { appendTo(r, n...) }
func (r *Root) Prepend(n ...Node)      { prependTo(r, n...) }
func (r *Root) RemoveChild(c Node)     { removeChild(r, c) }
func (r *Root) RemoveAll() []Node      { return removeAll(r) }
func (r *Root) InsertBefore(ref Node, n ...Node) {
	insertBefore(r, ref, n...)
}

// Clone deep-copies the root.
func (r *Root) Clone() Node {
	c := &Root{}
	cloneChildren(c, r.nodes)
	return c
}

// Rule is a qualified rule: a selector list and a block.
type Rule struct {
	children
	parent   Container
	Selector string
}

// NewRule creates a rule with the given selector and children.
func NewRule(selector string, nodes ...Node) *Rule {
	r := &Rule{Selector: selector}
	r.Append(nodes...)
	return r
}

func (r *Rule) Type() NodeType         { return RuleNode }
func (r *Rule) Parent() Container      { return r.parent }
func (r *Rule) setParent(p Container)  { r.parent = p }
func (r *Rule) Append(n ...Node)       { appendTo(r, n...) }
func (r *Rule) Prepend(n ...Node)      { prependTo(r, n...) }
func (r *Rule) RemoveChild(c Node)     { removeChild(r, c) }
func (r *Rule) RemoveAll() []Node      { return removeAll(r) }
func (r *Rule) InsertBefore(ref Node, n ...Node) {
	insertBefore(r, ref, n...)
}

// Clone deep-copies the rule.
func (r *Rule) Clone() Node {
	c := &Rule{Selector: r.Selector}
	cloneChildren(c, r.nodes)
	return c
}

// Selectors splits the selector list at top-level commas.
func (r *Rule) Selectors() []string {
	return SplitSelectors(r.Selector)
}

// SetSelectors joins selectors back into the rule's selector list.
func (r *Rule) SetSelectors(selectors []string) {
	r.Selector = joinSelectors(selectors)
}

// AtRule is an at-rule such as @media or @tailwind. Rules without a block
// (statements ending in a semicolon) have HasBlock false.
type AtRule struct {
	children
	parent   Container
	Name     string
	Params   string
	HasBlock bool
}

// NewAtRule creates an at-rule. Passing any nodes, or calling Append later,
// marks it as having a block.
func NewAtRule(name, params string, nodes ...Node) *AtRule {
	a := &AtRule{Name: name, Params: params, HasBlock: len(nodes) > 0}
	a.Append(nodes...)
	return a
}

func (a *AtRule) Type() NodeType        { return AtRuleNode }
func (a *AtRule) Parent() Container     { return a.parent }
func (a *AtRule) setParent(p Container) { a.parent = p }
func (a *AtRule) RemoveChild(c Node)    { removeChild(a, c) }
func (a *AtRule) RemoveAll() []Node     { return removeAll(a) }

// Append adds children and turns the at-rule into a block at-rule.
func (a *AtRule) Append(n ...Node) {
	if len(n) > 0 {
		a.HasBlock = true
	}
	appendTo(a, n...)
}

// Prepend adds children at the start of the block.
func (a *AtRule) Prepend(n ...Node) {
	if len(n) > 0 {
		a.HasBlock = true
	}
	prependTo(a, n...)
}

// InsertBefore inserts children ahead of ref.
func (a *AtRule) InsertBefore(ref Node, n ...Node) {
	insertBefore(a, ref, n...)
}

// Clone deep-copies the at-rule.
func (a *AtRule) Clone() Node {
	c := &AtRule{Name: a.Name, Params: a.Params, HasBlock: a.HasBlock}
	cloneChildren(c, a.nodes)
	return c
}

// Decl is a property declaration.
type Decl struct {
	parent    Container
	Prop      string
	Value     string
	Important bool
}

// NewDecl creates a declaration.
func NewDecl(prop, value string) *Decl {
	return &Decl{Prop: prop, Value: value}
}

func (d *Decl) Type() NodeType        { return DeclNode }
func (d *Decl) Parent() Container     { return d.parent }
func (d *Decl) setParent(p Container) { d.parent = p }

// Clone copies the declaration.
func (d *Decl) Clone() Node {
	return &Decl{Prop: d.Prop, Value: d.Value, Important: d.Important}
}

// Comment is a preserved /* comment */.
type Comment struct {
	parent Container
	Text   string
}

func (c *Comment) Type() NodeType        { return CommentNode }
func (c *Comment) Parent() Container     { return c.parent }
func (c *Comment) setParent(p Container) { c.parent = p }

// Clone copies the comment.
func (c *Comment) Clone() Node { return &Comment{Text: c.Text} }

// CloneAll deep-copies a list of nodes.
func CloneAll(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Clone())
	}
	return out
}
