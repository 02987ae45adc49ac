package plugin

import "github.com/yacobolo/jitcss/internal/csstree"

// VariantContext is handed to a VariantFunc. Container holds a copy of the
// rules being varied; the function rewrites it in place.
type VariantContext struct {
	Container *csstree.Root
	Separator string
}

// ModifySelectors rewrites each selector of the container's top-level
// rules. fn receives the first class of the selector and the selector.
func (c *VariantContext) ModifySelectors(fn func(className, selector string) string) {
	for _, n := range c.Container.Nodes() {
		rule, ok := n.(*csstree.Rule)
		if !ok {
			continue
		}
		selectors := rule.Selectors()
		for i, sel := range selectors {
			var first string
			if classes := Classes(sel); len(classes) > 0 {
				first = classes[0]
			}
			selectors[i] = fn(first, sel)
		}
		rule.SetSelectors(selectors)
	}
}

// Wrap moves every node of the container into wrapper and puts wrapper in
// the container.
func (c *VariantContext) Wrap(wrapper *csstree.AtRule) {
	nodes := c.Container.RemoveAll()
	wrapper.Append(nodes...)
	c.Container.Append(wrapper)
}
