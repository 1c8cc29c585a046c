package peg

import "github.com/dhamidi/parsnip/tree"

// Node returns the node built by the frame's last CreateNode, or nil.
func (c *Context) Node() *tree.Node {
	return c.node
}

// SubNodes returns the nodes contributed so far by completed sub-rules.
func (c *Context) SubNodes() []*tree.Node {
	return c.subNodes
}

// Value returns the value explicitly set on the frame.
func (c *Context) Value() any {
	return c.value
}

// SetValue attaches v to the node the frame will build.
func (c *Context) SetValue(v any) {
	c.value = v
}

// TreeValue is the value the frame's node carries: the explicit value if
// set, otherwise the value of the last sub-node that has one.
func (c *Context) TreeValue() any {
	if c.value != nil {
		return c.value
	}
	for i := len(c.subNodes) - 1; i >= 0; i-- {
		if v := c.subNodes[i].Value(); v != nil {
			return v
		}
	}
	return nil
}

// LastNode returns the node most recently built anywhere in the parse.
func (c *Context) LastNode() *tree.Node {
	return c.state.lastNode
}

// NodeByLabel searches the sub-nodes and their descendants for a label
// starting with prefix.
func (c *Context) NodeByLabel(prefix string) *tree.Node {
	return tree.FindByLabel(c.subNodes, prefix)
}

// NodeByPath looks up a slash separated label path below the frame.
func (c *Context) NodeByPath(path string) *tree.Node {
	return tree.FindByPath(c.subNodes, path)
}

// NodeText returns the input text spanned by n.
func (c *Context) NodeText(n *tree.Node) string {
	return tree.Text(n, c.state.input)
}

// NodeChar returns the first character spanned by n.
func (c *Context) NodeChar(n *tree.Node) rune {
	return tree.Char(n, c.state.input)
}

func (c *Context) AddChildNode(n *tree.Node) {
	c.subNodes = append(c.subNodes, n)
}

func (c *Context) AddChildNodes(nodes []*tree.Node) {
	c.subNodes = append(c.subNodes, nodes...)
}

// CreateNode builds the frame's tree node from what it matched. Rules call it
// once their match has succeeded.
//
// Frames below a leaf rule and predicate frames build nothing. A WithoutNode
// rule passes its sub-nodes up to the parent. Every other rule builds a node
// and appends it to the parent's sub-nodes.
func (c *Context) CreateNode() {
	if c.belowLeaf || c.matcher.Flags().Has(Predicate) {
		return
	}
	if c.matcher.Flags().Has(WithoutNode) {
		if c.parent != nil && len(c.subNodes) > 0 {
			c.parent.AddChildNodes(c.subNodes)
		}
		return
	}
	c.node = tree.New(c.matcher.Label(), c.subNodes, c.start, c.current, c.TreeValue())
	if c.parent != nil {
		c.parent.AddChildNode(c.node)
	}
	c.state.lastNode = c.node
}
