// Package tree provides the parse tree produced by a successful match.
package tree

import (
	"slices"
	"strings"

	"github.com/dhamidi/parsnip/input"
)

// Node is one parse tree node. Nodes are immutable once built.
type Node struct {
	label    string
	children []*Node
	start    input.Location
	end      input.Location
	value    any
}

// New builds a node spanning [start, end). The children slice is copied.
func New(label string, children []*Node, start, end input.Location, value any) *Node {
	return &Node{
		label:    label,
		children: slices.Clone(children),
		start:    start,
		end:      end,
		value:    value,
	}
}

func (n *Node) Label() string {
	return n.label
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Start() input.Location {
	return n.start
}

func (n *Node) End() input.Location {
	return n.end
}

// Value returns the semantic value attached to the node, or nil.
func (n *Node) Value() any {
	return n.value
}

// IsEmpty reports whether the node spans no real characters.
func (n *Node) IsEmpty() bool {
	return n.end.Index <= n.start.Index
}

// Covers reports whether index lies inside the node's span.
func (n *Node) Covers(index int) bool {
	return n.start.Index <= index && index < n.end.Index
}

func (n *Node) FirstChild(labelPrefix string) *Node {
	for _, child := range n.children {
		if strings.HasPrefix(child.label, labelPrefix) {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenWithLabel(label string) []*Node {
	var result []*Node
	for _, child := range n.children {
		if child.label == label {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) String() string {
	return n.label + " [" + n.start.String() + "-" + n.end.String() + "]"
}

// Text returns the input text the node spans.
func Text(n *Node, buf *input.Buffer) string {
	if n == nil {
		return ""
	}
	return buf.Extract(n.start.Index, n.end.Index)
}

// Char returns the first character of the node's span, or input.EOI for an
// empty node.
func Char(n *Node, buf *input.Buffer) rune {
	if n == nil || n.IsEmpty() {
		return input.EOI
	}
	return buf.CharAt(n.start)
}
