package tree

import "strings"

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.children {
		Walk(child, fn)
	}
}

// Find returns the first node in nodes or their descendants, depth-first,
// for which match returns true.
func Find(nodes []*Node, match func(*Node) bool) *Node {
	for _, n := range nodes {
		if match(n) {
			return n
		}
		if found := Find(n.children, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in nodes or their descendants for which match
// returns true, in depth-first order.
func FindAll(nodes []*Node, match func(*Node) bool) []*Node {
	var result []*Node
	for _, n := range nodes {
		Walk(n, func(x *Node) bool {
			if match(x) {
				result = append(result, x)
			}
			return true
		})
	}
	return result
}

// FindByLabel returns the first node whose label starts with prefix.
func FindByLabel(nodes []*Node, prefix string) *Node {
	return Find(nodes, func(n *Node) bool {
		return strings.HasPrefix(n.label, prefix)
	})
}

// FindByPath follows a slash separated list of label prefixes. The first
// element is matched against nodes themselves, each further element against
// the children of the previous match. Every level picks the first match.
func FindByPath(nodes []*Node, path string) *Node {
	if path == "" {
		return nil
	}
	head, rest, more := strings.Cut(path, "/")
	for _, n := range nodes {
		if !strings.HasPrefix(n.label, head) {
			continue
		}
		if !more {
			return n
		}
		return FindByPath(n.children, rest)
	}
	return nil
}

// FindLast returns the last node of nodes, or of the last node's
// descendants, that satisfies match. Siblings are searched from the end.
func FindLast(nodes []*Node, match func(*Node) bool) *Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		if found := FindLast(nodes[i].children, match); found != nil {
			return found
		}
		if match(nodes[i]) {
			return nodes[i]
		}
	}
	return nil
}

// At returns the chain of nodes covering index, outermost first.
func At(root *Node, index int) []*Node {
	var chain []*Node
	for n := root; n != nil && n.Covers(index); {
		chain = append(chain, n)
		var next *Node
		for _, child := range n.children {
			if child.Covers(index) {
				next = child
				break
			}
		}
		n = next
	}
	return chain
}
