// Package peg runs a graph of parsing expression rules against an input
// buffer.
//
// A run starts with a root Context for the root rule. The rule's Match
// method receives that Context and, for every sub-rule it tries, asks the
// Context for a child frame with Child and runs it with Run. The frames form
// a stack that mirrors the rule invocations currently in flight. Each frame
// tracks the input location, collects the tree nodes produced by its
// completed sub-rules and reports to the error Handler. A frame keeps one
// child frame and reuses it for every sub-rule it runs, so a parse allocates
// one frame per nesting level rather than one per rule invocation.
package peg

import (
	"errors"
	"fmt"
)

// Flags describe how the engine treats a rule. They are fixed when the rule
// is built.
type Flags uint8

const (
	// Leaf rules build their own node but no nodes for anything below them.
	Leaf Flags = 1 << iota
	// WithoutNode rules build no node of their own; their children are
	// handed to the parent instead.
	WithoutNode
	// Predicate rules are lookaheads. They never build nodes and never move
	// the input location of the rule that runs them.
	Predicate
	// Action rules run user code rather than matching input.
	Action
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// Matcher is a rule in the grammar graph.
type Matcher interface {
	// Label names the rule in paths, error messages and tree nodes.
	Label() string
	Flags() Flags
	// Match tries the rule at ctx.CurrentLocation(). On success it advances
	// the location past the matched input and calls ctx.CreateNode.
	Match(ctx *Context) bool
}

// Proxy stands in for a rule that may not exist yet when the graph is built,
// which is how recursive grammars reference themselves. The engine resolves
// a proxy to its target each time a frame is activated.
type Proxy interface {
	Matcher
	Target() Matcher
}

// ErrUnboundProxy is raised when a proxy is activated before its target has
// been set.
var ErrUnboundProxy = errors.New("proxy rule has no target")

// Resolve follows proxies until it reaches a real rule.
func Resolve(m Matcher) Matcher {
	for {
		p, ok := m.(Proxy)
		if !ok {
			return m
		}
		target := p.Target()
		if target == nil {
			panic(fmt.Errorf("%w: %s", ErrUnboundProxy, p.Label()))
		}
		m = target
	}
}
