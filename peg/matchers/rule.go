// Package matchers provides the building blocks of parsing expression
// grammars: character and string matchers, sequence, ordered choice,
// repetition, lookahead predicates and actions.
package matchers

import (
	"github.com/dhamidi/parsnip/peg"
)

// Rule is a matcher whose label and flags can be adjusted while the grammar
// is being built. The adjusting methods modify the rule and return it.
type Rule interface {
	peg.Matcher
	// Named sets the rule's label.
	Named(label string) Rule
	// AsLeaf stops tree building below the rule.
	AsLeaf() Rule
	// SuppressNode makes the rule hand its children to its parent instead
	// of building its own node.
	SuppressNode() Rule
	// Children returns the sub-rules the rule runs.
	Children() []peg.Matcher
}

type matchFunc func(r *rule, ctx *peg.Context) bool

type rule struct {
	label string
	flags peg.Flags
	subs  []peg.Matcher
	match matchFunc
}

func newRule(label string, flags peg.Flags, match matchFunc, subs ...peg.Matcher) *rule {
	return &rule{label: label, flags: flags, subs: subs, match: match}
}

func (r *rule) Label() string {
	return r.label
}

func (r *rule) Flags() peg.Flags {
	return r.flags
}

func (r *rule) Match(ctx *peg.Context) bool {
	return r.match(r, ctx)
}

func (r *rule) Named(label string) Rule {
	r.label = label
	return r
}

func (r *rule) AsLeaf() Rule {
	r.flags |= peg.Leaf
	return r
}

func (r *rule) SuppressNode() Rule {
	r.flags |= peg.WithoutNode
	return r
}

func (r *rule) Children() []peg.Matcher {
	return r.subs
}

func (r *rule) String() string {
	return r.label
}
