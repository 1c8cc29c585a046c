package matchers

import (
	"github.com/dhamidi/parsnip/peg"
)

// Seq matches each rule in turn.
func Seq(rules ...peg.Matcher) Rule {
	return newRule("Sequence", 0, matchSequence, rules...)
}

func matchSequence(r *rule, ctx *peg.Context) bool {
	for _, sub := range r.subs {
		if !ctx.Child(sub).Run() {
			return false
		}
	}
	ctx.CreateNode()
	return true
}

// FirstOf tries the rules in order and succeeds with the first that
// matches.
func FirstOf(rules ...peg.Matcher) Rule {
	return newRule("FirstOf", 0, matchFirstOf, rules...)
}

func matchFirstOf(r *rule, ctx *peg.Context) bool {
	for _, sub := range r.subs {
		if ctx.Child(sub).Run() {
			ctx.CreateNode()
			return true
		}
	}
	return false
}

// OneOrMore matches sub as often as possible, at least once.
func OneOrMore(sub peg.Matcher) Rule {
	return newRule("OneOrMore", 0, func(r *rule, ctx *peg.Context) bool {
		if !ctx.Child(sub).Run() {
			return false
		}
		repeat(ctx, sub)
		ctx.CreateNode()
		return true
	}, sub)
}

// ZeroOrMore matches sub as often as possible.
func ZeroOrMore(sub peg.Matcher) Rule {
	return newRule("ZeroOrMore", 0, func(r *rule, ctx *peg.Context) bool {
		repeat(ctx, sub)
		ctx.CreateNode()
		return true
	}, sub)
}

// repeat runs sub until it fails or stops consuming input.
func repeat(ctx *peg.Context, sub peg.Matcher) {
	for {
		before := ctx.CurrentLocation()
		if !ctx.Child(sub).Run() {
			return
		}
		if !before.Before(ctx.CurrentLocation()) {
			return
		}
	}
}

// Optional matches sub or nothing.
func Optional(sub peg.Matcher) Rule {
	return newRule("Optional", 0, func(r *rule, ctx *peg.Context) bool {
		ctx.Child(sub).Run()
		ctx.CreateNode()
		return true
	}, sub)
}

// Test succeeds if sub matches at the current location. It consumes no input
// and builds no node.
func Test(sub peg.Matcher) Rule {
	return newRule("Test", peg.Predicate, func(r *rule, ctx *peg.Context) bool {
		return ctx.Child(sub).Run()
	}, sub)
}

// TestNot succeeds if sub does not match at the current location. It
// consumes no input and builds no node.
func TestNot(sub peg.Matcher) Rule {
	return newRule("TestNot", peg.Predicate, func(r *rule, ctx *peg.Context) bool {
		return !ctx.Child(sub).Run()
	}, sub)
}

// Action runs fn. The action succeeds if fn returns true. It builds no node.
// A panic in fn aborts the parse with a *peg.RuntimeError.
func Action(fn func(ctx *peg.Context) bool) Rule {
	return newRule("Action", peg.Action|peg.WithoutNode, func(r *rule, ctx *peg.Context) bool {
		return fn(ctx)
	})
}

// SetValue is an action that attaches v to the enclosing rule's node.
func SetValue(v any) Rule {
	return Action(func(ctx *peg.Context) bool {
		ctx.Parent().SetValue(v)
		return true
	}).Named("SetValue")
}

// Capture is an action that attaches the text matched so far by the
// enclosing rule, converted by fn, to the enclosing rule's node.
func Capture(fn func(text string) (any, error)) Rule {
	return Action(func(ctx *peg.Context) bool {
		parent := ctx.Parent()
		text := parent.Input().Extract(parent.StartLocation().Index, parent.CurrentLocation().Index)
		v, err := fn(text)
		if err != nil {
			panic(err)
		}
		parent.SetValue(v)
		return true
	}).Named("Capture")
}
