package matchers

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
)

func charLabel(c rune) string {
	if c == input.EOI {
		return "EOI"
	}
	return fmt.Sprintf("%q", c)
}

// matchChar consumes one character if accept allows it.
func matchChar(ctx *peg.Context, accept func(rune) bool) bool {
	c := ctx.Char()
	if !accept(c) {
		return false
	}
	ctx.Advance()
	ctx.CreateNode()
	return true
}

// Char matches the character c.
func Char(c rune) Rule {
	return newRule(charLabel(c), 0, func(r *rule, ctx *peg.Context) bool {
		return matchChar(ctx, func(x rune) bool { return x == c })
	})
}

// EOI matches the end of input without consuming anything.
func EOI() Rule {
	return Char(input.EOI)
}

// Any matches any character except the end of input.
func Any() Rule {
	return newRule("ANY", 0, func(r *rule, ctx *peg.Context) bool {
		return matchChar(ctx, func(x rune) bool { return x != input.EOI })
	})
}

// CharRange matches a character in [lo, hi].
func CharRange(lo, hi rune) Rule {
	label := charLabel(lo) + ".." + charLabel(hi)
	return newRule(label, 0, func(r *rule, ctx *peg.Context) bool {
		return matchChar(ctx, func(x rune) bool { return x >= lo && x <= hi && x != input.EOI })
	})
}

// AnyOf matches one of the characters of chars.
func AnyOf(chars string) Rule {
	return newRule(fmt.Sprintf("[%s]", chars), 0, func(r *rule, ctx *peg.Context) bool {
		return matchChar(ctx, func(x rune) bool { return x != input.EOI && strings.ContainsRune(chars, x) })
	})
}

// NoneOf matches a character that is not in chars and not the end of input.
func NoneOf(chars string) Rule {
	return newRule(fmt.Sprintf("[^%s]", chars), 0, func(r *rule, ctx *peg.Context) bool {
		return matchChar(ctx, func(x rune) bool { return x != input.EOI && !strings.ContainsRune(chars, x) })
	})
}

// String matches s literally.
func String(s string) Rule {
	return newRule(fmt.Sprintf("%q", s), 0, func(r *rule, ctx *peg.Context) bool {
		return matchString(ctx, s, func(a, b rune) bool { return a == b })
	})
}

// IgnoreCase matches s with simple case folding.
func IgnoreCase(s string) Rule {
	return newRule(fmt.Sprintf("%q/i", s), 0, func(r *rule, ctx *peg.Context) bool {
		return matchString(ctx, s, func(a, b rune) bool {
			return a == b || unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
		})
	})
}

func matchString(ctx *peg.Context, s string, eq func(want, got rune) bool) bool {
	for _, want := range s {
		got := ctx.Char()
		if got == input.EOI || !eq(want, got) {
			return false
		}
		ctx.Advance()
	}
	ctx.CreateNode()
	return true
}

// Empty matches without consuming input.
func Empty() Rule {
	return newRule("EMPTY", 0, func(r *rule, ctx *peg.Context) bool {
		ctx.CreateNode()
		return true
	})
}

// Nothing never matches.
func Nothing() Rule {
	return newRule("NOTHING", 0, func(r *rule, ctx *peg.Context) bool {
		return false
	})
}
