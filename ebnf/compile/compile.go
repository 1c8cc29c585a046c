// Package compile turns EBNF grammars, as read by golang.org/x/exp/ebnf, into
// parsing expression grammars.
//
// The EBNF is read the PEG way: alternatives are tried in order and the
// first that matches wins, repetitions and options are greedy. Every
// production builds a node labeled with its name. Tokens and character
// ranges build nodes labeled with their text; groups, repetitions and
// options hand their nodes to the enclosing production.
package compile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/peg/matchers"
)

var log = commonlog.GetLogger("parsnip.compile")

var (
	ErrUnknownProduction = errors.New("unknown production")
	ErrNoStart           = errors.New("no start production")
	ErrInvalidRange      = errors.New("invalid character range")
)

type Option func(*compiler)

// WithLeaves makes the named productions leaves: their nodes have no
// children.
func WithLeaves(names ...string) Option {
	return func(c *compiler) {
		for _, name := range names {
			c.leaves[name] = true
		}
	}
}

// WithTransparent makes the named productions hand their children to the
// enclosing production instead of building a node.
func WithTransparent(names ...string) Option {
	return func(c *compiler) {
		for _, name := range names {
			c.transparent[name] = true
		}
	}
}

// WithLexicalLeaves makes every lexical production a leaf. Lexical
// productions are those whose name does not start with an upper case
// letter.
func WithLexicalLeaves() Option {
	return func(c *compiler) {
		c.lexicalLeaves = true
	}
}

// WithSpacing skips any number of matches of the named production before
// every token and every reference to a lexical production made from a
// non-lexical production.
func WithSpacing(name string) Option {
	return func(c *compiler) {
		c.spacing = name
	}
}

// WithEOI makes the start rule match only if it reaches the end of input.
func WithEOI() Option {
	return func(c *compiler) {
		c.eoi = true
	}
}

type compiler struct {
	grammar       ebnf.Grammar
	rules         map[string]*matchers.ProxyRule
	leaves        map[string]bool
	transparent   map[string]bool
	lexicalLeaves bool
	spacing       string
	eoi           bool

	skip peg.Matcher
}

// Compile builds a matcher for every production of g and returns the one
// for start. The grammar need not pass Verify: productions unreachable
// from start are compiled but unused.
func Compile(g ebnf.Grammar, start string, opts ...Option) (peg.Matcher, error) {
	if start == "" {
		return nil, ErrNoStart
	}
	if _, ok := g[start]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStart, start)
	}

	c := &compiler{
		grammar:     g,
		rules:       make(map[string]*matchers.ProxyRule, len(g)),
		leaves:      map[string]bool{},
		transparent: map[string]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}

	names := slices.Sorted(maps.Keys(g))
	for _, name := range names {
		c.rules[name] = matchers.NewProxy(name)
	}
	if c.spacing != "" {
		spacing, ok := c.rules[c.spacing]
		if !ok {
			return nil, fmt.Errorf("spacing: %w: %s", ErrUnknownProduction, c.spacing)
		}
		c.skip = matchers.ZeroOrMore(spacing).Named("Spacing").AsLeaf().SuppressNode()
	}

	for _, name := range names {
		rule, err := c.production(g[name])
		if err != nil {
			return nil, err
		}
		c.rules[name].Bind(rule)
	}

	var root peg.Matcher = c.rules[start]
	if c.eoi {
		body, err := c.expr(g[start].Expr, c.lexical(start))
		if err != nil {
			return nil, err
		}
		items := []peg.Matcher{body}
		if c.skip != nil {
			items = append(items, c.skip)
		}
		items = append(items, matchers.EOI().SuppressNode())
		root = c.flag(start, matchers.Seq(items...).Named(start))
	}

	if log.AllowLevel(commonlog.Debug) {
		log.Debugf("compiled %d productions, start %s", len(names), start)
	}
	return root, nil
}

func (c *compiler) production(p *ebnf.Production) (matchers.Rule, error) {
	name := p.Name.String
	body, err := c.expr(p.Expr, c.lexical(name))
	if err != nil {
		return nil, fmt.Errorf("production %s: %w", name, err)
	}
	return c.flag(name, matchers.Seq(body).Named(name)), nil
}

// lexical reports whether the body of the named production is matched
// without spacing. The spacing production always is, even if its name
// is not lexical, or it would skip itself.
func (c *compiler) lexical(name string) bool {
	return isLexical(name) || name == c.spacing
}

func (c *compiler) flag(name string, rule matchers.Rule) matchers.Rule {
	if c.leaves[name] || (c.lexicalLeaves && isLexical(name)) {
		rule.AsLeaf()
	}
	if c.transparent[name] {
		rule.SuppressNode()
	}
	return rule
}

func (c *compiler) expr(e ebnf.Expression, lexical bool) (peg.Matcher, error) {
	switch x := e.(type) {
	case nil:
		return matchers.Empty(), nil

	case *ebnf.Token:
		if x.String == "" {
			return matchers.Empty(), nil
		}
		return c.spaced(matchers.String(x.String), lexical), nil

	case *ebnf.Range:
		lo, err := single(x.Begin)
		if err != nil {
			return nil, err
		}
		hi, err := single(x.End)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("%s: %w: %q … %q", x.Pos(), ErrInvalidRange, lo, hi)
		}
		return c.spaced(matchers.CharRange(lo, hi), lexical), nil

	case ebnf.Sequence:
		items, err := c.exprs(x, lexical)
		if err != nil {
			return nil, err
		}
		return matchers.Seq(items...).SuppressNode(), nil

	case ebnf.Alternative:
		items, err := c.exprs(x, lexical)
		if err != nil {
			return nil, err
		}
		return matchers.FirstOf(items...).SuppressNode(), nil

	case *ebnf.Repetition:
		body, err := c.expr(x.Body, lexical)
		if err != nil {
			return nil, err
		}
		return matchers.ZeroOrMore(body).SuppressNode(), nil

	case *ebnf.Option:
		body, err := c.expr(x.Body, lexical)
		if err != nil {
			return nil, err
		}
		return matchers.Optional(body).SuppressNode(), nil

	case *ebnf.Group:
		return c.expr(x.Body, lexical)

	case *ebnf.Name:
		rule, ok := c.rules[x.String]
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s", x.Pos(), ErrUnknownProduction, x.String)
		}
		if isLexical(x.String) && x.String != c.spacing {
			return c.spaced(rule, lexical), nil
		}
		return rule, nil

	case *ebnf.Bad:
		return nil, fmt.Errorf("%s: %s", x.Pos(), x.Error)

	default:
		return nil, fmt.Errorf("%s: unsupported expression %T", e.Pos(), e)
	}
}

func (c *compiler) exprs(list []ebnf.Expression, lexical bool) ([]peg.Matcher, error) {
	items := make([]peg.Matcher, 0, len(list))
	for _, e := range list {
		m, err := c.expr(e, lexical)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// spaced prefixes m with the spacing rule inside non-lexical productions.
func (c *compiler) spaced(m peg.Matcher, lexical bool) peg.Matcher {
	if c.skip == nil || lexical {
		return m
	}
	return matchers.Seq(c.skip, m).SuppressNode()
}

func single(t *ebnf.Token) (rune, error) {
	if utf8.RuneCountInString(t.String) != 1 {
		return 0, fmt.Errorf("%s: %w: %q is not a single character", t.Pos(), ErrInvalidRange, t.String)
	}
	r, _ := utf8.DecodeRuneInString(t.String)
	return r, nil
}

// isLexical follows golang.org/x/exp/ebnf: productions whose name does not
// start with an upper case letter are lexical.
func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}
