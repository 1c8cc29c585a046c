package matchers

import (
	"github.com/dhamidi/parsnip/peg"
)

// ProxyRule is a placeholder for a rule that is defined later. Grammars use
// it to refer to a rule before it exists, as recursive rules must.
//
//	expr := matchers.NewProxy("Expr")
//	parens := matchers.Seq(matchers.Char('('), expr, matchers.Char(')'))
//	expr.Bind(matchers.FirstOf(parens, number).Named("Expr"))
type ProxyRule struct {
	label  string
	target peg.Matcher
}

var _ peg.Proxy = (*ProxyRule)(nil)

func NewProxy(label string) *ProxyRule {
	return &ProxyRule{label: label}
}

// Bind sets the rule the proxy stands for.
func (p *ProxyRule) Bind(target peg.Matcher) {
	p.target = target
}

func (p *ProxyRule) Target() peg.Matcher {
	return p.target
}

func (p *ProxyRule) Label() string {
	if p.target != nil {
		return p.target.Label()
	}
	return p.label
}

func (p *ProxyRule) Flags() peg.Flags {
	if p.target != nil {
		return p.target.Flags()
	}
	return 0
}

// Match is only reached if a proxy is run without being resolved first.
func (p *ProxyRule) Match(ctx *peg.Context) bool {
	return peg.Resolve(p).Match(ctx)
}
