package peg

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/tree"
)

var log = commonlog.GetLogger("parsnip.peg")

type Option func(*runner)

// WithHandler sets the error recovery strategy. Without it a parse stops at
// the first mismatch that reaches the root.
func WithHandler(h Handler) Option {
	return func(r *runner) {
		r.handler = h
	}
}

// WithLogger replaces the package logger for one parse.
func WithLogger(l commonlog.Logger) Option {
	return func(r *runner) {
		r.log = l
	}
}

// WithMaxDepth limits how deeply rules may nest. A parse that needs more
// frames fails with ErrCallstackOverflow. Zero or less means no limit.
func WithMaxDepth(n int) Option {
	return func(r *runner) {
		r.maxDepth = n
	}
}

type runner struct {
	handler  Handler
	log      commonlog.Logger
	maxDepth int
}

// Result is the outcome of a parse that did not abort.
type Result struct {
	Matched bool
	// Root is the node of the root rule. It is nil if the parse failed or
	// the root rule builds no node.
	Root *tree.Node
	// Errors are the parse errors recorded by the error handler.
	Errors []ParseError
	// End is the location the root rule stopped at.
	End input.Location
}

// HasErrors reports whether the handler recorded any errors, which means
// that parts of the tree stem from error recovery.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Run parses buf with root as the start rule. If a rule or action panics
// the parse is aborted and the *RuntimeError is returned.
func Run(root Matcher, buf *input.Buffer, opts ...Option) (result *Result, err error) {
	r := runner{handler: strict{}, log: log, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&r)
	}

	var ctx *Context
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rerr, ok := p.(*RuntimeError); ok {
			r.log.Errorf("%s", rerr.Error())
			result, err = nil, rerr
			return
		}
		// the root rule could not be resolved
		if perr, ok := p.(error); ok && ctx == nil {
			result, err = nil, fmt.Errorf("parsnip: %w", perr)
			return
		}
		panic(p)
	}()

	ctx = NewContext(buf, r.handler, root)
	ctx.state.maxDepth = r.maxDepth
	if r.log.AllowLevel(commonlog.Debug) {
		r.log.Debugf("parsing %d characters of %q with %s", buf.Len(), buf.Filename(), ctx.Matcher().Label())
	}

	matched := ctx.Run()
	result = &Result{
		Matched: matched,
		Root:    ctx.Node(),
		Errors:  ctx.Errors(),
		End:     ctx.CurrentLocation(),
	}
	if r.log.AllowLevel(commonlog.Debug) {
		r.log.Debugf("parse finished: matched=%t end=%s errors=%d", matched, result.End, len(result.Errors))
	}
	return result, nil
}

// RunString is Run over an in-memory string.
func RunString(root Matcher, text string, opts ...Option) (*Result, error) {
	return Run(root, input.NewBuffer(text), opts...)
}
