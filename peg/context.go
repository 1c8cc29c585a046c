package peg

import (
	"errors"
	"fmt"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/tree"
)

// DefaultMaxDepth is the number of nested frames a parse may use unless
// WithMaxDepth says otherwise.
const DefaultMaxDepth = 10000

var (
	errRetired   = errors.New("context is not active")
	errRegressed = errors.New("input location moved backwards")

	// ErrCallstackOverflow aborts a parse whose rules nest deeper than the
	// depth limit, typically because of left recursion.
	ErrCallstackOverflow = errors.New("callstack overflow")
)

// state is shared by every frame of one parse.
type state struct {
	input    *input.Buffer
	handler  Handler
	errors   []ParseError
	lastNode *tree.Node
	maxDepth int
}

// Context is the execution frame of one rule invocation.
//
// A Context is active between its activation by the parent's Child call and
// the end of its Run. Afterwards it is retired and its fields must not be
// relied upon until the parent activates it again.
type Context struct {
	state  *state
	parent *Context
	level  int

	sub       *Context
	matcher   Matcher
	start     input.Location
	current   input.Location
	node      *tree.Node
	subNodes  []*tree.Node
	value     any
	belowLeaf bool
}

// NewContext creates the root frame of a parse of buf with root as the start
// rule. A nil handler never recovers from mismatches.
func NewContext(buf *input.Buffer, handler Handler, root Matcher) *Context {
	if handler == nil {
		handler = strict{}
	}
	c := &Context{
		state: &state{input: buf, handler: handler, maxDepth: DefaultMaxDepth},
	}
	c.matcher = Resolve(root)
	c.start = buf.Start()
	c.current = c.start
	return c
}

func (c *Context) String() string {
	return c.Path().String()
}

// Parent returns the enclosing frame, or nil for the root.
func (c *Context) Parent() *Context {
	return c.parent
}

// SubContext returns the active child frame, or nil if there is none.
func (c *Context) SubContext() *Context {
	if c.sub != nil && c.sub.matcher != nil {
		return c.sub
	}
	return nil
}

func (c *Context) Input() *input.Buffer {
	return c.state.input
}

// Matcher returns the rule the frame runs, or nil if the frame is retired.
func (c *Context) Matcher() Matcher {
	return c.matcher
}

// Level is the number of ancestors of the frame.
func (c *Context) Level() int {
	return c.level
}

func (c *Context) StartLocation() input.Location {
	return c.start
}

func (c *Context) CurrentLocation() input.Location {
	return c.current
}

// SetCurrentLocation moves the frame forward to loc. Moving backwards is a
// bug in the calling rule and panics.
func (c *Context) SetCurrentLocation(loc input.Location) {
	if loc.Index < c.current.Index {
		panic(errRegressed)
	}
	c.current = loc
}

// Char returns the character at the current location.
func (c *Context) Char() rune {
	return c.state.input.CharAt(c.current)
}

// Advance moves the current location past one character.
func (c *Context) Advance() {
	c.current = c.state.input.Advance(c.current)
}

// InjectVirtualInput makes the frame read text before the real input at its
// current location. The buffer is not modified.
func (c *Context) InjectVirtualInput(text string) {
	c.current = c.current.InsertVirtual(text)
}

func (c *Context) InjectVirtualChar(ch rune) {
	c.current = c.current.InsertVirtualChar(ch)
}

// Errors returns the parse errors recorded so far by any frame of the parse.
func (c *Context) Errors() []ParseError {
	return c.state.errors
}

// AddError records a parse error for the whole parse.
func (c *Context) AddError(err ParseError) {
	c.state.errors = append(c.state.errors, err)
}

// InPredicate reports whether the frame or any ancestor runs a predicate.
func (c *Context) InPredicate() bool {
	for f := c; f != nil; f = f.parent {
		if f.matcher != nil && f.matcher.Flags().Has(Predicate) {
			return true
		}
	}
	return false
}

// IsBelowLeafLevel reports whether an ancestor is a leaf rule, in which case
// the frame builds no node.
func (c *Context) IsBelowLeafLevel() bool {
	return c.belowLeaf
}

// Child activates the frame's child slot for m, starting at the current
// location. The slot is created on first use and reused afterwards.
//
// Child panics with ErrCallstackOverflow if the child would nest deeper
// than the parse's depth limit.
func (c *Context) Child(m Matcher) *Context {
	if c.matcher == nil {
		panic(errRetired)
	}
	if limit := c.state.maxDepth; limit > 0 && c.level+1 > limit {
		panic(fmt.Errorf("%w: more than %d nested rules", ErrCallstackOverflow, limit))
	}
	if c.sub == nil {
		c.sub = &Context{state: c.state, parent: c, level: c.level + 1}
	}
	sub := c.sub
	sub.matcher = Resolve(m)
	sub.start = c.current
	sub.current = c.current
	sub.node = nil
	sub.subNodes = nil
	sub.value = nil
	sub.belowLeaf = c.belowLeaf || c.matcher.Flags().Has(Leaf)
	return sub
}

// Run matches the frame's rule and retires the frame. A mismatch is handed
// to the error handler, which may turn it into a success. On success the
// parent continues from where this frame stopped.
//
// A panic raised while matching is re-raised as a *RuntimeError describing
// this frame; a *RuntimeError from a deeper frame is re-raised unchanged.
func (c *Context) Run() bool {
	defer func() {
		if r := recover(); r != nil {
			panic(c.wrap(r))
		}
	}()
	if c.matcher == nil {
		panic(errRetired)
	}

	if c.matcher.Match(c) {
		c.state.handler.OnMatch(c)
	} else if !c.state.handler.OnMismatch(c) {
		c.matcher = nil
		return false
	}
	if c.parent != nil && !c.parent.matcher.Flags().Has(Predicate) {
		c.parent.SetCurrentLocation(c.current)
	}
	c.matcher = nil
	return true
}
