package peg

// Handler is the error recovery strategy of a parse. It hears about every
// frame that finishes matching.
type Handler interface {
	// OnMatch is called after a frame's rule matched.
	OnMatch(ctx *Context)
	// OnMismatch is called after a frame's rule failed. Returning true makes
	// the frame succeed anyway, at whatever location ctx holds on return.
	OnMismatch(ctx *Context) bool
}

type strict struct{}

func (strict) OnMatch(*Context) {}

func (strict) OnMismatch(*Context) bool { return false }
