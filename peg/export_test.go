package peg

// FrameCount returns the number of frames allocated below and including c,
// active or retired.
func (c *Context) FrameCount() int {
	n := 0
	for f := c; f != nil; f = f.sub {
		n++
	}
	return n
}
