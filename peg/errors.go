package peg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dhamidi/parsnip/input"
)

// ParseError is a grammatical error found in the input.
type ParseError struct {
	Start   input.Location
	End     input.Location
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Start)
}

// RuntimeError aborts a parse because a rule or action failed in a way that
// is not a mismatch: it panicked, typically because of a bug.
type RuntimeError struct {
	Err      error
	Location input.Location
	Position input.Position
	// Path is the rule path of the frame that failed.
	Path string
	// Action is true if the failing rule was an action rather than a rule
	// matching input.
	Action bool
	// Excerpt shows the failing location in the source.
	Excerpt string
}

func (e *RuntimeError) Error() string {
	kind := "rule"
	if e.Action {
		kind = "action"
	}
	return fmt.Sprintf("parsnip: error while parsing %s '%s' at input position %s: %v", kind, e.Path, e.Position, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func (c *Context) wrap(r any) *RuntimeError {
	if rerr, ok := r.(*RuntimeError); ok {
		return rerr
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	buf := c.state.input
	rerr := &RuntimeError{
		Err:      err,
		Location: c.current,
		Position: buf.Position(c.current.Index),
		Path:     c.Path().String(),
		Action:   c.matcher != nil && c.matcher.Flags().Has(Action),
	}
	rerr.Excerpt = PrintError(buf, ParseError{Start: c.current, End: c.current, Message: "error while parsing"})
	return rerr
}

// PrintError renders err with the line it occurred on and a caret under
// its column:
//
//	Invalid input 'a', expected Digit (line 1, pos 3):
//	42a
//	  ^
//
// PrintError never panics; if the error's location cannot be rendered the
// source excerpt is left out.
func PrintError(buf *input.Buffer, err ParseError) (text string) {
	defer func() {
		if recover() != nil {
			text = err.Message
		}
	}()
	if buf == nil {
		return err.Message
	}
	pos := buf.Position(err.Start.Index)
	var out bytes.Buffer
	fmt.Fprintf(&out, "%s (line %d, pos %d):\n", err.Message, pos.Line, pos.Column)

	line := buf.Line(pos.Line)
	out.WriteString(line)
	out.WriteByte('\n')

	width := err.End.Index - err.Start.Index
	if width < 1 {
		width = 1
	}
	out.WriteString(strings.Repeat(" ", pos.Column-1))
	out.WriteString(strings.Repeat("^", width))
	out.WriteByte('\n')
	return out.String()
}

// PrintErrors renders every error with PrintError, separated by blank lines.
func PrintErrors(buf *input.Buffer, errs []ParseError) string {
	var parts []string
	for _, err := range errs {
		parts = append(parts, PrintError(buf, err))
	}
	return strings.Join(parts, "\n")
}
