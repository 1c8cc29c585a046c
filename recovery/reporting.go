package recovery

import (
	"slices"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
)

// Reporting never recovers. It remembers the furthest location any rule
// failed at and which rules failed there, and explains the failure of the
// whole parse with a single error:
//
//	Invalid input 'a', expected Digit or '+'
//
// A Reporting handler holds state for one parse and must not be reused.
type Reporting struct {
	found     bool
	furthest  input.Location
	expected  []string
	lastLevel int
}

var _ peg.Handler = (*Reporting)(nil)

func NewReporting() *Reporting {
	return &Reporting{lastLevel: -1}
}

func (r *Reporting) OnMatch(ctx *peg.Context) {
	r.lastLevel = ctx.Level()
}

func (r *Reporting) OnMismatch(ctx *peg.Context) bool {
	if recordable(ctx) && r.innermost(ctx) {
		r.expect(ctx.CurrentLocation(), ctx.Matcher().Label())
	}
	r.lastLevel = ctx.Level()

	if ctx.Level() == 0 {
		if !r.found {
			r.expect(ctx.CurrentLocation(), ctx.Matcher().Label())
		}
		ctx.AddError(r.Error(ctx.Input()))
	}
	return false
}

// innermost reports whether ctx is the deepest rule to fail at its
// location. Leaf rules count as innermost, rules below them never do.
// Otherwise a rule is innermost if none of its sub-rules reported since it
// started.
func (r *Reporting) innermost(ctx *peg.Context) bool {
	if ctx.Matcher().Flags().Has(peg.Leaf) {
		return true
	}
	if ctx.IsBelowLeafLevel() {
		return false
	}
	return r.lastLevel <= ctx.Level()
}

func (r *Reporting) expect(loc input.Location, label string) {
	switch {
	case !r.found || r.furthest.Before(loc):
		r.found = true
		r.furthest = loc
		r.expected = append(r.expected[:0], label)
	case loc.Equal(r.furthest) && !slices.Contains(r.expected, label):
		r.expected = append(r.expected, label)
	}
}

// Furthest returns the furthest failure location seen so far, if any.
func (r *Reporting) Furthest() (input.Location, bool) {
	return r.furthest, r.found
}

// Expected returns the labels of the rules that failed at the furthest
// location.
func (r *Reporting) Expected() []string {
	return slices.Clone(r.expected)
}

// Error describes the furthest failure.
func (r *Reporting) Error(buf *input.Buffer) peg.ParseError {
	return peg.ParseError{
		Start:   r.furthest,
		End:     buf.Advance(r.furthest),
		Message: invalidInput(buf, r.furthest, r.expected),
	}
}
