package recovery

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
)

// DefaultMaxErrors bounds the errors a Recovering handler records before it
// gives up and lets failures propagate.
const DefaultMaxErrors = 100

type Option func(*Recovering)

// SyncOn names the rules that may recover from a failure. Rules are matched
// by label.
func SyncOn(labels ...string) Option {
	return func(r *Recovering) {
		for _, label := range labels {
			r.sync[label] = true
		}
	}
}

// ResyncAt makes a recovering rule skip input up to, not including, the
// next of chars.
func ResyncAt(chars string) Option {
	return func(r *Recovering) {
		r.resync = chars
	}
}

// InsertOnMiss makes a failing rule labeled label retry with text inserted
// as virtual input before giving up. It applies only when the rule failed
// without consuming input, as a missing terminator does.
func InsertOnMiss(label, text string) Option {
	return func(r *Recovering) {
		r.sync[label] = true
		r.insert[label] = text
	}
}

// WithMaxErrors sets the number of errors after which recovery stops. Zero
// or less means no limit.
func WithMaxErrors(n int) Option {
	return func(r *Recovering) {
		r.maxErrors = n
	}
}

// Recovering lets selected rules pretend to match when they fail, so that a
// single parse finds more than one error. Each recovery records a parse
// error. A recovering rule first tries inserting its configured text; if
// that does not help it skips input up to a resync character. A rule that
// has nothing to skip fails as usual.
//
// The whole parse is still explained as by Reporting if it fails anyway.
// A Recovering handler holds state for one parse and must not be reused.
type Recovering struct {
	sync      map[string]bool
	insert    map[string]string
	resync    string
	maxErrors int

	report    *Reporting
	inserting bool
}

var _ peg.Handler = (*Recovering)(nil)

func NewRecovering(opts ...Option) *Recovering {
	r := &Recovering{
		sync:      map[string]bool{},
		insert:    map[string]string{},
		maxErrors: DefaultMaxErrors,
		report:    NewReporting(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recovering) OnMatch(ctx *peg.Context) {
	r.report.OnMatch(ctx)
}

func (r *Recovering) OnMismatch(ctx *peg.Context) bool {
	if !r.canRecover(ctx) {
		return r.report.OnMismatch(ctx)
	}
	label := ctx.Matcher().Label()

	if text, ok := r.insert[label]; ok && r.tryInsert(ctx, text) {
		r.addError(ctx, peg.ParseError{
			Start:   ctx.StartLocation(),
			End:     ctx.StartLocation(),
			Message: fmt.Sprintf("Missing %s", label),
		})
		r.report.OnMatch(ctx)
		return true
	}
	failed := ctx.CurrentLocation()
	for c := ctx.Char(); c != input.EOI && !strings.ContainsRune(r.resync, c); c = ctx.Char() {
		ctx.Advance()
	}
	if ctx.CurrentLocation().Equal(failed) {
		return r.report.OnMismatch(ctx)
	}
	expected := []string{label}
	if loc, ok := r.report.Furthest(); ok && loc.Equal(failed) {
		expected = r.report.Expected()
	}
	r.addError(ctx, peg.ParseError{
		Start:   failed,
		End:     ctx.CurrentLocation(),
		Message: invalidInput(ctx.Input(), failed, expected),
	})
	ctx.CreateNode()
	r.report.OnMatch(ctx)
	return true
}

func (r *Recovering) canRecover(ctx *peg.Context) bool {
	if r.inserting || ctx.Parent() == nil || !recordable(ctx) || !r.sync[ctx.Matcher().Label()] {
		return false
	}
	return r.maxErrors <= 0 || len(ctx.Errors()) < r.maxErrors
}

// tryInsert runs the failed rule again from its start with text in front
// of the input. On success the frame holds the result of the retry,
// otherwise it is reset to its start.
func (r *Recovering) tryInsert(ctx *peg.Context, text string) bool {
	if !ctx.CurrentLocation().Equal(ctx.StartLocation()) {
		return false
	}
	r.inserting = true
	defer func() { r.inserting = false }()

	m := ctx.Matcher()
	retry := ctx.Parent().Child(m)
	retry.InjectVirtualInput(text)
	if log.AllowLevel(commonlog.Debug) {
		log.Debugf("retrying %s with %q inserted at %s", retry.Path(), text, retry.StartLocation())
	}
	if m.Match(retry) {
		return true
	}
	ctx.Parent().Child(m)
	return false
}

// addError records err unless an error was already recorded at the same
// location.
func (r *Recovering) addError(ctx *peg.Context, err peg.ParseError) {
	if errs := ctx.Errors(); len(errs) > 0 && errs[len(errs)-1].Start.Equal(err.Start) {
		return
	}
	ctx.AddError(err)
}
