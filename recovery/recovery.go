// Package recovery implements the error handling strategies a parse can run
// with. A strategy decides, for every rule that fails, whether the failure
// stands or whether parsing continues as if the rule had matched.
package recovery

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
)

var log = commonlog.GetLogger("parsnip.recovery")

// Strict never recovers and records nothing. A parse with Strict either
// matches or fails without explanation.
type Strict struct{}

var _ peg.Handler = Strict{}

func (Strict) OnMatch(*peg.Context) {}

func (Strict) OnMismatch(*peg.Context) bool { return false }

// invalidInput describes the character at loc, followed by what was
// expected there.
func invalidInput(buf *input.Buffer, loc input.Location, expected []string) string {
	var msg string
	if c := buf.CharAt(loc); c == input.EOI {
		msg = "Unexpected end of input"
	} else {
		msg = fmt.Sprintf("Invalid input %s", quoteChar(c))
	}
	if len(expected) == 0 {
		return msg
	}
	return msg + ", expected " + joinOr(expected)
}

func quoteChar(c rune) string {
	switch c {
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	}
	return "'" + string(c) + "'"
}

// joinOr joins labels as "a, b or c".
func joinOr(labels []string) string {
	if len(labels) == 1 {
		return labels[0]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " or " + labels[len(labels)-1]
}

// recordable reports whether a failure of ctx says anything about the
// input. Failures inside predicates are expected and actions match no
// input.
func recordable(ctx *peg.Context) bool {
	return !ctx.InPredicate() && !ctx.Matcher().Flags().Has(peg.Action)
}
