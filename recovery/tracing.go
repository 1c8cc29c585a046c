package recovery

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/peg"
)

// Tracing logs every match and mismatch at debug level and passes them on
// to another handler.
type Tracing struct {
	next peg.Handler
	log  commonlog.Logger
}

var _ peg.Handler = (*Tracing)(nil)

// Trace wraps next. A nil next traces a Strict parse.
func Trace(next peg.Handler, logger commonlog.Logger) *Tracing {
	if next == nil {
		next = Strict{}
	}
	if logger == nil {
		logger = log
	}
	return &Tracing{next: next, log: logger}
}

func (t *Tracing) OnMatch(ctx *peg.Context) {
	if t.log.AllowLevel(commonlog.Debug) {
		t.log.Debugf("%*smatched %s [%s-%s]", ctx.Level()*2, "", ctx.Matcher().Label(), ctx.StartLocation(), ctx.CurrentLocation())
	}
	t.next.OnMatch(ctx)
}

func (t *Tracing) OnMismatch(ctx *peg.Context) bool {
	recovered := t.next.OnMismatch(ctx)
	if t.log.AllowLevel(commonlog.Debug) {
		if recovered {
			t.log.Debugf("%*srecovered %s [%s-%s]", ctx.Level()*2, "", ctx.Matcher().Label(), ctx.StartLocation(), ctx.CurrentLocation())
		} else {
			t.log.Debugf("%*sfailed %s at %s", ctx.Level()*2, "", ctx.Matcher().Label(), ctx.CurrentLocation())
		}
	}
	return recovered
}
