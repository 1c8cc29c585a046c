package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/peg/matchers"
	"github.com/dhamidi/parsnip/recovery"
	"github.com/dhamidi/parsnip/tree"
)

type grammar struct {
	number, sum peg.Matcher
}

func sumGrammar() grammar {
	digit := matchers.CharRange('0', '9').Named("Digit")
	number := matchers.OneOrMore(digit).Named("Number")
	sum := matchers.Seq(number, matchers.Char('+'), number, matchers.EOI()).Named("Sum")
	return grammar{number: number, sum: sum}
}

// program is a list of statements like "1+2;" where statements may fail
// to parse.
func program() peg.Matcher {
	digit := matchers.CharRange('0', '9').Named("Digit")
	number := matchers.OneOrMore(digit).Named("Number")
	stmt := matchers.Seq(number, matchers.ZeroOrMore(matchers.Seq(matchers.Char('+'), number))).Named("Stmt")
	return matchers.Seq(
		matchers.ZeroOrMore(matchers.Seq(stmt, matchers.Char(';').Named("Semi"))),
		matchers.EOI(),
	).Named("Program")
}

func TestStrict(t *testing.T) {
	g := sumGrammar()
	res, err := peg.RunString(g.sum, "1+x", peg.WithHandler(recovery.Strict{}))
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Empty(t, res.Errors)
}

func TestReporting(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
		want  string
	}{
		{"bad operator", "12a", 2, "Invalid input 'a', expected Digit or '+'"},
		{"missing operand", "12+", 3, "Unexpected end of input, expected Digit"},
		{"trailing input", "1+2x", 3, "Invalid input 'x', expected Digit or EOI"},
		{"newline", "1\n", 1, `Invalid input '\n', expected Digit or '+'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := peg.RunString(sumGrammar().sum, tt.text, peg.WithHandler(recovery.NewReporting()))
			require.NoError(t, err)
			assert.False(t, res.Matched)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.want, res.Errors[0].Message)
			assert.Equal(t, tt.start, res.Errors[0].Start.Index)
		})
	}
}

func TestReportingSuccessRecordsNothing(t *testing.T) {
	res, err := peg.RunString(sumGrammar().sum, "1+2", peg.WithHandler(recovery.NewReporting()))
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Empty(t, res.Errors)
}

func TestReportingUsesLeafLabels(t *testing.T) {
	digit := matchers.CharRange('0', '9').Named("Digit")
	number := matchers.OneOrMore(digit).Named("Number").AsLeaf()
	sum := matchers.Seq(number, matchers.Char('+'), number).Named("Sum")

	res, err := peg.RunString(sum, "x", peg.WithHandler(recovery.NewReporting()))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Invalid input 'x', expected Number", res.Errors[0].Message)
}

func TestReportingIgnoresPredicates(t *testing.T) {
	h := recovery.NewReporting()
	rule := matchers.Seq(matchers.TestNot(matchers.String("no")), matchers.Any()).Named("Top")

	res, err := peg.RunString(rule, "no", peg.WithHandler(h))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Invalid input 'n', expected Top", res.Errors[0].Message)
	assert.Equal(t, []string{"Top"}, h.Expected())
}

func TestRecoveringInsertsMissingTerminator(t *testing.T) {
	h := recovery.NewRecovering(recovery.InsertOnMiss("Semi", ";"))

	res, err := peg.RunString(program(), "1;2", peg.WithHandler(h))
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.True(t, res.HasErrors())

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Missing Semi", res.Errors[0].Message)
	assert.Equal(t, 3, res.Errors[0].Start.Index)

	semis := tree.FindAll([]*tree.Node{res.Root}, func(n *tree.Node) bool { return n.Label() == "Semi" })
	require.Len(t, semis, 2)
	assert.Equal(t, 1, semis[0].End().Index-semis[0].Start().Index)
	assert.Equal(t, 3, semis[1].Start().Index)
	assert.Equal(t, 3, semis[1].End().Index)
	assert.Equal(t, 3, res.End.Index)
}

func TestRecoveringSkipsToResyncChar(t *testing.T) {
	h := recovery.NewRecovering(recovery.SyncOn("Stmt"), recovery.ResyncAt(";"))

	res, err := peg.RunString(program(), "1+2;x+;3;", peg.WithHandler(h))
	require.NoError(t, err)
	require.True(t, res.Matched)

	require.Len(t, res.Errors, 1)
	e := res.Errors[0]
	assert.Equal(t, "Invalid input 'x', expected Digit", e.Message)
	assert.Equal(t, 4, e.Start.Index)
	assert.Equal(t, 6, e.End.Index)

	stmts := tree.FindAll([]*tree.Node{res.Root}, func(n *tree.Node) bool { return n.Label() == "Stmt" })
	require.Len(t, stmts, 3)
	assert.Equal(t, 4, stmts[1].Start().Index)
	assert.Equal(t, 6, stmts[1].End().Index)
}

func TestRecoveringStopsAfterMaxErrors(t *testing.T) {
	h := recovery.NewRecovering(recovery.SyncOn("Stmt"), recovery.ResyncAt(";"), recovery.WithMaxErrors(1))

	res, err := peg.RunString(program(), "x;y;", peg.WithHandler(h))
	require.NoError(t, err)
	assert.False(t, res.Matched)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 0, res.Errors[0].Start.Index)
	assert.Equal(t, 2, res.Errors[1].Start.Index)
	assert.Contains(t, res.Errors[1].Message, "Invalid input 'y'")
}

func TestRecoveringNeverInsidePredicates(t *testing.T) {
	stmt := matchers.Seq(matchers.Char('a')).Named("Stmt")
	rule := matchers.Seq(matchers.TestNot(stmt), matchers.Any()).Named("Top")
	h := recovery.NewRecovering(recovery.SyncOn("Stmt"))

	res, err := peg.RunString(rule, "x", peg.WithHandler(h))
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Empty(t, res.Errors)
}

func TestRecoveringNeedsSomethingToSkip(t *testing.T) {
	h := recovery.NewRecovering(recovery.SyncOn("Stmt"), recovery.ResyncAt(";"))

	res, err := peg.RunString(program(), "1;", peg.WithHandler(h))
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Empty(t, res.Errors)
}

type counter struct{ matches, mismatches int }

func (c *counter) OnMatch(*peg.Context) { c.matches++ }

func (c *counter) OnMismatch(*peg.Context) bool {
	c.mismatches++
	return false
}

func TestTracingDelegates(t *testing.T) {
	c := &counter{}
	h := recovery.Trace(c, commonlog.GetLogger("parsnip.test"))

	res, err := peg.RunString(sumGrammar().number, "12x", peg.WithHandler(h))
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, 3, c.matches)
	assert.Equal(t, 1, c.mismatches)

	res, err = peg.RunString(sumGrammar().number, "x", peg.WithHandler(recovery.Trace(nil, nil)))
	require.NoError(t, err)
	assert.False(t, res.Matched)
}
