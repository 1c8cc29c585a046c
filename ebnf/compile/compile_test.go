package compile_test

import (
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsnip/ebnf/compile"
	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/recovery"
	"github.com/dhamidi/parsnip/tree"
)

var arithmetic = dedent.Dedent(`
	Expr = Term { ( "+" | "-" ) Term } .
	Term = number | "(" Expr ")" .
	number = digit { digit } .
	digit = "0" … "9" .
	space = " " | "\t" | "\n" .
`)

func parseGrammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := compile.Parse("test.ebnf", strings.NewReader(src))
	require.NoError(t, err)
	return g
}

func labels(nodes []*tree.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Label())
	}
	return out
}

func TestCompileArithmetic(t *testing.T) {
	g := parseGrammar(t, arithmetic)
	expr, err := compile.Compile(g, "Expr", compile.WithSpacing("space"), compile.WithLexicalLeaves(), compile.WithEOI())
	require.NoError(t, err)

	buf := input.NewBuffer("1 + (23 - 4)")
	res, err := peg.Run(expr, buf)
	require.NoError(t, err)
	require.True(t, res.Matched)

	root := res.Root
	assert.Equal(t, "Expr", root.Label())
	assert.Equal(t, []string{"Term", `"+"`, "Term"}, labels(root.Children()))
	assert.Equal(t, []string{`"("`, "Expr", `")"`}, labels(root.Children()[2].Children()))

	var numbers []string
	for _, n := range tree.FindAll([]*tree.Node{root}, func(n *tree.Node) bool { return n.Label() == "number" }) {
		assert.Empty(t, n.Children())
		numbers = append(numbers, tree.Text(n, buf))
	}
	assert.Equal(t, []string{"1", "23", "4"}, numbers)
}

func TestCompiledGrammarReportsErrors(t *testing.T) {
	g := parseGrammar(t, arithmetic)
	expr, err := compile.Compile(g, "Expr", compile.WithSpacing("space"), compile.WithLexicalLeaves(), compile.WithEOI())
	require.NoError(t, err)

	res, err := peg.RunString(expr, "1 +", peg.WithHandler(recovery.NewReporting()))
	require.NoError(t, err)
	assert.False(t, res.Matched)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, `Unexpected end of input, expected number or "("`, res.Errors[0].Message)
	assert.Equal(t, 3, res.Errors[0].Start.Index)
}

func TestCompileWithoutEOI(t *testing.T) {
	g := parseGrammar(t, arithmetic)
	expr, err := compile.Compile(g, "Expr")
	require.NoError(t, err)

	res, err := peg.RunString(expr, "1+2)")
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, 3, res.End.Index)

	// no spacing
	res, err = peg.RunString(expr, "1 + 2")
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, 1, res.End.Index)
}

func TestLeavesAndTransparentProductions(t *testing.T) {
	src := dedent.Dedent(`
		List = Item { "," Item } .
		Item = "x" | "y" .
	`)

	tests := []struct {
		name string
		opts []compile.Option
		want []string
	}{
		{"plain", nil, []string{"Item", `","`, "Item"}},
		{"transparent", []compile.Option{compile.WithTransparent("Item")}, []string{`"x"`, `","`, `"y"`}},
		{"leaf", []compile.Option{compile.WithLeaves("List")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := compile.Compile(parseGrammar(t, src), "List", tt.opts...)
			require.NoError(t, err)

			res, err := peg.RunString(list, "x,y")
			require.NoError(t, err)
			require.True(t, res.Matched)
			assert.Equal(t, tt.want, labels(res.Root.Children()))
		})
	}
}

func TestRecursiveProductions(t *testing.T) {
	g := parseGrammar(t, `Nested = "(" [ Nested ] ")" .`)
	nested, err := compile.Compile(g, "Nested", compile.WithEOI())
	require.NoError(t, err)

	res, err := peg.RunString(nested, "((()))")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.NotNil(t, tree.FindByPath([]*tree.Node{res.Root}, "Nested/Nested/Nested"))

	res, err = peg.RunString(nested, "(()")
	require.NoError(t, err)
	assert.False(t, res.Matched)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		start string
		opts  []compile.Option
		want  error
	}{
		{"no start", `A = "a" .`, "", nil, compile.ErrNoStart},
		{"missing start", `A = "a" .`, "B", nil, compile.ErrNoStart},
		{"unknown production", `A = "a" B .`, "A", nil, compile.ErrUnknownProduction},
		{"unknown spacing", `A = "a" .`, "A", []compile.Option{compile.WithSpacing("ws")}, compile.ErrUnknownProduction},
		{"long range", `a = "0" … "99" .`, "a", nil, compile.ErrInvalidRange},
		{"decreasing range", `a = "9" … "0" .`, "a", nil, compile.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile.Compile(parseGrammar(t, tt.src), tt.start, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseAndVerify(t *testing.T) {
	_, err := compile.Parse("bad.ebnf", strings.NewReader(`A = "a"`))
	require.Error(t, err)
	assert.NotEmpty(t, compile.Errors(err))

	g := parseGrammar(t, arithmetic)
	err = compile.Verify(g, "Expr")
	require.Error(t, err)
	errs := compile.Errors(err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "space is unreachable")

	assert.ErrorIs(t, compile.Verify(g, ""), compile.ErrNoStart)

	delete(g, "space")
	assert.NoError(t, compile.Verify(g, "Expr"))
}

func TestErrorsOfPlainError(t *testing.T) {
	assert.Nil(t, compile.Errors(nil))
	assert.Len(t, compile.Errors(compile.ErrNoStart), 1)
}

func TestSpacingProductionNeedNotBeLexical(t *testing.T) {
	g := parseGrammar(t, dedent.Dedent(`
		List = "a" { "," "a" } .
		WS = " " | "\t" .
	`))
	list, err := compile.Compile(g, "List", compile.WithSpacing("WS"), compile.WithEOI())
	require.NoError(t, err)

	for _, text := range []string{"a, a", "a ,\ta", " a,a "} {
		res, err := peg.RunString(list, text)
		require.NoError(t, err, text)
		require.True(t, res.Matched, text)
		assert.Equal(t, []string{`"a"`, `","`, `"a"`}, labels(res.Root.Children()), text)
	}
}
