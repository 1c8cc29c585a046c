package peg_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
)

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  peg.ParseError
		want string
	}{
		{
			name: "single line",
			text: "42a",
			err:  peg.ParseError{Start: input.At(2), End: input.At(3), Message: "Invalid input 'a', expected Digit"},
			want: "Invalid input 'a', expected Digit (line 1, pos 3):\n42a\n  ^\n",
		},
		{
			name: "second line",
			text: "ab\ncd",
			err:  peg.ParseError{Start: input.At(4), End: input.At(4), Message: "oops"},
			want: "oops (line 2, pos 2):\ncd\n ^\n",
		},
		{
			name: "wide",
			text: "let x",
			err:  peg.ParseError{Start: input.At(0), End: input.At(3), Message: "keyword"},
			want: "keyword (line 1, pos 1):\nlet x\n^^^\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := peg.PrintError(input.NewBuffer(tt.text), tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintErrorNeverPanics(t *testing.T) {
	err := peg.ParseError{Start: input.At(99), End: input.At(1), Message: "far away"}

	assert.NotPanics(t, func() {
		assert.Contains(t, peg.PrintError(input.NewBuffer("short"), err), "far away")
	})
	assert.Equal(t, "far away", peg.PrintError(nil, err))
}

func TestPrintErrors(t *testing.T) {
	buf := input.NewBuffer("ab\ncd")
	errs := []peg.ParseError{
		{Start: input.At(1), End: input.At(2), Message: "first"},
		{Start: input.At(3), End: input.At(3), Message: "second"},
	}

	want := "first (line 1, pos 2):\nab\n ^\n\nsecond (line 2, pos 1):\ncd\n^\n"
	assert.Equal(t, want, peg.PrintErrors(buf, errs))
	assert.Empty(t, peg.PrintErrors(buf, nil))
}

func TestRuntimeErrorMessage(t *testing.T) {
	cause := errors.New("bad number")
	err := &peg.RuntimeError{
		Err:      cause,
		Path:     "Expr/Number",
		Position: input.Position{Line: 1, Column: 4},
	}
	assert.Equal(t, "parsnip: error while parsing rule 'Expr/Number' at input position 1:4: bad number", err.Error())
	assert.ErrorIs(t, err, cause)

	err.Action = true
	assert.Contains(t, err.Error(), "action 'Expr/Number'")
}
