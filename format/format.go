// Package format renders parse results for people and programs.
package format

import (
	"encoding"
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/tree"
)

var ErrUnknownFormat = errors.New("unknown format")

// Document is what an Encoder renders: a parse tree, the errors found
// while building it and the input both refer to.
type Document struct {
	Input  *input.Buffer
	Root   *tree.Node
	Errors []peg.ParseError
}

// NewDocument collects the outcome of a parse of buf.
func NewDocument(buf *input.Buffer, res *peg.Result) *Document {
	doc := &Document{Input: buf}
	if res != nil {
		doc.Root = res.Root
		doc.Errors = res.Errors
	}
	return doc
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *Document) error
}

// Names lists the formats New accepts.
var Names = []string{"text", "json", "styled"}

// New returns the encoder for the named format writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "text":
		return NewTextEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "styled":
		return NewStyledEncoder(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// encode is the Encode step shared by all encoders.
func encode(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
