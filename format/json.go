package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/tree"
)

// JSONEncoder writes the document as indented JSON.
type JSONEncoder struct {
	w   io.Writer
	doc *Document
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *Document) error {
	e.doc = doc
	if err := encode(e.w, e); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(documentToJSON(e.doc), "", "  ")
}

type jsonDocument struct {
	Root   *jsonNode   `json:"root"`
	Errors []jsonError `json:"errors"`
}

type jsonNode struct {
	Label    string      `json:"label"`
	Span     jsonSpan    `json:"span"`
	Text     *string     `json:"text,omitempty"`
	Value    any         `json:"value,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Virtual string `json:"virtual,omitempty"`
}

type jsonError struct {
	Message string   `json:"message"`
	Span    jsonSpan `json:"span"`
}

func documentToJSON(doc *Document) *jsonDocument {
	jd := &jsonDocument{Errors: []jsonError{}}
	if doc == nil {
		return jd
	}
	if doc.Root != nil {
		jd.Root = nodeToJSON(doc.Input, doc.Root)
	}
	for _, err := range doc.Errors {
		jd.Errors = append(jd.Errors, jsonError{
			Message: err.Message,
			Span:    spanToJSON(doc.Input, err.Start, err.End),
		})
	}
	return jd
}

func nodeToJSON(buf *input.Buffer, n *tree.Node) *jsonNode {
	jn := &jsonNode{
		Label: n.Label(),
		Span:  spanToJSON(buf, n.Start(), n.End()),
		Value: n.Value(),
	}
	if len(n.Children()) == 0 && buf != nil {
		text := tree.Text(n, buf)
		jn.Text = &text
	}
	if len(n.Children()) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children()))
		for i, child := range n.Children() {
			jn.Children[i] = nodeToJSON(buf, child)
		}
	}
	return jn
}

func spanToJSON(buf *input.Buffer, start, end input.Location) jsonSpan {
	return jsonSpan{
		Start: positionToJSON(buf, start),
		End:   positionToJSON(buf, end),
	}
}

func positionToJSON(buf *input.Buffer, loc input.Location) jsonPosition {
	jp := jsonPosition{Offset: loc.Index, Virtual: loc.Virtual()}
	if buf != nil {
		pos := buf.Position(loc.Index)
		jp.Line, jp.Column = pos.Line, pos.Column
	}
	return jp
}
