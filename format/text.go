package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/tree"
)

// TextEncoder prints the tree one node per line, indented by depth:
//
//	Sum [0-5] = 34
//	  Number [0-2] "12" = 12
//	  '+' [2-3] "+"
//	  Number [3-5] "34" = 34
//
// Nodes without children show the text they span, nodes with a value show
// it after "=". Parse errors follow the tree.
type TextEncoder struct {
	w   io.Writer
	doc *Document
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(doc *Document) error {
	e.doc = doc
	return encode(e.w, e)
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeDocument(&sb, e.doc, plain{})
	return []byte(sb.String()), nil
}

// painter decorates the parts of a rendered document.
type painter interface {
	label(s string) string
	span(s string) string
	text(s string) string
	value(s string) string
	err(s string) string
}

type plain struct{}

func (plain) label(s string) string { return s }
func (plain) span(s string) string  { return s }
func (plain) text(s string) string  { return s }
func (plain) value(s string) string { return s }
func (plain) err(s string) string   { return s }

func writeDocument(sb *strings.Builder, doc *Document, p painter) {
	if doc == nil {
		return
	}
	if doc.Root != nil {
		writeNode(sb, doc, doc.Root, 0, p)
	}
	if len(doc.Errors) == 0 {
		return
	}
	if doc.Root != nil {
		sb.WriteByte('\n')
	}
	sb.WriteString(p.err(peg.PrintErrors(doc.Input, doc.Errors)))
}

func writeNode(sb *strings.Builder, doc *Document, n *tree.Node, depth int, p painter) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(p.label(n.Label()))
	sb.WriteByte(' ')
	sb.WriteString(p.span(fmt.Sprintf("[%s-%s]", n.Start(), n.End())))
	if len(n.Children()) == 0 && doc.Input != nil {
		sb.WriteByte(' ')
		sb.WriteString(p.text(strconv.Quote(tree.Text(n, doc.Input))))
	}
	if v := n.Value(); v != nil {
		sb.WriteString(" = ")
		sb.WriteString(p.value(fmt.Sprint(v)))
	}
	sb.WriteByte('\n')

	for _, child := range n.Children() {
		writeNode(sb, doc, child, depth+1, p)
	}
}
