package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorLabel = lipgloss.Color("39")
	colorText  = lipgloss.Color("42")
	colorValue = lipgloss.Color("220")
	colorError = lipgloss.Color("196")
	colorDim   = lipgloss.Color("241")
)

// StyledEncoder is the TextEncoder layout colored for a terminal. Colors
// are dropped if w is not a terminal.
type StyledEncoder struct {
	w      io.Writer
	doc    *Document
	styles styles
}

type styles struct {
	labelStyle lipgloss.Style
	spanStyle  lipgloss.Style
	textStyle  lipgloss.Style
	valueStyle lipgloss.Style
	errorStyle lipgloss.Style
}

func NewStyledEncoder(w io.Writer) *StyledEncoder {
	r := lipgloss.NewRenderer(w)
	return &StyledEncoder{
		w: w,
		styles: styles{
			labelStyle: r.NewStyle().Bold(true).Foreground(colorLabel),
			spanStyle:  r.NewStyle().Foreground(colorDim),
			textStyle:  r.NewStyle().Foreground(colorText),
			valueStyle: r.NewStyle().Foreground(colorValue).Italic(true),
			errorStyle: r.NewStyle().Foreground(colorError),
		},
	}
}

func (e *StyledEncoder) Encode(doc *Document) error {
	e.doc = doc
	return encode(e.w, e)
}

func (e *StyledEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeDocument(&sb, e.doc, e.styles)
	return []byte(sb.String()), nil
}

func (s styles) label(v string) string { return s.labelStyle.Render(v) }
func (s styles) span(v string) string  { return s.spanStyle.Render(v) }
func (s styles) text(v string) string  { return s.textStyle.Render(v) }
func (s styles) value(v string) string { return s.valueStyle.Render(v) }

// err colors every line on its own so that the caret lines stay aligned.
func (s styles) err(v string) string {
	lines := strings.Split(strings.TrimSuffix(v, "\n"), "\n")
	for i, line := range lines {
		lines[i] = s.errorStyle.Render(line)
	}
	return strings.Join(lines, "\n") + "\n"
}
