package input

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Position is a human readable location in source text.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Buffer holds the text being parsed. It is read-only once built and may be
// shared by any number of parses.
type Buffer struct {
	filename string
	text     []rune
	lines    []int // index of the first character of every line
}

// NewBuffer creates a buffer over text.
func NewBuffer(text string) *Buffer {
	return NewFileBuffer("", text)
}

// NewFileBuffer creates a buffer over text that reports positions in filename.
func NewFileBuffer(filename, text string) *Buffer {
	b := &Buffer{
		filename: filename,
		text:     []rune(text),
		lines:    []int{0},
	}
	for i, c := range b.text {
		if c == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}
	return b
}

// ReadBuffer reads all of r into a new buffer.
func ReadBuffer(filename string, r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return NewFileBuffer(filename, string(data)), nil
}

// LoadBuffer reads the named file into a new buffer.
func LoadBuffer(filename string) (*Buffer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return NewFileBuffer(filename, string(data)), nil
}

func (b *Buffer) Filename() string {
	return b.filename
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return len(b.text)
}

// Start returns the location of the first character.
func (b *Buffer) Start() Location {
	return Location{}
}

// CharAt returns the character read at l, or EOI.
func (b *Buffer) CharAt(l Location) rune {
	if len(l.virtual) > 0 {
		return l.virtual[0]
	}
	if l.Index < 0 || l.Index >= len(b.text) {
		return EOI
	}
	return b.text[l.Index]
}

// Advance returns the location after the character read at l. Advancing at
// the end of input returns l unchanged.
func (b *Buffer) Advance(l Location) Location {
	if next, ok := l.advanceVirtual(); ok {
		return next
	}
	if l.Index < len(b.text) {
		l.Index++
	}
	return l
}

// InsertVirtual splices text in front of l without touching the buffer.
func (b *Buffer) InsertVirtual(l Location, text string) Location {
	return l.InsertVirtual(text)
}

// Extract returns the real characters in [start, end). Out of range bounds
// are clamped.
func (b *Buffer) Extract(start, end int) string {
	start = b.clamp(start)
	end = b.clamp(end)
	if start >= end {
		return ""
	}
	return string(b.text[start:end])
}

// Position converts a character index into line and column numbers.
func (b *Buffer) Position(index int) Position {
	index = b.clamp(index)
	line := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > index }) - 1
	return Position{
		Filename: b.filename,
		Offset:   index,
		Line:     line + 1,
		Column:   index - b.lines[line] + 1,
	}
}

// Index is the inverse of Position: it converts a 1-based line and column
// into a character index, clamped to the line and to the buffer.
func (b *Buffer) Index(line, column int) int {
	if line < 1 {
		return 0
	}
	if line > len(b.lines) {
		return len(b.text)
	}
	start := b.lines[line-1]
	end := len(b.text)
	if line < len(b.lines) {
		end = b.lines[line] - 1
	}
	if column < 1 {
		column = 1
	}
	return min(start+column-1, end)
}

// Line returns the text of the 1-based line n without its line terminator.
func (b *Buffer) Line(n int) string {
	if n < 1 || n > len(b.lines) {
		return ""
	}
	start := b.lines[n-1]
	end := len(b.text)
	if n < len(b.lines) {
		end = b.lines[n] - 1
	}
	if end > start && b.text[end-1] == '\r' {
		end--
	}
	return string(b.text[start:end])
}

// LineCount returns the number of lines, counting a trailing empty line.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

func (b *Buffer) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(b.text) {
		return len(b.text)
	}
	return i
}
