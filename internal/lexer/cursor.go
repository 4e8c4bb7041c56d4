package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"svdump/internal/source"
)

// Cursor walks the bytes of one file. Off is the next unread byte.
type Cursor struct {
	File *source.File
	Off  uint32
	buf  []byte
}

// NewCursor panics if the file does not fit a uint32 offset.
func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("lexer: %s too large: %w", f.Path, err))
	}
	return Cursor{File: f, buf: f.Content}
}

// at вернёт байт по смещению или 0 за концом буфера
func (c *Cursor) at(off uint32) byte {
	if int(off) >= len(c.buf) {
		return 0
	}
	return c.buf[off]
}

func (c *Cursor) EOF() bool { return int(c.Off) >= len(c.buf) }

// Peek returns the current byte, 0 at EOF.
func (c *Cursor) Peek() byte { return c.at(c.Off) }

// PeekAt смотрит на n байт вперёд.
func (c *Cursor) PeekAt(n uint32) byte { return c.at(c.Off + n) }

// Bump consumes one byte and returns it; at EOF it is a no-op.
func (c *Cursor) Bump() byte {
	b := c.at(c.Off)
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.buf[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Mark is a saved offset; see SpanFrom, Text and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// Text копирует байты от метки до курсора.
func (c *Cursor) Text(m Mark) string { return string(c.buf[m:c.Off]) }
