package scanner

import (
	"fmt"

	"fortio.org/safecast"

	"headerlint/internal/source"
)

// cursor держит позицию сканера в файле. Сканер идёт только вперёд,
// поэтому всё состояние сводится к смещению и концу буфера.
type cursor struct {
	file *source.File
	off  uint32
	end  uint32
}

func newCursor(f *source.File) cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file length overflows uint32: %w", err))
	}
	return cursor{file: f, end: end}
}

func (c *cursor) eof() bool {
	return c.off >= c.end
}

// peek возвращает текущий байт, за концом файла ноль.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.file.Content[c.off]
}

// peek2 возвращает текущий и следующий байты; ok=false, когда их меньше двух.
func (c *cursor) peek2() (b0, b1 byte, ok bool) {
	if c.off+1 >= c.end {
		return 0, 0, false
	}
	return c.file.Content[c.off], c.file.Content[c.off+1], true
}

// bump съедает один байт и возвращает его.
func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.file.Content[c.off]
	c.off++
	return b
}

// mark is a saved position; it stays valid because the cursor never moves back.
type mark uint32

func (c *cursor) mark() mark {
	return mark(c.off)
}

// spanFrom builds the span from a saved mark up to the current position.
func (c *cursor) spanFrom(m mark) source.Span {
	return source.Span{File: c.file.ID, Start: uint32(m), End: c.off}
}

// text returns the raw bytes between two offsets as a string.
func (c *cursor) text(from, to uint32) string {
	return string(c.file.Content[from:to])
}
