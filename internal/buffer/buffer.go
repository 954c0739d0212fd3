// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package buffer implements the input cursor used by the push parser.
//
// A Cursor holds the bytes of the most recent chunk together with any tail of
// earlier chunks that has not yet been consumed. Consumed bytes are discarded
// when the next chunk arrives, so the memory held by a cursor is bounded by
// the size of one chunk plus the longest incomplete token.
package buffer

// A Cursor is a read position over a sequence of appended chunks.
// The zero value is ready for use.
type Cursor struct {
	buf  []byte
	pos  int // read position in buf
	base int // stream offset of buf[0]

	line, col int // of the read position, 0-based
}

// Append adds chunk after any unconsumed bytes. The contents of chunk are
// copied, so the caller may reuse it once Append returns.
func (c *Cursor) Append(chunk []byte) {
	if c.pos > 0 {
		n := copy(c.buf, c.buf[c.pos:])
		c.buf = c.buf[:n]
		c.base += c.pos
		c.pos = 0
	}
	c.buf = append(c.buf, chunk...)
}

// Remaining returns a view of the bytes not yet consumed. The view is only
// valid until the next call to Append.
func (c *Cursor) Remaining() []byte { return c.buf[c.pos:] }

// Len reports the number of bytes not yet consumed.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Advance commits the next n bytes as consumed. It panics if n exceeds the
// number of unconsumed bytes.
func (c *Cursor) Advance(n int) {
	if n < 0 || n > c.Len() {
		panic("buffer: advance out of range")
	}
	for _, b := range c.buf[c.pos : c.pos+n] {
		if b == '\n' {
			c.line++
			c.col = 0
		} else {
			c.col++
		}
	}
	c.pos += n
}

// Discard consumes all the remaining bytes.
func (c *Cursor) Discard() { c.Advance(c.Len()) }

// Offset reports the stream offset of the read position, that is, the total
// number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.base + c.pos }

// Position reports the 0-based line and column of the read position.
// Columns count bytes, not runes.
func (c *Cursor) Position() (line, col int) { return c.line, c.col }

// PositionAt reports the 0-based line and column of the unconsumed byte at
// offset i from the read position, without consuming anything.
func (c *Cursor) PositionAt(i int) (line, col int) {
	line, col = c.line, c.col
	for _, b := range c.buf[c.pos : c.pos+i] {
		if b == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}
