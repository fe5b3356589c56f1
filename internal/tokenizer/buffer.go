package tokenizer

import (
	"errors"
	"io"
	"unicode/utf8"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// DefaultBufferSize is the refill size used when none is configured.
const DefaultBufferSize = 4096

// maxConsecutiveEmptyReads bounds how often a source may return (0, nil)
// before Refill gives up with io.ErrNoProgress.
const maxConsecutiveEmptyReads = 100

// ErrInvalidBufferSize is returned by NewBuffer for a size below one.
var ErrInvalidBufferSize = errors.New("tokenizer: buffer size must be at least 1")

// Buffer is a forward-only character stream over an io.Reader.
//
// It pulls at most size bytes per refill into an owned buffer and hands out
// one character at a time. Characters whose UTF-8 encoding straddles two
// refills are reassembled, so the character sequence never depends on size.
//
// Buffer implements the shape-core tokenizer.Stream interface. Clones share
// the buffered bytes and may read ahead of the Buffer; a clone is only valid
// while it is not behind the Buffer it was cloned from.
type Buffer struct {
	src  io.Reader
	buf  []byte
	pos  int // next unread byte
	end  int // end of valid bytes
	size int
	err  error // sticky; io.EOF once the source is drained
	loc  location
}

// location is a position in the character stream.
type location struct {
	offset int64 // bytes consumed
	line   int
	column int
	lastCR bool
}

var startOfStream = location{line: 1, column: 1}

// advance moves l past r, which was encoded in n bytes. CR, LF and CRLF each end one line.
func (l *location) advance(r rune, n int) {
	l.offset += int64(n)
	switch {
	case r == '\n' && l.lastCR:
		// second half of CRLF, the line was already counted
		l.lastCR = false
	case r == '\n' || r == '\r':
		l.line++
		l.column = 1
		l.lastCR = r == '\r'
	default:
		l.column++
		l.lastCR = false
	}
}

// NewBuffer returns a Buffer reading from r in chunks of size bytes.
func NewBuffer(r io.Reader, size int) (*Buffer, error) {
	if size < 1 {
		return nil, ErrInvalidBufferSize
	}
	return &Buffer{
		src:  r,
		buf:  make([]byte, size+utf8.UTFMax),
		size: size,
		loc:  startOfStream,
	}, nil
}

// Size returns the configured refill size.
func (b *Buffer) Size() int {
	return b.size
}

// Refill moves unread bytes to the front of the buffer and reads up to Size
// more bytes from the source. It returns the number of bytes read; zero means
// the source is exhausted (or failed, see the returned error).
func (b *Buffer) Refill() (int, error) {
	if b.err != nil {
		return 0, b.err
	}

	if b.pos > 0 {
		copy(b.buf, b.buf[b.pos:b.end])
		b.end -= b.pos
		b.pos = 0
	}
	if need := b.end + b.size; need > len(b.buf) {
		grown := make([]byte, need)
		copy(grown, b.buf[:b.end])
		b.buf = grown
	}

	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		n, err := b.src.Read(b.buf[b.end : b.end+b.size])
		if n < 0 || n > b.size {
			b.err = errors.New("tokenizer: source returned invalid count")
			return 0, b.err
		}
		b.end += n
		if err != nil {
			b.err = err
		}
		if n > 0 {
			return n, nil
		}
		if b.err != nil {
			return 0, b.err
		}
	}
	b.err = io.ErrNoProgress
	return 0, b.err
}

// decodeAt decodes the character rel bytes past the read position, refilling
// until it is complete. Refill keeps unread bytes, so rel stays valid across refills.
// It returns the error that stopped it when nothing is left to decode.
func (b *Buffer) decodeAt(rel int) (rune, int, error) {
	if rel < 0 || b.pos+rel > b.end {
		return 0, 0, io.EOF
	}
	for !utf8.FullRune(b.buf[b.pos+rel : b.end]) {
		if b.err != nil {
			break
		}
		if _, err := b.Refill(); err != nil {
			break
		}
	}
	if b.pos+rel < b.end {
		r, n := utf8.DecodeRune(b.buf[b.pos+rel : b.end])
		return r, n, nil
	}
	if b.err == nil {
		return 0, 0, io.EOF
	}
	return 0, 0, b.err
}

// Peek returns the next character without consuming it.
// It returns io.EOF once every buffered character has been consumed.
func (b *Buffer) Peek() (rune, error) {
	r, _, err := b.decodeAt(0)
	return r, err
}

// Next consumes and returns the next character.
func (b *Buffer) Next() (rune, error) {
	r, n, err := b.decodeAt(0)
	if err != nil {
		return 0, err
	}
	b.pos += n
	b.loc.advance(r, n)
	return r, nil
}

// AtEnd reports whether the source is drained and nothing is left to read.
func (b *Buffer) AtEnd() bool {
	_, _, err := b.decodeAt(0)
	return err != nil
}

// Err returns the first non-EOF error the source reported.
func (b *Buffer) Err() error {
	if b.err == io.EOF {
		return nil
	}
	return b.err
}

// Offset returns the number of bytes consumed so far.
func (b *Buffer) Offset() int64 {
	return b.loc.offset
}

// Line returns the 1-indexed line of the next character.
func (b *Buffer) Line() int {
	return b.loc.line
}

// Column returns the 1-indexed column, in characters, of the next character.
func (b *Buffer) Column() int {
	return b.loc.column
}

// PeekChar returns the next character without consuming it.
func (b *Buffer) PeekChar() (rune, bool) {
	r, err := b.Peek()
	return r, err == nil
}

// NextChar consumes and returns the next character.
func (b *Buffer) NextChar() (rune, bool) {
	r, err := b.Next()
	return r, err == nil
}

// MatchChars consumes match if the stream continues with it.
// On a mismatch nothing is consumed.
func (b *Buffer) MatchChars(match []rune) bool {
	if !matchAhead(b, 0, match) {
		return false
	}
	for range match {
		_, _ = b.Next()
	}
	return true
}

// IsEos reports whether the stream is exhausted.
func (b *Buffer) IsEos() bool {
	return b.AtEnd()
}

// GetOffset returns the byte offset of the next character.
func (b *Buffer) GetOffset() int {
	return int(b.loc.offset)
}

// GetRow returns the 1-indexed line of the next character.
func (b *Buffer) GetRow() int {
	return b.loc.line
}

// GetColumn returns the 1-indexed column of the next character.
func (b *Buffer) GetColumn() int {
	return b.loc.column
}

// Clone returns a read-ahead view positioned at the next character.
func (b *Buffer) Clone() shapetokenizer.Stream {
	return &cursor{buf: b, loc: b.loc}
}

// Match moves the Buffer forward to the position of other, a clone of b.
// It panics when other belongs to another stream or lies behind b.
func (b *Buffer) Match(other shapetokenizer.Stream) {
	var loc location
	switch o := other.(type) {
	case *Buffer:
		if o != b {
			panic("tokenizer: trying to match two different streams")
		}
		return
	case *cursor:
		if o.buf != b {
			panic("tokenizer: trying to match two different streams")
		}
		loc = o.loc
	default:
		panic("tokenizer: trying to match two different streams")
	}
	delta := loc.offset - b.loc.offset
	if delta < 0 {
		panic("tokenizer: cannot match a position behind the stream")
	}
	b.pos += int(delta)
	b.loc = loc
}

// Reset rewinds a seekable source to its start. A source that cannot seek is left as is.
func (b *Buffer) Reset() {
	seeker, ok := b.src.(io.Seeker)
	if !ok {
		return
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		b.err = err
		return
	}
	b.pos, b.end = 0, 0
	b.err = nil
	b.loc = startOfStream
}

// matchAhead reports whether the characters rel bytes past the read position equal match.
func matchAhead(b *Buffer, rel int, match []rune) bool {
	for _, want := range match {
		r, n, err := b.decodeAt(rel)
		if err != nil || r != want {
			return false
		}
		rel += n
	}
	return true
}

// cursor is a clone of a Buffer. It reads ahead through the shared buffer
// without consuming, so matchers can look past a refill boundary.
type cursor struct {
	buf *Buffer
	loc location
}

// rel returns the distance in bytes from the Buffer's read position.
func (c *cursor) rel() (int, bool) {
	d := c.loc.offset - c.buf.loc.offset
	return int(d), d >= 0
}

func (c *cursor) PeekChar() (rune, bool) {
	rel, ok := c.rel()
	if !ok {
		return 0, false
	}
	r, _, err := c.buf.decodeAt(rel)
	return r, err == nil
}

func (c *cursor) NextChar() (rune, bool) {
	rel, ok := c.rel()
	if !ok {
		return 0, false
	}
	r, n, err := c.buf.decodeAt(rel)
	if err != nil {
		return 0, false
	}
	c.loc.advance(r, n)
	return r, true
}

func (c *cursor) MatchChars(match []rune) bool {
	rel, ok := c.rel()
	if !ok || !matchAhead(c.buf, rel, match) {
		return false
	}
	for range match {
		c.NextChar()
	}
	return true
}

func (c *cursor) IsEos() bool {
	_, ok := c.PeekChar()
	return !ok
}

func (c *cursor) GetOffset() int { return int(c.loc.offset) }
func (c *cursor) GetRow() int    { return c.loc.line }
func (c *cursor) GetColumn() int { return c.loc.column }

func (c *cursor) Clone() shapetokenizer.Stream {
	return &cursor{buf: c.buf, loc: c.loc}
}

// Match moves the cursor to the position of other, which must share its Buffer.
func (c *cursor) Match(other shapetokenizer.Stream) {
	switch o := other.(type) {
	case *Buffer:
		if o != c.buf {
			panic("tokenizer: trying to match two different streams")
		}
		c.loc = o.loc
	case *cursor:
		if o.buf != c.buf {
			panic("tokenizer: trying to match two different streams")
		}
		c.loc = o.loc
	default:
		panic("tokenizer: trying to match two different streams")
	}
}

// Reset moves the cursor back to the read position of its Buffer.
func (c *cursor) Reset() {
	c.loc = c.buf.loc
}

var (
	_ shapetokenizer.Stream = (*Buffer)(nil)
	_ shapetokenizer.Stream = (*cursor)(nil)
)
