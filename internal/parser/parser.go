// Package parser implements the record scanner: a state machine that turns the
// token stream of a tokenizer.Tokenizer into records of field strings.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-csvreader/internal/tokenizer"
)

// TrimMode selects which field values have leading and trailing whitespace removed.
type TrimMode uint8

const (
	// TrimNone keeps every value as scanned.
	TrimNone TrimMode = 0
	// TrimUnquotedOnly trims values that were not quoted.
	TrimUnquotedOnly TrimMode = 1
	// TrimQuotedOnly trims the content of quoted values.
	TrimQuotedOnly TrimMode = 2
	// TrimAll trims both.
	TrimAll = TrimUnquotedOnly | TrimQuotedOnly
)

// String returns the string representation of TrimMode.
func (m TrimMode) String() string {
	switch m {
	case TrimNone:
		return "none"
	case TrimUnquotedOnly:
		return "unquoted"
	case TrimQuotedOnly:
		return "quoted"
	case TrimAll:
		return "all"
	default:
		return fmt.Sprintf("TrimMode(%d)", m)
	}
}

// Options configures the scanner.
type Options struct {
	// Delimiter separates fields. Default: ','
	Delimiter rune
	// Quote starts and ends quoted fields. 0 disables quoting. Default: '"'
	Quote rune
	// Escape makes the following quote (or escape) literal inside a quoted field.
	// When equal to Quote, a doubled quote is a literal quote. 0 disables it. Default: '"'
	Escape rune
	// Comment, when it is the first character of a record, discards the line. 0 disables it. Default: '#'
	Comment rune
	// Trim selects which values are trimmed. Default: TrimUnquotedOnly
	Trim TrimMode
	// SupportsMultiline keeps line breaks inside quoted fields. Default: true
	SupportsMultiline bool
	// SkipEmptyLines drops lines with no characters. Default: true
	SkipEmptyLines bool
	// LazyQuotes accepts a quote inside an unquoted field as data. Default: false
	LazyQuotes bool
}

// DefaultOptions returns default scanner options.
func DefaultOptions() Options {
	return Options{
		Delimiter:         ',',
		Quote:             '"',
		Escape:            '"',
		Comment:           '#',
		Trim:              TrimUnquotedOnly,
		SupportsMultiline: true,
		SkipEmptyLines:    true,
	}
}

// Scanning errors. They are returned wrapped in a *SyntaxError.
var (
	// ErrBareQuote indicates a quote inside an unquoted field.
	ErrBareQuote = errors.New("bare quote in non-quoted field")
	// ErrQuote indicates data after the closing quote of a quoted field.
	ErrQuote = errors.New("extraneous data after closing quote")
	// ErrLineBreakInQuotes indicates a line break inside a quoted field while multiline support is off.
	ErrLineBreakInQuotes = errors.New("line break in quoted field")
	// ErrUnterminatedQuote indicates a quoted field still open at the end of input.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
)

// SyntaxError reports malformed input with its position.
type SyntaxError struct {
	// StartLine is the line where the record started (1-indexed).
	StartLine int
	// Line is the line of the offending character (1-indexed).
	Line int
	// Column is the column of the offending character (1-indexed, in characters).
	Column int
	// Err is one of the scanning errors.
	Err error
}

// Error returns a formatted error message with position information.
func (e *SyntaxError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Position locates the first character of a field.
type Position struct {
	Offset int64
	Line   int
	Column int
}

// Parser scans records one at a time from a tokenizer.Buffer.
// It is forward-only and not safe for concurrent use.
type Parser struct {
	buf  *tokenizer.Buffer
	tok  *tokenizer.Tokenizer
	opts Options

	state   state
	field   strings.Builder
	quoted  bool
	fields  []string
	starts  []Position
	last    []Position
	empty   bool // current record is an unskipped empty line
	width   int
	err     error
	recLine int
}

// NewParser returns a Parser reading from buf.
func NewParser(buf *tokenizer.Buffer, opts Options) *Parser {
	return &Parser{
		buf: buf,
		tok: tokenizer.NewTokenizer(buf, tokenizer.Options{
			Delimiter: opts.Delimiter,
			Quote:     opts.Quote,
			Escape:    opts.Escape,
			MaxRun:    buf.Size(),
		}),
		opts:  opts,
		width: -1,
	}
}

// Options returns the options currently in effect.
func (p *Parser) Options() Options {
	return p.opts
}

// SetSkipEmptyLines changes empty-line handling for subsequent records.
func (p *Parser) SetSkipEmptyLines(skip bool) {
	p.opts.SkipEmptyLines = skip
}

// SetSupportsMultiline changes line-break handling in quoted fields for subsequent records.
func (p *Parser) SetSupportsMultiline(multiline bool) {
	p.opts.SupportsMultiline = multiline
}

// Width returns the field count of the first record scanned, or -1 before it.
func (p *Parser) Width() int {
	return p.width
}

// FieldPos returns the line and column where field i of the most recently
// returned record started. It returns 0, 0 for an index out of range.
func (p *Parser) FieldPos(i int) (line, column int) {
	if i < 0 || i >= len(p.last) {
		return 0, 0
	}
	return p.last[i].Line, p.last[i].Column
}

// FieldPositions returns a copy of the field start positions of the most recently returned record.
func (p *Parser) FieldPositions() []Position {
	return append([]Position(nil), p.last...)
}

// InputOffset returns the number of bytes consumed so far.
func (p *Parser) InputOffset() int64 {
	return p.buf.Offset()
}

// Read scans the next record. The returned slice is newly allocated and never
// reused. Read returns io.EOF when the input is exhausted. Any other error is
// terminal: every later call returns it again.
func (p *Parser) Read() ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	record, err := p.readRecord()
	if err != nil {
		p.err = err
		return nil, err
	}
	if p.width < 0 {
		p.width = len(record)
	}
	return record, nil
}

// readRecord drives the state machine until a record ends.
func (p *Parser) readRecord() ([]string, error) {
	p.state = stateStartOfRecord
	p.fields = p.fields[:0]
	p.starts = p.starts[:0]
	p.empty = false
	p.resetField()

	for p.state != stateEndOfRecord {
		token, err := p.tok.Peek()
		if err != nil {
			return nil, err
		}
		if err := p.step(token); err != nil {
			return nil, err
		}
	}

	switch {
	case p.empty:
		n := p.width
		if n < 1 {
			n = 1
		}
		p.last = p.last[:0]
		for i := 0; i < n; i++ {
			p.last = append(p.last, Position{Offset: p.buf.Offset(), Line: p.recLine, Column: 1})
		}
		return make([]string, n), nil
	case len(p.fields) == 0:
		return nil, io.EOF
	}

	record := make([]string, len(p.fields))
	copy(record, p.fields)
	p.last = append(p.last[:0], p.starts...)
	return record, nil
}

// advance consumes the token that was just peeked.
func (p *Parser) advance() {
	p.tok.Advance()
}

// appendToken adds the characters of token to the current field.
func (p *Parser) appendToken(token *shapetokenizer.Token) {
	for _, r := range token.Value() {
		p.field.WriteRune(r)
	}
}

// beginField records where the next field starts.
func (p *Parser) beginField() {
	p.starts = append(p.starts, Position{
		Offset: p.buf.Offset(),
		Line:   p.buf.Line(),
		Column: p.buf.Column(),
	})
}

// emitField appends the current field value, trimmed per the trim mode.
func (p *Parser) emitField() {
	value := p.field.String()
	if (p.quoted && p.opts.Trim&TrimQuotedOnly != 0) || (!p.quoted && p.opts.Trim&TrimUnquotedOnly != 0) {
		value = strings.TrimFunc(value, p.isTrimmable)
	}
	p.fields = append(p.fields, value)
	p.resetField()
}

func (p *Parser) resetField() {
	p.field.Reset()
	p.quoted = false
}

func (p *Parser) isTrimmable(r rune) bool {
	return r != p.opts.Delimiter && tokenizer.IsWhitespace(r)
}

// fail builds a SyntaxError at the position of the next character.
func (p *Parser) fail(err error) error {
	return &SyntaxError{
		StartLine: p.recLine,
		Line:      p.buf.Line(),
		Column:    p.buf.Column(),
		Err:       err,
	}
}
