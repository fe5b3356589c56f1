package csv

import (
	"unicode/utf8"

	"github.com/shapestone/shape-csvreader/internal/parser"
	"github.com/shapestone/shape-csvreader/internal/tokenizer"
)

// TrimMode selects which field values have leading and trailing whitespace removed.
type TrimMode = parser.TrimMode

// Trim modes.
const (
	TrimNone         = parser.TrimNone
	TrimUnquotedOnly = parser.TrimUnquotedOnly
	TrimQuotedOnly   = parser.TrimQuotedOnly
	TrimAll          = parser.TrimAll
)

// DefaultBufferSize is the number of bytes read from the source per refill.
const DefaultBufferSize = tokenizer.DefaultBufferSize

// ReaderOptions configures CSV reading behavior.
type ReaderOptions struct {
	// HasHeaders treats the first record as column names.
	// Default: false
	HasHeaders bool

	// Delimiter is the field separator. It may be '\r' or '\n', in which case
	// that character no longer ends records.
	// Default: ','
	Delimiter rune

	// Quote starts and ends quoted fields. 0 disables quoting.
	// Default: '"'
	Quote rune

	// Escape, inside a quoted field, makes the following quote or escape literal.
	// When equal to Quote, a doubled quote is a literal quote. 0 disables escaping.
	// Default: '"'
	Escape rune

	// Comment, if not 0, is the comment character. Lines beginning with it are ignored.
	// Default: '#'
	Comment rune

	// Trim selects which values are trimmed.
	// Default: TrimUnquotedOnly
	Trim TrimMode

	// BufferSize is the number of bytes read from the source per refill. Must be at least 1.
	// Default: DefaultBufferSize
	BufferSize int

	// SupportsMultiline keeps line breaks inside quoted fields. When false such
	// a line break is malformed input.
	// Default: true
	SupportsMultiline bool

	// SkipEmptyLines drops lines with no characters. When false an empty line
	// yields a record of empty fields.
	// Default: true
	SkipEmptyLines bool

	// LazyQuotes accepts a quote inside an unquoted field as data.
	// Default: false
	LazyQuotes bool

	// DefaultHeaderName prefixes the synthetic names given to blank headers
	// and to columns of readers without headers.
	// Default: "Column"
	DefaultHeaderName string
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Delimiter:         ',',
		Quote:             '"',
		Escape:            '"',
		Comment:           '#',
		Trim:              TrimUnquotedOnly,
		BufferSize:        DefaultBufferSize,
		SupportsMultiline: true,
		SkipEmptyLines:    true,
		DefaultHeaderName: "Column",
	}
}

// Option customizes ReaderOptions.
type Option func(*ReaderOptions)

// WithHasHeaders sets whether the first record holds column names.
func WithHasHeaders(v bool) Option {
	return func(o *ReaderOptions) { o.HasHeaders = v }
}

// WithDelimiter sets the field separator.
func WithDelimiter(r rune) Option {
	return func(o *ReaderOptions) { o.Delimiter = r }
}

// WithQuote sets the quote character. 0 disables quoting.
func WithQuote(r rune) Option {
	return func(o *ReaderOptions) { o.Quote = r }
}

// WithEscape sets the escape character. 0 disables escaping.
func WithEscape(r rune) Option {
	return func(o *ReaderOptions) { o.Escape = r }
}

// WithComment sets the comment character. 0 disables comments.
func WithComment(r rune) Option {
	return func(o *ReaderOptions) { o.Comment = r }
}

// WithTrim sets the trim mode.
func WithTrim(mode TrimMode) Option {
	return func(o *ReaderOptions) { o.Trim = mode }
}

// WithBufferSize sets the refill size in bytes.
func WithBufferSize(n int) Option {
	return func(o *ReaderOptions) { o.BufferSize = n }
}

// WithSupportsMultiline sets whether quoted fields may span lines.
func WithSupportsMultiline(v bool) Option {
	return func(o *ReaderOptions) { o.SupportsMultiline = v }
}

// WithSkipEmptyLines sets whether empty lines are dropped.
func WithSkipEmptyLines(v bool) Option {
	return func(o *ReaderOptions) { o.SkipEmptyLines = v }
}

// WithLazyQuotes sets whether bare quotes in unquoted fields are accepted.
func WithLazyQuotes(v bool) Option {
	return func(o *ReaderOptions) { o.LazyQuotes = v }
}

// WithDefaultHeaderName sets the prefix of synthetic header names.
func WithDefaultHeaderName(name string) Option {
	return func(o *ReaderOptions) { o.DefaultHeaderName = name }
}

// validChar reports whether r can be used as a control character.
func validChar(r rune) bool {
	return r != 0 && utf8.ValidRune(r) && r != utf8.RuneError
}

func isLineBreak(r rune) bool {
	return r == '\r' || r == '\n'
}

// Validate checks if the options are valid.
// It returns an *OptionsError, which matches ErrInvalidConfiguration.
func (o ReaderOptions) Validate() error {
	if !validChar(o.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "invalid delimiter"}
	}
	if o.Quote != 0 {
		if !validChar(o.Quote) || isLineBreak(o.Quote) {
			return &OptionsError{Field: "Quote", Message: "invalid quote character"}
		}
		if o.Quote == o.Delimiter {
			return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
		}
	}
	if o.Escape != 0 {
		if !validChar(o.Escape) || isLineBreak(o.Escape) {
			return &OptionsError{Field: "Escape", Message: "invalid escape character"}
		}
		if o.Escape == o.Delimiter {
			return &OptionsError{Field: "Escape", Message: "escape character same as delimiter"}
		}
	}
	if o.Comment != 0 {
		if !validChar(o.Comment) || isLineBreak(o.Comment) {
			return &OptionsError{Field: "Comment", Message: "invalid comment character"}
		}
		if o.Comment == o.Delimiter {
			return &OptionsError{Field: "Comment", Message: "comment character same as delimiter"}
		}
		if o.Comment == o.Quote {
			return &OptionsError{Field: "Comment", Message: "comment character same as quote"}
		}
	}
	if o.Trim > TrimAll {
		return &OptionsError{Field: "Trim", Message: "unknown trim mode " + o.Trim.String()}
	}
	if o.BufferSize < 1 {
		return &OptionsError{Field: "BufferSize", Message: "must be at least 1"}
	}
	return nil
}

// scannerOptions returns the scanner subset of the options.
func (o ReaderOptions) scannerOptions() parser.Options {
	return parser.Options{
		Delimiter:         o.Delimiter,
		Quote:             o.Quote,
		Escape:            o.Escape,
		Comment:           o.Comment,
		Trim:              o.Trim,
		SupportsMultiline: o.SupportsMultiline,
		SkipEmptyLines:    o.SkipEmptyLines,
		LazyQuotes:        o.LazyQuotes,
	}
}
