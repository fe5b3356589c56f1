package tokenizer

import (
	"errors"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// ErrNoMatch is returned when no matcher accepts the next character.
var ErrNoMatch = errors.New("tokenizer: no token matches input")

// Options configures the tokenizer behavior.
type Options struct {
	// Delimiter is the field separator. Default: ','
	Delimiter rune
	// Quote is the quote character. 0 disables it. Default: '"'
	Quote rune
	// Escape is the escape character. 0, or a value equal to Quote, adds no token kind. Default: '"'
	Escape rune
	// MaxRun caps the characters in one Whitespace or Data token. 0 means no cap.
	MaxRun int
}

// DefaultOptions returns default tokenizer options.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Quote:     '"',
		Escape:    '"',
	}
}

// structural reports whether r always forms a token of its own.
func (o Options) structural(r rune) bool {
	return r == o.Delimiter ||
		(o.Quote != 0 && r == o.Quote) ||
		(o.Escape != 0 && r == o.Escape) ||
		r == '\r' || r == '\n'
}

// NewMatchers returns the CSV matchers in order of precedence:
//  1. Delimiter, so a '\t' or '\r' delimiter is never whitespace or a line break
//  2. Quote and escape
//  3. Newlines (CRLF before CR to match the longer sequence first)
//  4. Whitespace runs
//  5. Data runs (everything else)
func NewMatchers(opts Options) []shapetokenizer.Matcher {
	matchers := []shapetokenizer.Matcher{
		shapetokenizer.CharMatcherFunc(TokenDelimiter, opts.Delimiter),
	}
	if opts.Quote != 0 {
		matchers = append(matchers, shapetokenizer.CharMatcherFunc(TokenQuote, opts.Quote))
	}
	if opts.Escape != 0 && opts.Escape != opts.Quote {
		matchers = append(matchers, shapetokenizer.CharMatcherFunc(TokenEscape, opts.Escape))
	}
	if opts.Delimiter != '\n' && opts.Quote != '\n' && opts.Escape != '\n' {
		matchers = append(matchers, shapetokenizer.StringMatcherFunc(TokenNewline, "\r\n"))
	}
	return append(matchers,
		shapetokenizer.CharMatcherFunc(TokenNewline, '\r'),
		shapetokenizer.CharMatcherFunc(TokenNewline, '\n'),
		RunMatcher(TokenWhitespace, opts.MaxRun, func(r rune) bool {
			return !opts.structural(r) && IsWhitespace(r)
		}),
		RunMatcher(TokenData, opts.MaxRun, func(r rune) bool {
			return !opts.structural(r) && !IsWhitespace(r)
		}),
	)
}

// RunMatcher creates a matcher for a run of up to limit characters accepted
// by accept. A limit of 0 means no limit.
func RunMatcher(kind string, limit int, accept func(rune) bool) shapetokenizer.Matcher {
	return func(stream shapetokenizer.Stream) *shapetokenizer.Token {
		var value []rune
		for limit <= 0 || len(value) < limit {
			r, ok := stream.PeekChar()
			if !ok || !accept(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return shapetokenizer.NewToken(kind, value)
	}
}

// Tokenizer turns a stream into CSV tokens with one token of lookahead.
//
// Matchers run against a clone of the stream; the winning token is then
// consumed from the stream itself, as shape-core's Tokenizer does. The
// Tokenizer never skips whitespace, which is data in CSV.
type Tokenizer struct {
	stream   shapetokenizer.Stream
	scratch  shapetokenizer.Stream
	matchers []shapetokenizer.Matcher
	current  *shapetokenizer.Token
}

// NewTokenizer returns a Tokenizer reading from stream.
func NewTokenizer(stream shapetokenizer.Stream, opts Options) *Tokenizer {
	return &Tokenizer{
		stream:   stream,
		scratch:  stream.Clone(),
		matchers: NewMatchers(opts),
	}
}

// Stream returns the underlying stream. Its position is the start of the peeked token.
func (t *Tokenizer) Stream() shapetokenizer.Stream {
	return t.stream
}

// Peek returns the next token without consuming it. At the end of the
// stream it returns nil and the stream's read error, if it reports one.
func (t *Tokenizer) Peek() (*shapetokenizer.Token, error) {
	if t.current != nil {
		return t.current, nil
	}
	if t.stream.IsEos() {
		if s, ok := t.stream.(interface{ Err() error }); ok {
			return nil, s.Err()
		}
		return nil, nil
	}
	for _, matcher := range t.matchers {
		t.scratch.Match(t.stream)
		if token := matcher(t.scratch); token != nil {
			t.current = token
			return token, nil
		}
	}
	return nil, ErrNoMatch
}

// Advance consumes the token returned by the last Peek.
func (t *Tokenizer) Advance() {
	if t.current == nil {
		return
	}
	t.stream.MatchChars(t.current.Value())
	t.current = nil
}

// Next consumes and returns the next token.
func (t *Tokenizer) Next() (*shapetokenizer.Token, error) {
	token, err := t.Peek()
	if token != nil {
		t.Advance()
	}
	return token, err
}
