// Package tokenizer provides CSV tokenization over a buffered character
// stream, using Shape's tokenizer framework.
package tokenizer

import "unicode"

// Token kinds for CSV input.
//
// The tokenizer only splits characters into kinds. The parser decides what a
// kind means in context (a delimiter inside a quoted field is data, for example).
const (
	// Structural tokens
	TokenDelimiter = "Delimiter" // field separator
	TokenQuote     = "Quote"     // quote character
	TokenEscape    = "Escape"    // escape character, when different from the quote
	TokenNewline   = "Newline"   // \r\n, \r or \n

	// Content tokens
	TokenWhitespace = "Whitespace" // run of space, tab or Unicode space separators
	TokenData       = "Data"       // run of anything else
)

// IsWhitespace reports whether r is trimmable whitespace: space and tab in the
// Latin-1 range, the Unicode space separators above it.
func IsWhitespace(r rune) bool {
	if r <= 0xff {
		return r == ' ' || r == '\t'
	}
	return unicode.Is(unicode.Zs, r)
}
