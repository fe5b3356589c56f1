// Package csv provides error types for CSV reading.
package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csvreader/internal/parser"
)

// Error kinds. Every error returned by this package matches one of these with errors.Is,
// except errors reported by the underlying io.Reader, which are returned unchanged.
var (
	// ErrNilReader indicates a nil input source.
	ErrNilReader = errors.New("csv: nil reader")

	// ErrInvalidConfiguration indicates invalid reader options.
	ErrInvalidConfiguration = errors.New("csv: invalid configuration")

	// ErrIndexOutOfRange indicates a field index or offset outside the record.
	ErrIndexOutOfRange = errors.New("csv: index out of range")

	// ErrMissingArgument indicates an empty header name lookup.
	ErrMissingArgument = errors.New("csv: missing argument")

	// ErrNoHeaders indicates a name lookup on a reader without headers.
	ErrNoHeaders = errors.New("csv: no headers")

	// ErrHeaderNotFound indicates a name that no header carries.
	ErrHeaderNotFound = errors.New("csv: header not found")

	// ErrMalformedInput indicates input that violates the configured quoting rules.
	ErrMalformedInput = errors.New("csv: malformed input")

	// ErrClosed indicates an operation on a closed reader.
	ErrClosed = errors.New("csv: reader closed")
)

// Quoting errors carried by ParseError.Err.
var (
	// ErrBareQuote indicates a quote inside an unquoted field.
	ErrBareQuote = parser.ErrBareQuote

	// ErrQuote indicates data after the closing quote of a quoted field.
	ErrQuote = parser.ErrQuote

	// ErrLineBreakInQuotes indicates a line break inside a quoted field while multiline support is off.
	ErrLineBreakInQuotes = parser.ErrLineBreakInQuotes

	// ErrUnterminatedQuote indicates a quoted field still open at the end of input.
	ErrUnterminatedQuote = parser.ErrUnterminatedQuote
)

// ParseError represents a parsing error with position information.
// It provides detailed context about where the error occurred in the CSV data.
type ParseError struct {
	// StartLine is the line where parsing started for this record (1-indexed).
	StartLine int
	// Line is the current line where the error occurred (1-indexed).
	Line int
	// Column is the column where the error occurred (1-indexed).
	Column int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedInput. Every ParseError is one.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}

// Unwrap returns ErrInvalidConfiguration.
func (e *OptionsError) Unwrap() error {
	return ErrInvalidConfiguration
}

// fromSyntaxError converts a scanner error into the package error type.
func fromSyntaxError(err error) error {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return &ParseError{
			StartLine: se.StartLine,
			Line:      se.Line,
			Column:    se.Column,
			Err:       se.Err,
		}
	}
	return err
}
