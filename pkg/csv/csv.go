// Package csv provides a streaming CSV reader.
//
// Records are scanned one at a time from any io.Reader through a fixed-size
// refill buffer. The records produced never depend on the buffer size.
//
// The dialect is configurable: delimiter, quote, escape and comment
// characters, whitespace trimming of quoted and unquoted fields, quoted
// fields spanning lines, and empty-line skipping. Records can be addressed
// by position or, when the first record is a header, by column name, and
// offer typed accessors (Bool, Int32, Decimal, GUID, DateTime and so on).
//
// # Thread Safety
//
// A Reader is not safe for concurrent use. Records returned by a Reader are
// immutable and may be shared freely. The package-level functions create
// their own Reader and are safe for concurrent use.
//
// # Reading APIs
//
//   - NewReader / NewReaderWithOptions - record at a time, with headers and typed access
//   - Reader.All - the same as a range-over-func iterator
//   - NewScanner - bufio.Scanner-style loop
//   - ParseReader / Parse - the whole input as a shape-core AST
//
// # Example usage with Reader:
//
//	r, err := csv.NewReader(strings.NewReader("user_id,name\r\n1,Bruce"), true)
//	if err != nil {
//	    // handle error
//	}
//	for rec, err := range r.All() {
//	    if err != nil {
//	        // handle error
//	    }
//	    name, _ := rec.GetByName("name") // "Bruce"
//	}
//
// # Example usage with ParseReader:
//
//	node, err := csv.ParseReader(file, csv.WithDelimiter(';'))
//	if err != nil {
//	    // handle error
//	}
//	// node is now a *ast.ArrayDataNode representing the CSV data
package csv

import (
	"io"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
)

// ParseReader parses CSV from an io.Reader into an AST.
//
// Returns an ast.ArrayDataNode representing the parsed CSV:
//   - *ast.ArrayDataNode for the file (array of records)
//   - Each record is an *ast.ArrayDataNode of fields
//   - Each field is an *ast.LiteralNode containing a string value,
//     positioned at the line and column where the field started
//
// With WithHasHeaders(true) the header record is the first element.
func ParseReader(r io.Reader, opts ...Option) (ast.SchemaNode, error) {
	rd, err := NewReader(r, false, opts...)
	if err != nil {
		return nil, err
	}

	var records []ast.SchemaNode
	if h := rd.Headers(); h != nil && h.Len() > 0 {
		records = append(records, recordNode(h.raw, toASTPositions(rd.headerPos)))
	}
	for rec, err := range rd.All() {
		if err != nil {
			return nil, err
		}
		records = append(records, recordNode(rec.fields, toASTPositions(rd.fieldPositions())))
	}
	if records == nil {
		records = []ast.SchemaNode{}
	}
	return ast.NewArrayDataNode(records, ast.NewPosition(0, 1, 1)), nil
}

// Parse parses CSV from a string into an AST. See ParseReader.
func Parse(input string, opts ...Option) (ast.SchemaNode, error) {
	return ParseReader(strings.NewReader(input), opts...)
}

// Validate checks if the input string is valid CSV under the given options.
//
//	if err := csv.Validate(input); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(input string, opts ...Option) error {
	return ValidateReader(strings.NewReader(input), opts...)
}

// ValidateReader checks if the input from an io.Reader is valid CSV.
// Records are scanned and discarded, so memory use stays constant.
func ValidateReader(r io.Reader, opts ...Option) error {
	rd, err := NewReader(r, false, opts...)
	if err != nil {
		return err
	}
	for _, err := range rd.All() {
		if err != nil {
			return err
		}
	}
	return nil
}

// Format returns the format identifier for this parser.
func Format() string {
	return "CSV"
}
