package csv

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HeaderConverter rewrites a header name, for example to build output keys.
type HeaderConverter func(string) string

// LowercaseHeader maps a header to lower case.
func LowercaseHeader(s string) string {
	return cases.Lower(language.Und).String(s)
}

// UppercaseHeader maps a header to upper case, with full Unicode mappings ("ß" becomes "SS").
func UppercaseHeader(s string) string {
	return cases.Upper(language.Und).String(s)
}

// SnakeCaseHeader joins the words of a header with underscores, in lower case.
// Words break at spaces, dashes, dots and underscores and where the case
// changes. Acronyms stay whole: "Order ID" and "orderID" both give "order_id".
func SnakeCaseHeader(s string) string {
	var words []string
	for _, part := range strings.FieldsFunc(s, isWordBreak) {
		words = append(words, splitCase(part)...)
	}
	return LowercaseHeader(strings.Join(words, "_"))
}

func isWordBreak(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

// splitCase splits "customerName" into "customer", "Name" and "HTTPStatus" into "HTTP", "Status".
func splitCase(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		prev := runes[i-1]
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

// ColumnSelector picks record fields by header name or by position.
// The zero value selects every field.
type ColumnSelector struct {
	// Names selects fields by resolved header name (see Record.Name).
	Names []string
	// Indexes selects fields by 0-based position.
	Indexes []int
}

// Includes reports whether the field at index, called name, is selected.
func (c ColumnSelector) Includes(name string, index int) bool {
	if len(c.Names) == 0 && len(c.Indexes) == 0 {
		return true
	}
	return slices.Contains(c.Names, name) || slices.Contains(c.Indexes, index)
}

// Select returns the positions of the selected fields of rec, in record order.
func (c ColumnSelector) Select(rec *Record) []int {
	var selected []int
	for i := 0; i < rec.Len(); i++ {
		name, err := rec.Name(i)
		if err == nil && c.Includes(name, i) {
			selected = append(selected, i)
		}
	}
	return selected
}
