// Package csv provides type converters for CSV field values.
package csv

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Converter is the interface for type converters.
// Converters transform string field values into typed Go values.
type Converter interface {
	// Convert transforms a string value into the target type.
	// Returns the converted value and any error encountered.
	Convert(value string) (any, error)
}

// ConverterFunc is a function adapter for the Converter interface.
type ConverterFunc func(string) (any, error)

// Convert implements Converter.
func (f ConverterFunc) Convert(value string) (any, error) {
	return f(value)
}

// DateTimeLayouts are the layouts ParseDateTime tries, in order.
var DateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseBool parses an integer (non-zero is true) or, failing that, a boolean literal.
func ParseBool(value string) (bool, error) {
	v := strings.TrimSpace(value)
	if n, err := strconv.ParseInt(v, 10, 32); err == nil {
		return n != 0, nil
	}
	return strconv.ParseBool(v)
}

// ParseChar parses a value holding exactly one character.
func ParseChar(value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%q is not a single character", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

// ParseDateTime parses value with the first matching layout in DateTimeLayouts.
// Values without a zone are read as UTC.
func ParseDateTime(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range DateTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date/time", value)
}

// ParseDecimal parses an arbitrary-precision decimal number.
func ParseDecimal(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(value))
}

// ParseGUID parses a GUID in any of the forms uuid.Parse accepts.
func ParseGUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

func parseInt(value string, bits int) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, bits)
}

func parseFloat(value string, bits int) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), bits)
}

// ConverterRegistry manages named converters.
type ConverterRegistry struct {
	converters map[string]Converter
}

// NewConverterRegistry creates a new converter registry with built-in converters.
func NewConverterRegistry() *ConverterRegistry {
	r := &ConverterRegistry{
		converters: make(map[string]Converter),
	}
	r.Register("string", ConverterFunc(func(v string) (any, error) { return v, nil }))
	r.Register("bool", ConverterFunc(func(v string) (any, error) { return ParseBool(v) }))
	r.Register("byte", ConverterFunc(func(v string) (any, error) {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
		return byte(n), err
	}))
	r.Register("char", ConverterFunc(func(v string) (any, error) { return ParseChar(v) }))
	r.Register("int16", ConverterFunc(func(v string) (any, error) {
		n, err := parseInt(v, 16)
		return int16(n), err
	}))
	r.Register("int32", ConverterFunc(func(v string) (any, error) {
		n, err := parseInt(v, 32)
		return int32(n), err
	}))
	r.Register("int64", ConverterFunc(func(v string) (any, error) { return parseInt(v, 64) }))
	r.Register("float32", ConverterFunc(func(v string) (any, error) {
		f, err := parseFloat(v, 32)
		return float32(f), err
	}))
	r.Register("float64", ConverterFunc(func(v string) (any, error) { return parseFloat(v, 64) }))
	r.Register("decimal", ConverterFunc(func(v string) (any, error) { return ParseDecimal(v) }))
	r.Register("guid", ConverterFunc(func(v string) (any, error) { return ParseGUID(v) }))
	r.Register("datetime", ConverterFunc(func(v string) (any, error) { return ParseDateTime(v) }))
	return r
}

// Register adds a converter to the registry.
func (r *ConverterRegistry) Register(name string, conv Converter) {
	r.converters[name] = conv
}

// Get retrieves a converter by name.
func (r *ConverterRegistry) Get(name string) (Converter, bool) {
	conv, ok := r.converters[name]
	return conv, ok
}

// Names returns the registered converter names in sorted order.
func (r *ConverterRegistry) Names() []string {
	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
