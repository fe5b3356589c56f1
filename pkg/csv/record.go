package csv

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is one scanned row: its field values plus the header table that was
// in effect when it was read. A Record owns its fields; reading further
// records never changes it.
type Record struct {
	fields      []string
	headers     *Headers
	defaultName string
}

// NewRecord returns a record over a copy of fields. headers may be nil.
func NewRecord(fields []string, headers *Headers) *Record {
	return &Record{
		fields:      append([]string(nil), fields...),
		headers:     headers,
		defaultName: DefaultReaderOptions().DefaultHeaderName,
	}
}

// Get gets the field value at the specified index.
// Index is 0-based.
func (r *Record) Get(index int) (string, error) {
	if index < 0 || index >= len(r.fields) {
		return "", fmt.Errorf("%w: field %d of %d", ErrIndexOutOfRange, index, len(r.fields))
	}
	return r.fields[index], nil
}

// GetByName gets the field value by header name.
//
// Example:
//
//	name, err := record.GetByName("name")
//	if errors.Is(err, csv.ErrHeaderNotFound) {
//	    // no column called "name"
//	}
func (r *Record) GetByName(name string) (string, error) {
	i, err := r.Ordinal(name)
	if err != nil {
		return "", err
	}
	return r.Get(i)
}

// Ordinal returns the index of the first column called name.
func (r *Record) Ordinal(name string) (int, error) {
	if name == "" {
		return -1, ErrMissingArgument
	}
	if r.headers == nil {
		return -1, ErrNoHeaders
	}
	i := r.headers.GetFieldIndex(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrHeaderNotFound, name)
	}
	return i, nil
}

// Name returns the header of column i, or a synthetic name when the record has no headers.
func (r *Record) Name(i int) (string, error) {
	if _, err := r.Get(i); err != nil {
		return "", err
	}
	if r.headers != nil {
		if name, err := r.headers.Get(i); err == nil {
			return name, nil
		}
	}
	return r.defaultName + strconv.Itoa(i), nil
}

// Headers returns the header table, or nil.
func (r *Record) Headers() *Headers {
	return r.headers
}

// Fields returns all field values in the record.
// This returns a copy of the fields slice.
func (r *Record) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Len returns the number of fields in the record.
func (r *Record) Len() int {
	return len(r.fields)
}

// ============================================================================
// Typed accessors
// ============================================================================

// convert runs parse on field i and wraps a failure with the field index.
func convert[T any](r *Record, i int, kind string, parse func(string) (T, error)) (T, error) {
	var zero T
	v, err := r.Get(i)
	if err != nil {
		return zero, err
	}
	out, err := parse(v)
	if err != nil {
		return zero, fmt.Errorf("csv: field %d: cannot convert %q to %s: %w", i, v, kind, err)
	}
	return out, nil
}

// String returns field i unchanged.
func (r *Record) String(i int) (string, error) {
	return r.Get(i)
}

// Bool returns field i as a bool. Integers are accepted (non-zero is true)
// before the boolean literals strconv.ParseBool knows.
func (r *Record) Bool(i int) (bool, error) {
	return convert(r, i, "bool", ParseBool)
}

// Byte returns field i as an unsigned 8-bit integer.
func (r *Record) Byte(i int) (byte, error) {
	return convert(r, i, "byte", func(v string) (byte, error) {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
		return byte(n), err
	})
}

// Char returns field i, which must hold exactly one character.
func (r *Record) Char(i int) (rune, error) {
	return convert(r, i, "char", ParseChar)
}

// Int16 returns field i as an int16.
func (r *Record) Int16(i int) (int16, error) {
	return convert(r, i, "int16", func(v string) (int16, error) {
		n, err := parseInt(v, 16)
		return int16(n), err
	})
}

// Int32 returns field i as an int32.
func (r *Record) Int32(i int) (int32, error) {
	return convert(r, i, "int32", func(v string) (int32, error) {
		n, err := parseInt(v, 32)
		return int32(n), err
	})
}

// Int64 returns field i as an int64.
func (r *Record) Int64(i int) (int64, error) {
	return convert(r, i, "int64", func(v string) (int64, error) {
		return parseInt(v, 64)
	})
}

// Float32 returns field i as a float32.
func (r *Record) Float32(i int) (float32, error) {
	return convert(r, i, "float32", func(v string) (float32, error) {
		f, err := parseFloat(v, 32)
		return float32(f), err
	})
}

// Float64 returns field i as a float64.
func (r *Record) Float64(i int) (float64, error) {
	return convert(r, i, "float64", func(v string) (float64, error) {
		return parseFloat(v, 64)
	})
}

// Decimal returns field i as an arbitrary-precision decimal.
func (r *Record) Decimal(i int) (decimal.Decimal, error) {
	return convert(r, i, "decimal", ParseDecimal)
}

// GUID returns field i as a UUID.
func (r *Record) GUID(i int) (uuid.UUID, error) {
	return convert(r, i, "guid", ParseGUID)
}

// DateTime returns field i as a time, trying each of DateTimeLayouts.
func (r *Record) DateTime(i int) (time.Time, error) {
	return convert(r, i, "datetime", ParseDateTime)
}

// Convert returns field i transformed by c.
func (r *Record) Convert(i int, c Converter) (any, error) {
	return convert(r, i, "value", c.Convert)
}

// IsNull reports whether field i is empty.
func (r *Record) IsNull(i int) (bool, error) {
	v, err := r.Get(i)
	if err != nil {
		return false, err
	}
	return v == "", nil
}

// Value returns field i as a string, or nil when it is empty.
func (r *Record) Value(i int) (any, error) {
	v, err := r.Get(i)
	if err != nil || v == "" {
		return nil, err
	}
	return v, nil
}

// Values returns every field as Value would.
func (r *Record) Values() []any {
	values := make([]any, len(r.fields))
	for i, v := range r.fields {
		if v != "" {
			values[i] = v
		}
	}
	return values
}

var stringType = reflect.TypeOf("")

// FieldType returns the Go type of field i, which is always string.
func (r *Record) FieldType(i int) (reflect.Type, error) {
	if _, err := r.Get(i); err != nil {
		return nil, err
	}
	return stringType, nil
}

// DataTypeName returns the name of the type of field i.
func (r *Record) DataTypeName(i int) (string, error) {
	t, err := r.FieldType(i)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// Chars copies length characters of field i, starting at character
// fieldOffset, into dst at dstOffset. It returns the number of characters copied.
func (r *Record) Chars(i int, fieldOffset int64, dst []rune, dstOffset, length int) (int, error) {
	src, err := r.span(i, fieldOffset, len(dst), dstOffset, length)
	if err != nil {
		return 0, err
	}
	return copy(dst[dstOffset:], src), nil
}

// Bytes is Chars for byte destinations. Every copied character must fit in a byte.
func (r *Record) Bytes(i int, fieldOffset int64, dst []byte, dstOffset, length int) (int, error) {
	src, err := r.span(i, fieldOffset, len(dst), dstOffset, length)
	if err != nil {
		return 0, err
	}
	for k, c := range src {
		if c > math.MaxUint8 {
			return 0, fmt.Errorf("csv: field %d: character %q at offset %d does not fit in a byte", i, c, fieldOffset+int64(k))
		}
	}
	for k, c := range src {
		dst[dstOffset+k] = byte(c)
	}
	return len(src), nil
}

// span validates a bulk copy request and returns the characters to copy.
func (r *Record) span(i int, fieldOffset int64, dstLen, dstOffset, length int) ([]rune, error) {
	v, err := r.Get(i)
	if err != nil {
		return nil, err
	}
	if fieldOffset < 0 || fieldOffset >= math.MaxInt32 {
		return nil, fmt.Errorf("%w: field offset %d", ErrIndexOutOfRange, fieldOffset)
	}
	if dstOffset < 0 || dstOffset > dstLen {
		return nil, fmt.Errorf("%w: destination offset %d of a destination of %d",
			ErrIndexOutOfRange, dstOffset, dstLen)
	}
	if length == 0 {
		return nil, nil
	}
	chars := []rune(v)
	switch {
	case length < 0:
		return nil, fmt.Errorf("%w: length %d", ErrIndexOutOfRange, length)
	case fieldOffset+int64(length) > int64(len(chars)):
		return nil, fmt.Errorf("%w: %d characters at offset %d of a %d character field",
			ErrIndexOutOfRange, length, fieldOffset, len(chars))
	case dstOffset+length > dstLen:
		return nil, fmt.Errorf("%w: %d characters at offset %d of a destination of %d",
			ErrIndexOutOfRange, length, dstOffset, dstLen)
	}
	return chars[fieldOffset : fieldOffset+int64(length)], nil
}
