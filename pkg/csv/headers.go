package csv

import (
	"strconv"
	"strings"

	"github.com/shapestone/shape-csvreader/internal/tokenizer"
)

// Headers maps column names to field positions. It is immutable once built
// and shared by every record read after it.
type Headers struct {
	raw   []string
	names []string
}

// NewHeaders builds a header table from the values of a header record.
// A blank or whitespace-only value at position i is named defaultName
// followed by i, so ",a" with "Column" gives "Column0", "a".
func NewHeaders(values []string, defaultName string) *Headers {
	names := make([]string, len(values))
	for i, v := range values {
		if strings.TrimFunc(v, tokenizer.IsWhitespace) == "" {
			v = defaultName + strconv.Itoa(i)
		}
		names[i] = v
	}
	return &Headers{raw: append([]string(nil), values...), names: names}
}

// rename builds a new table from the same header record with another default name.
func (h *Headers) rename(defaultName string) *Headers {
	if h == nil {
		return nil
	}
	return NewHeaders(h.raw, defaultName)
}

// GetFieldIndex returns the position of the first header equal to name, or -1.
// Duplicate names are allowed; later ones are only reachable by position.
func (h *Headers) GetFieldIndex(name string) int {
	if h == nil {
		return -1
	}
	for i, n := range h.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Get returns the header at position i.
func (h *Headers) Get(i int) (string, error) {
	if h == nil || i < 0 || i >= len(h.names) {
		return "", ErrIndexOutOfRange
	}
	return h.names[i], nil
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Names returns a copy of the header names.
func (h *Headers) Names() []string {
	if h == nil {
		return []string{}
	}
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}
