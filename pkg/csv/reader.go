package csv

import (
	"io"
	"iter"

	"github.com/shapestone/shape-csvreader/internal/parser"
	"github.com/shapestone/shape-csvreader/internal/tokenizer"
)

// Reader reads records from a CSV source one at a time.
//
// A Reader is forward-only and not safe for concurrent use. Records it
// returns are independent of it and may be kept across calls to Read.
//
// Example:
//
//	r, err := csv.NewReader(file, true)
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//
//	for {
//	    rec, err := r.Read()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    name, _ := rec.GetByName("name")
//	    fmt.Println(name)
//	}
type Reader struct {
	src     io.Reader
	opts    ReaderOptions
	parser  *parser.Parser
	headers *Headers

	headerPos []parser.Position
	pending   []string // first data record, scanned early by FieldCount
	index     int
	err       error
	closed    bool
}

// NewReader creates a Reader over r with default options modified by opts.
// When hasHeaders is true the first record is consumed before NewReader returns.
func NewReader(r io.Reader, hasHeaders bool, opts ...Option) (*Reader, error) {
	o := DefaultReaderOptions()
	o.HasHeaders = hasHeaders
	for _, opt := range opts {
		opt(&o)
	}
	return NewReaderWithOptions(r, o)
}

// NewReaderWithOptions creates a Reader over r with the given options.
func NewReaderWithOptions(r io.Reader, opts ReaderOptions) (*Reader, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	buf, err := tokenizer.NewBuffer(r, opts.BufferSize)
	if err != nil {
		return nil, &OptionsError{Field: "BufferSize", Message: err.Error()}
	}

	rd := &Reader{
		src:    r,
		opts:   opts,
		parser: parser.NewParser(buf, opts.scannerOptions()),
		index:  -1,
	}
	if opts.HasHeaders {
		values, err := rd.parser.Read()
		switch {
		case err == io.EOF:
			values = nil
		case err != nil:
			return nil, fromSyntaxError(err)
		}
		rd.headers = NewHeaders(values, opts.DefaultHeaderName)
		rd.headerPos = rd.parser.FieldPositions()
	}
	return rd, nil
}

// Read returns the next record. It returns io.EOF when the input is exhausted.
// A *ParseError (matching ErrMalformedInput) is terminal: later calls return it again.
func (r *Reader) Read() (*Record, error) {
	fields, err := r.next()
	if err != nil {
		return nil, err
	}
	r.index++
	return &Record{fields: fields, headers: r.headers, defaultName: r.opts.DefaultHeaderName}, nil
}

// next returns the fields of the next record, taking a pending one first.
func (r *Reader) next() ([]string, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.pending != nil {
		fields := r.pending
		r.pending = nil
		return fields, nil
	}
	fields, err := r.parser.Read()
	if err != nil {
		if err != io.EOF {
			r.err = fromSyntaxError(err)
			return nil, r.err
		}
		return nil, io.EOF
	}
	return fields, nil
}

// All returns an iterator over the remaining records. Iteration stops after
// the first error, which is yielded with a nil record. Like Read it is
// forward-only: a second pass over an exhausted Reader yields nothing.
//
// Example:
//
//	for rec, err := range r.All() {
//	    if err != nil {
//	        // handle error
//	    }
//	    fmt.Println(rec.Fields())
//	}
func (r *Reader) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := r.Read()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// CurrentRecordIndex returns the 0-based index of the last record returned by Read, or -1.
// The header record is not counted.
func (r *Reader) CurrentRecordIndex() int {
	return r.index
}

// FieldCount returns the number of fields of the first record scanned: the
// header record when there are headers, otherwise the first data record,
// which is scanned ahead if Read has not been called yet. An empty input
// has zero fields.
func (r *Reader) FieldCount() (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	if r.parser.Width() < 0 && r.err == nil && !r.opts.HasHeaders {
		fields, err := r.parser.Read()
		switch {
		case err == nil:
			r.pending = fields
		case err != io.EOF:
			r.err = fromSyntaxError(err)
		}
	}
	if r.err != nil {
		return 0, r.err
	}
	if w := r.parser.Width(); w > 0 {
		return w, nil
	}
	return 0, nil
}

// Options returns the options currently in effect.
func (r *Reader) Options() ReaderOptions {
	return r.opts
}

// Delimiter returns the field separator.
func (r *Reader) Delimiter() rune {
	return r.opts.Delimiter
}

// HasHeaders reports whether the first record was read as headers.
func (r *Reader) HasHeaders() bool {
	return r.opts.HasHeaders
}

// Headers returns the header table, or nil when the reader has no headers.
func (r *Reader) Headers() *Headers {
	return r.headers
}

// HeaderPos returns the line and column where header i started.
func (r *Reader) HeaderPos(i int) (line, column int) {
	if i < 0 || i >= len(r.headerPos) {
		return 0, 0
	}
	return r.headerPos[i].Line, r.headerPos[i].Column
}

// SupportsMultiline reports whether quoted fields may span lines.
func (r *Reader) SupportsMultiline() bool {
	return r.opts.SupportsMultiline
}

// SetSupportsMultiline changes multiline handling for records not yet scanned.
func (r *Reader) SetSupportsMultiline(v bool) error {
	if r.closed {
		return ErrClosed
	}
	r.opts.SupportsMultiline = v
	r.parser.SetSupportsMultiline(v)
	return nil
}

// SkipEmptyLines reports whether empty lines are dropped.
func (r *Reader) SkipEmptyLines() bool {
	return r.opts.SkipEmptyLines
}

// SetSkipEmptyLines changes empty-line handling for records not yet scanned.
func (r *Reader) SetSkipEmptyLines(v bool) error {
	if r.closed {
		return ErrClosed
	}
	r.opts.SkipEmptyLines = v
	r.parser.SetSkipEmptyLines(v)
	return nil
}

// DefaultHeaderName returns the prefix of synthetic header names.
func (r *Reader) DefaultHeaderName() string {
	return r.opts.DefaultHeaderName
}

// SetDefaultHeaderName changes the prefix of synthetic header names. Records
// read afterwards see headers renamed accordingly; earlier records keep theirs.
func (r *Reader) SetDefaultHeaderName(name string) error {
	if r.closed {
		return ErrClosed
	}
	r.opts.DefaultHeaderName = name
	r.headers = r.headers.rename(name)
	return nil
}

// FieldPos returns the line and column where field i of the most recently
// scanned record started. Lines and columns are 1-indexed; columns count characters.
func (r *Reader) FieldPos(i int) (line, column int) {
	if r.parser == nil {
		return 0, 0
	}
	return r.parser.FieldPos(i)
}

// fieldPositions returns every field position of the most recently scanned record.
func (r *Reader) fieldPositions() []parser.Position {
	if r.parser == nil {
		return nil
	}
	return r.parser.FieldPositions()
}

// InputOffset returns the number of bytes consumed from the source so far.
func (r *Reader) InputOffset() int64 {
	if r.parser == nil {
		return 0
	}
	return r.parser.InputOffset()
}

// Close releases the buffer and the header table and closes the source if it
// is an io.Closer. Afterwards Read, FieldCount, the setters and Close return
// ErrClosed, Headers returns nil and the position accessors return zeros.
// The configuration echoes (Options, Delimiter and the like) stay readable.
func (r *Reader) Close() error {
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	r.parser = nil
	r.pending = nil
	r.headers = nil
	r.headerPos = nil
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
