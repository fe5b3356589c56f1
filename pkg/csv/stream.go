package csv

import (
	"io"
)

// Scanner provides a streaming interface for reading CSV records one at a time.
// Records are scanned incrementally, so memory use does not grow with the input.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	scanner := csv.NewScanner(file).SetHasHeaders(true)
//	for scanner.Scan() {
//	    record := scanner.Record()
//	    name, _ := record.GetByName("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	src    io.Reader
	opts   []Option
	reader *Reader
	record *Record
	err    error
	done   bool
}

// NewScanner creates a new Scanner that reads CSV from the given io.Reader.
// By default, the scanner assumes no headers. Use SetHasHeaders(true) to treat
// the first row as headers.
//
// Example:
//
//	scanner := csv.NewScanner(reader, csv.WithDelimiter(';'))
func NewScanner(src io.Reader, opts ...Option) *Scanner {
	return &Scanner{src: src, opts: opts}
}

// SetHasHeaders sets whether the first row should be treated as headers.
// It has no effect once Scan has been called.
// Returns the Scanner for method chaining.
func (s *Scanner) SetHasHeaders(hasHeaders bool) *Scanner {
	if s.reader == nil {
		s.opts = append(s.opts, WithHasHeaders(hasHeaders))
	}
	return s
}

// Scan advances the scanner to the next record.
// It returns false when there are no more records or an error occurs.
// After Scan returns false, the Err method will return any error that occurred.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	if s.reader == nil {
		rd, err := NewReader(s.src, false, s.opts...)
		if err != nil {
			return s.stop(err)
		}
		s.reader = rd
	}

	rec, err := s.reader.Read()
	if err != nil {
		return s.stop(err)
	}
	s.record = rec
	return true
}

func (s *Scanner) stop(err error) bool {
	s.done = true
	s.record = nil
	if err != io.EOF {
		s.err = err
	}
	return false
}

// Record returns the current record.
// This should only be called after Scan() returns true; otherwise it returns an empty record.
func (s *Scanner) Record() *Record {
	if s.record == nil {
		return &Record{fields: []string{}}
	}
	return s.record
}

// Err returns the error, if any, that was encountered during scanning.
// It returns nil if no error occurred or at EOF.
func (s *Scanner) Err() error {
	return s.err
}

// Headers returns the column headers if SetHasHeaders(true) was called.
// Returns an empty slice if no headers were set.
// This is available after the first call to Scan().
func (s *Scanner) Headers() []string {
	if s.reader == nil {
		return []string{}
	}
	return s.reader.Headers().Names()
}

// Reader returns the underlying Reader, or nil before the first Scan.
func (s *Scanner) Reader() *Reader {
	return s.reader
}
