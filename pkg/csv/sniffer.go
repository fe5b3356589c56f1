package csv

import (
	"regexp"
	"strconv"
	"strings"
)

// sniffRecords bounds how many records of a sample are examined.
const sniffRecords = 20

// SniffDelimiters are the delimiter candidates tried by a Sniffer, in order of preference.
var SniffDelimiters = []rune{',', '\t', ';', '|'}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),      // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),     // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
)

// Sniffer detects the dialect of a CSV sample: its delimiter and whether the
// first record is a header. The sample is scanned with the streaming reader,
// so quoted delimiters and multiline fields are handled like real input.
type Sniffer struct {
	sample    string
	delimiter rune
	hasHeader bool
	analyzed  bool
}

// NewSniffer creates a new Sniffer with a sample of CSV data.
// For best results, provide at least 2-3 lines of data.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.delimiter = s.detectDelimiter()
	s.hasHeader = s.detectHeader()
	s.analyzed = true
}

// DetectDelimiter returns the detected field delimiter, ',' when nothing fits.
func (s *Sniffer) DetectDelimiter() rune {
	s.analyze()
	return s.delimiter
}

// HasHeader returns true if the first record appears to be a header.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

// Options returns the default reader options adjusted to the detected dialect.
func (s *Sniffer) Options() ReaderOptions {
	opts := DefaultReaderOptions()
	opts.Delimiter = s.DetectDelimiter()
	opts.HasHeaders = s.HasHeader()
	return opts
}

// scan reads the leading records of the sample with delim. A malformed or
// truncated tail ends the scan without error.
func (s *Sniffer) scan(delim rune) [][]string {
	rd, err := NewReader(strings.NewReader(s.sample), false, WithDelimiter(delim), WithLazyQuotes(true))
	if err != nil {
		return nil
	}
	var records [][]string
	for rec, err := range rd.All() {
		if err != nil {
			break
		}
		records = append(records, rec.Fields())
		if len(records) == sniffRecords {
			break
		}
	}
	return records
}

// detectDelimiter scores each candidate by the delimiters per record in the
// first record, with a bonus when every record has the same width.
func (s *Sniffer) detectDelimiter() rune {
	best, bestScore := ',', 0
	for _, delim := range SniffDelimiters {
		records := s.scan(delim)
		if len(records) == 0 {
			continue
		}

		width := len(records[0])
		score := width - 1
		consistent := true
		for _, rec := range records[1:] {
			if len(rec) != width {
				consistent = false
				break
			}
		}
		if consistent {
			score *= 10
		}
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// detectHeader compares how header-like and how data-like the first record is.
func (s *Sniffer) detectHeader() bool {
	records := s.scan(s.delimiter)
	if len(records) < 2 {
		return false
	}

	headerScore, dataScore := 0, 0
	for _, field := range records[0] {
		field = strings.TrimSpace(field)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
}

func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isLikelyData reports numbers, dates and email-like values.
func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	_, err := ParseDateTime(s)
	return err == nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
