package csv_test

import (
	"strings"
	"testing"

	"github.com/shapestone/shape-csvreader/pkg/csv"
)

func TestSniffer_DetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{
			name:   "decimal commas under semicolons",
			sample: "sku;qty;price\nA-1;2;9,50\nB-7;1;12,00\n",
			want:   ';',
		},
		{
			name:   "tab export with spaces in values",
			sample: "name\tcity\nAnn Lee\tNew York\nBo Chan\tSan Jose\n",
			want:   '\t',
		},
		{
			name:   "pipes inside quotes are data",
			sample: "\"a|b|c|d\",x|y\n1,2\n",
			want:   ',',
		},
		{
			name:   "consistent width beats more fields",
			sample: "a;b,c,d\n1;2,3\n",
			want:   ';',
		},
		{
			name:   "tie keeps the earlier candidate",
			sample: "a,b;c\n",
			want:   ',',
		},
		{
			name:   "quoted line break does not split the record",
			sample: "note|id\n\"line 1\nline 2\"|7\n",
			want:   '|',
		},
		{
			name:   "comment lines are skipped",
			sample: "# exported 2024\nx;y\n1;2\n",
			want:   ';',
		},
		{
			name:   "bare quote tolerated while sniffing",
			sample: "name,comment\nAnn,said \"hi\"\n",
			want:   ',',
		},
		{
			name:   "nothing to go on",
			sample: "",
			want:   ',',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csv.NewSniffer(tt.sample).DetectDelimiter(); got != tt.want {
				t.Errorf("DetectDelimiter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSniffer_HasHeader(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   bool
	}{
		{"identifiers over codes", "sku,qty\nA1,3\nB2,4\n", true},
		{"numbers in the first record", "10,20\n30,40\n", false},
		{"emails and dates in the first record", "ann@example.com,2024-03-01\nbob@example.com,2024-03-02\n", false},
		{"quoted Title Case header", "\"Unit Price\",\"Item Name\"\n9.5,Tea\n", true},
		{"padded header cells", " id , name \n1,Ann\n", true},
		{"pipe delimited", "id|full_name\n1|Ann\n", true},
		{"as many data as header hints", "2023-12-31,closed\n2024-01-01,open\n", false},
		{"one record only", "name,city\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csv.NewSniffer(tt.sample).HasHeader(); got != tt.want {
				t.Errorf("HasHeader() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSniffer_CallOrder tests that asking for the header first gives the same dialect.
func TestSniffer_CallOrder(t *testing.T) {
	sample := "id|full_name\n1|Ann\n2|Bob\n"

	a := csv.NewSniffer(sample)
	header := a.HasHeader()
	delim := a.DetectDelimiter()

	b := csv.NewSniffer(sample)
	if got := b.DetectDelimiter(); got != delim || delim != '|' {
		t.Errorf("DetectDelimiter() = %q and %q, want '|'", got, delim)
	}
	if got := b.HasHeader(); got != header || !header {
		t.Errorf("HasHeader() = %v and %v, want true", got, header)
	}
}

func TestSniffer_Options(t *testing.T) {
	sample := "id;name;joined\n1;Ann;2024-01-15\n2;Bob;2023-06-30\n"
	opts := csv.NewSniffer(sample).Options()

	if opts.Delimiter != ';' {
		t.Errorf("Options().Delimiter = %q, want ';'", opts.Delimiter)
	}
	if !opts.HasHeaders {
		t.Error("Options().HasHeaders = false, want true")
	}
	if opts.LazyQuotes {
		t.Error("Options().LazyQuotes = true, want the reader default")
	}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Options().Validate() = %v", err)
	}

	rd, err := csv.NewReaderWithOptions(strings.NewReader(sample), opts)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := rd.Read()
	if err != nil {
		t.Fatal(err)
	}
	if name, _ := rec.GetByName("name"); name != "Ann" {
		t.Errorf("GetByName(name) = %q, want Ann", name)
	}
	if joined, err := rec.DateTime(2); err != nil || joined.Year() != 2024 {
		t.Errorf("DateTime(2) = %v, %v", joined, err)
	}
}
