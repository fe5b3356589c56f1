package csv_test

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	shapecsv "github.com/shapestone/shape-csvreader/pkg/csv"
)

// Benchmark data is generated once and reused across all benchmarks
var (
	benchOnce  sync.Once
	mediumCSV  string
	largeCSV   string
	quotedCSV  string
	benchSizes = []int{64, 4096, 65536}
)

func loadBenchmarkData() {
	benchOnce.Do(func() {
		mediumCSV = generateCSV(1000, false)
		largeCSV = generateCSV(20000, false)
		quotedCSV = generateCSV(5000, true)
	})
}

// generateCSV builds an employee table with a header row.
func generateCSV(rows int, quoted bool) string {
	var sb strings.Builder
	sb.WriteString("id,first_name,last_name,email,department,salary,active,hire_date,manager_id,notes\n")
	for i := 0; i < rows; i++ {
		notes := "none"
		if quoted {
			notes = fmt.Sprintf("\"Line one, with comma\nLine \"\"two\"\" of %d\"", i)
		}
		fmt.Fprintf(&sb, "%d,First%d,Last%d,user%d@example.com,Dept%d,%d.50,%t,2024-01-%02d,%d,%s\n",
			i, i, i, i, i%7, 40000+i, i%2 == 0, i%28+1, i/10, notes)
	}
	return sb.String()
}

// ================================
// Reader Benchmarks
// ================================

func benchmarkReader(b *testing.B, data string, opts ...shapecsv.Option) {
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reader, err := shapecsv.NewReader(strings.NewReader(data), true, opts...)
		if err != nil {
			b.Fatal(err)
		}
		for {
			_, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}

// BenchmarkReader_Medium benchmarks record-by-record reading.
func BenchmarkReader_Medium(b *testing.B) {
	loadBenchmarkData()
	benchmarkReader(b, mediumCSV)
}

// BenchmarkReader_Large benchmarks record-by-record reading.
func BenchmarkReader_Large(b *testing.B) {
	loadBenchmarkData()
	benchmarkReader(b, largeCSV)
}

// BenchmarkReader_QuotedFields benchmarks multiline quoted fields with escapes.
func BenchmarkReader_QuotedFields(b *testing.B) {
	loadBenchmarkData()
	benchmarkReader(b, quotedCSV)
}

// BenchmarkReader_BufferSizes shows the effect of the refill size.
func BenchmarkReader_BufferSizes(b *testing.B) {
	loadBenchmarkData()
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("buffer=%d", size), func(b *testing.B) {
			benchmarkReader(b, mediumCSV, shapecsv.WithBufferSize(size))
		})
	}
}

// BenchmarkEncodingCSV_Reader_Large benchmarks encoding/csv streaming.
func BenchmarkEncodingCSV_Reader_Large(b *testing.B) {
	loadBenchmarkData()

	b.SetBytes(int64(len(largeCSV)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reader := csv.NewReader(strings.NewReader(largeCSV))
		for {
			_, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}

// ================================
// Streaming and AST Benchmarks
// ================================

// BenchmarkScanner_Large benchmarks the Scan/Record loop with name lookups.
func BenchmarkScanner_Large(b *testing.B) {
	loadBenchmarkData()

	b.SetBytes(int64(len(largeCSV)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scanner := shapecsv.NewScanner(strings.NewReader(largeCSV)).SetHasHeaders(true)
		for scanner.Scan() {
			if _, err := scanner.Record().GetByName("salary"); err != nil {
				b.Fatal(err)
			}
		}
		if err := scanner.Err(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseReader_Medium benchmarks building the AST.
func BenchmarkParseReader_Medium(b *testing.B) {
	loadBenchmarkData()

	b.SetBytes(int64(len(mediumCSV)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := shapecsv.ParseReader(strings.NewReader(mediumCSV)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRecord_TypedAccess benchmarks typed accessors on one record.
func BenchmarkRecord_TypedAccess(b *testing.B) {
	rec := shapecsv.NewRecord(
		[]string{"42", "First", "Last", "a@b.c", "Dept", "40000.50", "true", "2024-01-15", "4", "none"},
		nil,
	)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rec.Int64(0); err != nil {
			b.Fatal(err)
		}
		if _, err := rec.Decimal(5); err != nil {
			b.Fatal(err)
		}
		if _, err := rec.Bool(6); err != nil {
			b.Fatal(err)
		}
		if _, err := rec.DateTime(7); err != nil {
			b.Fatal(err)
		}
	}
}
