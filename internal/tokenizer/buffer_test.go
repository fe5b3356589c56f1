package tokenizer

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"
)

// drain reads every character from b.
func drain(t *testing.T, b *Buffer) string {
	t.Helper()
	var sb strings.Builder
	for {
		r, err := b.Next()
		if err == io.EOF {
			return sb.String()
		}
		if err != nil {
			t.Fatalf("Next() unexpected error: %v", err)
		}
		sb.WriteRune(r)
	}
}

// TestNewBuffer_InvalidSize tests that sizes below one are rejected.
func TestNewBuffer_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := NewBuffer(strings.NewReader("a"), size); !errors.Is(err, ErrInvalidBufferSize) {
			t.Errorf("NewBuffer(size=%d) error = %v, want ErrInvalidBufferSize", size, err)
		}
	}
}

// TestBuffer_SizeIndependence tests that every buffer size yields the same characters.
func TestBuffer_SizeIndependence(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"a,b\r\nc",
		"München,東京,🙂\n",
		strings.Repeat("xyz,", 100),
	}

	for _, input := range inputs {
		for size := 1; size <= 17; size++ {
			b, err := NewBuffer(strings.NewReader(input), size)
			if err != nil {
				t.Fatal(err)
			}
			if got := drain(t, b); got != input {
				t.Errorf("size %d: got %q, want %q", size, got, input)
			}
		}
	}
}

// TestBuffer_OneByteReader tests reassembly of multi-byte characters delivered byte by byte.
func TestBuffer_OneByteReader(t *testing.T) {
	input := "ä€😀"
	b, err := NewBuffer(iotest.OneByteReader(strings.NewReader(input)), 64)
	if err != nil {
		t.Fatal(err)
	}
	if got := drain(t, b); got != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

// TestBuffer_DataErrReader tests sources that return data together with io.EOF.
func TestBuffer_DataErrReader(t *testing.T) {
	input := "1,2\n3,4"
	b, err := NewBuffer(iotest.DataErrReader(strings.NewReader(input)), 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := drain(t, b); got != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

// TestBuffer_PeekDoesNotConsume tests that Peek is idempotent across refills.
func TestBuffer_PeekDoesNotConsume(t *testing.T) {
	b, _ := NewBuffer(strings.NewReader("\r\n"), 1)

	r, err := b.Next()
	if err != nil || r != '\r' {
		t.Fatalf("Next() = %q, %v", r, err)
	}
	for i := 0; i < 3; i++ {
		r, err = b.Peek()
		if err != nil || r != '\n' {
			t.Fatalf("Peek() = %q, %v, want '\\n'", r, err)
		}
	}
	if !b.MatchChars([]rune{'\n'}) {
		t.Fatal(`MatchChars("\n") = false`)
	}
	if !b.AtEnd() {
		t.Error("AtEnd() = false after consuming everything")
	}
	if _, err := b.Peek(); err != io.EOF {
		t.Errorf("Peek() at end error = %v, want io.EOF", err)
	}
}

// TestBuffer_InvalidUTF8 tests that invalid bytes decode as RuneError without stalling.
func TestBuffer_InvalidUTF8(t *testing.T) {
	b, _ := NewBuffer(strings.NewReader("a\xffb\xe2\x82"), 2)
	var got []rune
	for {
		r, err := b.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}
	want := []rune{'a', utf8.RuneError, 'b', utf8.RuneError, utf8.RuneError}
	if string(got) != string(want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestBuffer_ReadError tests that source errors are sticky and reported.
func TestBuffer_ReadError(t *testing.T) {
	boom := errors.New("boom")
	b, _ := NewBuffer(iotest.ErrReader(boom), 8)

	if _, err := b.Next(); !errors.Is(err, boom) {
		t.Fatalf("Next() error = %v, want boom", err)
	}
	if _, err := b.Peek(); !errors.Is(err, boom) {
		t.Errorf("Peek() error = %v, want boom", err)
	}
	if !errors.Is(b.Err(), boom) {
		t.Errorf("Err() = %v, want boom", b.Err())
	}
}

// TestBuffer_Position tests offset, line and column tracking.
func TestBuffer_Position(t *testing.T) {
	b, _ := NewBuffer(strings.NewReader("ab\r\ncd\re"), 2)
	for i := 0; i < 7; i++ {
		if _, err := b.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if b.Line() != 3 || b.Column() != 1 {
		t.Errorf("position = %d:%d, want 3:1", b.Line(), b.Column())
	}
	if b.Offset() != 7 {
		t.Errorf("Offset() = %d, want 7", b.Offset())
	}
	if b.Size() != 2 {
		t.Errorf("Size() = %d, want 2", b.Size())
	}
}

// TestBuffer_Refill tests the refill contract directly.
func TestBuffer_Refill(t *testing.T) {
	b, _ := NewBuffer(strings.NewReader("abcde"), 2)

	n, err := b.Refill()
	if n != 2 || err != nil {
		t.Fatalf("Refill() = %d, %v, want 2, nil", n, err)
	}
	n, _ = b.Refill()
	if n != 2 {
		t.Fatalf("second Refill() = %d, want 2", n)
	}
	n, _ = b.Refill()
	if n != 1 {
		t.Fatalf("third Refill() = %d, want 1", n)
	}
	n, err = b.Refill()
	if n != 0 || err != io.EOF {
		t.Fatalf("final Refill() = %d, %v, want 0, io.EOF", n, err)
	}
	if got := drain(t, b); got != "abcde" {
		t.Errorf("buffered content = %q, want %q", got, "abcde")
	}
}

// TestBuffer_CloneReadsAhead tests that a clone looks past refill boundaries without consuming.
func TestBuffer_CloneReadsAhead(t *testing.T) {
	b, _ := NewBuffer(strings.NewReader("ab\r\ncd"), 1)

	clone := b.Clone()
	for _, want := range "ab\r\nc" {
		r, ok := clone.NextChar()
		if !ok || r != want {
			t.Fatalf("clone NextChar() = %q, %v, want %q", r, ok, want)
		}
	}
	if clone.GetRow() != 2 || clone.GetColumn() != 2 || clone.GetOffset() != 5 {
		t.Errorf("clone position = %d:%d@%d, want 2:2@5", clone.GetRow(), clone.GetColumn(), clone.GetOffset())
	}
	if r, _ := b.PeekChar(); r != 'a' || b.Offset() != 0 {
		t.Fatalf("Buffer moved with its clone: Peek = %q, Offset = %d", r, b.Offset())
	}

	b.Match(clone)
	if b.Line() != 2 || b.Column() != 2 || b.Offset() != 5 {
		t.Errorf("after Match position = %d:%d@%d, want 2:2@5", b.Line(), b.Column(), b.Offset())
	}
	if r, ok := clone.NextChar(); !ok || r != 'd' {
		t.Fatalf("clone NextChar() = %q, %v, want 'd'", r, ok)
	}
	if !clone.IsEos() {
		t.Error("clone IsEos() = false at end of input")
	}
	if got := drain(t, b); got != "d" {
		t.Errorf("rest = %q, want %q", got, "d")
	}
}

// TestBuffer_MatchChars tests that a failed match leaves the stream untouched.
func TestBuffer_MatchChars(t *testing.T) {
	tests := []struct {
		name  string
		match string
		ok    bool
		rest  string
	}{
		{"prefix", "\r\n", true, "x"},
		{"mismatch on second", "\r\r", false, "\r\nx"},
		{"past end", "\r\nxy", false, "\r\nx"},
		{"empty", "", true, "\r\nx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, size := range []int{1, 2, 64} {
				b, _ := NewBuffer(strings.NewReader("\r\nx"), size)
				if got := b.MatchChars([]rune(tt.match)); got != tt.ok {
					t.Fatalf("size %d: MatchChars(%q) = %v, want %v", size, tt.match, got, tt.ok)
				}
				if got := drain(t, b); got != tt.rest {
					t.Errorf("size %d: rest = %q, want %q", size, got, tt.rest)
				}
			}
		})
	}
}

// TestBuffer_MatchDifferentStream tests that matching a foreign clone panics.
func TestBuffer_MatchDifferentStream(t *testing.T) {
	a, _ := NewBuffer(strings.NewReader("a"), 4)
	b, _ := NewBuffer(strings.NewReader("a"), 4)

	defer func() {
		if recover() == nil {
			t.Error("Match() with a clone of another Buffer did not panic")
		}
	}()
	a.Match(b.Clone())
}

// TestBuffer_Reset tests rewinding a seekable source.
func TestBuffer_Reset(t *testing.T) {
	b, _ := NewBuffer(strings.NewReader("a\nb"), 2)
	if got := drain(t, b); got != "a\nb" {
		t.Fatalf("first pass = %q", got)
	}

	b.Reset()
	if b.Offset() != 0 || b.Line() != 1 || b.Column() != 1 {
		t.Errorf("after Reset position = %d:%d@%d, want 1:1@0", b.Line(), b.Column(), b.Offset())
	}
	if got := drain(t, b); got != "a\nb" {
		t.Errorf("second pass = %q, want %q", got, "a\nb")
	}
}
