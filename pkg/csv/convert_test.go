package csv

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
)

// TestParse_ToRecords tests parsing CSV to an AST and converting it back.
func TestParse_ToRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  [][]string
	}{
		{
			name:  "simple CSV",
			input: "name,age\nAlice,30\nBob,25\n",
			want: [][]string{
				{"name", "age"},
				{"Alice", "30"},
				{"Bob", "25"},
			},
		},
		{
			name:  "empty CSV",
			input: "",
			want:  [][]string{},
		},
		{
			name:  "headers come first",
			input: ",age\nAlice,30\n",
			opts:  []Option{WithHasHeaders(true)},
			want: [][]string{
				{"", "age"},
				{"Alice", "30"},
			},
		},
		{
			name:  "with empty fields",
			input: "a,b,c\n1,,3\n,,\n",
			want: [][]string{
				{"a", "b", "c"},
				{"1", "", "3"},
				{"", "", ""},
			},
		},
		{
			name:  "custom dialect",
			input: "a;'b;c'\n",
			opts:  []Option{WithDelimiter(';'), WithQuote('\''), WithEscape('\'')},
			want:  [][]string{{"a", "b;c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input, tt.opts...)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got, err := NodeToRecords(node)
			if err != nil {
				t.Fatalf("NodeToRecords() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NodeToRecords() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParseReader_Positions tests that literal nodes carry field positions.
func TestParseReader_Positions(t *testing.T) {
	node, err := ParseReader(strings.NewReader("a,bb\n\"x\ny\",z\n"))
	if err != nil {
		t.Fatal(err)
	}
	file := node.(*ast.ArrayDataNode)
	if file.Len() != 2 {
		t.Fatalf("got %d records, want 2", file.Len())
	}

	second := file.Elements()[1].(*ast.ArrayDataNode)
	z := second.Elements()[1].(*ast.LiteralNode)
	if z.Value() != "z" {
		t.Errorf("field value = %v, want z", z.Value())
	}
	if got, want := z.Position().String(), ast.NewPosition(11, 3, 4).String(); got != want {
		t.Errorf("position = %s, want %s", got, want)
	}
}

// TestParse_Malformed tests that AST parsing surfaces malformed input.
func TestParse_Malformed(t *testing.T) {
	_, err := Parse("a\"b")
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("Parse() error = %v, want ErrMalformedInput", err)
	}
}

// TestNodeToRecords_Invalid tests rejection of nodes that are not CSV shaped.
func TestNodeToRecords_Invalid(t *testing.T) {
	pos := ast.ZeroPosition()
	tests := []struct {
		name string
		node ast.SchemaNode
	}{
		{"literal root", ast.NewLiteralNode("x", pos)},
		{"literal record", ast.NewArrayDataNode([]ast.SchemaNode{ast.NewLiteralNode("x", pos)}, pos)},
		{"non-string field", ast.NewArrayDataNode([]ast.SchemaNode{
			ast.NewArrayDataNode([]ast.SchemaNode{ast.NewLiteralNode(3, pos)}, pos),
		}, pos)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NodeToRecords(tt.node); err == nil {
				t.Error("NodeToRecords() expected error")
			}
		})
	}
}

// TestValidate tests the scan-only validation entry points.
func TestValidate(t *testing.T) {
	if err := Validate("a,b\n\"c\",d"); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	if err := Validate("\"a\"x"); !errors.Is(err, ErrQuote) {
		t.Errorf("Validate(invalid) = %v, want ErrQuote", err)
	}
	if err := ValidateReader(strings.NewReader("a"), WithBufferSize(0)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("ValidateReader(bad options) = %v, want ErrInvalidConfiguration", err)
	}
	if Format() != "CSV" {
		t.Errorf("Format() = %q", Format())
	}
}
