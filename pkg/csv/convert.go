// Package csv provides conversion between AST nodes and Go native types.
package csv

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"

	"github.com/shapestone/shape-csvreader/internal/parser"
)

// toASTPositions converts scanner field positions to AST positions.
func toASTPositions(pos []parser.Position) []ast.Position {
	out := make([]ast.Position, len(pos))
	for i, p := range pos {
		out[i] = ast.NewPosition(int(p.Offset), p.Line, p.Column)
	}
	return out
}

// recordNode builds the AST node of one record. Field positions come from
// pos; missing positions fall back to the zero position.
func recordNode(fields []string, pos []ast.Position) *ast.ArrayDataNode {
	nodes := make([]ast.SchemaNode, len(fields))
	for i, f := range fields {
		p := ast.ZeroPosition()
		if i < len(pos) {
			p = pos[i]
		}
		nodes[i] = ast.NewLiteralNode(f, p)
	}
	start := ast.ZeroPosition()
	if len(pos) > 0 {
		start = pos[0]
	}
	return ast.NewArrayDataNode(nodes, start)
}

// NodeToRecords converts an AST produced by ParseReader back into records.
//
// The node must be an *ast.ArrayDataNode of *ast.ArrayDataNode records whose
// elements are *ast.LiteralNode fields.
//
// Example:
//
//	node, _ := csv.Parse("name,age\nAlice,30\n")
//	records, _ := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) ([][]string, error) {
	file, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	records := make([][]string, 0, file.Len())
	for i, elem := range file.Elements() {
		rec, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("record %d: expected *ast.ArrayDataNode, got %T", i, elem)
		}
		fields := make([]string, 0, rec.Len())
		for j, f := range rec.Elements() {
			lit, ok := f.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("record %d field %d: expected *ast.LiteralNode, got %T", i, j, f)
			}
			value, ok := lit.Value().(string)
			if !ok {
				return nil, fmt.Errorf("record %d field %d: expected string value, got %T", i, j, lit.Value())
			}
			fields = append(fields, value)
		}
		records = append(records, fields)
	}
	return records, nil
}
