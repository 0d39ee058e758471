package lower

import (
	"strings"
	"testing"

	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/ir"
)

func TestLowerTableWithoutBorderOmitsBoxDrawing(t *testing.T) {
	l := newTestLowerer()
	c := &document.Component{
		Type:    document.TypeTable,
		Headers: []string{"Item", "Qty"},
		Rows:    [][]string{{"Widget", "3"}},
	}
	ops, err := l.lowerTable(c)
	if err != nil {
		t.Fatalf("lowerTable: %v", err)
	}
	for _, op := range ops {
		if op.Kind == ir.OpText && strings.ContainsAny(op.Text, "┌┬┐├┼┤└┴┘│") {
			t.Fatalf("expected no box-drawing glyphs without a border, got %q", op.Text)
		}
	}
}

func TestLowerTableWithBorderEmitsTopAndBottomRules(t *testing.T) {
	l := newTestLowerer()
	c := &document.Component{
		Type:    document.TypeTable,
		Headers: []string{"Item"},
		Rows:    [][]string{{"Widget"}},
		Border:  "single",
	}
	ops, err := l.lowerTable(c)
	if err != nil {
		t.Fatalf("lowerTable: %v", err)
	}
	if ops[0].Text[0] != '\xe2' { // UTF-8 lead byte of '┌'
		t.Fatalf("expected the first line to start with a box-drawing rule, got %q", ops[0].Text)
	}
}

func TestLowerTableTruncatesOverflowingCellWithEllipsis(t *testing.T) {
	l := newTestLowerer()
	c := &document.Component{
		Type:    document.TypeTable,
		Columns: []document.TableColumn{{Header: "Name", Width: 5}},
		Rows:    [][]string{{"Supercalifragilistic"}},
	}
	ops, err := l.lowerTable(c)
	if err != nil {
		t.Fatalf("lowerTable: %v", err)
	}
	found := false
	for _, op := range ops {
		if op.Kind == ir.OpText && strings.Contains(op.Text, "…") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an ellipsis for a cell wider than its column")
	}
}

func TestLowerTableRightAlignsColumnWhenRequested(t *testing.T) {
	l := newTestLowerer()
	c := &document.Component{
		Type:    document.TypeTable,
		Columns: []document.TableColumn{{Header: "Price", Width: 10, Align: document.AlignRight}},
		Rows:    [][]string{{"5"}},
	}
	ops, err := l.lowerTable(c)
	if err != nil {
		t.Fatalf("lowerTable: %v", err)
	}
	dataLine := ops[2].Text // header row, then data row
	if !strings.HasSuffix(dataLine, "5") || dataLine[0] != ' ' {
		t.Fatalf("expected the right-aligned cell padded with leading spaces, got %q", dataLine)
	}
}
