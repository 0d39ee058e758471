package ir

import "testing"

func opKinds(ops []Op) []OpKind {
	out := make([]OpKind, len(ops))
	for i, o := range ops {
		out[i] = o.Kind
	}
	return out
}

func kindsEqual(a, b []OpKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestOptimizeStyleCollapseScenario mirrors spec.md's S1 scenario using the
// actual op shape two adjacent bold+center text components lower to (each
// component sets its style, prints, newlines, then restores it), not a
// pre-merged approximation. It should reduce to exactly Init, SetAlign(C),
// SetBold(true), Text, SetBold(false), SetAlign(L), Newline, Cut.
func TestOptimizeStyleCollapseScenario(t *testing.T) {
	in := []Op{
		Init(),
		SetAlign(AlignCenter),
		SetBold(true),
		Text("A"),
		Newline(),
		SetBold(false),
		SetAlign(AlignLeft),
		SetAlign(AlignCenter),
		SetBold(true),
		Text("B"),
		Newline(),
		SetBold(false),
		SetAlign(AlignLeft),
		Newline(),
		Cut(),
	}
	got := Optimize(in)

	want := []OpKind{
		OpInit, OpSetAlign, OpSetBold, OpText, OpSetBold, OpSetAlign, OpNewline, OpCut,
	}
	if !kindsEqual(opKinds(got), want) {
		t.Fatalf("got kinds %v, want %v", opKinds(got), want)
	}
	if got[3].Text != "A\nB" {
		t.Fatalf("expected adjacent text merge, got %q", got[3].Text)
	}
}

func TestOptimizeRemovesRedundantInit(t *testing.T) {
	in := []Op{Init(), Init(), Text("x")}
	got := Optimize(in)
	count := 0
	for _, o := range got {
		if o.Kind == OpInit {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one Init, got %d", count)
	}
}

func TestOptimizeRemovesRedundantStyleRepeat(t *testing.T) {
	in := []Op{Init(), SetBold(true), SetBold(true), Text("x"), SetBold(false)}
	got := Optimize(in)
	count := 0
	for _, o := range got {
		if o.Kind == OpSetBold && o.Bool {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected redundant repeated SetBold(true) to collapse to one, got %d", count)
	}
}

func TestOptimizeMergesAdjacentText(t *testing.T) {
	in := []Op{Init(), Text("a"), Text("b"), Text("c")}
	got := Optimize(in)
	var texts []string
	for _, o := range got {
		if o.Kind == OpText {
			texts = append(texts, o.Text)
		}
	}
	if len(texts) != 1 || texts[0] != "abc" {
		t.Fatalf("expected merged text \"abc\", got %v", texts)
	}
}

func TestOptimizeCollapsesBackToBackToggleButNotAcrossAConsumer(t *testing.T) {
	in := []Op{Init(), SetBold(true), Text("a"), SetBold(false), SetBold(true), Text("b"), SetBold(false)}
	got := Optimize(in)
	count := 0
	for _, o := range got {
		if o.Kind == OpSetBold {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected the back-to-back SetBold(false), SetBold(true) pair to collapse, leaving the opening SetBold(true) and closing SetBold(false), got %d", count)
	}
}
