package lower

import (
	"testing"

	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/ir"
)

func TestLowerMarkdownHeadingBoldsAndSizesText(t *testing.T) {
	l := newTestLowerer()
	ops, err := l.lowerMarkdown(&document.Component{Type: document.TypeMarkdown, Markdown: "# Title"})
	if err != nil {
		t.Fatalf("lowerMarkdown: %v", err)
	}
	if ops[0].Kind != ir.OpSetBold || !ops[0].Bool {
		t.Fatalf("expected the heading to start with SetBold(true), got %v", ops[0])
	}
	foundText := false
	for _, op := range ops {
		if op.Kind == ir.OpText && op.Text == "Title" {
			foundText = true
		}
	}
	if !foundText {
		t.Fatal("expected the heading text to be emitted stripped of its # marker")
	}
}

func TestLowerMarkdownBulletPrefixesWithBullet(t *testing.T) {
	l := newTestLowerer()
	ops, err := l.lowerMarkdown(&document.Component{Type: document.TypeMarkdown, Markdown: "- item one"})
	if err != nil {
		t.Fatalf("lowerMarkdown: %v", err)
	}
	if ops[0].Text != "• item one" {
		t.Fatalf("got %q", ops[0].Text)
	}
}

func TestLowerMarkdownStripsBoldAndItalicMarkers(t *testing.T) {
	l := newTestLowerer()
	ops, err := l.lowerMarkdown(&document.Component{Type: document.TypeMarkdown, Markdown: "a **bold** and _italic_ word"})
	if err != nil {
		t.Fatalf("lowerMarkdown: %v", err)
	}
	if ops[0].Text != "a bold and italic word" {
		t.Fatalf("got %q", ops[0].Text)
	}
}

func TestLowerMarkdownBlankLineEmitsNewlineOnly(t *testing.T) {
	l := newTestLowerer()
	ops, err := l.lowerMarkdown(&document.Component{Type: document.TypeMarkdown, Markdown: "a\n\nb"})
	if err != nil {
		t.Fatalf("lowerMarkdown: %v", err)
	}
	blankCount := 0
	for _, op := range ops {
		if op.Kind == ir.OpNewline {
			blankCount++
		}
	}
	if blankCount < 3 { // a's newline, the blank-line newline, b's newline
		t.Fatalf("expected at least 3 newlines across two lines of text plus a blank, got %d", blankCount)
	}
}

func TestLowerMarkdownDeeperHeadingUsesSmallerSize(t *testing.T) {
	l := newTestLowerer()
	h1, err := l.lowerMarkdown(&document.Component{Type: document.TypeMarkdown, Markdown: "# H1"})
	if err != nil {
		t.Fatalf("lowerMarkdown: %v", err)
	}
	h6, err := l.lowerMarkdown(&document.Component{Type: document.TypeMarkdown, Markdown: "###### H6"})
	if err != nil {
		t.Fatalf("lowerMarkdown: %v", err)
	}
	if h1[1].SizeH <= h6[1].SizeH {
		t.Fatalf("expected H1's size %d to be larger than H6's size %d", h1[1].SizeH, h6[1].SizeH)
	}
}
