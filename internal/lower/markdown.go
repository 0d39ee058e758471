package lower

import (
	"regexp"
	"strings"

	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/ir"
)

var (
	mdHeading = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	mdBullet  = regexp.MustCompile(`^[-*]\s+(.*)$`)
	mdOrdered = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	mdBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalic  = regexp.MustCompile(`[_*](.+?)[_*]`)
)

// lowerMarkdown expands the restricted markdown subset from spec.md §4.3
// (headings 1-6, bold, italic, bullet/numbered lists) into Text/Newline
// ops. Headings are bolded and sized; inline bold and italic markers are
// stripped and produce no style ops, so that text prints unstyled.
func (l *Lowerer) lowerMarkdown(c *document.Component) ([]ir.Op, error) {
	var ops []ir.Op
	for _, line := range strings.Split(c.Markdown, "\n") {
		if strings.TrimSpace(line) == "" {
			ops = append(ops, ir.Newline())
			continue
		}
		lineOps, err := l.lowerMarkdownLine(line)
		if err != nil {
			return nil, err
		}
		ops = append(ops, lineOps...)
	}
	return ops, nil
}

func (l *Lowerer) lowerMarkdownLine(line string) ([]ir.Op, error) {
	if m := mdHeading.FindStringSubmatch(line); m != nil {
		level := len(m[1])
		size := 3 - (level-1)/2 // levels 1-2 -> SetSize(3,3), 3-4 -> (2,2), 5-6 -> (1,1)
		if size < 1 {
			size = 1
		}
		text := stripInline(m[2])
		return []ir.Op{
			ir.SetBold(true),
			ir.SetSize(size, size),
			ir.Text(text), ir.Newline(),
			ir.SetSize(1, 1),
			ir.SetBold(false),
		}, nil
	}
	if m := mdBullet.FindStringSubmatch(line); m != nil {
		return renderInline("• " + stripListTail(m[1])), nil
	}
	if m := mdOrdered.FindStringSubmatch(line); m != nil {
		return renderInline(stripListTail(m[1])), nil
	}
	return renderInline(line), nil
}

// stripListTail returns a list item's body unchanged; its emphasis markers
// are stripped afterwards by renderInline.
func stripListTail(s string) string { return s }

// renderInline emits a single Text/Newline pair. Bold/italic markers are
// currently rendered by stripping the markers rather than toggling styles
// mid-line, since IR ops carry no inline style runs within one Text op.
func renderInline(s string) []ir.Op {
	return []ir.Op{ir.Text(stripInline(s)), ir.Newline()}
}

func stripInline(s string) string {
	s = mdBold.ReplaceAllString(s, "$1")
	s = mdItalic.ReplaceAllString(s, "$1")
	return s
}
