package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExplanationRenderer writes the markdown explanation returned by the
// analysis service as ANSI-styled terminal text. It renders the block
// structure directly instead of echoing raw markdown.
type ExplanationRenderer struct {
	NoColor bool
}

func (r *ExplanationRenderer) color(code, s string) string {
	if r.NoColor {
		return s
	}
	return code + s + reset
}

// Render parses source as markdown and writes styled text to w.
func (r *ExplanationRenderer) Render(w io.Writer, source []byte) error {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		r.renderBlock(w, node, source)
	}
	fmt.Fprintln(w)
	return nil
}

func (r *ExplanationRenderer) renderBlock(w io.Writer, n ast.Node, source []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		fmt.Fprintf(w, "\n%s\n", r.color(bold, r.inline(node, source)))
	case *ast.FencedCodeBlock:
		r.renderCode(w, node, source)
	case *ast.CodeBlock:
		r.renderCode(w, node, source)
	case *ast.List:
		fmt.Fprintln(w)
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var parts []string
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if s := r.inline(c, source); s != "" {
					parts = append(parts, s)
				}
			}
			fmt.Fprintf(w, "  %s %s\n", r.color(cyan, "•"), strings.Join(parts, " "))
		}
	case *ast.Blockquote:
		fmt.Fprintln(w)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			fmt.Fprintf(w, "  %s %s\n", r.color(dim, "│"), r.inline(c, source))
		}
	case *ast.ThematicBreak:
		fmt.Fprintf(w, "\n%s\n", r.color(dim, strings.Repeat("─", lineWidth)))
	case *ast.Paragraph:
		fmt.Fprintf(w, "\n%s\n", r.inline(node, source))
	default:
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				fmt.Fprint(w, string(seg.Value(source)))
			}
		}
	}
}

func (r *ExplanationRenderer) renderCode(w io.Writer, n ast.Node, source []byte) {
	fmt.Fprintln(w)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\n")
		fmt.Fprintf(w, "    %s\n", r.color(dim, line))
	}
}

// inline flattens the inline children of a block node into a styled string.
func (r *ExplanationRenderer) inline(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.CodeSpan:
			b.WriteString(r.color(cyan, r.inline(c, source)))
		case *ast.Emphasis:
			b.WriteString(r.color(bold, r.inline(c, source)))
		case *ast.Link:
			b.WriteString(r.inline(c, source))
			b.WriteString(r.color(dim, " ("+string(t.Destination)+")"))
		default:
			b.WriteString(r.inline(c, source))
		}
	}
	return b.String()
}
