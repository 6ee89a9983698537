package document

import (
	"html"
	"strconv"
	"strings"
)

// Serialize renders the document to canonical HTML. A document holding a
// single empty paragraph renders as "".
func Serialize(root *Node) string {
	if isEmptyDoc(root) {
		return ""
	}
	var b strings.Builder
	for _, c := range root.Content {
		writeBlock(&b, c)
	}
	return b.String()
}

func isEmptyDoc(root *Node) bool {
	if len(root.Content) != 1 {
		return false
	}
	c := root.Content[0]
	return c.Type == NodeParagraph && len(c.Content) == 0 && c.Align == ""
}

func alignAttr(n *Node) string {
	if n.Align == "" || n.Align == AlignLeft {
		return ""
	}
	return ` style="text-align: ` + n.Align + `"`
}

func writeBlock(b *strings.Builder, n *Node) {
	switch n.Type {
	case NodeParagraph:
		b.WriteString("<p" + alignAttr(n) + ">")
		writeInline(b, n.Content)
		b.WriteString("</p>")
	case NodeHeading:
		tag := "h" + strconv.Itoa(n.Level)
		b.WriteString("<" + tag + alignAttr(n) + ">")
		writeInline(b, n.Content)
		b.WriteString("</" + tag + ">")
	case NodeCodeBlock:
		b.WriteString("<pre><code>")
		b.WriteString(html.EscapeString(n.TextContent("")))
		b.WriteString("</code></pre>")
	case NodeBlockquote:
		writeWrapped(b, "blockquote", n.Content)
	case NodeBulletList:
		writeWrapped(b, "ul", n.Content)
	case NodeOrderedList:
		writeWrapped(b, "ol", n.Content)
	case NodeListItem:
		writeWrapped(b, "li", n.Content)
	case NodeHorizontalRule:
		b.WriteString("<hr>")
	case NodeImage:
		b.WriteString(`<img src="` + html.EscapeString(n.Src) + `"`)
		if n.Alt != "" {
			b.WriteString(` alt="` + html.EscapeString(n.Alt) + `"`)
		}
		b.WriteString(">")
	case NodeTable:
		b.WriteString("<table><tbody>")
		for _, row := range n.Content {
			b.WriteString("<tr>")
			for _, cell := range row.Content {
				tag := "td"
				if cell.Type == NodeTableHeader {
					tag = "th"
				}
				b.WriteString("<" + tag + ` colspan="1" rowspan="1">`)
				for _, c := range cell.Content {
					writeBlock(b, c)
				}
				b.WriteString("</" + tag + ">")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")
	}
}

func writeWrapped(b *strings.Builder, tag string, content []*Node) {
	b.WriteString("<" + tag + ">")
	for _, c := range content {
		writeBlock(b, c)
	}
	b.WriteString("</" + tag + ">")
}

// writeInline keeps shared leading marks open across neighbouring runs so
// nesting is deterministic.
func writeInline(b *strings.Builder, runs []*Node) {
	var open []Mark
	for _, r := range runs {
		keep := 0
		for keep < len(open) && keep < len(r.Marks) && open[keep] == r.Marks[keep] {
			keep++
		}
		for i := len(open) - 1; i >= keep; i-- {
			b.WriteString(closeTag(open[i]))
		}
		open = open[:keep]
		for _, m := range r.Marks[keep:] {
			b.WriteString(openTag(m))
			open = append(open, m)
		}
		b.WriteString(strings.ReplaceAll(html.EscapeString(r.Text), HardBreak, "<br>"))
	}
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString(closeTag(open[i]))
	}
}

func openTag(m Mark) string {
	switch m.Type {
	case MarkLink:
		return `<a target="_blank" rel="noopener noreferrer nofollow" href="` + html.EscapeString(m.Value) + `">`
	case MarkBold:
		return "<strong>"
	case MarkItalic:
		return "<em>"
	case MarkUnderline:
		return "<u>"
	case MarkStrike:
		return "<s>"
	case MarkCode:
		return "<code>"
	case MarkHighlight:
		return `<mark data-color="` + m.Value + `" style="background-color: ` + m.Value + `; color: inherit">`
	case MarkTextStyle:
		return `<span style="color: ` + m.Value + `">`
	}
	return ""
}

func closeTag(m Mark) string {
	switch m.Type {
	case MarkLink:
		return "</a>"
	case MarkBold:
		return "</strong>"
	case MarkItalic:
		return "</em>"
	case MarkUnderline:
		return "</u>"
	case MarkStrike:
		return "</s>"
	case MarkCode:
		return "</code>"
	case MarkHighlight:
		return "</mark>"
	case MarkTextStyle:
		return "</span>"
	}
	return ""
}
