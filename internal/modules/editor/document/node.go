package document

import (
	"sort"
	"strings"
	"unicode/utf8"
)

type NodeType string

const (
	NodeDoc            NodeType = "doc"
	NodeParagraph      NodeType = "paragraph"
	NodeHeading        NodeType = "heading"
	NodeBlockquote     NodeType = "blockquote"
	NodeBulletList     NodeType = "bulletList"
	NodeOrderedList    NodeType = "orderedList"
	NodeListItem       NodeType = "listItem"
	NodeCodeBlock      NodeType = "codeBlock"
	NodeHorizontalRule NodeType = "horizontalRule"
	NodeImage          NodeType = "image"
	NodeTable          NodeType = "table"
	NodeTableRow       NodeType = "tableRow"
	NodeTableHeader    NodeType = "tableHeader"
	NodeTableCell      NodeType = "tableCell"
	NodeText           NodeType = "text"
)

type MarkType string

const (
	MarkLink      MarkType = "link"
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkUnderline MarkType = "underline"
	MarkStrike    MarkType = "strike"
	MarkCode      MarkType = "code"
	MarkHighlight MarkType = "highlight"
	MarkTextStyle MarkType = "textStyle"
)

// markRank fixes the nesting order of marks, outermost first.
var markRank = map[MarkType]int{
	MarkLink:      0,
	MarkBold:      1,
	MarkItalic:    2,
	MarkUnderline: 3,
	MarkStrike:    4,
	MarkCode:      5,
	MarkHighlight: 6,
	MarkTextStyle: 7,
}

const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Mark is inline formatting. Value carries the href of a link or the colour
// of textStyle and highlight.
type Mark struct {
	Type  MarkType
	Value string
}

// Node is one element of the document tree. Which fields are meaningful
// depends on Type: Level for headings, Align for paragraphs and headings,
// Src/Alt for images, Text/Marks for text runs.
type Node struct {
	Type    NodeType
	Level   int
	Align   string
	Src     string
	Alt     string
	Text    string
	Marks   []Mark
	Content []*Node
}

func (n *Node) IsTextblock() bool {
	switch n.Type {
	case NodeParagraph, NodeHeading, NodeCodeBlock:
		return true
	}
	return false
}

func (n *Node) IsList() bool {
	return n.Type == NodeBulletList || n.Type == NodeOrderedList
}

func (n *Node) IsCell() bool {
	return n.Type == NodeTableCell || n.Type == NodeTableHeader
}

// isContainer reports whether n holds a free sequence of blocks.
func (n *Node) isContainer() bool {
	switch n.Type {
	case NodeDoc, NodeBlockquote, NodeListItem, NodeTableCell, NodeTableHeader:
		return true
	}
	return false
}

func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Marks != nil {
		c.Marks = append([]Mark(nil), n.Marks...)
	}
	if n.Content != nil {
		c.Content = make([]*Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = child.Clone()
		}
	}
	return &c
}

// TextLen is the length of a textblock's inline content in runes.
func (n *Node) TextLen() int {
	total := 0
	for _, run := range n.Content {
		total += utf8.RuneCountInString(run.Text)
	}
	return total
}

// TextContent concatenates all text below n. Blocks are separated by sep.
func (n *Node) TextContent(sep string) string {
	if n.Type == NodeText {
		return n.Text
	}
	if n.IsTextblock() {
		var b strings.Builder
		for _, run := range n.Content {
			b.WriteString(run.Text)
		}
		return b.String()
	}
	parts := make([]string, 0, len(n.Content))
	for _, child := range n.Content {
		if t := child.TextContent(sep); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

func newParagraph() *Node {
	return &Node{Type: NodeParagraph}
}

func newText(text string, marks []Mark) *Node {
	return &Node{Type: NodeText, Text: text, Marks: sortMarks(marks)}
}

func sortMarks(ms []Mark) []Mark {
	if len(ms) == 0 {
		return nil
	}
	out := append([]Mark(nil), ms...)
	sort.SliceStable(out, func(i, j int) bool { return markRank[out[i].Type] < markRank[out[j].Type] })
	return out
}

func hasMark(ms []Mark, t MarkType) bool {
	for _, m := range ms {
		if m.Type == t {
			return true
		}
	}
	return false
}

func markValue(ms []Mark, t MarkType) string {
	for _, m := range ms {
		if m.Type == t {
			return m.Value
		}
	}
	return ""
}

// withMark returns ms with m added, replacing any mark of the same type.
func withMark(ms []Mark, m Mark) []Mark {
	out := withoutMark(ms, m.Type)
	return sortMarks(append(out, m))
}

func withoutMark(ms []Mark, t MarkType) []Mark {
	var out []Mark
	for _, m := range ms {
		if m.Type != t {
			out = append(out, m)
		}
	}
	return out
}

func marksEqual(a, b []Mark) bool {
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
