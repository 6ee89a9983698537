package document

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	colorPattern   = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6}|[0-9a-f]{8})$`)
	allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}
)

// HardBreak is how a <br> is held inside a textblock's text.
const HardBreak = "\n"

var sourceNewlines = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// DefaultHighlight is used for <mark> elements that carry no colour.
const DefaultHighlight = "#fef08a"

// NormalizeURL validates a link or image URL and returns its canonical
// form. Only http, https, mailto, tel and relative URLs are accepted.
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t\n\r") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" && !allowedSchemes[u.Scheme] {
		return "", false
	}
	out := u.String()
	if out == "" {
		return "", false
	}
	return out, true
}

// NormalizeColor lowercases a hex colour, reporting false for anything else.
func NormalizeColor(raw string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(raw))
	if !colorPattern.MatchString(c) {
		return "", false
	}
	return c, true
}

// Parse reads an HTML fragment into a document. Unknown elements are
// unwrapped, unknown attributes dropped and unsafe URLs removed.
func Parse(src string) *Node {
	root := &Node{Type: NodeDoc}
	if strings.TrimSpace(src) != "" {
		body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		if nodes, err := html.ParseFragment(strings.NewReader(src), body); err == nil {
			root.Content = parseBlocks(nodes)
		}
	}
	ensureTextblock(root)
	return root
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func styleProps(n *html.Node) map[string]string {
	props := map[string]string{}
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		props[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return props
}

func parseAlign(n *html.Node) string {
	switch strings.ToLower(styleProps(n)["text-align"]) {
	case AlignCenter:
		return AlignCenter
	case AlignRight:
		return AlignRight
	}
	return ""
}

func isDropped(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template, atom.Noscript, atom.Iframe, atom.Object:
		return true
	}
	return false
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Ul, atom.Ol, atom.Li, atom.Pre, atom.Hr, atom.Img, atom.Table,
		atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer, atom.Main,
		atom.Aside, atom.Nav, atom.Figure, atom.Figcaption, atom.Thead, atom.Tbody, atom.Tr:
		return true
	}
	return false
}

func isWhitespace(nodes []*html.Node) bool {
	for _, n := range nodes {
		if n.Type != html.TextNode || strings.TrimSpace(n.Data) != "" {
			return false
		}
	}
	return true
}

// parseBlocks reads a sequence of nodes in block context. Loose inline
// content between blocks becomes a paragraph.
func parseBlocks(nodes []*html.Node) []*Node {
	var out []*Node
	var loose []*html.Node
	flush := func() {
		if len(loose) > 0 && !isWhitespace(loose) {
			out = append(out, parseTextblock(&Node{Type: NodeParagraph}, loose)...)
		}
		loose = nil
	}
	for _, n := range nodes {
		switch {
		case n.Type == html.ElementNode && isDropped(n.DataAtom):
		case n.Type == html.ElementNode && isBlockElement(n.DataAtom):
			flush()
			out = append(out, parseBlock(n)...)
		case n.Type == html.TextNode, n.Type == html.ElementNode:
			loose = append(loose, n)
		}
	}
	flush()
	return out
}

func parseBlock(n *html.Node) []*Node {
	switch n.DataAtom {
	case atom.P:
		return parseTextblock(&Node{Type: NodeParagraph, Align: parseAlign(n)}, children(n))
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		if level > 3 {
			level = 3
		}
		return parseTextblock(&Node{Type: NodeHeading, Level: level, Align: parseAlign(n)}, children(n))
	case atom.Pre:
		text := textOf(n)
		cb := &Node{Type: NodeCodeBlock}
		if text != "" {
			cb.Content = []*Node{newText(text, nil)}
		}
		return []*Node{cb}
	case atom.Blockquote:
		return []*Node{{Type: NodeBlockquote, Content: parseBlocks(children(n))}}
	case atom.Ul, atom.Ol:
		return parseList(n)
	case atom.Hr:
		return []*Node{{Type: NodeHorizontalRule}}
	case atom.Img:
		if img := parseImage(n); img != nil {
			return []*Node{img}
		}
		return nil
	case atom.Table:
		if t := parseTable(n); t != nil {
			return []*Node{t}
		}
		return nil
	}
	return parseBlocks(children(n))
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			b.WriteString("\n")
			continue
		}
		b.WriteString(textOf(c))
	}
	return b.String()
}

func parseImage(n *html.Node) *Node {
	src, ok := NormalizeURL(attr(n, "src"))
	if !ok {
		return nil
	}
	return &Node{Type: NodeImage, Src: src, Alt: strings.ReplaceAll(attr(n, "alt"), "\r", "")}
}

func parseList(n *html.Node) []*Node {
	t := NodeBulletList
	if n.DataAtom == atom.Ol {
		t = NodeOrderedList
	}
	list := &Node{Type: t}
	var loose []*html.Node
	flush := func() {
		if len(loose) > 0 && !isWhitespace(loose) {
			list.Content = append(list.Content, &Node{Type: NodeListItem, Content: parseBlocks(loose)})
		}
		loose = nil
	}
	for _, c := range children(n) {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			flush()
			list.Content = append(list.Content, &Node{Type: NodeListItem, Content: parseBlocks(children(c))})
			continue
		}
		loose = append(loose, c)
	}
	flush()
	if len(list.Content) == 0 {
		return nil
	}
	return []*Node{list}
}

func parseTable(n *html.Node) *Node {
	var rows []*html.Node
	var collect func(p *html.Node)
	collect = func(p *html.Node) {
		for _, c := range children(p) {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				collect(c)
			}
		}
	}
	collect(n)

	table := &Node{Type: NodeTable}
	width := 0
	for _, tr := range rows {
		row := &Node{Type: NodeTableRow}
		for _, c := range children(tr) {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Th:
				row.Content = append(row.Content, &Node{Type: NodeTableHeader, Content: parseBlocks(children(c))})
			case atom.Td:
				row.Content = append(row.Content, &Node{Type: NodeTableCell, Content: parseBlocks(children(c))})
			}
		}
		if len(row.Content) == 0 {
			continue
		}
		width = max(width, len(row.Content))
		table.Content = append(table.Content, row)
	}
	if len(table.Content) == 0 {
		return nil
	}
	for _, row := range table.Content {
		for len(row.Content) < width {
			row.Content = append(row.Content, newCell(NodeTableCell))
		}
	}
	return table
}

// inlineCollector gathers text runs into textblocks shaped like tpl.
// Images break the textblock in two.
type inlineCollector struct {
	tpl *Node
	cur *Node
	out []*Node
}

func (ic *inlineCollector) block() *Node {
	if ic.cur == nil {
		ic.cur = &Node{Type: ic.tpl.Type, Level: ic.tpl.Level, Align: ic.tpl.Align}
	}
	return ic.cur
}

func (ic *inlineCollector) text(s string, marks []Mark) {
	b := ic.block()
	b.Content = append(b.Content, newText(s, marks))
}

func (ic *inlineCollector) endsWithBreak() bool {
	if ic.cur == nil || len(ic.cur.Content) == 0 {
		return false
	}
	return strings.HasSuffix(ic.cur.Content[len(ic.cur.Content)-1].Text, HardBreak)
}

func (ic *inlineCollector) breakWith(n *Node) {
	if ic.cur != nil && strings.TrimSpace(ic.cur.TextContent("")) != "" {
		ic.cur.Content = normalizeInline(ic.cur.Content)
		ic.out = append(ic.out, ic.cur)
	}
	ic.cur = nil
	ic.out = append(ic.out, n)
}

func (ic *inlineCollector) finish() []*Node {
	if ic.cur != nil {
		ic.cur.Content = normalizeInline(ic.cur.Content)
		ic.out = append(ic.out, ic.cur)
	}
	if len(ic.out) == 0 {
		ic.out = append(ic.out, ic.block())
	}
	return ic.out
}

func parseTextblock(tpl *Node, nodes []*html.Node) []*Node {
	ic := &inlineCollector{tpl: tpl}
	for _, n := range nodes {
		ic.walk(n, nil)
	}
	return ic.finish()
}

func (ic *inlineCollector) walk(n *html.Node, marks []Mark) {
	switch n.Type {
	case html.TextNode:
		// source newlines are plain whitespace; only <br> is a hard break
		s := n.Data
		if ic.endsWithBreak() {
			s = strings.TrimLeft(s, "\r\n")
		}
		if s = sourceNewlines.Replace(s); s != "" {
			ic.text(s, marks)
		}
		return
	case html.ElementNode:
	default:
		return
	}
	if isDropped(n.DataAtom) {
		return
	}
	switch n.DataAtom {
	case atom.Br:
		ic.text(HardBreak, marks)
		return
	case atom.Img:
		if img := parseImage(n); img != nil {
			ic.breakWith(img)
		}
		return
	case atom.Strong, atom.B:
		marks = withMark(marks, Mark{Type: MarkBold})
	case atom.Em, atom.I:
		marks = withMark(marks, Mark{Type: MarkItalic})
	case atom.U:
		marks = withMark(marks, Mark{Type: MarkUnderline})
	case atom.S, atom.Strike, atom.Del:
		marks = withMark(marks, Mark{Type: MarkStrike})
	case atom.Code:
		marks = withMark(marks, Mark{Type: MarkCode})
	case atom.A:
		if href, ok := NormalizeURL(attr(n, "href")); ok {
			marks = withMark(marks, Mark{Type: MarkLink, Value: href})
		}
	case atom.Span:
		if c, ok := NormalizeColor(styleProps(n)["color"]); ok {
			marks = withMark(marks, Mark{Type: MarkTextStyle, Value: c})
		}
	case atom.Mark:
		c, ok := NormalizeColor(attr(n, "data-color"))
		if !ok {
			c, ok = NormalizeColor(styleProps(n)["background-color"])
		}
		if !ok {
			c = DefaultHighlight
		}
		marks = withMark(marks, Mark{Type: MarkHighlight, Value: c})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ic.walk(c, marks)
	}
}
