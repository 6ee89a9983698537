// Package document is the structured rich-text model behind the content
// editor: a tree of blocks and marked text runs, a selection, and an undo
// history. Its only external artifact is the HTML it serialises to.
package document

import (
	"strings"
	"unicode/utf8"
)

// Model is the capability set the editor toolbar drives. Every mutating
// method reports whether the command applied.
type Model interface {
	HTML() string
	SetHTML(html string)
	Text() string
	IsEmpty() bool

	Selection() Selection
	SetSelection(sel Selection) error
	SelectAll()
	InsertText(text string) bool
	SplitBlock() bool

	ToggleMark(t MarkType) bool
	SetMark(m Mark) bool
	UnsetMark(t MarkType) bool
	ExtendMarkRange(t MarkType) bool
	ToggleHeading(level int) bool
	ToggleCodeBlock() bool
	ToggleList(t NodeType) bool
	ToggleBlockquote() bool
	SetAlign(align string) bool
	InsertImage(src, alt string) bool
	InsertHorizontalRule() bool
	InsertTable(rows, cols int, withHeader bool) bool
	AddColumnBefore() bool
	AddRowBefore() bool
	DeleteTable() bool
	ClearFormatting() bool

	IsMarkActive(t MarkType) bool
	MarkValue(t MarkType) string
	IsNodeActive(t NodeType, level int) bool
	Align() string
	InTable() bool
	InCodeBlock() bool

	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool

	Clone() Model
}

// Doc is the default Model implementation.
type Doc struct {
	root      *Node
	sel       Selection
	stored    []Mark
	storedSet bool
	hist      history
}

var _ Model = (*Doc)(nil)

// New parses html into a document with the cursor at the start.
func New(html string) *Doc {
	d := &Doc{}
	d.load(html)
	return d
}

func (d *Doc) load(html string) {
	d.root = Parse(html)
	d.sel = Cursor(d.firstPos())
	d.clearStored()
}

// SetHTML replaces the document and clears history.
func (d *Doc) SetHTML(html string) {
	d.load(html)
	d.hist.reset()
}

func (d *Doc) HTML() string { return Serialize(d.root) }

// Root exposes the tree for inspection. Callers must not mutate it.
func (d *Doc) Root() *Node { return d.root }

func (d *Doc) Text() string { return d.root.TextContent("\n") }

func (d *Doc) IsEmpty() bool { return d.HTML() == "" }

func (d *Doc) Clone() Model {
	return &Doc{
		root:      d.root.Clone(),
		sel:       d.sel.clone(),
		stored:    append([]Mark(nil), d.stored...),
		storedSet: d.storedSet,
		hist: history{
			undo: append([]snapshot(nil), d.hist.undo...),
			redo: append([]snapshot(nil), d.hist.redo...),
		},
	}
}

func (d *Doc) Selection() Selection { return d.sel.clone() }

func (d *Doc) SetSelection(sel Selection) error {
	if err := validatePos(d.root, sel.Anchor); err != nil {
		return err
	}
	if err := validatePos(d.root, sel.Head); err != nil {
		return err
	}
	d.sel = sel.clone()
	d.clearStored()
	return nil
}

func (d *Doc) SelectAll() {
	blocks := textblocks(d.root)
	first, last := blocks[0], blocks[len(blocks)-1]
	d.sel = Selection{
		Anchor: Pos{Path: first},
		Head:   Pos{Path: last, Offset: d.root.At(last).TextLen()},
	}
	d.clearStored()
}

func (d *Doc) firstPos() Pos {
	return Pos{Path: textblocks(d.root)[0]}
}

func (d *Doc) clearStored() {
	d.stored = nil
	d.storedSet = false
}

func (d *Doc) setStored(ms []Mark) {
	d.stored = sortMarks(ms)
	d.storedSet = true
}

// change runs fn as one undoable step. A step that leaves the HTML
// untouched is not recorded.
func (d *Doc) change(fn func() bool) bool {
	before := d.snapshot()
	beforeHTML := Serialize(before.root)
	stored, storedSet := d.stored, d.storedSet
	if !fn() {
		d.restore(before)
		d.stored, d.storedSet = stored, storedSet
		return false
	}
	ensureTextblock(d.root)
	if validatePos(d.root, d.sel.Anchor) != nil || validatePos(d.root, d.sel.Head) != nil {
		d.sel = Cursor(d.firstPos())
	}
	if Serialize(d.root) != beforeHTML {
		d.hist.push(before)
	}
	return true
}

// pinned remembers the selection by textblock identity so it survives
// structural edits that move blocks around.
type pinned struct {
	anchor, head *Node
	ao, ho       int
}

func (d *Doc) pin() pinned {
	return pinned{
		anchor: d.root.At(d.sel.Anchor.Path),
		head:   d.root.At(d.sel.Head.Path),
		ao:     d.sel.Anchor.Offset,
		ho:     d.sel.Head.Offset,
	}
}

func (d *Doc) unpin(p pinned) {
	ap, okA := pathOf(d.root, p.anchor)
	hp, okH := pathOf(d.root, p.head)
	if !okA || !okH {
		d.sel = Cursor(d.firstPos())
		return
	}
	d.sel = Selection{
		Anchor: Pos{Path: ap, Offset: min(p.ao, p.anchor.TextLen())},
		Head:   Pos{Path: hp, Offset: min(p.ho, p.head.TextLen())},
	}
}

// span is the part of one textblock covered by the selection.
type span struct {
	path     Path
	node     *Node
	from, to int
}

func (d *Doc) spans() []span {
	from, to := d.sel.From(), d.sel.To()
	var out []span
	for _, p := range textblocks(d.root) {
		if p.Compare(from.Path) < 0 || p.Compare(to.Path) > 0 {
			continue
		}
		n := d.root.At(p)
		s := span{path: p, node: n, from: 0, to: n.TextLen()}
		if p.Compare(from.Path) == 0 {
			s.from = from.Offset
		}
		if p.Compare(to.Path) == 0 {
			s.to = to.Offset
		}
		out = append(out, s)
	}
	return out
}

func (d *Doc) headBlock() *Node { return d.root.At(d.sel.Head.Path) }

func (d *Doc) fromBlock() *Node { return d.root.At(d.sel.From().Path) }

// cursorMarks is what typed text at the head would carry.
func (d *Doc) cursorMarks() []Mark {
	if d.storedSet {
		return append([]Mark(nil), d.stored...)
	}
	tb := d.headBlock()
	if tb.Type == NodeCodeBlock {
		return nil
	}
	return marksAt(tb, d.sel.Head.Offset)
}

func (d *Doc) IsMarkActive(t MarkType) bool {
	if d.sel.Empty() {
		return hasMark(d.cursorMarks(), t)
	}
	sawText := false
	for _, s := range d.spans() {
		if s.node.Type == NodeCodeBlock {
			continue
		}
		all, any := rangeMarkState(s.node, s.from, s.to, t)
		if any {
			sawText = true
			if !all {
				return false
			}
		}
	}
	return sawText
}

func (d *Doc) MarkValue(t MarkType) string {
	if d.sel.Empty() {
		return markValue(d.cursorMarks(), t)
	}
	for _, s := range d.spans() {
		pos := 0
		for _, r := range s.node.Content {
			n := utf8.RuneCountInString(r.Text)
			if pos < s.to && pos+n > s.from && hasMark(r.Marks, t) {
				return markValue(r.Marks, t)
			}
			pos += n
		}
	}
	return ""
}

func (d *Doc) IsNodeActive(t NodeType, level int) bool {
	switch t {
	case NodeParagraph, NodeHeading, NodeCodeBlock:
		for _, s := range d.spans() {
			if s.node.Type != t || (t == NodeHeading && level > 0 && s.node.Level != level) {
				return false
			}
		}
		return true
	case NodeBulletList, NodeOrderedList:
		p, ok := innermost(d.root, d.sel.From().Path, (*Node).IsList)
		return ok && d.root.At(p).Type == t
	case NodeBlockquote, NodeTable, NodeListItem:
		_, ok := innermost(d.root, d.sel.From().Path, func(n *Node) bool { return n.Type == t })
		return ok
	}
	return false
}

// Align returns the alignment of the block at the selection start.
func (d *Doc) Align() string {
	if a := d.fromBlock().Align; a != "" {
		return a
	}
	return AlignLeft
}

func (d *Doc) InTable() bool { return d.IsNodeActive(NodeTable, 0) }

func (d *Doc) InCodeBlock() bool { return d.fromBlock().Type == NodeCodeBlock }

// InsertText types text at the selection, replacing selected content.
func (d *Doc) InsertText(text string) bool {
	text = strings.ReplaceAll(text, "\r", "")
	if text == "" {
		return false
	}
	marks := d.cursorMarks()
	return d.change(func() bool {
		if !d.sel.Empty() {
			if !d.deleteSelection() {
				return false
			}
		}
		tb := d.headBlock()
		off := d.sel.Head.Offset
		if tb.Type == NodeCodeBlock {
			marks = nil
		}
		insertInline(tb, off, text, marks)
		d.sel = Cursor(Pos{Path: d.sel.Head.Path, Offset: off + utf8.RuneCountInString(text)})
		d.clearStored()
		return true
	})
}

// deleteSelection removes the selected content and joins what is left of
// the first and last textblocks. Blocks wholly inside the range go, and
// containers emptied by that go with them. A range that crosses a table
// cell boundary is refused.
func (d *Doc) deleteSelection() bool {
	from, to := d.sel.From(), d.sel.To()
	if from.Path.Compare(to.Path) == 0 {
		deleteInline(d.root.At(from.Path), from.Offset, to.Offset)
		d.sel = Cursor(from.clone())
		return true
	}
	fromCell, inFrom := innermost(d.root, from.Path, (*Node).IsCell)
	toCell, inTo := innermost(d.root, to.Path, (*Node).IsCell)
	if inFrom != inTo || (inFrom && fromCell.Compare(toCell) != 0) {
		return false
	}

	first := d.root.At(from.Path)
	last := d.root.At(to.Path)
	left, _ := splitInline(first.Content, from.Offset)
	_, right := splitInline(last.Content, to.Offset)
	if first.Type == NodeCodeBlock {
		for _, r := range right {
			r.Marks = nil
		}
	}
	first.Content = normalizeInline(append(left, right...))
	cutBetween(d.root, Path{}, from.Path, to.Path)
	pruneEmpty(d.root)

	p, ok := pathOf(d.root, first)
	if !ok {
		return false
	}
	d.sel = Cursor(Pos{Path: p, Offset: from.Offset})
	return true
}

// cutBetween drops every node strictly after the textblock at from and up
// to and including the textblock at to. Ancestors of either end are kept.
func cutBetween(n *Node, path, from, to Path) {
	kept := n.Content[:0:0]
	for i, c := range n.Content {
		p := append(path.clone(), i)
		switch {
		case c.IsTextblock():
			if p.Compare(to) == 0 || (p.Compare(from) > 0 && p.Compare(to) < 0) {
				continue
			}
		case isPrefix(p, from) || isPrefix(p, to):
			cutBetween(c, p, from, to)
		case p.Compare(from) > 0 && p.Compare(to) < 0:
			continue
		}
		kept = append(kept, c)
	}
	n.Content = kept
}

// pruneEmpty removes block nodes left without children. The root stays.
func pruneEmpty(n *Node) {
	if n.IsTextblock() {
		return
	}
	kept := n.Content[:0:0]
	for _, c := range n.Content {
		pruneEmpty(c)
		if !c.IsTextblock() && len(c.Content) == 0 && c.Type != NodeHorizontalRule && c.Type != NodeImage {
			continue
		}
		kept = append(kept, c)
	}
	n.Content = kept
}

// SplitBlock is Enter: splits the textblock at the cursor. Inside a code
// block it inserts a newline; inside a list item it starts a new item.
func (d *Doc) SplitBlock() bool {
	if d.InCodeBlock() && d.sel.Empty() {
		return d.InsertText("\n")
	}
	return d.change(func() bool {
		if !d.sel.Empty() && !d.deleteSelection() {
			return false
		}
		path := d.sel.Head.Path
		tb := d.root.At(path)
		off := d.sel.Head.Offset
		left, right := splitInline(tb.Content, off)
		next := &Node{Type: tb.Type, Level: tb.Level, Align: tb.Align, Content: right}
		if tb.Type == NodeHeading && len(right) == 0 {
			next = &Node{Type: NodeParagraph, Align: tb.Align}
		}
		tb.Content = left

		parentPath := path[:len(path)-1]
		parent := d.root.At(parentPath)
		idx := path[len(path)-1]
		if parent.Type == NodeListItem && idx == 0 {
			list := d.root.At(parentPath[:len(parentPath)-1])
			li := parentPath[len(parentPath)-1]
			item := &Node{Type: NodeListItem, Content: []*Node{next}}
			list.Content = insertAt(list.Content, li+1, item)
		} else {
			parent.Content = insertAt(parent.Content, idx+1, next)
		}
		np, _ := pathOf(d.root, next)
		d.sel = Cursor(Pos{Path: np})
		return true
	})
}

func insertAt(nodes []*Node, i int, n ...*Node) []*Node {
	out := make([]*Node, 0, len(nodes)+len(n))
	out = append(out, nodes[:i]...)
	out = append(out, n...)
	return append(out, nodes[i:]...)
}

func removeAt(nodes []*Node, i int) []*Node {
	out := make([]*Node, 0, len(nodes))
	out = append(out, nodes[:i]...)
	return append(out, nodes[i+1:]...)
}

// ensureTextblock keeps the tree editable: every container holds at least
// one block and the document holds at least one textblock.
func ensureTextblock(root *Node) {
	var fix func(n *Node)
	fix = func(n *Node) {
		for _, c := range n.Content {
			fix(c)
		}
		if n.isContainer() && len(n.Content) == 0 {
			n.Content = []*Node{newParagraph()}
		}
	}
	fix(root)
	if len(textblocks(root)) == 0 {
		root.Content = append(root.Content, newParagraph())
	}
}
