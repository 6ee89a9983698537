package document

// ToggleMark adds t to the selection, or removes it when every selected
// character already has it. On a cursor it toggles the stored marks.
func (d *Doc) ToggleMark(t MarkType) bool {
	if d.sel.Empty() || !d.selectionHasText() {
		ms := d.cursorMarks()
		if hasMark(ms, t) {
			d.setStored(withoutMark(ms, t))
		} else {
			d.setStored(withMark(ms, Mark{Type: t}))
		}
		return true
	}
	active := d.IsMarkActive(t)
	return d.change(func() bool {
		for _, s := range d.spans() {
			if s.node.Type == NodeCodeBlock {
				continue
			}
			mapMarks(s.node, s.from, s.to, func(ms []Mark) []Mark {
				if active {
					return withoutMark(ms, t)
				}
				if hasMark(ms, t) {
					return ms
				}
				return append(ms, Mark{Type: t})
			})
		}
		return true
	})
}

// SetMark applies m over the selection, replacing any mark of the same type.
func (d *Doc) SetMark(m Mark) bool {
	m, ok := normalizeMark(m)
	if !ok {
		return false
	}
	if d.sel.Empty() || !d.selectionHasText() {
		d.setStored(withMark(d.cursorMarks(), m))
		return true
	}
	return d.change(func() bool {
		for _, s := range d.spans() {
			if s.node.Type == NodeCodeBlock {
				continue
			}
			mapMarks(s.node, s.from, s.to, func(ms []Mark) []Mark { return withMark(ms, m) })
		}
		return true
	})
}

func normalizeMark(m Mark) (Mark, bool) {
	var ok bool
	switch m.Type {
	case MarkLink:
		m.Value, ok = NormalizeURL(m.Value)
	case MarkTextStyle, MarkHighlight:
		m.Value, ok = NormalizeColor(m.Value)
	default:
		_, known := markRank[m.Type]
		m.Value, ok = "", known
	}
	return m, ok
}

func (d *Doc) UnsetMark(t MarkType) bool {
	if d.sel.Empty() || !d.selectionHasText() {
		d.setStored(withoutMark(d.cursorMarks(), t))
		return true
	}
	return d.change(func() bool {
		for _, s := range d.spans() {
			mapMarks(s.node, s.from, s.to, func(ms []Mark) []Mark { return withoutMark(ms, t) })
		}
		return true
	})
}

// ExtendMarkRange grows a cursor to cover the whole run of mark t it sits
// in. It reports false when there is no such mark at the cursor.
func (d *Doc) ExtendMarkRange(t MarkType) bool {
	from, to := d.sel.From(), d.sel.To()
	if from.Path.Compare(to.Path) != 0 {
		return false
	}
	tb := d.root.At(from.Path)
	start, end, ok := markExtent(tb, from.Offset, t)
	if !ok || to.Offset > end {
		return false
	}
	d.sel = Selection{
		Anchor: Pos{Path: from.Path.clone(), Offset: start},
		Head:   Pos{Path: from.Path.clone(), Offset: end},
	}
	return true
}

func (d *Doc) selectionHasText() bool {
	for _, s := range d.spans() {
		if s.to > s.from {
			return true
		}
	}
	return false
}

// ToggleHeading turns the selected blocks into headings of level, or back
// into paragraphs when they already are.
func (d *Doc) ToggleHeading(level int) bool {
	if level < 1 || level > 3 {
		return false
	}
	revert := d.IsNodeActive(NodeHeading, level)
	return d.change(func() bool {
		for _, s := range d.spans() {
			if revert {
				setBlockType(s.node, NodeParagraph, 0)
			} else {
				setBlockType(s.node, NodeHeading, level)
			}
		}
		return true
	})
}

func (d *Doc) ToggleCodeBlock() bool {
	revert := d.IsNodeActive(NodeCodeBlock, 0)
	return d.change(func() bool {
		for _, s := range d.spans() {
			if revert {
				setBlockType(s.node, NodeParagraph, 0)
			} else {
				setBlockType(s.node, NodeCodeBlock, 0)
			}
		}
		return true
	})
}

func setBlockType(n *Node, t NodeType, level int) {
	n.Type = t
	n.Level = level
	if t == NodeCodeBlock {
		n.Align = ""
		for _, r := range n.Content {
			r.Marks = nil
		}
		n.Content = normalizeInline(n.Content)
	}
}

// SetAlign aligns paragraphs and headings in the selection.
func (d *Doc) SetAlign(align string) bool {
	switch align {
	case AlignLeft:
		align = ""
	case AlignCenter, AlignRight:
	default:
		return false
	}
	return d.change(func() bool {
		applied := false
		for _, s := range d.spans() {
			if s.node.Type == NodeParagraph || s.node.Type == NodeHeading {
				s.node.Align = align
				applied = true
			}
		}
		return applied
	})
}

// ToggleList wraps the selected blocks in a list of type t. Inside a list
// of the same type the items are lifted out; inside a list of the other
// type the list kind is switched.
func (d *Doc) ToggleList(t NodeType) bool {
	if t != NodeBulletList && t != NodeOrderedList {
		return false
	}
	from, to := d.sel.From().Path, d.sel.To().Path
	if lp, ok := innermost(d.root, from, (*Node).IsList); ok && isPrefix(lp, to) {
		list := d.root.At(lp)
		if list.Type != t {
			return d.change(func() bool {
				list.Type = t
				return true
			})
		}
		return d.change(func() bool {
			pin := d.pin()
			d.liftListItems(lp, from[len(lp)], to[len(lp)])
			d.unpin(pin)
			return true
		})
	}
	return d.change(func() bool {
		pin := d.pin()
		ok := d.wrapRange(from, to, func(children []*Node) *Node {
			items := make([]*Node, len(children))
			for i, c := range children {
				items[i] = &Node{Type: NodeListItem, Content: []*Node{c}}
			}
			return &Node{Type: t, Content: items}
		})
		d.unpin(pin)
		return ok
	})
}

// liftListItems replaces items [i, j] of the list at lp with their content,
// splitting the list around them.
func (d *Doc) liftListItems(lp Path, i, j int) {
	list := d.root.At(lp)
	parent := d.root.At(lp[:len(lp)-1])
	idx := lp[len(lp)-1]

	var repl []*Node
	if i > 0 {
		repl = append(repl, &Node{Type: list.Type, Content: list.Content[:i]})
	}
	for _, item := range list.Content[i : j+1] {
		repl = append(repl, item.Content...)
	}
	if j+1 < len(list.Content) {
		repl = append(repl, &Node{Type: list.Type, Content: list.Content[j+1:]})
	}
	out := append([]*Node(nil), parent.Content[:idx]...)
	out = append(out, repl...)
	parent.Content = append(out, parent.Content[idx+1:]...)
}

// wrapRange replaces the sibling blocks covering from..to with wrap(blocks).
func (d *Doc) wrapRange(from, to Path, wrap func([]*Node) *Node) bool {
	cp, start, end, ok := blockRange(d.root, from, to)
	if !ok {
		return false
	}
	c := d.root.At(cp)
	children := append([]*Node(nil), c.Content[start:end+1]...)
	out := append([]*Node(nil), c.Content[:start]...)
	out = append(out, wrap(children))
	c.Content = append(out, c.Content[end+1:]...)
	return true
}

// ToggleBlockquote wraps the selection in a blockquote or unwraps the
// innermost blockquote around it.
func (d *Doc) ToggleBlockquote() bool {
	from, to := d.sel.From().Path, d.sel.To().Path
	isQuote := func(n *Node) bool { return n.Type == NodeBlockquote }
	if qp, ok := innermost(d.root, from, isQuote); ok && isPrefix(qp, to) {
		return d.change(func() bool {
			pin := d.pin()
			quote := d.root.At(qp)
			parent := d.root.At(qp[:len(qp)-1])
			idx := qp[len(qp)-1]
			out := append([]*Node(nil), parent.Content[:idx]...)
			out = append(out, quote.Content...)
			parent.Content = append(out, parent.Content[idx+1:]...)
			d.unpin(pin)
			return true
		})
	}
	return d.change(func() bool {
		pin := d.pin()
		ok := d.wrapRange(from, to, func(children []*Node) *Node {
			return &Node{Type: NodeBlockquote, Content: children}
		})
		d.unpin(pin)
		return ok
	})
}

// ClearFormatting strips marks, turns selected textblocks into plain
// paragraphs and lifts them out of lists and blockquotes. Text is kept.
func (d *Doc) ClearFormatting() bool {
	return d.change(func() bool {
		pin := d.pin()
		from, to := d.sel.From().Path, d.sel.To().Path
		for _, s := range d.spans() {
			mapMarks(s.node, s.from, s.to, func([]Mark) []Mark { return nil })
			s.node.Type = NodeParagraph
			s.node.Level = 0
			s.node.Align = ""
		}

		cp, start, end, ok := blockRange(d.root, from, to)
		for ok {
			c := d.root.At(cp)
			if c.Type == NodeDoc || c.IsCell() {
				break
			}
			cp, start, end = cp[:len(cp)-1], cp[len(cp)-1], cp[len(cp)-1]
		}
		if ok {
			c := d.root.At(cp)
			var flat []*Node
			for _, child := range c.Content[start : end+1] {
				flat = append(flat, unwrapBlocks(child)...)
			}
			out := append([]*Node(nil), c.Content[:start]...)
			out = append(out, flat...)
			c.Content = append(out, c.Content[end+1:]...)
		}
		d.clearStored()
		d.unpin(pin)
		return true
	})
}

func unwrapBlocks(n *Node) []*Node {
	switch {
	case n.Type == NodeBlockquote, n.IsList(), n.Type == NodeListItem:
		var out []*Node
		for _, c := range n.Content {
			out = append(out, unwrapBlocks(c)...)
		}
		return out
	}
	return []*Node{n}
}

// insertBlock places n at the head, splitting the current textblock if the
// cursor is inside its text. An empty paragraph is replaced.
func (d *Doc) insertBlock(n *Node) {
	path := d.sel.Head.Path
	tb := d.root.At(path)
	off := d.sel.Head.Offset
	parent := d.root.At(path[:len(path)-1])
	idx := path[len(path)-1]

	switch {
	case tb.Type == NodeParagraph && tb.TextLen() == 0:
		parent.Content[idx] = n
	case off == 0:
		parent.Content = insertAt(parent.Content, idx, n)
	case off >= tb.TextLen():
		parent.Content = insertAt(parent.Content, idx+1, n)
	default:
		left, right := splitInline(tb.Content, off)
		tb.Content = left
		rest := &Node{Type: tb.Type, Level: tb.Level, Align: tb.Align, Content: right}
		parent.Content = insertAt(parent.Content, idx+1, n, rest)
	}
}

// placeAfter moves the cursor to the textblock right after leaf, creating
// an empty paragraph when there is none.
func (d *Doc) placeAfter(leaf *Node) {
	p, _ := pathOf(d.root, leaf)
	parent := d.root.At(p[:len(p)-1])
	idx := p[len(p)-1]
	if idx+1 >= len(parent.Content) || !parent.Content[idx+1].IsTextblock() {
		parent.Content = insertAt(parent.Content, idx+1, newParagraph())
	}
	next := parent.Content[idx+1]
	np, _ := pathOf(d.root, next)
	d.sel = Cursor(Pos{Path: np})
}

func (d *Doc) InsertImage(src, alt string) bool {
	src, ok := NormalizeURL(src)
	if !ok {
		return false
	}
	return d.change(func() bool {
		img := &Node{Type: NodeImage, Src: src, Alt: alt}
		d.insertBlock(img)
		d.placeAfter(img)
		return true
	})
}

func (d *Doc) InsertHorizontalRule() bool {
	return d.change(func() bool {
		hr := &Node{Type: NodeHorizontalRule}
		d.insertBlock(hr)
		d.placeAfter(hr)
		return true
	})
}
