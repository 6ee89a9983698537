package document

func newCell(t NodeType) *Node {
	return &Node{Type: t, Content: []*Node{newParagraph()}}
}

// InsertTable inserts a rows×cols table at the cursor and moves the cursor
// into its first cell. Tables do not nest.
func (d *Doc) InsertTable(rows, cols int, withHeader bool) bool {
	if rows < 1 || cols < 1 || d.InTable() {
		return false
	}
	return d.change(func() bool {
		table := &Node{Type: NodeTable}
		for r := 0; r < rows; r++ {
			cellType := NodeTableCell
			if withHeader && r == 0 {
				cellType = NodeTableHeader
			}
			row := &Node{Type: NodeTableRow}
			for c := 0; c < cols; c++ {
				row.Content = append(row.Content, newCell(cellType))
			}
			table.Content = append(table.Content, row)
		}
		d.insertBlock(table)
		first := table.Content[0].Content[0].Content[0]
		p, _ := pathOf(d.root, first)
		d.sel = Cursor(Pos{Path: p})
		return true
	})
}

// tableCursor locates the table, row and column of the selection start.
func (d *Doc) tableCursor() (tp Path, row, col int, ok bool) {
	from := d.sel.From().Path
	tp, ok = innermost(d.root, from, func(n *Node) bool { return n.Type == NodeTable })
	if !ok || len(from) < len(tp)+2 {
		return nil, 0, 0, false
	}
	return tp, from[len(tp)], from[len(tp)+1], true
}

func rowIsHeader(table *Node, r int) bool {
	if r < 0 || r >= len(table.Content) {
		return false
	}
	for _, c := range table.Content[r].Content {
		if c.Type != NodeTableHeader {
			return false
		}
	}
	return len(table.Content[r].Content) > 0
}

func columnIsHeader(table *Node, col int) bool {
	if col < 0 {
		return false
	}
	for _, row := range table.Content {
		if col >= len(row.Content) || row.Content[col].Type != NodeTableHeader {
			return false
		}
	}
	return len(table.Content) > 0
}

// AddColumnBefore inserts a column left of the cursor's column. Cell types
// follow the neighbouring column unless that column is all header cells.
func (d *Doc) AddColumnBefore() bool {
	tp, _, col, ok := d.tableCursor()
	if !ok {
		return false
	}
	return d.change(func() bool {
		pin := d.pin()
		table := d.root.At(tp)
		ref := col
		if col > 0 {
			ref = col - 1
		}
		if columnIsHeader(table, ref) {
			if col == 0 {
				ref = -1
			} else {
				ref = col
			}
		}
		for _, row := range table.Content {
			t := NodeTableCell
			if ref >= 0 && ref < len(row.Content) {
				t = row.Content[ref].Type
			}
			at := min(col, len(row.Content))
			row.Content = insertAt(row.Content, at, newCell(t))
		}
		d.unpin(pin)
		return true
	})
}

// AddRowBefore inserts a row above the cursor's row with the same width.
func (d *Doc) AddRowBefore() bool {
	tp, row, _, ok := d.tableCursor()
	if !ok {
		return false
	}
	return d.change(func() bool {
		pin := d.pin()
		table := d.root.At(tp)
		ref := row
		if row > 0 {
			ref = row - 1
		}
		if rowIsHeader(table, ref) {
			if row == 0 {
				ref = -1
			} else {
				ref = row
			}
		}
		width := len(table.Content[row].Content)
		nr := &Node{Type: NodeTableRow}
		for c := 0; c < width; c++ {
			t := NodeTableCell
			if ref >= 0 && c < len(table.Content[ref].Content) {
				t = table.Content[ref].Content[c].Type
			}
			nr.Content = append(nr.Content, newCell(t))
		}
		table.Content = insertAt(table.Content, row, nr)
		d.unpin(pin)
		return true
	})
}

// DeleteTable removes the table around the cursor. The cursor moves to the
// first textblock after it, or the last one before it.
func (d *Doc) DeleteTable() bool {
	tp, _, _, ok := d.tableCursor()
	if !ok {
		return false
	}
	return d.change(func() bool {
		parent := d.root.At(tp[:len(tp)-1])
		idx := tp[len(tp)-1]
		parent.Content = removeAt(parent.Content, idx)
		ensureTextblock(d.root)

		blocks := textblocks(d.root)
		target := blocks[len(blocks)-1]
		for _, p := range blocks {
			if p.Compare(tp) >= 0 {
				target = p
				break
			}
		}
		d.sel = Cursor(Pos{Path: target})
		return true
	})
}
