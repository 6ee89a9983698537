package document

// HistoryDepth bounds the undo stack.
const HistoryDepth = 100

type snapshot struct {
	root *Node
	sel  Selection
}

type history struct {
	undo []snapshot
	redo []snapshot
}

func (h *history) push(s snapshot) {
	h.undo = append(h.undo, s)
	if len(h.undo) > HistoryDepth {
		h.undo = h.undo[len(h.undo)-HistoryDepth:]
	}
	h.redo = nil
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}

func (d *Doc) snapshot() snapshot {
	return snapshot{root: d.root.Clone(), sel: d.sel.clone()}
}

// restore copies the snapshot so stored history is never mutated.
func (d *Doc) restore(s snapshot) {
	d.root = s.root.Clone()
	d.sel = s.sel.clone()
	d.clearStored()
}

func (d *Doc) CanUndo() bool { return len(d.hist.undo) > 0 }

func (d *Doc) CanRedo() bool { return len(d.hist.redo) > 0 }

// Undo reverts the last document change. It reports false when there is
// nothing to undo.
func (d *Doc) Undo() bool {
	if !d.CanUndo() {
		return false
	}
	last := d.hist.undo[len(d.hist.undo)-1]
	d.hist.undo = d.hist.undo[:len(d.hist.undo)-1]
	d.hist.redo = append(d.hist.redo, d.snapshot())
	d.restore(last)
	return true
}

func (d *Doc) Redo() bool {
	if !d.CanRedo() {
		return false
	}
	next := d.hist.redo[len(d.hist.redo)-1]
	d.hist.redo = d.hist.redo[:len(d.hist.redo)-1]
	d.hist.undo = append(d.hist.undo, d.snapshot())
	d.restore(next)
	return true
}
