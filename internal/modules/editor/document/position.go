package document

import (
	"errors"
	"fmt"
)

var ErrInvalidPosition = errors.New("invalid position")

// Path is the list of child indexes leading from the root to a node.
type Path []int

// Compare orders paths in document order. A prefix sorts before its extensions.
func (p Path) Compare(o Path) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		if p[i] != o[i] {
			if p[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

func (p Path) clone() Path { return append(Path(nil), p...) }

// Pos addresses a rune offset inside a textblock.
type Pos struct {
	Path   Path
	Offset int
}

func (p Pos) Compare(o Pos) int {
	if c := p.Path.Compare(o.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

func (p Pos) clone() Pos { return Pos{Path: p.Path.clone(), Offset: p.Offset} }

// Selection is an anchor/head pair. Anchor == Head is a cursor.
type Selection struct {
	Anchor Pos
	Head   Pos
}

func Cursor(p Pos) Selection { return Selection{Anchor: p, Head: p} }

func (s Selection) Empty() bool { return s.Anchor.Compare(s.Head) == 0 }

func (s Selection) From() Pos {
	if s.Anchor.Compare(s.Head) <= 0 {
		return s.Anchor
	}
	return s.Head
}

func (s Selection) To() Pos {
	if s.Anchor.Compare(s.Head) <= 0 {
		return s.Head
	}
	return s.Anchor
}

func (s Selection) clone() Selection {
	return Selection{Anchor: s.Anchor.clone(), Head: s.Head.clone()}
}

// At returns the node at path p, or nil.
func (n *Node) At(p Path) *Node {
	cur := n
	for _, i := range p {
		if i < 0 || i >= len(cur.Content) {
			return nil
		}
		cur = cur.Content[i]
	}
	return cur
}

// textblocks returns the paths of every textblock in document order.
func textblocks(root *Node) []Path {
	var out []Path
	var walk func(n *Node, p Path)
	walk = func(n *Node, p Path) {
		if n.IsTextblock() {
			out = append(out, p.clone())
			return
		}
		for i, child := range n.Content {
			walk(child, append(p, i))
		}
	}
	walk(root, Path{})
	return out
}

// pathOf finds target below root by identity.
func pathOf(root, target *Node) (Path, bool) {
	var found Path
	var walk func(n *Node, p Path) bool
	walk = func(n *Node, p Path) bool {
		if n == target {
			found = p.clone()
			return true
		}
		for i, child := range n.Content {
			if walk(child, append(p, i)) {
				return true
			}
		}
		return false
	}
	if walk(root, Path{}) {
		return found, true
	}
	return nil, false
}

func validatePos(root *Node, p Pos) error {
	n := root.At(p.Path)
	if n == nil || !n.IsTextblock() {
		return fmt.Errorf("%w: %v is not a textblock", ErrInvalidPosition, p.Path)
	}
	if p.Offset < 0 || p.Offset > n.TextLen() {
		return fmt.Errorf("%w: offset %d outside 0..%d", ErrInvalidPosition, p.Offset, n.TextLen())
	}
	return nil
}

// ancestors returns the nodes along p from the root (exclusive of the target).
func ancestors(root *Node, p Path) []*Node {
	out := make([]*Node, 0, len(p))
	cur := root
	for _, i := range p {
		out = append(out, cur)
		cur = cur.Content[i]
	}
	return out
}

// innermost returns the path of the deepest ancestor of p matching fn.
func innermost(root *Node, p Path, fn func(*Node) bool) (Path, bool) {
	chain := ancestors(root, p)
	for i := len(chain) - 1; i >= 0; i-- {
		if fn(chain[i]) {
			return p[:i].clone(), true
		}
	}
	return nil, false
}

func isPrefix(prefix, p Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if prefix[i] != p[i] {
			return false
		}
	}
	return true
}

// blockRange finds the deepest free container holding both textblocks and
// the span of its children that covers them.
func blockRange(root *Node, from, to Path) (container Path, start, end int, ok bool) {
	n := 0
	for n < len(from) && n < len(to) && from[n] == to[n] {
		n++
	}
	if n == len(from) && n == len(to) {
		n--
	}
	for n >= 0 {
		c := root.At(from[:n])
		if c != nil && c.isContainer() {
			return from[:n].clone(), from[n], to[n], true
		}
		n--
	}
	return nil, 0, 0, false
}
