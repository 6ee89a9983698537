package document

import "unicode/utf8"

// normalizeInline drops empty runs and merges neighbours with equal marks.
func normalizeInline(runs []*Node) []*Node {
	var out []*Node
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		r.Marks = sortMarks(r.Marks)
		if len(out) > 0 && marksEqual(out[len(out)-1].Marks, r.Marks) {
			out[len(out)-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// splitInline cuts runs at a rune offset. The input is not modified.
func splitInline(runs []*Node, off int) (left, right []*Node) {
	pos := 0
	for _, r := range runs {
		runes := []rune(r.Text)
		n := len(runes)
		switch {
		case pos+n <= off:
			left = append(left, newText(r.Text, r.Marks))
		case pos >= off:
			right = append(right, newText(r.Text, r.Marks))
		default:
			cut := off - pos
			left = append(left, newText(string(runes[:cut]), r.Marks))
			right = append(right, newText(string(runes[cut:]), r.Marks))
		}
		pos += n
	}
	return normalizeInline(left), normalizeInline(right)
}

// mapMarks rewrites the marks of every rune in [from, to) of a textblock.
func mapMarks(tb *Node, from, to int, fn func([]Mark) []Mark) {
	if from >= to {
		return
	}
	left, rest := splitInline(tb.Content, from)
	mid, right := splitInline(rest, to-from)
	for _, r := range mid {
		r.Marks = sortMarks(fn(append([]Mark(nil), r.Marks...)))
	}
	out := append(append(left, mid...), right...)
	tb.Content = normalizeInline(out)
}

// rangeMarkState reports whether every rune in [from, to) carries t, and
// whether the range contains any rune at all.
func rangeMarkState(tb *Node, from, to int, t MarkType) (all, any bool) {
	all = true
	pos := 0
	for _, r := range tb.Content {
		n := utf8.RuneCountInString(r.Text)
		if pos < to && pos+n > from {
			any = true
			if !hasMark(r.Marks, t) {
				all = false
			}
		}
		pos += n
	}
	return all && any, any
}

// runAt returns the run containing the rune at offset off.
func runAt(tb *Node, off int) *Node {
	pos := 0
	for _, r := range tb.Content {
		n := utf8.RuneCountInString(r.Text)
		if off >= pos && off < pos+n {
			return r
		}
		pos += n
	}
	return nil
}

// marksAt returns the marks typing at off would inherit. Links do not
// extend past their end.
func marksAt(tb *Node, off int) []Mark {
	if off > 0 {
		before := runAt(tb, off-1)
		if before == nil {
			return nil
		}
		ms := before.Marks
		if hasMark(ms, MarkLink) {
			after := runAt(tb, off)
			if after == nil || markValue(after.Marks, MarkLink) != markValue(ms, MarkLink) {
				ms = withoutMark(ms, MarkLink)
			}
		}
		return append([]Mark(nil), ms...)
	}
	if r := runAt(tb, 0); r != nil {
		return withoutMark(r.Marks, MarkLink)
	}
	return nil
}

// markExtent returns the span around off covered by a contiguous mark of
// type t with the same value.
func markExtent(tb *Node, off int, t MarkType) (from, to int, ok bool) {
	run := runAt(tb, off)
	if run == nil || !hasMark(run.Marks, t) {
		if off == 0 {
			return 0, 0, false
		}
		run = runAt(tb, off-1)
		if run == nil || !hasMark(run.Marks, t) {
			return 0, 0, false
		}
	}
	value := markValue(run.Marks, t)

	pos := 0
	from = -1
	for _, r := range tb.Content {
		n := utf8.RuneCountInString(r.Text)
		if hasMark(r.Marks, t) && markValue(r.Marks, t) == value {
			if from < 0 {
				from = pos
			}
			to = pos + n
		} else if from >= 0 {
			if off >= from && off <= to {
				return from, to, true
			}
			from = -1
		}
		pos += n
	}
	if from >= 0 && off >= from && off <= to {
		return from, to, true
	}
	return 0, 0, false
}

func insertInline(tb *Node, off int, text string, marks []Mark) {
	left, right := splitInline(tb.Content, off)
	out := append(left, newText(text, marks))
	tb.Content = normalizeInline(append(out, right...))
}

// deleteInline removes runes in [from, to).
func deleteInline(tb *Node, from, to int) {
	if from >= to {
		return
	}
	left, rest := splitInline(tb.Content, from)
	_, right := splitInline(rest, to-from)
	tb.Content = normalizeInline(append(left, right...))
}
