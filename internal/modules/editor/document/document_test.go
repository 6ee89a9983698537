package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalHTMLIsFixedPoint(t *testing.T) {
	cases := map[string]string{
		"paragraph": `<p>Hello <strong>world</strong></p>`,
		"aligned heading": `<h2 style="text-align: center">Title</h2>`,
		"bullet list":     `<ul><li><p>One</p></li><li><p>Two</p></li></ul>`,
		"ordered list":    `<ol><li><p>First</p></li></ol>`,
		"blockquote":      `<blockquote><p>Quote</p></blockquote>`,
		"code block":      `<pre><code>a &lt; b</code></pre>`,
		"link":            `<p><a target="_blank" rel="noopener noreferrer nofollow" href="https://example.com/path">link</a></p>`,
		"highlight":       `<p><mark data-color="#fef08a" style="background-color: #fef08a; color: inherit">hi</mark></p>`,
		"text colour":     `<p><span style="color: #dc2626">red</span></p>`,
		"nested marks":    `<p><strong><em>both</em></strong> plain</p>`,
		"rule":            `<hr><p>after</p>`,
		"hard break":      `<p>line one<br>line two</p>`,
		"marked break":    `<p><strong>a<br>b</strong></p>`,
		"image":           `<img src="https://cdn.example.com/a.png" alt="campus"><p></p>`,
		"table": `<table><tbody><tr><th colspan="1" rowspan="1"><p>A</p></th></tr>` +
			`<tr><td colspan="1" rowspan="1"><p>1</p></td></tr></tbody></table>`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(src, Serialize(Parse(src)))
		})
	}
}

func TestEmptyDocument(t *testing.T) {
	assert := require.New(t)
	for _, src := range []string{"", "<p></p>", "   "} {
		d := New(src)
		assert.Equal("", d.HTML())
		assert.True(d.IsEmpty())
	}
}

func TestParseDropsUnsafeMarkup(t *testing.T) {
	assert := require.New(t)
	d := New(`<p onclick="steal()">Hi<script>alert(1)</script></p>`)
	assert.Equal("<p>Hi</p>", d.HTML())

	d = New(`<a href="javascript:alert(1)">click</a>`)
	assert.Equal("<p>click</p>", d.HTML())
}

func TestParseNormalisesLegacyTags(t *testing.T) {
	assert := require.New(t)
	d := New(`<b>bold</b> <i>it</i> <h5>deep</h5>`)
	assert.Equal(`<p><strong>bold</strong> <em>it</em> </p><h3>deep</h3>`, d.HTML())
}

func TestToggleMarkTwiceRestoresText(t *testing.T) {
	assert := require.New(t)
	d := New("<p>Hello</p>")
	d.SelectAll()

	assert.True(d.ToggleMark(MarkBold))
	assert.Equal("<p><strong>Hello</strong></p>", d.HTML())
	assert.True(d.IsMarkActive(MarkBold))

	assert.True(d.ToggleMark(MarkBold))
	assert.Equal("<p>Hello</p>", d.HTML())
	assert.False(d.IsMarkActive(MarkBold))
}

func TestStoredMarksApplyToTypedText(t *testing.T) {
	assert := require.New(t)
	d := New("")
	assert.True(d.ToggleMark(MarkItalic))
	assert.True(d.InsertText("typed"))
	assert.Equal("<p><em>typed</em></p>", d.HTML())
}

func TestToggleHeadingAndHistory(t *testing.T) {
	assert := require.New(t)
	d := New("<p>Title</p>")

	assert.True(d.ToggleHeading(2))
	assert.Equal("<h2>Title</h2>", d.HTML())
	assert.True(d.IsNodeActive(NodeHeading, 2))

	assert.True(d.ToggleHeading(2))
	assert.Equal("<p>Title</p>", d.HTML())

	assert.True(d.Undo())
	assert.Equal("<h2>Title</h2>", d.HTML())
	assert.True(d.Redo())
	assert.Equal("<p>Title</p>", d.HTML())
	assert.False(d.CanRedo())
	assert.False(d.ToggleHeading(4))
}

func TestUndoAfterNoOpIsNotRecorded(t *testing.T) {
	assert := require.New(t)
	d := New("<p>Text</p>")
	assert.True(d.SetAlign(AlignLeft))
	assert.False(d.CanUndo())
}

func TestSetHTMLClearsHistory(t *testing.T) {
	assert := require.New(t)
	d := New("<p>a</p>")
	d.ToggleHeading(1)
	assert.True(d.CanUndo())
	d.SetHTML("<p>b</p>")
	assert.False(d.CanUndo())
	assert.Equal("<p>b</p>", d.HTML())
}

func TestToggleListWrapsSwitchesAndLifts(t *testing.T) {
	assert := require.New(t)
	d := New("<p>One</p><p>Two</p>")
	d.SelectAll()

	assert.True(d.ToggleList(NodeBulletList))
	assert.Equal("<ul><li><p>One</p></li><li><p>Two</p></li></ul>", d.HTML())
	assert.True(d.IsNodeActive(NodeBulletList, 0))

	assert.True(d.ToggleList(NodeOrderedList))
	assert.Equal("<ol><li><p>One</p></li><li><p>Two</p></li></ol>", d.HTML())

	assert.True(d.ToggleList(NodeOrderedList))
	assert.Equal("<p>One</p><p>Two</p>", d.HTML())
}

func TestSplitBlockInsideListStartsItem(t *testing.T) {
	assert := require.New(t)
	d := New("<ul><li><p>One</p></li></ul>")
	assert.NoError(d.SetSelection(Cursor(Pos{Path: Path{0, 0, 0}, Offset: 3})))
	assert.True(d.SplitBlock())
	assert.True(d.InsertText("Two"))
	assert.Equal("<ul><li><p>One</p></li><li><p>Two</p></li></ul>", d.HTML())
}

func TestBlockquoteToggle(t *testing.T) {
	assert := require.New(t)
	d := New("<p>Said</p>")
	assert.True(d.ToggleBlockquote())
	assert.Equal("<blockquote><p>Said</p></blockquote>", d.HTML())
	assert.True(d.IsNodeActive(NodeBlockquote, 0))
	assert.True(d.ToggleBlockquote())
	assert.Equal("<p>Said</p>", d.HTML())
}

func TestSetMarkRejectsBadValues(t *testing.T) {
	assert := require.New(t)
	d := New("<p>x</p>")
	d.SelectAll()
	assert.False(d.SetMark(Mark{Type: MarkLink, Value: "javascript:alert(1)"}))
	assert.False(d.SetMark(Mark{Type: MarkTextStyle, Value: "red"}))
	assert.True(d.SetMark(Mark{Type: MarkTextStyle, Value: "#DC2626"}))
	assert.Equal(`<p><span style="color: #dc2626">x</span></p>`, d.HTML())
}

func TestExtendMarkRangeCoversLink(t *testing.T) {
	assert := require.New(t)
	d := New(`<p>go <a href="https://a.example">here</a> now</p>`)
	assert.NoError(d.SetSelection(Cursor(Pos{Path: Path{0}, Offset: 5})))
	assert.True(d.ExtendMarkRange(MarkLink))
	sel := d.Selection()
	assert.Equal(3, sel.From().Offset)
	assert.Equal(7, sel.To().Offset)
	assert.True(d.UnsetMark(MarkLink))
	assert.Equal("<p>go here now</p>", d.HTML())
}

func TestTableCommands(t *testing.T) {
	assert := require.New(t)
	d := New("")
	assert.True(d.InsertTable(2, 2, true))
	assert.True(d.InTable())
	assert.Equal(
		`<table><tbody>`+
			`<tr><th colspan="1" rowspan="1"><p></p></th><th colspan="1" rowspan="1"><p></p></th></tr>`+
			`<tr><td colspan="1" rowspan="1"><p></p></td><td colspan="1" rowspan="1"><p></p></td></tr>`+
			`</tbody></table>`,
		d.HTML(),
	)
	assert.False(d.InsertTable(2, 2, true), "tables do not nest")

	assert.True(d.AddColumnBefore())
	for _, row := range d.Root().Content[0].Content {
		assert.Len(row.Content, 3)
	}
	assert.True(d.AddRowBefore())
	assert.Len(d.Root().Content[0].Content, 3)

	assert.True(d.DeleteTable())
	assert.False(d.InTable())
	assert.Equal("", d.HTML())
}

func TestInsertImageSkipsInvalidURL(t *testing.T) {
	assert := require.New(t)
	d := New("")
	assert.False(d.InsertImage("javascript:alert(1)", ""))
	assert.True(d.InsertImage("/static/a.png", "A"))
	assert.Equal(`<img src="/static/a.png" alt="A"><p></p>`, d.HTML())
}

func TestClearFormattingFlattens(t *testing.T) {
	assert := require.New(t)
	d := New(`<blockquote><h2><strong>Loud</strong></h2></blockquote>`)
	d.SelectAll()
	assert.True(d.ClearFormatting())
	assert.Equal("<p>Loud</p>", d.HTML())
}

func TestSelectionValidation(t *testing.T) {
	assert := require.New(t)
	d := New("<p>abc</p>")
	assert.ErrorIs(d.SetSelection(Cursor(Pos{Path: Path{0}, Offset: 9})), ErrInvalidPosition)
	assert.ErrorIs(d.SetSelection(Cursor(Pos{Path: Path{3}})), ErrInvalidPosition)
}

func TestCloneIsIndependent(t *testing.T) {
	assert := require.New(t)
	d := New("<p>a</p>")
	c := d.Clone()
	c.ToggleHeading(1)
	assert.Equal("<p>a</p>", d.HTML())
	assert.Equal("<h1>a</h1>", c.HTML())
}

func TestHardBreaks(t *testing.T) {
	assert := require.New(t)

	d := New("<p>line one<br>line two</p>")
	assert.Equal("<p>line one<br>line two</p>", d.HTML())
	assert.Equal("line one\nline two", d.Text())

	// the newline goldmark writes after <br /> is not a second break
	assert.Equal("<p>line one<br>line two</p>", New("<p>line one<br />\nline two</p>").HTML())
	// a bare source newline is whitespace
	assert.Equal("<p>soft wrap</p>", New("<p>soft\nwrap</p>").HTML())
	assert.Equal("<pre><code>a\nb</code></pre>", New("<pre><code>a\nb</code></pre>").HTML())
}

func TestDeleteAcrossNestingDepths(t *testing.T) {
	assert := require.New(t)

	d := New("<p>alpha</p><ul><li><p>beta</p></li></ul>")
	assert.NoError(d.SetSelection(Selection{
		Anchor: Pos{Path: Path{0}, Offset: 2},
		Head:   Pos{Path: Path{1, 0, 0}, Offset: 2},
	}))
	assert.True(d.InsertText("X"))
	assert.Equal("<p>alXta</p>", d.HTML())
	assert.True(d.Undo())
	assert.Equal("<p>alpha</p><ul><li><p>beta</p></li></ul>", d.HTML())

	d = New("<ul><li><p>one</p></li><li><p>two</p></li></ul><blockquote><p>three</p></blockquote><p>four</p>")
	assert.NoError(d.SetSelection(Selection{
		Anchor: Pos{Path: Path{2}, Offset: 2},
		Head:   Pos{Path: Path{0, 0, 0}, Offset: 1},
	}))
	assert.True(d.SplitBlock())
	assert.Equal("<ul><li><p>o</p></li><li><p>ur</p></li></ul>", d.HTML())
}

func TestDeleteRefusesToCrossTableCells(t *testing.T) {
	assert := require.New(t)
	src := `<table><tbody><tr><td colspan="1" rowspan="1"><p>a</p></td>` +
		`<td colspan="1" rowspan="1"><p>b</p></td></tr></tbody></table><p>c</p>`
	d := New(src)
	assert.NoError(d.SetSelection(Selection{
		Anchor: Pos{Path: Path{0, 0, 0, 0}, Offset: 0},
		Head:   Pos{Path: Path{0, 0, 1, 0}, Offset: 1},
	}))
	assert.False(d.InsertText("X"))
	assert.Equal(src, d.HTML())
	assert.False(d.CanUndo())
}
