package editor

import (
	"testing"

	"github.com/campusgrid/cms-core/internal/modules/editor/document"
	"github.com/campusgrid/cms-core/internal/pkg/sanitize"
	"github.com/stretchr/testify/require"
)

type recorder struct{ calls []string }

func (r *recorder) onChange(html string) { r.calls = append(r.calls, html) }

func TestExecEmitsChangedHTML(t *testing.T) {
	assert := require.New(t)
	rec := &recorder{}
	e := New("<p>Hello</p>", rec.onChange, "Write something")
	e.SelectAll()

	ok, err := e.Exec(CmdBold)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal([]string{"<p><strong>Hello</strong></p>"}, rec.calls)
	assert.True(e.IsActive(CmdBold))

	ok, err = e.Exec(CmdBold)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("<p>Hello</p>", rec.calls[1])
	assert.Equal("Write something", e.Placeholder())
}

func TestHeadingToggleRoundTrips(t *testing.T) {
	assert := require.New(t)
	e := New("<p>Admissions</p>", nil, "")
	_, err := e.Exec(CmdHeading2)
	assert.NoError(err)
	assert.Equal("<h2>Admissions</h2>", e.HTML())
	assert.True(e.IsActive(CmdHeading2))
	assert.False(e.IsActive(CmdHeading1))

	_, err = e.Exec(CmdHeading2)
	assert.NoError(err)
	assert.Equal("<p>Admissions</p>", e.HTML())
}

func TestUnknownCommand(t *testing.T) {
	assert := require.New(t)
	e := New("", nil, "")
	_, err := e.Exec(Command("explode"))
	assert.ErrorIs(err, ErrUnknownCommand)
	assert.False(e.CanExec(Command("explode")))
}

func TestUndoRedoThroughCommands(t *testing.T) {
	assert := require.New(t)
	e := New("<p>x</p>", nil, "")
	assert.False(e.CanExec(CmdUndo))

	_, err := e.Exec(CmdBlockquote)
	assert.NoError(err)
	assert.True(e.CanExec(CmdUndo))

	ok, err := e.Exec(CmdUndo)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("<p>x</p>", e.HTML())

	ok, err = e.Exec(CmdRedo)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("<blockquote><p>x</p></blockquote>", e.HTML())
}

func TestLinkPromptCancelIsNoOp(t *testing.T) {
	assert := require.New(t)
	rec := &recorder{}
	e := New("<p>site</p>", rec.onChange, "", WithPrompter(PromptFunc(func(string, string) (string, bool) {
		return "", false
	})))
	e.SelectAll()

	ok, err := e.Exec(CmdLink)
	assert.NoError(err)
	assert.False(ok)
	assert.Equal("<p>site</p>", e.HTML())
	assert.Empty(rec.calls)
}

func TestLinkPromptSetsAndRemoves(t *testing.T) {
	assert := require.New(t)
	answer := "https://college.example.edu"
	var seen string
	e := New("<p>site</p>", nil, "", WithPrompter(PromptFunc(func(_, initial string) (string, bool) {
		seen = initial
		return answer, true
	})))
	e.SelectAll()

	ok, err := e.Exec(CmdLink)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(`<p><a target="_blank" rel="noopener noreferrer nofollow" href="https://college.example.edu">site</a></p>`, e.HTML())

	assert.NoError(e.Select(document.Pos{Path: document.Path{0}, Offset: 2}, document.Pos{Path: document.Path{0}, Offset: 2}))
	answer = ""
	ok, err = e.Exec(CmdLink)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("https://college.example.edu", seen)
	assert.Equal("<p>site</p>", e.HTML())
}

func TestLinkRejectsUnsafeURL(t *testing.T) {
	assert := require.New(t)
	e := New("<p>x</p>", nil, "")
	e.SelectAll()
	_, err := e.Exec(CmdLink, "javascript:alert(1)")
	assert.ErrorIs(err, ErrInvalidURL)
	assert.Equal("<p>x</p>", e.HTML())
}

func TestImagePromptCancelAndEmptyAreNoOps(t *testing.T) {
	assert := require.New(t)
	replies := []struct {
		value string
		ok    bool
	}{{"", false}, {"   ", true}}
	for _, r := range replies {
		rec := &recorder{}
		e := New("<p>body</p>", rec.onChange, "", WithPrompter(PromptFunc(func(string, string) (string, bool) {
			return r.value, r.ok
		})))
		ok, err := e.Exec(CmdImage)
		assert.NoError(err)
		assert.False(ok)
		assert.Equal("<p>body</p>", e.HTML())
		assert.Empty(rec.calls)
	}
}

func TestImageInsertWithAlt(t *testing.T) {
	assert := require.New(t)
	e := New("", nil, "")
	ok, err := e.Exec(CmdImage, "https://cdn.example.com/gate.jpg", "Main gate")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(`<img src="https://cdn.example.com/gate.jpg" alt="Main gate"><p></p>`, e.HTML())
}

func TestPickersAreExclusive(t *testing.T) {
	assert := require.New(t)
	e := New("<p>tint</p>", nil, "")
	assert.Equal(PickerNone, e.Picker())

	e.TogglePicker(PickerTextColor)
	assert.Equal(PickerTextColor, e.Picker())
	e.TogglePicker(PickerHighlight)
	assert.Equal(PickerHighlight, e.Picker())
	e.TogglePicker(PickerHighlight)
	assert.Equal(PickerNone, e.Picker())

	_, err := e.ChooseSwatch("#fef08a")
	assert.ErrorIs(err, ErrNoPicker)
}

func TestChooseSwatchAppliesAndCloses(t *testing.T) {
	assert := require.New(t)
	e := New("<p>tint</p>", nil, "")
	e.SelectAll()

	e.TogglePicker(PickerTextColor)
	ok, err := e.ChooseSwatch("#DC2626")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(PickerNone, e.Picker())
	assert.Equal(`<p><span style="color: #dc2626">tint</span></p>`, e.HTML())

	e.TogglePicker(PickerHighlight)
	ok, err = e.ChooseSwatch("#bbf7d0")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(`<p><mark data-color="#bbf7d0" style="background-color: #bbf7d0; color: inherit"><span style="color: #dc2626">tint</span></mark></p>`, e.HTML())

	e.TogglePicker(PickerTextColor)
	ok, err = e.ResetSwatch()
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(PickerNone, e.Picker())
	assert.Equal(`<p><mark data-color="#bbf7d0" style="background-color: #bbf7d0; color: inherit">tint</mark></p>`, e.HTML())
}

func TestColorOutsidePaletteRejected(t *testing.T) {
	assert := require.New(t)
	e := New("<p>x</p>", nil, "")
	e.SelectAll()
	e.TogglePicker(PickerTextColor)
	_, err := e.ChooseSwatch("#123456")
	assert.ErrorIs(err, ErrUnknownColor)
	assert.Equal(PickerTextColor, e.Picker())
	_, err = e.Exec(CmdHighlight)
	assert.ErrorIs(err, ErrMissingArgument)
}

func TestTableCommandsNeedTable(t *testing.T) {
	assert := require.New(t)
	e := New("", nil, "")
	assert.False(e.CanExec(CmdAddRowBefore))
	assert.False(e.CanExec(CmdDeleteTable))

	ok, err := e.Exec(CmdInsertTable)
	assert.NoError(err)
	assert.True(ok)
	assert.True(e.CanExec(CmdAddColumnBefore))
	assert.False(e.CanExec(CmdInsertTable))

	ok, err = e.Exec(CmdDeleteTable)
	assert.NoError(err)
	assert.True(ok)
	assert.True(e.IsEmpty())
}

func TestMarksDisabledInCodeBlock(t *testing.T) {
	assert := require.New(t)
	e := New("<pre><code>x := 1</code></pre>", nil, "")
	assert.False(e.CanExec(CmdBold))
	assert.False(e.CanExec(CmdLink))
	assert.True(e.CanExec(CmdCodeBlock))
	assert.True(e.IsActive(CmdCodeBlock))
}

func TestToolbarOrderAndState(t *testing.T) {
	assert := require.New(t)
	e := New("<h1>Top</h1>", nil, "")
	items := e.Toolbar()
	assert.Len(items, len(toolbarOrder))
	assert.Equal(CmdUndo, items[0].Command)
	assert.False(items[0].Enabled)
	for _, it := range items {
		if it.Command == CmdHeading1 {
			assert.True(it.Active)
			assert.Equal("Heading 1", it.Label)
		}
	}
}

func TestSetContentResetsHistory(t *testing.T) {
	assert := require.New(t)
	rec := &recorder{}
	e := New("<p>a</p>", rec.onChange, "")
	_, _ = e.Exec(CmdHeading1)
	e.SetContent("<p>loaded</p>")
	assert.False(e.CanExec(CmdUndo))
	assert.Equal("<p>loaded</p>", rec.calls[len(rec.calls)-1])
	assert.Equal(1, e.WordCount())
}

func TestEditorOutputSurvivesSanitizer(t *testing.T) {
	assert := require.New(t)
	e := New("", nil, "")
	e.InsertText("Campus life")
	e.SelectAll()
	_, _ = e.Exec(CmdBold)
	_, _ = e.Exec(CmdHighlight, "#fef08a")
	_, _ = e.Exec(CmdAlignCenter)
	_, _ = e.Exec(CmdLink, "https://example.edu/?a=1&b=2")
	end := document.Pos{Path: document.Path{0}, Offset: len("Campus life")}
	assert.NoError(e.Select(end, end))
	e.SplitBlock()
	_, _ = e.Exec(CmdInsertTable)
	e.InsertText("Fees")

	html := e.HTML()
	assert.NotEmpty(html)
	assert.Equal(html, sanitize.HTML(html))
	assert.Equal(html, document.Serialize(document.Parse(html)))
}

func TestPickerInsideCodeBlock(t *testing.T) {
	assert := require.New(t)
	e := New("<p>text</p>", nil, "")
	e.TogglePicker(PickerTextColor)
	assert.Equal(PickerTextColor, e.Picker())

	e.SetContent("<pre><code>x</code></pre>")
	ok, err := e.ChooseSwatch("#dc2626")
	assert.NoError(err)
	assert.False(ok)
	assert.Equal(PickerNone, e.Picker())

	e.TogglePicker(PickerHighlight)
	assert.Equal(PickerNone, e.Picker())
}
