package editor

import (
	"strconv"
	"strings"

	"github.com/campusgrid/cms-core/internal/modules/editor/document"
)

type Command string

const (
	CmdBold            Command = "bold"
	CmdItalic          Command = "italic"
	CmdUnderline       Command = "underline"
	CmdStrike          Command = "strike"
	CmdTextColor       Command = "textColor"
	CmdUnsetTextColor  Command = "unsetTextColor"
	CmdHighlight       Command = "highlight"
	CmdUnsetHighlight  Command = "unsetHighlight"
	CmdHeading1        Command = "heading1"
	CmdHeading2        Command = "heading2"
	CmdHeading3        Command = "heading3"
	CmdBulletList      Command = "bulletList"
	CmdOrderedList     Command = "orderedList"
	CmdBlockquote      Command = "blockquote"
	CmdAlignLeft       Command = "alignLeft"
	CmdAlignCenter     Command = "alignCenter"
	CmdAlignRight      Command = "alignRight"
	CmdLink            Command = "link"
	CmdImage           Command = "image"
	CmdInsertTable     Command = "insertTable"
	CmdAddColumnBefore Command = "addColumnBefore"
	CmdAddRowBefore    Command = "addRowBefore"
	CmdDeleteTable     Command = "deleteTable"
	CmdCode            Command = "code"
	CmdCodeBlock       Command = "codeBlock"
	CmdHorizontalRule  Command = "horizontalRule"
	CmdClearFormatting Command = "clearFormatting"
	CmdUndo            Command = "undo"
	CmdRedo            Command = "redo"
)

// Inserted tables start with this shape, header row included.
const (
	TableRows = 3
	TableCols = 3
)

type runFunc func(e *Editor, m document.Model, args []string) (bool, error)

type commandSpec struct {
	label  string
	group  string
	run    runFunc
	active func(m document.Model) bool
	can    func(m document.Model) bool
}

// toolbarOrder is the order buttons appear in.
var toolbarOrder = []Command{
	CmdUndo, CmdRedo,
	CmdBold, CmdItalic, CmdUnderline, CmdStrike, CmdCode,
	CmdTextColor, CmdHighlight,
	CmdHeading1, CmdHeading2, CmdHeading3,
	CmdBulletList, CmdOrderedList, CmdBlockquote, CmdCodeBlock,
	CmdAlignLeft, CmdAlignCenter, CmdAlignRight,
	CmdLink, CmdImage, CmdHorizontalRule,
	CmdInsertTable, CmdAddColumnBefore, CmdAddRowBefore, CmdDeleteTable,
	CmdClearFormatting,
}

var commands map[Command]commandSpec

func init() {
	commands = map[Command]commandSpec{
		CmdBold:      markCommand("Bold", document.MarkBold),
		CmdItalic:    markCommand("Italic", document.MarkItalic),
		CmdUnderline: markCommand("Underline", document.MarkUnderline),
		CmdStrike:    markCommand("Strikethrough", document.MarkStrike),
		CmdCode:      markCommand("Inline code", document.MarkCode),

		CmdTextColor:      colorCommand("Text color", document.MarkTextStyle, TextColors),
		CmdUnsetTextColor: unsetCommand("Reset color", document.MarkTextStyle),
		CmdHighlight:      colorCommand("Highlight", document.MarkHighlight, HighlightColors),
		CmdUnsetHighlight: unsetCommand("Remove highlight", document.MarkHighlight),

		CmdHeading1: headingCommand(1),
		CmdHeading2: headingCommand(2),
		CmdHeading3: headingCommand(3),

		CmdBulletList:  listCommand("Bullet list", document.NodeBulletList),
		CmdOrderedList: listCommand("Numbered list", document.NodeOrderedList),
		CmdBlockquote: {
			label:  "Quote",
			group:  "block",
			run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.ToggleBlockquote(), nil },
			active: func(m document.Model) bool { return m.IsNodeActive(document.NodeBlockquote, 0) },
			can:    func(m document.Model) bool { return m.Clone().ToggleBlockquote() },
		},
		CmdCodeBlock: {
			label:  "Code block",
			group:  "block",
			run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.ToggleCodeBlock(), nil },
			active: func(m document.Model) bool { return m.IsNodeActive(document.NodeCodeBlock, 0) },
			can:    always,
		},

		CmdAlignLeft:   alignCommand("Align left", document.AlignLeft),
		CmdAlignCenter: alignCommand("Align center", document.AlignCenter),
		CmdAlignRight:  alignCommand("Align right", document.AlignRight),

		CmdLink: {
			label:  "Link",
			group:  "insert",
			run:    runLink,
			active: func(m document.Model) bool { return m.IsMarkActive(document.MarkLink) },
			can:    notInCode,
		},
		CmdImage: {
			label:  "Image",
			group:  "insert",
			run:    runImage,
			active: never,
			can:    always,
		},
		CmdHorizontalRule: {
			label:  "Horizontal rule",
			group:  "insert",
			run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.InsertHorizontalRule(), nil },
			active: never,
			can:    always,
		},

		CmdInsertTable: {
			label: "Insert table",
			group: "table",
			run: func(_ *Editor, m document.Model, _ []string) (bool, error) {
				return m.InsertTable(TableRows, TableCols, true), nil
			},
			active: never,
			can:    func(m document.Model) bool { return !m.InTable() },
		},
		CmdAddColumnBefore: tableCommand("Add column before", document.Model.AddColumnBefore),
		CmdAddRowBefore:    tableCommand("Add row before", document.Model.AddRowBefore),
		CmdDeleteTable:     tableCommand("Delete table", document.Model.DeleteTable),

		CmdClearFormatting: {
			label:  "Clear formatting",
			group:  "history",
			run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.ClearFormatting(), nil },
			active: never,
			can:    always,
		},
		CmdUndo: {
			label:  "Undo",
			group:  "history",
			run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.Undo(), nil },
			active: never,
			can:    document.Model.CanUndo,
		},
		CmdRedo: {
			label:  "Redo",
			group:  "history",
			run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.Redo(), nil },
			active: never,
			can:    document.Model.CanRedo,
		},
	}
}

func always(document.Model) bool { return true }

func never(document.Model) bool { return false }

func notInCode(m document.Model) bool { return !m.InCodeBlock() }

func markCommand(label string, t document.MarkType) commandSpec {
	return commandSpec{
		label:  label,
		group:  "mark",
		run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.ToggleMark(t), nil },
		active: func(m document.Model) bool { return m.IsMarkActive(t) },
		can:    notInCode,
	}
}

func colorCommand(label string, t document.MarkType, palette []Swatch) commandSpec {
	return commandSpec{
		label: label,
		group: "color",
		run: func(e *Editor, m document.Model, args []string) (bool, error) {
			if len(args) == 0 {
				return false, ErrMissingArgument
			}
			color := strings.ToLower(strings.TrimSpace(args[0]))
			if !inPalette(palette, color) {
				return false, ErrUnknownColor
			}
			e.picker = PickerNone
			return m.SetMark(document.Mark{Type: t, Value: color}), nil
		},
		active: func(m document.Model) bool { return m.IsMarkActive(t) },
		can:    notInCode,
	}
}

func unsetCommand(label string, t document.MarkType) commandSpec {
	return commandSpec{
		label: label,
		group: "color",
		run: func(e *Editor, m document.Model, _ []string) (bool, error) {
			e.picker = PickerNone
			return m.UnsetMark(t), nil
		},
		active: never,
		can:    notInCode,
	}
}

func headingCommand(level int) commandSpec {
	return commandSpec{
		label:  "Heading " + strconv.Itoa(level),
		group:  "block",
		run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.ToggleHeading(level), nil },
		active: func(m document.Model) bool { return m.IsNodeActive(document.NodeHeading, level) },
		can:    always,
	}
}

func listCommand(label string, t document.NodeType) commandSpec {
	return commandSpec{
		label:  label,
		group:  "block",
		run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.ToggleList(t), nil },
		active: func(m document.Model) bool { return m.IsNodeActive(t, 0) },
		can:    func(m document.Model) bool { return m.Clone().ToggleList(t) },
	}
}

func alignCommand(label, align string) commandSpec {
	return commandSpec{
		label:  label,
		group:  "align",
		run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return m.SetAlign(align), nil },
		active: func(m document.Model) bool { return m.Align() == align },
		can:    notInCode,
	}
}

func tableCommand(label string, op func(document.Model) bool) commandSpec {
	return commandSpec{
		label:  label,
		group:  "table",
		run:    func(_ *Editor, m document.Model, _ []string) (bool, error) { return op(m), nil },
		active: never,
		can:    document.Model.InTable,
	}
}

// runLink prompts for a URL. Cancel is a no-op; an empty URL removes the
// link around the cursor.
func runLink(e *Editor, m document.Model, args []string) (bool, error) {
	var href string
	if len(args) > 0 {
		href = args[0]
	} else {
		v, ok := e.prompter.Prompt("URL", m.MarkValue(document.MarkLink))
		if !ok {
			return false, nil
		}
		href = v
	}
	href = strings.TrimSpace(href)
	if href == "" {
		m.ExtendMarkRange(document.MarkLink)
		return m.UnsetMark(document.MarkLink), nil
	}
	if _, ok := document.NormalizeURL(href); !ok {
		return false, ErrInvalidURL
	}
	m.ExtendMarkRange(document.MarkLink)
	return m.SetMark(document.Mark{Type: document.MarkLink, Value: href}), nil
}

// runImage prompts for an image URL. Cancel and empty input are no-ops.
func runImage(e *Editor, m document.Model, args []string) (bool, error) {
	var src string
	if len(args) > 0 {
		src = args[0]
	} else {
		v, ok := e.prompter.Prompt("Image URL", "")
		if !ok {
			return false, nil
		}
		src = v
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return false, nil
	}
	if _, ok := document.NormalizeURL(src); !ok {
		return false, ErrInvalidURL
	}
	alt := ""
	if len(args) > 1 {
		alt = args[1]
	}
	return m.InsertImage(src, alt), nil
}
