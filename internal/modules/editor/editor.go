// Package editor is the rich content editing surface: toolbar commands
// dispatched to a document model, colour pickers, prompts for links and
// images, and an onChange callback fed with fresh HTML after every edit.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusgrid/cms-core/internal/modules/editor/document"
	"go.uber.org/zap"
)

var (
	ErrUnknownCommand  = errors.New("unknown editor command")
	ErrMissingArgument = errors.New("command needs an argument")
	ErrUnknownColor    = errors.New("colour is not in the palette")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrNoPicker        = errors.New("no colour picker is open")
)

// Picker is the toolbar's transient colour picker state. At most one
// picker is open at a time.
type Picker int

const (
	PickerNone Picker = iota
	PickerTextColor
	PickerHighlight
)

func (p Picker) String() string {
	switch p {
	case PickerTextColor:
		return "text-color"
	case PickerHighlight:
		return "highlight"
	}
	return "none"
}

// ToolbarItem is the render state of one toolbar button.
type ToolbarItem struct {
	Command Command
	Label   string
	Group   string
	Active  bool
	Enabled bool
}

type Editor struct {
	doc         document.Model
	onChange    func(html string)
	placeholder string
	prompter    Prompter
	picker      Picker
	last        string
	log         *zap.Logger
}

type Option func(*Editor)

func WithPrompter(p Prompter) Option {
	return func(e *Editor) { e.prompter = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithModel swaps the document implementation.
func WithModel(newModel func(html string) document.Model) Option {
	return func(e *Editor) { e.doc = newModel(e.last) }
}

// New builds an editor seeded with content. onChange receives the
// serialised HTML after every change; it may be nil.
func New(content string, onChange func(html string), placeholder string, opts ...Option) *Editor {
	e := &Editor{
		onChange:    onChange,
		placeholder: placeholder,
		prompter:    cancelPrompter{},
		log:         zap.NewNop(),
		last:        content,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.doc == nil {
		e.doc = document.New(content)
	}
	e.last = e.doc.HTML()
	return e
}

func (e *Editor) HTML() string { return e.doc.HTML() }

func (e *Editor) Placeholder() string { return e.placeholder }

func (e *Editor) IsEmpty() bool { return e.doc.IsEmpty() }

// Document exposes the underlying model for selection and inspection.
func (e *Editor) Document() document.Model { return e.doc }

// WordCount counts whitespace-separated words of the plain text.
func (e *Editor) WordCount() int { return len(strings.Fields(e.doc.Text())) }

// SetContent replaces the whole document and clears undo history.
func (e *Editor) SetContent(html string) {
	e.doc.SetHTML(html)
	e.emit()
}

func (e *Editor) InsertText(text string) bool {
	ok := e.doc.InsertText(text)
	e.emit()
	return ok
}

func (e *Editor) SplitBlock() bool {
	ok := e.doc.SplitBlock()
	e.emit()
	return ok
}

func (e *Editor) Select(anchor, head document.Pos) error {
	return e.doc.SetSelection(document.Selection{Anchor: anchor, Head: head})
}

func (e *Editor) SelectAll() { e.doc.SelectAll() }

// Exec runs cmd at the current selection. It reports whether the command
// applied; unavailable commands and cancelled prompts are (false, nil).
func (e *Editor) Exec(cmd Command, args ...string) (bool, error) {
	def, ok := commands[cmd]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	if !def.can(e.doc) {
		return false, nil
	}
	applied, err := def.run(e, e.doc, args)
	if err != nil {
		return false, fmt.Errorf("%s: %w", cmd, err)
	}
	e.log.Debug("editor command", zap.String("command", string(cmd)), zap.Bool("applied", applied))
	e.emit()
	return applied, nil
}

// IsActive reports whether cmd's formatting applies at the selection.
func (e *Editor) IsActive(cmd Command) bool {
	def, ok := commands[cmd]
	return ok && def.active(e.doc)
}

// CanExec reports whether cmd is available at the selection.
func (e *Editor) CanExec(cmd Command) bool {
	def, ok := commands[cmd]
	return ok && def.can(e.doc)
}

// Toolbar returns the state of every button in display order.
func (e *Editor) Toolbar() []ToolbarItem {
	items := make([]ToolbarItem, 0, len(toolbarOrder))
	for _, cmd := range toolbarOrder {
		def := commands[cmd]
		items = append(items, ToolbarItem{
			Command: cmd,
			Label:   def.label,
			Group:   def.group,
			Active:  def.active(e.doc),
			Enabled: def.can(e.doc),
		})
	}
	return items
}

func (e *Editor) Picker() Picker { return e.picker }

// TogglePicker opens p, closing any other picker, or closes p when it is
// already open. A picker whose colour command cannot run, e.g. inside a
// code block, does not open.
func (e *Editor) TogglePicker(p Picker) {
	if e.picker == p {
		e.picker = PickerNone
		return
	}
	if cmd, ok := pickerCommands[p]; ok && !e.CanExec(cmd[0]) {
		e.picker = PickerNone
		return
	}
	e.picker = p
}

func (e *Editor) ClosePicker() { e.picker = PickerNone }

// pickerCommands maps a picker to its set and unset commands.
var pickerCommands = map[Picker][2]Command{
	PickerTextColor: {CmdTextColor, CmdUnsetTextColor},
	PickerHighlight: {CmdHighlight, CmdUnsetHighlight},
}

// ChooseSwatch applies color from the open picker and closes it, also when
// the selection refuses the colour. A color outside the palette leaves the
// picker open.
func (e *Editor) ChooseSwatch(color string) (bool, error) {
	cmd, ok := pickerCommands[e.picker]
	if !ok {
		return false, ErrNoPicker
	}
	applied, err := e.Exec(cmd[0], color)
	if err == nil {
		e.ClosePicker()
	}
	return applied, err
}

// ResetSwatch clears the open picker's mark and closes it.
func (e *Editor) ResetSwatch() (bool, error) {
	cmd, ok := pickerCommands[e.picker]
	if !ok {
		return false, ErrNoPicker
	}
	defer e.ClosePicker()
	return e.Exec(cmd[1])
}

// emit calls onChange when the HTML differs from what was last reported.
func (e *Editor) emit() {
	html := e.doc.HTML()
	if html == e.last {
		return
	}
	e.last = html
	if e.onChange != nil {
		e.onChange(html)
	}
}
