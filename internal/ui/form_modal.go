package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/form"
)

// choice is one option of a select field.
type choice struct {
	id    int64
	label string
}

// field binds one form input to a member of the request body. name matches
// the json tag so validation errors land under the right input.
type field[In any] struct {
	name        string
	label       string
	placeholder string
	limit       int
	get         func(In) string
	set         func(In, string) In
	// choices turns the field into a select cycled with left/right. The input
	// then holds the chosen id.
	choices []choice
}

// formModal renders a form.Controller as a dialog. The controller decides
// what is valid and when the dialog closes; the modal only moves values
// between the text inputs and the controller.
type formModal[T any, In form.Input[In]] struct {
	ctx    context.Context
	entity string
	ctrl   *form.Controller[T, In]
	target form.Target[T, In]
	fields []field[In]
	inputs []textinput.Model
	focus  int
	err    string
}

// newFormModal builds the dialog for a controller that was just opened with
// OpenCreate or OpenEdit.
func newFormModal[T any, In form.Input[In]](ctx context.Context, entity string, ctrl *form.Controller[T, In], target form.Target[T, In], fields []field[In]) *formModal[T, In] {
	f := &formModal[T, In]{
		ctx:    ctx,
		entity: entity,
		ctrl:   ctrl,
		target: target,
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
	}
	current := ctrl.Input()
	for i, fd := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fd.placeholder
		in.CharLimit = fd.limit
		in.Width = FormModalWidth - 22
		in.SetValue(fd.get(current))
		f.inputs[i] = in
	}
	f.focusField(0)
	return f
}

// Update implements Modal.
func (f *formModal[T, In]) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case formSavedMsg:
		if msg.form != any(f) {
			return f, nil, false
		}
		f.ctrl.Complete(msg.err)
		if msg.err != nil {
			f.err = msg.err.Error()
			return f, nil, false
		}
		return f, nil, true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape):
			if f.ctrl.Submitting() {
				return f, nil, false
			}
			f.ctrl.Cancel()
			return f, nil, true

		case key.Matches(msg, keys.Confirm):
			return f, f.submit(), false

		case key.Matches(msg, keys.Next):
			f.focusField((f.focus + 1) % len(f.fields))
			return f, textinput.Blink, false

		case key.Matches(msg, keys.Prev):
			f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
			return f, textinput.Blink, false

		case f.isSelect(f.focus) && key.Matches(msg, keys.Left):
			f.cycleChoice(-1)
			return f, nil, false

		case f.isSelect(f.focus) && key.Matches(msg, keys.Right):
			f.cycleChoice(1)
			return f, nil, false
		}
		if f.isSelect(f.focus) || f.ctrl.Submitting() {
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

// submit copies the inputs into the controller and, when they validate,
// returns the command that persists them. Invalid input stays in the dialog
// with its field errors and never reaches the network.
func (f *formModal[T, In]) submit() tea.Cmd {
	f.ctrl.SetInput(f.collect())
	req, err := f.ctrl.Prepare()
	if err != nil {
		var verr *form.ValidationError
		switch {
		case errors.As(err, &verr):
			f.err = ""
			f.syncInputs()
		case errors.Is(err, form.ErrBusy):
		default:
			f.err = err.Error()
		}
		return nil
	}
	f.err = ""
	f.syncInputs()

	ctx, target, entity := f.ctx, f.target, f.entity
	verb := ternary(req.Mode == form.Editing, "updated", "created")
	return func() tea.Msg {
		saved, err := form.Persist(ctx, target, req)
		return formSavedMsg{form: f, entity: entity, verb: verb, input: req.Input, saved: saved, err: err}
	}
}

// collect folds every input value into a copy of the controller's input.
func (f *formModal[T, In]) collect() In {
	in := f.ctrl.Input()
	for i, fd := range f.fields {
		in = fd.set(in, f.inputs[i].Value())
	}
	return in
}

// syncInputs shows the normalized values Prepare produced.
func (f *formModal[T, In]) syncInputs() {
	current := f.ctrl.Input()
	for i, fd := range f.fields {
		f.inputs[i].SetValue(fd.get(current))
	}
}

func (f *formModal[T, In]) focusField(idx int) {
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	f.focus = idx
}

func (f *formModal[T, In]) isSelect(idx int) bool {
	return idx >= 0 && idx < len(f.fields) && f.fields[idx].choices != nil
}

func (f *formModal[T, In]) cycleChoice(step int) {
	opts := f.fields[f.focus].choices
	if len(opts) == 0 {
		return
	}
	current := f.inputs[f.focus].Value()
	idx := -1
	for i, c := range opts {
		if strconv.FormatInt(c.id, 10) == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && step > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx = (idx + step + len(opts)) % len(opts)
	}
	f.inputs[f.focus].SetValue(strconv.FormatInt(opts[idx].id, 10))
}

func (f *formModal[T, In]) choiceLabel(idx int) string {
	value := f.inputs[idx].Value()
	for _, c := range f.fields[idx].choices {
		if strconv.FormatInt(c.id, 10) == value {
			return c.label
		}
	}
	if len(f.fields[idx].choices) == 0 {
		return "(none available)"
	}
	return "Select..."
}

// View implements Modal.
func (f *formModal[T, In]) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	title := "New " + f.entity
	if f.ctrl.Mode() == form.Editing {
		title = "Edit " + f.entity + " #" + strconv.FormatInt(f.ctrl.EditingID(), 10)
	}
	b.WriteString(modalTitle(styles, title, FormModalWidth-6))

	errs := f.ctrl.Errors()
	for i, fd := range f.fields {
		label := padRight(fd.label+":", 16)
		if i == f.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}

		if fd.choices != nil {
			value := "‹ " + f.choiceLabel(i) + " ›"
			if i == f.focus {
				b.WriteString(styles.Text.Bold(true).Render(value))
			} else {
				b.WriteString(styles.Text.Render(value))
			}
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")

		if errs != nil {
			if msg := errs.Field(fd.name); msg != "" {
				b.WriteString(padRight("", 16))
				b.WriteString(styles.DangerText.Render(msg))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(styles.DangerText.Render(truncate(f.err, FormModalWidth-6)))
		b.WriteString("\n\n")
	}
	if f.ctrl.Submitting() {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Cancel"))
	}

	return placeModal(theme, width, height, FormModalWidth, b.String())
}

// Field setters shared by the entity forms.

func parseInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func parseID(value string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
