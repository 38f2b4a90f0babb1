package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/bankdesk/internal/pipeline"
)

// Form is a column of text inputs, one per field. Focus moves with
// Next/Prev; only the focused input receives typed keys.
type Form struct {
	title  string
	fields []pipeline.Field
	inputs []textinput.Model
	focus  int
	// errs holds inline error text keyed by field name.
	errs map[string]string
}

func NewForm(title string, fields []pipeline.Field) *Form {
	inputs := make([]textinput.Model, 0, len(fields))
	for _, f := range fields {
		inp := textinput.New()
		inp.Prompt = ""
		inp.Placeholder = f.Label
		inp.CharLimit = 128
		if f.Secret {
			inp.EchoMode = textinput.EchoPassword
			inp.EchoCharacter = '•'
		}
		inputs = append(inputs, inp)
	}
	return &Form{title: title, fields: fields, inputs: inputs, errs: map[string]string{}}
}

func (f *Form) Title() string { return f.title }

// Focus puts the cursor in the current field.
func (f *Form) Focus() tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

// Blur removes the cursor from every field.
func (f *Form) Blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *Form) Focused() bool {
	return len(f.inputs) > 0 && f.inputs[f.focus].Focused()
}

// Move shifts focus by dir fields, wrapping around.
func (f *Form) Move(dir int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + dir + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// OnLastField reports whether focus is on the final input.
func (f *Form) OnLastField() bool { return f.focus == len(f.inputs)-1 }

// Values builds a fresh submission from the current inputs.
func (f *Form) Values() map[string]string {
	vals := make(map[string]string, len(f.fields))
	for i, fld := range f.fields {
		vals[fld.Name] = f.inputs[i].Value()
	}
	return vals
}

// SetValue fills the named field.
func (f *Form) SetValue(name, value string) {
	for i, fld := range f.fields {
		if fld.Name == name {
			f.inputs[i].SetValue(value)
			return
		}
	}
}

// Clear empties every input and moves focus back to the first field.
func (f *Form) Clear() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	wasFocused := f.Focused()
	f.Blur()
	f.focus = 0
	if wasFocused && len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
}

func (f *Form) SetErrors(errs map[string]string) {
	f.errs = make(map[string]string, len(errs))
	for k, v := range errs {
		f.errs[k] = v
	}
}

func (f *Form) ClearErrors() { f.errs = map[string]string{} }

func (f *Form) Error(name string) string { return f.errs[name] }

// Update forwards msg to the focused input.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *Form) View(width int) string {
	labelWidth := 0
	for _, fld := range f.fields {
		if n := len(fld.Label); n > labelWidth {
			labelWidth = n
		}
	}
	inputWidth := width - labelWidth - 4
	if inputWidth < 10 {
		inputWidth = 10
	}

	lines := []string{titleStyle.Render(f.title), ""}
	for i, fld := range f.fields {
		in := f.inputs[i]
		in.Width = inputWidth
		marker := "  "
		if in.Focused() {
			marker = navCursorStyle.Render("> ")
		}
		lines = append(lines, marker+labelStyle.Render(padRight(fld.Label, labelWidth))+"  "+in.View())
		if msg := f.errs[fld.Name]; msg != "" {
			lines = append(lines, "  "+errorStyle.Render(truncate(msg, width-2)))
		}
	}
	return strings.Join(lines, "\n")
}
