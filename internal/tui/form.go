package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	key   string // JSON name the API reports errors under
	label string
	input textinput.Model
}

// a stack of text inputs with per-field error messages
type Form struct {
	title      string
	fields     []formField
	focus      int
	errors     map[string]string
	general    string
	submitting bool
}

func newField(key, label string, secret bool, limit int) formField {
	ti := textinput.New()
	ti.Placeholder = label
	ti.CharLimit = limit
	ti.Prompt = ""

	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	return formField{key: key, label: label, input: ti}
}

func newLoginForm() *Form {
	return &Form{
		title: "Log In",
		fields: []formField{
			newField("email", "Email Address", false, 254),
			newField("password", "Password", true, 72),
		},
	}
}

func newRegisterForm() *Form {
	return &Form{
		title: "Sign Up",
		fields: []formField{
			newField("name", "Name", false, 30),
			newField("email", "Email Address", false, 254),
			newField("password", "Password", true, 30),
			newField("password2", "Confirm Password", true, 30),
		},
	}
}

// focuses the current field
func (f *Form) Focus() tea.Cmd {
	for i := range f.fields {
		f.fields[i].input.Blur()
	}

	return f.fields[f.focus].input.Focus()
}

// moves focus by delta, wrapping around
func (f *Form) move(delta int) tea.Cmd {
	n := len(f.fields)
	f.focus = ((f.focus+delta)%n + n) % n

	return f.Focus()
}

// handles navigation keys and forwards the rest to the focused input
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.move(1)
		case "shift+tab", "up":
			return f.move(-1)
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)

	return cmd
}

// returns the trimmed value of a field
func (f *Form) Value(key string) string {
	for _, field := range f.fields {
		if field.key == key {
			return strings.TrimSpace(field.input.Value())
		}
	}

	return ""
}

func (f *Form) SetValue(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(value)
		}
	}
}

// shows messages next to their fields
func (f *Form) SetErrors(fields map[string]string) {
	f.errors = fields
	f.general = ""
	f.submitting = false
}

// shows an error that belongs to no field
func (f *Form) SetGeneralError(message string) {
	f.errors = nil
	f.general = message
	f.submitting = false
}

// empties every input and message
func (f *Form) Reset() {
	for i := range f.fields {
		f.fields[i].input.Reset()
	}

	f.focus = 0
	f.errors = nil
	f.general = ""
	f.submitting = false
}

func (f *Form) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n")

	for i, field := range f.fields {
		label := labelStyle
		if i == f.focus {
			label = labelFocusedStyle
		}

		b.WriteString(label.Render(field.label))
		b.WriteString("\n")
		b.WriteString(inputBoxStyle.Render(field.input.View()))
		b.WriteString("\n")

		if msg, ok := f.errors[field.key]; ok {
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	if f.general != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.general))
		b.WriteString("\n")
	}

	return b.String()
}
