package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// authForm is the login/signup form. The same form serves both; signup
// adds the name field.
type authForm struct {
	signup bool
	inputs []textinput.Model
	focus  int
	errMsg string
	busy   bool
}

func newAuthForm(signup bool) authForm {
	labels := []string{"Email", "Password"}
	if signup {
		labels = []string{"Name", "Email", "Password"}
	}

	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 128
		in.Width = 32
		if label == "Password" {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		inputs[i] = in
	}
	inputs[0].Focus()

	return authForm{signup: signup, inputs: inputs}
}

// values returns (name, email, password); name is "" for login.
func (f *authForm) values() (string, string, string) {
	if f.signup {
		return strings.TrimSpace(f.inputs[0].Value()),
			strings.TrimSpace(f.inputs[1].Value()),
			f.inputs[2].Value()
	}
	return "", strings.TrimSpace(f.inputs[0].Value()), f.inputs[1].Value()
}

// validate checks for missing fields before any network call.
func (f *authForm) validate() string {
	name, email, password := f.values()
	if f.signup && name == "" {
		return "all fields are required"
	}
	if email == "" || password == "" {
		if f.signup {
			return "all fields are required"
		}
		return "email and password are required"
	}
	return ""
}

// cycleFocus moves focus by delta, wrapping.
func (f *authForm) cycleFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// update feeds a message to the focused input.
func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// view renders the form inside the modal style.
func (f *authForm) view(theme Theme, width, height int) string {
	title := "Login"
	hint := "[enter] submit  [tab] next field  [esc] back"
	if f.signup {
		title = "Sign up"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n\n")
	for i := range f.inputs {
		b.WriteString(theme.Input.Render(f.inputs[i].View()))
		b.WriteString("\n")
	}
	if f.busy {
		b.WriteString("\n" + theme.Meta.Render("signing in..."))
	} else if f.errMsg != "" {
		b.WriteString("\n" + theme.Notice.Render(f.errMsg))
	}
	b.WriteString("\n\n" + theme.Meta.Render(hint))

	modal := theme.Modal.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
