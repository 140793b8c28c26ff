package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// entryState is the unauthenticated landing surface: a login/signup form
// that hands any obtained token to the session.
type entryState struct {
	email      textinput.Model
	password   textinput.Model
	focus      int
	signupMode bool
	submitting bool
	notice     string
	noticeErr  bool
}

func newEntryState() entryState {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return entryState{email: email, password: password}
}

func (e *entryState) focusField(idx int) {
	e.focus = idx
	if idx == 0 {
		e.email.Focus()
		e.password.Blur()
	} else {
		e.password.Focus()
		e.email.Blur()
	}
}

// update handles key input for the entry route. The submit control is
// disabled while an exchange is outstanding so a second Enter cannot start
// a duplicate request.
func (m *Model) updateEntry(msg tea.Msg) (tea.Model, tea.Cmd) {
	e := &m.entry

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			e.focusField((e.focus + 1) % 2)
			return m, nil

		case "ctrl+t":
			e.signupMode = !e.signupMode
			e.notice = ""
			return m, nil

		case "enter":
			if e.submitting {
				return m, nil
			}
			email := strings.TrimSpace(e.email.Value())
			password := e.password.Value()
			if email == "" || password == "" {
				e.notice = "email and password are required"
				e.noticeErr = true
				return m, nil
			}
			e.submitting = true
			e.notice = ""
			return m, tea.Batch(authCmd(m.api, e.signupMode, email, password), m.spinner.Tick)
		}

	case AuthResultMsg:
		e.submitting = false
		if msg.Error != nil {
			// prompt stays open, fields keep their values
			e.notice = msg.Error.Error()
			e.noticeErr = true
			return m, nil
		}

		if err := m.session.SetToken(msg.Token); err != nil {
			e.notice = fmt.Sprintf("failed to save session: %v", err)
			e.noticeErr = true
			return m, nil
		}

		if msg.Signup {
			e.notice = "Account created successfully!"
		} else {
			e.notice = "Welcome back!"
		}
		e.noticeErr = false
		e.password.SetValue("")
		return m, m.navigate(RouteCollection)
	}

	var cmd tea.Cmd
	if e.focus == 0 {
		e.email, cmd = e.email.Update(msg)
	} else {
		e.password, cmd = e.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) viewEntry() string {
	e := m.entry

	var b strings.Builder
	b.WriteString(titleStyle.Render("A+ Generator"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Transform product photos into A+ content"))
	b.WriteString("\n\n")

	mode := "Sign In"
	toggleHint := "ctrl+t: switch to sign up"
	if e.signupMode {
		mode = "Create Account"
		toggleHint = "ctrl+t: switch to sign in"
	}

	form := fmt.Sprintf("%s\n\n%s\n%s\n", titleStyle.Render(mode), e.email.View(), e.password.View())
	b.WriteString(promptStyle.Render(form))
	b.WriteString("\n\n")

	if e.submitting {
		b.WriteString(m.spinner.View() + " Please wait...\n")
	} else if e.notice != "" {
		style := successStyle
		if e.noticeErr {
			style = errorStyle
		}
		b.WriteString(style.Render(e.notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("enter: submit • tab: next field • %s • ctrl+c: quit", toggleHint)))
	return b.String()
}
