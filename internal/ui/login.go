package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/passport/internal/router"
)

func newLoginInputs() (textinput.Model, textinput.Model) {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "Username: "
	username.CharLimit = 64
	username.Cursor.SetMode(cursor.CursorStatic)

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Cursor.SetMode(cursor.CursorStatic)

	return username, password
}

// resetLogin clears both fields and focuses the username.
func (m *Model) resetLogin() tea.Cmd {
	m.username.Reset()
	m.password.Reset()
	m.password.Blur()
	m.focus = 0
	return m.username.Focus()
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == 0 {
		m.focus = 1
		m.username.Blur()
		return m.password.Focus()
	}
	m.focus = 0
	m.password.Blur()
	return m.username.Focus()
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.navigate(router.HomePath)
	case key.Matches(msg, m.keys.tab):
		return m, m.toggleFocus()
	case key.Matches(msg, m.keys.register):
		return m, m.submitLogin(true)
	case key.Matches(msg, m.keys.enter):
		if m.focus == 0 {
			return m, m.toggleFocus()
		}
		return m, m.submitLogin(false)
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) submitLogin(register bool) tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.err = "Username and password are required"
		return nil
	}

	m.err = ""
	if register {
		m.status = fmt.Sprintf("Registering %s...", username)
	} else {
		m.status = fmt.Sprintf("Signing in as %s...", username)
	}

	auth := m.cfg.Auth
	return func() tea.Msg {
		if register {
			return loggedInMsg(auth.Register(m.ctx, username, password))
		}
		return loggedInMsg(auth.Login(m.ctx, username, password))
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in")
	return fmt.Sprintf("%s\n%s\n%s", title, m.username.View(), m.password.View())
}
