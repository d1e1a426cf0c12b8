package ui

import (
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/form"
	"github.com/five82/marquee/internal/session"
)

const (
	loginEmail = iota
	loginPassword
)

// loginState holds the sign-in form.
type loginState struct {
	inputs  [2]textinput.Model
	focus   int
	errs    *form.ValidationError
	err     string
	pending bool
}

func newLoginState() loginState {
	email := textinput.New()
	email.Placeholder = "admin@example.com"
	email.CharLimit = 254
	email.Width = 34
	email.Prompt = ""

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 34
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginState{inputs: [2]textinput.Model{email, password}}
}

// mountLogin resets the password and focuses the first empty field.
func (m *Model) mountLogin() tea.Cmd {
	m.login.inputs[loginPassword].SetValue("")
	m.login.errs = nil
	m.login.err = ""
	m.login.pending = false
	focus := loginEmail
	if strings.TrimSpace(m.login.inputs[loginEmail].Value()) != "" {
		focus = loginPassword
	}
	m.focusLogin(focus)
	return textinput.Blink
}

func (m *Model) focusLogin(idx int) {
	for i := range m.login.inputs {
		if i == idx {
			m.login.inputs[i].Focus()
		} else {
			m.login.inputs[i].Blur()
		}
	}
	m.login.focus = idx
}

// handleLoginKey processes keyboard input for the login view.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.pending {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.focusLogin((m.login.focus + 1) % len(m.login.inputs))
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Prev):
		m.focusLogin((m.login.focus - 1 + len(m.login.inputs)) % len(m.login.inputs))
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Confirm):
		if m.login.focus == loginEmail && m.login.inputs[loginPassword].Value() == "" {
			m.focusLogin(loginPassword)
			return m, textinput.Blink
		}
		return m, m.submitLogin()

	case key.Matches(msg, m.keys.Escape):
		m.login.inputs[m.login.focus].SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

// submitLogin validates the credentials locally before calling the API.
func (m *Model) submitLogin() tea.Cmd {
	creds := catalog.Credentials{
		Email:    strings.TrimSpace(m.login.inputs[loginEmail].Value()),
		Password: m.login.inputs[loginPassword].Value(),
	}
	m.login.err = ""
	if err := form.Validate(creds); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			m.login.errs = verr
		} else {
			m.login.err = err.Error()
		}
		return nil
	}
	m.login.errs = nil
	if m.gate == nil {
		m.login.err = "no session gate configured"
		return nil
	}
	m.login.pending = true
	var access session.Access = m.gate
	return loginCmd(m.ctx, access, creds)
}

// handleLoginResult moves to the view the user asked for, or shows why the
// API refused.
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if m.route != session.RouteLogin {
		return m, nil
	}
	m.login.pending = false
	if msg.err != nil {
		log.Printf("WARN: login failed: %v", msg.err)
		m.login.err = loginFailure(msg.err)
		m.login.inputs[loginPassword].SetValue("")
		m.focusLogin(loginPassword)
		return m, nil
	}

	log.Printf("INFO: signed in as %s", msg.user.Label())
	intended := m.intended
	if !intended.Protected() {
		intended = session.RouteSeries
	}
	return m, tea.Batch(
		m.navigate(intended),
		m.notify(toastSuccess, "Signed in as "+msg.user.Label()),
	)
}

func loginFailure(err error) string {
	var status *catalog.StatusError
	if errors.As(err, &status) {
		if errors.Is(err, catalog.ErrUnauthorized) {
			return "Invalid email or password"
		}
		if status.Message != "" {
			return status.Message
		}
	}
	return describeError("Sign in failed", err)
}

// renderLogin renders the centered sign-in card.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("marquee"))
	b.WriteString(styles.MutedText.Render("  catalog admin"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 46)))
	b.WriteString("\n\n")

	labels := [2]string{"Email", "Password"}
	names := [2]string{"email", "senha"}
	for i, in := range m.login.inputs {
		label := padRight(labels[i]+":", 11)
		if i == m.login.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(in.View())
		b.WriteString("\n")
		if m.login.errs != nil {
			if msg := m.login.errs.Field(names[i]); msg != "" {
				b.WriteString(padRight("", 11))
				b.WriteString(styles.DangerText.Render(msg))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if m.login.err != "" {
		b.WriteString(styles.DangerText.Render(truncate(m.login.err, 46)))
		b.WriteString("\n\n")
	}
	if m.login.pending {
		b.WriteString(styles.WarningText.Render("Signing in..."))
	} else {
		b.WriteString(styles.FaintText.Render("Enter: Sign in  •  Tab: Next field  •  Ctrl+C: Quit"))
	}
	if m.client != nil {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(truncateMiddle(m.client.BaseURL(), 46)))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(54).
		Render(b.String())

	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, card)
}
