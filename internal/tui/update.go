package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/tui/msgs"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dailyModel.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case spinner.TickMsg:
		if m.guard == GuardUnknown {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case rehydratedMsg:
		if msg.sess != nil {
			m.guard = GuardAuthenticated
			return m.activate(m.route)
		}
		m.guard = GuardUnauthenticated
		m.route = RouteLogin
		return m, nil

	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.formErr = api.Detail(msg.err, "Something went wrong")
			m.authForm.Password = ""
			m.form = newAuthForm(m.authForm, m.registerMode)
			return m, m.form.Init()
		}
		m.guard = GuardAuthenticated
		m.formErr = ""
		dest := RouteTasks
		if m.hasPending {
			dest = m.pending
		}
		m.hasPending = false
		return m.activate(dest)

	case msgs.SessionExpiredMsg:
		// Server rejected the credential mid-use: equivalent to logout,
		// remembering where the user was for the post-login redirect.
		_ = m.sessions.Logout()
		m.guard = GuardUnauthenticated
		m.pending = m.route
		m.hasPending = true
		m.route = RouteLogin
		m.formErr = "Session expired, please log in again"
		m.authForm.Password = ""
		m.form = newAuthForm(m.authForm, m.registerMode)
		return m, m.form.Init()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.guard == GuardUnknown {
			// Neither protected content nor a premature login redirect
			// while the session is still being restored.
			return m, nil
		}
		if m.route == RouteLogin {
			return m.updateLogin(msg)
		}
		if model, cmd, handled := m.handleNavKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateRoute(msg)
}

func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.route == RouteBoard && m.boardModel.InputFocused() {
		return nil, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.QuitSoft):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil, true
	case key.Matches(msg, m.keys.Tab):
		model, cmd := m.RequestRoute(nextRoute(m.route))
		return model, cmd, true
	case key.Matches(msg, m.keys.ShiftTab):
		model, cmd := m.RequestRoute(prevRoute(m.route))
		return model, cmd, true
	case key.Matches(msg, m.keys.Tasks):
		model, cmd := m.RequestRoute(RouteTasks)
		return model, cmd, true
	case key.Matches(msg, m.keys.Stats):
		model, cmd := m.RequestRoute(RouteStats)
		return model, cmd, true
	case key.Matches(msg, m.keys.Board):
		model, cmd := m.RequestRoute(RouteBoard)
		return model, cmd, true
	case key.Matches(msg, m.keys.Logout):
		_ = m.sessions.Logout()
		m.guard = GuardUnauthenticated
		m.hasPending = false
		m.route = RouteLogin
		m.formErr = ""
		m.authForm.Password = ""
		m.form = newAuthForm(m.authForm, m.registerMode)
		return m, m.form.Init(), true
	}
	return nil, nil, false
}

// RequestRoute asks for a view. Protected views while unauthenticated
// record the destination and land on the login view instead; while the
// guard is still unknown nothing moves.
func (m Model) RequestRoute(r Route) (Model, tea.Cmd) {
	if r == RouteLogin {
		m.route = RouteLogin
		return m, nil
	}
	switch m.guard {
	case GuardUnknown:
		return m, nil
	case GuardUnauthenticated:
		m.pending = r
		m.hasPending = true
		m.route = RouteLogin
		return m, nil
	}
	return m.activate(r)
}

// activate switches to a protected route and triggers its fetch. Every
// navigation re-fetches; nothing is cached across views.
func (m Model) activate(r Route) (Model, tea.Cmd) {
	m.route = r
	var cmd tea.Cmd
	switch r {
	case RouteTasks:
		m.dailyModel, cmd = m.dailyModel.Reload()
	case RouteStats:
		m.statsModel, cmd = m.statsModel.Reload()
	case RouteBoard:
		m.boardModel, cmd = m.boardModel.Reload()
	}
	return m, cmd
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+r" {
		m.registerMode = !m.registerMode
		m.formErr = ""
		m.form = newAuthForm(m.authForm, m.registerMode)
		return m, m.form.Init()
	}
	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		username := strings.TrimSpace(m.authForm.Username)
		password := m.authForm.Password
		if username == "" || password == "" {
			m.formErr = "Username and password are required"
			m.form = newAuthForm(m.authForm, m.registerMode)
			return m, m.form.Init()
		}
		m.submitting = true
		m.formErr = ""
		if m.registerMode {
			return m, tea.Batch(cmd, m.registerCmd(username, strings.TrimSpace(m.authForm.Email), password))
		}
		return m, tea.Batch(cmd, m.loginCmd(username, password))
	}

	return m, cmd
}

func (m Model) updateRoute(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.route {
	case RouteLogin:
		return m.updateLogin(msg)
	case RouteTasks:
		m.dailyModel, cmd = m.dailyModel.Update(msg)
	case RouteStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	case RouteBoard:
		m.boardModel, cmd = m.boardModel.Update(msg)
	}
	return m, cmd
}

func nextRoute(r Route) Route {
	switch r {
	case RouteTasks:
		return RouteStats
	case RouteStats:
		return RouteBoard
	default:
		return RouteTasks
	}
}

func prevRoute(r Route) Route {
	switch r {
	case RouteTasks:
		return RouteBoard
	case RouteBoard:
		return RouteStats
	default:
		return RouteTasks
	}
}
