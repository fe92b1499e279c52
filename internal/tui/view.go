package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.guard == GuardUnknown {
		return docStyle.Render(m.spinner.View() + " Restoring session...")
	}

	if m.route == RouteLogin {
		return docStyle.Render(m.viewLogin())
	}

	content := ""
	switch m.route {
	case RouteTasks:
		content = m.dailyModel.View()
	case RouteStats:
		content = m.statsModel.View()
	case RouteBoard:
		content = m.boardModel.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.help.View(m.keys),
	)
}

func (m Model) viewLogin() string {
	title := "Welcome back"
	hint := "ctrl+r: create an account instead"
	if m.registerMode {
		title = "Create an account"
		hint = "ctrl+r: log in instead"
	}

	parts := []string{
		titleStyle.Render(title),
		"Track your daily habits and compete with friends.",
		"",
		m.form.View(),
	}
	if m.submitting {
		parts = append(parts, m.spinner.View()+" Please wait...")
	}
	if m.formErr != "" {
		parts = append(parts, errorStyle.Render(m.formErr))
	}
	parts = append(parts, "", hint)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	titles := []string{"Daily", "Stats", "Leaderboard"}
	routes := []Route{RouteTasks, RouteStats, RouteBoard}

	var tabs []string
	for i, title := range titles {
		if m.route == routes[i] {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}

	user := ""
	if sess := m.sessions.Current(); sess != nil {
		user = inactiveTabStyle.Render("@" + sess.User.Username)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, user)...)
}
