package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/session"
	"github.com/SID01AV/productivity-tracker/internal/tui/components/board"
	"github.com/SID01AV/productivity-tracker/internal/tui/components/daily"
	"github.com/SID01AV/productivity-tracker/internal/tui/components/stats"
)

// Route identifies a view. All routes except RouteLogin are protected.
type Route int

const (
	RouteLogin Route = iota
	RouteTasks
	RouteStats
	RouteBoard
)

// GuardState is the route guard's view of the session. GuardUnknown holds
// until rehydration resolves, exactly once; until then neither protected
// content nor a login redirect is rendered.
type GuardState int

const (
	GuardUnknown GuardState = iota
	GuardAuthenticated
	GuardUnauthenticated
)

type rehydratedMsg struct {
	sess *session.Session
}

type authDoneMsg struct {
	err error
}

// authFormModel backs the huh login/register form.
type authFormModel struct {
	Username string
	Email    string
	Password string
}

type Model struct {
	sessions *session.Store
	client   *api.Client

	guard      GuardState
	route      Route
	pending    Route
	hasPending bool

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	dailyModel daily.Model
	statsModel stats.Model
	boardModel board.Model

	form         *huh.Form
	authForm     *authFormModel
	registerMode bool
	submitting   bool
	formErr      string

	width    int
	height   int
	quitting bool
}

func NewModel(sessions *session.Store, client *api.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	fm := &authFormModel{}
	m := Model{
		sessions:   sessions,
		client:     client,
		guard:      GuardUnknown,
		route:      RouteTasks,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		dailyModel: daily.New(client),
		statsModel: stats.New(client),
		boardModel: board.New(client),
		authForm:   fm,
	}
	m.form = newAuthForm(fm, false)
	return m
}

func newAuthForm(fm *authFormModel, register bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Username").
			Value(&fm.Username),
	}
	if register {
		fields = append(fields, huh.NewInput().
			Title("Email (optional)").
			Value(&fm.Email))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&fm.Password))

	return huh.NewForm(huh.NewGroup(fields...))
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.form.Init(), m.rehydrateCmd())
}

func (m Model) rehydrateCmd() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		return rehydratedMsg{sess: sessions.Rehydrate()}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		_, err := sessions.Login(context.Background(), username, password)
		return authDoneMsg{err: err}
	}
}

func (m Model) registerCmd(username, email, password string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		_, err := sessions.Register(context.Background(), username, email, password)
		return authDoneMsg{err: err}
	}
}

// Guard exposes the route guard state.
func (m Model) Guard() GuardState { return m.guard }

// CurrentRoute returns the route being rendered.
func (m Model) CurrentRoute() Route { return m.route }

// PendingRoute returns the recorded post-login destination, if any.
func (m Model) PendingRoute() (Route, bool) { return m.pending, m.hasPending }
