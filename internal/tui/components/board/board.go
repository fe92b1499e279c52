// Package board renders the friends leaderboard. The ranking is
// range-scoped and re-fetched on every range switch; the friend list is
// range-independent, so an error there keeps the last good value while a
// leaderboard error clears the table.
package board

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/models"
	"github.com/SID01AV/productivity-tracker/internal/tui/msgs"
)

type boardLoadedMsg struct {
	rng     models.Range
	entries []models.LeaderboardEntry
	err     error
}

type friendsLoadedMsg struct {
	friends []models.Friendship
	err     error
}

type friendAddedMsg struct {
	err error
}

type KeyMap struct {
	Daily   key.Binding
	Weekly  key.Binding
	Monthly key.Binding
	Add     key.Binding
	Reload  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Daily: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "daily"),
		),
		Weekly: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "weekly"),
		),
		Monthly: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "monthly"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add friend"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

type Model struct {
	client  *api.Client
	keys    KeyMap
	spinner spinner.Model
	table   table.Model
	input   textinput.Model

	rng       models.Range
	entries   []models.LeaderboardEntry
	friends   []models.Friendship
	loading   bool
	errMsg    string
	friendErr string
}

func New(client *api.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "User", Width: 20},
			{Title: "Points", Width: 8},
		}),
		table.WithHeight(8),
	)

	in := textinput.New()
	in.Placeholder = "friend username"
	in.CharLimit = 64

	return Model{
		client:  client,
		keys:    DefaultKeyMap(),
		spinner: sp,
		table:   t,
		input:   in,
		rng:     models.RangeWeekly,
	}
}

// Range returns the currently selected aggregation window.
func (m Model) Range() models.Range { return m.rng }

// Friends exposes the current friend list view state.
func (m Model) Friends() []models.Friendship { return m.friends }

// Reload fetches both the ranking and the friend list.
func (m Model) Reload() (Model, tea.Cmd) {
	m.loading = true
	m.errMsg = ""
	m.friendErr = ""
	return m, tea.Batch(m.spinner.Tick, m.loadBoardCmd(m.rng), m.loadFriendsCmd())
}

func (m Model) loadBoardCmd(r models.Range) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.Leaderboard(context.Background(), r)
		return boardLoadedMsg{rng: r, entries: entries, err: err}
	}
}

func (m Model) loadFriendsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		friends, err := client.Friends(context.Background())
		return friendsLoadedMsg{friends: friends, err: err}
	}
}

func (m Model) addFriendCmd(username string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.AddFriend(context.Background(), username)
		return friendAddedMsg{err: err}
	}
}

func (m Model) setRange(r models.Range) (Model, tea.Cmd) {
	if r == m.rng {
		return m, nil
	}
	m.rng = r
	m.entries = nil
	m.table.SetRows(nil)
	m.loading = true
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, m.loadBoardCmd(r))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		if msg.rng != m.rng {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return msgs.SessionExpiredMsg{} }
			}
			m.errMsg = "Failed to load leaderboard"
			m.entries = nil
			m.table.SetRows(nil)
			return m, nil
		}
		// Server order is authoritative; rows are rendered as received.
		m.entries = msg.entries
		rows := make([]table.Row, len(msg.entries))
		for i, e := range msg.entries {
			rows[i] = table.Row{strconv.Itoa(i + 1), e.Username, strconv.Itoa(e.TotalPoints)}
		}
		m.table.SetRows(rows)
		return m, nil

	case friendsLoadedMsg:
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return msgs.SessionExpiredMsg{} }
			}
			// Keep the last good friend list.
			return m, nil
		}
		m.friends = msg.friends
		return m, nil

	case friendAddedMsg:
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return msgs.SessionExpiredMsg{} }
			}
			m.friendErr = api.Detail(msg.err, "Failed to add friend")
			return m, nil
		}
		m.friendErr = ""
		return m, m.loadFriendsCmd()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "esc":
				m.input.Blur()
				m.input.Reset()
				return m, nil
			case "enter":
				username := strings.TrimSpace(m.input.Value())
				m.input.Blur()
				m.input.Reset()
				if username == "" {
					return m, nil
				}
				m.friendErr = ""
				return m, m.addFriendCmd(username)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Daily):
			return m.setRange(models.RangeDaily)
		case key.Matches(msg, m.keys.Weekly):
			return m.setRange(models.RangeWeekly)
		case key.Matches(msg, m.keys.Monthly):
			return m.setRange(models.RangeMonthly)
		case key.Matches(msg, m.keys.Add):
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Reload):
			return m.Reload()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// InputFocused reports whether the add-friend input owns the keyboard.
func (m Model) InputFocused() bool { return m.input.Focused() }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(rangeBar(m.rng) + "\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading...\n")
	} else if m.errMsg != "" {
		b.WriteString("! " + m.errMsg + "\n")
	} else if len(m.entries) == 0 {
		b.WriteString("No data yet. Complete some tasks!\n")
	} else {
		b.WriteString(m.table.View() + "\n")
	}

	b.WriteString("\nFriends:\n")
	if len(m.friends) == 0 {
		b.WriteString("  No friends yet. Add someone!\n")
	}
	for _, f := range m.friends {
		fmt.Fprintf(&b, "  %s\n", f.Friend.Username)
	}

	if m.input.Focused() {
		b.WriteString("\nAdd friend: " + m.input.View() + "\n")
	}
	if m.friendErr != "" {
		b.WriteString("! " + m.friendErr + "\n")
	}
	return b.String()
}

func rangeBar(active models.Range) string {
	parts := make([]string, 0, 3)
	for i, r := range models.Ranges() {
		label := fmt.Sprintf("[%d] %s", i+1, r)
		if r == active {
			label = "(" + label + ")"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}
