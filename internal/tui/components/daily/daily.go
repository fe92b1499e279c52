// Package daily is the view-model for the day's task list. Toggling a
// task applies the new completion state locally first and sends the
// server update in the background, so the user never waits on the round
// trip. Server acknowledgments are fire-and-forget: local state stays
// authoritative for display and a failed or late ack is reconciled by the
// next reload, never by a rollback.
package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/models"
	"github.com/SID01AV/productivity-tracker/internal/tui/msgs"
)

type loadedMsg struct {
	entries []models.DailyLogEntry
	err     error
}

type toggleAckMsg struct {
	taskID int
	err    error
}

type Item struct {
	Entry models.DailyLogEntry
}

func (i Item) Title() string {
	mark := "☐"
	if i.Entry.Completed {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s", mark, i.Entry.Task.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("+%d pts | earned %d", i.Entry.Task.Points, i.Entry.PointsAwarded)
	if i.Entry.Task.Description != "" {
		desc += " | " + i.Entry.Task.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Entry.Task.Name }

type KeyMap struct {
	Toggle key.Binding
	Reload key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle done"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

type Model struct {
	client  *api.Client
	list    list.Model
	keys    KeyMap
	spinner spinner.Model

	entries []models.DailyLogEntry
	date    string
	loading bool
	errMsg  string
}

func New(client *api.Client) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Reload}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:  client,
		list:    l,
		keys:    keys,
		spinner: sp,
		// Display default only; the authoritative date arrives with the
		// server's task list and is never written back from here.
		date:    time.Now().Format(models.DateFormat),
		loading: true,
	}
}

// Entries exposes the current local view state.
func (m Model) Entries() []models.DailyLogEntry { return m.entries }

// Date returns the date header: the server-provided date once data has
// arrived, the local date before that.
func (m Model) Date() string { return m.date }

// Reload clears the error state and fetches the day's list.
func (m Model) Reload() (Model, tea.Cmd) {
	m.loading = true
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.DailyTasks(context.Background())
		return loadedMsg{entries: entries, err: err}
	}
}

func (m Model) toggleCmd(entry models.DailyLogEntry) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.UpsertDailyLog(context.Background(), entry.Task.ID, entry.Date, entry.Completed)
		return toggleAckMsg{taskID: entry.Task.ID, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return msgs.SessionExpiredMsg{} }
			}
			m.errMsg = "Failed to load tasks"
			m.entries = nil
			m.list.SetItems(nil)
			return m, nil
		}
		m.entries = msg.entries
		if len(m.entries) > 0 {
			m.date = m.entries[0].Date
		}
		items := make([]list.Item, len(m.entries))
		for i, e := range m.entries {
			items[i] = Item{Entry: e}
		}
		return m, m.list.SetItems(items)

	case toggleAckMsg:
		// Local state stays as the user last set it; a failed update is
		// reported and reconciled by the next reload.
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return msgs.SessionExpiredMsg{} }
			}
			m.errMsg = api.Detail(msg.err, "Failed to update task")
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return m.toggle(m.list.Index())
		case key.Matches(msg, m.keys.Reload):
			return m.Reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggle flips the entry at idx. The next state is computed from current
// local state, so two toggles in a row restore the original entry even
// while earlier requests are still in flight.
func (m Model) toggle(idx int) (Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.entries) {
		return m, nil
	}
	m.errMsg = ""

	next := m.entries[idx].Toggled()
	m.entries[idx] = next
	setCmd := m.list.SetItem(idx, Item{Entry: next})

	return m, tea.Batch(setCmd, m.toggleCmd(next))
}

func (m Model) View() string {
	header := fmt.Sprintf("Date: %s\n", m.date)

	if m.loading {
		return header + m.spinner.View() + " Loading..."
	}

	body := ""
	if m.errMsg != "" {
		body += "! " + m.errMsg + "\n"
	}
	if len(m.entries) == 0 {
		if m.errMsg == "" {
			body += "No tasks configured."
		}
		return header + body
	}
	return header + body + m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height-2)
}
