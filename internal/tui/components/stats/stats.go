// Package stats renders the range-scoped points summary. The summary is
// server-computed; the component only re-fetches when the range changes
// and clears to empty on error.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/models"
	"github.com/SID01AV/productivity-tracker/internal/tui/msgs"
)

type loadedMsg struct {
	rng     models.Range
	summary models.StatsSummary
	err     error
}

type KeyMap struct {
	Daily   key.Binding
	Weekly  key.Binding
	Monthly key.Binding
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

	rng     models.Range
	summary models.StatsSummary
	loaded  bool
	loading bool
	errMsg  string
}

func New(client *api.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		client:  client,
		keys:    DefaultKeyMap(),
		spinner: sp,
		rng:     models.RangeWeekly,
	}
}

// Range returns the currently selected aggregation window.
func (m Model) Range() models.Range { return m.rng }

func (m Model) Reload() (Model, tea.Cmd) {
	m.loading = true
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.rng))
}

func (m Model) loadCmd(r models.Range) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		summary, err := client.StatsSummary(context.Background(), r)
		return loadedMsg{rng: r, summary: summary, err: err}
	}
}

func (m Model) setRange(r models.Range) (Model, tea.Cmd) {
	if r == m.rng {
		return m, nil
	}
	m.rng = r
	m.loaded = false
	m.summary = models.StatsSummary{}
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.rng != m.rng {
			// Superseded by a later range switch.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if api.IsAuth(msg.err) {
				return m, func() tea.Msg { return msgs.SessionExpiredMsg{} }
			}
			m.errMsg = "Failed to load stats"
			m.loaded = false
			m.summary = models.StatsSummary{}
			return m, nil
		}
		m.summary = msg.summary
		m.loaded = true
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
		case key.Matches(msg, m.keys.Daily):
			return m.setRange(models.RangeDaily)
		case key.Matches(msg, m.keys.Weekly):
			return m.setRange(models.RangeWeekly)
		case key.Matches(msg, m.keys.Monthly):
			return m.setRange(models.RangeMonthly)
		case key.Matches(msg, m.keys.Reload):
			return m.Reload()
		}
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(rangeBar(m.rng) + "\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading...")
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString("! " + m.errMsg)
		return b.String()
	}
	if !m.loaded {
		return b.String()
	}

	fmt.Fprintf(&b, "%s → %s\n", m.summary.StartDate, m.summary.EndDate)
	fmt.Fprintf(&b, "Total points: %d\n\n", m.summary.TotalPoints)

	if len(m.summary.ByDate) == 0 {
		b.WriteString("No activity yet in this range.")
		return b.String()
	}
	b.WriteString("Points by day:\n")
	for _, d := range m.summary.ByDate {
		fmt.Fprintf(&b, "  %s  %d pts\n", d.Date, d.Points)
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
