package stats

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/models"
	"github.com/SID01AV/productivity-tracker/internal/tui/msgs"
)

func testClient() *api.Client {
	return api.New("http://127.0.0.1:0", nil)
}

func TestLoadRendersSummary(t *testing.T) {
	m := New(testClient())
	m, _ = m.Update(loadedMsg{
		rng: m.Range(),
		summary: models.StatsSummary{
			StartDate:   "2025-06-02",
			EndDate:     "2025-06-08",
			TotalPoints: 25,
			ByDate: []models.StatsByDate{
				{Date: "2025-06-02", Points: 10},
				{Date: "2025-06-03", Points: 15},
			},
		},
	})

	view := m.View()
	for _, want := range []string{"2025-06-02 → 2025-06-08", "Total points: 25", "2025-06-03  15 pts"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestErrorClearsSummary(t *testing.T) {
	m := New(testClient())
	m, _ = m.Update(loadedMsg{rng: m.Range(), summary: models.StatsSummary{TotalPoints: 25}})
	m, _ = m.Update(loadedMsg{rng: m.Range(), err: &api.NetworkError{Err: errors.New("boom")}})

	if m.loaded || m.summary.TotalPoints != 0 {
		t.Errorf("expected summary cleared after error, got %+v", m.summary)
	}
	if !strings.Contains(m.View(), "Failed to load stats") {
		t.Errorf("expected error message in view:\n%s", m.View())
	}
}

func TestRangeSwitchDropsStaleResult(t *testing.T) {
	m := New(testClient())
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if cmd == nil {
		t.Fatalf("expected range switch to trigger a fetch")
	}
	if m.Range() != models.RangeMonthly {
		t.Fatalf("expected monthly after pressing 3, got %s", m.Range())
	}

	m, _ = m.Update(loadedMsg{rng: models.RangeWeekly, summary: models.StatsSummary{TotalPoints: 99}})
	if m.loaded {
		t.Errorf("stale weekly result applied after switching to monthly")
	}
}

func TestAuthFailureSignalsSessionExpiry(t *testing.T) {
	m := New(testClient())
	_, cmd := m.Update(loadedMsg{rng: m.Range(), err: &api.AuthError{Detail: "Could not validate credentials"}})
	if cmd == nil {
		t.Fatalf("expected a command carrying the expiry signal")
	}
	if _, ok := cmd().(msgs.SessionExpiredMsg); !ok {
		t.Errorf("expected SessionExpiredMsg, got %T", cmd())
	}
}
