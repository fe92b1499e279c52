package daily

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/models"
	"github.com/SID01AV/productivity-tracker/internal/tui/msgs"
)

func testEntries() []models.DailyLogEntry {
	return []models.DailyLogEntry{
		{
			Task: models.Task{ID: 1, Name: "Drink water", Points: 10, IsActive: true},
			Date: "2025-06-01",
		},
		{
			Task:          models.Task{ID: 2, Name: "Work out", Points: 50, IsActive: true},
			Date:          "2025-06-01",
			Completed:     true,
			PointsAwarded: 50,
		},
	}
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := New(api.New("http://127.0.0.1:0", nil))
	m, _ = m.Update(loadedMsg{entries: testEntries()})
	return m
}

// Every displayed entry must satisfy points_awarded == completed ? points : 0.
func checkInvariant(t *testing.T, entries []models.DailyLogEntry) {
	t.Helper()
	for _, e := range entries {
		want := 0
		if e.Completed {
			want = e.Task.Points
		}
		if e.PointsAwarded != want {
			t.Errorf("invariant violated for %q: completed=%v points=%d awarded=%d",
				e.Task.Name, e.Completed, e.Task.Points, e.PointsAwarded)
		}
	}
}

func TestLoadSetsEntriesAndServerDate(t *testing.T) {
	m := loadedModel(t)

	if len(m.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.Entries()))
	}
	if m.Date() != "2025-06-01" {
		t.Errorf("Date = %q, want server-provided date", m.Date())
	}
	checkInvariant(t, m.Entries())
}

func TestToggleIsImmediateAndKeepsInvariant(t *testing.T) {
	m := loadedModel(t)

	// The optimistic write lands before any server round trip: the
	// returned command has not been executed yet.
	m, cmd := m.toggle(0)
	if cmd == nil {
		t.Fatal("expected a server update command")
	}

	got := m.Entries()[0]
	if !got.Completed {
		t.Errorf("expected entry completed immediately after toggle")
	}
	if got.PointsAwarded != 10 {
		t.Errorf("PointsAwarded = %d, want 10", got.PointsAwarded)
	}
	checkInvariant(t, m.Entries())
}

func TestDoubleToggleRestoresOriginalState(t *testing.T) {
	m := loadedModel(t)
	original := m.Entries()[0]

	m, _ = m.toggle(0)
	checkInvariant(t, m.Entries())
	m, _ = m.toggle(0)

	got := m.Entries()[0]
	if got.Completed != original.Completed || got.PointsAwarded != original.PointsAwarded {
		t.Errorf("double toggle did not restore state: got %+v, want %+v", got, original)
	}
}

func TestToggleViaKey(t *testing.T) {
	m := loadedModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a server update command from key toggle")
	}
	if !updated.Entries()[0].Completed {
		t.Errorf("expected selected entry toggled by key press")
	}
}

func TestFailedAckKeepsOptimisticState(t *testing.T) {
	m := loadedModel(t)
	m, _ = m.toggle(0)

	m, _ = m.Update(toggleAckMsg{taskID: 1, err: &api.ValidationError{Detail: "Could not save log"}})

	got := m.Entries()[0]
	if !got.Completed || got.PointsAwarded != 10 {
		t.Errorf("optimistic state rolled back on failure: %+v", got)
	}
	if !strings.Contains(m.View(), "Could not save log") {
		t.Errorf("expected server detail surfaced in view:\n%s", m.View())
	}
}

func TestLateAckDoesNotMutateLocalState(t *testing.T) {
	m := loadedModel(t)
	m, _ = m.toggle(0)
	m, _ = m.toggle(0) // back to original before the first ack arrives

	m, _ = m.Update(toggleAckMsg{taskID: 1})

	got := m.Entries()[0]
	if got.Completed || got.PointsAwarded != 0 {
		t.Errorf("late ack changed local state: %+v", got)
	}
}

func TestLoadFailureShowsErrorAndEmptyList(t *testing.T) {
	m := loadedModel(t)

	m, _ = m.Update(loadedMsg{err: &api.NetworkError{Err: errors.New("connection refused")}})

	if len(m.Entries()) != 0 {
		t.Errorf("expected stale entries discarded on failed load")
	}
	if !strings.Contains(m.View(), "Failed to load tasks") {
		t.Errorf("expected load error in view:\n%s", m.View())
	}
}

func TestEmptyListIsNotAnError(t *testing.T) {
	m := New(api.New("http://127.0.0.1:0", nil))
	m, _ = m.Update(loadedMsg{entries: []models.DailyLogEntry{}})

	view := m.View()
	if !strings.Contains(view, "No tasks configured.") {
		t.Errorf("expected empty-state message, got:\n%s", view)
	}
	if strings.Contains(view, "Failed") {
		t.Errorf("empty list rendered as an error:\n%s", view)
	}
}

func TestAuthFailureEmitsSessionExpired(t *testing.T) {
	m := loadedModel(t)

	_, cmd := m.Update(loadedMsg{err: &api.AuthError{Detail: "Could not validate credentials"}})
	if cmd == nil {
		t.Fatal("expected a session-expired command")
	}
	if _, ok := cmd().(msgs.SessionExpiredMsg); !ok {
		t.Errorf("expected SessionExpiredMsg, got %T", cmd())
	}
}

func TestLocalDateFallbackBeforeLoad(t *testing.T) {
	m := New(api.New("http://127.0.0.1:0", nil))
	if m.Date() == "" {
		t.Errorf("expected a display-default date before data arrives")
	}
}
