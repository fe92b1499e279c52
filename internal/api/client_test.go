package api_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/apitest"
	"github.com/SID01AV/productivity-tracker/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func login(t *testing.T, srv *apitest.Server, username, password string) (*api.Client, models.User) {
	t.Helper()
	anon := api.New(srv.URL(), nil)
	token, user, err := anon.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return api.New(srv.URL(), staticToken(token)), user
}

func TestLogin(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "hunter2", "alice@example.com")

	client := api.New(srv.URL(), nil)
	token, user, err := client.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Errorf("expected a non-empty access token")
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Errorf("unexpected user snapshot: %+v", user)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "hunter2", "")

	client := api.New(srv.URL(), nil)
	_, _, err := client.Login(context.Background(), "alice", "wrong")
	if !api.IsAuth(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if got := api.Detail(err, ""); got != "Incorrect username or password" {
		t.Errorf("Detail = %q, want server message verbatim", got)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "hunter2", "")

	client := api.New(srv.URL(), nil)
	err := client.Register(context.Background(), "alice", "", "pw")
	if !api.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := api.Detail(err, ""); got != "Username or email already registered" {
		t.Errorf("Detail = %q, want server message verbatim", got)
	}
}

func TestRegisterThenLoginMatchesDirectLogin(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := api.New(srv.URL(), nil)
	if err := client.Register(context.Background(), "bob", "bob@example.com", "pw"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, u1, err := client.Login(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("login after register failed: %v", err)
	}
	_, u2, err := client.Login(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if u1 != u2 {
		t.Errorf("identity differs between logins: %+v vs %+v", u1, u2)
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := api.New(srv.URL(), nil)
	_, err := client.DailyTasks(context.Background())
	if !api.IsAuth(err) {
		t.Fatalf("expected AuthError without a token, got %v", err)
	}
}

func TestDailyTasksAndToggle(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "hunter2", "")
	task := srv.AddTask("Drink water", 10)
	srv.AddTask("Work out", 50)

	client, _ := login(t, srv, "alice", "hunter2")

	entries, err := client.DailyTasks(context.Background())
	if err != nil {
		t.Fatalf("DailyTasks failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Completed || entries[0].PointsAwarded != 0 {
		t.Errorf("fresh entry should be uncompleted with 0 points: %+v", entries[0])
	}
	if entries[0].Date != srv.Today() {
		t.Errorf("entry date = %q, want server today %q", entries[0].Date, srv.Today())
	}

	updated, err := client.UpsertDailyLog(context.Background(), task.ID, entries[0].Date, true)
	if err != nil {
		t.Fatalf("UpsertDailyLog failed: %v", err)
	}
	if !updated.Completed || updated.PointsAwarded != 10 {
		t.Errorf("unexpected updated entry: %+v", updated)
	}

	entries, err = client.DailyTasks(context.Background())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !entries[0].Completed || entries[0].PointsAwarded != 10 {
		t.Errorf("server state not reflected after toggle: %+v", entries[0])
	}
}

func TestLeaderboardOrderPreserved(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "pw", "")
	srv.AddUser("carol", "pw", "")
	task := srv.AddTask("Read", 30)

	carol, _ := login(t, srv, "carol", "pw")
	if _, err := carol.UpsertDailyLog(context.Background(), task.ID, srv.Today(), true); err != nil {
		t.Fatalf("carol toggle failed: %v", err)
	}

	alice, _ := login(t, srv, "alice", "pw")
	if _, err := alice.AddFriend(context.Background(), "carol"); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	entries, err := alice.Leaderboard(context.Background(), models.RangeWeekly)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Username != "carol" || entries[0].TotalPoints != 30 {
		t.Errorf("expected carol first with 30 pts, got %+v", entries[0])
	}
}

func TestAddFriendUnknownUser(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "pw", "")

	client, _ := login(t, srv, "alice", "pw")

	_, err := client.AddFriend(context.Background(), "nobody")
	if !api.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := api.Detail(err, ""); got != "Friend user not found" {
		t.Errorf("Detail = %q, want server message verbatim", got)
	}

	friends, err := client.Friends(context.Background())
	if err != nil {
		t.Fatalf("Friends failed: %v", err)
	}
	if len(friends) != 0 {
		t.Errorf("friend list changed after failed add: %+v", friends)
	}
}

func TestStatsSummary(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "pw", "")
	task := srv.AddTask("Meditate", 20)

	client, _ := login(t, srv, "alice", "pw")
	if _, err := client.UpsertDailyLog(context.Background(), task.ID, srv.Today(), true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	summary, err := client.StatsSummary(context.Background(), models.RangeDaily)
	if err != nil {
		t.Fatalf("StatsSummary failed: %v", err)
	}
	if summary.TotalPoints != 20 {
		t.Errorf("TotalPoints = %d, want 20", summary.TotalPoints)
	}
	if summary.StartDate != srv.Today() || summary.EndDate != srv.Today() {
		t.Errorf("daily range should span only today: %+v", summary)
	}
	if len(summary.ByDate) != 1 || summary.ByDate[0].Points != 20 {
		t.Errorf("unexpected by-date breakdown: %+v", summary.ByDate)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := apitest.NewServer()
	srv.AddUser("alice", "pw", "")
	client, _ := login(t, srv, "alice", "pw")
	srv.Close()

	_, err := client.DailyTasks(context.Background())
	var ne *api.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError after server shutdown, got %v", err)
	}
}

func TestServerErrorIsNetworkError(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "pw", "")
	client, _ := login(t, srv, "alice", "pw")

	srv.SetFailNext()
	_, err := client.DailyTasks(context.Background())
	var ne *api.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError for a 500, got %v", err)
	}
}

func TestMe(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "pw", "alice@example.com")

	client, user := login(t, srv, "alice", "pw")
	me, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me != user {
		t.Errorf("Me = %+v, want login snapshot %+v", me, user)
	}
}
