package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/SID01AV/productivity-tracker/internal/models"
)

// TokenProvider supplies the current session credential. An empty string
// means no session; the request is then sent without authorization.
type TokenProvider interface {
	Token() string
}

// Client is the single HTTP transport wrapper for the tracker API. Every
// outgoing request picks up the bearer credential from the token provider,
// so a login or logout is visible to the next request without rewiring.
type Client struct {
	baseURL string
	http    *http.Client
	creds   TokenProvider
}

// New creates a client for the API at baseURL. creds may be nil for a
// client that only performs login/register.
func New(baseURL string, creds TokenProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// loginResponse mirrors the server's token payload.
type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Login exchanges credentials for a token and identity snapshot. The
// endpoint is form-encoded (OAuth2 password flow on the server side).
func (c *Client) Login(ctx context.Context, username, password string) (string, models.User, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", models.User{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out loginResponse
	if err := c.do(req, &out); err != nil {
		return "", models.User{}, err
	}
	return out.AccessToken, out.User, nil
}

// Register creates an account. The server rejects duplicate usernames with
// a ValidationError carrying its detail message. Email is optional and
// omitted when empty.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	payload := map[string]any{
		"username": username,
		"password": password,
	}
	if email != "" {
		payload["email"] = email
	}
	return c.postJSON(ctx, "/api/auth/register", payload, nil)
}

// Me fetches the identity the server associates with the current
// credential.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.getJSON(ctx, "/api/auth/me", &u)
	return u, err
}

// DailyTasks returns today's task list with completion status. The date on
// each entry is the server's "today".
func (c *Client) DailyTasks(ctx context.Context) ([]models.DailyLogEntry, error) {
	var entries []models.DailyLogEntry
	err := c.getJSON(ctx, "/api/tasks/daily", &entries)
	return entries, err
}

// UpsertDailyLog records a completion state for (task, date) and returns
// the server's view of the entry.
func (c *Client) UpsertDailyLog(ctx context.Context, taskID int, date string, completed bool) (models.DailyLogEntry, error) {
	payload := map[string]any{
		"task_id":   taskID,
		"date":      date,
		"completed": completed,
	}
	var entry models.DailyLogEntry
	err := c.postJSON(ctx, "/api/daily-logs", payload, &entry)
	return entry, err
}

// Leaderboard returns the friends ranking for the range, pre-sorted by
// descending total points.
func (c *Client) Leaderboard(ctx context.Context, r models.Range) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := c.getJSON(ctx, "/api/leaderboard?range="+url.QueryEscape(string(r)), &entries)
	return entries, err
}

// Friends lists the acting user's friendships.
func (c *Client) Friends(ctx context.Context) ([]models.Friendship, error) {
	var friends []models.Friendship
	err := c.getJSON(ctx, "/api/friends", &friends)
	return friends, err
}

// AddFriend creates a friendship edge to the named user.
func (c *Client) AddFriend(ctx context.Context, username string) (models.Friendship, error) {
	payload := map[string]any{"friend_username": username}
	var fs models.Friendship
	err := c.postJSON(ctx, "/api/friends", payload, &fs)
	return fs, err
}

// StatsSummary returns the acting user's aggregate for the range.
func (c *Client) StatsSummary(ctx context.Context, r models.Range) (models.StatsSummary, error) {
	var summary models.StatsSummary
	err := c.getJSON(ctx, "/api/stats/summary?range="+url.QueryEscape(string(r)), &summary)
	return summary, err
}

// Ping checks that the server answers at all. Any HTTP response counts;
// only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tasks/daily", nil)
	if err != nil {
		return err
	}
	c.decorate(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *Client) do(req *http.Request, out any) error {
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	return classify(resp.StatusCode, body)
}

// classify maps a non-success response to the error taxonomy: 401 is an
// AuthError, other 4xx are ValidationErrors carrying the server's detail
// text, everything else is uninterpretable and reported as a NetworkError.
func classify(status int, body []byte) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)

	switch {
	case status == http.StatusUnauthorized:
		return &AuthError{Detail: payload.Detail}
	case status >= 400 && status < 500:
		return &ValidationError{Detail: payload.Detail}
	default:
		return &NetworkError{Err: fmt.Errorf("server returned %d", status)}
	}
}
