package models

import "fmt"

// DateFormat is the wire format for calendar dates (day granularity).
const DateFormat = "2006-01-02"

// User is the identity snapshot taken at login time. It is not kept
// live-synced with the server.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Task is a server-defined task. Immutable from the client's perspective
// within a session.
type Task struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Points      int    `json:"points"`
	IsActive    bool   `json:"is_active"`
}

// DailyLogEntry records whether a task was completed on a given date and
// the points it yielded. Date is always the server's "today" as returned
// with the list, never client-computed.
type DailyLogEntry struct {
	Task          Task   `json:"task"`
	Date          string `json:"date"` // YYYY-MM-DD
	Completed     bool   `json:"completed"`
	PointsAwarded int    `json:"points_awarded"`
}

// Toggled returns the entry with its completion flipped and points
// recomputed. PointsAwarded is always task.Points when completed and 0
// otherwise, so a double toggle restores the original entry.
func (e DailyLogEntry) Toggled() DailyLogEntry {
	e.Completed = !e.Completed
	if e.Completed {
		e.PointsAwarded = e.Task.Points
	} else {
		e.PointsAwarded = 0
	}
	return e
}

// LeaderboardEntry is one row of the server-computed ranking. The server
// returns rows pre-sorted by descending total points; the client does not
// re-sort.
type LeaderboardEntry struct {
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"total_points"`
}

// Friendship is a directed edge from the acting user to Friend.
type Friendship struct {
	ID     int  `json:"id"`
	Friend User `json:"friend"`
}

// StatsByDate is one day's points within a stats summary.
type StatsByDate struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// StatsSummary is the server-computed aggregate for one range.
type StatsSummary struct {
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	TotalPoints int           `json:"total_points"`
	ByDate      []StatsByDate `json:"by_date"`
}

// Range is the aggregation window used for stats and leaderboard queries.
type Range string

const (
	RangeDaily   Range = "daily"
	RangeWeekly  Range = "weekly"
	RangeMonthly Range = "monthly"
)

// Ranges lists all valid ranges in display order.
func Ranges() []Range {
	return []Range{RangeDaily, RangeWeekly, RangeMonthly}
}

// ParseRange converts a free string into a Range.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case RangeDaily, RangeWeekly, RangeMonthly:
		return Range(s), nil
	default:
		return "", fmt.Errorf("invalid range: %q (want daily, weekly or monthly)", s)
	}
}

// Next cycles to the following range, wrapping monthly back to daily.
func (r Range) Next() Range {
	switch r {
	case RangeDaily:
		return RangeWeekly
	case RangeWeekly:
		return RangeMonthly
	default:
		return RangeDaily
	}
}
