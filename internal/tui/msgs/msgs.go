// Package msgs holds messages shared between the TUI root model and its
// view components.
package msgs

// SessionExpiredMsg is emitted when the server rejects the session
// credential mid-use. The root model treats it as a logout.
type SessionExpiredMsg struct{}
