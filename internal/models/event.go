package models

import "time"

// Auth event types recorded in the journal.
const (
	EventSignup       = "signup"
	EventLoginSuccess = "login.success"
	EventLoginFail    = "login.fail"
	EventLogout       = "logout"
)

// Event represents a recorded authentication action.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "login.success", "login.fail"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nullable when the email matched no account
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
