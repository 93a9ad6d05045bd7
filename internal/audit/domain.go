// Package audit is the append-only record of who did what. Writes are
// fire-and-forget: an audit outage must never fail the operation being
// described.
package audit

import "time"

// Statuses recorded for an audit entry.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Entry is what callers hand to the recorder.
type Entry struct {
	Username     string
	RoleName     string
	Action       string
	Resource     string
	ResourceID   string
	Status       string
	ErrorMessage string
}

// Record is a persisted, immutable audit row.
type Record struct {
	ID           int64     `json:"log_id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username"`
	RoleName     string    `json:"role_name"`
	Action       string    `json:"action"`
	Resource     string    `json:"resource"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}
