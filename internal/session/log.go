package session

import "time"

// Status classifies a log entry.
type Status string

const (
	StatusInfo    Status = "info"
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusSummary Status = "summary"
)

// LogEntry is one event in the session trail. Entries are append-only,
// ordered by the events that produced them, and cleared only by a full reset.
type LogEntry struct {
	Time   time.Time
	Label  string
	Value  string
	Status Status
}
