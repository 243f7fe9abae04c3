package types

import "time"

// ProgressMessage represents a WebSocket scan progress update message
type ProgressMessage struct {
	JobID       string    `json:"jobId"`
	Type        string    `json:"type"` // "progress", "complete", "error"
	Scanned     int       `json:"scanned"`
	Skipped     int       `json:"skipped"`
	CurrentFile string    `json:"currentFile"`       // file currently being indexed
	Message     string    `json:"message,omitempty"` // status or error messages
	Timestamp   time.Time `json:"timestamp"`         // when the update occurred
}
