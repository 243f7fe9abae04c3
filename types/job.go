package types

import "time"

// ScanStatus represents the current status of a library scan job
type ScanStatus string

const (
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// ScanJob represents one library scan (the startup scan or a rescan)
type ScanJob struct {
	ID          string     `json:"id"`
	Status      ScanStatus `json:"status"`
	Scanned     int        `json:"scanned"`
	Skipped     int        `json:"skipped"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
