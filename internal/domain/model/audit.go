package model

import "time"

// AuditEntry records a single command execution.
type AuditEntry struct {
	ID        int64
	RequestID string
	Actor     string
	Command   string
	Type      string
	Token     string
	OK        bool
	Error     string
	CreatedAt time.Time
}
