package models

import "time"

// ConnectionStatus tracks the mentorship request workflow.
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// Connection links a mentee to a mentor. The request/accept workflow lives
// outside this service; booking only reads accepted connections.
type Connection struct {
	ID          string           `db:"id" json:"id"`
	MentorID    string           `db:"mentor_id" json:"mentor_id"`
	MenteeID    string           `db:"mentee_id" json:"mentee_id"`
	Status      ConnectionStatus `db:"status" json:"status"`
	RequestedAt time.Time        `db:"requested_at" json:"requested_at"`
	RespondedAt *time.Time       `db:"responded_at" json:"responded_at,omitempty"`
}
