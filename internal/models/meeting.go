package models

import "time"

// MeetingStatus captures the meeting lifecycle. Cancelled and completed are
// terminal.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusCompleted MeetingStatus = "completed"
)

// Valid reports whether the status is a known tag.
func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusScheduled, MeetingStatusCancelled, MeetingStatusCompleted:
		return true
	}
	return false
}

// Meeting represents a booked slot between one mentor and one mentee.
// StartAt/EndAt are UTC instants; DurationMinutes always equals their
// difference in minutes.
type Meeting struct {
	ID              string        `db:"id" json:"id"`
	ConnectionID    *string       `db:"connection_id" json:"connection_id,omitempty"`
	MentorID        string        `db:"mentor_id" json:"mentor_id"`
	MenteeID        string        `db:"mentee_id" json:"mentee_id"`
	StartAt         time.Time     `db:"start_at" json:"start_at"`
	EndAt           time.Time     `db:"end_at" json:"end_at"`
	DurationMinutes int           `db:"duration_minutes" json:"duration_minutes"`
	Status          MeetingStatus `db:"status" json:"status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// BusyInterval is the time span of a scheduled meeting used to exclude
// overlapping candidate slots.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}
