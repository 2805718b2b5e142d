package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
)

const meetingColumns = "id, connection_id, mentor_id, mentee_id, start_at, end_at, duration_minutes, status, created_at, updated_at"

// ErrOverlap is returned when an insert would double-book a participant.
var ErrOverlap = errors.New("meeting overlaps an existing scheduled meeting")

// MeetingRepository provides persistence for meetings.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository creates a new meeting repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// FindByID loads a meeting by id.
func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	query := fmt.Sprintf("SELECT %s FROM meetings WHERE id = $1", meetingColumns)
	var meeting models.Meeting
	if err := r.db.GetContext(ctx, &meeting, query, id); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListByUser returns meetings where the user participates as mentor or
// mentee, filtered by status, ordered by start time.
func (r *MeetingRepository) ListByUser(ctx context.Context, userID string, status models.MeetingStatus) ([]models.Meeting, error) {
	query := fmt.Sprintf("SELECT %s FROM meetings WHERE (mentor_id = $1 OR mentee_id = $1) AND status = $2 ORDER BY start_at ASC", meetingColumns)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, userID, status); err != nil {
		return nil, fmt.Errorf("list meetings by user: %w", err)
	}
	return meetings, nil
}

// ListScheduledInWindow returns the user's scheduled meetings whose start_at
// falls within [windowStart, windowEnd]. These form the busy intervals for
// slot generation.
func (r *MeetingRepository) ListScheduledInWindow(ctx context.Context, userID string, windowStart, windowEnd time.Time) ([]models.Meeting, error) {
	query := fmt.Sprintf("SELECT %s FROM meetings WHERE (mentor_id = $1 OR mentee_id = $1) AND status = 'scheduled' AND start_at >= $2 AND start_at <= $3 ORDER BY start_at ASC", meetingColumns)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, userID, windowStart, windowEnd); err != nil {
		return nil, fmt.Errorf("list scheduled meetings in window: %w", err)
	}
	return meetings, nil
}

// FindOverlapping returns scheduled meetings for either participant whose
// [start_at, end_at) interval intersects [start, end).
func (r *MeetingRepository) FindOverlapping(ctx context.Context, mentorID, menteeID string, start, end time.Time) ([]models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE status = 'scheduled' AND start_at < $3 AND end_at > $4 AND (mentor_id = $1 OR mentee_id = $1 OR mentor_id = $2 OR mentee_id = $2)`, meetingColumns)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, mentorID, menteeID, end, start); err != nil {
		return nil, fmt.Errorf("find overlapping meetings: %w", err)
	}
	return meetings, nil
}

// CreateScheduled inserts a new scheduled meeting after re-checking for
// overlap inside a transaction. Existing scheduled rows for either
// participant are locked with FOR UPDATE so two racing bookings serialize at
// the store; the loser gets ErrOverlap.
func (r *MeetingRepository) CreateScheduled(ctx context.Context, meeting *models.Meeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}
	meeting.UpdatedAt = now
	meeting.Status = models.MeetingStatusScheduled

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create meeting: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var count int
	err = tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM (SELECT id FROM meetings WHERE status = 'scheduled' AND start_at < $3 AND end_at > $4 AND (mentor_id = $1 OR mentee_id = $1 OR mentor_id = $2 OR mentee_id = $2) FOR UPDATE) locked`,
		meeting.MentorID, meeting.MenteeID, meeting.EndAt, meeting.StartAt)
	if err != nil {
		return fmt.Errorf("lock overlapping meetings: %w", err)
	}
	if count > 0 {
		err = ErrOverlap
		return err
	}

	const insert = `INSERT INTO meetings (id, connection_id, mentor_id, mentee_id, start_at, end_at, duration_minutes, status, created_at, updated_at) VALUES (:id, :connection_id, :mentor_id, :mentee_id, :start_at, :end_at, :duration_minutes, :status, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insert, meeting); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create meeting: %w", err)
	}
	return nil
}

// UpdateStatus transitions a meeting to the given status.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id string, status models.MeetingStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE meetings SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	return nil
}
