package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
)

func meetingRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "connection_id", "mentor_id", "mentee_id", "start_at", "end_at", "duration_minutes", "status", "created_at", "updated_at"}).
		AddRow("m1", nil, "mentor-1", "mentee-1", now, now.Add(30*time.Minute), 30, "scheduled", now, now)
}

func TestMeetingRepositoryListScheduledInWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	now := time.Now().UTC()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	mock.ExpectQuery("SELECT id, connection_id, mentor_id, mentee_id, start_at, end_at, duration_minutes, status, created_at, updated_at FROM meetings WHERE \\(mentor_id = \\$1 OR mentee_id = \\$1\\) AND status = 'scheduled'").
		WithArgs("mentor-1", start, end).
		WillReturnRows(meetingRows(now))

	meetings, err := repo.ListScheduledInWindow(context.Background(), "mentor-1", start, end)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, models.MeetingStatusScheduled, meetings[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepositoryCreateScheduled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	now := time.Now().UTC()
	meeting := &models.Meeting{
		MentorID:        "mentor-1",
		MenteeID:        "mentee-1",
		StartAt:         now.Add(time.Hour),
		EndAt:           now.Add(90 * time.Minute),
		DurationMinutes: 30,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM").
		WithArgs("mentor-1", "mentee-1", meeting.EndAt, meeting.StartAt).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO meetings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateScheduled(context.Background(), meeting))
	assert.NotEmpty(t, meeting.ID)
	assert.Equal(t, models.MeetingStatusScheduled, meeting.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepositoryCreateScheduledOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	now := time.Now().UTC()
	meeting := &models.Meeting{
		MentorID:        "mentor-1",
		MenteeID:        "mentee-1",
		StartAt:         now.Add(time.Hour),
		EndAt:           now.Add(90 * time.Minute),
		DurationMinutes: 30,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM").
		WithArgs("mentor-1", "mentee-1", meeting.EndAt, meeting.StartAt).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CreateScheduled(context.Background(), meeting)
	require.ErrorIs(t, err, ErrOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE meetings SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("m1", models.MeetingStatusCancelled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "m1", models.MeetingStatusCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}
