package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	"github.com/Venkatnagaram/mentor-apis-working/internal/repository"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/lock"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/timerange"
)

type meetingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
	ListByUser(ctx context.Context, userID string, status models.MeetingStatus) ([]models.Meeting, error)
	FindOverlapping(ctx context.Context, mentorID, menteeID string, start, end time.Time) ([]models.Meeting, error)
	CreateScheduled(ctx context.Context, meeting *models.Meeting) error
	UpdateStatus(ctx context.Context, id string, status models.MeetingStatus) error
}

type meetingUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type meetingConnectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Connection, error)
}

type slotGenerator interface {
	Generate(ctx context.Context, query SlotQuery) (*SlotResult, error)
}

type bookingLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// MeetingService books and cancels meetings. Booking validates the requested
// slot against freshly generated availability, then re-checks meeting-level
// conflicts, all under a per-mentor lock held through the commit.
type MeetingService struct {
	meetingRepo    meetingRepository
	userRepo       meetingUserRepository
	connectionRepo meetingConnectionRepository
	slots          slotGenerator
	locker         bookingLocker
	lockTTL        time.Duration
	validator      *validator.Validate
	logger         *zap.Logger
	now            func() time.Time
}

// NewMeetingService constructs the service.
func NewMeetingService(meetingRepo meetingRepository, userRepo meetingUserRepository, connectionRepo meetingConnectionRepository, slots slotGenerator, locker bookingLocker, lockTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *MeetingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &MeetingService{
		meetingRepo:    meetingRepo,
		userRepo:       userRepo,
		connectionRepo: connectionRepo,
		slots:          slots,
		locker:         locker,
		lockTTL:        lockTTL,
		validator:      validate,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// BookMeetingRequest describes a booking attempt. MentorID and MenteeID may
// be omitted when ConnectionID is supplied; they are then derived from the
// connection record.
type BookMeetingRequest struct {
	ConnectionID    *string   `json:"connection_id"`
	MentorID        string    `json:"mentor_id"`
	MenteeID        string    `json:"mentee_id"`
	StartAt         time.Time `json:"start_at" validate:"required"`
	EndAt           time.Time `json:"end_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
}

// Book validates and commits a new scheduled meeting. Precondition checks run
// in a fixed order; the first failure wins and nothing is written.
func (s *MeetingService) Book(ctx context.Context, req BookMeetingRequest) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	startAt := req.StartAt.UTC().Truncate(time.Second)
	endAt := req.EndAt.UTC().Truncate(time.Second)

	if endAt.After(startAt) && int(endAt.Sub(startAt)/time.Minute) != req.DurationMinutes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duration_minutes does not match the requested interval")
	}
	if !startAt.After(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrPastBooking, "")
	}
	if !endAt.After(startAt) {
		return nil, appErrors.Clone(appErrors.ErrInvalidInterval, "")
	}

	mentorID, menteeID := req.MentorID, req.MenteeID

	var connection *models.Connection
	if req.ConnectionID != nil && *req.ConnectionID != "" {
		conn, err := s.connectionRepo.FindByID(ctx, *req.ConnectionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrConnectionNotFound, "")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load connection")
		}
		connection = conn
		if mentorID == "" {
			mentorID = conn.MentorID
		}
		if menteeID == "" {
			menteeID = conn.MenteeID
		}
	}
	if mentorID == "" || menteeID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mentor_id and mentee_id are required")
	}

	mentor, mentee, err := s.resolveParticipants(ctx, mentorID, menteeID)
	if err != nil {
		return nil, err
	}
	if mentor.Role != models.RoleMentor {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "mentor_id must belong to a user with mentor role")
	}
	if mentee.Role != models.RoleMentee {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "mentee_id must belong to a user with mentee role")
	}

	if connection != nil {
		if connection.Status != models.ConnectionStatusAccepted {
			return nil, appErrors.Clone(appErrors.ErrConnectionNotAccepted, "")
		}
		if connection.MentorID != mentorID || connection.MenteeID != menteeID {
			return nil, appErrors.Clone(appErrors.ErrParticipantMismatch, "")
		}
	}

	// Serialize competing bookings for the same mentor across the whole
	// validate-then-commit sequence.
	release, err := s.locker.Acquire(ctx, "booking:"+mentorID, s.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, appErrors.Clone(appErrors.ErrBookingConflict, "another booking for this mentor is in progress")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire booking lock")
	}
	defer release()

	if err := s.ensureSlotAvailable(ctx, mentorID, startAt, endAt); err != nil {
		return nil, err
	}

	// Meeting-level conflicts cover the mentee side too, which slot
	// re-derivation alone does not.
	overlapping, err := s.meetingRepo.FindOverlapping(ctx, mentorID, menteeID, startAt, endAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check meeting conflicts")
	}
	if len(overlapping) > 0 {
		return nil, appErrors.Clone(appErrors.ErrBookingConflict, "")
	}

	meeting := &models.Meeting{
		ConnectionID:    req.ConnectionID,
		MentorID:        mentorID,
		MenteeID:        menteeID,
		StartAt:         startAt,
		EndAt:           endAt,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.meetingRepo.CreateScheduled(ctx, meeting); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, appErrors.Clone(appErrors.ErrBookingConflict, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting")
	}

	s.logger.Info("meeting booked",
		zap.String("meeting_id", meeting.ID),
		zap.String("mentor_id", mentorID),
		zap.String("mentee_id", menteeID),
		zap.Time("start_at", startAt))

	return meeting, nil
}

// ensureSlotAvailable re-derives the mentor's free slots over a day-bounded
// window containing the requested interval; the request must match one
// generated slot exactly at second granularity.
func (s *MeetingService) ensureSlotAvailable(ctx context.Context, mentorID string, startAt, endAt time.Time) error {
	windowStart := timerange.TruncateToDay(startAt)
	windowEnd := timerange.TruncateToDay(endAt).AddDate(0, 0, 1).Add(-time.Second)

	result, err := s.slots.Generate(ctx, SlotQuery{
		UserID:      mentorID,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Mode:        models.SlotModeFlat,
	})
	if err != nil {
		return err
	}

	requested := models.Slot{Start: startAt, End: endAt}
	for _, slot := range result.Slots {
		if slot.Equal(requested) {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrSlotUnavailable, "")
}

func (s *MeetingService) resolveParticipants(ctx context.Context, mentorID, menteeID string) (*models.User, *models.User, error) {
	mentor, err := s.userRepo.FindByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrParticipantNotFound, "mentor not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve mentor")
	}
	mentee, err := s.userRepo.FindByID(ctx, menteeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrParticipantNotFound, "mentee not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve mentee")
	}
	return mentor, mentee, nil
}

// Cancel transitions a scheduled meeting to cancelled. Only a participant may
// cancel, and cancellation is not idempotent.
func (s *MeetingService) Cancel(ctx context.Context, meetingID, requesterID string) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrMeetingNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	if meeting.MentorID != requesterID && meeting.MenteeID != requesterID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "not authorized to cancel this meeting")
	}
	if meeting.Status != models.MeetingStatusScheduled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "")
	}

	if err := s.meetingRepo.UpdateStatus(ctx, meetingID, models.MeetingStatusCancelled); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel meeting")
	}
	meeting.Status = models.MeetingStatusCancelled
	meeting.UpdatedAt = s.now()

	s.logger.Info("meeting cancelled", zap.String("meeting_id", meetingID), zap.String("requester_id", requesterID))
	return meeting, nil
}

// ListByUser returns the user's meetings with the given status, defaulting to
// scheduled.
func (s *MeetingService) ListByUser(ctx context.Context, userID string, status models.MeetingStatus) ([]models.Meeting, error) {
	if status == "" {
		status = models.MeetingStatusScheduled
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown meeting status")
	}
	meetings, err := s.meetingRepo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meetings")
	}
	return meetings, nil
}
