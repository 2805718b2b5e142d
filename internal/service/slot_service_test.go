package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
)

type availabilityRepoStub struct {
	rules []models.AvailabilityRule
	err   error
}

func (s *availabilityRepoStub) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.AvailabilityRule, error) {
	return s.rules, s.err
}

type meetingRepoWindowStub struct {
	meetings []models.Meeting
	err      error
}

func (s *meetingRepoWindowStub) ListScheduledInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.Meeting, error) {
	return s.meetings, s.err
}

type userRepoStub struct {
	users map[string]*models.User
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func mentorUser(id string) *models.User {
	return &models.User{ID: id, Role: models.RoleMentor, Timezone: "UTC", Active: true}
}

// 2025-03-10 is a Monday.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func weeklyMondayRule() models.AvailabilityRule {
	return models.AvailabilityRule{
		ID:                  "rule-1",
		UserID:              "mentor-1",
		Kind:                models.RuleKindWeekly,
		Days:                models.StringList{"mon"},
		TimeRanges:          models.TimeRangeList{{From: "09:00", To: "10:00"}},
		SlotDurationMinutes: 30,
		Active:              true,
	}
}

func newSlotService(rules []models.AvailabilityRule, meetings []models.Meeting) *SlotService {
	return NewSlotService(
		&availabilityRepoStub{rules: rules},
		&meetingRepoWindowStub{meetings: meetings},
		&userRepoStub{users: map[string]*models.User{"mentor-1": mentorUser("mentor-1")}},
		nil,
	)
}

func TestGenerateWeeklyRuleProducesSlots(t *testing.T) {
	svc := newSlotService([]models.AvailabilityRule{weeklyMondayRule()}, nil)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID:      "mentor-1",
		WindowStart: monday,
		WindowEnd:   monday,
		Mode:        models.SlotModeFlat,
	})
	require.NoError(t, err)
	require.Len(t, result.Slots, 2)
	assert.Equal(t, monday.Add(9*time.Hour), result.Slots[0].Start)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), result.Slots[0].End)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), result.Slots[1].Start)
	assert.Equal(t, monday.Add(10*time.Hour), result.Slots[1].End)
}

func TestGenerateExcludesBusyIntervals(t *testing.T) {
	busy := []models.Meeting{{
		MentorID: "mentor-1",
		MenteeID: "mentee-1",
		StartAt:  monday.Add(9 * time.Hour),
		EndAt:    monday.Add(9*time.Hour + 30*time.Minute),
		Status:   models.MeetingStatusScheduled,
	}}
	svc := newSlotService([]models.AvailabilityRule{weeklyMondayRule()}, busy)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday, Mode: models.SlotModeFlat,
	})
	require.NoError(t, err)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), result.Slots[0].Start)
	assert.Equal(t, monday.Add(10*time.Hour), result.Slots[0].End)
}

func TestGenerateNoFreeSlotOverlapsBusy(t *testing.T) {
	busy := []models.Meeting{{
		StartAt: monday.Add(9*time.Hour + 15*time.Minute),
		EndAt:   monday.Add(9*time.Hour + 45*time.Minute),
		Status:  models.MeetingStatusScheduled,
	}}
	svc := newSlotService([]models.AvailabilityRule{weeklyMondayRule()}, busy)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday,
	})
	require.NoError(t, err)
	// both candidate slots overlap the 09:15-09:45 meeting
	assert.Empty(t, result.Slots)
}

func TestGenerateSingleDatesRule(t *testing.T) {
	target := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rule := models.AvailabilityRule{
		ID:     "rule-sd",
		UserID: "mentor-1",
		Kind:   models.RuleKindSingleDates,
		DateWindows: models.DateWindowList{{
			Dates:      []time.Time{target},
			TimeRanges: models.TimeRangeList{{From: "14:00", To: "14:30"}},
		}},
		SlotDurationMinutes: 30,
		Active:              true,
	}
	svc := newSlotService([]models.AvailabilityRule{rule}, nil)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: target, WindowEnd: target,
	})
	require.NoError(t, err)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, target.Add(14*time.Hour), result.Slots[0].Start)

	nextDay := target.AddDate(0, 0, 1)
	result, err = svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: nextDay, WindowEnd: nextDay,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
}

func TestGenerateDateRangeRule(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)
	rule := models.AvailabilityRule{
		ID:     "rule-dr",
		UserID: "mentor-1",
		Kind:   models.RuleKindDateRange,
		DateWindows: models.DateWindowList{{
			StartDate:  &start,
			EndDate:    &end,
			TimeRanges: models.TimeRangeList{{From: "08:00", To: "09:00"}},
		}},
		SlotDurationMinutes: 60,
		Active:              true,
	}
	svc := newSlotService([]models.AvailabilityRule{rule}, nil)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: start.AddDate(0, 0, -1), WindowEnd: end.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	// one 60-minute slot per covered day, none outside the range
	require.Len(t, result.Slots, 3)
	for i, slot := range result.Slots {
		assert.Equal(t, start.AddDate(0, 0, i).Add(8*time.Hour), slot.Start)
	}
}

func TestGenerateDateRangeWithoutEndDateIsSingleDay(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	rule := models.AvailabilityRule{
		ID:     "rule-dr1",
		UserID: "mentor-1",
		Kind:   models.RuleKindDateRange,
		DateWindows: models.DateWindowList{{
			StartDate:  &start,
			TimeRanges: models.TimeRangeList{{From: "08:00", To: "08:30"}},
		}},
		SlotDurationMinutes: 30,
		Active:              true,
	}
	svc := newSlotService([]models.AvailabilityRule{rule}, nil)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: start, WindowEnd: start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, start.Add(8*time.Hour), result.Slots[0].Start)
}

func TestGenerateValidityWindowRestrictsRule(t *testing.T) {
	validTo := monday.AddDate(0, 0, 2)
	rule := weeklyMondayRule()
	rule.ValidFrom = &monday
	rule.ValidTo = &validTo
	svc := newSlotService([]models.AvailabilityRule{rule}, nil)

	// the following Monday is past valid_to
	nextMonday := monday.AddDate(0, 0, 7)
	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: nextMonday, WindowEnd: nextMonday,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Slots)

	result, err = svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday,
	})
	require.NoError(t, err)
	assert.Len(t, result.Slots, 2)
}

func TestGenerateOverlappingRulesPreserveDuplicates(t *testing.T) {
	second := weeklyMondayRule()
	second.ID = "rule-2"
	svc := newSlotService([]models.AvailabilityRule{weeklyMondayRule(), second}, nil)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday,
	})
	require.NoError(t, err)
	// flat mode keeps duplicates from overlapping rules
	assert.Len(t, result.Slots, 4)
}

func TestGenerateChronologicalOrder(t *testing.T) {
	late := weeklyMondayRule()
	late.ID = "rule-late"
	late.TimeRanges = models.TimeRangeList{{From: "15:00", To: "16:00"}}
	early := weeklyMondayRule()
	svc := newSlotService([]models.AvailabilityRule{late, early}, nil)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Slots)
	for i := 1; i < len(result.Slots); i++ {
		assert.False(t, result.Slots[i].Start.Before(result.Slots[i-1].Start))
	}
}

func TestGenerateGroupedOmitsEmptyGroups(t *testing.T) {
	blocked := weeklyMondayRule()
	blocked.ID = "rule-blocked"
	blocked.TimeRanges = models.TimeRangeList{{From: "12:00", To: "12:30"}}
	busy := []models.Meeting{{
		StartAt: monday.Add(12 * time.Hour),
		EndAt:   monday.Add(12*time.Hour + 30*time.Minute),
		Status:  models.MeetingStatusScheduled,
	}}
	svc := newSlotService([]models.AvailabilityRule{weeklyMondayRule(), blocked}, busy)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday, Mode: models.SlotModeGrouped,
	})
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "rule-1", result.Groups[0].RuleID)
	assert.Equal(t, models.RuleKindWeekly, result.Groups[0].Kind)
	assert.Equal(t, 2, result.Groups[0].TotalSlots)
}

func TestGenerateGroupedWithStatusTagsBookedSlots(t *testing.T) {
	busy := []models.Meeting{{
		StartAt: monday.Add(9 * time.Hour),
		EndAt:   monday.Add(9*time.Hour + 30*time.Minute),
		Status:  models.MeetingStatusScheduled,
	}}
	svc := newSlotService([]models.AvailabilityRule{weeklyMondayRule()}, busy)

	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday, Mode: models.SlotModeGroupedWithStatus,
	})
	require.NoError(t, err)
	require.Len(t, result.StatusSlots, 2)
	assert.Equal(t, models.SlotStatusBooked, result.StatusSlots[0].Status)
	assert.Equal(t, models.SlotStatusAvailable, result.StatusSlots[1].Status)
}

func TestGenerateIdempotent(t *testing.T) {
	svc := newSlotService([]models.AvailabilityRule{weeklyMondayRule()}, nil)
	query := SlotQuery{UserID: "mentor-1", WindowStart: monday, WindowEnd: monday.AddDate(0, 0, 7)}

	first, err := svc.Generate(context.Background(), query)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateNoRulesYieldsEmptyResult(t *testing.T) {
	svc := newSlotService(nil, nil)
	result, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
}

func TestGenerateInvalidWindow(t *testing.T) {
	svc := newSlotService(nil, nil)
	_, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday.AddDate(0, 0, -1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidWindow.Code, appErrors.FromError(err).Code)
}

func TestGenerateUnknownUser(t *testing.T) {
	svc := newSlotService(nil, nil)
	_, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "ghost", WindowStart: monday, WindowEnd: monday,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUserNotFound.Code, appErrors.FromError(err).Code)
}

func TestGenerateUnknownMode(t *testing.T) {
	svc := newSlotService(nil, nil)
	_, err := svc.Generate(context.Background(), SlotQuery{
		UserID: "mentor-1", WindowStart: monday, WindowEnd: monday, Mode: "sideways",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
