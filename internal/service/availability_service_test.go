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

type availabilityCRUDStub struct {
	byID        map[string]*models.AvailabilityRule
	created     *models.AvailabilityRule
	updated     *models.AvailabilityRule
	deactivated []string
	deleted     []string
}

func (s *availabilityCRUDStub) Create(ctx context.Context, rule *models.AvailabilityRule) error {
	rule.ID = "rule-1"
	s.created = rule
	return nil
}

func (s *availabilityCRUDStub) FindByID(ctx context.Context, id string) (*models.AvailabilityRule, error) {
	if r, ok := s.byID[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *availabilityCRUDStub) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	for _, r := range s.byID {
		if r.UserID == userID {
			rules = append(rules, *r)
		}
	}
	return rules, nil
}

func (s *availabilityCRUDStub) Update(ctx context.Context, rule *models.AvailabilityRule) error {
	s.updated = rule
	return nil
}

func (s *availabilityCRUDStub) Deactivate(ctx context.Context, id string) error {
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *availabilityCRUDStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newAvailabilityFixture() (*AvailabilityService, *availabilityCRUDStub) {
	repo := &availabilityCRUDStub{byID: map[string]*models.AvailabilityRule{}}
	return NewAvailabilityService(repo, nil, nil), repo
}

func validWeeklyRequest() UpsertAvailabilityRequest {
	return UpsertAvailabilityRequest{
		Kind:                models.RuleKindWeekly,
		Days:                models.StringList{"Mon", "wed"},
		TimeRanges:          models.TimeRangeList{{From: "09:00", To: "10:00"}},
		SlotDurationMinutes: 30,
	}
}

func TestCreateWeeklyRule(t *testing.T) {
	svc, repo := newAvailabilityFixture()

	rule, err := svc.Create(context.Background(), "mentor-1", validWeeklyRequest())
	require.NoError(t, err)
	assert.Equal(t, "rule-1", rule.ID)
	assert.Equal(t, "mentor-1", rule.UserID)
	assert.True(t, rule.Active)
	// weekday tags are normalized to lower case
	assert.Equal(t, models.StringList{"mon", "wed"}, rule.Days)
	require.NotNil(t, repo.created)
}

func TestCreateDefaultsSlotDuration(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	req := validWeeklyRequest()
	req.SlotDurationMinutes = 0

	rule, err := svc.Create(context.Background(), "mentor-1", req)
	require.NoError(t, err)
	assert.Equal(t, 30, rule.SlotDurationMinutes)
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	req := validWeeklyRequest()
	req.Kind = "biweekly"

	_, err := svc.Create(context.Background(), "mentor-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateRejectsInvalidWeekdayTag(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	req := validWeeklyRequest()
	req.Days = models.StringList{"monday"}

	_, err := svc.Create(context.Background(), "mentor-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateRejectsInvertedTimeRange(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	req := validWeeklyRequest()
	req.TimeRanges = models.TimeRangeList{{From: "10:00", To: "09:00"}}

	_, err := svc.Create(context.Background(), "mentor-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateRejectsMalformedWallTime(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	req := validWeeklyRequest()
	req.TimeRanges = models.TimeRangeList{{From: "9am", To: "10:00"}}

	_, err := svc.Create(context.Background(), "mentor-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateRejectsInvertedValidityWindow(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	req := validWeeklyRequest()
	req.ValidFrom = &from
	req.ValidTo = &to

	_, err := svc.Create(context.Background(), "mentor-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateDateRangeRequiresStartDate(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	req := UpsertAvailabilityRequest{
		Kind: models.RuleKindDateRange,
		DateWindows: models.DateWindowList{{
			TimeRanges: models.TimeRangeList{{From: "09:00", To: "10:00"}},
		}},
	}

	_, err := svc.Create(context.Background(), "mentor-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateSingleDatesRequiresDates(t *testing.T) {
	svc, _ := newAvailabilityFixture()
	req := UpsertAvailabilityRequest{
		Kind: models.RuleKindSingleDates,
		DateWindows: models.DateWindowList{{
			TimeRanges: models.TimeRangeList{{From: "09:00", To: "10:00"}},
		}},
	}

	_, err := svc.Create(context.Background(), "mentor-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateOwnedRule(t *testing.T) {
	svc, repo := newAvailabilityFixture()
	repo.byID["rule-1"] = &models.AvailabilityRule{
		ID: "rule-1", UserID: "mentor-1", Kind: models.RuleKindWeekly,
		Days:       models.StringList{"mon"},
		TimeRanges: models.TimeRangeList{{From: "09:00", To: "10:00"}},
		Active:     true,
	}
	req := validWeeklyRequest()
	req.TimeRanges = models.TimeRangeList{{From: "14:00", To: "16:00"}}

	rule, err := svc.Update(context.Background(), "rule-1", "mentor-1", req)
	require.NoError(t, err)
	assert.Equal(t, "14:00", rule.TimeRanges[0].From)
	require.NotNil(t, repo.updated)
}

func TestUpdateForeignRuleForbidden(t *testing.T) {
	svc, repo := newAvailabilityFixture()
	repo.byID["rule-1"] = &models.AvailabilityRule{ID: "rule-1", UserID: "someone-else", Kind: models.RuleKindWeekly}

	_, err := svc.Update(context.Background(), "rule-1", "mentor-1", validWeeklyRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateMissingRuleNotFound(t *testing.T) {
	svc, _ := newAvailabilityFixture()

	_, err := svc.Update(context.Background(), "rule-404", "mentor-1", validWeeklyRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeactivateOwnedRule(t *testing.T) {
	svc, repo := newAvailabilityFixture()
	repo.byID["rule-1"] = &models.AvailabilityRule{ID: "rule-1", UserID: "mentor-1", Kind: models.RuleKindWeekly, Active: true}

	err := svc.Deactivate(context.Background(), "rule-1", "mentor-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rule-1"}, repo.deactivated)
}

func TestDeleteForeignRuleForbidden(t *testing.T) {
	svc, repo := newAvailabilityFixture()
	repo.byID["rule-1"] = &models.AvailabilityRule{ID: "rule-1", UserID: "someone-else", Kind: models.RuleKindWeekly}

	err := svc.Delete(context.Background(), "rule-1", "mentor-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}
