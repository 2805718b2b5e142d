package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/timerange"
)

type availabilityRepository interface {
	Create(ctx context.Context, rule *models.AvailabilityRule) error
	FindByID(ctx context.Context, id string) (*models.AvailabilityRule, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.AvailabilityRule, error)
	Update(ctx context.Context, rule *models.AvailabilityRule) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// AvailabilityService manages a user's availability rules. Rules are owned
// exclusively; only the owner may mutate them.
type AvailabilityService struct {
	repo      availabilityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(repo availabilityRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, validator: validate, logger: logger}
}

// UpsertAvailabilityRequest describes create/update payloads for a rule.
type UpsertAvailabilityRequest struct {
	Kind                models.RuleKind       `json:"kind" validate:"required"`
	Days                models.StringList     `json:"days"`
	TimeRanges          models.TimeRangeList  `json:"time_ranges"`
	DateWindows         models.DateWindowList `json:"date_windows"`
	SlotDurationMinutes int                   `json:"slot_duration_minutes"`
	ValidFrom           *time.Time            `json:"valid_from"`
	ValidTo             *time.Time            `json:"valid_to"`
	Active              *bool                 `json:"active"`
}

// Create registers a new rule owned by userID.
func (s *AvailabilityService) Create(ctx context.Context, userID string, req UpsertAvailabilityRequest) (*models.AvailabilityRule, error) {
	if err := s.validateRule(req); err != nil {
		return nil, err
	}

	rule := &models.AvailabilityRule{
		UserID:              userID,
		Kind:                req.Kind,
		Days:                normalizeDays(req.Days),
		TimeRanges:          req.TimeRanges,
		DateWindows:         req.DateWindows,
		SlotDurationMinutes: defaultDuration(req.SlotDurationMinutes),
		ValidFrom:           req.ValidFrom,
		ValidTo:             req.ValidTo,
		Active:              true,
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability rule")
	}
	return rule, nil
}

// Update modifies a rule after checking ownership.
func (s *AvailabilityService) Update(ctx context.Context, id, userID string, req UpsertAvailabilityRequest) (*models.AvailabilityRule, error) {
	if err := s.validateRule(req); err != nil {
		return nil, err
	}

	rule, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	rule.Kind = req.Kind
	rule.Days = normalizeDays(req.Days)
	rule.TimeRanges = req.TimeRanges
	rule.DateWindows = req.DateWindows
	rule.SlotDurationMinutes = defaultDuration(req.SlotDurationMinutes)
	rule.ValidFrom = req.ValidFrom
	rule.ValidTo = req.ValidTo
	if req.Active != nil {
		rule.Active = *req.Active
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update availability rule")
	}
	return rule, nil
}

// Deactivate soft-deletes a rule after checking ownership.
func (s *AvailabilityService) Deactivate(ctx context.Context, id, userID string) error {
	if _, err := s.loadOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate availability rule")
	}
	return nil
}

// Delete removes a rule after checking ownership.
func (s *AvailabilityService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.loadOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability rule")
	}
	return nil
}

// ListMine returns all rules owned by the user, active or not.
func (s *AvailabilityService) ListMine(ctx context.Context, userID string) ([]models.AvailabilityRule, error) {
	rules, err := s.repo.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability rules")
	}
	return rules, nil
}

func (s *AvailabilityService) loadOwned(ctx context.Context, id, userID string) (*models.AvailabilityRule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability rule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability rule")
	}
	if rule.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "availability rule belongs to another user")
	}
	return rule, nil
}

func (s *AvailabilityService) validateRule(req UpsertAvailabilityRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if !req.Kind.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "kind must be weekly, date_range or single_dates")
	}
	if req.SlotDurationMinutes < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "slot_duration_minutes must be positive")
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidTo.Before(*req.ValidFrom) {
		return appErrors.Clone(appErrors.ErrValidation, "valid_to must not precede valid_from")
	}

	switch req.Kind {
	case models.RuleKindWeekly:
		if len(req.Days) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "days is required for weekly rules")
		}
		for _, day := range normalizeDays(req.Days) {
			if !validWeekdayTag(day) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid weekday tag %q", day))
			}
		}
		if len(req.TimeRanges) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "time_ranges is required for weekly rules")
		}
		if err := validateTimeRanges(req.TimeRanges); err != nil {
			return err
		}

	case models.RuleKindDateRange, models.RuleKindSingleDates:
		if len(req.DateWindows) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "date_windows is required for date-bound rules")
		}
		for _, window := range req.DateWindows {
			if req.Kind == models.RuleKindDateRange {
				if window.StartDate == nil {
					return appErrors.Clone(appErrors.ErrValidation, "start_date is required for date_range windows")
				}
				if window.EndDate != nil && window.EndDate.Before(*window.StartDate) {
					return appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
				}
			} else if len(window.Dates) == 0 {
				return appErrors.Clone(appErrors.ErrValidation, "dates is required for single_dates windows")
			}
			if err := validateTimeRanges(window.TimeRanges); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateTimeRanges(ranges models.TimeRangeList) error {
	for _, r := range ranges {
		fromH, fromM, err := timerange.ParseWallTime(r.From)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time %q, expected HH:MM", r.From))
		}
		toH, toM, err := timerange.ParseWallTime(r.To)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid time %q, expected HH:MM", r.To))
		}
		if toH*60+toM <= fromH*60+fromM {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("end time %s must be after start time %s", r.To, r.From))
		}
	}
	return nil
}

func validWeekdayTag(tag string) bool {
	for _, t := range models.WeekdayTags {
		if t == tag {
			return true
		}
	}
	return false
}

func defaultDuration(minutes int) int {
	if minutes <= 0 {
		return 30
	}
	return minutes
}

func normalizeDays(days models.StringList) models.StringList {
	if days == nil {
		return nil
	}
	out := make(models.StringList, len(days))
	for i, d := range days {
		out[i] = strings.ToLower(d)
	}
	return out
}
