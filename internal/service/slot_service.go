package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/timerange"
)

type slotAvailabilityRepository interface {
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.AvailabilityRule, error)
}

type slotMeetingRepository interface {
	ListScheduledInWindow(ctx context.Context, userID string, windowStart, windowEnd time.Time) ([]models.Meeting, error)
}

type slotUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// SlotService resolves availability rules and busy intervals into concrete
// bookable slots. All arithmetic is in UTC; callers convert at the boundary.
type SlotService struct {
	availabilityRepo slotAvailabilityRepository
	meetingRepo      slotMeetingRepository
	userRepo         slotUserRepository
	logger           *zap.Logger
}

// NewSlotService constructs the service.
func NewSlotService(availabilityRepo slotAvailabilityRepository, meetingRepo slotMeetingRepository, userRepo slotUserRepository, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{
		availabilityRepo: availabilityRepo,
		meetingRepo:      meetingRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// SlotQuery describes a slot generation request.
type SlotQuery struct {
	UserID      string
	WindowStart time.Time
	WindowEnd   time.Time
	Mode        models.SlotMode
}

// SlotResult carries the output for whichever mode was requested.
type SlotResult struct {
	Mode        models.SlotMode     `json:"mode"`
	Slots       []models.Slot       `json:"slots,omitempty"`
	Groups      []models.SlotGroup  `json:"groups,omitempty"`
	StatusSlots []models.StatusSlot `json:"status_slots,omitempty"`
}

// Generate produces the conflict-free slot set for a user over an inclusive
// date window. A user with no active rules yields an empty result.
func (s *SlotService) Generate(ctx context.Context, query SlotQuery) (*SlotResult, error) {
	if query.Mode == "" {
		query.Mode = models.SlotModeFlat
	}
	if !query.Mode.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown slot mode")
	}
	if query.WindowEnd.Before(query.WindowStart) {
		return nil, appErrors.Clone(appErrors.ErrInvalidWindow, "")
	}

	if _, err := s.userRepo.FindByID(ctx, query.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve user")
	}

	rules, err := s.availabilityRepo.ListByUser(ctx, query.UserID, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability rules")
	}

	busy, err := s.loadBusyIntervals(ctx, query.UserID, query.WindowStart, query.WindowEnd)
	if err != nil {
		return nil, err
	}

	result := &SlotResult{Mode: query.Mode}
	switch query.Mode {
	case models.SlotModeFlat:
		result.Slots = s.generateFlat(rules, busy, query.WindowStart, query.WindowEnd)
	case models.SlotModeGrouped:
		result.Groups = s.generateGrouped(rules, busy, query.WindowStart, query.WindowEnd)
	case models.SlotModeGroupedWithStatus:
		result.StatusSlots = s.generateWithStatus(rules, busy, query.WindowStart, query.WindowEnd)
	}

	s.logger.Debug("slots generated",
		zap.String("user_id", query.UserID),
		zap.String("mode", string(query.Mode)),
		zap.Int("rules", len(rules)),
		zap.Int("busy", len(busy)))

	return result, nil
}

func (s *SlotService) loadBusyIntervals(ctx context.Context, userID string, windowStart, windowEnd time.Time) ([]models.BusyInterval, error) {
	meetings, err := s.meetingRepo.ListScheduledInWindow(ctx, userID, windowStart, windowEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduled meetings")
	}
	busy := make([]models.BusyInterval, 0, len(meetings))
	for _, m := range meetings {
		busy = append(busy, models.BusyInterval{Start: m.StartAt.UTC(), End: m.EndAt.UTC()})
	}
	return busy, nil
}

// generateFlat walks the window day by day and returns surviving slots in
// chronological order. Duplicates across overlapping rules are preserved;
// each availability source is its own calendar.
func (s *SlotService) generateFlat(rules []models.AvailabilityRule, busy []models.BusyInterval, windowStart, windowEnd time.Time) []models.Slot {
	slots := []models.Slot{}
	forEachDay(windowStart, windowEnd, func(day time.Time) {
		var daySlots []models.Slot
		for i := range rules {
			daySlots = append(daySlots, candidatesForDay(&rules[i], day)...)
		}
		sortSlots(daySlots)
		for _, slot := range daySlots {
			if isFree(slot, busy) {
				slots = append(slots, slot)
			}
		}
	})
	return slots
}

// generateGrouped accumulates surviving slots per originating rule, omitting
// rules that produced no free slots.
func (s *SlotService) generateGrouped(rules []models.AvailabilityRule, busy []models.BusyInterval, windowStart, windowEnd time.Time) []models.SlotGroup {
	groups := []models.SlotGroup{}
	for i := range rules {
		rule := &rules[i]
		var ruleSlots []models.Slot
		forEachDay(windowStart, windowEnd, func(day time.Time) {
			for _, slot := range candidatesForDay(rule, day) {
				if isFree(slot, busy) {
					ruleSlots = append(ruleSlots, slot)
				}
			}
		})
		if len(ruleSlots) == 0 {
			continue
		}
		groups = append(groups, models.SlotGroup{
			RuleID:              rule.ID,
			Kind:                rule.Kind,
			Days:                rule.Days,
			TimeRanges:          rule.TimeRanges,
			DateWindows:         rule.DateWindows,
			SlotDurationMinutes: rule.SlotDurationMinutes,
			ValidFrom:           rule.ValidFrom,
			ValidTo:             rule.ValidTo,
			Active:              rule.Active,
			Slots:               ruleSlots,
			TotalSlots:          len(ruleSlots),
		})
	}
	return groups
}

// generateWithStatus keeps every candidate slot and tags it available or
// booked. Booked slots are the overlapping candidates themselves, not the raw
// busy intervals.
func (s *SlotService) generateWithStatus(rules []models.AvailabilityRule, busy []models.BusyInterval, windowStart, windowEnd time.Time) []models.StatusSlot {
	tagged := []models.StatusSlot{}
	forEachDay(windowStart, windowEnd, func(day time.Time) {
		var daySlots []models.Slot
		for i := range rules {
			daySlots = append(daySlots, candidatesForDay(&rules[i], day)...)
		}
		sortSlots(daySlots)
		for _, slot := range daySlots {
			status := models.SlotStatusAvailable
			if !isFree(slot, busy) {
				status = models.SlotStatusBooked
			}
			tagged = append(tagged, models.StatusSlot{Start: slot.Start, End: slot.End, Status: status})
		}
	})
	return tagged
}

// candidatesForDay resolves which of the rule's time ranges apply to the
// calendar day and slices them into slots. The switch over the rule kind is
// exhaustive; unknown kinds produce nothing.
func candidatesForDay(rule *models.AvailabilityRule, day time.Time) []models.Slot {
	if !ruleCoversDate(rule, day) {
		return nil
	}

	duration := rule.SlotDurationMinutes
	if duration <= 0 {
		duration = 30
	}

	var slots []models.Slot
	switch rule.Kind {
	case models.RuleKindWeekly:
		tag := models.WeekdayTags[day.Weekday()]
		if !containsTag(rule.Days, tag) {
			return nil
		}
		slots = sliceRanges(day, rule.TimeRanges, duration)

	case models.RuleKindDateRange:
		for _, window := range rule.DateWindows {
			if window.StartDate == nil {
				continue
			}
			start := timerange.TruncateToDay(*window.StartDate)
			end := start
			if window.EndDate != nil {
				end = timerange.TruncateToDay(*window.EndDate)
			}
			if day.Before(start) || day.After(end) {
				continue
			}
			slots = append(slots, sliceRanges(day, window.TimeRanges, duration)...)
		}

	case models.RuleKindSingleDates:
		for _, window := range rule.DateWindows {
			if !containsDate(window.Dates, day) {
				continue
			}
			slots = append(slots, sliceRanges(day, window.TimeRanges, duration)...)
		}
	}
	return slots
}

func ruleCoversDate(rule *models.AvailabilityRule, day time.Time) bool {
	if rule.ValidFrom != nil && day.Before(timerange.TruncateToDay(*rule.ValidFrom)) {
		return false
	}
	if rule.ValidTo != nil && day.After(timerange.TruncateToDay(*rule.ValidTo)) {
		return false
	}
	return true
}

func sliceRanges(day time.Time, ranges models.TimeRangeList, durationMinutes int) []models.Slot {
	var slots []models.Slot
	for _, r := range ranges {
		from, err := timerange.ResolveWallTime(day, r.From)
		if err != nil {
			continue
		}
		to, err := timerange.ResolveWallTime(day, r.To)
		if err != nil {
			continue
		}
		for _, iv := range timerange.SliceRange(from, to, durationMinutes) {
			slots = append(slots, models.Slot{Start: iv.Start, End: iv.End})
		}
	}
	return slots
}

func isFree(slot models.Slot, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if slot.Overlaps(b.Start, b.End) {
			return false
		}
	}
	return true
}

func forEachDay(windowStart, windowEnd time.Time, fn func(day time.Time)) {
	lastDay := timerange.TruncateToDay(windowEnd)
	for day := timerange.TruncateToDay(windowStart); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		fn(day)
	}
}

func containsTag(tags models.StringList, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func containsDate(dates []time.Time, day time.Time) bool {
	for _, d := range dates {
		if timerange.SameDate(d, day) {
			return true
		}
	}
	return false
}

func sortSlots(slots []models.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start.Equal(slots[j].Start) {
			return slots[i].End.Before(slots[j].End)
		}
		return slots[i].Start.Before(slots[j].Start)
	})
}
