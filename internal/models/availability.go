package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RuleKind is the closed set of availability rule interpretations.
type RuleKind string

const (
	RuleKindWeekly      RuleKind = "weekly"
	RuleKindDateRange   RuleKind = "date_range"
	RuleKindSingleDates RuleKind = "single_dates"
)

// Valid reports whether the kind is one of the known tags.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleKindWeekly, RuleKindDateRange, RuleKindSingleDates:
		return true
	}
	return false
}

// Weekday tags accepted in weekly rules, keyed by time.Weekday.
var WeekdayTags = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// TimeRange is a wall-clock window within a single day, "HH:MM" 24-hour.
type TimeRange struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// TimeRangeList is a JSONB-persisted ordered list of time ranges.
type TimeRangeList []TimeRange

// Value marshals the list to JSON for persistence.
func (l TimeRangeList) Value() (driver.Value, error) {
	if l == nil {
		l = TimeRangeList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal time ranges: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB column into the list.
func (l *TimeRangeList) Scan(src interface{}) error {
	return scanJSON(src, l, "time ranges")
}

// DateWindow is one entry of a date_range or single_dates rule. A date_range
// entry carries StartDate (and optionally EndDate, inclusive); a single_dates
// entry carries Dates. Each entry brings its own time ranges.
type DateWindow struct {
	StartDate  *time.Time    `json:"start_date,omitempty"`
	EndDate    *time.Time    `json:"end_date,omitempty"`
	Dates      []time.Time   `json:"dates,omitempty"`
	TimeRanges TimeRangeList `json:"time_ranges"`
}

// DateWindowList is a JSONB-persisted list of date windows.
type DateWindowList []DateWindow

// Value marshals the list to JSON for persistence.
func (l DateWindowList) Value() (driver.Value, error) {
	if l == nil {
		l = DateWindowList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal date windows: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB column into the list.
func (l *DateWindowList) Scan(src interface{}) error {
	return scanJSON(src, l, "date windows")
}

// StringList is a JSONB-persisted list of strings (weekday tags).
type StringList []string

// Value marshals the list to JSON for persistence.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB column into the list.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l, "string list")
}

func scanJSON(src, dst interface{}, what string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("scan %s: unsupported type %T", what, src)
	}
}

// AvailabilityRule is a user-authored specification of open time windows.
type AvailabilityRule struct {
	ID                  string         `db:"id" json:"id"`
	UserID              string         `db:"user_id" json:"user_id"`
	Kind                RuleKind       `db:"kind" json:"kind"`
	Days                StringList     `db:"days" json:"days,omitempty"`
	TimeRanges          TimeRangeList  `db:"time_ranges" json:"time_ranges,omitempty"`
	DateWindows         DateWindowList `db:"date_windows" json:"date_windows,omitempty"`
	SlotDurationMinutes int            `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	ValidFrom           *time.Time     `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo             *time.Time     `db:"valid_to" json:"valid_to,omitempty"`
	Active              bool           `db:"active" json:"active"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}
