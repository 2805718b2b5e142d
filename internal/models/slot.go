package models

import "time"

// SlotMode selects the shape of slot generation output.
type SlotMode string

const (
	SlotModeFlat              SlotMode = "flat"
	SlotModeGrouped           SlotMode = "grouped"
	SlotModeGroupedWithStatus SlotMode = "grouped_with_status"
)

// Valid reports whether the mode is a known tag.
func (m SlotMode) Valid() bool {
	switch m {
	case SlotModeFlat, SlotModeGrouped, SlotModeGroupedWithStatus:
		return true
	}
	return false
}

// SlotStatus tags a candidate slot in grouped_with_status mode.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
)

// Slot is a concrete bookable interval derived from availability rules. Slots
// are ephemeral and recomputed on every request, never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Equal is pointwise equality of start and end.
func (s Slot) Equal(other Slot) bool {
	return s.Start.Equal(other.Start) && s.End.Equal(other.End)
}

// Overlaps reports whether the half-open intervals [s.Start, s.End) and
// [start, end) intersect.
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// StatusSlot is a candidate slot tagged available or booked, for calendar UIs.
type StatusSlot struct {
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status SlotStatus `json:"status"`
}

// SlotGroup bundles the free slots produced by a single availability rule
// together with the rule's own metadata.
type SlotGroup struct {
	RuleID              string         `json:"availability_id"`
	Kind                RuleKind       `json:"kind"`
	Days                StringList     `json:"days,omitempty"`
	TimeRanges          TimeRangeList  `json:"time_ranges,omitempty"`
	DateWindows         DateWindowList `json:"date_windows,omitempty"`
	SlotDurationMinutes int            `json:"slot_duration_minutes"`
	ValidFrom           *time.Time     `json:"valid_from,omitempty"`
	ValidTo             *time.Time     `json:"valid_to,omitempty"`
	Active              bool           `json:"active"`
	Slots               []Slot         `json:"slots"`
	TotalSlots          int            `json:"total_slots"`
}
