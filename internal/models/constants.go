package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Flow steps of the scheduling state machine.
const (
	StepSelectingDate = "selecting_date"
	StepSelectingSlot = "selecting_slot"
	StepFillingForm   = "filling_form"
	StepSubmitting    = "submitting"
	StepConfirmed     = "confirmed"
)

// DateLayout is the calendar-date form used everywhere: wire, store keys,
// session state.
const DateLayout = "2006-01-02"

const (
	// SlotCount is the number of bookable windows per day.
	SlotCount = 8

	// DefaultSessionTTL is the scheduling-session lifetime in seconds.
	DefaultSessionTTL = 24 * 60 * 60

	// RateLimitRPS / RateLimitBurst defaults for the API rate limiter.
	RateLimitRPS   = 10
	RateLimitBurst = 5
)

// TimeSlots is the fixed ordered sequence of bookable windows; index 0-7
// identifies a slot everywhere in the system.
var TimeSlots = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
}

// PropertyTypes is the fixed enumerated set accepted on a consultation.
var PropertyTypes = []string{
	"apartment", "condo", "single-family", "townhouse",
	"estate", "multi-family", "other",
}

// SlotIndex returns the index of a slot label, -1 when unknown.
func SlotIndex(label string) int {
	for i, s := range TimeSlots {
		if s == label {
			return i
		}
	}
	return -1
}

// SlotLabel returns the label for a slot index.
func SlotLabel(index int) (string, bool) {
	if index < 0 || index >= len(TimeSlots) {
		return "", false
	}
	return TimeSlots[index], true
}

// IsValidPropertyType reports whether t belongs to the fixed set.
func IsValidPropertyType(t string) bool {
	for _, p := range PropertyTypes {
		if p == t {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is one of the canonical statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// NormalizeStatus maps the drifted lifecycle variant
// (scheduled/completed/cancelled/rescheduled) onto the canonical set.
// Canonical values pass through unchanged; anything unknown becomes
// pending so a record never carries a status the rest of the system
// cannot handle.
func NormalizeStatus(s string) string {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s
	case "scheduled":
		return StatusConfirmed
	case "rescheduled":
		return StatusPending
	default:
		return StatusPending
	}
}
