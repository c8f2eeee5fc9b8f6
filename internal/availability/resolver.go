package availability

import (
	"time"

	"servaura/internal/models"
)

// RecordSource yields the authoritative availability record for a date,
// if one exists.
type RecordSource interface {
	AvailabilityFor(date string) (models.AvailabilityRecord, bool)
}

// BookedSource yields the slot indices of confirmed consultations
// already recorded for a date.
type BookedSource interface {
	ConfirmedSlots(date string) []int
}

// Resolver combines the three availability sources in strict precedence
// order. It is advisory only: it never reserves a slot, and two callers
// racing on the same (date, slot) pair are not arbitrated here.
type Resolver struct {
	records RecordSource
	booked  BookedSource
}

func NewResolver(records RecordSource, booked BookedSource) *Resolver {
	return &Resolver{records: records, booked: booked}
}

// UnavailableSlots returns the unavailable slot indices for the date.
// An authoritative record is returned verbatim and fully shadows the
// fallback; otherwise confirmed consultations decide; only when neither
// exists does the degraded fallback fill in.
func (r *Resolver) UnavailableSlots(date time.Time) []int {
	key := date.Format(models.DateLayout)

	if rec, ok := r.records.AvailabilityFor(key); ok {
		return append([]int(nil), rec.UnavailableSlots...)
	}

	if slots := r.booked.ConfirmedSlots(key); len(slots) > 0 {
		return slots
	}

	return FallbackSlots(date)
}

// IsAvailable reports whether the slot index can be offered for the
// date.
func (r *Resolver) IsAvailable(date time.Time, slotIndex int) bool {
	if slotIndex < 0 || slotIndex >= models.SlotCount {
		return false
	}
	for _, s := range r.UnavailableSlots(date) {
		if s == slotIndex {
			return false
		}
	}
	return true
}
