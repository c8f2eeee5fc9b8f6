// Package availability answers "which slots are unavailable on this
// date". Authoritative records win outright; confirmed consultations
// come next; a deterministic degraded fallback covers dates nothing is
// known about.
package availability

import "time"

// fallbackSeed spreads slot indices across the day; the exact constant
// is part of the contract — callers may cache results keyed by date.
const fallbackSeed = 6151

// FallbackSlots derives a pseudo-random but fully deterministic set of
// unavailable slot indices from the day-of-month alone. Idempotent: the
// same date always yields the same set, independent of call order or any
// prior state. Hash collisions are skipped, so the realized set may be
// smaller than the nominal count (e.g. day 16 collapses to a single
// entry).
func FallbackSlots(date time.Time) []int {
	day := date.Day()
	count := 2 + day%3

	slots := make([]int, 0, count)
	for i := 0; i < count; i++ {
		index := (day * (i + 1) * fallbackSeed) % 8
		if !contains(slots, index) {
			slots = append(slots, index)
		}
	}
	return slots
}

func contains(slots []int, index int) bool {
	for _, s := range slots {
		if s == index {
			return true
		}
	}
	return false
}
