package models

// AvailabilityRecord is authoritative per-date availability from the
// remote collaborator. When a record exists for a date it fully
// supersedes any locally generated fallback for that date.
type AvailabilityRecord struct {
	Date             string `json:"date"` // YYYY-MM-DD
	UnavailableSlots []int  `json:"unavailableSlots"`
}
