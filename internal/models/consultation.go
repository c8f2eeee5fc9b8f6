package models

import "time"

// Consultation is a single consultation request: one date, one time slot.
// IDs are opaque strings: the remote collaborator assigns its own, the
// local fallback path synthesizes a millisecond-timestamp string.
type Consultation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PropertyType string    `json:"propertyType"`
	Message      string    `json:"message,omitempty"`
	Date         string    `json:"selectedDate"` // YYYY-MM-DD
	TimeSlot     string    `json:"selectedTimeSlot"`
	Status       string    `json:"status"` // pending, confirmed, completed, cancelled
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SlotIndex returns the index of the consultation's time slot, -1 if the
// label is not one of the fixed slots.
func (c *Consultation) SlotIndex() int {
	return SlotIndex(c.TimeSlot)
}
