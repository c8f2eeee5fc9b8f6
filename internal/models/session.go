package models

import "time"

// FlowSession is the transient per-user state of the scheduling flow:
// which step the user is on, the month being browsed, and the pending
// form fields. Serialized to JSON when persisted in Redis.
type FlowSession struct {
	ID           string    `json:"id"`
	Step         string    `json:"step"`
	Year         int       `json:"year"`
	Month        int       `json:"month"` // 1-12
	SelectedDate string    `json:"selected_date,omitempty"`
	SlotIndex    int       `json:"slot_index"` // -1 when none chosen
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PropertyType string    `json:"property_type,omitempty"`
	Message      string    `json:"message,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasSelection reports whether both a date and a slot have been chosen.
func (s *FlowSession) HasSelection() bool {
	return s.SelectedDate != "" && s.SlotIndex >= 0 && s.SlotIndex < SlotCount
}

// ContactComplete reports whether every required contact field is set.
func (s *FlowSession) ContactComplete() bool {
	return s.Name != "" && s.Email != "" && s.Phone != "" && s.PropertyType != ""
}
