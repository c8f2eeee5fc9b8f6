package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingField    = errors.New("required field missing")
	ErrInvalidDate     = errors.New("invalid date")
	ErrPastDate        = errors.New("date is in the past")
	ErrWeekendDate     = errors.New("date falls on a weekend")
	ErrInvalidSlot     = errors.New("unknown time slot")
	ErrInvalidProperty = errors.New("unknown property type")
	ErrInvalidStatus   = errors.New("unknown status")
)

// CreateRequest carries everything needed to schedule a consultation.
// All fields except Message are required.
type CreateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PropertyType string `json:"propertyType"`
	Message      string `json:"message,omitempty"`
	Date         string `json:"selectedDate"`
	TimeSlot     string `json:"selectedTimeSlot"`
}

// StatusUpdate moves a consultation to a new lifecycle status.
type StatusUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CancelRequest cancels a consultation by id.
type CancelRequest struct {
	ID string `json:"id"`
}

// Validate checks the request against the booking invariants: required
// fields present, date parseable and not a weekend nor before today
// (calendar-day granularity), slot label and property type from the
// fixed sets.
func (r CreateRequest) Validate(today time.Time) error {
	if r.Name == "" || r.Email == "" || r.Phone == "" || r.PropertyType == "" {
		return ErrMissingField
	}
	if !IsValidPropertyType(r.PropertyType) {
		return fmt.Errorf("%w: %q", ErrInvalidProperty, r.PropertyType)
	}
	if SlotIndex(r.TimeSlot) < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, r.TimeSlot)
	}

	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return ErrWeekendDate
	}
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(dayStart) {
		return ErrPastDate
	}
	return nil
}

// Validate checks the target status against the canonical set.
func (u StatusUpdate) Validate() error {
	if u.ID == "" {
		return ErrMissingField
	}
	if !IsValidStatus(u.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, u.Status)
	}
	return nil
}
