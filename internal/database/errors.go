package database

import "errors"

var (
	ErrNotFound  = errors.New("consultation not found")
	ErrSlotTaken = errors.New("time slot already booked for this date")
)
