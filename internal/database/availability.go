package database

import (
	"context"
	"encoding/json"
	"fmt"

	"servaura/internal/models"
)

// ListAvailability returns every authoritative availability record.
func (db *DB) ListAvailability(ctx context.Context) ([]models.AvailabilityRecord, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT date, unavailable_slots FROM availability ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	defer rows.Close()

	var records []models.AvailabilityRecord
	for rows.Next() {
		var rec models.AvailabilityRecord
		var raw string
		if err := rows.Scan(&rec.Date, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &rec.UnavailableSlots); err != nil {
			return nil, fmt.Errorf("failed to decode slots for %s: %w", rec.Date, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpsertAvailability replaces the record for the date.
func (db *DB) UpsertAvailability(ctx context.Context, rec models.AvailabilityRecord) error {
	raw, err := json.Marshal(rec.UnavailableSlots)
	if err != nil {
		return fmt.Errorf("failed to encode slots: %w", err)
	}

	query := `INSERT INTO availability (date, unavailable_slots) VALUES (?, ?)
			ON CONFLICT(date) DO UPDATE SET unavailable_slots = excluded.unavailable_slots`
	if _, err := db.db.ExecContext(ctx, query, rec.Date, string(raw)); err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}
