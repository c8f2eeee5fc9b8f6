package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"servaura/internal/models"

	"github.com/google/uuid"
)

// CreateConsultation validates the request, assigns a uuid and inserts
// the record as pending. A second active booking for the same
// (date, slot) pair is rejected with ErrSlotTaken.
func (db *DB) CreateConsultation(ctx context.Context, req models.CreateRequest) (*models.Consultation, error) {
	if err := req.Validate(time.Now()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := models.Consultation{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PropertyType: req.PropertyType,
		Message:      req.Message,
		Date:         req.Date,
		TimeSlot:     req.TimeSlot,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `INSERT INTO consultations (
				id, name, email, phone, property_type, message,
				date, time_slot, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.PropertyType, c.Message,
		c.Date, c.TimeSlot, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	return &c, nil
}

// ListConsultations returns every consultation, oldest first.
func (db *DB) ListConsultations(ctx context.Context) ([]models.Consultation, error) {
	query := `SELECT id, name, email, phone, property_type, message,
				date, time_slot, status, created_at, updated_at
			FROM consultations ORDER BY created_at, id`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	defer rows.Close()

	var list []models.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetConsultation returns a single consultation by id.
func (db *DB) GetConsultation(ctx context.Context, id string) (*models.Consultation, error) {
	query := `SELECT id, name, email, phone, property_type, message,
				date, time_slot, status, created_at, updated_at
			FROM consultations WHERE id = ?`
	row := db.db.QueryRowContext(ctx, query, id)

	c, err := scanConsultation(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateConsultationStatus sets a new status and returns the updated
// record.
func (db *DB) UpdateConsultationStatus(ctx context.Context, id, status string) (*models.Consultation, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	query := `UPDATE consultations SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update consultation status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return db.GetConsultation(ctx, id)
}

// DeleteConsultation removes a consultation entirely.
func (db *DB) DeleteConsultation(ctx context.Context, id string) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM consultations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanConsultation(row scannable) (models.Consultation, error) {
	var c models.Consultation
	var message sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PropertyType, &message,
		&c.Date, &c.TimeSlot, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Message = message.String
	return c, nil
}
