package database

import (
	"context"
	"testing"
	"time"

	"servaura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// futureWeekday returns an upcoming weekday at least a week out, in
// YYYY-MM-DD form, so create requests pass validation whenever the
// tests run.
func futureWeekday(t *testing.T) string {
	t.Helper()
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(models.DateLayout)
}

func validRequest(t *testing.T) models.CreateRequest {
	return models.CreateRequest{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "(555) 000-1111",
		PropertyType: "condo",
		Message:      "Interested in regular maintenance",
		Date:         futureWeekday(t),
		TimeSlot:     "11:00 AM",
	}
}

func TestCreateAndGetConsultation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := db.CreateConsultation(ctx, validRequest(t))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)

	got, err := db.GetConsultation(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Date, got.Date)
	assert.Equal(t, created.Message, got.Message)
}

func TestCreateConsultationInvalid(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	req := validRequest(t)
	req.Email = ""
	_, err := db.CreateConsultation(ctx, req)
	assert.ErrorIs(t, err, models.ErrMissingField)

	req = validRequest(t)
	req.Date = "2020-01-06"
	_, err = db.CreateConsultation(ctx, req)
	assert.ErrorIs(t, err, models.ErrPastDate)
}

func TestCreateConsultationSlotConflict(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	req := validRequest(t)

	_, err := db.CreateConsultation(ctx, req)
	require.NoError(t, err)

	// Same date and slot, different client.
	req.Name = "Other Person"
	req.Email = "other@example.com"
	_, err = db.CreateConsultation(ctx, req)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// A different slot on the same date is fine.
	req.TimeSlot = "1:00 PM"
	_, err = db.CreateConsultation(ctx, req)
	assert.NoError(t, err)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	req := validRequest(t)

	first, err := db.CreateConsultation(ctx, req)
	require.NoError(t, err)

	_, err = db.UpdateConsultationStatus(ctx, first.ID, models.StatusCancelled)
	require.NoError(t, err)

	req.Email = "second@example.com"
	_, err = db.CreateConsultation(ctx, req)
	assert.NoError(t, err)
}

func TestListConsultations(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	list, err := db.ListConsultations(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	req := validRequest(t)
	_, err = db.CreateConsultation(ctx, req)
	require.NoError(t, err)

	req.TimeSlot = "2:00 PM"
	req.Email = "other@example.com"
	_, err = db.CreateConsultation(ctx, req)
	require.NoError(t, err)

	list, err = db.ListConsultations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateConsultationStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := db.CreateConsultation(ctx, validRequest(t))
	require.NoError(t, err)

	updated, err := db.UpdateConsultationStatus(ctx, created.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	_, err = db.UpdateConsultationStatus(ctx, "missing", models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.UpdateConsultationStatus(ctx, created.ID, "weird")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestDeleteConsultation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := db.CreateConsultation(ctx, validRequest(t))
	require.NoError(t, err)

	require.NoError(t, db.DeleteConsultation(ctx, created.ID))

	_, err = db.GetConsultation(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteConsultation(ctx, created.ID), ErrNotFound)
}

func TestAvailability(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	records, err := db.ListAvailability(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	rec := models.AvailabilityRecord{Date: "2025-06-10", UnavailableSlots: []int{0, 3, 6}}
	require.NoError(t, db.UpsertAvailability(ctx, rec))

	// Upsert replaces in place.
	rec.UnavailableSlots = []int{1, 2}
	require.NoError(t, db.UpsertAvailability(ctx, rec))
	require.NoError(t, db.UpsertAvailability(ctx, models.AvailabilityRecord{
		Date: "2025-06-11", UnavailableSlots: []int{4},
	}))

	records, err = db.ListAvailability(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []int{1, 2}, records[0].UnavailableSlots)
	assert.Equal(t, "2025-06-11", records[1].Date)
}
