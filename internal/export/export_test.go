package export

import (
	"io"
	"testing"
	"time"

	"servaura/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestConsultationsToExcel(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)

	now := time.Date(2025, time.June, 4, 10, 0, 0, 0, time.UTC)
	consultations := []models.Consultation{
		{
			ID: "c-1", Name: "John Smith", Email: "john@example.com",
			Phone: "(555) 123-4567", PropertyType: "single-family",
			Date: "2025-06-10", TimeSlot: "10:00 AM",
			Status: models.StatusConfirmed, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "c-2", Name: "Sarah Johnson", Email: "sarah@example.com",
			Phone: "(555) 987-6543", PropertyType: "condo",
			Date: "2025-06-12", TimeSlot: "2:00 PM",
			Status: models.StatusPending, CreatedAt: now, UpdatedAt: now,
		},
	}

	path, err := exporter.ConsultationsToExcel(consultations)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Consultations")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 records

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "John Smith", rows[1][1])
	assert.Equal(t, "2:00 PM", rows[2][6])
}

func TestConsultationsToExcelEmpty(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)

	path, err := exporter.ConsultationsToExcel(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}
