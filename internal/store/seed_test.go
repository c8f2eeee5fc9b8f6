package store

import (
	"os"
	"path/filepath"
	"testing"

	"servaura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	consultations, availability := defaultSeed()
	require.Len(t, consultations, 2)
	require.Len(t, availability, 3)

	assert.Equal(t, "John Smith", consultations[0].Name)
	assert.Equal(t, models.StatusConfirmed, consultations[0].Status)
	assert.Equal(t, []int{0, 3, 6}, availability[0].UnavailableSlots)
}

func TestLoadSeedFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "seed.yaml")

	content := `
consultations:
  - id: "10"
    name: "Alex Brown"
    email: "alex@example.com"
    phone: "(555) 222-3333"
    property_type: "estate"
    date: "2025-07-01"
    time_slot: "11:00 AM"
    status: "scheduled"
availability:
  - date: "2025-07-01"
    unavailable_slots: [0, 1]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	consultations, availability, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, consultations, 1)
	require.Len(t, availability, 1)

	assert.Equal(t, "Alex Brown", consultations[0].Name)
	assert.Equal(t, models.StatusConfirmed, consultations[0].Status)
	assert.Equal(t, []int{0, 1}, availability[0].UnavailableSlots)
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, _, err := LoadSeedFile("/nonexistent/seed.yaml")
	assert.Error(t, err)
}

func TestSetSeedOverride(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSeed([]models.Consultation{{ID: "only"}}, nil)

	assert.Len(t, s.seedConsultations, 1)
	// Availability seed untouched when nil is passed.
	assert.Len(t, s.seedAvailability, 3)
}
