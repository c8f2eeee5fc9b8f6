package store

import (
	"fmt"
	"os"
	"time"

	"servaura/internal/models"

	"gopkg.in/yaml.v2"
)

// seedFile is the optional on-disk override for the built-in seed set.
type seedFile struct {
	Consultations []seedConsultation `yaml:"consultations"`
	Availability  []seedAvailability `yaml:"availability"`
}

type seedConsultation struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
	PropertyType string `yaml:"property_type"`
	Message      string `yaml:"message"`
	Date         string `yaml:"date"`
	TimeSlot     string `yaml:"time_slot"`
	Status       string `yaml:"status"`
}

type seedAvailability struct {
	Date             string `yaml:"date"`
	UnavailableSlots []int  `yaml:"unavailable_slots"`
}

// defaultSeed returns the built-in sample data shown when the remote
// collaborator cannot be reached.
func defaultSeed() ([]models.Consultation, []models.AvailabilityRecord) {
	t1 := time.Date(2024, time.June, 4, 10, 30, 0, 0, time.UTC)
	t2 := time.Date(2024, time.June, 4, 14, 15, 0, 0, time.UTC)

	consultations := []models.Consultation{
		{
			ID:           "1",
			Name:         "John Smith",
			Email:        "john.smith@email.com",
			Phone:        "(555) 123-4567",
			PropertyType: "single-family",
			Message:      "Interested in lawn care services",
			Date:         "2024-06-10",
			TimeSlot:     "10:00 AM",
			Status:       models.StatusConfirmed,
			CreatedAt:    t1,
			UpdatedAt:    t1,
		},
		{
			ID:           "2",
			Name:         "Sarah Johnson",
			Email:        "sarah.johnson@email.com",
			Phone:        "(555) 987-6543",
			PropertyType: "condo",
			Message:      "Need window cleaning and maintenance",
			Date:         "2024-06-12",
			TimeSlot:     "2:00 PM",
			Status:       models.StatusPending,
			CreatedAt:    t2,
			UpdatedAt:    t2,
		},
	}

	availability := []models.AvailabilityRecord{
		{Date: "2024-06-10", UnavailableSlots: []int{0, 3, 6}},
		{Date: "2024-06-11", UnavailableSlots: []int{1, 4}},
		{Date: "2024-06-12", UnavailableSlots: []int{2, 5, 7}},
	}

	return consultations, availability
}

// LoadSeedFile reads a YAML seed override and returns its contents in
// model form. Statuses are normalized, timestamps default to now.
func LoadSeedFile(path string) ([]models.Consultation, []models.AvailabilityRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse seed file: %w", err)
	}

	now := time.Now()
	consultations := make([]models.Consultation, 0, len(file.Consultations))
	for _, c := range file.Consultations {
		consultations = append(consultations, models.Consultation{
			ID:           c.ID,
			Name:         c.Name,
			Email:        c.Email,
			Phone:        c.Phone,
			PropertyType: c.PropertyType,
			Message:      c.Message,
			Date:         c.Date,
			TimeSlot:     c.TimeSlot,
			Status:       models.NormalizeStatus(c.Status),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	availability := make([]models.AvailabilityRecord, 0, len(file.Availability))
	for _, a := range file.Availability {
		availability = append(availability, models.AvailabilityRecord{
			Date:             a.Date,
			UnavailableSlots: a.UnavailableSlots,
		})
	}

	return consultations, availability, nil
}
