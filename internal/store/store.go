// Package store owns the in-memory consultation book. Every mutation
// tries the remote collaborator first and falls back to a local
// continuation when the call fails, so the caller always observes a
// completed operation.
package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"servaura/internal/domain"
	"servaura/internal/events"
	"servaura/internal/metrics"
	"servaura/internal/models"

	"github.com/rs/zerolog"
)

type ConsultationStore struct {
	mu sync.RWMutex

	remote   domain.RemoteAPI
	eventBus domain.EventPublisher
	logger   *zerolog.Logger

	consultations []models.Consultation
	availability  map[string]models.AvailabilityRecord

	seedConsultations []models.Consultation
	seedAvailability  []models.AvailabilityRecord

	// Per-operation state surfaced to the presentation layer.
	loadingConsultations bool
	loadingAvailability  bool
	submitting           bool
	consultationsError   string
	availabilityError    string
	createError          string

	now func() time.Time
}

func NewConsultationStore(remote domain.RemoteAPI, eventBus domain.EventPublisher, logger *zerolog.Logger) *ConsultationStore {
	s := &ConsultationStore{
		remote:       remote,
		eventBus:     eventBus,
		logger:       logger,
		availability: make(map[string]models.AvailabilityRecord),
		now:          time.Now,
	}
	s.seedConsultations, s.seedAvailability = defaultSeed()
	return s
}

// Create schedules a consultation. The remote collaborator is asked
// first; when it fails the record is synthesized locally so the
// collection still grows by exactly one. The returned id is never
// empty. The returned error reports a remote failure that was absorbed
// by the fallback; the consultation exists either way.
func (s *ConsultationStore) Create(ctx context.Context, req models.CreateRequest) (string, error) {
	s.setSubmitting(true)
	defer s.setSubmitting(false)

	created, err := s.remote.CreateConsultation(ctx, req)
	if err == nil {
		created.Status = models.NormalizeStatus(created.Status)

		s.mu.Lock()
		s.consultations = append(s.consultations, *created)
		s.createError = ""
		s.mu.Unlock()

		metrics.IncCreated(events.SourceRemote)
		s.publish(events.EventConsultationScheduled, *created, events.SourceRemote)
		return created.ID, nil
	}

	s.logger.Error().Err(err).Str("date", req.Date).Str("slot", req.TimeSlot).
		Msg("remote create failed, falling back to local record")
	metrics.IncRemoteFailure("create")

	s.mu.Lock()
	s.createError = "Unable to reach the scheduling service; your request was recorded locally."
	s.mu.Unlock()

	return s.AppendSynthetic(req), err
}

// AppendSynthetic appends a locally synthesized consultation for the
// request and returns its id. The id is the creation instant in Unix
// milliseconds, rendered as a decimal string.
func (s *ConsultationStore) AppendSynthetic(req models.CreateRequest) string {
	now := s.now()
	c := models.Consultation{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
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

	s.mu.Lock()
	s.consultations = append(s.consultations, c)
	s.mu.Unlock()

	metrics.IncCreated(events.SourceLocal)
	s.publish(events.EventConsultationScheduled, c, events.SourceLocal)
	return c.ID
}

// UpdateStatus moves a consultation to a new status. On remote success
// the returned record replaces the local one; on failure the local
// record is patched in place. An unknown id is a silent no-op.
func (s *ConsultationStore) UpdateStatus(ctx context.Context, upd models.StatusUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}

	updated, err := s.remote.UpdateConsultationStatus(ctx, upd.ID, upd.Status)
	if err != nil {
		s.logger.Error().Err(err).Str("id", upd.ID).Msg("remote status update failed, patching locally")
		metrics.IncRemoteFailure("update_status")
	}

	s.mu.Lock()
	var changed *models.Consultation
	for i := range s.consultations {
		if s.consultations[i].ID != upd.ID {
			continue
		}
		if err == nil {
			updated.Status = models.NormalizeStatus(updated.Status)
			s.consultations[i] = *updated
		} else {
			s.consultations[i].Status = upd.Status
			s.consultations[i].UpdatedAt = s.now()
		}
		changed = &s.consultations[i]
		break
	}
	var snapshot models.Consultation
	if changed != nil {
		snapshot = *changed
	}
	s.mu.Unlock()

	if changed != nil {
		source := events.SourceRemote
		if err != nil {
			source = events.SourceLocal
		}
		s.publish(events.EventConsultationStatus, snapshot, source)
	}
	return err
}

// Cancel removes a consultation when the remote delete succeeds. When
// it fails the record stays in the collection marked cancelled, so the
// two outcomes are observably different.
func (s *ConsultationStore) Cancel(ctx context.Context, req models.CancelRequest) error {
	id := req.ID
	err := s.remote.CancelConsultation(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("remote cancel failed, marking cancelled locally")
		metrics.IncRemoteFailure("cancel")
	}

	s.mu.Lock()
	var snapshot models.Consultation
	found := false
	for i := range s.consultations {
		if s.consultations[i].ID != id {
			continue
		}
		found = true
		if err == nil {
			snapshot = s.consultations[i]
			s.consultations = append(s.consultations[:i], s.consultations[i+1:]...)
		} else {
			s.consultations[i].Status = models.StatusCancelled
			s.consultations[i].UpdatedAt = s.now()
			snapshot = s.consultations[i]
		}
		break
	}
	s.mu.Unlock()

	if found {
		source := events.SourceRemote
		if err != nil {
			source = events.SourceLocal
		}
		snapshot.Status = models.StatusCancelled
		s.publish(events.EventConsultationCancelled, snapshot, source)
	}
	return err
}

// Refresh replaces the consultation collection and the availability
// records with the remote collaborator's current state. Either fetch
// failing installs the corresponding seed set instead, so the store is
// never left empty.
func (s *ConsultationStore) Refresh(ctx context.Context) error {
	listErr := s.refreshConsultations(ctx)
	availErr := s.RefreshAvailability(ctx)
	return errors.Join(listErr, availErr)
}

func (s *ConsultationStore) refreshConsultations(ctx context.Context) error {
	s.mu.Lock()
	s.loadingConsultations = true
	s.mu.Unlock()

	list, err := s.remote.ListConsultations(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingConsultations = false

	if err != nil {
		s.logger.Error().Err(err).Msg("remote list failed, installing seed consultations")
		metrics.IncRemoteFailure("list")
		s.consultationsError = "Unable to load consultations; showing sample data."
		s.consultations = append([]models.Consultation(nil), s.seedConsultations...)
		return err
	}

	for i := range list {
		list[i].Status = models.NormalizeStatus(list[i].Status)
	}
	s.consultations = list
	s.consultationsError = ""
	return nil
}

// RefreshAvailability refetches only the availability records. It runs
// after every submission and never touches the consultation collection.
func (s *ConsultationStore) RefreshAvailability(ctx context.Context) error {
	s.mu.Lock()
	s.loadingAvailability = true
	s.mu.Unlock()

	records, err := s.remote.FetchAvailability(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingAvailability = false

	if err != nil {
		s.logger.Error().Err(err).Msg("remote availability fetch failed, installing seed records")
		metrics.IncRemoteFailure("availability")
		s.availabilityError = "Unable to load availability; showing sample data."
		records = s.seedAvailability
	} else {
		s.availabilityError = ""
	}

	s.availability = make(map[string]models.AvailabilityRecord, len(records))
	for _, rec := range records {
		s.availability[rec.Date] = rec
	}
	return err
}

// Consultations returns a copy of the current collection.
func (s *ConsultationStore) Consultations() []models.Consultation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Consultation(nil), s.consultations...)
}

// Get returns the consultation with the given id.
func (s *ConsultationStore) Get(id string) (models.Consultation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.consultations {
		if c.ID == id {
			return c, true
		}
	}
	return models.Consultation{}, false
}

// AvailabilityFor returns the authoritative record for a date, if any.
// Implements availability.RecordSource.
func (s *ConsultationStore) AvailabilityFor(date string) (models.AvailabilityRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.availability[date]
	return rec, ok
}

// ConfirmedSlots returns the slot indices of confirmed consultations on
// the date. Implements availability.BookedSource.
func (s *ConsultationStore) ConfirmedSlots(date string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var slots []int
	for _, c := range s.consultations {
		if c.Date != date || c.Status != models.StatusConfirmed {
			continue
		}
		if idx := c.SlotIndex(); idx >= 0 {
			slots = append(slots, idx)
		}
	}
	return slots
}

// Errors returns the per-operation error slots (create, list,
// availability).
func (s *ConsultationStore) Errors() (createErr, listErr, availErr string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createError, s.consultationsError, s.availabilityError
}

// Loading reports the per-operation loading flags.
func (s *ConsultationStore) Loading() (consultations, availability, submitting bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingConsultations, s.loadingAvailability, s.submitting
}

// SetSeed overrides the built-in seed data.
func (s *ConsultationStore) SetSeed(consultations []models.Consultation, availability []models.AvailabilityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(consultations) > 0 {
		s.seedConsultations = consultations
	}
	if len(availability) > 0 {
		s.seedAvailability = availability
	}
}

func (s *ConsultationStore) setSubmitting(v bool) {
	s.mu.Lock()
	s.submitting = v
	s.mu.Unlock()
}

func (s *ConsultationStore) publish(eventType string, c models.Consultation, source string) {
	if s.eventBus == nil {
		return
	}
	payload := events.ConsultationEventPayload{
		ConsultationID: c.ID,
		Status:         c.Status,
		Date:           c.Date,
		TimeSlot:       c.TimeSlot,
		Source:         source,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
