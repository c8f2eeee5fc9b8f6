package domain

import (
	"context"

	"servaura/internal/models"
)

// RemoteAPI is the consultation collaborator as the store sees it.
// Implemented by remote.Client; mocked in tests.
type RemoteAPI interface {
	CreateConsultation(ctx context.Context, req models.CreateRequest) (*models.Consultation, error)
	ListConsultations(ctx context.Context) ([]models.Consultation, error)
	UpdateConsultationStatus(ctx context.Context, id, status string) (*models.Consultation, error)
	CancelConsultation(ctx context.Context, id string) error
	FetchAvailability(ctx context.Context) ([]models.AvailabilityRecord, error)
}

// StateRepository persists scheduling sessions and the ephemeral
// cross-page handoff lists, both keyed by session id.
type StateRepository interface {
	GetSession(ctx context.Context, id string) (*models.FlowSession, error)
	SetSession(ctx context.Context, session *models.FlowSession) error
	ClearSession(ctx context.Context, id string) error

	SetHandoff(ctx context.Context, id string, serviceIDs []string) error
	GetHandoff(ctx context.Context, id string) ([]string, error)
	ClearHandoff(ctx context.Context, id string) error
}

// ConsultationBook is the slice of the store the coordinator drives.
// Submission is followed by an availability refresh only; the record
// just created must survive it.
type ConsultationBook interface {
	Create(ctx context.Context, req models.CreateRequest) (string, error)
	RefreshAvailability(ctx context.Context) error
}

// EventPublisher fans out domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
