package repository

import (
	"context"
	"sync"
	"time"

	"servaura/internal/models"
)

type MemoryStateRepository struct {
	sessions sync.Map
	handoffs sync.Map
	ttl      time.Duration
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		ttl: ttl,
	}
}

func (r *MemoryStateRepository) GetSession(ctx context.Context, id string) (*models.FlowSession, error) {
	val, ok := r.sessions.Load(id)
	if !ok {
		return nil, nil
	}
	return val.(*models.FlowSession), nil
}

func (r *MemoryStateRepository) SetSession(ctx context.Context, session *models.FlowSession) error {
	r.sessions.Store(session.ID, session)
	return nil
}

func (r *MemoryStateRepository) ClearSession(ctx context.Context, id string) error {
	r.sessions.Delete(id)
	return nil
}

func (r *MemoryStateRepository) SetHandoff(ctx context.Context, id string, serviceIDs []string) error {
	r.handoffs.Store(id, append([]string(nil), serviceIDs...))
	return nil
}

func (r *MemoryStateRepository) GetHandoff(ctx context.Context, id string) ([]string, error) {
	val, ok := r.handoffs.Load(id)
	if !ok {
		return nil, nil
	}
	return val.([]string), nil
}

func (r *MemoryStateRepository) ClearHandoff(ctx context.Context, id string) error {
	r.handoffs.Delete(id)
	return nil
}
