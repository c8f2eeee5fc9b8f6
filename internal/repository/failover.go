package repository

import (
	"context"
	"sync/atomic"
	"time"

	"servaura/internal/domain"
	"servaura/internal/models"

	"github.com/rs/zerolog"
)

type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverStateRepository) GetSession(ctx context.Context, id string) (*models.FlowSession, error) {
	if !r.isDown.Load() {
		session, err := r.primary.GetSession(ctx, id)
		if err == nil {
			return session, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		session, err := r.primary.GetSession(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetSession(ctx, id)
}

func (r *FailoverStateRepository) SetSession(ctx context.Context, session *models.FlowSession) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, session)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSession(ctx, session)
}

func (r *FailoverStateRepository) ClearSession(ctx context.Context, id string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearSession(ctx, id)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearSession(ctx, id)
}

func (r *FailoverStateRepository) SetHandoff(ctx context.Context, id string, serviceIDs []string) error {
	if !r.isDown.Load() {
		err := r.primary.SetHandoff(ctx, id, serviceIDs)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetHandoff(ctx, id, serviceIDs)
}

func (r *FailoverStateRepository) GetHandoff(ctx context.Context, id string) ([]string, error) {
	if !r.isDown.Load() {
		ids, err := r.primary.GetHandoff(ctx, id)
		if err == nil {
			return ids, nil
		}
		r.markDown(err)
	}

	return r.fallback.GetHandoff(ctx, id)
}

func (r *FailoverStateRepository) ClearHandoff(ctx context.Context, id string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearHandoff(ctx, id)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearHandoff(ctx, id)
}
