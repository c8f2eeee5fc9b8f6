// Package scheduler drives the consultation scheduling flow. The
// coordinator itself holds no per-user state; every call loads the
// session from the state repository, applies one transition and saves
// it back.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servaura/internal/availability"
	"servaura/internal/calendar"
	"servaura/internal/domain"
	"servaura/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoSession is returned when the session id is unknown or expired.
var ErrNoSession = errors.New("scheduling session not found")

// ContactForm carries the form fields collected before submission.
type ContactForm struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PropertyType string `json:"propertyType"`
	Message      string `json:"message,omitempty"`
}

type Coordinator struct {
	book     domain.ConsultationBook
	resolver *availability.Resolver
	states   domain.StateRepository
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewCoordinator(book domain.ConsultationBook, resolver *availability.Resolver, states domain.StateRepository, logger *zerolog.Logger) *Coordinator {
	return &Coordinator{
		book:     book,
		resolver: resolver,
		states:   states,
		logger:   logger,
		now:      time.Now,
	}
}

// StartSession opens a fresh scheduling session anchored at the current
// month.
func (c *Coordinator) StartSession(ctx context.Context) (*models.FlowSession, error) {
	now := c.now()
	session := &models.FlowSession{
		ID:        uuid.NewString(),
		Step:      models.StepSelectingDate,
		Year:      now.Year(),
		Month:     int(now.Month()),
		SlotIndex: -1,
		UpdatedAt: now,
	}
	if err := c.states.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Grid returns the 42-cell calendar for the month the session is
// browsing.
func (c *Coordinator) Grid(ctx context.Context, sessionID string) ([]models.CalendarCell, error) {
	session, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return calendar.BuildGrid(session.Year, time.Month(session.Month), session.SelectedDate, c.now()), nil
}

// NextMonth advances the browsed month.
func (c *Coordinator) NextMonth(ctx context.Context, sessionID string) (*models.FlowSession, error) {
	return c.navigate(ctx, sessionID, calendar.NextMonth)
}

// PrevMonth steps the browsed month back.
func (c *Coordinator) PrevMonth(ctx context.Context, sessionID string) (*models.FlowSession, error) {
	return c.navigate(ctx, sessionID, calendar.PrevMonth)
}

func (c *Coordinator) navigate(ctx context.Context, sessionID string, step func(int, time.Month) (int, time.Month)) (*models.FlowSession, error) {
	session, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Year, session.Month = yearMonthInt(step(session.Year, time.Month(session.Month)))
	return session, c.save(ctx, session)
}

func yearMonthInt(year int, month time.Month) (int, int) {
	return year, int(month)
}

// SelectCell chooses a calendar cell by its grid index. Cells outside
// the current month, in the past or on a weekend are ignored and the
// session is returned unchanged.
func (c *Coordinator) SelectCell(ctx context.Context, sessionID string, cellIndex int) (*models.FlowSession, error) {
	session, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	grid := calendar.BuildGrid(session.Year, time.Month(session.Month), session.SelectedDate, c.now())
	if cellIndex < 0 || cellIndex >= len(grid) {
		return session, nil
	}
	cell := grid[cellIndex]
	if !cell.Selectable() {
		return session, nil
	}

	session.SelectedDate = calendar.DateOf(session.Year, time.Month(session.Month), cell.Day)
	session.SlotIndex = -1
	session.Step = models.StepSelectingSlot
	session.LastError = ""
	return session, c.save(ctx, session)
}

// SelectSlot chooses a time slot for the selected date. Slots the
// resolver reports unavailable are rejected.
func (c *Coordinator) SelectSlot(ctx context.Context, sessionID string, slotIndex int) (*models.FlowSession, error) {
	session, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedDate == "" {
		session.LastError = "Select a date first."
		return session, c.save(ctx, session)
	}

	date, err := time.Parse(models.DateLayout, session.SelectedDate)
	if err != nil {
		return nil, fmt.Errorf("parse selected date: %w", err)
	}
	if !c.resolver.IsAvailable(date, slotIndex) {
		session.LastError = "That time slot is not available."
		return session, c.save(ctx, session)
	}

	session.SlotIndex = slotIndex
	session.Step = models.StepFillingForm
	session.LastError = ""
	return session, c.save(ctx, session)
}

// SetContact records the contact form fields on the session.
func (c *Coordinator) SetContact(ctx context.Context, sessionID string, form ContactForm) (*models.FlowSession, error) {
	session, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Name = form.Name
	session.Email = form.Email
	session.Phone = form.Phone
	session.PropertyType = form.PropertyType
	session.Message = form.Message
	return session, c.save(ctx, session)
}

// Submit validates the collected state and books the consultation.
// Validation failures keep the session where it is with a message; a
// valid submission always ends in Confirmed, whatever the remote
// collaborator did, because the book absorbs its failures.
func (c *Coordinator) Submit(ctx context.Context, sessionID string) (*models.FlowSession, error) {
	session, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	slotLabel, _ := models.SlotLabel(session.SlotIndex)
	req := models.CreateRequest{
		Name:         session.Name,
		Email:        session.Email,
		Phone:        session.Phone,
		PropertyType: session.PropertyType,
		Message:      session.Message,
		Date:         session.SelectedDate,
		TimeSlot:     slotLabel,
	}
	if err := req.Validate(c.now()); err != nil {
		session.LastError = err.Error()
		return session, c.save(ctx, session)
	}

	session.Step = models.StepSubmitting
	session.LastError = ""
	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	id, createErr := c.book.Create(ctx, req)
	if createErr != nil {
		c.logger.Warn().Err(createErr).Str("session", sessionID).
			Msg("consultation recorded locally after remote failure")
	}
	c.logger.Info().Str("session", sessionID).Str("consultation", id).
		Str("date", req.Date).Str("slot", req.TimeSlot).Msg("consultation scheduled")

	if err := c.book.RefreshAvailability(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("post-submit availability refresh degraded")
	}

	session.Step = models.StepConfirmed
	return session, c.save(ctx, session)
}

// Reset clears every transient field and returns the session to date
// selection at the current month.
func (c *Coordinator) Reset(ctx context.Context, sessionID string) (*models.FlowSession, error) {
	session, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := c.now()
	*session = models.FlowSession{
		ID:        session.ID,
		Step:      models.StepSelectingDate,
		Year:      now.Year(),
		Month:     int(now.Month()),
		SlotIndex: -1,
		UpdatedAt: now,
	}
	return session, c.states.SetSession(ctx, session)
}

// EndSession drops the session entirely.
func (c *Coordinator) EndSession(ctx context.Context, sessionID string) error {
	return c.states.ClearSession(ctx, sessionID)
}

func (c *Coordinator) load(ctx context.Context, sessionID string) (*models.FlowSession, error) {
	session, err := c.states.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoSession
	}
	return session, nil
}

func (c *Coordinator) save(ctx context.Context, session *models.FlowSession) error {
	session.UpdatedAt = c.now()
	if err := c.states.SetSession(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
