package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

type sessionService struct {
	repo      repositories.Repository
	notifier  notifier
	logger    *slog.Logger
	validator *validator.Validator
	guard     participantGuard
	now       func() time.Time
}

func NewSessionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		notifier:  notifier{publisher: publisher, logger: logger},
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, actor models.Actor, connectionID uint, req *CreateSessionRequest) (*models.Session, error) {
	s.logger.Info("Scheduling session", "connection_id", connectionID, "user_id", actor.ID, "scheduled_at", req.ScheduledAt)

	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}
	if errs := s.validator.ValidateSessionSchedule(req.ScheduledAt, req.DurationMinutes, s.now()); len(errs) > 0 {
		return nil, invalidArgument(errs)
	}

	var (
		session  *models.Session
		receiver string
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		connection, err := s.guard.activeConnection(ctx, tx, actor, connectionID, "schedule session in")
		if err != nil {
			return err
		}
		receiver = connection.Counterpart(actor.ID)

		session = &models.Session{
			ConnectionID:    connectionID,
			CreatedBy:       actor.ID,
			Title:           req.Title,
			Description:     req.Description,
			SessionType:     req.SessionType,
			ScheduledAt:     req.ScheduledAt.UTC(),
			DurationMinutes: req.DurationMinutes,
			Status:          models.SessionScheduled,
		}
		if err := tx.Session().Create(ctx, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.notify(ctx, events.SessionScheduled, receiver, map[string]interface{}{
		"connection_id": connectionID,
		"session_id":    session.ID,
		"scheduled_at":  session.ScheduledAt,
	})
	return session, nil
}

// Complete freezes a scheduled session with its notes, rating and homework
func (s *sessionService) Complete(ctx context.Context, actor models.Actor, sessionID uint, req *CompleteSessionRequest) (*models.Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}

	var (
		session  *models.Session
		receiver string
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		session, receiver, err = s.lockScheduled(ctx, tx, actor, sessionID, "complete")
		if err != nil {
			return err
		}

		now := s.now()
		rating := req.Rating
		session.Status = models.SessionCompleted
		session.Rating = &rating
		session.Notes = optionalString(req.Notes)
		session.Homework = optionalString(req.Homework)
		session.CompletedAt = &now
		if err := tx.Session().Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.notify(ctx, events.SessionCompleted, receiver, map[string]interface{}{
		"connection_id": session.ConnectionID,
		"session_id":    session.ID,
	})
	return session, nil
}

func (s *sessionService) Cancel(ctx context.Context, actor models.Actor, sessionID uint, req *CancelSessionRequest) (*models.Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}

	var (
		session  *models.Session
		receiver string
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		session, receiver, err = s.lockScheduled(ctx, tx, actor, sessionID, "cancel")
		if err != nil {
			return err
		}

		now := s.now()
		session.Status = models.SessionCancelled
		session.CancelReason = req.Reason
		session.CancelledAt = &now
		if err := tx.Session().Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.notify(ctx, events.SessionCancelled, receiver, map[string]interface{}{
		"connection_id": session.ConnectionID,
		"session_id":    session.ID,
	})
	return session, nil
}

// lockScheduled loads a session under its connection's lock and requires status scheduled
func (s *sessionService) lockScheduled(ctx context.Context, tx repositories.Repository, actor models.Actor, sessionID uint, action string) (*models.Session, string, error) {
	session, err := tx.Session().GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrSessionNotFound
		}
		return nil, "", fmt.Errorf("failed to get session: %w", err)
	}

	connection, err := s.guard.connection(ctx, tx, actor, session.ConnectionID, action+" session in", true)
	if err != nil {
		return nil, "", err
	}
	if session.Status != models.SessionScheduled {
		return nil, "", ErrSessionNotScheduled
	}
	return session, connection.Counterpart(actor.ID), nil
}

// ListUpcoming returns scheduled sessions across the actor's active connections
func (s *sessionService) ListUpcoming(ctx context.Context, actor models.Actor) ([]*models.Session, error) {
	active := models.ConnectionActive
	connections, err := s.repo.Connection().ListByParticipant(ctx, actor.ID, repositories.ConnectionFilters{Status: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	ids := make([]uint, 0, len(connections))
	for _, c := range connections {
		ids = append(ids, c.ID)
	}

	sessions, err := s.repo.Session().ListScheduled(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) List(ctx context.Context, actor models.Actor, connectionID uint) ([]*models.Session, error) {
	if _, err := s.guard.connection(ctx, s.repo, actor, connectionID, "view sessions of", false); err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
