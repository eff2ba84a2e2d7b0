package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/cache"
	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

type connectionService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	notifier  notifier
	logger    *slog.Logger
	validator *validator.Validator
	guard     participantGuard
	policy    RejectionPolicy
	now       func() time.Time
}

func NewConnectionService(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, policy RejectionPolicy) ConnectionService {
	if policy == "" {
		policy = RejectDelete
	}
	return &connectionService{
		repo:      repo,
		cache:     cacheManager,
		notifier:  notifier{publisher: publisher, logger: logger},
		logger:    logger,
		validator: validator,
		policy:    policy,
		now:       time.Now,
	}
}

// ===== LIFECYCLE =====

func (s *connectionService) Request(ctx context.Context, actor models.Actor, req *RequestConnectionRequest) (*models.Connection, error) {
	s.logger.Info("Requesting connection", "mentee_id", actor.ID, "mentor_id", req.MentorID)

	if actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actor.ID, 0, "connection", "request", "only students can request mentorship")
	}

	req.MentorID = strings.TrimSpace(req.MentorID)
	if errs := s.validator.ValidateConnectionRequest(req, actor.ID); len(errs) > 0 {
		return nil, invalidArgument(errs)
	}

	mentor, err := s.repo.User().GetByID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMentorNotFound
		}
		return nil, fmt.Errorf("failed to get mentor: %w", err)
	}
	if !mentor.Role.IsCoach() {
		return nil, ErrNotACoach
	}

	connection := &models.Connection{
		MentorID:          mentor.ID,
		MenteeID:          actor.ID,
		Status:            models.ConnectionPending,
		ConnectionMessage: req.Message,
		Goals:             req.Goals,
		TargetBandScore:   req.TargetBandScore,
		FocusAreas:        req.FocusAreas,
		Version:           1,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Connection().FindOpen(ctx, connection.MentorID, connection.MenteeID); err == nil {
			return ErrDuplicateConnection
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to check open connections: %w", err)
		}

		if err := tx.Connection().Create(ctx, connection); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrDuplicateConnection
			}
			return fmt.Errorf("failed to create connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Connection requested", "connection_id", connection.ID)
	s.notifier.notify(ctx, events.ConnectionRequested, connection.MentorID, map[string]interface{}{
		"connection_id": connection.ID,
		"mentee_id":     connection.MenteeID,
	})

	return connection, nil
}

func (s *connectionService) Respond(ctx context.Context, actor models.Actor, connectionID uint, decision models.ConnectionDecision) (*models.Connection, error) {
	s.logger.Info("Responding to connection", "connection_id", connectionID, "user_id", actor.ID, "decision", decision)

	if decision != models.DecisionAccept && decision != models.DecisionReject {
		return nil, invalidArgument(validator.ValidationErrors{{
			Field:   "decision",
			Message: "must be one of [accept reject]",
			Value:   decision,
			Rule:    "oneof",
		}})
	}

	var connection *models.Connection
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		connection, err = s.guard.connection(ctx, tx, actor, connectionID, "respond to", true)
		if err != nil {
			return err
		}
		if connection.MentorID != actor.ID {
			return NewPermissionError(actor.ID, connectionID, "connection", "respond to", "only the mentor can respond")
		}
		target := models.ConnectionActive
		if decision == models.DecisionReject {
			target = models.ConnectionCancelled
		}
		if !models.CanTransition(connection.Status, target) {
			return ErrConnectionNotPending
		}

		if decision == models.DecisionAccept {
			now := s.now()
			connection.Status = models.ConnectionActive
			connection.AcceptedAt = &now
			return updateConnection(ctx, tx, connection)
		}

		if s.policy == RejectCancel {
			connection.Status = models.ConnectionCancelled
			return updateConnection(ctx, tx, connection)
		}

		if err := tx.Connection().Delete(ctx, connection.ID); err != nil {
			return fmt.Errorf("failed to delete rejected connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := events.ConnectionAccepted
	if decision == models.DecisionReject {
		eventType = events.ConnectionRejected
	}
	s.notifier.notify(ctx, eventType, connection.MenteeID, map[string]interface{}{
		"connection_id": connection.ID,
		"mentor_id":     connection.MentorID,
	})

	return connection, nil
}

func (s *connectionService) Complete(ctx context.Context, actor models.Actor, connectionID uint) (*models.Connection, error) {
	s.logger.Info("Completing connection", "connection_id", connectionID, "user_id", actor.ID)

	var connection *models.Connection
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		connection, err = s.guard.connection(ctx, tx, actor, connectionID, "complete", true)
		if err != nil {
			return err
		}
		if !models.CanTransition(connection.Status, models.ConnectionCompleted) {
			return ErrConnectionNotActive
		}

		now := s.now()
		connection.Status = models.ConnectionCompleted
		connection.CompletedAt = &now
		return updateConnection(ctx, tx, connection)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.notify(ctx, events.ConnectionCompleted, connection.Counterpart(actor.ID), map[string]interface{}{
		"connection_id": connection.ID,
	})
	return connection, nil
}

// Delete is allowed for either participant in any status and removes all children
func (s *connectionService) Delete(ctx context.Context, actor models.Actor, connectionID uint) error {
	s.logger.Info("Deleting connection", "connection_id", connectionID, "user_id", actor.ID)

	var connection *models.Connection
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		connection, err = s.guard.connection(ctx, tx, actor, connectionID, "delete", true)
		if err != nil {
			return err
		}
		if err := tx.Connection().Delete(ctx, connection.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrConnectionNotFound
			}
			return fmt.Errorf("failed to delete connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if connection.MentorRating != nil {
		s.cache.InvalidateMentor(ctx, connection.MentorID)
	}
	s.notifier.notify(ctx, events.ConnectionDeleted, connection.Counterpart(actor.ID), map[string]interface{}{
		"connection_id": connection.ID,
		"deleted_by":    actor.ID,
	})

	s.logger.Info("Connection deleted", "connection_id", connectionID)
	return nil
}

// ===== QUERIES =====

func (s *connectionService) GetByID(ctx context.Context, actor models.Actor, connectionID uint) (*models.Connection, error) {
	return s.guard.connection(ctx, s.repo, actor, connectionID, "view", false)
}

func (s *connectionService) List(ctx context.Context, actor models.Actor, params models.ListConnectionsParams) ([]*models.Connection, error) {
	if err := s.validator.Validate(&params); err != nil {
		return nil, invalidArgument(err)
	}

	filters := repositories.ConnectionFilters{}
	if params.Status != "" {
		filters.Status = &params.Status
	}

	connections, err := s.repo.Connection().ListByParticipant(ctx, actor.ID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return connections, nil
}
