package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

// participantGuard is the single authorization point of the service layer:
// every operation on a connection or its children resolves the connection
// through it exactly once.
type participantGuard struct{}

// connection loads the connection and checks that actor takes part in it.
// With lock set the row stays locked until the surrounding transaction ends.
func (participantGuard) connection(ctx context.Context, repo repositories.Repository, actor models.Actor, connectionID uint, action string, lock bool) (*models.Connection, error) {
	var (
		connection *models.Connection
		err        error
	)
	if lock {
		connection, err = repo.Connection().GetForUpdate(ctx, connectionID)
	} else {
		connection, err = repo.Connection().GetByID(ctx, connectionID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}

	if !connection.IsParticipant(actor.ID) {
		return nil, NewPermissionError(actor.ID, connectionID, "connection", action, "not a participant")
	}
	return connection, nil
}

// activeConnection is connection with the lock taken and status active required
func (g participantGuard) activeConnection(ctx context.Context, repo repositories.Repository, actor models.Actor, connectionID uint, action string) (*models.Connection, error) {
	connection, err := g.connection(ctx, repo, actor, connectionID, action, true)
	if err != nil {
		return nil, err
	}
	if connection.Status != models.ConnectionActive {
		return nil, ErrConnectionNotActive
	}
	return connection, nil
}

// updateConnection persists a locked connection, mapping a lost race to Conflict
func updateConnection(ctx context.Context, repo repositories.Repository, connection *models.Connection) error {
	if err := repo.Connection().Update(ctx, connection); err != nil {
		switch {
		case errors.Is(err, repositories.ErrVersionConflict):
			return ErrConcurrentUpdate
		case errors.Is(err, repositories.ErrNotFound):
			return ErrConnectionNotFound
		}
		return fmt.Errorf("failed to update connection: %w", err)
	}
	return nil
}

// notifier publishes best-effort notifications after a transaction commits
type notifier struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func (n notifier) notify(ctx context.Context, eventType events.EventType, userID string, data map[string]interface{}) {
	if n.publisher == nil || userID == "" {
		return
	}
	if err := n.publisher.Publish(ctx, events.NewEvent(eventType, userID, data)); err != nil {
		n.logger.Warn("Failed to publish notification",
			"type", eventType,
			"user_id", userID,
			"error", err)
	}
}
