package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

type messageService struct {
	repo      repositories.Repository
	notifier  notifier
	logger    *slog.Logger
	validator *validator.Validator
	guard     participantGuard
	now       func() time.Time
}

func NewMessageService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) MessageService {
	return &messageService{
		repo:      repo,
		notifier:  notifier{publisher: publisher, logger: logger},
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// Send appends a message. The connection row lock orders concurrent senders,
// so ids and created_at never go backwards within a connection.
func (s *messageService) Send(ctx context.Context, actor models.Actor, connectionID uint, req *SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}
	if err := checkMessageShape(req); err != nil {
		return nil, err
	}

	var (
		message  *models.Message
		replayed bool
		receiver string
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		connection, err := s.guard.activeConnection(ctx, tx, actor, connectionID, "send message to")
		if err != nil {
			return err
		}
		receiver = connection.Counterpart(actor.ID)

		if req.ClientMessageID != nil {
			existing, err := tx.Message().GetByClientID(ctx, connectionID, actor.ID, *req.ClientMessageID)
			if err == nil {
				message, replayed = existing, true
				return nil
			}
			if !errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("failed to check client message id: %w", err)
			}
		}

		createdAt := s.now()
		last, err := tx.Message().Last(ctx, connectionID)
		switch {
		case err == nil && last.CreatedAt.After(createdAt):
			createdAt = last.CreatedAt
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("failed to get last message: %w", err)
		}

		message = &models.Message{
			ConnectionID:    connectionID,
			SenderID:        actor.ID,
			MessageType:     req.MessageType,
			Content:         req.Content,
			ClientMessageID: req.ClientMessageID,
			CreatedAt:       createdAt,
		}
		if req.File != nil {
			message.FileURL = &req.File.URL
			message.FileName = &req.File.Name
			message.FileSize = &req.File.Size
		}

		if err := tx.Message().Create(ctx, message); err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		s.logger.Debug("Replayed idempotent message", "message_id", message.ID, "connection_id", connectionID)
		return message, nil
	}

	s.notifier.notify(ctx, events.MessageSent, receiver, map[string]interface{}{
		"connection_id": connectionID,
		"message_id":    message.ID,
		"sender_id":     actor.ID,
	})
	return message, nil
}

func checkMessageShape(req *SendMessageRequest) error {
	switch req.MessageType {
	case models.MessageSystem:
		return ErrSystemMessage
	case models.MessageText:
		if strings.TrimSpace(req.Content) == "" {
			return ErrEmptyMessage
		}
	default:
		if req.File == nil {
			return ErrAttachmentRequired
		}
	}
	return nil
}

func (s *messageService) List(ctx context.Context, actor models.Actor, connectionID uint) ([]*models.Message, error) {
	if _, err := s.guard.connection(ctx, s.repo, actor, connectionID, "read messages of", false); err != nil {
		return nil, err
	}

	messages, err := s.repo.Message().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkRead is idempotent and only allowed for the recipient
func (s *messageService) MarkRead(ctx context.Context, actor models.Actor, messageID uint) (*models.Message, error) {
	var message *models.Message
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		message, err = s.getMessage(ctx, tx, messageID)
		if err != nil {
			return err
		}
		if _, err := s.guard.connection(ctx, tx, actor, message.ConnectionID, "mark read", true); err != nil {
			return err
		}
		if message.SenderID == actor.ID {
			return NewPermissionError(actor.ID, messageID, "message", "mark read", "only the recipient can mark a message read")
		}
		if message.IsRead {
			return nil
		}

		now := s.now()
		message.IsRead = true
		message.ReadAt = &now
		if err := tx.Message().Update(ctx, message); err != nil {
			return fmt.Errorf("failed to update message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) MarkConversationRead(ctx context.Context, actor models.Actor, connectionID uint) (int64, error) {
	var count int64
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := s.guard.connection(ctx, tx, actor, connectionID, "mark read", true); err != nil {
			return err
		}

		var err error
		count, err = tx.Message().MarkAllRead(ctx, connectionID, actor.ID, s.now())
		if err != nil {
			return fmt.Errorf("failed to mark conversation read: %w", err)
		}
		return nil
	})
	return count, err
}

func (s *messageService) Edit(ctx context.Context, actor models.Actor, messageID uint, req *EditMessageRequest) (*models.Message, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}

	var message *models.Message
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		message, err = s.getMessage(ctx, tx, messageID)
		if err != nil {
			return err
		}
		if _, err := s.guard.activeConnection(ctx, tx, actor, message.ConnectionID, "edit message in"); err != nil {
			return err
		}
		if message.SenderID != actor.ID {
			return NewPermissionError(actor.ID, messageID, "message", "edit", "only the sender can edit a message")
		}

		now := s.now()
		message.Content = req.Content
		message.IsEdited = true
		message.EditedAt = &now
		if err := tx.Message().Update(ctx, message); err != nil {
			return fmt.Errorf("failed to update message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) UnreadCount(ctx context.Context, actor models.Actor, connectionID uint) (*models.UnreadCount, error) {
	if _, err := s.guard.connection(ctx, s.repo, actor, connectionID, "read messages of", false); err != nil {
		return nil, err
	}

	count, err := s.repo.Message().CountUnread(ctx, connectionID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return &models.UnreadCount{ConnectionID: connectionID, Unread: int(count)}, nil
}

func (s *messageService) getMessage(ctx context.Context, repo repositories.Repository, messageID uint) (*models.Message, error) {
	message, err := repo.Message().GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return message, nil
}
