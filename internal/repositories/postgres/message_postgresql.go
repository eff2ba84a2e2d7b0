package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type MessagePostgreSQL struct {
	db *gorm.DB
}

func NewMessagePostgreSQL(db *gorm.DB) repositories.MessageRepository {
	return &MessagePostgreSQL{db: db}
}

func (r *MessagePostgreSQL) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", translateError(err))
	}
	return nil
}

func (r *MessagePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &message, nil
}

func (r *MessagePostgreSQL) GetByClientID(ctx context.Context, connectionID uint, senderID, clientMessageID string) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("connection_id = ? AND sender_id = ? AND client_message_id = ?", connectionID, senderID, clientMessageID).
		First(&message).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &message, nil
}

func (r *MessagePostgreSQL) Last(ctx context.Context, connectionID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("created_at DESC, id DESC").
		First(&message).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &message, nil
}

func (r *MessagePostgreSQL) ListByConnection(ctx context.Context, connectionID uint) ([]*models.Message, error) {
	messages := make([]*models.Message, 0)
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *MessagePostgreSQL) Update(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Save(message).Error; err != nil {
		return fmt.Errorf("failed to update message: %w", translateError(err))
	}
	return nil
}

func (r *MessagePostgreSQL) MarkAllRead(ctx context.Context, connectionID uint, readerID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("connection_id = ? AND sender_id <> ? AND is_read = ?", connectionID, readerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *MessagePostgreSQL) CountUnread(ctx context.Context, connectionID uint, readerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("connection_id = ? AND sender_id <> ? AND is_read = ?", connectionID, readerID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
