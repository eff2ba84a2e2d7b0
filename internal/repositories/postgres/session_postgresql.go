package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (r *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", translateError(err))
	}
	return nil
}

func (r *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (r *SessionPostgreSQL) Update(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update session: %w", translateError(err))
	}
	return nil
}

func (r *SessionPostgreSQL) ListByConnection(ctx context.Context, connectionID uint) ([]*models.Session, error) {
	sessions := make([]*models.Session, 0)
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("scheduled_at ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionPostgreSQL) ListScheduled(ctx context.Context, connectionIDs []uint) ([]*models.Session, error) {
	sessions := make([]*models.Session, 0)
	if len(connectionIDs) == 0 {
		return sessions, nil
	}

	err := r.db.WithContext(ctx).
		Where("connection_id IN ? AND status = ?", connectionIDs, models.SessionScheduled).
		Order("scheduled_at ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled sessions: %w", err)
	}
	return sessions, nil
}
