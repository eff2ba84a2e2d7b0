package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type ConnectionPostgreSQL struct {
	db *gorm.DB
}

func NewConnectionPostgreSQL(db *gorm.DB) repositories.ConnectionRepository {
	return &ConnectionPostgreSQL{db: db}
}

func (r *ConnectionPostgreSQL) Create(ctx context.Context, connection *models.Connection) error {
	if connection.Version == 0 {
		connection.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(connection).Error; err != nil {
		return fmt.Errorf("failed to create connection: %w", translateError(err))
	}
	return nil
}

func (r *ConnectionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var connection models.Connection
	if err := r.db.WithContext(ctx).First(&connection, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &connection, nil
}

func (r *ConnectionPostgreSQL) GetForUpdate(ctx context.Context, id uint) (*models.Connection, error) {
	var connection models.Connection
	if err := forUpdate(r.db.WithContext(ctx)).First(&connection, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &connection, nil
}

func (r *ConnectionPostgreSQL) FindOpen(ctx context.Context, mentorID, menteeID string) (*models.Connection, error) {
	var connection models.Connection
	err := r.db.WithContext(ctx).
		Where("mentor_id = ? AND mentee_id = ?", mentorID, menteeID).
		Where("status IN ?", []models.ConnectionStatus{models.ConnectionPending, models.ConnectionActive}).
		First(&connection).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &connection, nil
}

func (r *ConnectionPostgreSQL) ListByParticipant(ctx context.Context, userID string, filters repositories.ConnectionFilters) ([]*models.Connection, error) {
	query := r.db.WithContext(ctx).
		Where("mentor_id = ? OR mentee_id = ?", userID, userID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	connections := make([]*models.Connection, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&connections).Error; err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return connections, nil
}

func (r *ConnectionPostgreSQL) Update(ctx context.Context, connection *models.Connection) error {
	next := *connection
	next.Version = connection.Version + 1
	next.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&next).
		Where("version = ?", connection.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(&next)
	if result.Error != nil {
		return fmt.Errorf("failed to update connection: %w", translateError(result.Error))
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Connection{}).Where("id = ?", connection.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check connection: %w", err)
		}
		if count == 0 {
			return repositories.ErrNotFound
		}
		return repositories.ErrVersionConflict
	}

	connection.Version = next.Version
	connection.UpdatedAt = next.UpdatedAt
	return nil
}

// Delete removes children explicitly so the cascade does not depend on FK settings
func (r *ConnectionPostgreSQL) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	for _, child := range []interface{}{&models.Message{}, &models.Session{}, &models.WorkItem{}} {
		if err := db.Where("connection_id = ?", id).Delete(child).Error; err != nil {
			return fmt.Errorf("failed to delete connection children: %w", err)
		}
	}

	result := db.Delete(&models.Connection{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *ConnectionPostgreSQL) MentorRatingSummary(ctx context.Context, mentorID string) (*models.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Select("COALESCE(AVG(mentor_rating), 0) AS average, COUNT(mentor_rating) AS count").
		Where("mentor_id = ? AND mentor_rating IS NOT NULL", mentorID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate mentor ratings: %w", err)
	}

	return &models.RatingSummary{
		MentorID: mentorID,
		Average:  row.Average,
		Count:    row.Count,
	}, nil
}
