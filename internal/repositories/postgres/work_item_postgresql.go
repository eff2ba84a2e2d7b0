package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type WorkItemPostgreSQL struct {
	db *gorm.DB
}

func NewWorkItemPostgreSQL(db *gorm.DB) repositories.WorkItemRepository {
	return &WorkItemPostgreSQL{db: db}
}

func (r *WorkItemPostgreSQL) Create(ctx context.Context, item *models.WorkItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create work item: %w", translateError(err))
	}
	return nil
}

func (r *WorkItemPostgreSQL) GetByID(ctx context.Context, id uint) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (r *WorkItemPostgreSQL) Update(ctx context.Context, item *models.WorkItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update work item: %w", translateError(err))
	}
	return nil
}

func (r *WorkItemPostgreSQL) ListByConnection(ctx context.Context, connectionID uint) ([]*models.WorkItem, error) {
	items := make([]*models.WorkItem, 0)
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, nil
}
