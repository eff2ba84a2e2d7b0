package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
	"github.com/SAP-F-2025/mentorship-service/internal/storage"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

type workItemService struct {
	repo      repositories.Repository
	files     storage.FileStore
	notifier  notifier
	logger    *slog.Logger
	validator *validator.Validator
	guard     participantGuard
	now       func() time.Time
}

func NewWorkItemService(repo repositories.Repository, files storage.FileStore, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) WorkItemService {
	return &workItemService{
		repo:      repo,
		files:     files,
		notifier:  notifier{publisher: publisher, logger: logger},
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *workItemService) Share(ctx context.Context, actor models.Actor, connectionID uint, req *ShareWorkRequest) (*models.WorkItem, error) {
	s.logger.Info("Sharing work", "connection_id", connectionID, "user_id", actor.ID, "work_type", req.WorkType)

	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}

	var (
		item     *models.WorkItem
		receiver string
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		connection, err := s.guard.activeConnection(ctx, tx, actor, connectionID, "share work in")
		if err != nil {
			return err
		}
		receiver = connection.Counterpart(actor.ID)

		item = &models.WorkItem{
			ConnectionID: connectionID,
			AuthorID:     actor.ID,
			Title:        req.Title,
			Description:  req.Description,
			WorkType:     req.WorkType,
			Content:      req.Content,
			Status:       models.WorkSubmitted,
		}
		if req.Draft {
			item.Status = models.WorkDraft
		}
		if req.File != nil {
			item.FileURL = &req.File.URL
			item.FileName = &req.File.Name
			item.FileSize = &req.File.Size
		}

		if err := tx.WorkItem().Create(ctx, item); err != nil {
			return fmt.Errorf("failed to create work item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if item.Status == models.WorkSubmitted {
		s.notifyShared(ctx, receiver, item)
	}
	return item, nil
}

// Submit moves the author's draft into review
func (s *workItemService) Submit(ctx context.Context, actor models.Actor, workItemID uint) (*models.WorkItem, error) {
	var (
		item     *models.WorkItem
		receiver string
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var (
			connection *models.Connection
			err        error
		)
		item, connection, err = s.lockItem(ctx, tx, actor, workItemID, "submit")
		if err != nil {
			return err
		}
		if connection.Status != models.ConnectionActive {
			return ErrConnectionNotActive
		}
		if item.AuthorID != actor.ID {
			return NewPermissionError(actor.ID, workItemID, "work item", "submit", "only the author can submit")
		}
		if item.Status != models.WorkDraft {
			return ErrWorkNotDraft
		}
		receiver = connection.Counterpart(actor.ID)

		item.Status = models.WorkSubmitted
		return s.update(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	s.notifyShared(ctx, receiver, item)
	return item, nil
}

// AttachFeedback records the counterpart's review; a new review replaces the previous one
func (s *workItemService) AttachFeedback(ctx context.Context, actor models.Actor, workItemID uint, req *FeedbackRequest) (*models.WorkItem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}

	var item *models.WorkItem
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		item, _, err = s.lockItem(ctx, tx, actor, workItemID, "review")
		if err != nil {
			return err
		}
		if item.AuthorID == actor.ID {
			return NewPermissionError(actor.ID, workItemID, "work item", "review", "authors cannot review their own work")
		}
		if item.Status != models.WorkSubmitted && item.Status != models.WorkReviewed {
			return ErrWorkNotReviewable
		}

		item.Feedback = &models.Feedback{
			ReviewerID:  actor.ID,
			Rating:      req.Rating,
			Comments:    req.Comments,
			Suggestions: req.Suggestions,
			CreatedAt:   s.now(),
		}
		item.Status = models.WorkReviewed
		return s.update(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.notify(ctx, events.WorkReviewed, item.AuthorID, map[string]interface{}{
		"connection_id": item.ConnectionID,
		"work_item_id":  item.ID,
		"rating":        req.Rating,
	})
	return item, nil
}

// Approve is the author's acceptance of the review; approved items are immutable
func (s *workItemService) Approve(ctx context.Context, actor models.Actor, workItemID uint) (*models.WorkItem, error) {
	var item *models.WorkItem
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		item, _, err = s.lockItem(ctx, tx, actor, workItemID, "approve")
		if err != nil {
			return err
		}
		if item.AuthorID != actor.ID {
			return NewPermissionError(actor.ID, workItemID, "work item", "approve", "only the author can approve")
		}
		if item.Status != models.WorkReviewed {
			return ErrWorkNotReviewed
		}

		item.Status = models.WorkApproved
		return s.update(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	if item.Feedback != nil {
		s.notifier.notify(ctx, events.WorkApproved, item.Feedback.ReviewerID, map[string]interface{}{
			"connection_id": item.ConnectionID,
			"work_item_id":  item.ID,
		})
	}
	return item, nil
}

func (s *workItemService) List(ctx context.Context, actor models.Actor, connectionID uint) ([]*models.WorkItem, error) {
	if _, err := s.guard.connection(ctx, s.repo, actor, connectionID, "view work of", false); err != nil {
		return nil, err
	}

	items, err := s.repo.WorkItem().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, nil
}

// UploadAttachment stores a file for later use in a message or work item
func (s *workItemService) UploadAttachment(ctx context.Context, actor models.Actor, connectionID uint, fileName string, content io.Reader) (*storage.Upload, error) {
	connection, err := s.guard.connection(ctx, s.repo, actor, connectionID, "upload to", false)
	if err != nil {
		return nil, err
	}
	if connection.Status != models.ConnectionActive {
		return nil, ErrConnectionNotActive
	}

	upload, err := s.files.Upload(ctx, fmt.Sprintf("connection-%d", connectionID), fileName, content)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) || errors.Is(err, storage.ErrFileTooLarge) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
		}
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Info("Attachment uploaded", "connection_id", connectionID, "user_id", actor.ID, "size", upload.Size)
	return upload, nil
}

// lockItem loads a work item under its connection's lock
func (s *workItemService) lockItem(ctx context.Context, tx repositories.Repository, actor models.Actor, workItemID uint, action string) (*models.WorkItem, *models.Connection, error) {
	item, err := tx.WorkItem().GetByID(ctx, workItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrWorkItemNotFound
		}
		return nil, nil, fmt.Errorf("failed to get work item: %w", err)
	}

	connection, err := s.guard.connection(ctx, tx, actor, item.ConnectionID, action+" work in", true)
	if err != nil {
		return nil, nil, err
	}
	return item, connection, nil
}

func (s *workItemService) update(ctx context.Context, tx repositories.Repository, item *models.WorkItem) error {
	if err := tx.WorkItem().Update(ctx, item); err != nil {
		return fmt.Errorf("failed to update work item: %w", err)
	}
	return nil
}

func (s *workItemService) notifyShared(ctx context.Context, receiver string, item *models.WorkItem) {
	s.notifier.notify(ctx, events.WorkShared, receiver, map[string]interface{}{
		"connection_id": item.ConnectionID,
		"work_item_id":  item.ID,
		"title":         item.Title,
	})
}
