package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/mentorship-service/internal/cache"
	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

type ratingService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	notifier  notifier
	logger    *slog.Logger
	validator *validator.Validator
	guard     participantGuard
}

func NewRatingService(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) RatingService {
	return &ratingService{
		repo:      repo,
		cache:     cacheManager,
		notifier:  notifier{publisher: publisher, logger: logger},
		logger:    logger,
		validator: validator,
	}
}

// Submit records the actor's rating of the counterpart. The mentee rates the
// mentor and vice versa; each side rates once.
func (s *ratingService) Submit(ctx context.Context, actor models.Actor, connectionID uint, req *RatingRequest) (*models.Connection, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalidArgument(err)
	}

	var connection *models.Connection
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		connection, err = s.guard.connection(ctx, tx, actor, connectionID, "rate", true)
		if err != nil {
			return err
		}
		if connection.Status != models.ConnectionActive && connection.Status != models.ConnectionCompleted {
			return ErrConnectionNotRateable
		}

		rating := req.Rating
		if actor.ID == connection.MenteeID {
			if connection.MentorRating != nil {
				return ErrRatingAlreadySubmitted
			}
			connection.MentorRating = &rating
			connection.MentorFeedback = req.Feedback
		} else {
			if connection.MenteeRating != nil {
				return ErrRatingAlreadySubmitted
			}
			connection.MenteeRating = &rating
			connection.MenteeFeedback = req.Feedback
		}

		return updateConnection(ctx, tx, connection)
	})
	if err != nil {
		return nil, err
	}

	if actor.ID == connection.MenteeID {
		s.cache.InvalidateMentor(ctx, connection.MentorID)
	}

	s.logger.Info("Rating submitted", "connection_id", connectionID, "user_id", actor.ID, "rating", req.Rating)
	s.notifier.notify(ctx, events.RatingSubmitted, connection.Counterpart(actor.ID), map[string]interface{}{
		"connection_id": connectionID,
		"rating":        req.Rating,
	})
	return connection, nil
}

// MentorSummary is served from the stats cache and recomputed after invalidation
func (s *ratingService) MentorSummary(ctx context.Context, mentorID string) (*models.RatingSummary, error) {
	var summary models.RatingSummary
	err := s.cache.Stats.CacheOrExecute(ctx, cache.RatingSummaryKey(mentorID), &summary, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Connection().MentorRatingSummary(ctx, mentorID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get rating summary: %w", err)
	}
	return &summary, nil
}
