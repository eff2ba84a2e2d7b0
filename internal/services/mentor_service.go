package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/mentorship-service/internal/cache"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

const (
	defaultMentorPageSize = 20
)

type mentorService struct {
	repo      repositories.Repository
	ratings   RatingService
	cache     *cache.CacheManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMentorService(repo repositories.Repository, ratings RatingService, cacheManager *cache.CacheManager, logger *slog.Logger, validator *validator.Validator) MentorService {
	return &mentorService{
		repo:      repo,
		ratings:   ratings,
		cache:     cacheManager,
		logger:    logger,
		validator: validator,
	}
}

type mentorPage struct {
	Profiles []*models.MentorProfile `json:"profiles"`
	Total    int64                   `json:"total"`
}

// Search lists mentors and tutors with their rating summaries
func (s *mentorService) Search(ctx context.Context, params models.ListMentorsParams) (*models.PaginatedResponse, error) {
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Size == 0 {
		params.Size = defaultMentorPageSize
	}
	params.Query = strings.TrimSpace(params.Query)
	if err := s.validator.Validate(&params); err != nil {
		return nil, invalidArgument(err)
	}

	key := cache.MentorPageKey(params.Query, params.Page, params.Size)

	var page mentorPage
	err := s.cache.Fast.CacheOrExecute(ctx, key, &page, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
			Query:  params.Query,
			Roles:  []models.UserRole{models.RoleMentor, models.RoleTutor},
			Limit:  params.Size,
			Offset: (params.Page - 1) * params.Size,
		})
		if err != nil {
			return nil, err
		}

		profiles := make([]*models.MentorProfile, 0, len(users))
		for _, user := range users {
			profile, err := s.profile(ctx, user)
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, profile)
		}
		return mentorPage{Profiles: profiles, Total: total}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search mentors: %w", err)
	}

	return models.NewPaginatedResponse(page.Profiles, len(page.Profiles), page.Total, params.Page, params.Size), nil
}

func (s *mentorService) GetProfile(ctx context.Context, mentorID string) (*models.MentorProfile, error) {
	user, err := s.repo.User().GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMentorNotFound
		}
		return nil, fmt.Errorf("failed to get mentor: %w", err)
	}
	if !user.Role.IsCoach() {
		return nil, ErrMentorNotFound
	}
	return s.profile(ctx, user)
}

func (s *mentorService) profile(ctx context.Context, user *models.User) (*models.MentorProfile, error) {
	summary, err := s.ratings.MentorSummary(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.MentorProfile{User: user, Rating: *summary}, nil
}
