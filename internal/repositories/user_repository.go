package repositories

import (
	"context"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string            // Search query for name or email
	Roles  []models.UserRole // Empty means any role
	Limit  int               // Page size
	Offset int               // Offset for pagination
}

// UserRepository is read-only: users are owned by the identity provider
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByID(ctx context.Context, id string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)
}
