package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

// UserDirectory is a static user list used when no identity provider is configured
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserDirectory(users ...models.User) *UserDirectory {
	d := &UserDirectory{users: make(map[string]models.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// Add registers or replaces a user
func (d *UserDirectory) Add(user models.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = user
}

func (d *UserDirectory) GetByID(ctx context.Context, id string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (d *UserDirectory) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, err := d.GetByID(ctx, id); err == nil {
			users = append(users, user)
		}
	}
	return users, nil
}

func (d *UserDirectory) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := strings.ToLower(strings.TrimSpace(filters.Query))

	d.mu.RLock()
	matched := make([]*models.User, 0, len(d.users))
	for _, u := range d.users {
		if len(filters.Roles) > 0 && !slices.Contains(filters.Roles, u.Role) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(u.FullName), query) &&
			!strings.Contains(strings.ToLower(u.Email), query) {
			continue
		}
		matched = append(matched, &u)
	}
	d.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *models.User) int {
		if c := strings.Compare(a.FullName, b.FullName); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	start := min(max(filters.Offset, 0), len(matched))
	end := min(start+limit, len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (d *UserDirectory) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, err := d.GetByID(ctx, id)
	return err == nil, nil
}

func (d *UserDirectory) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	user, err := d.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.Role == role, nil
}
