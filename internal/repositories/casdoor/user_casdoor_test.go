package casdoor

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type fakeDirectory struct {
	users   []*casdoorsdk.User
	lookups int
}

func (f *fakeDirectory) GetUserByUserId(userID string) (*casdoorsdk.User, error) {
	f.lookups++
	for _, u := range f.users {
		if u.Id == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) GetUsers() ([]*casdoorsdk.User, error) {
	return f.users, nil
}

func (f *fakeDirectory) GetPaginationUsers(p int, pageSize int, _ map[string]string) ([]*casdoorsdk.User, int, error) {
	start := min((p-1)*pageSize, len(f.users))
	end := min(start+pageSize, len(f.users))
	return f.users[start:end], len(f.users), nil
}

func casdoorUser(id, name string, roles ...string) *casdoorsdk.User {
	u := &casdoorsdk.User{Id: id, DisplayName: name, Email: id + "@example.com"}
	for _, r := range roles {
		u.Roles = append(u.Roles, &casdoorsdk.Role{Name: r})
	}
	return u
}

func TestMapRole(t *testing.T) {
	tests := map[string]models.UserRole{
		"Mentor":     models.RoleMentor,
		"tutor":      models.RoleTutor,
		"teacher":    models.RoleTutor,
		"admin":      models.RoleAdmin,
		"student":    models.RoleStudent,
		"unexpected": models.RoleStudent,
	}
	for in, want := range tests {
		if got := MapRole(in); got != want {
			t.Errorf("MapRole(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestConvertCasdoorRolesToModel_PrefersCoach(t *testing.T) {
	u := casdoorUser("u1", "Lan", "student", "mentor")
	if got := convertCasdoorRolesToModel(u); got != models.RoleMentor {
		t.Errorf("role = %s, want mentor", got)
	}
	u.IsAdmin = true
	if got := convertCasdoorRolesToModel(u); got != models.RoleAdmin {
		t.Errorf("role = %s, want admin", got)
	}
}

func TestUserCasdoor_GetByIDCachesAndNotFound(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	dir := &fakeDirectory{users: []*casdoorsdk.User{casdoorUser("m1", "Minh", "mentor")}}
	repo := newUserCasdoor(dir, client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		user, err := repo.GetByID(ctx, "m1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if user.Role != models.RoleMentor {
			t.Errorf("Role = %s, want mentor", user.Role)
		}
	}
	if dir.lookups != 1 {
		t.Errorf("Casdoor lookups = %d, want 1", dir.lookups)
	}

	if _, err := repo.GetByID(ctx, "ghost"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("GetByID(ghost) error = %v, want ErrNotFound", err)
	}
	exists, err := repo.ExistsByID(ctx, "ghost")
	if err != nil || exists {
		t.Errorf("ExistsByID(ghost) = %v, %v", exists, err)
	}
}

func TestUserCasdoor_ListByRoles(t *testing.T) {
	dir := &fakeDirectory{users: []*casdoorsdk.User{
		casdoorUser("s1", "Student One", "student"),
		casdoorUser("m2", "Binh", "mentor"),
		casdoorUser("t1", "Anh", "tutor"),
		casdoorUser("m3", "Chi", "mentor"),
	}}
	repo := newUserCasdoor(dir, nil)

	users, total, err := repo.List(context.Background(), repositories.UserFilters{
		Roles: []models.UserRole{models.RoleMentor, models.RoleTutor},
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 || len(users) != 2 {
		t.Fatalf("List() = %d users, total %d; want 2, 3", len(users), total)
	}
	if users[0].FullName != "Anh" || users[1].FullName != "Binh" {
		t.Errorf("List() order = %s, %s", users[0].FullName, users[1].FullName)
	}

	users, total, _ = repo.List(context.Background(), repositories.UserFilters{
		Roles: []models.UserRole{models.RoleMentor, models.RoleTutor},
		Query: "chi",
		Limit: 10,
	})
	if total != 1 || users[0].ID != "m3" {
		t.Errorf("List(query=chi) = %+v", users)
	}
}
