package models

import (
	"time"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleStudent UserRole = "student"
	RoleMentor  UserRole = "mentor"
	RoleTutor   UserRole = "tutor"
	RoleAdmin   UserRole = "admin"
)

// IsCoach reports whether the role may be addressed by a connection request
func (r UserRole) IsCoach() bool {
	return r == RoleMentor || r == RoleTutor
}

// User is owned by the identity provider; this service only references it by id.
type User struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`

	// Profile info
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio,omitempty"`

	EmailVerified bool `json:"email_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor is the caller identity resolved by the auth middleware
type Actor struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

func NewActor(id string, role UserRole) Actor {
	return Actor{ID: id, Role: role}
}
