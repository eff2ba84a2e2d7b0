package models

import (
	"time"
)

type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

type SessionType string

const (
	SessionOneOnOne         SessionType = "one_on_one"
	SessionMockTest         SessionType = "mock_test"
	SessionReview           SessionType = "review"
	SessionSpeakingPractice SessionType = "speaking_practice"
	SessionWritingReview    SessionType = "writing_review"
)

const (
	MinSessionDuration = 15
	MaxSessionDuration = 180
)

type Session struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	ConnectionID    uint          `json:"connection_id" gorm:"not null;index"`
	CreatedBy       string        `json:"created_by" gorm:"not null;size:255"`
	Title           string        `json:"title" gorm:"not null;size:200"`
	Description     *string       `json:"description" gorm:"type:text"`
	SessionType     SessionType   `json:"session_type" gorm:"not null;size:30"`
	ScheduledAt     time.Time     `json:"scheduled_at" gorm:"not null;index"`
	DurationMinutes int           `json:"duration_minutes" gorm:"not null"`
	Status          SessionStatus `json:"status" gorm:"not null;default:scheduled;index;size:20"`

	// Filled in on completion
	Notes    *string `json:"notes" gorm:"type:text"`
	Rating   *int    `json:"rating"`
	Homework *string `json:"homework" gorm:"type:text"`

	CancelReason *string    `json:"cancel_reason,omitempty" gorm:"type:text"`
	CompletedAt  *time.Time `json:"completed_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// EndsAt is the scheduled end of the session
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
