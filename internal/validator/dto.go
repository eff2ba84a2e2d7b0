package validator

import (
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

// ConnectionCreateRequest is sent by a mentee addressing a mentor
type ConnectionCreateRequest struct {
	MentorID        string   `json:"mentor_id" validate:"required,max=255"`
	Message         string   `json:"message" validate:"max=2000"`
	Goals           []string `json:"goals" validate:"omitempty,max=10,dive,not_blank,max=200"`
	TargetBandScore float64  `json:"target_band_score" validate:"band_score"`
	FocusAreas      []string `json:"focus_areas" validate:"omitempty,max=10,dive,not_blank,max=100"`
}

type ConnectionResponseRequest struct {
	Decision models.ConnectionDecision `json:"decision" validate:"required,oneof=accept reject"`
}

type SendMessageRequest struct {
	MessageType     models.MessageType     `json:"message_type" validate:"required,message_type"`
	Content         string                 `json:"content" validate:"max=10000"`
	File            *models.FileAttachment `json:"file" validate:"omitempty"`
	ClientMessageID *string                `json:"client_message_id" validate:"omitempty,min=8,max=64"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required,not_blank,max=10000"`
}

type SessionCreateRequest struct {
	Title           string             `json:"title" validate:"required,not_blank,max=200"`
	Description     *string            `json:"description" validate:"omitempty,max=2000"`
	SessionType     models.SessionType `json:"session_type" validate:"required,session_type"`
	ScheduledAt     time.Time          `json:"scheduled_at" validate:"required"`
	DurationMinutes int                `json:"duration_minutes" validate:"required"`
}

type SessionCompleteRequest struct {
	Notes    string `json:"notes" validate:"max=5000"`
	Rating   int    `json:"rating" validate:"rating"`
	Homework string `json:"homework" validate:"max=5000"`
}

type SessionCancelRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

type WorkItemCreateRequest struct {
	Title       string                 `json:"title" validate:"required,not_blank,max=200"`
	Description string                 `json:"description" validate:"max=2000"`
	WorkType    models.WorkType        `json:"work_type" validate:"required,work_type"`
	Content     string                 `json:"content" validate:"max=50000"`
	File        *models.FileAttachment `json:"file" validate:"omitempty"`
	Draft       bool                   `json:"draft"`
}

type FeedbackRequest struct {
	Rating      int      `json:"rating" validate:"rating"`
	Comments    string   `json:"comments" validate:"max=5000"`
	Suggestions []string `json:"suggestions" validate:"omitempty,max=20,dive,not_blank,max=500"`
}

type RatingRequest struct {
	Rating   int     `json:"rating" validate:"rating"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}
