package models

import (
	"time"
)

type WorkItemStatus string

const (
	WorkDraft     WorkItemStatus = "draft"
	WorkSubmitted WorkItemStatus = "submitted"
	WorkReviewed  WorkItemStatus = "reviewed"
	WorkApproved  WorkItemStatus = "approved"
)

type WorkType string

const (
	WorkEssay     WorkType = "essay"
	WorkRecording WorkType = "recording"
	WorkExercise  WorkType = "exercise"
	WorkOther     WorkType = "other"
)

type WorkItem struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	ConnectionID uint           `json:"connection_id" gorm:"not null;index"`
	AuthorID     string         `json:"author_id" gorm:"not null;index;size:255"`
	Title        string         `json:"title" gorm:"not null;size:200"`
	Description  string         `json:"description" gorm:"type:text"`
	WorkType     WorkType       `json:"work_type" gorm:"not null;size:20"`
	Content      string         `json:"content" gorm:"type:text"`
	Status       WorkItemStatus `json:"status" gorm:"not null;default:submitted;index;size:20"`

	FileURL  *string `json:"file_url" gorm:"size:1000"`
	FileName *string `json:"file_name" gorm:"size:255"`
	FileSize *int64  `json:"file_size"`

	// At most one review per work item
	Feedback *Feedback `json:"feedback" gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Feedback struct {
	ReviewerID  string    `json:"reviewer_id"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments"`
	Suggestions []string  `json:"suggestions"`
	CreatedAt   time.Time `json:"created_at"`
}

func (WorkItem) TableName() string {
	return "work_items"
}
