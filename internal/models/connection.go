package models

import (
	"time"

	"gorm.io/datatypes"
)

type ConnectionStatus string

const (
	ConnectionPending   ConnectionStatus = "pending"
	ConnectionActive    ConnectionStatus = "active"
	ConnectionCancelled ConnectionStatus = "cancelled"
	ConnectionCompleted ConnectionStatus = "completed"
)

// IsOpen reports whether the status blocks a second request for the same pair
func (s ConnectionStatus) IsOpen() bool {
	return s == ConnectionPending || s == ConnectionActive
}

// IsTerminal reports whether no transition other than deletion is allowed
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionCancelled || s == ConnectionCompleted
}

type ConnectionDecision string

const (
	DecisionAccept ConnectionDecision = "accept"
	DecisionReject ConnectionDecision = "reject"
)

type Connection struct {
	ID                uint                        `json:"id" gorm:"primaryKey"`
	MentorID          string                      `json:"mentor_id" gorm:"not null;index;size:255"`
	MenteeID          string                      `json:"mentee_id" gorm:"not null;index;size:255"`
	Status            ConnectionStatus            `json:"status" gorm:"not null;default:pending;index;size:20"`
	ConnectionMessage string                      `json:"connection_message" gorm:"type:text"`
	Goals             datatypes.JSONSlice[string] `json:"goals" gorm:"type:jsonb"`
	TargetBandScore   float64                     `json:"target_band_score"`
	FocusAreas        datatypes.JSONSlice[string] `json:"focus_areas" gorm:"type:jsonb"`

	// Ratings record the counterpart: MentorRating is given by the mentee.
	MentorRating   *int    `json:"mentor_rating"`
	MentorFeedback *string `json:"mentor_feedback" gorm:"type:text"`
	MenteeRating   *int    `json:"mentee_rating"`
	MenteeFeedback *string `json:"mentee_feedback" gorm:"type:text"`

	AcceptedAt  *time.Time `json:"accepted_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Optimistic lock, bumped on every update
	Version int `json:"version" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Connection) TableName() string {
	return "connections"
}

// IsParticipant reports whether userID is the mentor or the mentee
func (c *Connection) IsParticipant(userID string) bool {
	return userID != "" && (c.MentorID == userID || c.MenteeID == userID)
}

// Counterpart returns the other participant's id, or "" for outsiders
func (c *Connection) Counterpart(userID string) string {
	switch userID {
	case c.MentorID:
		return c.MenteeID
	case c.MenteeID:
		return c.MentorID
	default:
		return ""
	}
}

// CanTransition reports whether the connection state machine has an edge from -> to
func CanTransition(from, to ConnectionStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch from {
	case ConnectionPending:
		return to == ConnectionActive || to == ConnectionCancelled
	case ConnectionActive:
		return to == ConnectionCompleted
	}
	return false
}
