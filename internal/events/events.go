package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	ConnectionRequested EventType = "connection.requested"
	ConnectionAccepted  EventType = "connection.accepted"
	ConnectionRejected  EventType = "connection.rejected"
	ConnectionCompleted EventType = "connection.completed"
	ConnectionDeleted   EventType = "connection.deleted"

	MessageSent EventType = "message.sent"

	SessionScheduled EventType = "session.scheduled"
	SessionCompleted EventType = "session.completed"
	SessionCancelled EventType = "session.cancelled"

	WorkShared   EventType = "work.shared"
	WorkReviewed EventType = "work.reviewed"
	WorkApproved EventType = "work.approved"

	RatingSubmitted EventType = "rating.submitted"
)

const (
	EventSource  = "mentorship-service"
	EventVersion = "1.0"
)

// Event is a notification addressed to a single user
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id"`
	Data      map[string]interface{} `json:"data"`
}

func NewEvent(eventType EventType, userID string, data map[string]interface{}) *Event {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Data:      data,
	}
}

// EventPublisher delivers events to the notification pipeline
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
