package models

import (
	"time"
)

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageFile   MessageType = "file"
	MessageImage  MessageType = "image"
	MessageAudio  MessageType = "audio"
	MessageVideo  MessageType = "video"
	MessageSystem MessageType = "system"
)

// Message rows are append-only per connection; ordering is (created_at, id).
type Message struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	ConnectionID uint        `json:"connection_id" gorm:"not null;index:idx_messages_connection_order,priority:1"`
	SenderID     string      `json:"sender_id" gorm:"not null;index;size:255"`
	MessageType  MessageType `json:"message_type" gorm:"not null;default:text;size:20"`
	Content      string      `json:"content" gorm:"type:text"`

	// Attachment
	FileURL  *string `json:"file_url" gorm:"size:1000"`
	FileName *string `json:"file_name" gorm:"size:255"`
	FileSize *int64  `json:"file_size"`

	// Idempotency key supplied by the sending client
	ClientMessageID *string `json:"client_message_id,omitempty" gorm:"size:64"`

	IsRead   bool       `json:"is_read" gorm:"not null;default:false"`
	ReadAt   *time.Time `json:"read_at"`
	IsEdited bool       `json:"is_edited" gorm:"not null;default:false"`
	EditedAt *time.Time `json:"edited_at"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_messages_connection_order,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}

// FileAttachment is the optional file metadata carried by messages and work items
type FileAttachment struct {
	URL  string `json:"url" validate:"required,url,max=1000"`
	Name string `json:"name" validate:"required,max=255"`
	Size int64  `json:"size" validate:"min=0"`
}
