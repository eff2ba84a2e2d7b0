package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

// Storage level errors. Implementations wrap or return these so services can
// map them without knowing the backend.
var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record was modified concurrently")
	ErrDuplicate       = errors.New("duplicate record")
)

// ===== CONNECTION =====

type ConnectionFilters struct {
	Status *models.ConnectionStatus `json:"status"`
}

type ConnectionRepository interface {
	Create(ctx context.Context, connection *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)

	// GetForUpdate loads the connection and locks it until the surrounding
	// transaction ends. Every mutation on a connection and its children goes
	// through this lock.
	GetForUpdate(ctx context.Context, id uint) (*models.Connection, error)

	// FindOpen returns the pending or active connection for the pair, or ErrNotFound
	FindOpen(ctx context.Context, mentorID, menteeID string) (*models.Connection, error)

	// ListByParticipant returns connections where userID is mentor or mentee, newest first
	ListByParticipant(ctx context.Context, userID string, filters ConnectionFilters) ([]*models.Connection, error)

	// Update persists the connection when its stored version still equals
	// connection.Version, then bumps Version. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, connection *models.Connection) error

	// Delete removes the connection together with its messages, sessions and work items
	Delete(ctx context.Context, id uint) error

	// MentorRatingSummary aggregates mentor_rating over the mentor's connections
	MentorRatingSummary(ctx context.Context, mentorID string) (*models.RatingSummary, error)
}

// ===== MESSAGE =====

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	GetByClientID(ctx context.Context, connectionID uint, senderID, clientMessageID string) (*models.Message, error)

	// Last returns the most recent message of the connection, or ErrNotFound
	Last(ctx context.Context, connectionID uint) (*models.Message, error)

	// ListByConnection returns messages ordered by (created_at, id) ascending
	ListByConnection(ctx context.Context, connectionID uint) ([]*models.Message, error)

	Update(ctx context.Context, message *models.Message) error

	// MarkAllRead marks every unread message not sent by readerID as read
	MarkAllRead(ctx context.Context, connectionID uint, readerID string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, connectionID uint, readerID string) (int64, error)
}

// ===== SESSION =====

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error

	// ListByConnection returns sessions ordered by scheduled_at ascending
	ListByConnection(ctx context.Context, connectionID uint) ([]*models.Session, error)

	// ListScheduled returns scheduled sessions of the given connections ordered by scheduled_at ascending
	ListScheduled(ctx context.Context, connectionIDs []uint) ([]*models.Session, error)
}

// ===== WORK ITEM =====

type WorkItemRepository interface {
	Create(ctx context.Context, item *models.WorkItem) error
	GetByID(ctx context.Context, id uint) (*models.WorkItem, error)
	Update(ctx context.Context, item *models.WorkItem) error

	// ListByConnection returns work items ordered by created_at descending
	ListByConnection(ctx context.Context, connectionID uint) ([]*models.WorkItem, error)
}
