package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/storage"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use business validator types
type RequestConnectionRequest = validator.ConnectionCreateRequest
type RespondConnectionRequest = validator.ConnectionResponseRequest
type SendMessageRequest = validator.SendMessageRequest
type EditMessageRequest = validator.EditMessageRequest
type CreateSessionRequest = validator.SessionCreateRequest
type CompleteSessionRequest = validator.SessionCompleteRequest
type CancelSessionRequest = validator.SessionCancelRequest
type ShareWorkRequest = validator.WorkItemCreateRequest
type FeedbackRequest = validator.FeedbackRequest
type RatingRequest = validator.RatingRequest

// RejectionPolicy decides what a rejected request turns into
type RejectionPolicy string

const (
	// RejectDelete removes the pending connection
	RejectDelete RejectionPolicy = "delete"
	// RejectCancel keeps it with status cancelled
	RejectCancel RejectionPolicy = "cancel"
)

// ===== SERVICE INTERFACES =====

type ConnectionService interface {
	Request(ctx context.Context, actor models.Actor, req *RequestConnectionRequest) (*models.Connection, error)
	Respond(ctx context.Context, actor models.Actor, connectionID uint, decision models.ConnectionDecision) (*models.Connection, error)
	Complete(ctx context.Context, actor models.Actor, connectionID uint) (*models.Connection, error)
	Delete(ctx context.Context, actor models.Actor, connectionID uint) error

	GetByID(ctx context.Context, actor models.Actor, connectionID uint) (*models.Connection, error)
	List(ctx context.Context, actor models.Actor, params models.ListConnectionsParams) ([]*models.Connection, error)
}

type MessageService interface {
	Send(ctx context.Context, actor models.Actor, connectionID uint, req *SendMessageRequest) (*models.Message, error)
	List(ctx context.Context, actor models.Actor, connectionID uint) ([]*models.Message, error)
	MarkRead(ctx context.Context, actor models.Actor, messageID uint) (*models.Message, error)
	MarkConversationRead(ctx context.Context, actor models.Actor, connectionID uint) (int64, error)
	Edit(ctx context.Context, actor models.Actor, messageID uint, req *EditMessageRequest) (*models.Message, error)
	UnreadCount(ctx context.Context, actor models.Actor, connectionID uint) (*models.UnreadCount, error)
}

type SessionService interface {
	Create(ctx context.Context, actor models.Actor, connectionID uint, req *CreateSessionRequest) (*models.Session, error)
	Complete(ctx context.Context, actor models.Actor, sessionID uint, req *CompleteSessionRequest) (*models.Session, error)
	Cancel(ctx context.Context, actor models.Actor, sessionID uint, req *CancelSessionRequest) (*models.Session, error)
	ListUpcoming(ctx context.Context, actor models.Actor) ([]*models.Session, error)
	List(ctx context.Context, actor models.Actor, connectionID uint) ([]*models.Session, error)
}

type WorkItemService interface {
	Share(ctx context.Context, actor models.Actor, connectionID uint, req *ShareWorkRequest) (*models.WorkItem, error)
	Submit(ctx context.Context, actor models.Actor, workItemID uint) (*models.WorkItem, error)
	AttachFeedback(ctx context.Context, actor models.Actor, workItemID uint, req *FeedbackRequest) (*models.WorkItem, error)
	Approve(ctx context.Context, actor models.Actor, workItemID uint) (*models.WorkItem, error)
	List(ctx context.Context, actor models.Actor, connectionID uint) ([]*models.WorkItem, error)
	UploadAttachment(ctx context.Context, actor models.Actor, connectionID uint, fileName string, content io.Reader) (*storage.Upload, error)
}

type RatingService interface {
	Submit(ctx context.Context, actor models.Actor, connectionID uint, req *RatingRequest) (*models.Connection, error)
	MentorSummary(ctx context.Context, mentorID string) (*models.RatingSummary, error)
}

type MentorService interface {
	Search(ctx context.Context, params models.ListMentorsParams) (*models.PaginatedResponse, error)
	GetProfile(ctx context.Context, mentorID string) (*models.MentorProfile, error)
}

type ExportService interface {
	// ConnectionReport renders the connection's sessions and work as an xlsx workbook
	ConnectionReport(ctx context.Context, actor models.Actor, connectionID uint) ([]byte, error)
}

// ServiceManager is the orchestrator every handler goes through
type ServiceManager interface {
	Connection() ConnectionService
	Message() MessageService
	Session() SessionService
	WorkItem() WorkItemService
	Rating() RatingService
	Mentor() MentorService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
