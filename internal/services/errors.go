package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

// ErrorKind classifies every failure a service operation can report
type ErrorKind string

const (
	KindPermissionDenied ErrorKind = "permission_denied"
	KindInvalidState     ErrorKind = "invalid_state"
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindInternal         ErrorKind = "internal"
)

// Kind sentinels. Every specific error below wraps exactly one of them.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Not found
var (
	ErrConnectionNotFound = newKindError(ErrNotFound, "connection not found")
	ErrMessageNotFound    = newKindError(ErrNotFound, "message not found")
	ErrSessionNotFound    = newKindError(ErrNotFound, "session not found")
	ErrWorkItemNotFound   = newKindError(ErrNotFound, "work item not found")
	ErrMentorNotFound     = newKindError(ErrNotFound, "mentor not found")
)

// Invalid argument
var (
	ErrNotACoach          = newKindError(ErrInvalidArgument, "target user is not a mentor or tutor")
	ErrEmptyMessage       = newKindError(ErrInvalidArgument, "message content is required")
	ErrAttachmentRequired = newKindError(ErrInvalidArgument, "message type requires a file attachment")
	ErrSystemMessage      = newKindError(ErrInvalidArgument, "system messages cannot be sent by users")
	ErrInvalidUpload      = newKindError(ErrInvalidArgument, "invalid upload")
)

// Invalid state
var (
	ErrConnectionNotPending   = newKindError(ErrInvalidState, "connection is not pending")
	ErrConnectionNotActive    = newKindError(ErrInvalidState, "connection is not active")
	ErrConnectionNotRateable  = newKindError(ErrInvalidState, "connection can only be rated while active or completed")
	ErrRatingAlreadySubmitted = newKindError(ErrInvalidState, "rating already submitted")
	ErrSessionNotScheduled    = newKindError(ErrInvalidState, "session is not scheduled")
	ErrWorkNotDraft           = newKindError(ErrInvalidState, "work item is not a draft")
	ErrWorkNotReviewable      = newKindError(ErrInvalidState, "work item is not open for review")
	ErrWorkNotReviewed        = newKindError(ErrInvalidState, "work item has not been reviewed")
)

// Conflict
var (
	ErrDuplicateConnection = newKindError(ErrConflict, "an open connection already exists for this mentor and mentee")
	ErrConcurrentUpdate    = newKindError(ErrConflict, "connection was modified concurrently, retry the operation")
)

// PermissionError reports which actor was refused which action
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// ValidationErrors is re-exported so handlers only import services
type ValidationErrors = validator.ValidationErrors

// invalidArgument tags a validation failure with the invalid_argument kind
func invalidArgument(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}

// KindOf reports the kind of err; unknown errors are internal
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		var validationErrors ValidationErrors
		if errors.As(err, &validationErrors) {
			return KindInvalidArgument
		}
		return KindInternal
	}
}
