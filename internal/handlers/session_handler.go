package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// CreateSession schedules a session on an active connection
// @Summary Schedule session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path uint true "Connection ID"
// @Param request body services.CreateSessionRequest true "Session"
// @Success 201 {object} models.Session
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /connections/{id}/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}
	var req services.CreateSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Scheduling session", "connection_id", connectionID, "scheduled_at", req.ScheduledAt)

	session, err := h.sessionService.Create(c.Request.Context(), actor, connectionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions
// @Summary List a connection's sessions
// @Tags sessions
// @Param id path uint true "Connection ID"
// @Success 200 {array} models.Session
// @Router /connections/{id}/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}

	sessions, err := h.sessionService.List(c.Request.Context(), actor, connectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ListUpcomingSessions
// @Summary Scheduled sessions across the caller's active connections
// @Tags sessions
// @Success 200 {array} models.Session
// @Router /sessions/upcoming [get]
func (h *SessionHandler) ListUpcomingSessions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListUpcoming(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// CompleteSession
// @Summary Complete session with notes and rating
// @Tags sessions
// @Accept json
// @Param id path uint true "Session ID"
// @Param request body services.CompleteSessionRequest true "Outcome"
// @Success 200 {object} models.Session
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	var req services.CompleteSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.Complete(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CancelSession; the body is optional
// @Summary Cancel session
// @Tags sessions
// @Accept json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.Session
// @Router /sessions/{id}/cancel [post]
func (h *SessionHandler) CancelSession(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	var req services.CancelSessionRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.Cancel(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
