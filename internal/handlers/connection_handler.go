package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ConnectionHandler struct {
	BaseHandler
	connectionService services.ConnectionService
	ratingService     services.RatingService
	exportService     services.ExportService
}

func NewConnectionHandler(
	connectionService services.ConnectionService,
	ratingService services.RatingService,
	exportService services.ExportService,
	logger utils.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		BaseHandler:       NewBaseHandler(logger),
		connectionService: connectionService,
		ratingService:     ratingService,
		exportService:     exportService,
	}
}

// RequestConnection opens a pending connection from the calling mentee
// @Summary Request mentorship
// @Tags connections
// @Accept json
// @Produce json
// @Param request body services.RequestConnectionRequest true "Connection request"
// @Success 201 {object} models.Connection
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /connections [post]
func (h *ConnectionHandler) RequestConnection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.RequestConnectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Requesting connection", "mentor_id", req.MentorID)

	connection, err := h.connectionService.Request(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, connection)
}

// ListConnections lists the caller's connections, newest first
// @Summary List connections
// @Tags connections
// @Produce json
// @Param status query string false "pending, active, cancelled or completed"
// @Success 200 {array} models.Connection
// @Router /connections [get]
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	params := models.ListConnectionsParams{Status: models.ConnectionStatus(c.Query("status"))}
	connections, err := h.connectionService.List(c.Request.Context(), actor, params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, connections)
}

// GetConnection
// @Summary Get connection
// @Tags connections
// @Produce json
// @Param id path uint true "Connection ID"
// @Success 200 {object} models.Connection
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /connections/{id} [get]
func (h *ConnectionHandler) GetConnection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	connection, err := h.connectionService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, connection)
}

// RespondToConnection accepts or rejects a pending request
// @Summary Respond to a request
// @Tags connections
// @Accept json
// @Produce json
// @Param id path uint true "Connection ID"
// @Param request body services.RespondConnectionRequest true "Decision"
// @Success 200 {object} models.Connection
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /connections/{id}/respond [post]
func (h *ConnectionHandler) RespondToConnection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	var req services.RespondConnectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Responding to connection", "connection_id", id, "decision", req.Decision)

	connection, err := h.connectionService.Respond(c.Request.Context(), actor, id, req.Decision)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, connection)
}

// CompleteConnection ends an active mentorship
// @Summary Complete connection
// @Tags connections
// @Produce json
// @Param id path uint true "Connection ID"
// @Success 200 {object} models.Connection
// @Router /connections/{id}/complete [post]
func (h *ConnectionHandler) CompleteConnection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	connection, err := h.connectionService.Complete(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, connection)
}

// DeleteConnection removes the connection with its messages, sessions and work
// @Summary Delete connection
// @Tags connections
// @Param id path uint true "Connection ID"
// @Success 200 {object} SuccessResponse
// @Router /connections/{id} [delete]
func (h *ConnectionHandler) DeleteConnection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting connection", "connection_id", id)

	if err := h.connectionService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Connection deleted successfully"})
}

// RateConnection records the caller's rating of the counterpart
// @Summary Rate counterpart
// @Tags connections
// @Accept json
// @Produce json
// @Param id path uint true "Connection ID"
// @Param request body services.RatingRequest true "Rating"
// @Success 200 {object} models.Connection
// @Router /connections/{id}/rating [post]
func (h *ConnectionHandler) RateConnection(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	var req services.RatingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	connection, err := h.ratingService.Submit(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, connection)
}

// ExportConnectionReport streams the connection's xlsx report
// @Summary Export connection report
// @Tags connections
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Connection ID"
// @Router /connections/{id}/report [get]
func (h *ConnectionHandler) ExportConnectionReport(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	data, err := h.exportService.ConnectionReport(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="connection-%d.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}
