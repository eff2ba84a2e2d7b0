package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
)

type MessageHandler struct {
	BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService, logger utils.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    NewBaseHandler(logger),
		messageService: messageService,
	}
}

// SendMessage appends a message to an active connection
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Param id path uint true "Connection ID"
// @Param request body services.SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Router /connections/{id}/messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}
	var req services.SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), actor, connectionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages returns the conversation oldest first
// @Summary List messages
// @Tags messages
// @Produce json
// @Param id path uint true "Connection ID"
// @Success 200 {array} models.Message
// @Router /connections/{id}/messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}

	messages, err := h.messageService.List(c.Request.Context(), actor, connectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkConversationRead
// @Summary Mark every received message read
// @Tags messages
// @Param id path uint true "Connection ID"
// @Router /connections/{id}/messages/read [post]
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}

	count, err := h.messageService.MarkConversationRead(c.Request.Context(), actor, connectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Conversation marked as read",
		Data:    gin.H{"marked": count},
	})
}

// UnreadCount
// @Summary Count unread messages
// @Tags messages
// @Param id path uint true "Connection ID"
// @Success 200 {object} models.UnreadCount
// @Router /connections/{id}/messages/unread [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}

	unread, err := h.messageService.UnreadCount(c.Request.Context(), actor, connectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, unread)
}

// MarkMessageRead
// @Summary Mark a message read
// @Tags messages
// @Param id path uint true "Message ID"
// @Success 200 {object} models.Message
// @Router /messages/{id}/read [post]
func (h *MessageHandler) MarkMessageRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	message, err := h.messageService.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

// EditMessage
// @Summary Edit own message
// @Tags messages
// @Accept json
// @Param id path uint true "Message ID"
// @Param request body services.EditMessageRequest true "New content"
// @Success 200 {object} models.Message
// @Router /messages/{id} [put]
func (h *MessageHandler) EditMessage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	var req services.EditMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	message, err := h.messageService.Edit(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}
