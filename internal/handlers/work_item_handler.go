package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
)

type WorkItemHandler struct {
	BaseHandler
	workItemService services.WorkItemService
}

func NewWorkItemHandler(workItemService services.WorkItemService, logger utils.Logger) *WorkItemHandler {
	return &WorkItemHandler{
		BaseHandler:     NewBaseHandler(logger),
		workItemService: workItemService,
	}
}

// ShareWork
// @Summary Share a work item for review
// @Tags work
// @Accept json
// @Produce json
// @Param id path uint true "Connection ID"
// @Param request body services.ShareWorkRequest true "Work item"
// @Success 201 {object} models.WorkItem
// @Router /connections/{id}/work [post]
func (h *WorkItemHandler) ShareWork(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}
	var req services.ShareWorkRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Sharing work", "connection_id", connectionID, "work_type", req.WorkType)

	item, err := h.workItemService.Share(c.Request.Context(), actor, connectionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListWork
// @Summary List work items, newest first
// @Tags work
// @Param id path uint true "Connection ID"
// @Success 200 {array} models.WorkItem
// @Router /connections/{id}/work [get]
func (h *WorkItemHandler) ListWork(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}

	items, err := h.workItemService.List(c.Request.Context(), actor, connectionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// UploadAttachment stores the multipart "file" field
// @Summary Upload an attachment
// @Tags work
// @Accept multipart/form-data
// @Param id path uint true "Connection ID"
// @Param file formData file true "Attachment"
// @Success 201 {object} storage.Upload
// @Router /connections/{id}/uploads [post]
func (h *WorkItemHandler) UploadAttachment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	connectionID := h.parseIDParam(c, "id")
	if connectionID == 0 {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, http.StatusBadRequest, string(services.KindInvalidArgument), "File is required", err.Error())
		return
	}
	file, err := header.Open()
	if err != nil {
		h.LogError(c, err, "Failed to open upload")
		h.writeError(c, http.StatusBadRequest, string(services.KindInvalidArgument), "Unreadable file", nil)
		return
	}
	defer file.Close()

	upload, err := h.workItemService.UploadAttachment(c.Request.Context(), actor, connectionID, header.Filename, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}

// SubmitWork
// @Summary Submit a draft for review
// @Tags work
// @Param id path uint true "Work item ID"
// @Success 200 {object} models.WorkItem
// @Router /work/{id}/submit [post]
func (h *WorkItemHandler) SubmitWork(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	item, err := h.workItemService.Submit(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// AttachFeedback
// @Summary Review a work item
// @Tags work
// @Accept json
// @Param id path uint true "Work item ID"
// @Param request body services.FeedbackRequest true "Feedback"
// @Success 200 {object} models.WorkItem
// @Router /work/{id}/feedback [post]
func (h *WorkItemHandler) AttachFeedback(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	var req services.FeedbackRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.workItemService.AttachFeedback(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ApproveWork
// @Summary Accept the review of own work
// @Tags work
// @Param id path uint true "Work item ID"
// @Success 200 {object} models.WorkItem
// @Router /work/{id}/approve [post]
func (h *WorkItemHandler) ApproveWork(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	item, err := h.workItemService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
