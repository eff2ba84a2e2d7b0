package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
)

type ErrorResponse = models.ErrorResponse
type SuccessResponse = models.SuccessResponse

// BaseHandler carries the pieces every resource handler shares
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.Request.URL.Path)
	utils.GetLogger(c, h.logger).Error(msg, args...)
}

// actor reads the identity the auth middleware stored; it writes 401 when absent
func (h *BaseHandler) actor(c *gin.Context) (models.Actor, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.writeError(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated", nil)
		return models.Actor{}, false
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		h.writeError(c, http.StatusUnauthorized, "unauthenticated", "User role not resolved", nil)
		return models.Actor{}, false
	}
	return models.NewActor(userID, role), true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		details := "must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		h.writeError(c, http.StatusBadRequest, string(services.KindInvalidArgument), "Invalid "+param, details)
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(param))
	if err != nil {
		return defaultValue
	}
	return value
}

// bindJSON decodes the body or writes a 400
func (h *BaseHandler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.writeError(c, http.StatusBadRequest, string(services.KindInvalidArgument), "Invalid request payload", err.Error())
		return false
	}
	return true
}

var kindStatus = map[services.ErrorKind]int{
	services.KindPermissionDenied: http.StatusForbidden,
	services.KindInvalidState:     http.StatusConflict,
	services.KindInvalidArgument:  http.StatusBadRequest,
	services.KindNotFound:         http.StatusNotFound,
	services.KindConflict:         http.StatusConflict,
}

// handleServiceError maps a service failure onto its kind's status code
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		h.LogError(c, err, "Unexpected service error")
		h.writeError(c, http.StatusInternalServerError, string(services.KindInternal), "Internal server error", nil)
		return
	}

	var details interface{}
	var validationErrors services.ValidationErrors
	var permissionError *services.PermissionError
	switch {
	case errors.As(err, &validationErrors):
		details = validationErrors
	case errors.As(err, &permissionError):
		details = map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		}
	}

	h.writeError(c, status, string(kind), err.Error(), details)
}

func (h *BaseHandler) writeError(c *gin.Context, status int, kind, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Kind:      kind,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}
