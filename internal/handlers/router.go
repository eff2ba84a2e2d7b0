package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
)

type HandlerManager struct {
	connectionHandler *ConnectionHandler
	messageHandler    *MessageHandler
	sessionHandler    *SessionHandler
	workItemHandler   *WorkItemHandler
	mentorHandler     *MentorHandler
	authMiddleware    *CasdoorAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	authMiddleware *CasdoorAuthMiddleware,
) *HandlerManager {
	return &HandlerManager{
		connectionHandler: NewConnectionHandler(serviceManager.Connection(), serviceManager.Rating(), serviceManager.Export(), logger),
		messageHandler:    NewMessageHandler(serviceManager.Message(), logger),
		sessionHandler:    NewSessionHandler(serviceManager.Session(), logger),
		workItemHandler:   NewWorkItemHandler(serviceManager.WorkItem(), logger),
		mentorHandler:     NewMentorHandler(serviceManager.Mentor(), serviceManager.Rating(), logger),
		authMiddleware:    authMiddleware,
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		v1.GET("/me", hm.mentorHandler.GetMe)

		mentors := v1.Group("/mentors")
		{
			mentors.GET("", hm.mentorHandler.ListMentors)
			mentors.GET("/:id", hm.mentorHandler.GetMentor)
			mentors.GET("/:id/rating", hm.mentorHandler.GetMentorRating)
		}

		connections := v1.Group("/connections")
		{
			// Only mentees open requests
			connections.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.connectionHandler.RequestConnection)
			connections.GET("", hm.connectionHandler.ListConnections)
			connections.GET("/:id", hm.connectionHandler.GetConnection)
			connections.DELETE("/:id", hm.connectionHandler.DeleteConnection)
			connections.POST("/:id/respond", hm.connectionHandler.RespondToConnection)
			connections.POST("/:id/complete", hm.connectionHandler.CompleteConnection)
			connections.POST("/:id/rating", hm.connectionHandler.RateConnection)
			connections.GET("/:id/report", hm.connectionHandler.ExportConnectionReport)

			// Conversation
			connections.GET("/:id/messages", hm.messageHandler.ListMessages)
			connections.POST("/:id/messages", hm.messageHandler.SendMessage)
			connections.POST("/:id/messages/read", hm.messageHandler.MarkConversationRead)
			connections.GET("/:id/messages/unread", hm.messageHandler.UnreadCount)

			// Sessions and work
			connections.GET("/:id/sessions", hm.sessionHandler.ListSessions)
			connections.POST("/:id/sessions", hm.sessionHandler.CreateSession)
			connections.GET("/:id/work", hm.workItemHandler.ListWork)
			connections.POST("/:id/work", hm.workItemHandler.ShareWork)
			connections.POST("/:id/uploads", hm.workItemHandler.UploadAttachment)
		}

		messages := v1.Group("/messages")
		{
			messages.PUT("/:id", hm.messageHandler.EditMessage)
			messages.POST("/:id/read", hm.messageHandler.MarkMessageRead)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/upcoming", hm.sessionHandler.ListUpcomingSessions)
			sessions.POST("/:id/complete", hm.sessionHandler.CompleteSession)
			sessions.POST("/:id/cancel", hm.sessionHandler.CancelSession)
		}

		work := v1.Group("/work")
		{
			work.POST("/:id/submit", hm.workItemHandler.SubmitWork)
			work.POST("/:id/feedback", hm.workItemHandler.AttachFeedback)
			work.POST("/:id/approve", hm.workItemHandler.ApproveWork)
		}
	}

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"service":   "mentorship-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
