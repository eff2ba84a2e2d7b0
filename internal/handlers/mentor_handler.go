package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/services"
	"github.com/SAP-F-2025/mentorship-service/internal/utils"
)

type MentorHandler struct {
	BaseHandler
	mentorService services.MentorService
	ratingService services.RatingService
}

func NewMentorHandler(mentorService services.MentorService, ratingService services.RatingService, logger utils.Logger) *MentorHandler {
	return &MentorHandler{
		BaseHandler:   NewBaseHandler(logger),
		mentorService: mentorService,
		ratingService: ratingService,
	}
}

// ListMentors searches mentors and tutors
// @Summary List mentors
// @Description Paginated directory of mentors and tutors with rating summaries
// @Tags mentors
// @Produce json
// @Param q query string false "Search query (name or email)"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} models.PaginatedResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /mentors [get]
func (h *MentorHandler) ListMentors(c *gin.Context) {
	params := models.ListMentorsParams{
		Query: c.Query("q"),
		Page:  h.parseIntQuery(c, "page", 1),
		Size:  h.parseIntQuery(c, "size", 20),
	}

	h.LogRequest(c, "Listing mentors", "query", params.Query, "page", params.Page)

	page, err := h.mentorService.Search(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetMentor
// @Summary Get mentor profile
// @Tags mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} models.MentorProfile
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /mentors/{id} [get]
func (h *MentorHandler) GetMentor(c *gin.Context) {
	mentorID := strings.TrimSpace(c.Param("id"))

	profile, err := h.mentorService.GetProfile(c.Request.Context(), mentorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMentorRating
// @Summary Mentor rating summary
// @Tags mentors
// @Param id path string true "Mentor ID"
// @Success 200 {object} models.RatingSummary
// @Router /mentors/{id}/rating [get]
func (h *MentorHandler) GetMentorRating(c *gin.Context) {
	summary, err := h.ratingService.MentorSummary(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetMe returns the authenticated user
// @Summary Current user
// @Tags users
// @Success 200 {object} models.User
// @Router /me [get]
func (h *MentorHandler) GetMe(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		h.writeError(c, http.StatusUnauthorized, "unauthenticated", "User not authenticated", nil)
		return
	}
	c.JSON(http.StatusOK, user)
}
