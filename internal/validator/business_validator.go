package validator

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateConnectionRequest validates a mentee's request against the addressed mentor
func (bv *BusinessValidator) ValidateConnectionRequest(req *ConnectionCreateRequest, menteeID string) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.MentorID) == menteeID {
		errors = append(errors, ValidationError{
			Field:   "mentor_id",
			Message: "cannot request a connection with yourself",
			Value:   req.MentorID,
			Rule:    "self_connection",
		})
	}

	return errors
}

// ValidateSessionSchedule validates the time window of a new session
func (bv *BusinessValidator) ValidateSessionSchedule(scheduledAt time.Time, durationMinutes int, now time.Time) ValidationErrors {
	var errors ValidationErrors

	if !scheduledAt.After(now) {
		errors = append(errors, ValidationError{
			Field:   "scheduled_at",
			Message: "must be in the future",
			Value:   scheduledAt,
			Rule:    "future_time",
		})
	}

	if durationMinutes < models.MinSessionDuration || durationMinutes > models.MaxSessionDuration {
		errors = append(errors, ValidationError{
			Field:   "duration_minutes",
			Message: "must be between 15 and 180 minutes",
			Value:   durationMinutes,
			Rule:    "session_duration",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// IELTS band: 0..9 in half steps
	bv.validate.RegisterValidation("band_score", func(fl validator.FieldLevel) bool {
		score := fl.Field().Float()
		if score < 0 || score > 9 {
			return false
		}
		return math.Mod(score*2, 1) == 0
	})

	bv.validate.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		rating := fl.Field().Int()
		return rating >= 1 && rating <= 5
	})

	bv.validate.RegisterValidation("session_duration", func(fl validator.FieldLevel) bool {
		duration := fl.Field().Int()
		return duration >= models.MinSessionDuration && duration <= models.MaxSessionDuration
	})

	bv.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	bv.validate.RegisterValidation("message_type", func(fl validator.FieldLevel) bool {
		validTypes := []models.MessageType{
			models.MessageText, models.MessageFile, models.MessageImage,
			models.MessageAudio, models.MessageVideo, models.MessageSystem,
		}
		return slices.Contains(validTypes, models.MessageType(fl.Field().String()))
	})

	bv.validate.RegisterValidation("session_type", func(fl validator.FieldLevel) bool {
		validTypes := []models.SessionType{
			models.SessionOneOnOne, models.SessionMockTest, models.SessionReview,
			models.SessionSpeakingPractice, models.SessionWritingReview,
		}
		return slices.Contains(validTypes, models.SessionType(fl.Field().String()))
	})

	bv.validate.RegisterValidation("work_type", func(fl validator.FieldLevel) bool {
		validTypes := []models.WorkType{models.WorkEssay, models.WorkRecording, models.WorkExercise, models.WorkOther}
		return slices.Contains(validTypes, models.WorkType(fl.Field().String()))
	})
}
