package models

import (
	"time"
)

// ===== LIST DTOs =====

type ListConnectionsParams struct {
	Status ConnectionStatus `json:"status" validate:"omitempty,oneof=pending active cancelled completed"`
}

type ListMentorsParams struct {
	Query string `json:"query"`
	Page  int    `json:"page" validate:"min=1"`
	Size  int    `json:"size" validate:"min=1,max=100"`
}

type PaginatedResponse struct {
	Content          interface{} `json:"content"`
	TotalElements    int64       `json:"total_elements"`
	TotalPages       int         `json:"total_pages"`
	Size             int         `json:"size"`
	Page             int         `json:"page"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
	NumberOfElements int         `json:"number_of_elements"`
	Empty            bool        `json:"empty"`
}

// NewPaginatedResponse builds the page envelope for a 1-indexed page
func NewPaginatedResponse(content interface{}, count int, total int64, page, size int) *PaginatedResponse {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return &PaginatedResponse{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             size,
		Page:             page,
		First:            page <= 1,
		Last:             page >= totalPages,
		NumberOfElements: count,
		Empty:            count == 0,
	}
}

// ===== RATING DTOs =====

type RatingSummary struct {
	MentorID string  `json:"mentor_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

type MentorProfile struct {
	*User
	Rating RatingSummary `json:"rating"`
}

// ===== MESSAGE DTOs =====

type UnreadCount struct {
	ConnectionID uint `json:"connection_id"`
	Unread       int  `json:"unread"`
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Kind      string      `json:"kind"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Path      string      `json:"path,omitempty"`
}

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
