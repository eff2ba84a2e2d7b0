package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

const (
	summarySheet  = "Summary"
	sessionsSheet = "Sessions"
	workSheet     = "Work"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	guard  participantGuard
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *exportService) ConnectionReport(ctx context.Context, actor models.Actor, connectionID uint) ([]byte, error) {
	connection, err := s.guard.connection(ctx, s.repo, actor, connectionID, "export", false)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	items, err := s.repo.WorkItem().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeRows(f, summarySheet, summaryRows(connection, len(sessions), len(items))); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sessionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeRows(f, sessionsSheet, sessionRows(sessions)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(workSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeRows(f, workSheet, workRows(items)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Connection report exported",
		"connection_id", connectionID,
		"user_id", actor.ID,
		"sessions", len(sessions),
		"work_items", len(items))
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func summaryRows(c *models.Connection, sessions, items int) [][]interface{} {
	return [][]interface{}{
		{"Connection", c.ID},
		{"Mentor", c.MentorID},
		{"Mentee", c.MenteeID},
		{"Status", string(c.Status)},
		{"Target band", c.TargetBandScore},
		{"Goals", strings.Join(c.Goals, "; ")},
		{"Focus areas", strings.Join(c.FocusAreas, "; ")},
		{"Created", formatTime(&c.CreatedAt)},
		{"Accepted", formatTime(c.AcceptedAt)},
		{"Completed", formatTime(c.CompletedAt)},
		{"Mentor rating", intOrBlank(c.MentorRating)},
		{"Mentee rating", intOrBlank(c.MenteeRating)},
		{"Sessions", sessions},
		{"Work items", items},
	}
}

func sessionRows(sessions []*models.Session) [][]interface{} {
	rows := [][]interface{}{{"ID", "Title", "Type", "Scheduled at", "Ends at", "Duration (min)", "Status", "Rating", "Notes", "Homework"}}
	for _, s := range sessions {
		endsAt := s.EndsAt()
		rows = append(rows, []interface{}{
			s.ID,
			s.Title,
			string(s.SessionType),
			formatTime(&s.ScheduledAt),
			formatTime(&endsAt),
			s.DurationMinutes,
			string(s.Status),
			intOrBlank(s.Rating),
			stringOrBlank(s.Notes),
			stringOrBlank(s.Homework),
		})
	}
	return rows
}

func workRows(items []*models.WorkItem) [][]interface{} {
	rows := [][]interface{}{{"ID", "Title", "Type", "Author", "Status", "Submitted", "Review rating", "Review comments"}}
	for _, w := range items {
		var rating, comments interface{} = "", ""
		if w.Feedback != nil {
			rating, comments = w.Feedback.Rating, w.Feedback.Comments
		}
		rows = append(rows, []interface{}{
			w.ID,
			w.Title,
			string(w.WorkType),
			w.AuthorID,
			string(w.Status),
			formatTime(&w.CreatedAt),
			rating,
			comments,
		})
	}
	return rows
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func intOrBlank(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func stringOrBlank(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
