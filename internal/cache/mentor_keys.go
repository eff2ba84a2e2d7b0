package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const mentorPagePrefix = "mentors:"

// RatingSummaryKey is the stats key of a mentor's rating aggregate
func RatingSummaryKey(mentorID string) string {
	return fmt.Sprintf("rating:mentor:%s", mentorID)
}

// MentorPageKey is the fast key of one directory search page
func MentorPageKey(query string, page, size int) string {
	return fmt.Sprintf("%sq=%s:%d:%d", mentorPagePrefix, strings.ToLower(query), page, size)
}

// InvalidateMentor drops the cached aggregate and directory pages a rating change affects.
// Failures are logged; a stale entry expires with its TTL.
func (cm *CacheManager) InvalidateMentor(ctx context.Context, mentorID string) {
	if err := cm.Stats.Delete(ctx, RatingSummaryKey(mentorID)); err != nil {
		slog.WarnContext(ctx, "Failed to drop rating summary", "error", err, "mentor_id", mentorID)
	}
	if err := cm.Fast.InvalidatePattern(ctx, mentorPagePrefix+"*"); err != nil {
		slog.WarnContext(ctx, "Failed to drop mentor pages", "error", err, "mentor_id", mentorID)
	}
}
