package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/mentorship-service/internal/cache"
)

func TestRatingService_OncePerSide(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pending := env.request(t, mentee, mentor)
	_, err := env.ratings.Submit(ctx, mentee, pending.ID, &RatingRequest{Rating: 5})
	assertKind(t, err, KindInvalidState)

	c := env.activeConnection(t, mentee2, mentor)

	_, err = env.ratings.Submit(ctx, mentee2, c.ID, &RatingRequest{Rating: 6})
	assertKind(t, err, KindInvalidArgument)
	_, err = env.ratings.Submit(ctx, outsider, c.ID, &RatingRequest{Rating: 5})
	assertKind(t, err, KindPermissionDenied)

	rated, err := env.ratings.Submit(ctx, mentee2, c.ID, &RatingRequest{Rating: 5, Feedback: strPtr("Very clear explanations")})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if rated.MentorRating == nil || *rated.MentorRating != 5 || rated.MenteeRating != nil {
		t.Errorf("Submit() ratings = mentor %v mentee %v", rated.MentorRating, rated.MenteeRating)
	}

	_, err = env.ratings.Submit(ctx, mentee2, c.ID, &RatingRequest{Rating: 1})
	assertKind(t, err, KindInvalidState)

	if _, err := env.connections.Complete(ctx, mentor, c.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	back, err := env.ratings.Submit(ctx, mentor, c.ID, &RatingRequest{Rating: 4})
	if err != nil {
		t.Fatalf("Submit() by mentor on completed error = %v", err)
	}
	if back.MenteeRating == nil || *back.MenteeRating != 4 || *back.MentorRating != 5 {
		t.Errorf("Submit() ratings = mentor %v mentee %v", back.MentorRating, back.MenteeRating)
	}
}

func TestRatingService_SummaryCacheInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	summary, err := env.ratings.MentorSummary(ctx, mentor.ID)
	if err != nil {
		t.Fatalf("MentorSummary() error = %v", err)
	}
	if summary.Count != 0 {
		t.Errorf("Count = %d, want 0", summary.Count)
	}
	if !env.redis.Exists(cache.StatsCacheConfig.Prefix + cache.RatingSummaryKey(mentor.ID)) {
		t.Error("summary was not cached")
	}

	a := env.activeConnection(t, mentee, mentor)
	b := env.activeConnection(t, mentee2, mentor)
	if _, err := env.ratings.Submit(ctx, mentee, a.ID, &RatingRequest{Rating: 5}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := env.ratings.Submit(ctx, mentee2, b.ID, &RatingRequest{Rating: 4}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	summary, err = env.ratings.MentorSummary(ctx, mentor.ID)
	if err != nil {
		t.Fatalf("MentorSummary() error = %v", err)
	}
	if summary.Count != 2 || summary.Average != 4.5 {
		t.Errorf("MentorSummary() = %+v, want count 2 average 4.5", summary)
	}

	if err := env.connections.Delete(ctx, mentee2, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	summary, _ = env.ratings.MentorSummary(ctx, mentor.ID)
	if summary.Count != 1 || summary.Average != 5 {
		t.Errorf("MentorSummary() after delete = %+v, want count 1 average 5", summary)
	}
}
