package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

func TestMentorService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page, err := env.mentors.Search(ctx, models.ListMentorsParams{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	profiles := page.Content.([]*models.MentorProfile)
	if len(profiles) != 2 || page.TotalElements != 2 {
		t.Fatalf("Search() = %d profiles of %d, want 2", len(profiles), page.TotalElements)
	}
	if profiles[0].ID != tutor.ID || profiles[1].ID != mentor.ID {
		t.Errorf("Search() order = [%s %s], want by name", profiles[0].ID, profiles[1].ID)
	}
	if page.Page != 1 || page.Size != defaultMentorPageSize {
		t.Errorf("defaults = page %d size %d", page.Page, page.Size)
	}

	filtered, err := env.mentors.Search(ctx, models.ListMentorsParams{Query: "thao", Page: 1, Size: 1})
	if err != nil {
		t.Fatalf("Search(query) error = %v", err)
	}
	if got := filtered.Content.([]*models.MentorProfile); len(got) != 1 || got[0].ID != mentor.ID {
		t.Errorf("Search(query) = %+v", got)
	}

	_, err = env.mentors.Search(ctx, models.ListMentorsParams{Page: 1, Size: 500})
	assertKind(t, err, KindInvalidArgument)
}

func TestMentorService_SearchServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.mentors.Search(ctx, models.ListMentorsParams{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	env.users.Add(models.User{ID: "mentor-2", FullName: "Anh", Role: models.RoleMentor})

	cached, _ := env.mentors.Search(ctx, models.ListMentorsParams{})
	if cached.TotalElements != 2 {
		t.Errorf("cached TotalElements = %d, want 2", cached.TotalElements)
	}

	// a rating submission drops the mentor listings
	c := env.activeConnection(t, mentee, mentor)
	if _, err := env.ratings.Submit(ctx, mentee, c.ID, &RatingRequest{Rating: 5}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	fresh, _ := env.mentors.Search(ctx, models.ListMentorsParams{})
	if fresh.TotalElements != 3 {
		t.Errorf("fresh TotalElements = %d, want 3", fresh.TotalElements)
	}
}

func TestMentorService_GetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.activeConnection(t, mentee, tutor)
	if _, err := env.ratings.Submit(ctx, mentee, c.ID, &RatingRequest{Rating: 3}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	profile, err := env.mentors.GetProfile(ctx, tutor.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.Rating.Count != 1 || profile.Rating.Average != 3 {
		t.Errorf("Rating = %+v", profile.Rating)
	}

	_, err = env.mentors.GetProfile(ctx, mentee.ID)
	assertKind(t, err, KindNotFound)
	_, err = env.mentors.GetProfile(ctx, "ghost")
	assertKind(t, err, KindNotFound)
}
