package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/storage"
)

func essay(draft bool) *ShareWorkRequest {
	return &ShareWorkRequest{
		Title:    "Task 2: remote work",
		WorkType: models.WorkEssay,
		Content:  "Some people believe...",
		Draft:    draft,
	}
}

func TestWorkItemService_ReviewFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	item, err := env.work.Share(ctx, mentee, c.ID, essay(false))
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if item.Status != models.WorkSubmitted {
		t.Errorf("Status = %s, want submitted", item.Status)
	}

	_, err = env.work.AttachFeedback(ctx, mentee, item.ID, &FeedbackRequest{Rating: 5})
	assertKind(t, err, KindPermissionDenied)
	_, err = env.work.AttachFeedback(ctx, outsider, item.ID, &FeedbackRequest{Rating: 5})
	assertKind(t, err, KindPermissionDenied)
	_, err = env.work.AttachFeedback(ctx, mentor, item.ID, &FeedbackRequest{Rating: 0})
	assertKind(t, err, KindInvalidArgument)

	_, err = env.work.Approve(ctx, mentee, item.ID)
	assertKind(t, err, KindInvalidState)

	reviewed, err := env.work.AttachFeedback(ctx, mentor, item.ID, &FeedbackRequest{
		Rating:      3,
		Comments:    "Develop the second body paragraph",
		Suggestions: []string{"Use more linking words"},
	})
	if err != nil {
		t.Fatalf("AttachFeedback() error = %v", err)
	}
	if reviewed.Status != models.WorkReviewed || reviewed.Feedback == nil || reviewed.Feedback.ReviewerID != mentor.ID {
		t.Fatalf("AttachFeedback() = %+v", reviewed)
	}

	// a second review replaces the first
	rereviewed, err := env.work.AttachFeedback(ctx, mentor, item.ID, &FeedbackRequest{Rating: 4})
	if err != nil {
		t.Fatalf("AttachFeedback() second error = %v", err)
	}
	if rereviewed.Feedback.Rating != 4 {
		t.Errorf("Feedback.Rating = %d, want 4", rereviewed.Feedback.Rating)
	}

	_, err = env.work.Approve(ctx, mentor, item.ID)
	assertKind(t, err, KindPermissionDenied)

	approved, err := env.work.Approve(ctx, mentee, item.ID)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if approved.Status != models.WorkApproved {
		t.Errorf("Status = %s, want approved", approved.Status)
	}

	_, err = env.work.AttachFeedback(ctx, mentor, item.ID, &FeedbackRequest{Rating: 5})
	assertKind(t, err, KindInvalidState)

	if got := env.publisher.EventsOfType(events.WorkApproved); len(got) != 1 || got[0].UserID != mentor.ID {
		t.Errorf("expected work.approved for the reviewer, got %+v", got)
	}
}

func TestWorkItemService_Draft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	draft, err := env.work.Share(ctx, mentee, c.ID, essay(true))
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if draft.Status != models.WorkDraft {
		t.Errorf("Status = %s, want draft", draft.Status)
	}
	if n := len(env.publisher.EventsOfType(events.WorkShared)); n != 0 {
		t.Errorf("draft published %d work.shared events", n)
	}

	_, err = env.work.AttachFeedback(ctx, mentor, draft.ID, &FeedbackRequest{Rating: 4})
	assertKind(t, err, KindInvalidState)
	_, err = env.work.Submit(ctx, mentor, draft.ID)
	assertKind(t, err, KindPermissionDenied)

	submitted, err := env.work.Submit(ctx, mentee, draft.ID)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if submitted.Status != models.WorkSubmitted {
		t.Errorf("Status = %s, want submitted", submitted.Status)
	}
	_, err = env.work.Submit(ctx, mentee, draft.ID)
	assertKind(t, err, KindInvalidState)
}

func TestWorkItemService_ShareValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pending := env.request(t, mentee, mentor)

	_, err := env.work.Share(ctx, mentee, pending.ID, essay(false))
	assertKind(t, err, KindInvalidState)

	active := env.activeConnection(t, mentee, tutor)
	_, err = env.work.Share(ctx, mentee, active.ID, &ShareWorkRequest{Title: " ", WorkType: models.WorkEssay})
	assertKind(t, err, KindInvalidArgument)
	_, err = env.work.Share(ctx, mentee, active.ID, &ShareWorkRequest{Title: "x", WorkType: "poem"})
	assertKind(t, err, KindInvalidArgument)
}

func TestWorkItemService_UploadAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	upload, err := env.work.UploadAttachment(ctx, mentee, c.ID, "part2.mp3", strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("UploadAttachment() error = %v", err)
	}
	if upload.Size != int64(len("audio-bytes")) || upload.Name != "part2.mp3" {
		t.Errorf("UploadAttachment() = %+v", upload)
	}
	if !strings.HasPrefix(upload.URL, "http://files.test/connection-") {
		t.Errorf("URL = %s", upload.URL)
	}

	local := env.work.files.(*storage.LocalFileStore)
	matches, _ := filepath.Glob(filepath.Join(local.Dir(), "connection-*", "*"))
	if len(matches) != 1 {
		t.Fatalf("stored files = %v, want one", matches)
	}
	if data, _ := os.ReadFile(matches[0]); string(data) != "audio-bytes" {
		t.Errorf("stored content = %q", data)
	}

	_, err = env.work.UploadAttachment(ctx, mentee, c.ID, "empty.mp3", strings.NewReader(""))
	assertKind(t, err, KindInvalidArgument)
	_, err = env.work.UploadAttachment(ctx, outsider, c.ID, "x.mp3", strings.NewReader("x"))
	assertKind(t, err, KindPermissionDenied)
}

func TestWorkItemService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	first, _ := env.work.Share(ctx, mentee, c.ID, essay(false))
	second, _ := env.work.Share(ctx, mentor, c.ID, &ShareWorkRequest{Title: "Vocabulary drill", WorkType: models.WorkExercise})

	items, err := env.work.List(ctx, mentee, c.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("List() order wrong: got %d items", len(items))
	}

	_, err = env.work.List(ctx, outsider, c.ID)
	assertKind(t, err, KindPermissionDenied)
}
