package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

func TestScenario_RequestAcceptMessageDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.request(t, mentee, mentor)
	if c.Status != models.ConnectionPending {
		t.Fatalf("Status = %s, want pending", c.Status)
	}
	accepted, err := env.connections.Respond(ctx, mentor, c.ID, models.DecisionAccept)
	if err != nil || accepted.Status != models.ConnectionActive {
		t.Fatalf("Respond() = %v, %v", accepted, err)
	}

	env.sendText(t, mentee, c.ID, "hello")
	messages, err := env.messages.List(ctx, mentor, c.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(messages) != 1 || messages[0].Content != "hello" {
		t.Fatalf("List() = %+v, want one hello", messages)
	}

	if err := env.connections.Delete(ctx, mentor, c.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err = env.messages.List(ctx, mentee, c.ID)
	assertKind(t, err, KindNotFound)
}

func TestScenario_RejectedRequestDisappears(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.request(t, mentee2, mentor)
	if _, err := env.connections.Respond(ctx, mentor, c.ID, models.DecisionReject); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	list, err := env.connections.List(ctx, mentee2, models.ListConnectionsParams{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, got := range list {
		if got.ID == c.ID {
			t.Fatalf("rejected connection %d still listed", c.ID)
		}
	}
}

func TestScenario_SelfReviewRefused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	item, err := env.work.Share(ctx, mentee, c.ID, essay(false))
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	_, err = env.work.AttachFeedback(ctx, mentee, item.ID, &FeedbackRequest{Rating: 5})
	assertKind(t, err, KindPermissionDenied)

	reviewed, err := env.work.AttachFeedback(ctx, mentor, item.ID, &FeedbackRequest{Rating: 4})
	if err != nil {
		t.Fatalf("AttachFeedback() error = %v", err)
	}
	if reviewed.Status != models.WorkReviewed {
		t.Errorf("Status = %s, want reviewed", reviewed.Status)
	}
}

func TestScenario_SessionFrozenAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	s, err := env.sessions.Create(ctx, mentor, c.ID, sessionRequest(fixedNow.Add(24*time.Hour), 60))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.Status != models.SessionScheduled {
		t.Fatalf("Status = %s, want scheduled", s.Status)
	}

	done, err := env.sessions.Complete(ctx, mentor, s.ID, &CompleteSessionRequest{Rating: 5})
	if err != nil || done.Status != models.SessionCompleted {
		t.Fatalf("Complete() = %v, %v", done, err)
	}

	_, err = env.sessions.Complete(ctx, mentee, s.ID, &CompleteSessionRequest{Rating: 2})
	assertKind(t, err, KindInvalidState)
	_, err = env.sessions.Cancel(ctx, mentee, s.ID, &CancelSessionRequest{})
	assertKind(t, err, KindInvalidState)
}

func TestConcurrentAccept_SingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.request(t, mentee, mentor)

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := env.connections.Respond(ctx, mentor, c.ID, models.DecisionAccept)
			errs <- err
		}()
	}

	succeeded := 0
	for range 8 {
		if err := <-errs; err == nil {
			succeeded++
		} else if KindOf(err) != KindInvalidState {
			t.Errorf("unexpected error kind %s: %v", KindOf(err), err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d accepts succeeded, want exactly 1", succeeded)
	}
}
