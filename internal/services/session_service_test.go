package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

func sessionRequest(at time.Time, minutes int) *CreateSessionRequest {
	return &CreateSessionRequest{
		Title:           "Speaking mock",
		SessionType:     models.SessionSpeakingPractice,
		ScheduledAt:     at,
		DurationMinutes: minutes,
	}
}

func TestSessionService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		at      time.Time
		minutes int
	}{
		{"in the past", fixedNow.Add(-time.Hour), 60},
		{"at now", fixedNow, 60},
		{"too short", fixedNow.Add(24 * time.Hour), 10},
		{"too long", fixedNow.Add(24 * time.Hour), 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			c := env.activeConnection(t, mentee, mentor)

			_, err := env.sessions.Create(context.Background(), mentor, c.ID, sessionRequest(tt.at, tt.minutes))
			assertKind(t, err, KindInvalidArgument)
		})
	}
}

func TestSessionService_CreateBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	for _, minutes := range []int{models.MinSessionDuration, models.MaxSessionDuration} {
		if _, err := env.sessions.Create(ctx, mentee, c.ID, sessionRequest(fixedNow.Add(time.Hour), minutes)); err != nil {
			t.Errorf("Create(%d minutes) error = %v", minutes, err)
		}
	}
}

func TestSessionService_CreateRequiresActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pending := env.request(t, mentee, mentor)

	_, err := env.sessions.Create(ctx, mentor, pending.ID, sessionRequest(fixedNow.Add(time.Hour), 60))
	assertKind(t, err, KindInvalidState)

	active := env.activeConnection(t, mentee2, mentor)
	_, err = env.sessions.Create(ctx, outsider, active.ID, sessionRequest(fixedNow.Add(time.Hour), 60))
	assertKind(t, err, KindPermissionDenied)
}

func TestSessionService_CompleteAndCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.activeConnection(t, mentee, mentor)

	s, err := env.sessions.Create(ctx, mentor, c.ID, sessionRequest(fixedNow.Add(2*time.Hour), 60))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.Status != models.SessionScheduled {
		t.Errorf("Status = %s, want scheduled", s.Status)
	}
	if got := env.publisher.EventsOfType(events.SessionScheduled); len(got) != 1 || got[0].UserID != mentee.ID {
		t.Errorf("expected session.scheduled for the mentee, got %+v", got)
	}

	_, err = env.sessions.Complete(ctx, mentor, s.ID, &CompleteSessionRequest{Rating: 6})
	assertKind(t, err, KindInvalidArgument)
	_, err = env.sessions.Complete(ctx, outsider, s.ID, &CompleteSessionRequest{Rating: 4})
	assertKind(t, err, KindPermissionDenied)

	done, err := env.sessions.Complete(ctx, mentor, s.ID, &CompleteSessionRequest{Rating: 4, Notes: "Good fluency", Homework: "Part 2 cue cards"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if done.Status != models.SessionCompleted || done.Rating == nil || *done.Rating != 4 {
		t.Errorf("Complete() = status %s rating %v", done.Status, done.Rating)
	}
	if done.Homework == nil || *done.Homework != "Part 2 cue cards" {
		t.Errorf("Homework = %v", done.Homework)
	}

	_, err = env.sessions.Cancel(ctx, mentee, s.ID, &CancelSessionRequest{})
	assertKind(t, err, KindInvalidState)

	other, err := env.sessions.Create(ctx, mentee, c.ID, sessionRequest(fixedNow.Add(3*time.Hour), 45))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	cancelled, err := env.sessions.Cancel(ctx, mentee, other.ID, &CancelSessionRequest{Reason: strPtr("sick")})
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != models.SessionCancelled || cancelled.CancelReason == nil || *cancelled.CancelReason != "sick" {
		t.Errorf("Cancel() = %+v", cancelled)
	}

	_, err = env.sessions.Complete(ctx, mentor, other.ID, &CompleteSessionRequest{Rating: 3})
	assertKind(t, err, KindInvalidState)
	_, err = env.sessions.Cancel(ctx, mentor, 999, &CancelSessionRequest{})
	assertKind(t, err, KindNotFound)
}

func TestSessionService_ListUpcoming(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.activeConnection(t, mentee, mentor)
	b := env.activeConnection(t, mentee, tutor)

	late, _ := env.sessions.Create(ctx, mentee, a.ID, sessionRequest(fixedNow.Add(48*time.Hour), 60))
	early, _ := env.sessions.Create(ctx, tutor, b.ID, sessionRequest(fixedNow.Add(2*time.Hour), 30))
	gone, _ := env.sessions.Create(ctx, mentor, a.ID, sessionRequest(fixedNow.Add(5*time.Hour), 30))
	if _, err := env.sessions.Cancel(ctx, mentor, gone.ID, &CancelSessionRequest{}); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	upcoming, err := env.sessions.ListUpcoming(ctx, mentee)
	if err != nil {
		t.Fatalf("ListUpcoming() error = %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].ID != early.ID || upcoming[1].ID != late.ID {
		t.Fatalf("ListUpcoming() = %d sessions, want [%d %d] by scheduled_at", len(upcoming), early.ID, late.ID)
	}

	if _, err := env.connections.Complete(ctx, mentee, b.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	upcoming, _ = env.sessions.ListUpcoming(ctx, mentee)
	if len(upcoming) != 1 || upcoming[0].ID != late.ID {
		t.Errorf("ListUpcoming() after completing a connection = %d sessions", len(upcoming))
	}

	mentorUpcoming, _ := env.sessions.ListUpcoming(ctx, mentor)
	if len(mentorUpcoming) != 1 {
		t.Errorf("mentor ListUpcoming() = %d sessions, want 1", len(mentorUpcoming))
	}
}
