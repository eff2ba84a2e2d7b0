package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestWatermillPublisher_InProcessRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	publisher, channel := NewInProcessPublisher("", logger)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := channel.Subscribe(ctx, DefaultTopic)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	event := NewEvent(ConnectionRequested, "mentor-1", map[string]interface{}{"connection_id": 7})
	go func() {
		if err := publisher.Publish(ctx, event); err != nil {
			t.Errorf("Publish() error = %v", err)
		}
	}()

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != event.ID {
			t.Errorf("UUID = %s, want %s", msg.UUID, event.ID)
		}
		if got := msg.Metadata.Get("event_type"); got != string(ConnectionRequested) {
			t.Errorf("event_type = %s", got)
		}
		if got := msg.Metadata.Get("user_id"); got != "mentor-1" {
			t.Errorf("user_id = %s", got)
		}

		var decoded Event
		if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
			t.Fatalf("payload decode error = %v", err)
		}
		if decoded.Source != EventSource || decoded.Version != EventVersion {
			t.Errorf("decoded = %+v", decoded)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(nil)
	ctx := context.Background()

	_ = mock.Publish(ctx, NewEvent(MessageSent, "u1", nil))
	_ = mock.Publish(ctx, NewEvent(SessionScheduled, "u2", nil))

	if got := len(mock.GetPublishedEvents()); got != 2 {
		t.Fatalf("events = %d, want 2", got)
	}
	if got := mock.EventsOfType(SessionScheduled); len(got) != 1 || got[0].UserID != "u2" {
		t.Errorf("EventsOfType() = %+v", got)
	}
	mock.ClearEvents()
	if got := len(mock.GetPublishedEvents()); got != 0 {
		t.Errorf("events after clear = %d", got)
	}
}
