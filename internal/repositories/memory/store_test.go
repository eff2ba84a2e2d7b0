package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

func newConnection(t *testing.T, repo *MemoryRepository) *models.Connection {
	t.Helper()
	c := &models.Connection{MentorID: "mentor", MenteeID: "mentee", Status: models.ConnectionActive}
	if err := repo.Connection().Create(context.Background(), c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return c
}

func TestMemoryRepository_TransactionRollback(t *testing.T) {
	repo := NewRepository(NewUserDirectory())
	ctx := context.Background()
	conn := newConnection(t, repo)

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		msg := &models.Message{ConnectionID: conn.ID, SenderID: "mentee", Content: "hello"}
		if err := tx.Message().Create(ctx, msg); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTransaction() error = %v, want boom", err)
	}

	messages, _ := repo.Message().ListByConnection(ctx, conn.ID)
	if len(messages) != 0 {
		t.Errorf("messages after rollback = %d, want 0", len(messages))
	}
}

func TestMemoryRepository_ReadsOutsideTransactionSeeInFlightWrites(t *testing.T) {
	repo := NewRepository(NewUserDirectory())
	ctx := context.Background()
	conn := newConnection(t, repo)

	boom := errors.New("boom")
	var during int
	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		msg := &models.Message{ConnectionID: conn.ID, SenderID: "mentee", Content: "draft"}
		if err := tx.Message().Create(ctx, msg); err != nil {
			return err
		}
		messages, err := repo.Message().ListByConnection(ctx, conn.ID)
		if err != nil {
			return err
		}
		during = len(messages)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTransaction() error = %v, want boom", err)
	}

	if during != 1 {
		t.Errorf("messages visible outside the transaction = %d, want 1", during)
	}
	after, _ := repo.Message().ListByConnection(ctx, conn.ID)
	if len(after) != 0 {
		t.Errorf("messages after rollback = %d, want 0", len(after))
	}
}

func TestConnectionStore_UpdateVersionConflict(t *testing.T) {
	repo := NewRepository(NewUserDirectory())
	ctx := context.Background()
	conn := newConnection(t, repo)

	first, _ := repo.Connection().GetByID(ctx, conn.ID)
	second, _ := repo.Connection().GetByID(ctx, conn.ID)

	first.Status = models.ConnectionCompleted
	if err := repo.Connection().Update(ctx, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if first.Version != 2 {
		t.Errorf("Version = %d, want 2", first.Version)
	}

	second.ConnectionMessage = "stale"
	if err := repo.Connection().Update(ctx, second); !errors.Is(err, repositories.ErrVersionConflict) {
		t.Errorf("stale Update() error = %v, want ErrVersionConflict", err)
	}
}

func TestConnectionStore_DuplicateOpenPair(t *testing.T) {
	repo := NewRepository(NewUserDirectory())
	newConnection(t, repo)

	dup := &models.Connection{MentorID: "mentor", MenteeID: "mentee", Status: models.ConnectionPending}
	if err := repo.Connection().Create(context.Background(), dup); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("Create() error = %v, want ErrDuplicate", err)
	}
}

func TestConnectionStore_DeleteCascades(t *testing.T) {
	repo := NewRepository(NewUserDirectory())
	ctx := context.Background()
	conn := newConnection(t, repo)
	other := &models.Connection{MentorID: "mentor", MenteeID: "someone", Status: models.ConnectionActive}
	_ = repo.Connection().Create(ctx, other)

	_ = repo.Message().Create(ctx, &models.Message{ConnectionID: conn.ID, SenderID: "mentee"})
	_ = repo.Message().Create(ctx, &models.Message{ConnectionID: other.ID, SenderID: "someone"})
	_ = repo.Session().Create(ctx, &models.Session{ConnectionID: conn.ID, Status: models.SessionScheduled})
	_ = repo.WorkItem().Create(ctx, &models.WorkItem{ConnectionID: conn.ID, AuthorID: "mentee"})

	if err := repo.Connection().Delete(ctx, conn.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if msgs, _ := repo.Message().ListByConnection(ctx, conn.ID); len(msgs) != 0 {
		t.Errorf("orphan messages = %d", len(msgs))
	}
	if sessions, _ := repo.Session().ListByConnection(ctx, conn.ID); len(sessions) != 0 {
		t.Errorf("orphan sessions = %d", len(sessions))
	}
	if items, _ := repo.WorkItem().ListByConnection(ctx, conn.ID); len(items) != 0 {
		t.Errorf("orphan work items = %d", len(items))
	}
	if msgs, _ := repo.Message().ListByConnection(ctx, other.ID); len(msgs) != 1 {
		t.Errorf("other connection messages = %d, want 1", len(msgs))
	}
}

func TestMessageStore_OrderAndUnread(t *testing.T) {
	repo := NewRepository(NewUserDirectory())
	ctx := context.Background()
	conn := newConnection(t, repo)

	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	_ = repo.Message().Create(ctx, &models.Message{ConnectionID: conn.ID, SenderID: "mentee", Content: "b", CreatedAt: at})
	_ = repo.Message().Create(ctx, &models.Message{ConnectionID: conn.ID, SenderID: "mentor", Content: "a", CreatedAt: at.Add(-time.Minute)})
	_ = repo.Message().Create(ctx, &models.Message{ConnectionID: conn.ID, SenderID: "mentee", Content: "c", CreatedAt: at})

	msgs, _ := repo.Message().ListByConnection(ctx, conn.ID)
	got := msgs[0].Content + msgs[1].Content + msgs[2].Content
	if got != "abc" {
		t.Errorf("order = %s, want abc", got)
	}

	unread, _ := repo.Message().CountUnread(ctx, conn.ID, "mentor")
	if unread != 2 {
		t.Errorf("CountUnread(mentor) = %d, want 2", unread)
	}
	marked, _ := repo.Message().MarkAllRead(ctx, conn.ID, "mentor", at)
	if marked != 2 {
		t.Errorf("MarkAllRead() = %d, want 2", marked)
	}
	if unread, _ = repo.Message().CountUnread(ctx, conn.ID, "mentor"); unread != 0 {
		t.Errorf("CountUnread after mark = %d", unread)
	}
}
