package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type messageStore struct {
	store *store
}

func (s *messageStore) Create(ctx context.Context, message *models.Message) error {
	s.store.write(func(t *tables) {
		t.nextMessageID++
		message.ID = t.nextMessageID
		if message.CreatedAt.IsZero() {
			message.CreatedAt = time.Now()
		}
		t.messages[message.ID] = *message
	})
	return nil
}

func (s *messageStore) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var (
		found models.Message
		ok    bool
	)
	s.store.read(func(t *tables) {
		found, ok = t.messages[id]
	})
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &found, nil
}

func (s *messageStore) GetByClientID(ctx context.Context, connectionID uint, senderID, clientMessageID string) (*models.Message, error) {
	var found *models.Message
	s.store.read(func(t *tables) {
		for _, m := range t.messages {
			if m.ConnectionID == connectionID && m.SenderID == senderID &&
				m.ClientMessageID != nil && *m.ClientMessageID == clientMessageID {
				found = &m
				return
			}
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

func (s *messageStore) Last(ctx context.Context, connectionID uint) (*models.Message, error) {
	messages, _ := s.ListByConnection(ctx, connectionID)
	if len(messages) == 0 {
		return nil, repositories.ErrNotFound
	}
	return messages[len(messages)-1], nil
}

func (s *messageStore) ListByConnection(ctx context.Context, connectionID uint) ([]*models.Message, error) {
	result := make([]*models.Message, 0)
	s.store.read(func(t *tables) {
		for _, m := range t.messages {
			if m.ConnectionID == connectionID {
				result = append(result, &m)
			}
		}
	})

	slices.SortFunc(result, func(a, b *models.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (s *messageStore) Update(ctx context.Context, message *models.Message) error {
	var err error
	s.store.write(func(t *tables) {
		if _, ok := t.messages[message.ID]; !ok {
			err = repositories.ErrNotFound
			return
		}
		t.messages[message.ID] = *message
	})
	return err
}

func (s *messageStore) MarkAllRead(ctx context.Context, connectionID uint, readerID string, at time.Time) (int64, error) {
	var count int64
	s.store.write(func(t *tables) {
		for id, m := range t.messages {
			if m.ConnectionID == connectionID && m.SenderID != readerID && !m.IsRead {
				m.IsRead = true
				m.ReadAt = &at
				t.messages[id] = m
				count++
			}
		}
	})
	return count, nil
}

func (s *messageStore) CountUnread(ctx context.Context, connectionID uint, readerID string) (int64, error) {
	var count int64
	s.store.read(func(t *tables) {
		for _, m := range t.messages {
			if m.ConnectionID == connectionID && m.SenderID != readerID && !m.IsRead {
				count++
			}
		}
	})
	return count, nil
}
