package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type sessionStore struct {
	store *store
}

func (s *sessionStore) Create(ctx context.Context, session *models.Session) error {
	s.store.write(func(t *tables) {
		now := time.Now()
		t.nextSessionID++
		session.ID = t.nextSessionID
		session.CreatedAt = now
		session.UpdatedAt = now
		t.sessions[session.ID] = *session
	})
	return nil
}

func (s *sessionStore) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var (
		found models.Session
		ok    bool
	)
	s.store.read(func(t *tables) {
		found, ok = t.sessions[id]
	})
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &found, nil
}

func (s *sessionStore) Update(ctx context.Context, session *models.Session) error {
	var err error
	s.store.write(func(t *tables) {
		if _, ok := t.sessions[session.ID]; !ok {
			err = repositories.ErrNotFound
			return
		}
		session.UpdatedAt = time.Now()
		t.sessions[session.ID] = *session
	})
	return err
}

func (s *sessionStore) ListByConnection(ctx context.Context, connectionID uint) ([]*models.Session, error) {
	return s.list(func(session models.Session) bool {
		return session.ConnectionID == connectionID
	}), nil
}

func (s *sessionStore) ListScheduled(ctx context.Context, connectionIDs []uint) ([]*models.Session, error) {
	return s.list(func(session models.Session) bool {
		return session.Status == models.SessionScheduled && slices.Contains(connectionIDs, session.ConnectionID)
	}), nil
}

func (s *sessionStore) list(match func(models.Session) bool) []*models.Session {
	result := make([]*models.Session, 0)
	s.store.read(func(t *tables) {
		for _, session := range t.sessions {
			if match(session) {
				result = append(result, &session)
			}
		}
	})

	slices.SortFunc(result, func(a, b *models.Session) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}
