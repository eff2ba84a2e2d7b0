package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type connectionStore struct {
	store *store
}

func (s *connectionStore) Create(ctx context.Context, connection *models.Connection) error {
	var err error
	s.store.write(func(t *tables) {
		for _, existing := range t.connections {
			if existing.Status.IsOpen() &&
				existing.MentorID == connection.MentorID && existing.MenteeID == connection.MenteeID {
				err = repositories.ErrDuplicate
				return
			}
		}

		now := time.Now()
		t.nextConnectionID++
		connection.ID = t.nextConnectionID
		if connection.Version == 0 {
			connection.Version = 1
		}
		connection.CreatedAt = now
		connection.UpdatedAt = now
		t.connections[connection.ID] = *cloneConnection(*connection)
	})
	return err
}

func (s *connectionStore) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var (
		found models.Connection
		ok    bool
	)
	s.store.read(func(t *tables) {
		found, ok = t.connections[id]
	})
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneConnection(found), nil
}

// GetForUpdate relies on transactions being serialized by the store
func (s *connectionStore) GetForUpdate(ctx context.Context, id uint) (*models.Connection, error) {
	return s.GetByID(ctx, id)
}

func (s *connectionStore) FindOpen(ctx context.Context, mentorID, menteeID string) (*models.Connection, error) {
	var found *models.Connection
	s.store.read(func(t *tables) {
		for _, c := range t.connections {
			if c.Status.IsOpen() && c.MentorID == mentorID && c.MenteeID == menteeID {
				found = cloneConnection(c)
				return
			}
		}
	})
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

func (s *connectionStore) ListByParticipant(ctx context.Context, userID string, filters repositories.ConnectionFilters) ([]*models.Connection, error) {
	result := make([]*models.Connection, 0)
	s.store.read(func(t *tables) {
		for _, c := range t.connections {
			if !c.IsParticipant(userID) {
				continue
			}
			if filters.Status != nil && c.Status != *filters.Status {
				continue
			}
			result = append(result, cloneConnection(c))
		}
	})

	slices.SortFunc(result, func(a, b *models.Connection) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}

func (s *connectionStore) Update(ctx context.Context, connection *models.Connection) error {
	var err error
	s.store.write(func(t *tables) {
		stored, ok := t.connections[connection.ID]
		if !ok {
			err = repositories.ErrNotFound
			return
		}
		if stored.Version != connection.Version {
			err = repositories.ErrVersionConflict
			return
		}
		connection.Version++
		connection.UpdatedAt = time.Now()
		t.connections[connection.ID] = *cloneConnection(*connection)
	})
	return err
}

func (s *connectionStore) Delete(ctx context.Context, id uint) error {
	var err error
	s.store.write(func(t *tables) {
		if _, ok := t.connections[id]; !ok {
			err = repositories.ErrNotFound
			return
		}
		delete(t.connections, id)
		for mid, m := range t.messages {
			if m.ConnectionID == id {
				delete(t.messages, mid)
			}
		}
		for sid, session := range t.sessions {
			if session.ConnectionID == id {
				delete(t.sessions, sid)
			}
		}
		for wid, w := range t.workItems {
			if w.ConnectionID == id {
				delete(t.workItems, wid)
			}
		}
	})
	return err
}

func (s *connectionStore) MentorRatingSummary(ctx context.Context, mentorID string) (*models.RatingSummary, error) {
	summary := &models.RatingSummary{MentorID: mentorID}
	s.store.read(func(t *tables) {
		total := 0
		for _, c := range t.connections {
			if c.MentorID == mentorID && c.MentorRating != nil {
				total += *c.MentorRating
				summary.Count++
			}
		}
		if summary.Count > 0 {
			summary.Average = float64(total) / float64(summary.Count)
		}
	})
	return summary, nil
}
