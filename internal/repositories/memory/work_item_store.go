package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

type workItemStore struct {
	store *store
}

func (s *workItemStore) Create(ctx context.Context, item *models.WorkItem) error {
	s.store.write(func(t *tables) {
		now := time.Now()
		t.nextWorkItemID++
		item.ID = t.nextWorkItemID
		item.CreatedAt = now
		item.UpdatedAt = now
		t.workItems[item.ID] = *cloneWorkItem(*item)
	})
	return nil
}

func (s *workItemStore) GetByID(ctx context.Context, id uint) (*models.WorkItem, error) {
	var (
		found models.WorkItem
		ok    bool
	)
	s.store.read(func(t *tables) {
		found, ok = t.workItems[id]
	})
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneWorkItem(found), nil
}

func (s *workItemStore) Update(ctx context.Context, item *models.WorkItem) error {
	var err error
	s.store.write(func(t *tables) {
		if _, ok := t.workItems[item.ID]; !ok {
			err = repositories.ErrNotFound
			return
		}
		item.UpdatedAt = time.Now()
		t.workItems[item.ID] = *cloneWorkItem(*item)
	})
	return err
}

func (s *workItemStore) ListByConnection(ctx context.Context, connectionID uint) ([]*models.WorkItem, error) {
	result := make([]*models.WorkItem, 0)
	s.store.read(func(t *tables) {
		for _, w := range t.workItems {
			if w.ConnectionID == connectionID {
				result = append(result, cloneWorkItem(w))
			}
		}
	})

	slices.SortFunc(result, func(a, b *models.WorkItem) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}
