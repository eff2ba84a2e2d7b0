package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories"
)

// tables holds every row by value so snapshots are cheap map copies
type tables struct {
	connections map[uint]models.Connection
	messages    map[uint]models.Message
	sessions    map[uint]models.Session
	workItems   map[uint]models.WorkItem

	nextConnectionID uint
	nextMessageID    uint
	nextSessionID    uint
	nextWorkItemID   uint
}

func newTables() *tables {
	return &tables{
		connections: make(map[uint]models.Connection),
		messages:    make(map[uint]models.Message),
		sessions:    make(map[uint]models.Session),
		workItems:   make(map[uint]models.WorkItem),
	}
}

func (t *tables) snapshot() *tables {
	return &tables{
		connections:      maps.Clone(t.connections),
		messages:         maps.Clone(t.messages),
		sessions:         maps.Clone(t.sessions),
		workItems:        maps.Clone(t.workItems),
		nextConnectionID: t.nextConnectionID,
		nextMessageID:    t.nextMessageID,
		nextSessionID:    t.nextSessionID,
		nextWorkItemID:   t.nextWorkItemID,
	}
}

// store is shared by the root repository and its transaction views.
// txMu serializes transactions, which stands in for row locks; mu guards the maps.
type store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *tables
}

// MemoryRepository is a non-persistent repositories.Repository for local mode and tests.
//
// Transactions are serialized against each other but not isolated from plain reads:
// a transaction writes into the shared tables and a failed one is undone by restoring
// the snapshot taken when it began. A read made outside WithTransaction while another
// transaction is running can observe writes that are later rolled back. Callers that
// write and then validate inside a transaction must not rely on readers being blind
// to the intermediate state.
type MemoryRepository struct {
	store *store
	users repositories.UserRepository
	inTx  bool

	connection *connectionStore
	message    *messageStore
	session    *sessionStore
	workItem   *workItemStore
}

// NewRepository creates an empty in-memory repository backed by the given user directory
func NewRepository(users repositories.UserRepository) *MemoryRepository {
	return newView(&store{data: newTables()}, users, false)
}

func newView(s *store, users repositories.UserRepository, inTx bool) *MemoryRepository {
	return &MemoryRepository{
		store:      s,
		users:      users,
		inTx:       inTx,
		connection: &connectionStore{store: s},
		message:    &messageStore{store: s},
		session:    &sessionStore{store: s},
		workItem:   &workItemStore{store: s},
	}
}

func (r *MemoryRepository) Connection() repositories.ConnectionRepository { return r.connection }
func (r *MemoryRepository) Message() repositories.MessageRepository       { return r.message }
func (r *MemoryRepository) Session() repositories.SessionRepository       { return r.session }
func (r *MemoryRepository) WorkItem() repositories.WorkItemRepository     { return r.workItem }
func (r *MemoryRepository) User() repositories.UserRepository             { return r.users }

// WithTransaction runs fn exclusively and restores the pre-transaction state when fn fails
func (r *MemoryRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	r.store.mu.RLock()
	saved := r.store.data.snapshot()
	r.store.mu.RUnlock()

	if err := fn(newView(r.store, r.users, true)); err != nil {
		r.store.mu.Lock()
		r.store.data = saved
		r.store.mu.Unlock()
		return err
	}
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) Close() error {
	return nil
}

// read runs fn under the read lock
func (s *store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// write runs fn under the write lock
func (s *store) write(fn func(t *tables)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func cloneConnection(c models.Connection) *models.Connection {
	c.Goals = slices.Clone(c.Goals)
	c.FocusAreas = slices.Clone(c.FocusAreas)
	return &c
}

func cloneWorkItem(w models.WorkItem) *models.WorkItem {
	if w.Feedback != nil {
		fb := *w.Feedback
		fb.Suggestions = slices.Clone(fb.Suggestions)
		w.Feedback = &fb
	}
	return &w
}
