package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/mentorship-service/internal/cache"
	"github.com/SAP-F-2025/mentorship-service/internal/events"
	"github.com/SAP-F-2025/mentorship-service/internal/models"
	"github.com/SAP-F-2025/mentorship-service/internal/repositories/memory"
	"github.com/SAP-F-2025/mentorship-service/internal/storage"
	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

var (
	mentee   = models.NewActor("mentee-1", models.RoleStudent)
	mentee2  = models.NewActor("mentee-2", models.RoleStudent)
	mentor   = models.NewActor("mentor-1", models.RoleMentor)
	tutor    = models.NewActor("tutor-1", models.RoleTutor)
	outsider = models.NewActor("outsider", models.RoleStudent)

	fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

// testEnv wires every service against the in-memory repository
type testEnv struct {
	repo      *memory.MemoryRepository
	users     *memory.UserDirectory
	publisher *events.MockEventPublisher
	cache     *cache.CacheManager
	redis     *miniredis.Miniredis

	connections *connectionService
	messages    *messageService
	sessions    *sessionService
	work        *workItemService
	ratings     *ratingService
	mentors     *mentorService
	export      *exportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	v := validator.New()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := memory.NewUserDirectory(
		models.User{ID: mentee.ID, FullName: "Mai", Role: models.RoleStudent},
		models.User{ID: mentee2.ID, FullName: "Nam", Role: models.RoleStudent},
		models.User{ID: mentor.ID, FullName: "Thao", Role: models.RoleMentor},
		models.User{ID: tutor.ID, FullName: "Hung", Role: models.RoleTutor},
		models.User{ID: outsider.ID, FullName: "Khoa", Role: models.RoleStudent},
	)

	files, err := storage.NewLocalFileStore(t.TempDir(), "http://files.test", 1<<20)
	if err != nil {
		t.Fatalf("NewLocalFileStore() error = %v", err)
	}

	env := &testEnv{
		repo:      memory.NewRepository(users),
		users:     users,
		publisher: events.NewMockEventPublisher(logger),
		cache:     cache.NewCacheManager(client),
		redis:     mr,
	}

	clock := func() time.Time { return fixedNow }

	env.connections = NewConnectionService(env.repo, env.cache, env.publisher, logger, v, RejectDelete).(*connectionService)
	env.connections.now = clock
	env.messages = NewMessageService(env.repo, env.publisher, logger, v).(*messageService)
	env.messages.now = clock
	env.sessions = NewSessionService(env.repo, env.publisher, logger, v).(*sessionService)
	env.sessions.now = clock
	env.work = NewWorkItemService(env.repo, files, env.publisher, logger, v).(*workItemService)
	env.work.now = clock
	env.ratings = NewRatingService(env.repo, env.cache, env.publisher, logger, v).(*ratingService)
	env.mentors = NewMentorService(env.repo, env.ratings, env.cache, logger, v).(*mentorService)
	env.export = NewExportService(env.repo, logger).(*exportService)

	return env
}

func (e *testEnv) request(t *testing.T, from models.Actor, to models.Actor) *models.Connection {
	t.Helper()
	c, err := e.connections.Request(context.Background(), from, &RequestConnectionRequest{
		MentorID:        to.ID,
		Message:         "Please help with Writing Task 2",
		Goals:           []string{"Band 7 writing"},
		TargetBandScore: 7,
	})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	return c
}

// activeConnection returns an accepted connection between from and to
func (e *testEnv) activeConnection(t *testing.T, from models.Actor, to models.Actor) *models.Connection {
	t.Helper()
	c := e.request(t, from, to)
	accepted, err := e.connections.Respond(context.Background(), to, c.ID, models.DecisionAccept)
	if err != nil {
		t.Fatalf("Respond(accept) error = %v", err)
	}
	return accepted
}

func (e *testEnv) sendText(t *testing.T, actor models.Actor, connectionID uint, content string) *models.Message {
	t.Helper()
	m, err := e.messages.Send(context.Background(), actor, connectionID, &SendMessageRequest{
		MessageType: models.MessageText,
		Content:     content,
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	return m
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("error kind = %s (%v), want %s", got, err, want)
	}
}

func strPtr(s string) *string { return &s }
