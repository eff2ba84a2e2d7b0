package repositories

import "context"

// Repository aggregates every repository of the service
type Repository interface {
	Connection() ConnectionRepository
	Message() MessageRepository
	Session() SessionRepository
	WorkItem() WorkItemRepository

	// User directory (read-only, backed by the identity provider)
	User() UserRepository

	// WithTransaction runs fn against repositories bound to one transaction.
	// Any error returned by fn rolls back every write made through them.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
