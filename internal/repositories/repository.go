package repositories

import "context"

// Repository aggregates the per-entity repositories behind one interface so
// the backing store (in-memory or PostgreSQL) can be chosen at process start.
type Repository interface {
	User() UserRepository
	Exam() ExamRepository
	Enrollment() EnrollmentRepository
	Alert() AlertRepository

	// WithTransaction runs fn against a transactional view of the store.
	// The in-memory backend runs fn directly; its operations are
	// individually atomic but there is no rollback.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
